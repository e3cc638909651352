package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallfactory/bookkeeper/internal/config"
	"github.com/smallfactory/bookkeeper/internal/debt"
	debtdomain "github.com/smallfactory/bookkeeper/internal/debt/domain"
	"github.com/smallfactory/bookkeeper/internal/deposit"
	depositdomain "github.com/smallfactory/bookkeeper/internal/deposit/domain"
	"github.com/smallfactory/bookkeeper/internal/expense"
	expensedomain "github.com/smallfactory/bookkeeper/internal/expense/domain"
	"github.com/smallfactory/bookkeeper/internal/report"
	reportdomain "github.com/smallfactory/bookkeeper/internal/report/domain"
	"github.com/smallfactory/bookkeeper/internal/sale"
	saledomain "github.com/smallfactory/bookkeeper/internal/sale/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	sale.Module,
	debt.Module,
	expense.Module,
	deposit.Module,
	report.Module,
	fx.Provide(NewHTTPMetrics),
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware(log))
	r.Use(MetricsMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	saleSvc    saledomain.Service
	debtSvc    debtdomain.Service
	expenseSvc expensedomain.Service
	depositSvc depositdomain.Service
	reportSvc  reportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	SaleSvc    saledomain.Service
	DebtSvc    debtdomain.Service
	ExpenseSvc expensedomain.Service
	DepositSvc depositdomain.Service
	ReportSvc  reportdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		saleSvc:    p.SaleSvc,
		debtSvc:    p.DebtSvc,
		expenseSvc: p.ExpenseSvc,
		depositSvc: p.DepositSvc,
		reportSvc:  p.ReportSvc,
	}

	s.registerAPIRoutes()

	return s
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.POST("/sales", s.CreateSale)
	api.GET("/sales", s.ListSales)
	api.GET("/sales/:id", s.GetSaleByID)
	api.PUT("/sales/:id", s.UpdateSale)
	api.DELETE("/sales/:id", s.DeleteSale)

	api.POST("/debts", s.CreateDebt)
	api.GET("/debts", s.ListDebts)
	api.GET("/debts/:id", s.GetDebtByID)
	api.DELETE("/debts/:id", s.DeleteDebt)
	api.POST("/debts/:id/payments", s.RecordDebtPayment)

	api.POST("/expenses", s.CreateExpense)
	api.GET("/expenses", s.ListExpenses)
	api.GET("/expenses/:id", s.GetExpenseByID)
	api.PUT("/expenses/:id", s.UpdateExpense)
	api.DELETE("/expenses/:id", s.DeleteExpense)

	api.POST("/deposits", s.CreateDeposit)
	api.GET("/deposits", s.ListDeposits)
	api.GET("/deposits/:id", s.GetDepositByID)
	api.PUT("/deposits/:id", s.UpdateDeposit)
	api.DELETE("/deposits/:id", s.DeleteDeposit)

	api.GET("/reports/summary", s.GetSummary)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
