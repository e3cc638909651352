package migration

import (
	"github.com/smallfactory/bookkeeper/internal/config"
	debtdomain "github.com/smallfactory/bookkeeper/internal/debt/domain"
	depositdomain "github.com/smallfactory/bookkeeper/internal/deposit/domain"
	expensedomain "github.com/smallfactory/bookkeeper/internal/expense/domain"
	saledomain "github.com/smallfactory/bookkeeper/internal/sale/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// AutoMigrate creates the schema through gorm for databases without
// versioned migration support (sqlite, mysql).
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&saledomain.Sale{},
		&debtdomain.Debt{},
		&expensedomain.Expense{},
		&depositdomain.Deposit{},
	)
}

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}
		return AutoMigrate(conn)
	}),
)
