package report

import (
	"github.com/smallfactory/bookkeeper/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(service.New),
)
