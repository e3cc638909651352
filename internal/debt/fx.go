package debt

import (
	"github.com/smallfactory/bookkeeper/internal/debt/repository"
	"github.com/smallfactory/bookkeeper/internal/debt/service"
	"go.uber.org/fx"
)

var Module = fx.Module("debt.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
