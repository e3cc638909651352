package deposit

import (
	"github.com/smallfactory/bookkeeper/internal/deposit/repository"
	"github.com/smallfactory/bookkeeper/internal/deposit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("deposit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
