package sale

import (
	"github.com/smallfactory/bookkeeper/internal/sale/repository"
	"github.com/smallfactory/bookkeeper/internal/sale/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sale.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
