package expense

import (
	"github.com/smallfactory/bookkeeper/internal/expense/repository"
	"github.com/smallfactory/bookkeeper/internal/expense/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
