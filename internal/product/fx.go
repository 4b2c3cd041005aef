package product

import (
	"github.com/smallbiznis/kantin/internal/product/repository"
	"github.com/smallbiznis/kantin/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
