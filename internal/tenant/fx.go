package tenant

import (
	"github.com/smallbiznis/kirana/internal/tenant/repository"
	"github.com/smallbiznis/kirana/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
