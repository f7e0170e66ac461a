package auth

import (
	"github.com/smallbiznis/kirana/internal/access"
	"github.com/smallbiznis/kirana/internal/auth/domain"
	"github.com/smallbiznis/kirana/internal/auth/service"
	"github.com/smallbiznis/kirana/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
	fx.Provide(func(svc domain.Service) access.RoleLookup { return svc }),
)
