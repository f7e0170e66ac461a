package party

import (
	"github.com/smallbiznis/kirana/internal/party/service"
	"go.uber.org/fx"
)

var Module = fx.Module("party.service",
	fx.Provide(service.New),
)
