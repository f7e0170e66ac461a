package payment

import (
	"github.com/smallbiznis/kirana/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(service.New),
)
