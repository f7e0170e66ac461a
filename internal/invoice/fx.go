package invoice

import (
	"github.com/smallbiznis/kirana/internal/invoice/pdf"
	"github.com/smallbiznis/kirana/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(
		service.New,
		pdf.NewRenderer,
	),
)
