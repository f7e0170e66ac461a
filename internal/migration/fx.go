package migration

import (
	authdomain "github.com/smallbiznis/kirana/internal/auth/domain"
	catalogdomain "github.com/smallbiznis/kirana/internal/catalog/domain"
	"github.com/smallbiznis/kirana/internal/config"
	invoicedomain "github.com/smallbiznis/kirana/internal/invoice/domain"
	partydomain "github.com/smallbiznis/kirana/internal/party/domain"
	paymentdomain "github.com/smallbiznis/kirana/internal/payment/domain"
	purchasedomain "github.com/smallbiznis/kirana/internal/purchase/domain"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Non-postgres deployments (mysql, embedded sqlite) derive the
		// schema from the models instead.
		return conn.AutoMigrate(
			&tenantdomain.Tenant{},
			&authdomain.User{},
			&authdomain.AuthSession{},
			&catalogdomain.Item{},
			&partydomain.Party{},
			&invoicedomain.Invoice{},
			&invoicedomain.Line{},
			&invoicedomain.Sequence{},
			&purchasedomain.Purchase{},
			&purchasedomain.Line{},
			&paymentdomain.Payment{},
		)
	}),
)
