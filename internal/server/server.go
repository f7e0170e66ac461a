// Package server wires the HTTP surface: route registration, session
// middleware, permission guards, and the error-to-status mapping.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/kirana/internal/access"
	"github.com/smallbiznis/kirana/internal/auth"
	authdomain "github.com/smallbiznis/kirana/internal/auth/domain"
	"github.com/smallbiznis/kirana/internal/auth/session"
	"github.com/smallbiznis/kirana/internal/authorization"
	"github.com/smallbiznis/kirana/internal/catalog"
	catalogdomain "github.com/smallbiznis/kirana/internal/catalog/domain"
	"github.com/smallbiznis/kirana/internal/config"
	"github.com/smallbiznis/kirana/internal/invoice"
	invoicedomain "github.com/smallbiznis/kirana/internal/invoice/domain"
	"github.com/smallbiznis/kirana/internal/invoice/pdf"
	"github.com/smallbiznis/kirana/internal/logger"
	obsmetrics "github.com/smallbiznis/kirana/internal/observability/metrics"
	"github.com/smallbiznis/kirana/internal/party"
	partydomain "github.com/smallbiznis/kirana/internal/party/domain"
	"github.com/smallbiznis/kirana/internal/payment"
	paymentdomain "github.com/smallbiznis/kirana/internal/payment/domain"
	"github.com/smallbiznis/kirana/internal/permission"
	"github.com/smallbiznis/kirana/internal/purchase"
	purchasedomain "github.com/smallbiznis/kirana/internal/purchase/domain"
	"github.com/smallbiznis/kirana/internal/ratelimit"
	"github.com/smallbiznis/kirana/internal/report"
	reportdomain "github.com/smallbiznis/kirana/internal/report/domain"
	"github.com/smallbiznis/kirana/internal/tenant"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	authorization.Module,
	auth.Module,
	access.Module,
	tenant.Module,
	catalog.Module,
	party.Module,
	invoice.Module,
	purchase.Module,
	payment.Module,
	report.Module,
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(log.Named("http")))
	r.Use(obsmetrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, m *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(log, m)
}

func run(lc fx.Lifecycle, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	sessions    *session.Manager
	authsvc     authdomain.Service
	resolver    *access.Resolver
	authzSvc    authorization.Service
	tenantSvc   tenantdomain.Service
	catalogSvc  catalogdomain.Service
	partySvc    partydomain.Service
	invoiceSvc  invoicedomain.Service
	purchaseSvc purchasedomain.Service
	paymentSvc  paymentdomain.Service
	reportSvc   reportdomain.Service
	renderer    pdf.Renderer
	limiter     *ratelimit.TokenBucket
	metrics     *obsmetrics.Metrics
	plans       *config.PlanConfigHolder
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	Sessions    *session.Manager
	Authsvc     authdomain.Service
	Resolver    *access.Resolver
	AuthzSvc    authorization.Service
	TenantSvc   tenantdomain.Service
	CatalogSvc  catalogdomain.Service
	PartySvc    partydomain.Service
	InvoiceSvc  invoicedomain.Service
	PurchaseSvc purchasedomain.Service
	PaymentSvc  paymentdomain.Service
	ReportSvc   reportdomain.Service
	Renderer    pdf.Renderer
	Limiter     *ratelimit.TokenBucket `optional:"true"`
	Metrics     *obsmetrics.Metrics
	Plans       *config.PlanConfigHolder
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		sessions:    p.Sessions,
		authsvc:     p.Authsvc,
		resolver:    p.Resolver,
		authzSvc:    p.AuthzSvc,
		tenantSvc:   p.TenantSvc,
		catalogSvc:  p.CatalogSvc,
		partySvc:    p.PartySvc,
		invoiceSvc:  p.InvoiceSvc,
		purchaseSvc: p.PurchaseSvc,
		paymentSvc:  p.PaymentSvc,
		reportSvc:   p.ReportSvc,
		renderer:    p.Renderer,
		limiter:     p.Limiter,
		metrics:     p.Metrics,
		plans:       p.Plans,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/signup", s.Signup)
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.WebAuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.WebAuthRequired())

	// -------- Tenant profile & subscription --------
	api.GET("/tenant", s.GetTenantProfile)
	api.PATCH("/tenant", s.Require(permission.SubscriptionManage), s.UpdateTenantProfile)

	// The billing surface stays reachable for an expired tenant; it is the
	// target the subscription redirect points at.
	api.GET("/billing/plans", s.ListPlans)
	api.POST("/billing/plan", s.RequireEvenInactive(permission.SubscriptionManage), s.ChangePlan)
	api.POST("/billing/renew", s.RequireEvenInactive(permission.SubscriptionManage), s.RenewSubscription)
	api.POST("/billing/deactivate", s.RequireEvenInactive(permission.SubscriptionManage), s.DeactivateSubscription)

	// -------- Roles & permissions --------
	api.GET("/roles", s.Require(permission.PermissionsManage), s.ListRolePermissions)
	api.PUT("/roles/:role/permissions", s.Require(permission.PermissionsManage), s.SetRolePermissions)
	api.DELETE("/roles/:role/permissions", s.Require(permission.PermissionsManage), s.ClearRolePermissions)

	// -------- Catalogue --------
	api.GET("/items", s.Require(permission.CatalogView), s.ListItems)
	api.POST("/items", s.Require(permission.CatalogManage), s.CreateItem)
	api.GET("/items/:id", s.Require(permission.CatalogView), s.GetItemByID)
	api.PATCH("/items/:id", s.Require(permission.CatalogManage), s.UpdateItem)
	api.DELETE("/items/:id", s.Require(permission.CatalogManage), s.DeleteItem)
	api.POST("/items/:id/stock", s.Require(permission.CatalogManage), s.AdjustItemStock)

	// -------- Parties --------
	api.GET("/parties", s.Require(permission.PartyView), s.ListParties)
	api.POST("/parties", s.Require(permission.PartyManage), s.CreateParty)
	api.GET("/parties/:id", s.Require(permission.PartyView), s.GetPartyByID)
	api.PATCH("/parties/:id", s.Require(permission.PartyManage), s.UpdateParty)
	api.DELETE("/parties/:id", s.Require(permission.PartyManage), s.DeleteParty)

	// -------- Invoices --------
	api.GET("/invoices", s.Require(permission.InvoiceView), s.ListInvoices)
	api.POST("/invoices", s.Require(permission.InvoiceCreate), s.CreateInvoice)
	api.GET("/invoices/:id", s.Require(permission.InvoiceView), s.GetInvoiceByID)
	api.DELETE("/invoices/:id", s.Require(permission.InvoiceDelete), s.DeleteInvoice)
	api.GET("/invoices/:id/render", s.Require(permission.InvoiceView), s.RenderInvoice)

	// -------- Purchases --------
	api.GET("/purchases", s.Require(permission.PurchaseView), s.ListPurchases)
	api.POST("/purchases", s.Require(permission.PurchaseCreate), s.CreatePurchase)
	api.GET("/purchases/:id", s.Require(permission.PurchaseView), s.GetPurchaseByID)
	api.DELETE("/purchases/:id", s.Require(permission.PurchaseCreate), s.DeletePurchase)

	// -------- Payments --------
	api.GET("/payments", s.Require(permission.PaymentRecord), s.ListPayments)
	api.POST("/payments", s.Require(permission.PaymentRecord), s.RecordPayment)
	api.GET("/payments/:id", s.Require(permission.PaymentRecord), s.GetPaymentByID)

	// -------- Reports --------
	api.GET("/reports/tax-summary", s.Require(permission.ReportView), s.GetTaxSummary)
	api.GET("/reports/pnl", s.Require(permission.ReportView), s.GetProfitAndLoss)
	api.GET("/reports/outstanding", s.Require(permission.ReportView), s.GetOutstanding)
	api.GET("/reports/restock", s.Require(permission.ReportView), s.GetRestock)
}

func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/public")

	public.GET("/:slug/items", s.PublicRateLimit(), s.PublicCatalog)
}
