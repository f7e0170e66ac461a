package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/kirana/internal/access"
	catalogdomain "github.com/smallbiznis/kirana/internal/catalog/domain"
	"github.com/smallbiznis/kirana/internal/config"
	invoicedomain "github.com/smallbiznis/kirana/internal/invoice/domain"
	paymentdomain "github.com/smallbiznis/kirana/internal/payment/domain"
	"github.com/smallbiznis/kirana/internal/permission"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func injectSession(sess *access.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextSessionKey, sess)
		c.Next()
	}
}

func guardedRouter(srv *Server, sess *access.Session, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/guarded", injectSession(sess), guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestRequire_AllowsGrantedPermission(t *testing.T) {
	srv := &Server{}
	sess := &access.Session{
		Permissions:  permission.NewSet(permission.InvoiceCreate),
		Subscription: tenantdomain.SubscriptionState{Active: true},
	}
	router := guardedRouter(srv, sess, srv.Require(permission.InvoiceCreate))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRequire_ForbidsMissingPermission(t *testing.T) {
	srv := &Server{}
	sess := &access.Session{
		Permissions:  permission.NewSet(permission.CatalogView),
		Subscription: tenantdomain.SubscriptionState{Active: true},
	}
	router := guardedRouter(srv, sess, srv.Require(permission.InvoiceCreate))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRequire_InactiveSubscriptionRedirectsToPlans(t *testing.T) {
	srv := &Server{}
	sess := &access.Session{
		Permissions:  permission.NewSet(permission.InvoiceCreate),
		Subscription: tenantdomain.SubscriptionState{Active: false},
	}
	router := guardedRouter(srv, sess, srv.Require(permission.InvoiceCreate))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	require.Equal(t, http.StatusPaymentRequired, resp.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, access.PlanSelectionPath, body["redirect_to"])
}

func TestRequireEvenInactive_SkipsSubscriptionGate(t *testing.T) {
	srv := &Server{}
	sess := &access.Session{
		Permissions:  permission.NewSet(permission.SubscriptionManage),
		Subscription: tenantdomain.SubscriptionState{Active: false},
	}
	router := guardedRouter(srv, sess, srv.RequireEvenInactive(permission.SubscriptionManage))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRequire_NoSessionIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &Server{}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/guarded", srv.Require(permission.InvoiceCreate), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestPublicRateLimit_PassThroughWithoutLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &Server{
		cfg: config.Config{PublicRatePerSec: 5, PublicRateBurst: 20},
		log: zap.NewNop(),
	}
	router := gin.New()
	router.GET("/public", srv.PublicRateLimit(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/public", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invoice not found", invoicedomain.ErrNotFound, http.StatusNotFound},
		{"insufficient stock", catalogdomain.ErrInsufficientStock, http.StatusConflict},
		{"kind mismatch", paymentdomain.ErrKindMismatch, http.StatusBadRequest},
		{"unauthenticated", access.ErrUnauthenticated, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(ErrorHandlingMiddleware())
			router.GET("/boom", func(c *gin.Context) {
				AbortWithError(c, tc.err)
			})

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

			assert.Equal(t, tc.status, resp.Code)
		})
	}
}
