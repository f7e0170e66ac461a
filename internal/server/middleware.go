package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/kirana/internal/access"
	"github.com/smallbiznis/kirana/internal/permission"
	"go.uber.org/zap"
)

const contextSessionKey = "access_session"

// WebAuthRequired authenticates the session cookie and resolves the access
// grant for this request. The grant is re-derived on every request; nothing
// about permissions is read from the cookie itself.
func (s *Server) WebAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authsvc.UserForToken(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		sess, err := s.resolver.Resolve(c.Request.Context(), access.Identity{
			UserID: user.ID,
			OrgID:  user.OrgID,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextSessionKey, sess)
		c.Next()
	}
}

// Require guards a route with a permission check. An inactive subscription
// answers 402 with the plan-selection path before permissions are consulted.
func (s *Server) Require(p permission.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if sess == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		decision := sess.Guard(p)
		if target, ok := decision.Redirect(); ok {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"redirect_to": target})
			return
		}
		if !decision.Allowed() {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireEvenInactive checks the permission but skips the subscription
// gate. Only the billing routes use it; everything else would deadlock an
// expired tenant out of the page that fixes the expiry.
func (s *Server) RequireEvenInactive(p permission.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if sess == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !sess.Can(p) {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// PublicRateLimit applies the shared token bucket per client IP and route.
// Limiter errors fail open; an unreachable redis must not take the public
// catalogue down with it.
func (s *Server) PublicRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		key := fmt.Sprintf("ratelimit:%s:%s", route, c.ClientIP())

		res, err := s.limiter.Allow(c.Request.Context(), key, s.cfg.PublicRatePerSec, s.cfg.PublicRateBurst)
		if err != nil {
			s.log.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if !res.Allowed {
			s.metrics.ObserveRateLimitDenied(route)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: errorPayload{
				Type:    "rate_limited",
				Message: "too many requests",
			}})
			return
		}
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *access.Session {
	v, ok := c.Get(contextSessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*access.Session)
	return sess
}

func parseID(raw string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
