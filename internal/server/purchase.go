package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	purchasedomain "github.com/smallbiznis/kirana/internal/purchase/domain"
	"github.com/smallbiznis/kirana/pkg/db/pagination"
)

func (s *Server) ListPurchases(c *gin.Context) {
	sess := sessionFrom(c)

	var filter purchasedomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	purchases, err := s.purchaseSvc.List(c.Request.Context(), sess.OrgID, filter, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

func (s *Server) CreatePurchase(c *gin.Context) {
	sess := sessionFrom(c)

	var req purchasedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	p, err := s.purchaseSvc.Create(c.Request.Context(), sess.OrgID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) GetPurchaseByID(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	p, err := s.purchaseSvc.Get(c.Request.Context(), sess.OrgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) DeletePurchase(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.purchaseSvc.Delete(c.Request.Context(), sess.OrgID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
