package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/smallbiznis/kirana/internal/payment/domain"
	"github.com/smallbiznis/kirana/pkg/db/pagination"
)

func (s *Server) ListPayments(c *gin.Context) {
	sess := sessionFrom(c)

	var filter paymentdomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	payments, err := s.paymentSvc.List(c.Request.Context(), sess.OrgID, filter, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (s *Server) RecordPayment(c *gin.Context) {
	sess := sessionFrom(c)

	var req paymentdomain.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	p, err := s.paymentSvc.Record(c.Request.Context(), sess.OrgID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) GetPaymentByID(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	p, err := s.paymentSvc.Get(c.Request.Context(), sess.OrgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
