package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/kirana/internal/invoice/domain"
	"github.com/smallbiznis/kirana/internal/invoice/pdf"
	"github.com/smallbiznis/kirana/pkg/db/pagination"
)

func (s *Server) ListInvoices(c *gin.Context) {
	sess := sessionFrom(c)

	var filter invoicedomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoices, err := s.invoiceSvc.List(c.Request.Context(), sess.OrgID, filter, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	sess := sessionFrom(c)

	var req invoicedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inv, err := s.invoiceSvc.Create(c.Request.Context(), sess.OrgID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.metrics.ObserveInvoice(inv.Scheme.String(), inv.RoundedTotal)

	c.JSON(http.StatusCreated, inv)
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	inv, err := s.invoiceSvc.Get(c.Request.Context(), sess.OrgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.invoiceSvc.Delete(c.Request.Context(), sess.OrgID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RenderInvoice produces the printable PDF. The action query parameter
// selects the emission: download (default), print (inline), or blob.
func (s *Server) RenderInvoice(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()

	inv, err := s.invoiceSvc.Get(ctx, sess.OrgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	tenant, err := s.tenantSvc.Get(ctx, sess.OrgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc := pdf.Build(tenant, inv)
	body, err := s.renderer.Render(ctx, doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	action := pdf.ParseAction(strings.ToUpper(c.Query("action")))
	rendition := pdf.Emit(action, inv.Number, body)
	if rendition.Disposition != "" {
		c.Header("Content-Disposition", rendition.Disposition)
	}
	c.Data(http.StatusOK, rendition.ContentType, rendition.Body)
}
