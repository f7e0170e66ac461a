package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/kirana/internal/catalog/domain"
	"github.com/smallbiznis/kirana/pkg/db/pagination"
)

func (s *Server) ListItems(c *gin.Context) {
	sess := sessionFrom(c)

	var filter catalogdomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items, err := s.catalogSvc.List(c.Request.Context(), sess.OrgID, filter, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) CreateItem(c *gin.Context) {
	sess := sessionFrom(c)

	var req catalogdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.catalogSvc.Create(c.Request.Context(), sess.OrgID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) GetItemByID(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.catalogSvc.Get(c.Request.Context(), sess.OrgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) UpdateItem(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req catalogdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.catalogSvc.Update(c.Request.Context(), sess.OrgID, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) DeleteItem(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.catalogSvc.Delete(c.Request.Context(), sess.OrgID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

func (s *Server) AdjustItemStock(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Delta == 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.catalogSvc.AdjustStock(c.Request.Context(), sess.OrgID, id, req.Delta)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// publicItem is the storefront projection. Cost price and stock counts
// stay private; buyers only see whether an item is available.
type publicItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Unit      string  `json:"unit"`
	ListPrice float64 `json:"list_price"`
	InStock   bool    `json:"in_stock"`
}

// PublicCatalog is the unauthenticated storefront listing, resolved from
// the tenant slug and restricted to listed items.
func (s *Server) PublicCatalog(c *gin.Context) {
	tenant, err := s.tenantSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items, err := s.catalogSvc.PublicList(c.Request.Context(), tenant.ID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]publicItem, 0, len(items))
	for _, item := range items {
		out = append(out, publicItem{
			ID:        item.ID.String(),
			Name:      item.Name,
			Slug:      item.Slug,
			Unit:      item.Unit,
			ListPrice: item.ListPrice,
			InStock:   item.StockQty > 0,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"store": gin.H{"name": tenant.Name, "slug": tenant.Slug},
		"items": out,
	})
}
