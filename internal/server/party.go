package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	partydomain "github.com/smallbiznis/kirana/internal/party/domain"
	"github.com/smallbiznis/kirana/pkg/db/pagination"
)

func (s *Server) ListParties(c *gin.Context) {
	sess := sessionFrom(c)

	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	kind := partydomain.Kind(c.Query("kind"))

	parties, err := s.partySvc.List(c.Request.Context(), sess.OrgID, kind, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"parties": parties})
}

func (s *Server) CreateParty(c *gin.Context) {
	sess := sessionFrom(c)

	var req partydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	p, err := s.partySvc.Create(c.Request.Context(), sess.OrgID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) GetPartyByID(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	p, err := s.partySvc.Get(c.Request.Context(), sess.OrgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) UpdateParty(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req partydomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	p, err := s.partySvc.Update(c.Request.Context(), sess.OrgID, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) DeleteParty(c *gin.Context) {
	sess := sessionFrom(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.partySvc.Delete(c.Request.Context(), sess.OrgID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
