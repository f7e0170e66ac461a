package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/smallbiznis/kirana/internal/report/domain"
)

// parsePeriod reads the from/to query dates. The range is half-open: the
// "to" day itself is excluded, which lets month filters chain without
// double counting the boundary day.
func parsePeriod(c *gin.Context) (reportdomain.Period, bool) {
	from, errFrom := time.Parse("2006-01-02", c.Query("from"))
	to, errTo := time.Parse("2006-01-02", c.Query("to"))
	if errFrom != nil || errTo != nil {
		return reportdomain.Period{}, false
	}
	return reportdomain.Period{From: from, To: to}, true
}

func (s *Server) GetTaxSummary(c *gin.Context) {
	sess := sessionFrom(c)

	period, ok := parsePeriod(c)
	if !ok {
		AbortWithError(c, reportdomain.ErrInvalidPeriod)
		return
	}

	summary, err := s.reportSvc.TaxSummary(c.Request.Context(), sess.OrgID, period)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) GetProfitAndLoss(c *gin.Context) {
	sess := sessionFrom(c)

	period, ok := parsePeriod(c)
	if !ok {
		AbortWithError(c, reportdomain.ErrInvalidPeriod)
		return
	}

	pnl, err := s.reportSvc.ProfitAndLoss(c.Request.Context(), sess.OrgID, period)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pnl)
}

func (s *Server) GetOutstanding(c *gin.Context) {
	sess := sessionFrom(c)

	rows, err := s.reportSvc.Outstanding(c.Request.Context(), sess.OrgID, c.Query("kind"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outstanding": rows})
}

func (s *Server) GetRestock(c *gin.Context) {
	sess := sessionFrom(c)

	rows, err := s.reportSvc.Restock(c.Request.Context(), sess.OrgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restock": rows})
}
