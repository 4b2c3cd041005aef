package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/smallbiznis/kantin/internal/report/domain"
)

const dateLayout = "2006-01-02"

// parseRangeQuery reads the inclusive start/end date query parameters.
func parseRangeQuery(c *gin.Context) (reportdomain.RangeRequest, error) {
	start, err := parseDateParam(c, "start")
	if err != nil {
		return reportdomain.RangeRequest{}, err
	}
	end, err := parseDateParam(c, "end")
	if err != nil {
		return reportdomain.RangeRequest{}, err
	}
	return reportdomain.RangeRequest{Start: start, End: end}, nil
}

func parseDateParam(c *gin.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, newValidationError(name, "required", name+" is required")
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, newValidationError(name, "invalid_date", "expected "+dateLayout)
	}
	return t, nil
}

func parseOptionalInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newValidationError(name, "invalid_"+name, "expected an integer")
	}
	return n, nil
}
