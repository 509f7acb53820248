package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cadet-admin-api/internal/service"
	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
)

func invalidParam(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}

func invalidPayload(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}

// pathID parses the :id path segment as a positive integer.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidParam("id must be a positive integer")
	}
	return id, nil
}

// queryInt returns 0 when name is absent.
func queryInt(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, invalidParam(fmt.Sprintf("%s must be a non-negative integer", name))
	}
	return v, nil
}

// maxWindowDays bounds look-back and look-ahead windows to ten years.
const maxWindowDays = 3650

// queryDays parses a day window; 0 when absent.
func queryDays(c *gin.Context) (int, error) {
	days, err := queryInt(c, "days")
	if err != nil {
		return 0, err
	}
	if days > maxWindowDays {
		return 0, invalidParam(fmt.Sprintf("days must be at most %d", maxWindowDays))
	}
	return days, nil
}

func queryID(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, invalidParam(fmt.Sprintf("%s must be a positive integer", name))
	}
	return v, nil
}

func queryBool(c *gin.Context, name string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Query(name)), "true")
}

// queryDate returns nil when name is absent.
func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	date, err := service.ParseDate(raw, time.Local)
	if err != nil {
		return nil, invalidParam(fmt.Sprintf("%s must be YYYY-MM-DD", name))
	}
	return &date, nil
}
