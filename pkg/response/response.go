package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
)

// ErrorBody is the JSON contract for failed requests.
type ErrorBody struct {
	Error string `json:"error"`
}

// MutationResult is returned by create, update and delete endpoints.
type MutationResult struct {
	Success bool   `json:"success"`
	ID      *int64 `json:"id,omitempty"`
	Updated *bool  `json:"updated,omitempty"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Success responds with {"success": true} and the affected id when known.
func Success(c *gin.Context, id *int64) {
	JSON(c, http.StatusOK, MutationResult{Success: true, ID: id})
}

// Upserted responds with the id and whether an existing row was overwritten.
func Upserted(c *gin.Context, id int64, updated bool) {
	JSON(c, http.StatusOK, MutationResult{Success: true, ID: &id, Updated: &updated})
}

// Error renders err as {"error": message}. The wrapped cause is attached to the
// gin context for the request logger and never written to the client.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.AbortWithStatusJSON(appErr.Status, ErrorBody{Error: appErr.Message})
}
