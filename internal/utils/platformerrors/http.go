package platformerrors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse represents the standard error response format.
type HTTPErrorResponse struct {
	Error *HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail contains error details for HTTP responses.
type HTTPErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError writes an error as an HTTP response. A PlatformError is mapped
// to its status code; anything else becomes an internal error.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	var platformErr *PlatformError
	if err == nil || !errors.As(err, &platformErr) {
		message := "unknown error"
		if err != nil {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, HTTPErrorResponse{
			Error: &HTTPErrorDetail{Message: message, Type: "internal_error"},
		})
		return
	}

	log.Error().
		Err(platformErr).
		Str("layer", string(platformErr.Layer)).
		Str("error_type", string(platformErr.Type)).
		Str("request_id", platformErr.RequestID).
		Msg(platformErr.Message)

	c.JSON(ErrorTypeToHTTPStatus(platformErr.Type), HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   platformErr.Message,
			Type:      strings.ToLower(string(platformErr.Type)),
			RequestID: platformErr.RequestID,
		},
	})
}
