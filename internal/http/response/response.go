package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yungbote/classbridge-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError answers with the status and code carried by err.
func RespondServiceError(c *gin.Context, err error) {
	apiErr := apierr.FromError(err)
	if apiErr == nil {
		apiErr = apierr.New(http.StatusInternalServerError, "internal", nil)
	}
	RespondError(c, apiErr.Status, apiErr.Code, apiErr.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// Message is the {success, message} body used by write endpoints.
type Message struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func RespondMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Message{Success: true, Message: msg})
}
