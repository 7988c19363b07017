package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
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

// RespondAppError maps a service error onto its HTTP status. Uncoded errors become a 500 without leaking their text.
func RespondAppError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	code := apperr.CodeOf(err)
	if code == "" {
		code = apperr.CodeInternal
	}
	c.JSON(apperr.HTTPStatus(code), ErrorEnvelope{
		Error: APIError{
			Message: apperr.MessageOf(err),
			Code:    string(code),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
