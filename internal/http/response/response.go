package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/codewitheasy-admin/internal/data/query"
	pkgerrors "github.com/yungbote/codewitheasy-admin/internal/pkg/errors"
	"github.com/yungbote/codewitheasy-admin/internal/platform/apierr"
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

// RespondAPIError writes err with the status it classifies to.
func RespondAPIError(c *gin.Context, err error) {
	ae := Classify(err)
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

// Classify maps storage sentinels and query validation errors onto API errors.
// Anything unrecognised is a 500 carrying the original message.
func Classify(err error) *apierr.Error {
	if ae, ok := apierr.As(err); ok {
		return ae
	}
	var ve *query.ValidationError
	switch {
	case errors.As(err, &ve):
		return apierr.New(http.StatusBadRequest, apierr.CodeValidation, ve)
	case errors.Is(err, pkgerrors.ErrNotFound):
		return apierr.New(http.StatusNotFound, apierr.CodeNotFound, err)
	case errors.Is(err, pkgerrors.ErrConflict):
		return apierr.Conflict(err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return apierr.New(http.StatusBadRequest, apierr.CodeValidation, err)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return apierr.Unauthorized(err)
	default:
		return apierr.Backend(err)
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
