package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/ringkeeper/internal/common"
	"github.com/dmitrijs2005/ringkeeper/internal/server/validation"
	"github.com/gin-gonic/gin"
)

// Client-facing messages.
const (
	MsgInvalidToken       = "Invalid token"
	MsgInvalidInput       = "Invalid input"
	MsgRingNotFound       = "Ring not found"
	MsgUserNotFound       = "User not found"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserExists         = "User already exists"
	MsgInternal           = "Internal server error"
)

type errorResponse struct {
	Message string            `json:"message"`
	Errors  validation.Report `json:"errors,omitempty"`
}

// normalize maps err onto a status code and body. Anything it does not
// recognise, deadlines and cancellations included, is internal.
func normalize(err error) (int, errorResponse) {
	var valErr *validation.Error
	var refErr *common.ReferenceError

	switch {
	case errors.Is(err, common.ErrTokenMissing),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, errorResponse{Message: MsgInvalidToken}

	case errors.As(err, &valErr):
		return http.StatusBadRequest, errorResponse{Message: MsgInvalidInput, Errors: valErr.Report}

	case errors.As(err, &refErr):
		return http.StatusBadRequest, errorResponse{
			Message: MsgInvalidInput,
			Errors:  validation.FieldError(refErr.Field, MsgUserNotFound).Report,
		}

	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorResponse{Message: MsgRingNotFound}

	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, errorResponse{Message: MsgInvalidCredentials}

	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, errorResponse{Message: MsgUserExists}
	}

	return http.StatusInternalServerError, errorResponse{Message: MsgInternal}
}

// writeError is the only place an error becomes a response.
func (s *Server) writeError(c *gin.Context, err error) {
	status, body := normalize(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	c.JSON(status, body)
}
