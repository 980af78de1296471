package handler

import (
	"net/http"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	apperrors "github.com/Payphone-Digital/addressbook/internal/errors"
	"github.com/gin-gonic/gin"
)

// errorResponse maps err onto a status and the {message} envelope. Internal
// failures never expose their cause.
func errorResponse(err error) (int, map[string]any) {
	status := apperrors.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		return status, constants.BuildErrorResponse(constants.MsgInternalError, nil)
	}
	return status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil)
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := errorResponse(err)
	c.JSON(status, body)
}
