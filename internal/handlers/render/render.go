// Package render maps service errors onto console responses.
package render

import (
	"errors"
	"net/http"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/guard"
	"github.com/GlebRadaev/proxyconsole/pkg/utils"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"go.uber.org/zap"
)

// Error writes the response for err. A session that expired during the
// request turns into a redirect to wherever the guard sent it.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ne *client.NetworkError
		ae *client.ApplicationError
	)
	switch {
	case client.IsSessionExpired(err):
		if to, ok := guard.PendingRedirect(r.Context()); ok {
			http.Redirect(w, r, to, http.StatusFound)
			return
		}
		utils.RespondWithError(w, http.StatusUnauthorized, "Session expired")
	case errors.Is(err, validate.ErrInvalidInput):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &ae):
		utils.RespondWithJSON(w, http.StatusUnprocessableEntity, utils.Response{Message: ae.Message, Code: ae.Code})
	case errors.As(err, &ne):
		if ne.Timeout() {
			utils.RespondWithError(w, http.StatusGatewayTimeout, "Backend timed out")
			return
		}
		utils.RespondWithError(w, http.StatusBadGateway, "Backend unavailable")
	default:
		zap.L().Error("unexpected error", zap.String("path", r.URL.Path), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
