/* response.go
 * Contains the helpers that write the response envelope and map api error kinds to status codes
 * Authors: knockout-pool contributors
 */

package web

import (
	"errors"
	"net/http"

	"knockout-pool/api/api"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var kindStatus = []struct {
	kind   error
	status int
}{
	{api.ErrValidation, http.StatusBadRequest},
	{api.ErrUnauthenticated, http.StatusUnauthorized},
	{api.ErrForbidden, http.StatusForbidden},
	{api.ErrNotFound, http.StatusNotFound},
	{api.ErrConflict, http.StatusConflict},
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Status: status, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string, diagnostic string) {
	c.AbortWithStatusJSON(status, Response{Status: status, Message: message, Error: diagnostic})
}

// respondError converts an error returned by the api into a failure response.
// Errors without a kind are infrastructure failures: they are logged and reported without detail
func respondError(c *gin.Context, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		for _, ks := range kindStatus {
			if errors.Is(apiErr.Kind, ks.kind) {
				fail(c, ks.status, apiErr.Message, ks.kind.Error())
				return
			}
		}
	}

	log.Error().
		Err(err).
		Str("requestId", c.GetString(requestIDKey)).
		Str("path", c.FullPath()).
		Msg("request failed")
	fail(c, http.StatusInternalServerError, "Server error", "internal error")
}
