package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/internal/utils"
)

// userIDFromRequest retrieves the authenticated user id stored by the auth
// middleware. A missing id means the route was wired outside the auth
// group; the request is rejected with 401.
func userIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		logger.FromRequest(r).Error().Msg("no user id in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// pathID parses the named chi URL parameter as an int64, rejecting the
// request with 400 when it is absent or malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logger.FromRequest(r).Error().Str("param", name).Str("value", raw).Msg("invalid id in request path")
		http.Error(w, "invalid id in request path", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
