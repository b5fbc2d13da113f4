package http

import (
	"errors"
	"net/http"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/internal/service"
	"github.com/tmercier/noteshare/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrInvalidUsername:     http.StatusBadRequest,
	service.ErrInvalidEmail:        http.StatusBadRequest,
	service.ErrEmptyContent:        http.StatusBadRequest,
	service.ErrContentTooLong:      http.StatusBadRequest,
	service.ErrInvalidStatus:       http.StatusBadRequest,
	service.ErrWrongPassword:       http.StatusUnauthorized,
	service.ErrTokenIsExpired:      http.StatusUnauthorized,
	service.ErrForbidden:           http.StatusForbidden,

	store.ErrUsernameOrEmailTaken:    http.StatusConflict,
	store.ErrUserNotFound:            http.StatusNotFound,
	store.ErrNoteNotFound:            http.StatusNotFound,
	store.ErrNoteAlreadyDeleted:      http.StatusConflict,
	store.ErrAssignmentNotFound:      http.StatusNotFound,
	store.ErrAssignmentAlreadyExists: http.StatusConflict,
	store.ErrContactNotFound:         http.StatusNotFound,
	store.ErrContactAlreadyExists:    http.StatusConflict,
	store.ErrMissingReference:        http.StatusBadRequest,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the mapped status for err with a sanitized message:
// server-side failures never leak their cause to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logger.FromRequest(r)
	log.Err(err).Msg(msg)

	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Error(w, msg, status)
}
