package http

import (
	"net/http"

	"github.com/tmercier/noteshare/internal/utils"
)

func (h *Handler) getDeletionHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	noteID, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	records, err := h.services.HistoryService.GetDeletionHistory(ctx, userID, noteID)
	if err != nil {
		respondError(w, r, err, "deletion history retrieval failed")
		return
	}

	utils.WriteJSON(w, records, http.StatusOK)
}

func (h *Handler) getCompletionHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	noteID, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	records, err := h.services.HistoryService.GetCompletionHistory(ctx, userID, noteID)
	if err != nil {
		respondError(w, r, err, "completion history retrieval failed")
		return
	}

	utils.WriteJSON(w, records, http.StatusOK)
}
