package http

import (
	"encoding/json"
	"net/http"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/internal/utils"
	"github.com/tmercier/noteshare/models"
)

// createNoteRequest is the payload accepted by POST /api/notes.
type createNoteRequest struct {
	Content   string `json:"content"`
	Important bool   `json:"important"`
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	view, err := h.services.NoteService.CreateNote(ctx, userID, req.Content, req.Important)
	if err != nil {
		respondError(w, r, err, "note creation failed")
		return
	}

	utils.WriteJSON(w, view, http.StatusCreated)
}

func (h *Handler) getNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	noteID, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	view, err := h.services.NoteService.GetNoteForUser(ctx, noteID, userID)
	if err != nil {
		respondError(w, r, err, "note retrieval failed")
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}

// updateNoteRequest is the payload accepted by PUT /api/notes/{noteID}.
// Absent fields are left unchanged.
type updateNoteRequest struct {
	Content   *string `json:"content,omitempty"`
	Important *bool   `json:"important,omitempty"`
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	noteID, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	view, err := h.services.NoteService.UpdateNote(ctx, userID, models.NoteUpdate{
		NoteID:    noteID,
		Content:   req.Content,
		Important: req.Important,
	})
	if err != nil {
		respondError(w, r, err, "note update failed")
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	noteID, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	view, err := h.services.NoteService.DeleteNote(ctx, noteID, userID)
	if err != nil {
		respondError(w, r, err, "note deletion failed")
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}

func (h *Handler) getOrphanNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	views, err := h.services.NoteService.GetOrphanNotes(ctx, userID)
	if err != nil {
		respondError(w, r, err, "orphan note listing failed")
		return
	}

	utils.WriteJSON(w, views, http.StatusOK)
}
