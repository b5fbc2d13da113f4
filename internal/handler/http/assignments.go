package http

import (
	"encoding/json"
	"net/http"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/internal/utils"
	"github.com/tmercier/noteshare/models"
)

// createAssignmentRequest is the payload accepted by POST /api/assignments.
// IsRead defaults to false; it exists so a creator can pre-mark a
// self-assignment as read.
type createAssignmentRequest struct {
	NoteID int64 `json:"note_id"`
	UserID int64 `json:"user_id"`
	IsRead bool  `json:"is_read"`
}

func (h *Handler) createAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req createAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if req.NoteID <= 0 || req.UserID <= 0 {
		http.Error(w, "note_id and user_id are required", http.StatusBadRequest)
		return
	}

	view, err := h.services.AssignmentService.CreateAssignment(ctx, userID, req.NoteID, req.UserID, req.IsRead)
	if err != nil {
		respondError(w, r, err, "assignment creation failed")
		return
	}

	utils.WriteJSON(w, view, http.StatusCreated)
}

// updateAssignmentRequest is the payload accepted by
// PUT /api/assignments/{assignmentID}. Absent fields are left unchanged.
type updateAssignmentRequest struct {
	IsRead *bool  `json:"is_read,omitempty"`
	UserID *int64 `json:"user_id,omitempty"`
}

func (h *Handler) updateAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	assignmentID, ok := pathID(w, r, "assignmentID")
	if !ok {
		return
	}

	var req updateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	view, err := h.services.AssignmentService.UpdateAssignment(ctx, userID, models.AssignmentUpdate{
		AssignmentID: assignmentID,
		IsRead:       req.IsRead,
		UserID:       req.UserID,
	})
	if err != nil {
		respondError(w, r, err, "assignment update failed")
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}

func (h *Handler) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	assignmentID, ok := pathID(w, r, "assignmentID")
	if !ok {
		return
	}

	view, err := h.services.AssignmentService.DeleteAssignment(ctx, userID, assignmentID)
	if err != nil {
		respondError(w, r, err, "assignment deletion failed")
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}

func (h *Handler) toggleAssignmentPriority(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	assignmentID, ok := pathID(w, r, "assignmentID")
	if !ok {
		return
	}

	view, err := h.services.AssignmentService.TogglePriority(ctx, userID, assignmentID)
	if err != nil {
		respondError(w, r, err, "priority toggle failed")
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}

// updateStatusRequest is the payload accepted by
// PUT /api/assignments/{assignmentID}/status.
type updateStatusRequest struct {
	Status models.RecipientStatus `json:"status"`
}

func (h *Handler) updateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	assignmentID, ok := pathID(w, r, "assignmentID")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	view, err := h.services.AssignmentService.UpdateStatus(ctx, userID, assignmentID, req.Status)
	if err != nil {
		respondError(w, r, err, "status update failed")
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}

func (h *Handler) listUnreadAssignments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	views, err := h.services.AssignmentService.ListUnread(ctx, userID)
	if err != nil {
		respondError(w, r, err, "unread assignment listing failed")
		return
	}

	utils.WriteJSON(w, views, http.StatusOK)
}
