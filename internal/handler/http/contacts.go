package http

import (
	"encoding/json"
	"net/http"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/internal/utils"
	"github.com/tmercier/noteshare/models"
)

// createContactRequest is the payload accepted by POST /api/contacts.
type createContactRequest struct {
	ContactUserID int64  `json:"contact_user_id"`
	Nickname      string `json:"nickname"`
	Action        string `json:"action"`
}

func (h *Handler) createContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req createContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	view, err := h.services.ContactService.CreateContact(ctx, userID, models.Contact{
		ContactUserID: req.ContactUserID,
		Nickname:      req.Nickname,
		Action:        req.Action,
	})
	if err != nil {
		respondError(w, r, err, "contact creation failed")
		return
	}

	utils.WriteJSON(w, view, http.StatusCreated)
}

func (h *Handler) listContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	views, err := h.services.ContactService.ListContacts(ctx, userID)
	if err != nil {
		respondError(w, r, err, "contact listing failed")
		return
	}

	utils.WriteJSON(w, views, http.StatusOK)
}

func (h *Handler) listAssignableUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	refs, err := h.services.ContactService.ListAssignableUsers(ctx, userID)
	if err != nil {
		respondError(w, r, err, "assignable user listing failed")
		return
	}

	utils.WriteJSON(w, refs, http.StatusOK)
}

// updateContactRequest is the payload accepted by PUT /api/contacts/{contactID}.
// Absent fields are left unchanged.
type updateContactRequest struct {
	Nickname *string `json:"nickname,omitempty"`
	Action   *string `json:"action,omitempty"`
}

func (h *Handler) updateContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	contactID, ok := pathID(w, r, "contactID")
	if !ok {
		return
	}

	var req updateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	view, err := h.services.ContactService.UpdateContact(ctx, userID, models.ContactUpdate{
		ContactID: contactID,
		Nickname:  req.Nickname,
		Action:    req.Action,
	})
	if err != nil {
		respondError(w, r, err, "contact update failed")
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}

func (h *Handler) deleteContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	contactID, ok := pathID(w, r, "contactID")
	if !ok {
		return
	}

	view, err := h.services.ContactService.DeleteContact(ctx, userID, contactID)
	if err != nil {
		respondError(w, r, err, "contact deletion failed")
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}
