package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router: public registration/login endpoints, then every
// note, assignment, contact and history route behind JWT authentication.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Recoverer)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/notes", func(r chi.Router) {
			r.Post("/", h.createNote)
			r.Get("/orphans", h.getOrphanNotes)
			r.Get("/{noteID}", h.getNote)
			r.Put("/{noteID}", h.updateNote)
			r.Delete("/{noteID}", h.deleteNote)
			r.Get("/{noteID}/history/deletions", h.getDeletionHistory)
			r.Get("/{noteID}/history/completions", h.getCompletionHistory)
		})

		r.Route("/api/assignments", func(r chi.Router) {
			r.Post("/", h.createAssignment)
			r.Get("/unread", h.listUnreadAssignments)
			r.Put("/{assignmentID}", h.updateAssignment)
			r.Delete("/{assignmentID}", h.deleteAssignment)
			r.Post("/{assignmentID}/priority", h.toggleAssignmentPriority)
			r.Put("/{assignmentID}/status", h.updateAssignmentStatus)
		})

		r.Route("/api/contacts", func(r chi.Router) {
			r.Post("/", h.createContact)
			r.Get("/", h.listContacts)
			r.Get("/assignable", h.listAssignableUsers)
			r.Put("/{contactID}", h.updateContact)
			r.Delete("/{contactID}", h.deleteContact)
		})
	})

	return router
}
