package service

import (
	"github.com/tmercier/noteshare/internal/config"
	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/internal/store"
)

// Services bundles every business-logic service behind its interface so
// the transport layer depends on one injected value.
type Services struct {
	AuthService       AuthService
	ContactService    ContactService
	NoteService       NoteService
	AssignmentService AssignmentService
	HistoryService    HistoryService
}

// NewServices wires every service onto the shared repositories.
func NewServices(storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:       NewAuthService(storages.UserRepository, storages.ActionLogRepository, cfg.Auth, logger),
		ContactService:    NewContactService(storages.ContactRepository, storages.UserRepository, storages.ActionLogRepository, logger),
		NoteService:       NewNoteService(storages.NoteRepository, storages.AssignmentRepository, storages.UserRepository, storages.ActionLogRepository, logger),
		AssignmentService: NewAssignmentService(storages.AssignmentRepository, storages.NoteRepository, storages.UserRepository, storages.ContactRepository, storages.ActionLogRepository, logger),
		HistoryService:    NewHistoryService(storages.NoteRepository, storages.UserRepository, storages.ActionLogRepository, logger),
	}
}
