// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage provides the concrete implementation.
package repository

import (
	"context"

	"github.com/Rakabidaasta/npc-hackaton/internal/model"
)

type UserRepository interface {
	// Create inserts a new user and fills in ID and CreatedAt. A duplicate
	// email violates the store-level unique index and comes back as an
	// apperror.ErrConflict.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type MessageRepository interface {
	// Create inserts a new message and fills in ID and CreatedAt.
	Create(ctx context.Context, msg *model.Message) error
	// ListRecent returns up to limit messages, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.Message, error)
}
