package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
)

// UserRepository keeps a local row per identity provider subject so sessions
// can reference users by numeric id.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)

	// Upsert keyed on ExternalID; username, admin flag and last login are refreshed.
	Upsert(ctx context.Context, user *models.User) error
}
