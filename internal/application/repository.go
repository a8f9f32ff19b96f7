package application

import "github.com/google/uuid"

type Repository interface {
	// Insert stores one row and returns the store's echo of it,
	// including the assigned id and created_at.
	Insert(userID uuid.UUID, input *CreateInput) (*Application, error)

	// ListByUser returns the user's applications ordered by created_at
	// descending. A limit <= 0 means no cap.
	ListByUser(userID uuid.UUID, limit int) ([]Application, error)

	CountByUser(userID uuid.UUID) (int64, error)

	// CountByStatus returns the canonical per-status aggregate for the
	// user, every bucket present.
	CountByStatus(userID uuid.UUID) (StatusCounts, error)
}
