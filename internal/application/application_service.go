package application

import (
	"fmt"

	"github.com/google/uuid"
)

type ApplicationService struct {
	repo Repository
}

func NewApplicationService(repo Repository) *ApplicationService {
	return &ApplicationService{repo: repo}
}

// Create validates the input and inserts one row for the user. The
// returned application is the store's echo: id and created_at are
// assigned by the store, every other field matches the input.
func (s *ApplicationService) Create(userID uuid.UUID, input *CreateInput) (*Application, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if input.CompanyName == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}
	if input.JobTitle == "" {
		return nil, fmt.Errorf("job title cannot be empty")
	}
	if !validMethod(input.Method) {
		return nil, fmt.Errorf("invalid method %q", input.Method)
	}
	if input.Status != nil && !validStatus(*input.Status) {
		return nil, fmt.Errorf("invalid status %q", *input.Status)
	}

	app, err := s.repo.Insert(userID, input)
	if err != nil {
		return nil, &WriteError{Op: "create application", Err: err}
	}
	return app, nil
}

// List returns the user's applications, newest first. A limit <= 0
// returns the full set. An empty slice is a valid result and means zero
// applications, not a failed read.
func (s *ApplicationService) List(userID uuid.UUID, limit int) ([]Application, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	apps, err := s.repo.ListByUser(userID, limit)
	if err != nil {
		return nil, &ReadError{Op: "list applications", Err: err}
	}
	if apps == nil {
		apps = []Application{}
	}
	return apps, nil
}

func (s *ApplicationService) Count(userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, ErrUnauthenticated
	}
	count, err := s.repo.CountByUser(userID)
	if err != nil {
		return 0, &ReadError{Op: "count applications", Err: err}
	}
	return count, nil
}

func (s *ApplicationService) CountByStatus(userID uuid.UUID) (StatusCounts, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	counts, err := s.repo.CountByStatus(userID)
	if err != nil {
		return nil, &ReadError{Op: "count applications by status", Err: err}
	}
	return counts, nil
}
