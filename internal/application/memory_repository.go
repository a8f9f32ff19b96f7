package application

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is the in-memory Repository used by tests.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   []Application

	// Clock lets tests control created_at assignment.
	Clock func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		Clock:  time.Now,
	}
}

func (r *MemoryRepository) Insert(userID uuid.UUID, input *CreateInput) (*Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app := Application{
		ID:            r.nextID,
		UserID:        userID,
		CompanyName:   input.CompanyName,
		JobTitle:      input.JobTitle,
		AppliedOn:     input.AppliedOn,
		JobPostingURL: input.JobPostingURL,
		Method:        input.Method,
		Location:      input.Location,
		Salary:        input.Salary,
		JobPlatform:   input.JobPlatform,
		CreatedAt:     r.Clock(),
	}
	if input.Status != nil {
		s := *input.Status
		app.Status = &s
	}
	r.nextID++
	r.rows = append(r.rows, app)

	echo := app
	return &echo, nil
}

func (r *MemoryRepository) ListByUser(userID uuid.UUID, limit int) ([]Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []Application{}
	for _, app := range r.rows {
		if app.UserID == userID {
			result = append(result, app)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemoryRepository) CountByUser(userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, app := range r.rows {
		if app.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) CountByStatus(userID uuid.UUID) (StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := NewStatusCounts()
	for i := range r.rows {
		if r.rows[i].UserID == userID {
			counts[r.rows[i].StatusBucket()]++
		}
	}
	return counts, nil
}
