package application

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusOffer        = "offer"
	StatusRejected     = "rejected"
	// StatusUnknown is the display bucket for rows whose status is absent
	// or not one of the four known values. It is never stored.
	StatusUnknown = "unknown"
)

const (
	MethodDirect    = "direct"
	MethodRecruiter = "recruiter"
	MethodReferral  = "referral"
)

// Application is one job-application record owned by a single user.
// ID, UserID and CreatedAt are assigned by the store on insert and are
// never accepted from the caller.
type Application struct {
	ID            int64     `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	CompanyName   string    `json:"companyName"`
	JobTitle      string    `json:"jobTitle"`
	AppliedOn     time.Time `json:"appliedOn"`
	JobPostingURL string    `json:"jobPostingUrl"`
	Method        string    `json:"method"`
	Location      string    `json:"location"`
	Salary        int64     `json:"salary"`
	JobPlatform   string    `json:"jobPlatform"`
	Status        *string   `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateInput is the insert contract: an Application stripped of the
// store-assigned fields.
type CreateInput struct {
	CompanyName   string    `json:"companyName"`
	JobTitle      string    `json:"jobTitle"`
	AppliedOn     time.Time `json:"appliedOn"`
	JobPostingURL string    `json:"jobPostingUrl"`
	Method        string    `json:"method"`
	Location      string    `json:"location"`
	Salary        int64     `json:"salary"`
	JobPlatform   string    `json:"jobPlatform"`
	Status        *string   `json:"status"`
}

// StatusBucket returns the aggregate bucket an application counts toward.
func (a *Application) StatusBucket() string {
	if a.Status == nil {
		return StatusUnknown
	}
	switch *a.Status {
	case StatusApplied, StatusInterviewing, StatusOffer, StatusRejected:
		return *a.Status
	default:
		return StatusUnknown
	}
}

// StatusCounts is the one canonical aggregate shape: every bucket is
// always present, including unknown, so the values sum to the user's
// total row count.
type StatusCounts map[string]int64

func NewStatusCounts() StatusCounts {
	return StatusCounts{
		StatusApplied:      0,
		StatusInterviewing: 0,
		StatusOffer:        0,
		StatusRejected:     0,
		StatusUnknown:      0,
	}
}

// Total sums all buckets.
func (c StatusCounts) Total() int64 {
	var total int64
	for _, n := range c {
		total += n
	}
	return total
}

// CountFromRows aggregates raw rows into the canonical shape. It is the
// in-process counterpart of the get_status_counts SQL function and
// produces an identical result for the same row set.
func CountFromRows(apps []Application) StatusCounts {
	counts := NewStatusCounts()
	for i := range apps {
		counts[apps[i].StatusBucket()]++
	}
	return counts
}

func validStatus(status string) bool {
	switch status {
	case StatusApplied, StatusInterviewing, StatusOffer, StatusRejected:
		return true
	}
	return false
}

func validMethod(method string) bool {
	switch method {
	case MethodDirect, MethodRecruiter, MethodReferral:
		return true
	}
	return false
}
