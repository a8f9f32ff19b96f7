package dashboard

import (
	"github.com/google/uuid"
	"github.com/jobdeck/jobdeck_server/internal/application"
)

// recentLimit is how many applications the summary's recent list shows.
const recentLimit = 3

type TablePage struct {
	Rows       []application.Application `json:"rows"`
	Page       int                       `json:"page"`
	TotalPages int                       `json:"totalPages"`
	TotalRows  int                       `json:"totalRows"`
}

type Summary struct {
	Total        int64                     `json:"total"`
	Recent       []application.Application `json:"recent"`
	StatusCounts application.StatusCounts  `json:"statusCounts"`
}

type DashboardService struct {
	appService *application.ApplicationService
}

func NewDashboardService(appService *application.ApplicationService) *DashboardService {
	return &DashboardService{appService: appService}
}

// Table fetches the user's full application set and derives the
// searched, paginated table view from it.
func (s *DashboardService) Table(userID uuid.UUID, searchTerm string, page int) (*TablePage, error) {
	apps, err := s.appService.List(userID, 0)
	if err != nil {
		return nil, err
	}

	filtered := Filter(apps, searchTerm)
	totalPages := TotalPages(len(filtered))

	return &TablePage{
		Rows:       Paginate(filtered, page),
		Page:       ClampPage(page, totalPages),
		TotalPages: totalPages,
		TotalRows:  len(filtered),
	}, nil
}

// Summary produces the timeline view's reads: total count, the most
// recent applications and the per-status aggregate. The three reads are
// independent; no ordering is guaranteed between them at the store.
func (s *DashboardService) Summary(userID uuid.UUID) (*Summary, error) {
	total, err := s.appService.Count(userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.appService.List(userID, recentLimit)
	if err != nil {
		return nil, err
	}

	counts, err := s.appService.CountByStatus(userID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Total:        total,
		Recent:       recent,
		StatusCounts: counts,
	}, nil
}
