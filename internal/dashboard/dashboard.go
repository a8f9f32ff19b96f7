package dashboard

import (
	"strings"

	"github.com/jobdeck/jobdeck_server/internal/application"
)

// PageSize is the fixed number of table rows per page.
const PageSize = 5

// Filter returns the applications where term is a case-insensitive
// substring of the company name, job title or status. An empty term
// returns the input unchanged, in order.
func Filter(apps []application.Application, term string) []application.Application {
	if term == "" {
		return apps
	}
	needle := strings.ToLower(term)

	filtered := []application.Application{}
	for i := range apps {
		if strings.Contains(strings.ToLower(apps[i].CompanyName), needle) ||
			strings.Contains(strings.ToLower(apps[i].JobTitle), needle) ||
			(apps[i].Status != nil && strings.Contains(strings.ToLower(*apps[i].Status), needle)) {
			filtered = append(filtered, apps[i])
		}
	}
	return filtered
}

// TotalPages returns ceil(n / PageSize). Zero rows means zero pages.
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// ClampPage forces a 1-indexed page into [1, totalPages]. A filter
// change can shrink the page count below the current page; the caller
// lands on the last page instead of an empty one.
func ClampPage(page, totalPages int) int {
	if totalPages == 0 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate slices out the given 1-indexed page. The page is clamped
// first, so concatenating pages 1..TotalPages reconstructs the input
// exactly.
func Paginate(apps []application.Application, page int) []application.Application {
	totalPages := TotalPages(len(apps))
	page = ClampPage(page, totalPages)

	start := (page - 1) * PageSize
	if start >= len(apps) {
		return []application.Application{}
	}
	end := start + PageSize
	if end > len(apps) {
		end = len(apps)
	}
	return apps[start:end]
}
