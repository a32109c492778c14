package pagination

import "github.com/luminagems/gemstore/internal/domain"

// DefaultPageSize is used when a request does not specify a page size.
const DefaultPageSize = 24

// AllowedPageSizes are the storefront grid multiples the API accepts.
var AllowedPageSizes = []int{12, 24, 48, 96}

// PageInfo describes the position of one page within a result set.
type PageInfo struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

// ValidatePage checks page bounds and pins the page size to the allowed set.
// A zero pageSize selects the default.
func ValidatePage(page, pageSize int) (int, int, error) {
	if page < 1 {
		return 0, 0, domain.ErrInvalidPage
	}
	if pageSize == 0 {
		return page, DefaultPageSize, nil
	}
	for _, allowed := range AllowedPageSizes {
		if pageSize == allowed {
			return page, pageSize, nil
		}
	}
	return 0, 0, domain.ErrInvalidPageSize
}

// Offset returns the row offset for a validated page.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// NewPageInfo computes pagination metadata from the denormalized total count
// the search queries return on every row.
func NewPageInfo(page, pageSize, totalCount int) PageInfo {
	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return PageInfo{
		Page:        page,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
