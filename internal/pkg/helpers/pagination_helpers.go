package helpers

import (
	"math"

	"github.com/yigit/coursehub/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	DefaultPage     = 1 // Default page is 1-based
)

// NormalizePage applies the paging defaults: page < 1 becomes 1 and
// size < 1 becomes DefaultPageSize. Larger sizes are honoured as requested.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return page, size
}

// CalculateOffsetLimit converts a 1-based page into skip/take values.
func CalculateOffsetLimit(page, size int) (offset, limit int) {
	page, limit = NormalizePage(page, size)
	return (page - 1) * limit, limit
}

// NewPaginationInfo describes page of size out of totalRecords matching rows.
// totalPages is ceil(totalRecords / size), so 0 when nothing matches.
func NewPaginationInfo(totalRecords int64, page, size int) dto.PaginationInfo {
	page, size = NormalizePage(page, size)

	totalPages := 0
	if totalRecords > 0 {
		totalPages = int(math.Ceil(float64(totalRecords) / float64(size)))
	}

	return dto.PaginationInfo{
		CurrentPage:  page,
		PageSize:     size,
		TotalRecords: totalRecords,
		TotalPages:   totalPages,
	}
}
