package dto

import "time"

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	StatusCode int          `json:"statusCode" example:"200"`
	Message    string       `json:"message" example:"Operation completed successfully"`
	Data       interface{}  `json:"data,omitempty"`
	Error      *ErrorDetail `json:"error,omitempty"`
	Timestamp  time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// PaginatedResponse is the envelope for list endpoints that page their results.
type PaginatedResponse struct {
	APIResponse
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// PaginationInfo describes one page of a larger result set.
type PaginationInfo struct {
	CurrentPage  int   `json:"currentPage" example:"1"`
	PageSize     int   `json:"pageSize" example:"10"`
	TotalRecords int64 `json:"totalRecords" example:"23"`
	TotalPages   int   `json:"totalPages" example:"3"`
}

// NewSuccessResponse creates a success envelope.
func NewSuccessResponse(statusCode int, data interface{}, message string) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
		Timestamp:  time.Now(),
	}
}

// NewPaginatedResponse creates a success envelope carrying pagination metadata.
func NewPaginatedResponse(statusCode int, data interface{}, message string, pagination *PaginationInfo) PaginatedResponse {
	return PaginatedResponse{
		APIResponse: NewSuccessResponse(statusCode, data, message),
		Pagination:  pagination,
	}
}
