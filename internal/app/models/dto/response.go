package dto

import "time"

// APIResponse is the standard success envelope for API endpoints. Warnings
// carry the integrity validator's advisory messages; callers must render them
// as non-blocking feedback.
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{}  `json:"data,omitempty"`
	Warnings  []string     `json:"warnings,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2026-02-10T12:01:05.123Z"`
}

// NewAPIResponse creates a standard success response
func NewAPIResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// WithWarnings attaches advisory warnings to the response
func (r APIResponse) WithWarnings(warnings []string) APIResponse {
	if len(warnings) > 0 {
		r.Warnings = warnings
	}
	return r
}

// SuccessResponse represents a minimal success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// PaginationInfo describes the page window of a list response
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// PaginatedList wraps a page of items together with pagination metadata
type PaginatedList struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}
