// file: internal/server/response_types.go
// version: 1.1.0
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-6f7a8b9c0d1e

package server

// ListResponse provides a consistent format for paginated list responses
type ListResponse struct {
	Items  any `json:"items"`
	Count  int `json:"count"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// MessageResponse provides a consistent format for status messages
type MessageResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DeleteResponse provides a consistent format for deletion responses
type DeleteResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// NewListResponse creates a new ListResponse with pagination info
func NewListResponse(items any, count int, limit int, offset int) *ListResponse {
	return &ListResponse{
		Items:  items,
		Count:  count,
		Limit:  limit,
		Offset: offset,
		Total:  count, // Set total equal to count by default
	}
}

// NewMessageResponse creates a new MessageResponse
func NewMessageResponse(message string, code string) *MessageResponse {
	return &MessageResponse{
		Message: message,
		Code:    code,
	}
}
