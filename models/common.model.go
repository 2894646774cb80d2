package models

// APIResponse is the uniform envelope every endpoint returns. Code is 0 on
// success and non-zero on failure, mirroring what the frontend expects.
type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResult wraps a paginated listing.
type PageResult struct {
	Content    interface{} `json:"content"`
	Page       int         `json:"page"`
	Size       int         `json:"size"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

// SuccessResponse creates a standardized success response.
func SuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
	}
}

// ErrorResponse creates a standardized error response.
func ErrorResponse(message string) APIResponse {
	return APIResponse{
		Code:    1,
		Message: message,
	}
}

// NewPageResult assembles pagination metadata around content.
func NewPageResult(content interface{}, page, size int, total int64) PageResult {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return PageResult{
		Content:    content,
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	}
}
