package response

type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// OK wraps data in a successful envelope.
func OK[T any](message string, data T) *APIResponse[T] {
	return &APIResponse[T]{Success: true, Message: message, Data: data}
}

// Failed is an envelope that still carries data, for operations that ran
// but did not succeed.
func Failed[T any](message string, data T) *APIResponse[T] {
	return &APIResponse[T]{Success: false, Message: message, Data: data}
}

// Page is one window of a paginated listing.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
