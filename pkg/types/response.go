package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// ListPayload wraps collection responses together with their size.
type ListPayload[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewListPayload never returns a nil Items slice so clients always see an array.
func NewListPayload[T any](items []T) ListPayload[T] {
	if items == nil {
		items = []T{}
	}
	return ListPayload[T]{Items: items, Total: len(items)}
}
