// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}

// ShortfallError reports which request lines could not be covered by the
// catalog at approval time. The request itself is left unchanged.
type ShortfallError struct {
	Detail string          `json:"detail"`
	Lines  []ShortfallLine `json:"lines"`
}

// ShortfallLine is one insufficient-stock line in a rejected approval.
type ShortfallLine struct {
	ItemCode  string `json:"item_code"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func NewShortfall(lines []ShortfallLine) *ShortfallError {
	return &ShortfallError{Detail: "Insufficient stock", Lines: lines}
}
