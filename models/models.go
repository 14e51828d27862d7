// ABOUTME: Shared API response models for the power calculator service
// ABOUTME: JSON-serializable structures matching client expectations

package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
