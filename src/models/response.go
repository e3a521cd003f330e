package models

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failure builds an unsuccessful envelope
func Failure(message string) APIResponse {
	return APIResponse{Success: false, Message: message}
}
