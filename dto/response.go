package dto

// ErrorResponseDTO is the shared error envelope.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"transcript not found"`
}

// MessageResponseDTO is the shared plain-message envelope.
type MessageResponseDTO struct {
	Message string `json:"message" example:"Transcript deleted successfully"`
}
