package handlers

const (
	ErrInvalidRequestBody  = "Invalid request body"
	ErrSessionNotFound     = "Quiz session not found"
	ErrInternalServerError = "Internal server error"
)
