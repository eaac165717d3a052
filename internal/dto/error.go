package dto

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
