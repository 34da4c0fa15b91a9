package handler

// Swagger type definitions for API documentation.

// ParseSuccessResponse is the body of a successful parse.
type ParseSuccessResponse struct {
	Status     int            `json:"status" example:"200"`
	ReturnDict map[string]any `json:"return_dict"`
}

// FailureResponse is the body of a failed parse.
type FailureResponse struct {
	Status string `json:"status" example:"fail"`
	Reason string `json:"reason" example:"parse engine failed: connection refused"`
}
