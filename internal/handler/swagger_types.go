package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// GoogleLoginRequest represents the token exchange request body.
type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required" example:"eyJhbGciOiJSUzI1NiIsImtpZCI6IjE..."`
}

// HealthResponse is the body of the liveness and readiness probes.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}
