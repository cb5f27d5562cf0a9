package domain

// AuthProvider identifies the backend that verified an external identity token.
type AuthProvider string

const (
	AuthProviderFirebase AuthProvider = "firebase"
	AuthProviderGoogle   AuthProvider = "google"
	AuthProviderOIDC     AuthProvider = "oidc"
)

// ExchangeOutcome labels the result of a social token exchange for metrics.
type ExchangeOutcome string

const (
	OutcomeExistingUser ExchangeOutcome = "existing"
	OutcomeCreatedUser  ExchangeOutcome = "created"
	OutcomeInvalidToken ExchangeOutcome = "invalid_token"
	OutcomeInvalidInput ExchangeOutcome = "invalid_input"
	OutcomeConflict     ExchangeOutcome = "conflict"
	OutcomeError        ExchangeOutcome = "error"
)
