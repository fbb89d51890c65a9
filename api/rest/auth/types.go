package auth

// TokenRequest exchanges an identity asserted upstream for an API token.
// The identity platform sits in front of this service and is trusted via
// the shared exchange secret.
type TokenRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	PartyType     string `json:"party_type" binding:"required"`
	Email         string `json:"email"`
	ExchangeToken string `json:"exchange_token" binding:"required"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	PartyType string `json:"party_type"`
}

type MeResponse struct {
	UserID    string `json:"user_id"`
	PartyType string `json:"party_type"`
}
