package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// party types carried in token claims
const (
	PartyHotel   = "hotel"
	PartyCreator = "creator"
)

// represents JWT claims
type Claims struct {
	UserID    string `json:"user_id"`
	PartyType string `json:"party_type"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
