package auth

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"codeberg.org/staymatch/server/internal/auth"
	"codeberg.org/staymatch/server/internal/errors"
)

// ExchangeTokenHandler issues an API JWT for an identity asserted by the
// upstream identity platform. The platform authenticates users itself and
// proves it with the shared exchange secret; this service only needs the
// user id and which side of the marketplace they are on.
func ExchangeTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		secret := os.Getenv("AUTH_EXCHANGE_SECRET")
		if secret == "" {
			errors.InternalError(c, "token exchange not configured", nil)
			return
		}

		if subtle.ConstantTimeCompare([]byte(req.ExchangeToken), []byte(secret)) != 1 {
			errors.Unauthorized(c, "invalid exchange token")
			return
		}

		if req.PartyType != auth.PartyHotel && req.PartyType != auth.PartyCreator {
			errors.BadRequest(c, "party_type must be hotel or creator", nil)
			return
		}

		token, err := auth.GenerateJWT(req.UserID, req.PartyType, req.Email)
		if err != nil {
			errors.InternalError(c, "failed to generate token", err)
			return
		}

		c.JSON(http.StatusOK, TokenResponse{
			Token:     token,
			UserID:    req.UserID,
			PartyType: req.PartyType,
		})
	}
}

// returns the authenticated caller's identity as the middleware resolved it
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		partyType, _ := auth.GetPartyType(c)

		c.JSON(http.StatusOK, MeResponse{
			UserID:    userID,
			PartyType: partyType,
		})
	}
}
