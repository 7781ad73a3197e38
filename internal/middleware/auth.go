package middleware

import (
	"context"
	"strconv"
	"strings"

	"aperture/internal/config"
	"aperture/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "aperture-api"
	tokenAudience = "aperture-client"
)

// Principal is the authenticated identity derived from a verified credential.
type Principal struct {
	UserID uint
	Role   models.Role
}

// Verifier validates bearer tokens against one role-specific secret. User and
// admin tokens are signed with distinct secrets, so a user token can never
// satisfy the admin verifier even if its role claim were forged.
type Verifier struct {
	secret      []byte
	requireRole models.Role
}

// NewUserVerifier returns a Verifier for user-issued tokens.
func NewUserVerifier(cfg *config.Config) *Verifier {
	return &Verifier{secret: []byte(cfg.UserJWTSecret)}
}

// NewAdminVerifier returns a Verifier for admin-issued tokens. Beyond the
// signature check it requires the role claim to be ADMIN.
func NewAdminVerifier(cfg *config.Config) *Verifier {
	return &Verifier{secret: []byte(cfg.AdminJWTSecret), requireRole: models.RoleAdmin}
}

// Verify checks signature, expiry, issuer, audience, and (if configured) the
// role claim, and returns the authenticated principal.
func (v *Verifier) Verify(tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.NewForbiddenError("Invalid signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewForbiddenError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewForbiddenError("Invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return nil, models.NewForbiddenError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return nil, models.NewForbiddenError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, models.NewForbiddenError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, models.NewForbiddenError("Invalid user ID in token")
	}

	role, _ := claims["role"].(string)
	if v.requireRole != "" && models.Role(role) != v.requireRole {
		return nil, models.NewForbiddenError("Admin access required")
	}

	return &Principal{UserID: uint(userID), Role: models.Role(role)}, nil
}

// Required returns a Fiber middleware enforcing the given verifier. A missing
// bearer token is rejected with 401 before any signature check; a present but
// invalid credential (bad signature, expiry, wrong role) is rejected with 403.
func Required(v *Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Authorization required"))
		}

		principal, err := v.Verify(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusForbidden, err)
		}

		// Store identity in locals and sync to UserContext for logging and
		// downstream services.
		c.Locals("userID", principal.UserID)
		c.Locals("role", principal.Role)
		ctx := context.WithValue(c.UserContext(), UserIDKey, principal.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
