package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"katalog/internal/services"
)

// Principal is the authenticated caller. It travels in the request context
// rather than any framework-global state.
type Principal struct {
	UserID   string
	Username string
}

type principalKey struct{}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// AuthRequired is a Fiber middleware that rejects requests without a valid
// bearer token and places the authenticated principal into the request
// context for the handlers behind it.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		principal := Principal{}
		if userID, ok := claims["user_id"].(string); ok {
			principal.UserID = userID
		}
		if username, ok := claims["username"].(string); ok {
			principal.Username = username
		}

		c.SetUserContext(WithPrincipal(c.UserContext(), principal))

		return c.Next()
	}
}
