package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	clerkjwt "github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v4"
)

const (
	// LocalSubject holds the verified identity-provider subject
	LocalSubject = "auth_subject"
	// LocalUserID holds the internal user id once resolved
	LocalUserID = "user_id"
)

// TokenVerifier checks a bearer token and returns its subject
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// ClerkVerifier validates Clerk session tokens
type ClerkVerifier struct{}

func NewClerkVerifier(secretKey string) *ClerkVerifier {
	clerk.SetKey(secretKey)
	return &ClerkVerifier{}
}

func (v *ClerkVerifier) Verify(ctx context.Context, token string) (string, error) {
	claims, err := clerkjwt.Verify(ctx, &clerkjwt.VerifyParams{
		Token: token,
	})
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// HMACVerifier validates HS256 tokens signed with a shared secret
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(_ context.Context, token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// IssueToken signs an HS256 token for subject, valid for ttl
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Auth rejects requests without a valid bearer token and stores the subject
// in c.Locals(LocalSubject).
func Auth(verifier TokenVerifier) fiber.Handler {
	return func(c fiber.Ctx) error {
		// Get token from Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization token",
			})
		}

		// Remove "Bearer " prefix
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		subject, err := verifier.Verify(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(LocalSubject, subject)
		return c.Next()
	}
}

// Subject returns the verified subject set by Auth
func Subject(c fiber.Ctx) (string, bool) {
	subject, ok := c.Locals(LocalSubject).(string)
	return subject, ok && subject != ""
}
