// Package auth hashes passwords, issues session tokens and carries the acting user through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/roster"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken is returned for tokens that are malformed, expired or signed with another key.
var ErrInvalidToken = errors.New("invalid session token")

// hashCost is lowered in tests.
var hashCost = bcrypt.DefaultCost

// Actor is the authenticated user a request acts on behalf of.
type Actor struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     roster.Role `json:"role"`
}

// ActorOf builds the actor for a roster member.
func ActorOf(p roster.Player) Actor {
	return Actor{ID: p.ID, Username: p.Username, Role: p.Role}
}

// HashPassword hashes a plain-text password with bcrypt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", apperr.Invalid("password", "is required")
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	return string(bytes), err
}

// CheckPassword reports whether password matches hash.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer whose tokens live for ttl.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for a and the moment it expires.
func (i *Issuer) Issue(a Actor) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := jwt.MapClaims{
		"uid":      a.ID,
		"username": a.Username,
		"role":     string(a.Role),
		"iat":      now.Unix(),
		"exp":      exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies token and returns the actor it was issued for.
func (i *Issuer) Parse(token string) (Actor, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Actor{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, ErrInvalidToken
	}
	uid, _ := claims["uid"].(float64)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if uid <= 0 || username == "" || !roster.Role(role).Valid() {
		return Actor{}, ErrInvalidToken
	}
	return Actor{ID: int64(uid), Username: username, Role: roster.Role(role)}, nil
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying a.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the actor stored in ctx, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

// Require fails with an authorization error unless a holds one of roles.
func Require(a Actor, action string, roles ...roster.Role) error {
	for _, r := range roles {
		if a.Role == r {
			return nil
		}
	}
	return apperr.Denied(action)
}

// IsAdmin reports whether a is an admin.
func (a Actor) IsAdmin() bool {
	return a.Role == roster.RoleAdmin
}
