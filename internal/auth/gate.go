package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/locvowork/employee_records/internal/domain"
)

// DisabledToken is handed out by Issue when no secret is configured.
const DisabledToken = "auth_disabled"

// DefaultSubject is used when a token is requested without a subject.
const DefaultSubject = "test-user"

// Gate issues and verifies HMAC signed bearer tokens. A Gate without a
// secret is disabled: every credential is accepted.
type Gate struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

// NewGate creates a gate for one of HS256, HS384 or HS512.
func NewGate(secret, algorithm string, ttl time.Duration) (*Gate, error) {
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported JWT algorithm %q", algorithm)
	}
	return &Gate{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}, nil
}

// Enabled reports whether credentials are checked.
func (g *Gate) Enabled() bool {
	return len(g.secret) > 0
}

// Issue signs a token for subject, expiring after the configured TTL.
func (g *Gate) Issue(subject string) (string, error) {
	if !g.Enabled() {
		return DisabledToken, nil
	}
	if subject == "" {
		subject = DefaultSubject
	}
	now := g.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
	}
	signed, err := jwt.NewWithClaims(g.method, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
// Any failure is reported as domain.ErrUnauthenticated.
func (g *Gate) Verify(token string) (*jwt.RegisteredClaims, error) {
	if !g.Enabled() {
		return &jwt.RegisteredClaims{}, nil
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{g.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
