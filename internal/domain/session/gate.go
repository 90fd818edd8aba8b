package session

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultTTL = 7 * 24 * time.Hour

	issuer  = "bringlist"
	subject = "admin"
)

// Credential is the opaque value handed to the client together with its expiry.
type Credential struct {
	Value     string
	ExpiresAt time.Time
}

// Expired reports whether the credential instructs the client to drop it.
func (c Credential) Expired() bool {
	return c.Value == "" || !c.ExpiresAt.After(time.Unix(0, 0))
}

// Gate issues and checks admin session credentials. It keeps no per-session
// state; credentials are HS256 tokens signed with the gate's key.
type Gate struct {
	verifier Verifier
	key      []byte
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Gate)

func WithTTL(ttl time.Duration) Option {
	return func(g *Gate) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGate builds a gate. An empty signing key is replaced by a random one,
// which means credentials do not survive a restart.
func NewGate(verifier Verifier, signingKey []byte, opts ...Option) (*Gate, error) {
	if verifier == nil {
		return nil, errors.New("session: verifier is required")
	}
	if len(signingKey) == 0 {
		signingKey = make([]byte, 32)
		if _, err := rand.Read(signingKey); err != nil {
			return nil, err
		}
	}

	g := &Gate{
		verifier: verifier,
		key:      signingKey,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Gate) TTL() time.Duration {
	return g.ttl
}

func (g *Gate) Authenticate(password string) (Credential, error) {
	if !g.verifier.Verify(password) {
		return Credential{}, ErrUnauthorized
	}

	now := g.now()
	expiresAt := now.Add(g.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.key)
	if err != nil {
		return Credential{}, err
	}
	return Credential{Value: token, ExpiresAt: expiresAt}, nil
}

func (g *Gate) Check(value string) bool {
	if value == "" {
		return false
	}

	_, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return g.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	return err == nil
}

// Revoke returns the tombstone credential that replaces the client's copy.
func (g *Gate) Revoke() Credential {
	return Credential{ExpiresAt: time.Unix(0, 0)}
}
