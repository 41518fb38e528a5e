package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer signs console session claims into a compact JWT.
type Signer interface {
	KID() string
	Sign(Claims) (string, error)
}

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// EdDSAKeyPair is an Ed25519 signer/verifier pair. The console mints one
// ephemeral pair per process; a restart invalidates outstanding sessions.
type EdDSAKeyPair struct {
	kid    string
	key    ed25519.PrivateKey
	pub    ed25519.PublicKey
	issuer string
}

// NewEphemeralEdDSA generates a fresh Ed25519 keypair for the given issuer.
func NewEphemeralEdDSA(kid, issuer string) (*EdDSAKeyPair, error) {
	pub, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to generate Ed25519 key: %w", err)
	}

	return &EdDSAKeyPair{kid: kid, key: key, pub: pub, issuer: issuer}, nil
}

func (p *EdDSAKeyPair) KID() string { return p.kid }

// Sign takes claims and turns them into a signed JWT string.
func (p *EdDSAKeyPair) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = p.kid
	return t.SignedString(p.key)
}

// Verify validates the JWT string and returns its parsed Claims.
func (p *EdDSAKeyPair) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid != p.kid {
			return nil, fmt.Errorf("jwtx: unknown kid %q", kid)
		}
		return p.pub, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, errors.New("jwtx: invalid token claims")
	}

	if err := claims.ValidateIssuer(p.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}
