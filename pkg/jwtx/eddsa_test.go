package jwtx_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/waypointhq/console/pkg/jwtx"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	pair, err := jwtx.NewEphemeralEdDSA("kid-1", "console-test")
	require.NoError(t, err)

	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims("user-123", "admin@example.com", "admin", "console-test", time.Hour, now)

	token, err := pair.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := pair.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", got.Subject)
	require.Equal(t, "admin@example.com", got.Email)
	require.Equal(t, "admin", got.Role)
	require.Equal(t, "console-test", got.Issuer)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	t.Parallel()

	a, err := jwtx.NewEphemeralEdDSA("kid-a", "console-test")
	require.NoError(t, err)
	b, err := jwtx.NewEphemeralEdDSA("kid-a", "console-test")
	require.NoError(t, err)

	claims := jwtx.NewSessionClaims("user-1", "a@x.com", "admin", "console-test", time.Hour, time.Now().UTC())
	token, err := a.Sign(claims)
	require.NoError(t, err)

	// Same kid, different key material: signature must not verify.
	_, err = b.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	pair, err := jwtx.NewEphemeralEdDSA("kid-1", "console-test")
	require.NoError(t, err)

	past := time.Now().UTC().Add(-2 * time.Hour)
	claims := jwtx.NewSessionClaims("user-1", "a@x.com", "admin", "console-test", time.Hour, past)

	token, err := pair.Sign(claims)
	require.NoError(t, err)

	_, err = pair.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	t.Parallel()

	pair, err := jwtx.NewEphemeralEdDSA("kid-1", "console-test")
	require.NoError(t, err)

	claims := jwtx.NewSessionClaims("user-1", "a@x.com", "admin", "someone-else", time.Hour, time.Now().UTC())
	token, err := pair.Sign(claims)
	require.NoError(t, err)

	_, err = pair.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}
