package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newIssuer(secret string, ttl time.Duration) (*TokenIssuer, *fakeClock) {
	clock := &fakeClock{now: t0}
	return NewTokenIssuer([]byte(secret), ttl, WithClock(clock.Now)), clock
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	issuer, _ := newIssuer("super-secret", time.Hour)

	tok, err := issuer.Issue("user-123", "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(tok, "."))

	claims, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, Claims{
		Subject:   "user-123",
		Email:     "a@x.io",
		IssuedAt:  t0,
		ExpiresAt: t0.Add(time.Hour),
	}, Claims{
		Subject:   claims.Subject,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.UTC(),
		ExpiresAt: claims.ExpiresAt.UTC(),
	})
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	issuer, clock := newIssuer("secret", time.Hour)
	tok, err := issuer.Issue("u1", "a@x.io")
	require.NoError(t, err)

	clock.now = t0.Add(time.Hour - time.Second)
	_, err = issuer.Verify(tok)
	assert.NoError(t, err)

	clock.now = t0.Add(time.Hour)
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	clock.now = t0.Add(2 * time.Hour)
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer, _ := newIssuer("right-secret", time.Hour)
	other, _ := newIssuer("wrong-secret", time.Hour)

	tok, err := issuer.Issue("u2", "a@x.io")
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	issuer, _ := newIssuer("secret", time.Hour)
	tok, err := issuer.Issue("u1", "a@x.io")
	require.NoError(t, err)

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	parts := strings.Split(tok, ".")
	sig := parts[2]
	require.Len(t, sig, 43)

	for i := range sig {
		for _, c := range []byte(alphabet) {
			if c == sig[i] {
				continue
			}
			forged := []byte(sig)
			forged[i] = c
			_, err := issuer.Verify(parts[0] + "." + parts[1] + "." + string(forged))
			if !assert.Error(t, err, "signature char %d replaced with %q", i, c) {
				return
			}
		}
	}
}

func TestVerify_SignatureTrailingBits(t *testing.T) {
	t.Parallel()

	issuer, _ := newIssuer("secret", time.Hour)
	tok, err := issuer.Issue("u1", "a@x.io")
	require.NoError(t, err)

	last := tok[len(tok)-1]
	for _, c := range []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_") {
		if c == last {
			continue
		}
		_, err := issuer.Verify(tok[:len(tok)-1] + string(c))
		assert.Error(t, err, "last char %q", c)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	issuer, _ := newIssuer("secret", time.Hour)
	tok, err := issuer.Issue("u1", "a@x.io")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"admin","email":"a@x.io","exp":4102444800}`))

	_, err = issuer.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	issuer, _ := newIssuer("k", time.Hour)

	for _, tok := range []string{"", "abc", "not.a.jwt", "a.b"} {
		_, err := issuer.Verify(tok)
		assert.ErrorIs(t, err, common.ErrMalformedToken, "token %q", tok)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	issuer, _ := newIssuer("secret", time.Hour)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = issuer.Verify(hs512)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Verify(none)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_RequiresExpAndSubject(t *testing.T) {
	t.Parallel()

	issuer, _ := newIssuer("secret", time.Hour)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = issuer.Verify(noExp)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = issuer.Verify(noSub)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
