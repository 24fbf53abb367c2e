package auth

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T, secret string) (*Issuer, *time.Time) {
	t.Helper()
	i, err := NewIssuer(secret, 24*time.Hour)
	require.NoError(t, err)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	i.now = func() time.Time { return clock }
	return i, &clock
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	require.ErrorIs(t, err, common.ErrMissingSecret)
}

func TestNewIssuer_DefaultValidity(t *testing.T) {
	i, err := NewIssuer("k", 0)
	require.NoError(t, err)
	assert.Equal(t, common.DefaultTokenValidity, i.Validity())
}

func TestIssueAndVerify_Success(t *testing.T) {
	i, _ := newTestIssuer(t, "super-secret")

	tok, err := i.Issue("user-123")
	require.NoError(t, err)

	got, err := i.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
}

func TestIssue_CarriesExpectedClaims(t *testing.T) {
	i, clock := newTestIssuer(t, "super-secret")

	tok, err := i.Issue("u1")
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1", claims.Subject)
	assert.True(t, claims.Check)
	assert.Equal(t, clock.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, clock.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestVerify_Expired(t *testing.T) {
	i, clock := newTestIssuer(t, "secret")

	tok, err := i.Issue("u1")
	require.NoError(t, err)

	*clock = clock.Add(24*time.Hour + time.Second)

	_, err = i.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenExpired)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_JustBeforeExpiry(t *testing.T) {
	i, clock := newTestIssuer(t, "secret")

	tok, err := i.Issue("u1")
	require.NoError(t, err)

	*clock = clock.Add(24*time.Hour - time.Second)

	got, err := i.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", got)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer, _ := newTestIssuer(t, "right-secret")
	verifier, _ := newTestIssuer(t, "wrong-secret")

	tok, err := issuer.Issue("u2")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenSignatureInvalid)
}

func TestVerify_SwappedPayload(t *testing.T) {
	i, _ := newTestIssuer(t, "secret")

	alice, err := i.Issue("alice")
	require.NoError(t, err)
	mallory, err := i.Issue("mallory")
	require.NoError(t, err)

	a := strings.Split(alice, ".")
	m := strings.Split(mallory, ".")
	forged := strings.Join([]string{m[0], a[1], m[2]}, ".")

	_, err = i.Verify(forged)
	require.ErrorIs(t, err, common.ErrTokenSignatureInvalid)
}

func TestVerify_NoneAlgorithmRejected(t *testing.T) {
	i, clock := newTestIssuer(t, "secret")

	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(clock.Add(time.Hour)),
		},
		UserID: "u1",
		Check:  true,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = i.Verify(tok)
	require.ErrorIs(t, err, common.ErrInvalidToken)
	require.NotErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_MissingAuthenticityFlag(t *testing.T) {
	i, clock := newTestIssuer(t, "secret")

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(clock.Add(time.Hour)),
		},
		UserID: "u1",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = i.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenMalformed)
}

func TestVerify_MissingExpiry(t *testing.T) {
	i, _ := newTestIssuer(t, "secret")

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
		UserID:           "u1",
		Check:            true,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = i.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenMalformed)
}

func TestVerify_Malformed(t *testing.T) {
	i, _ := newTestIssuer(t, "k")

	for _, tok := range []string{"", "not.a.jwt", "abc", "a.b.c.d"} {
		_, err := i.Verify(tok)
		require.ErrorIs(t, err, common.ErrTokenMalformed, "token %q", tok)
	}
}

func TestVerify_Concurrent(t *testing.T) {
	i, _ := newTestIssuer(t, "k")
	tok, err := i.Issue("u1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for n := 0; n < 16; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := i.Verify(tok)
			assert.NoError(t, err)
			assert.Equal(t, "u1", got)
		}()
	}
	wg.Wait()
}
