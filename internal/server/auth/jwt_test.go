package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() Payload {
	return Payload{
		ID:        "user-123",
		UserName:  "u1",
		Roles:     []string{"Visitor"},
		Mail:      "a@x.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		ImgURL:    models.DefaultImgURL,
	}
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer()
	secret := []byte("secret-a")

	tok, err := issuer.Issue(samplePayload(), secret, time.Hour)
	require.NoError(t, err)

	got, err := issuer.Verify(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), *got)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer()
	tok, err := issuer.Issue(samplePayload(), []byte("secret-a"), time.Hour)
	require.NoError(t, err)

	_, err = issuer.Verify(tok, []byte("secret-b"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	issuer := NewTokenIssuer(WithClock(func() time.Time { return now }))
	secret := []byte("secret")

	tok, err := issuer.Issue(samplePayload(), secret, time.Minute)
	require.NoError(t, err)

	now = start.Add(30 * time.Second)
	_, err = issuer.Verify(tok, secret)
	require.NoError(t, err)

	now = start.Add(2 * time.Minute)
	_, err = issuer.Verify(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_Tampered(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer()
	secret := []byte("secret")
	tok, err := issuer.Issue(samplePayload(), secret, time.Hour)
	require.NoError(t, err)

	tampered := tok[:len(tok)-2] + "xx"
	if tampered == tok {
		tampered = tok[:len(tok)-2] + "yy"
	}
	_, err = issuer.Verify(tampered, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Payload:          samplePayload(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := tok.SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenIssuer().Verify(signed, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_MissingID(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer()
	secret := []byte("secret")
	tok, err := issuer.Issue(Payload{UserName: "ghost"}, secret, time.Hour)
	require.NoError(t, err)

	_, err = issuer.Verify(tok, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer().Verify("not.a.jwt", []byte("k"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = NewTokenIssuer().Verify("", []byte("k"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestIssue_TokensAreUnique(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer()
	a, err := issuer.Issue(samplePayload(), []byte("s"), time.Hour)
	require.NoError(t, err)
	b, err := issuer.Issue(samplePayload(), []byte("s"), time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIssue_InvalidArguments(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer()
	_, err := issuer.Issue(samplePayload(), nil, time.Hour)
	assert.Error(t, err)
	_, err = issuer.Issue(samplePayload(), []byte("s"), 0)
	assert.Error(t, err)
}

func TestDecode_IgnoresSignatureAndExpiry(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-48 * time.Hour)
	issuer := NewTokenIssuer(WithClock(func() time.Time { return past }))
	tok, err := issuer.Issue(samplePayload(), []byte("someone-elses-secret"), time.Hour)
	require.NoError(t, err)

	got, err := NewTokenIssuer().Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got.ID)

	_, err = NewTokenIssuer().Decode("garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestPayloadFromUser(t *testing.T) {
	u := &models.User{
		ID: "id1", UserName: "u", Mail: "m@x.com", FirstName: "F", LastName: "L",
		ImgURL: "/img.png", Disabled: true, Roles: []models.Role{models.RoleAdmin},
		PasswordHash: "never-in-token", RefreshToken: "never-in-token",
	}
	p := PayloadFromUser(u)
	assert.Equal(t, Payload{
		ID: "id1", UserName: "u", Roles: []string{"Admin"}, Mail: "m@x.com",
		FirstName: "F", LastName: "L", ImgURL: "/img.png", Disabled: true,
	}, p)
}
