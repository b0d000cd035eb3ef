package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Payload is the user identity embedded verbatim in both token kinds.
type Payload struct {
	ID        string   `json:"id"`
	UserName  string   `json:"username"`
	Roles     []string `json:"roles"`
	Mail      string   `json:"mail"`
	FirstName string   `json:"firstname"`
	LastName  string   `json:"lastname"`
	ImgURL    string   `json:"imgUrl"`
	Disabled  bool     `json:"disabled"`
}

// PayloadFromUser derives the token payload from a directory record.
func PayloadFromUser(u *models.User) Payload {
	return Payload{
		ID:        u.ID,
		UserName:  u.UserName,
		Roles:     u.RoleNames(),
		Mail:      u.Mail,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImgURL:    u.ImgURL,
		Disabled:  u.Disabled,
	}
}

// Claims is the payload plus the standard registered claims.
type Claims struct {
	Payload
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	now func() time.Time
}

// IssuerOption configures a TokenIssuer.
type IssuerOption func(*TokenIssuer)

// WithClock overrides the time source used for both issuing and verifying.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *TokenIssuer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewTokenIssuer(opts ...IssuerOption) *TokenIssuer {
	i := &TokenIssuer{now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue signs payload with secret; the token expires at now+ttl. Every token
// gets a fresh jti, so two issuances for the same payload never collide.
func (i *TokenIssuer) Issue(payload Payload, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("signing secret is empty")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be greater than zero")
	}

	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Payload: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature and expiry against secret and returns the payload.
// Expired tokens yield common.ErrTokenExpired, everything else
// common.ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string, secret []byte) (*Payload, error) {
	if tokenString == "" || len(secret) == 0 {
		return nil, common.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Payload.ID == "" {
		return nil, common.ErrInvalidToken
	}

	return &claims.Payload, nil
}

// Decode reads the payload without checking signature or expiry. The result
// is only an identity hint and must not be trusted.
func (i *TokenIssuer) Decode(tokenString string) (*Payload, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, common.ErrInvalidToken
	}
	return &claims.Payload, nil
}
