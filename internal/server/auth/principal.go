package auth

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	Payload
}

// HasRole reports whether the principal carries role r.
func (p *Principal) HasRole(r models.Role) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Roles {
		if have == string(r) {
			return true
		}
	}
	return false
}

func (p *Principal) IsAdmin() bool {
	return p.HasRole(models.RoleAdmin)
}

// Resolver turns an Authorization header value into a Principal using the
// access-token secret.
type Resolver struct {
	issuer *TokenIssuer
	secret []byte
}

func NewResolver(issuer *TokenIssuer, accessSecret []byte) *Resolver {
	return &Resolver{issuer: issuer, secret: accessSecret}
}

// Resolve returns (nil, nil) when no bearer token is present. A token that is
// present but invalid or expired yields the verification error.
func (r *Resolver) Resolve(header string) (*Principal, error) {
	token, ok := ExtractBearer(header)
	if !ok {
		return nil, nil
	}

	payload, err := r.issuer.Verify(token, r.secret)
	if err != nil {
		return nil, err
	}

	return &Principal{Payload: *payload}, nil
}

// ExtractBearer pulls the token out of "Bearer <token>". The scheme match is
// case-insensitive.
func ExtractBearer(header string) (string, bool) {
	header = strings.TrimSpace(header)
	scheme := common.BearerScheme
	if len(header) <= len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", false
	}
	token := strings.TrimSpace(header[len(scheme):])
	if token == "" {
		return "", false
	}
	return token, true
}

type principalKey struct{}

// ContextWithPrincipal stores p in ctx.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by ContextWithPrincipal.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// RequirePrincipal is PrincipalFromContext for handlers behind the guard;
// an anonymous context yields common.ErrorUnauthorized.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return p, nil
}
