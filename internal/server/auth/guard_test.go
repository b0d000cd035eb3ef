package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	admin := &Principal{Payload: Payload{ID: "a", Roles: []string{"Admin"}}}
	visitor := &Principal{Payload: Payload{ID: "v", Roles: []string{"Visitor"}}}
	noRoles := &Principal{Payload: Payload{ID: "n"}}

	tests := []struct {
		name string
		p    *Principal
		rule Rule
		want error
	}{
		{"anonymous", nil, Rule{}, common.ErrorUnauthorized},
		{"any authenticated", noRoles, Rule{}, nil},
		{"admin only, admin", admin, Rule{Roles: []models.Role{models.RoleAdmin}}, nil},
		{"admin only, visitor", visitor, Rule{Roles: []models.Role{models.RoleAdmin}}, common.ErrorForbidden},
		{"either role", visitor, Rule{Roles: []models.Role{models.RoleAdmin, models.RoleVisitor}}, nil},
		{"visitor only, no roles", noRoles, Rule{Roles: []models.Role{models.RoleVisitor}}, common.ErrorForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.p, tt.rule)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheckOwnership(t *testing.T) {
	admin := &Principal{Payload: Payload{ID: "a", Roles: []string{"Admin"}}}
	visitor := &Principal{Payload: Payload{ID: "v", Roles: []string{"Visitor"}}}

	assert.NoError(t, CheckOwnership(visitor, "v"))
	assert.ErrorIs(t, CheckOwnership(visitor, "someone-else"), common.ErrorForbidden)
	assert.NoError(t, CheckOwnership(admin, "someone-else"))
	assert.ErrorIs(t, CheckOwnership(nil, "v"), common.ErrorUnauthorized)
}

func TestGuard_Check(t *testing.T) {
	now := time.Now()
	issuer := NewTokenIssuer(WithClock(func() time.Time { return now }))
	secret := []byte("access")
	g := NewGuard(NewResolver(issuer, secret), Rules{
		"/svc/Me":    {},
		"/svc/Admin": {Roles: []models.Role{models.RoleAdmin}},
	})

	visitorTok, err := issuer.Issue(samplePayload(), secret, time.Minute)
	require.NoError(t, err)
	bearer := "Bearer " + visitorTok

	// public, anonymous
	p, err := g.Check("/svc/Login", "")
	assert.NoError(t, err)
	assert.Nil(t, p)

	// public, garbage token is ignored
	p, err = g.Check("/svc/Login", "Bearer garbage")
	assert.NoError(t, err)
	assert.Nil(t, p)

	// public, valid token still resolves
	p, err = g.Check("/svc/Login", bearer)
	assert.NoError(t, err)
	require.NotNil(t, p)

	_, err = g.Check("/svc/Me", "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	p, err = g.Check("/svc/Me", bearer)
	require.NoError(t, err)
	assert.Equal(t, "user-123", p.ID)

	_, err = g.Check("/svc/Admin", bearer)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	now = now.Add(time.Hour)
	_, err = g.Check("/svc/Me", bearer)
	assert.True(t, errors.Is(err, common.ErrorUnauthorized))
	assert.True(t, errors.Is(err, common.ErrTokenExpired))
}

func TestGuard_Rule(t *testing.T) {
	g := NewGuard(NewResolver(NewTokenIssuer(), []byte("k")), Rules{"/svc/Me": {}})
	_, ok := g.Rule("/svc/Me")
	assert.True(t, ok)
	_, ok = g.Rule("/svc/Public")
	assert.False(t, ok)
}
