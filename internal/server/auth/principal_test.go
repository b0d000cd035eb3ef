package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"standard", "Bearer abc.def", "abc.def", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"surrounding spaces", "  Bearer   abc  ", "abc", true},
		{"empty", "", "", false},
		{"scheme only", "Bearer ", "", false},
		{"basic auth", "Basic dXNlcjpwYXNz", "", false},
		{"no scheme", "abc.def", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractBearer(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	issuer := NewTokenIssuer()
	access := []byte("access")
	refresh := []byte("refresh")
	r := NewResolver(issuer, access)

	good, err := issuer.Issue(samplePayload(), access, time.Hour)
	require.NoError(t, err)
	refreshTok, err := issuer.Issue(samplePayload(), refresh, time.Hour)
	require.NoError(t, err)

	p, err := r.Resolve("Bearer " + good)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "user-123", p.ID)

	p, err = r.Resolve("")
	assert.NoError(t, err)
	assert.Nil(t, p)

	_, err = r.Resolve("Bearer " + refreshTok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()

	_, ok := PrincipalFromContext(ctx)
	assert.False(t, ok)
	_, err := RequirePrincipal(ctx)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	p := &Principal{Payload: samplePayload()}
	ctx = ContextWithPrincipal(ctx, p)
	got, err := RequirePrincipal(ctx)
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestPrincipal_HasRole(t *testing.T) {
	var nilP *Principal
	assert.False(t, nilP.HasRole(models.RoleAdmin))

	p := &Principal{Payload: Payload{Roles: []string{"Visitor"}}}
	assert.True(t, p.HasRole(models.RoleVisitor))
	assert.False(t, p.IsAdmin())
}
