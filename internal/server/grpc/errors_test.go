package grpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"bad request", fmt.Errorf("%w: mail: cannot be blank", common.ErrorBadRequest), codes.InvalidArgument},
		{"not found", common.ErrorNotFound, codes.NotFound},
		{"unauthorized", common.ErrorUnauthorized, codes.Unauthenticated},
		{"expired", fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrTokenExpired), codes.Unauthenticated},
		{"forbidden", common.ErrorForbidden, codes.PermissionDenied},
		{"exists", common.ErrorAlreadyExists, codes.AlreadyExists},
		{"internal", common.ErrorInternal, codes.Internal},
		{"unknown", errors.New("pq: connection reset"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(toStatus(tt.err)))
		})
	}

	assert.NoError(t, toStatus(nil))
	assert.Equal(t, "internal error", status.Convert(toStatus(errors.New("secret detail"))).Message())
	assert.Equal(t, common.ErrTokenExpired.Error(), status.Convert(toStatus(common.ErrTokenExpired)).Message())
}
