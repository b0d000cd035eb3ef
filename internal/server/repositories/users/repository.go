// Package users is the user directory: persistence of user records, their
// role assignments and the single live refresh token per user.
package users

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// Repository is the directory consumed by the auth flows.
//
// Lookups return common.ErrorNotFound for unknown users. PasswordHash is only
// filled by FindByMail with includeSecret set.
type Repository interface {
	// Create inserts user with its roles and returns it with ID and timestamps
	// set. A taken mail yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByMail(ctx context.Context, mail string, includeSecret bool) (*models.User, error)
	FindByRefreshToken(ctx context.Context, token string) (*models.User, error)
	// RotateRefreshToken replaces the stored token only if it still equals
	// expected; otherwise it returns common.ErrTokenSuperseded.
	RotateRefreshToken(ctx context.Context, id, expected, next string) error
	// Archive disables the given users and drops their refresh tokens. It
	// returns how many records were changed.
	Archive(ctx context.Context, ids []string) (int64, error)
	Delete(ctx context.Context, id string) error

	// Single-column writes: each touches only its own column. Unknown ids
	// yield common.ErrorNotFound.

	// SetRefreshToken stores token only while the user is enabled; a
	// disabled user is reported as common.ErrorNotFound.
	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshToken(ctx context.Context, id string) error
	SetActivated(ctx context.Context, id string) error
}
