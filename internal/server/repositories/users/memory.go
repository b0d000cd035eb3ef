package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. Records are copied on the
// way in and out so callers never share state with the store.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]*models.User
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User), now: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byMail(user.Mail) != nil {
		return nil, common.ErrorAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, ok := r.users[user.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if user.RefreshToken != "" && r.byRefreshToken(user.RefreshToken) != nil {
		return nil, common.ErrorAlreadyExists
	}

	now := r.now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = clone(user)
	return user, nil
}

func (r *MemoryRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.Disabled {
		return common.ErrorNotFound
	}
	if other := r.byRefreshToken(token); other != nil && other.ID != id {
		return common.ErrorAlreadyExists
	}
	u.RefreshToken = token
	u.UpdatedAt = r.now().UTC()
	return nil
}

func (r *MemoryRepository) ClearRefreshToken(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshToken = ""
	u.UpdatedAt = r.now().UTC()
	return nil
}

func (r *MemoryRepository) SetActivated(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.AccountActivated = true
	u.UpdatedAt = r.now().UTC()
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return withoutHash(u), nil
}

func (r *MemoryRepository) FindByMail(ctx context.Context, mail string, includeSecret bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.byMail(mail)
	if u == nil {
		return nil, common.ErrorNotFound
	}
	if includeSecret {
		return clone(u), nil
	}
	return withoutHash(u), nil
}

func (r *MemoryRepository) FindByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.byRefreshToken(token)
	if u == nil {
		return nil, common.ErrorNotFound
	}
	return withoutHash(u), nil
}

func (r *MemoryRepository) RotateRefreshToken(ctx context.Context, id, expected, next string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || expected == "" || u.RefreshToken != expected {
		return common.ErrTokenSuperseded
	}
	u.RefreshToken = next
	u.UpdatedAt = r.now().UTC()
	return nil
}

func (r *MemoryRepository) Archive(ctx context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, id := range ids {
		u, ok := r.users[id]
		if !ok {
			continue
		}
		u.Disabled = true
		u.RefreshToken = ""
		u.UpdatedAt = r.now().UTC()
		n++
	}
	return n, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryRepository) byMail(mail string) *models.User {
	for _, u := range r.users {
		if u.Mail == mail {
			return u
		}
	}
	return nil
}

func (r *MemoryRepository) byRefreshToken(token string) *models.User {
	if token == "" {
		return nil
	}
	for _, u := range r.users {
		if u.RefreshToken == token {
			return u
		}
	}
	return nil
}

func clone(u *models.User) *models.User {
	c := *u
	c.Roles = append([]models.Role(nil), u.Roles...)
	return &c
}

func withoutHash(u *models.User) *models.User {
	c := clone(u)
	c.PasswordHash = ""
	return c
}
