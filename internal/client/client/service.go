package client

import (
	"context"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Mail      string
	Password  []byte
	UserName  string
	FirstName string
	LastName  string
}

// Account is the client-side view of a user record.
type Account struct {
	ID               string
	UserName         string
	Mail             string
	FirstName        string
	LastName         string
	Disabled         bool
	AccountActivated bool
	Roles            []string
}

type Client interface {
	Close() error
	Register(ctx context.Context, in RegisterInput) error
	Login(ctx context.Context, mail string, password []byte) error
	Logout(ctx context.Context) error
	Activate(ctx context.Context) error
	ResendActivation(ctx context.Context) error
	GetUser(ctx context.Context, id string) (*Account, error)
	DeleteAccount(ctx context.Context) error
	ArchiveUsers(ctx context.Context, ids []string) (int64, error)
	Ping(ctx context.Context) error
	LoggedIn() bool
}

var _ Client = (*GRPCClient)(nil)
