// Package services contains server-side business logic. This file implements
// AuthService: registration, login, logout, refresh-token rotation, account
// activation and the self-service account operations layered on top.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/config"
	"github.com/dmitrijs2005/gatekeeper/internal/server/mail"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/users"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const activationCodeDigits = 4

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterRequest carries the fields accepted at sign-up.
type RegisterRequest struct {
	Mail      string
	Password  string
	UserName  string
	FirstName string
	LastName  string
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mail, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type loginRequest struct {
	Mail     string
	Password string
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mail, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthService issues and rotates token pairs over the user directory.
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	hasher        auth.PasswordHasher
	issuer        *auth.TokenIssuer
	mailer        mail.Mailer
	logger        logging.Logger
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	makeCode      func(int) (string, error)
}

// NewAuthService wires the service. db may be nil when the manager does not
// need a connection (in-memory storage).
func NewAuthService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	hasher auth.PasswordHasher,
	issuer *auth.TokenIssuer,
	mailer mail.Mailer,
	logger logging.Logger,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		hasher:        hasher,
		issuer:        issuer,
		mailer:        mailer,
		logger:        logger,
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenValidityDuration,
		refreshTTL:    cfg.RefreshTokenValidityDuration,
		makeCode:      common.MakeRandDigits,
	}
}

func (s *AuthService) users() users.Repository {
	return s.repomanager.Users(s.db)
}

// Register creates a Visitor account, stores its first refresh token and
// mails an activation code. A failed mail is reported as common.ErrorInternal
// but the account is kept; ResendActivation recovers from it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*TokenPair, error) {
	req.Mail = normalizeMail(req.Mail)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorBadRequest, err)
	}

	repo := s.users()

	_, err := repo.FindByMail(ctx, req.Mail, false)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		s.logger.Error(ctx, "register: lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error(ctx, "register: hash failed", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{
		UserName:     req.UserName,
		Mail:         req.Mail,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ImgURL:       models.DefaultImgURL,
		PasswordHash: hash,
		Roles:        []models.Role{models.RoleVisitor},
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		s.logger.Error(ctx, "register: create failed", "error", err)
		return nil, common.ErrorInternal
	}

	pair, err := s.issuePair(user)
	if err != nil {
		s.logger.Error(ctx, "register: issue tokens failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	if err := repo.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		s.logger.Error(ctx, "register: store refresh token failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	user.RefreshToken = pair.RefreshToken

	if err := s.sendActivation(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return pair, nil
}

// Login verifies mail and password and replaces the stored refresh token.
func (s *AuthService) Login(ctx context.Context, mailAddr, password string) (*TokenPair, error) {
	req := loginRequest{Mail: normalizeMail(mailAddr), Password: password}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorBadRequest, err)
	}

	repo := s.users()

	user, err := repo.FindByMail(ctx, req.Mail, true)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "login: lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	if user.Disabled {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.issuePair(user)
	if err != nil {
		s.logger.Error(ctx, "login: issue tokens failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	// Only an account that is still enabled takes the new token; an archive
	// that landed after the lookup wins.
	if err := repo.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "login: account disabled or removed meanwhile", "user_id", user.ID)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login: store refresh token failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return pair, nil
}

// Logout drops the caller's refresh token. Calling it twice is harmless.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return common.ErrorBadRequest
	}

	if err := s.users().ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "logout: update failed", "user_id", userID, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// RefreshToken exchanges a live refresh token for a new pair. The presented
// token must be the one currently stored for its owner; it is consumed by a
// compare-and-swap, so each token can be redeemed once.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claimed, err := s.issuer.Decode(refreshToken)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	if claimed.ID == "" {
		return nil, common.ErrorBadRequest
	}

	if _, err := s.issuer.Verify(refreshToken, s.refreshSecret); err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
		}
		return nil, common.ErrorUnauthorized
	}

	repo := s.users()

	user, err := repo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "refresh: token not current", "user_id", claimed.ID)
			return nil, common.ErrorForbidden
		}
		s.logger.Error(ctx, "refresh: lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if user.ID != claimed.ID {
		s.logger.Warn(ctx, "refresh: owner mismatch", "user_id", claimed.ID)
		return nil, common.ErrorForbidden
	}
	if user.Disabled {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.issuePair(user)
	if err != nil {
		s.logger.Error(ctx, "refresh: issue tokens failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	if err := repo.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, common.ErrTokenSuperseded) {
			s.logger.Warn(ctx, "refresh: lost rotation race", "user_id", user.ID)
			return nil, common.ErrorForbidden
		}
		s.logger.Error(ctx, "refresh: rotate failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// ActivateAccount marks the caller's account as confirmed.
func (s *AuthService) ActivateAccount(ctx context.Context, userID string) error {
	if err := s.users().SetActivated(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "activate: update failed", "user_id", userID, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "account activated", "user_id", userID)
	return nil
}

// ResendActivation mails a fresh code to a not yet activated account.
func (s *AuthService) ResendActivation(ctx context.Context, userID string) error {
	user, err := s.lookup(ctx, s.users(), userID)
	if err != nil {
		return err
	}
	if user.AccountActivated {
		return fmt.Errorf("%w: account already activated", common.ErrorBadRequest)
	}
	return s.sendActivation(ctx, user)
}

// GetUser returns targetID's record without secrets. The caller must own the
// record or be an Admin.
func (s *AuthService) GetUser(ctx context.Context, caller *auth.Principal, targetID string) (*models.User, error) {
	if err := auth.CheckOwnership(caller, targetID); err != nil {
		return nil, err
	}
	user, err := s.lookup(ctx, s.users(), targetID)
	if err != nil {
		return nil, err
	}
	return user.WithoutSecrets(), nil
}

// DeleteAccount removes the caller's own record.
func (s *AuthService) DeleteAccount(ctx context.Context, caller *auth.Principal) error {
	if caller == nil {
		return common.ErrorUnauthorized
	}
	if err := s.users().Delete(ctx, caller.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "delete account failed", "user_id", caller.ID, "error", err)
		return common.ErrorInternal
	}
	s.logger.Info(ctx, "account deleted", "user_id", caller.ID)
	return nil
}

// ArchiveUsers disables the given accounts and revokes their refresh tokens.
func (s *AuthService) ArchiveUsers(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, common.ErrorBadRequest
	}
	n, err := s.users().Archive(ctx, ids)
	if err != nil {
		s.logger.Error(ctx, "archive users failed", "error", err)
		return 0, common.ErrorInternal
	}
	s.logger.Info(ctx, "users archived", "requested", len(ids), "archived", n)
	return n, nil
}

// --- helpers below ---

func (s *AuthService) lookup(ctx context.Context, repo users.Repository, userID string) (*models.User, error) {
	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *AuthService) issuePair(user *models.User) (*TokenPair, error) {
	payload := auth.PayloadFromUser(user)

	access, err := s.issuer.Issue(payload, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.Issue(payload, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) sendActivation(ctx context.Context, user *models.User) error {
	code, err := s.makeCode(activationCodeDigits)
	if err != nil {
		s.logger.Error(ctx, "activation code generation failed", "user_id", user.ID, "error", err)
		return common.ErrorInternal
	}
	if err := s.mailer.SendUserConfirmation(ctx, user, code); err != nil {
		s.logger.Error(ctx, "activation mail failed", "user_id", user.ID, "error", err)
		return common.ErrorInternal
	}
	return nil
}

func normalizeMail(m string) string {
	return strings.ToLower(strings.TrimSpace(m))
}
