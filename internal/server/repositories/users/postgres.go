package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrUniqueViolation = "23505"

// selectUser is completed with the password column expression and a WHERE
// clause by the lookups.
const selectUser = `SELECT u.id, u.username, u.mail, u.firstname, u.lastname, u.img_url, %s,
		u.disabled, u.account_activated, u.refresh_token, u.created_at, u.updated_at,
		COALESCE(string_agg(r.name, ',' ORDER BY r.name), '')
	FROM users u
	LEFT JOIN users_roles ur ON ur.user_id = u.id
	LEFT JOIN user_roles r ON r.id = ur.role_id
	WHERE %s
	GROUP BY u.id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	err := dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO users (id, username, mail, firstname, lastname, img_url, password_hash,
				disabled, account_activated, refresh_token)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING created_at, updated_at
			 `
		err := tx.QueryRowContext(ctx, query,
			user.ID, user.UserName, user.Mail, user.FirstName, user.LastName, user.ImgURL, user.PasswordHash,
			user.Disabled, user.AccountActivated, nullIfEmpty(user.RefreshToken),
		).Scan(&user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return common.ErrorAlreadyExists
			}
			return fmt.Errorf("db error: %w", err)
		}

		for _, role := range user.Roles {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO users_roles (user_id, role_id)
				 SELECT $1, id FROM user_roles WHERE name = $2`,
				user.ID, string(role))
			if err != nil {
				return fmt.Errorf("db error: %w", err)
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				return fmt.Errorf("unknown role %q", role)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// SetRefreshToken stores token for an enabled user. A missing or disabled
// user yields common.ErrorNotFound and nothing is written.
func (r *PostgresRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	return r.execOne(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = now()
		 WHERE id = $1 AND disabled = FALSE`,
		id, nullIfEmpty(token))
}

func (r *PostgresRepository) ClearRefreshToken(ctx context.Context, id string) error {
	return r.execOne(ctx,
		`UPDATE users SET refresh_token = NULL, updated_at = now()
		 WHERE id = $1`,
		id)
}

func (r *PostgresRepository) SetActivated(ctx context.Context, id string) error {
	return r.execOne(ctx,
		`UPDATE users SET account_activated = TRUE, updated_at = now()
		 WHERE id = $1`,
		id)
}

// execOne runs a single-row update keyed by id. Zero affected rows is
// common.ErrorNotFound.
func (r *PostgresRepository) execOne(ctx context.Context, query string, id string, args ...any) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	res, err := r.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.findOne(ctx, "u.id = $1", false, id)
}

func (r *PostgresRepository) FindByMail(ctx context.Context, mail string, includeSecret bool) (*models.User, error) {
	return r.findOne(ctx, "u.mail = $1", includeSecret, mail)
}

func (r *PostgresRepository) FindByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorNotFound
	}
	return r.findOne(ctx, "u.refresh_token = $1", false, token)
}

func (r *PostgresRepository) findOne(ctx context.Context, where string, includeSecret bool, arg any) (*models.User, error) {
	password := "''"
	if includeSecret {
		password = "u.password_hash"
	}
	query := fmt.Sprintf(selectUser, password, where)

	var (
		user         models.User
		refreshToken sql.NullString
		roles        string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.UserName, &user.Mail, &user.FirstName, &user.LastName, &user.ImgURL, &user.PasswordHash,
		&user.Disabled, &user.AccountActivated, &refreshToken, &user.CreatedAt, &user.UpdatedAt,
		&roles,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.RefreshToken = refreshToken.String
	user.Roles = parseRoles(roles)
	return &user, nil
}

func (r *PostgresRepository) RotateRefreshToken(ctx context.Context, id, expected, next string) error {
	if expected == "" {
		return common.ErrTokenSuperseded
	}
	query :=
		`UPDATE users SET refresh_token = $3, updated_at = now()
		 WHERE id = $1 AND refresh_token = $2
		 `
	res, err := r.db.ExecContext(ctx, query, id, expected, nullIfEmpty(next))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrTokenSuperseded
	}
	return nil
}

func (r *PostgresRepository) Archive(ctx context.Context, ids []string) (int64, error) {
	var total int64
	err := dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, id := range ids {
			if _, err := uuid.Parse(id); err != nil {
				continue
			}
			res, err := tx.ExecContext(ctx,
				`UPDATE users SET disabled = TRUE, refresh_token = NULL, updated_at = now()
				 WHERE id = $1`, id)
			if err != nil {
				return fmt.Errorf("db error: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected error: %w", err)
			}
			total += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func parseRoles(s string) []models.Role {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	roles := make([]models.Role, 0, len(parts))
	for _, p := range parts {
		if role, ok := models.ParseRole(p); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}
