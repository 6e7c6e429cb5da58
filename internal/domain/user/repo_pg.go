package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/klinik/klinik/internal/platform/auth"
)

const pgErrUniqueViolation = "23505"

type userRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &userRepoPG{pool: pool}
}

const userCols = `id, external_id, email, full_name, role`

func (r *userRepoPG) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE external_id = $1`, externalID)

	var u User
	err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.FullName, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, external_id, email, full_name, role)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.ExternalID, u.Email, u.FullName, u.Role)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *userRepoPG) UpdateRole(ctx context.Context, id uuid.UUID, role auth.Role) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET role = $2 WHERE id = $1`, id, role)
	return err
}

func (r *userRepoPG) UpdateProfile(ctx context.Context, id uuid.UUID, email string, fullName *string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $2, full_name = $3 WHERE id = $1`, id, email, fullName)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}
