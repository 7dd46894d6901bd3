package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-account-service/internal/model"
	"go-account-service/pkg/apierror"
)

const userColumns = `id, name, pronoun, email, password_hash, phone, birth_date,
	national_id, active, created_at, updated_at, deleted_at, deleted_by`

// activeOnly scopes every lookup to live accounts. Soft-deleted and
// deactivated rows are invisible to the core.
const activeOnly = `active AND deleted_at IS NULL`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindActiveByID(ctx context.Context, id string) (model.User, error) {
	return r.findActive(ctx, `id = $1`, id)
}

func (r *UserRepository) FindActiveByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findActive(ctx, `email = $1`, email)
}

func (r *UserRepository) FindActiveByNationalID(ctx context.Context, nationalID string) (model.User, error) {
	return r.findActive(ctx, `national_id = $1`, nationalID)
}

func (r *UserRepository) findActive(ctx context.Context, predicate string, arg string) (model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s AND %s`, userColumns, predicate, activeOnly)

	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.New(apierror.CodeNotFound, "user not found", "", http.StatusNotFound)
	}
	if err != nil {
		return model.User{}, storageError("find user", err)
	}

	return u, nil
}

// Insert persists a new account. The partial unique indexes are the single
// arbiter of email/national-id uniqueness, so a racing duplicate registration
// gets exactly one winner; the loser surfaces here as a taken-field error.
func (r *UserRepository) Insert(ctx context.Context, u model.User) (model.User, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, name, pronoun, email, password_hash, phone, birth_date,
		                    national_id, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.Name, u.Pronoun, u.Email, u.PasswordHash, u.Phone, u.BirthDate,
		u.NationalID, u.Active, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if conflict := conflictError(err); conflict != nil {
			return model.User{}, conflict
		}
		return model.User{}, storageError("insert user", err)
	}

	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u model.User) (model.User, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET name = $2, pronoun = $3, email = $4, phone = $5, birth_date = $6,
		     national_id = $7, updated_at = $8
		 WHERE id = $1 AND `+activeOnly,
		u.ID, u.Name, u.Pronoun, u.Email, u.Phone, u.BirthDate, u.NationalID, u.UpdatedAt)
	if err != nil {
		if conflict := conflictError(err); conflict != nil {
			return model.User{}, conflict
		}
		return model.User{}, storageError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return model.User{}, apierror.New(apierror.CodeNotFound, "user not found", u.ID, http.StatusNotFound)
	}

	return u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1 AND `+activeOnly,
		id, passwordHash)
	if err != nil {
		return storageError("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New(apierror.CodeNotFound, "user not found", id, http.StatusNotFound)
	}

	return nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string, deletedBy string) (model.User, error) {
	query := fmt.Sprintf(
		`UPDATE users
		 SET active = FALSE, deleted_at = now(), deleted_by = $2, updated_at = now()
		 WHERE id = $1 AND %s
		 RETURNING %s`, activeOnly, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, id, deletedBy))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.New(apierror.CodeNotFound, "user not found", id, http.StatusNotFound)
	}
	if err != nil {
		return model.User{}, storageError("soft delete user", err)
	}

	return u, nil
}

// DeletePermanently removes the row outright. Not reachable from the normal
// API flows; kept for operational cleanup of soft-deleted accounts.
func (r *UserRepository) DeletePermanently(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return storageError("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New(apierror.CodeNotFound, "user not found", id, http.StatusNotFound)
	}

	return nil
}

func (r *UserRepository) List(ctx context.Context, page int, limit int) ([]model.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE `+activeOnly).Scan(&total)
	if err != nil {
		return nil, 0, storageError("count users", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		userColumns, activeOnly)

	rows, err := r.pool.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, storageError("list users", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, storageError("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageError("list users", err)
	}

	return users, total, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Pronoun, &u.Email, &u.PasswordHash, &u.Phone,
		&u.BirthDate, &u.NationalID, &u.Active, &u.CreatedAt, &u.UpdatedAt,
		&u.DeletedAt, &u.DeletedBy)
	return u, err
}

// conflictError maps a postgres unique violation to the taken-field code for
// the constraint that fired, or nil if err is not a unique violation.
func conflictError(err error) *apierror.APIError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}

	switch pgErr.ConstraintName {
	case "users_active_email_key":
		return apierror.New(apierror.CodeEmailTaken, "email already registered", "", http.StatusConflict)
	case "users_active_national_id_key":
		return apierror.New(apierror.CodeNationalIDTaken, "national id already registered", "", http.StatusConflict)
	default:
		return apierror.New(apierror.CodeConflict, "record conflicts with existing data", pgErr.ConstraintName, http.StatusConflict)
	}
}

// storageError classifies any other database failure. From the core's
// perspective a failing query and an unreachable database look the same; the
// caller may retry once, the core never does.
func storageError(op string, err error) error {
	return apierror.Wrap(apierror.CodeStorageUnavailable, "storage unavailable", http.StatusServiceUnavailable,
		fmt.Errorf("%s: %w", op, err))
}
