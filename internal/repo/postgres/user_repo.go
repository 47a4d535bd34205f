package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/goodwill/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id::text, phone_number, name, profile_picture, is_active, created_at`

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.PhoneNumber,
		&user.Name,
		&user.ProfilePicture,
		&user.IsActive,
		&user.CreatedAt,
	)
	return user, err
}

func (r *UserRepo) FindByPhone(ctx context.Context, tx pgx.Tx, phone string) (model.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return model.User{}, fmt.Errorf("phone number is required")
	}
	q, err := pick(r.pool, tx)
	if err != nil {
		return model.User{}, err
	}

	user, err := scanUser(q.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users
WHERE phone_number = $1
`, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("find user by phone: %w", err)
	}

	return user, nil
}

// LockByPhone takes a row lock held until tx ends.
func (r *UserRepo) LockByPhone(ctx context.Context, tx pgx.Tx, phone string) (model.User, error) {
	if tx == nil {
		return model.User{}, fmt.Errorf("transaction is required")
	}

	user, err := scanUser(tx.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users
WHERE phone_number = $1
FOR UPDATE
`, strings.TrimSpace(phone)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("lock user by phone: %w", err)
	}

	return user, nil
}

// CreatePlaceholder inserts an inactive user for a phone number that has not
// signed up yet. An existing row is returned unchanged.
func (r *UserRepo) CreatePlaceholder(ctx context.Context, tx pgx.Tx, phone string, createdAt time.Time) (model.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return model.User{}, fmt.Errorf("phone number is required")
	}
	if tx == nil {
		return model.User{}, fmt.Errorf("transaction is required")
	}

	user, err := scanUser(tx.QueryRow(ctx, `
INSERT INTO users (id, phone_number, is_active, created_at)
VALUES ($1, $2, FALSE, $3)
ON CONFLICT (phone_number) DO UPDATE SET
	phone_number = users.phone_number
RETURNING `+userColumns+`
`, uuid.NewString(), phone, createdAt.UTC()))
	if err != nil {
		return model.User{}, fmt.Errorf("create placeholder user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) ListByPhones(ctx context.Context, phones []string) ([]model.User, error) {
	if len(phones) == 0 {
		return []model.User{}, nil
	}
	if r.pool == nil {
		return nil, errNilPool
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+userColumns+`
FROM users
WHERE phone_number = ANY($1)
ORDER BY phone_number
`, phones)
	if err != nil {
		return nil, fmt.Errorf("list users by phones: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, len(phones))
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate users: %w", rows.Err())
	}

	return users, nil
}
