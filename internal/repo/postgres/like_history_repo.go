package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/goodwill/internal/domain/enums"
	"github.com/ivankudzin/goodwill/internal/domain/model"
)

var ErrHistoryNotFound = errors.New("like history not found")

type LikeHistoryRepo struct {
	pool *pgxpool.Pool
}

func NewLikeHistoryRepo(pool *pgxpool.Pool) *LikeHistoryRepo {
	return &LikeHistoryRepo{pool: pool}
}

const historyColumns = `id::text, from_phone_number, to_phone_number, action, qualities, created_at`

// seq breaks created_at ties in insert order.
const historyOrder = `ORDER BY created_at DESC, seq DESC`

func scanHistory(row pgx.Row) (model.LikeHistory, error) {
	var (
		entry     model.LikeHistory
		action    string
		qualities []byte
	)
	if err := row.Scan(
		&entry.ID,
		&entry.FromPhoneNumber,
		&entry.ToPhoneNumber,
		&action,
		&qualities,
		&entry.CreatedAt,
	); err != nil {
		return model.LikeHistory{}, err
	}
	entry.Action = enums.LikeAction(action)

	if len(qualities) > 0 {
		decoded, err := decodeQualities(qualities)
		if err != nil {
			return model.LikeHistory{}, err
		}
		entry.Qualities = decoded
	}
	return entry, nil
}

func (r *LikeHistoryRepo) Append(ctx context.Context, tx pgx.Tx, entry model.LikeHistory) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if !entry.Action.Valid() {
		return fmt.Errorf("invalid like action %q", entry.Action)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	var qualities []byte
	if entry.Qualities != nil {
		raw, err := encodeQualities(entry.Qualities)
		if err != nil {
			return err
		}
		qualities = raw
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO like_history (
	id,
	from_phone_number,
	to_phone_number,
	action,
	qualities,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6)
`,
		entry.ID,
		entry.FromPhoneNumber,
		entry.ToPhoneNumber,
		string(entry.Action),
		qualities,
		entry.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert like history: %w", err)
	}

	return nil
}

func (r *LikeHistoryRepo) list(ctx context.Context, sql string, args ...any) ([]model.LikeHistory, error) {
	if r.pool == nil {
		return nil, errNilPool
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list like history: %w", err)
	}
	defer rows.Close()

	items := make([]model.LikeHistory, 0)
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan like history: %w", err)
		}
		items = append(items, entry)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate like history: %w", rows.Err())
	}

	return items, nil
}

func (r *LikeHistoryRepo) ListSent(ctx context.Context, phone string) ([]model.LikeHistory, error) {
	return r.list(ctx, `
SELECT `+historyColumns+`
FROM like_history
WHERE from_phone_number = $1 AND action = 'LIKE'
`+historyOrder+`
`, phone)
}

func (r *LikeHistoryRepo) ListReceived(ctx context.Context, phone string) ([]model.LikeHistory, error) {
	return r.list(ctx, `
SELECT `+historyColumns+`
FROM like_history
WHERE to_phone_number = $1 AND action = 'LIKE'
`+historyOrder+`
`, phone)
}

// ListBetween returns every action exchanged by the two users in either direction.
func (r *LikeHistoryRepo) ListBetween(ctx context.Context, a, b string) ([]model.LikeHistory, error) {
	return r.list(ctx, `
SELECT `+historyColumns+`
FROM like_history
WHERE (from_phone_number = $1 AND to_phone_number = $2)
	OR (from_phone_number = $2 AND to_phone_number = $1)
`+historyOrder+`
`, a, b)
}

func (r *LikeHistoryRepo) MostRecent(ctx context.Context, from, to string) (model.LikeHistory, error) {
	if r.pool == nil {
		return model.LikeHistory{}, errNilPool
	}

	entry, err := scanHistory(r.pool.QueryRow(ctx, `
SELECT `+historyColumns+`
FROM like_history
WHERE from_phone_number = $1 AND to_phone_number = $2
`+historyOrder+`
LIMIT 1
`, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LikeHistory{}, ErrHistoryNotFound
		}
		return model.LikeHistory{}, fmt.Errorf("find most recent like action: %w", err)
	}

	return entry, nil
}
