package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/goodwill/internal/domain/model"
)

var ErrLikeNotFound = errors.New("like not found")

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

const likeColumns = `
	id::text,
	from_phone_number,
	to_phone_number,
	is_endorsed,
	used_search,
	is_mother_quality,
	qualities,
	is_notified,
	created_at`

func scanLike(row pgx.Row) (model.Like, error) {
	var (
		like      model.Like
		qualities []byte
	)
	if err := row.Scan(
		&like.ID,
		&like.FromPhoneNumber,
		&like.ToPhoneNumber,
		&like.IsEndorsed,
		&like.UsedSearch,
		&like.IsMotherQuality,
		&qualities,
		&like.IsNotified,
		&like.CreatedAt,
	); err != nil {
		return model.Like{}, err
	}

	decoded, err := decodeQualities(qualities)
	if err != nil {
		return model.Like{}, err
	}
	like.Qualities = decoded
	return like, nil
}

func encodeQualities(qualities []model.QualityWithMetadata) ([]byte, error) {
	if qualities == nil {
		qualities = []model.QualityWithMetadata{}
	}
	raw, err := json.Marshal(qualities)
	if err != nil {
		return nil, fmt.Errorf("encode qualities: %w", err)
	}
	return raw, nil
}

func decodeQualities(raw []byte) ([]model.QualityWithMetadata, error) {
	qualities := []model.QualityWithMetadata{}
	if len(raw) == 0 {
		return qualities, nil
	}
	if err := json.Unmarshal(raw, &qualities); err != nil {
		return nil, fmt.Errorf("decode qualities: %w", err)
	}
	return qualities, nil
}

func scanLikes(rows pgx.Rows) ([]model.Like, error) {
	defer rows.Close()

	items := make([]model.Like, 0)
	for rows.Next() {
		like, err := scanLike(rows)
		if err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		items = append(items, like)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate likes: %w", rows.Err())
	}

	return items, nil
}

func (r *LikeRepo) Create(ctx context.Context, tx pgx.Tx, like model.Like) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if _, err := uuid.Parse(like.ID); err != nil {
		return fmt.Errorf("invalid like id: %w", err)
	}
	qualities, err := encodeQualities(like.Qualities)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO likes (
	id,
	from_phone_number,
	to_phone_number,
	is_endorsed,
	used_search,
	is_mother_quality,
	qualities,
	is_notified,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`,
		like.ID,
		like.FromPhoneNumber,
		like.ToPhoneNumber,
		like.IsEndorsed,
		like.UsedSearch,
		like.IsMotherQuality,
		qualities,
		like.IsNotified,
		like.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}

	return nil
}

func (r *LikeRepo) FindByID(ctx context.Context, tx pgx.Tx, id string) (model.Like, error) {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return model.Like{}, ErrLikeNotFound
	}
	q, err := pick(r.pool, tx)
	if err != nil {
		return model.Like{}, err
	}

	like, err := scanLike(q.QueryRow(ctx, `
SELECT`+likeColumns+`
FROM likes
WHERE id = $1
`, strings.TrimSpace(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Like{}, ErrLikeNotFound
		}
		return model.Like{}, fmt.Errorf("find like: %w", err)
	}

	return like, nil
}

// FindLatestByPair returns the newest like sent from -> to.
func (r *LikeRepo) FindLatestByPair(ctx context.Context, tx pgx.Tx, from, to string) (model.Like, error) {
	q, err := pick(r.pool, tx)
	if err != nil {
		return model.Like{}, err
	}

	like, err := scanLike(q.QueryRow(ctx, `
SELECT`+likeColumns+`
FROM likes
WHERE from_phone_number = $1 AND to_phone_number = $2
ORDER BY created_at DESC, id DESC
LIMIT 1
`, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Like{}, ErrLikeNotFound
		}
		return model.Like{}, fmt.Errorf("find like by pair: %w", err)
	}

	return like, nil
}

func (r *LikeRepo) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `DELETE FROM likes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrLikeNotFound
	}

	return nil
}

func (r *LikeRepo) SetEndorsed(ctx context.Context, tx pgx.Tx, id string, endorsed bool) (model.Like, error) {
	if tx == nil {
		return model.Like{}, fmt.Errorf("transaction is required")
	}

	like, err := scanLike(tx.QueryRow(ctx, `
UPDATE likes
SET is_endorsed = $2
WHERE id = $1
RETURNING`+likeColumns, id, endorsed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Like{}, ErrLikeNotFound
		}
		return model.Like{}, fmt.Errorf("update like endorsement: %w", err)
	}

	return like, nil
}

// CountSentBetween counts likes sent by phone with created_at in [start, end).
func (r *LikeRepo) CountSentBetween(ctx context.Context, tx pgx.Tx, phone string, start, end time.Time) (int, error) {
	q, err := pick(r.pool, tx)
	if err != nil {
		return 0, err
	}

	var count int
	if err := q.QueryRow(ctx, `
SELECT COUNT(*)
FROM likes
WHERE from_phone_number = $1
	AND created_at >= $2
	AND created_at < $3
`, phone, start.UTC(), end.UTC()).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sent likes: %w", err)
	}

	return count, nil
}

// ListReceived returns likes received by phone, oldest first.
func (r *LikeRepo) ListReceived(ctx context.Context, phone string) ([]model.Like, error) {
	if r.pool == nil {
		return nil, errNilPool
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+likeColumns+`
FROM likes
WHERE to_phone_number = $1
ORDER BY created_at ASC, id ASC
`, phone)
	if err != nil {
		return nil, fmt.Errorf("list received likes: %w", err)
	}

	return scanLikes(rows)
}

func (r *LikeRepo) ListReceivedByPhones(ctx context.Context, phones []string) ([]model.Like, error) {
	if len(phones) == 0 {
		return []model.Like{}, nil
	}
	if r.pool == nil {
		return nil, errNilPool
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+likeColumns+`
FROM likes
WHERE to_phone_number = ANY($1)
ORDER BY created_at ASC, id ASC
`, phones)
	if err != nil {
		return nil, fmt.Errorf("list received likes by phones: %w", err)
	}

	return scanLikes(rows)
}

// ExistsEarlier reports whether from already liked to before the given instant.
func (r *LikeRepo) ExistsEarlier(ctx context.Context, from, to string, before time.Time) (bool, error) {
	if r.pool == nil {
		return false, errNilPool
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1
	FROM likes
	WHERE from_phone_number = $1
		AND to_phone_number = $2
		AND created_at < $3
)
`, from, to, before.UTC()).Scan(&exists); err != nil {
		return false, fmt.Errorf("lookup earlier like: %w", err)
	}

	return exists, nil
}

func (r *LikeRepo) CountSentBefore(ctx context.Context, phone string, before time.Time) (int, error) {
	if r.pool == nil {
		return 0, errNilPool
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM likes
WHERE from_phone_number = $1 AND created_at < $2
`, phone, before.UTC()).Scan(&count); err != nil {
		return 0, fmt.Errorf("count older sent likes: %w", err)
	}

	return count, nil
}

// CountSentToNewAccounts counts likes whose recipient account was at most
// maxAge old when the like was created.
func (r *LikeRepo) CountSentToNewAccounts(ctx context.Context, phone string, maxAge time.Duration) (int, error) {
	if r.pool == nil {
		return 0, errNilPool
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM likes l
JOIN users u ON u.phone_number = l.to_phone_number
WHERE l.from_phone_number = $1
	AND l.created_at - u.created_at <= make_interval(secs => $2)
`, phone, maxAge.Seconds()).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes to new accounts: %w", err)
	}

	return count, nil
}
