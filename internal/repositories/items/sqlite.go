package items

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akarpovs/shelfkeeper/internal/common"
	"github.com/akarpovs/shelfkeeper/internal/dbx"
	"github.com/akarpovs/shelfkeeper/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const itemColumns = `id, kind, title, notes, entered_at, attrs, deleted_at, local_version, remote_version, sync_state, field_times`

func encodeAttrs(m map[string]string) (string, error) {
	if m == nil {
		m = map[string]string{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode attrs: %w", err)
	}
	return string(b), nil
}

func encodeFieldTimes(m map[string]time.Time) (string, error) {
	nanos := make(map[string]int64, len(m))
	for k, v := range m {
		nanos[k] = v.UnixNano()
	}
	b, err := json.Marshal(nanos)
	if err != nil {
		return "", fmt.Errorf("failed to encode field times: %w", err)
	}
	return string(b), nil
}

func scanItem(row interface{ Scan(...any) error }) (*models.Item, error) {
	var (
		it         models.Item
		enteredAt  int64
		attrs      string
		deletedAt  sql.NullInt64
		fieldTimes string
	)
	if err := row.Scan(&it.ID, &it.Kind, &it.Title, &it.Notes, &enteredAt, &attrs,
		&deletedAt, &it.LocalVersion, &it.RemoteVersion, &it.SyncState, &fieldTimes); err != nil {
		return nil, err
	}

	it.EnteredAt = time.Unix(0, enteredAt).UTC()
	if deletedAt.Valid {
		t := time.Unix(0, deletedAt.Int64).UTC()
		it.DeletedAt = &t
	}

	if err := json.Unmarshal([]byte(attrs), &it.Attrs); err != nil {
		return nil, fmt.Errorf("failed to decode attrs: %w", err)
	}
	var nanos map[string]int64
	if err := json.Unmarshal([]byte(fieldTimes), &nanos); err != nil {
		return nil, fmt.Errorf("failed to decode field times: %w", err)
	}
	it.FieldTimes = make(map[string]time.Time, len(nanos))
	for k, v := range nanos {
		it.FieldTimes[k] = time.Unix(0, v).UTC()
	}

	return &it, nil
}

func (r *SQLiteRepository) args(it *models.Item) ([]any, error) {
	attrs, err := encodeAttrs(it.Attrs)
	if err != nil {
		return nil, err
	}
	fieldTimes, err := encodeFieldTimes(it.FieldTimes)
	if err != nil {
		return nil, err
	}
	var deletedAt any
	if it.DeletedAt != nil {
		deletedAt = it.DeletedAt.UnixNano()
	}
	return []any{
		it.ID, it.Kind, it.Title, it.Notes, it.EnteredAt.UnixNano(), attrs,
		deletedAt, it.LocalVersion, it.RemoteVersion, it.SyncState, fieldTimes,
	}, nil
}

// Insert adds a new row; the id must not exist.
func (r *SQLiteRepository) Insert(ctx context.Context, it *models.Item) error {
	args, err := r.args(it)
	if err != nil {
		return err
	}
	query := `INSERT INTO items (` + itemColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// Update replaces an existing row by id. It expects exactly one row to be affected.
func (r *SQLiteRepository) Update(ctx context.Context, it *models.Item) error {
	args, err := r.args(it)
	if err != nil {
		return err
	}
	query := `UPDATE items SET kind=?, title=?, notes=?, entered_at=?, attrs=?, deleted_at=?,
		local_version=?, remote_version=?, sync_state=?, field_times=? WHERE id=?`
	// reorder: id moves to the end for the WHERE clause
	res, err := r.db.ExecContext(ctx, query, append(args[1:], args[0])...)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrNotFound
	}
	return nil
}

// GetByID returns a row by id, including tombstones.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id=?`
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return it, nil
}

// List returns rows matching opts, ordered by id.
func (r *SQLiteRepository) List(ctx context.Context, opts ListOptions) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	var args []any
	if opts.Kind != "" {
		query += ` AND kind=?`
		args = append(args, opts.Kind)
	}
	if !opts.IncludeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	if opts.PendingOnly {
		query += ` AND local_version > remote_version`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	var result []*models.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountByKind counts live rows of a kind using the kind index.
func (r *SQLiteRepository) CountByKind(ctx context.Context, kind models.Kind) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM items WHERE kind=? AND deleted_at IS NULL`, kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

// PurgeTombstones removes acknowledged tombstones older than cutoff.
func (r *SQLiteRepository) PurgeTombstones(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM items WHERE deleted_at IS NOT NULL AND deleted_at < ? AND remote_version >= local_version`,
		cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge tombstones: %w", err)
	}
	return res.RowsAffected()
}
