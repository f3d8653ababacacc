package changelog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akarpovs/shelfkeeper/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Append records a mutation. AUTOINCREMENT guarantees seq monotonicity even
// across deletes.
func (r *SQLiteRepository) Append(ctx context.Context, itemID string, op Op, fields map[string]string) (int64, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return 0, fmt.Errorf("failed to encode changed fields: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO change_log (item_id, op, fields, created_at) VALUES (?, ?, ?, ?)`,
		itemID, op, string(b), time.Now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to append change log entry: %w", err)
	}
	return res.LastInsertId()
}

// ListForItem returns an item's entries in seq order.
func (r *SQLiteRepository) ListForItem(ctx context.Context, itemID string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, item_id, op, fields, created_at FROM change_log WHERE item_id=? ORDER BY seq`,
		itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to select change log entries: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var (
			e         Entry
			fields    string
			createdAt int64
		)
		if err := rows.Scan(&e.Seq, &e.ItemID, &e.Op, &fields, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fields), &e.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode changed fields: %w", err)
		}
		e.CreatedAt = time.Unix(0, createdAt).UTC()
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteForItem drops an item's acknowledged entries.
func (r *SQLiteRepository) DeleteForItem(ctx context.Context, itemID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM change_log WHERE item_id=?`, itemID); err != nil {
		return fmt.Errorf("failed to delete change log entries: %w", err)
	}
	return nil
}
