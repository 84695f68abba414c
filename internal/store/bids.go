package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/naim-haider/freelancer-ai-backend/internal/domain"
)

type NewBid struct {
	UserEmail string
	Title     string
	Link      string
	Amount    float64
	Period    int
	BidText   string
	Status    domain.SubmitStatus
}

func InsertBid(ctx context.Context, db *sql.DB, nb NewBid) (string, error) {
	id := uuid.NewString()
	status := nb.Status
	if status == "" {
		status = domain.SubmitStored
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := db.ExecContext(ctx, `
INSERT INTO bids(id, user_email, title, link, amount, period, bid_text, status, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?,?);`,
		id, nb.UserEmail, nb.Title, nb.Link, nb.Amount, nb.Period, nb.BidText, string(status), now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert bid: %w", err)
	}
	return id, nil
}

func scanBids(rows *sql.Rows) ([]domain.Bid, error) {
	var out []domain.Bid
	for rows.Next() {
		var b domain.Bid
		var created, updated string
		if err := rows.Scan(&b.ID, &b.UserEmail, &b.Title, &b.Link, &b.Amount, &b.Period, &b.BidText, &b.Status, &created, &updated); err != nil {
			return nil, err
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339, created)
		b.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, b)
	}
	return out, rows.Err()
}

const bidColumns = `id, user_email, title, link, amount, period, bid_text, status, created_at, updated_at`

func ListUserBids(ctx context.Context, db *sql.DB, userEmail string) ([]domain.Bid, error) {
	rows, err := db.QueryContext(ctx, `
SELECT `+bidColumns+`
FROM bids
WHERE user_email = ?
ORDER BY created_at DESC;`, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBids(rows)
}

func ListAllBids(ctx context.Context, db *sql.DB) ([]domain.Bid, error) {
	rows, err := db.QueryContext(ctx, `
SELECT `+bidColumns+`
FROM bids
ORDER BY created_at DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBids(rows)
}

// HasBidOnLink is the duplicate probe used before placing a bid.
func HasBidOnLink(ctx context.Context, db *sql.DB, userEmail, link string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, `
SELECT 1 FROM bids WHERE user_email = ? AND link = ? LIMIT 1;`, userEmail, link).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// BidUpdate carries the editable fields; nil means "leave unchanged".
type BidUpdate struct {
	Title   *string
	Link    *string
	Amount  *float64
	Period  *int
	BidText *string
	Status  *string
}

func (u BidUpdate) Empty() bool {
	return u.Title == nil && u.Link == nil && u.Amount == nil &&
		u.Period == nil && u.BidText == nil && u.Status == nil
}

func UpdateBid(ctx context.Context, db *sql.DB, id string, u BidUpdate) (bool, error) {
	var sets []string
	var args []any

	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Title != nil {
		add("title", *u.Title)
	}
	if u.Link != nil {
		add("link", *u.Link)
	}
	if u.Amount != nil {
		add("amount", *u.Amount)
	}
	if u.Period != nil {
		add("period", *u.Period)
	}
	if u.BidText != nil {
		add("bid_text", *u.BidText)
	}
	if u.Status != nil {
		add("status", *u.Status)
	}
	if len(sets) == 0 {
		return false, nil
	}
	add("updated_at", time.Now().UTC().Format(time.RFC3339))

	args = append(args, id)
	res, err := db.ExecContext(ctx, `
UPDATE bids SET `+strings.Join(sets, ", ")+` WHERE id = ?;`, args...)
	if err != nil {
		return false, fmt.Errorf("update bid: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func DeleteBid(ctx context.Context, db *sql.DB, id string) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM bids WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete bid: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// CleanupOldBids drops bids older than keepDays. keepDays <= 0 disables it.
func CleanupOldBids(db *sql.DB, keepDays int) (deleted int64, err error) {
	if keepDays <= 0 {
		return 0, nil
	}
	res, err := db.Exec(`
DELETE FROM bids
WHERE created_at < datetime('now', ?);`, fmt.Sprintf("-%d days", keepDays))
	if err != nil {
		return 0, fmt.Errorf("cleanup old bids: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
