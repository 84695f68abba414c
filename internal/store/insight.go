package store

import (
	"context"
	"database/sql"
	"regexp"
	"time"
)

// InsightEntry mirrors one stored bid in the monthly report.
type InsightEntry struct {
	Time   string  `json:"time"` // HH:MM:SS (UTC)
	Title  string  `json:"title"`
	Link   string  `json:"link"`
	Amount float64 `json:"amount"`
	Period int     `json:"period"`
	Bid    string  `json:"bid"`
	Status string  `json:"status"`
}

// UserInsight groups one user's bids for a month by day, with totals from
// the aggregation query.
type UserInsight struct {
	Days        map[string][]InsightEntry `json:"days"` // "YYYY-MM-DD" -> entries
	TotalBids   int                       `json:"total_bids"`
	TotalAmount float64                   `json:"total_amount"`
	Sent        int                       `json:"sent"`
}

var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func ValidMonth(month string) bool { return monthRe.MatchString(month) }

// CurrentMonth returns the UTC month key used by the insight report.
func CurrentMonth() string { return time.Now().UTC().Format("2006-01") }

// MonthlyInsight aggregates bids for the given "YYYY-MM" month, grouped per
// user per day. An empty userEmail returns every user (admin view).
func MonthlyInsight(ctx context.Context, db *sql.DB, month, userEmail string) (map[string]UserInsight, error) {
	rows, err := db.QueryContext(ctx, `
SELECT user_email, title, link, amount, period, bid_text, status, created_at
FROM bids
WHERE substr(created_at, 1, 7) = ?
  AND (? = '' OR user_email = ?)
ORDER BY user_email, created_at;`, month, userEmail, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]UserInsight{}
	for rows.Next() {
		var email, title, link, bidText, status, created string
		var amount float64
		var period int
		if err := rows.Scan(&email, &title, &link, &amount, &period, &bidText, &status, &created); err != nil {
			return nil, err
		}

		t, _ := time.Parse(time.RFC3339, created)
		day := t.UTC().Format("2006-01-02")

		ui, ok := out[email]
		if !ok {
			ui = UserInsight{Days: map[string][]InsightEntry{}}
		}
		ui.Days[day] = append(ui.Days[day], InsightEntry{
			Time:   t.UTC().Format("15:04:05"),
			Title:  title,
			Link:   link,
			Amount: amount,
			Period: period,
			Bid:    bidText,
			Status: status,
		})
		out[email] = ui
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Per-user totals from a grouped aggregation over the same window.
	totals, err := db.QueryContext(ctx, `
SELECT user_email,
       COUNT(*),
       COALESCE(SUM(amount), 0),
       COALESCE(SUM(CASE WHEN status = 'sent' THEN 1 ELSE 0 END), 0)
FROM bids
WHERE substr(created_at, 1, 7) = ?
  AND (? = '' OR user_email = ?)
GROUP BY user_email;`, month, userEmail, userEmail)
	if err != nil {
		return nil, err
	}
	defer totals.Close()

	for totals.Next() {
		var email string
		var count, sent int
		var amount float64
		if err := totals.Scan(&email, &count, &amount, &sent); err != nil {
			return nil, err
		}
		ui := out[email]
		ui.TotalBids = count
		ui.TotalAmount = amount
		ui.Sent = sent
		out[email] = ui
	}
	return out, totals.Err()
}
