package freelancer

import (
	"context"
	"log"
	"time"

	"golang.org/x/time/rate"
)

// ScanResult is everything one walk of the ID space produced. CheckedIDs is
// kept even when Collected is empty so callers can report what was probed.
type ScanResult struct {
	Collected  []RawProject
	CheckedIDs []int64
	LastID     int64
}

// Scanner walks the marketplace's numeric project-ID space from a starting
// ID, collecting project details until it has Target projects or has spent
// MaxAttempts fetches. The walk is deliberately sequential: one request in
// flight, a politeness delay between requests.
type Scanner struct {
	client  *Client
	target  int
	maxTry  int
	limiter *rate.Limiter
}

func NewScanner(c *Client, target, maxAttempts int, delay time.Duration) *Scanner {
	if target <= 0 {
		target = 20
	}
	if maxAttempts <= 0 {
		maxAttempts = 50
	}
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &Scanner{
		client:  c,
		target:  target,
		maxTry:  maxAttempts,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Run executes the scan. The result is valid even when err is non-nil
// (context cancellation): it holds whatever was collected so far.
//
// Fetch failures are misses, not errors; a 429 retry happens inside the
// client and consumes neither an attempt nor a cursor step.
func (s *Scanner) Run(ctx context.Context, startID int64) (ScanResult, error) {
	res := ScanResult{LastID: startID}

	cursor := startID
	for attempts := 0; len(res.Collected) < s.target && attempts < s.maxTry; attempts++ {
		// Politeness pacing between consecutive IDs.
		if err := s.limiter.Wait(ctx); err != nil {
			return res, err
		}

		res.CheckedIDs = append(res.CheckedIDs, cursor)
		res.LastID = cursor

		p, err := s.client.FetchProject(ctx, cursor)
		switch {
		case ctx.Err() != nil:
			return res, ctx.Err()
		case err != nil:
			log.Printf("[scan] id=%d miss: %v", cursor, err)
		case p != nil:
			res.Collected = append(res.Collected, *p)
		}

		cursor++
	}

	log.Printf("[scan] start=%d checked=%d collected=%d", startID, len(res.CheckedIDs), len(res.Collected))
	return res, nil
}

// EnrichClients resolves the distinct owners of the collected projects in a
// single bulk lookup. Enrichment is best-effort: every failure degrades to
// an empty map so the scan result still goes out.
func EnrichClients(ctx context.Context, c *Client, projects []RawProject) map[string]UserInfo {
	seen := map[int64]bool{}
	var ids []int64
	for _, p := range projects {
		if p.OwnerID != 0 && !seen[p.OwnerID] {
			seen[p.OwnerID] = true
			ids = append(ids, p.OwnerID)
		}
	}
	if len(ids) == 0 {
		return map[string]UserInfo{}
	}

	users, err := c.LookupUsers(ctx, ids)
	if err != nil {
		log.Printf("[enrich] users lookup failed: %v", err)
		return map[string]UserInfo{}
	}
	return users
}
