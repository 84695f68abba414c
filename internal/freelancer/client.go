package freelancer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	detailTimeout = 10 * time.Second
	searchTimeout = 15 * time.Second
	usersTimeout  = 15 * time.Second
	selfTimeout   = 30 * time.Second
	bidTimeout    = 30 * time.Second

	// Backoff used when a 429 comes without a Retry-After header.
	defaultRetryAfter = 5 * time.Second
)

type Config struct {
	BaseURL   string // e.g. https://www.freelancer.com/api
	Token     string // marketplace OAuth token, process-wide
	UserAgent string
}

// Client talks to the marketplace REST API. One instance is shared across
// requests; it holds no per-call state.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	hc        *http.Client

	// sleep is swappable so tests don't wait out real backoffs.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(cfg Config) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		token:     cfg.Token,
		userAgent: cfg.UserAgent,
		hc:        &http.Client{},
		sleep:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Client) newGet(ctx context.Context, path string, q url.Values) (*http.Request, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Freelancer-OAuth-V1", c.token)
	return req, nil
}

func retryAfter(res *http.Response) time.Duration {
	if s := res.Header.Get("Retry-After"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return defaultRetryAfter
}

func decodeEnvelope(res *http.Response, out any) error {
	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.Status != "success" {
		if env.Message != "" {
			return fmt.Errorf("api status %q: %s", env.Status, env.Message)
		}
		return fmt.Errorf("api status %q", env.Status)
	}
	if len(env.Result) == 0 {
		return fmt.Errorf("api success with empty result")
	}
	if out != nil {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}

// FetchProject fetches one project's detail. On 429 it sleeps the server's
// retry interval and reissues the same request; the surrounding scan budget
// bounds the overall walk, so this loops until a non-429 answer (or the
// context dies). Any other failure is reported to the caller, which treats
// the ID as a miss.
func (c *Client) FetchProject(ctx context.Context, id int64) (*RawProject, error) {
	path := fmt.Sprintf("/projects/0.1/projects/%d/", id)
	q := url.Values{}
	q.Set("full_description", "true")

	for {
		rctx, cancel := context.WithTimeout(ctx, detailTimeout)
		p, retry, err := c.fetchProjectOnce(rctx, path, q)
		cancel()
		if retry > 0 {
			if err := c.sleep(ctx, retry); err != nil {
				return nil, err
			}
			continue
		}
		return p, err
	}
}

// fetchProjectOnce returns retry > 0 when the server asked us to back off.
func (c *Client) fetchProjectOnce(ctx context.Context, path string, q url.Values) (*RawProject, time.Duration, error) {
	req, err := c.newGet(ctx, path, q)
	if err != nil {
		return nil, 0, err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("project get: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, retryAfter(res), nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("project status %d", res.StatusCode)
	}

	var p RawProject
	if err := decodeEnvelope(res, &p); err != nil {
		return nil, 0, err
	}
	if p.ID == 0 {
		return nil, 0, fmt.Errorf("project result missing id")
	}
	return &p, 0, nil
}

// SearchQuery mirrors the active-projects search filters the UI exposes.
type SearchQuery struct {
	Query       string
	MinPrice    *float64
	MaxPrice    *float64
	ProjectType string
	Limit       int
}

func (c *Client) SearchActive(ctx context.Context, sq SearchQuery) ([]RawProject, error) {
	limit := sq.Limit
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{}
	q.Set("compact", "")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("full_description", "true")
	if sq.ProjectType != "" {
		q.Add("project_types[]", sq.ProjectType)
	}
	if sq.MinPrice != nil {
		q.Set("min_avg_price", strconv.FormatFloat(*sq.MinPrice, 'f', -1, 64))
	}
	if sq.MaxPrice != nil {
		q.Set("max_avg_price", strconv.FormatFloat(*sq.MaxPrice, 'f', -1, 64))
	}
	if sq.Query != "" {
		q.Set("query", sq.Query)
	}

	rctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	req, err := c.newGet(rctx, "/projects/0.1/projects/active/", q)
	if err != nil {
		return nil, err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search status %d", res.StatusCode)
	}

	var sr searchResult
	if err := decodeEnvelope(res, &sr); err != nil {
		return nil, err
	}
	return sr.Projects, nil
}

// LookupUsers fetches reputation for all owner IDs in one bulk call. On 429
// it sleeps the retry interval once and retries exactly once.
func (c *Client) LookupUsers(ctx context.Context, ids []int64) (map[string]UserInfo, error) {
	if len(ids) == 0 {
		return map[string]UserInfo{}, nil
	}
	q := url.Values{}
	for _, id := range ids {
		q.Add("users[]", strconv.FormatInt(id, 10))
	}
	q.Set("employer_reputation", "true")
	q.Set("jobs", "true")

	users, retry, err := c.lookupUsersOnce(ctx, q)
	if retry > 0 {
		if err := c.sleep(ctx, retry); err != nil {
			return nil, err
		}
		users, retry, err = c.lookupUsersOnce(ctx, q)
		if retry > 0 {
			return nil, fmt.Errorf("users lookup rate limited twice")
		}
	}
	return users, err
}

func (c *Client) lookupUsersOnce(ctx context.Context, q url.Values) (map[string]UserInfo, time.Duration, error) {
	rctx, cancel := context.WithTimeout(ctx, usersTimeout)
	defer cancel()

	req, err := c.newGet(rctx, "/users/0.1/users/", q)
	if err != nil {
		return nil, 0, err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("users get: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, retryAfter(res), nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("users status %d", res.StatusCode)
	}

	var ur usersResult
	if err := decodeEnvelope(res, &ur); err != nil {
		return nil, 0, err
	}
	if ur.Users == nil {
		ur.Users = map[string]UserInfo{}
	}
	return ur.Users, 0, nil
}

// Self returns the token owner's user ID, used as bidder_id on submissions.
func (c *Client) Self(ctx context.Context) (int64, error) {
	rctx, cancel := context.WithTimeout(ctx, selfTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rctx, http.MethodGet, c.baseURL+"/users/0.1/self/", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("self get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("self status %d", res.StatusCode)
	}

	var self struct {
		ID int64 `json:"id"`
	}
	if err := decodeEnvelope(res, &self); err != nil {
		return 0, err
	}
	if self.ID == 0 {
		return 0, fmt.Errorf("self result missing id")
	}
	return self.ID, nil
}

// BidPayload is the outbound bid submission body.
type BidPayload struct {
	ProjectID           int64   `json:"project_id"`
	BidderID            int64   `json:"bidder_id"`
	Amount              float64 `json:"amount"`
	Period              int     `json:"period"`
	MilestonePercentage int     `json:"milestone_percentage"`
	Description         string  `json:"description"`
}

// SubmitBid posts a bid. The raw upstream body is returned alongside the
// status code so the caller can store it with the outcome; err is only for
// transport-level failures.
func (c *Client) SubmitBid(ctx context.Context, p BidPayload) (external map[string]any, status int, err error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, 0, err
	}

	rctx, cancel := context.WithTimeout(ctx, bidTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rctx, http.MethodPost, c.baseURL+"/projects/0.1/bids/", bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("bid post: %w", err)
	}
	defer res.Body.Close()

	var ext map[string]any
	_ = json.NewDecoder(res.Body).Decode(&ext)
	return ext, res.StatusCode, nil
}
