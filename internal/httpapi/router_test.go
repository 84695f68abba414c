package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/naim-haider/freelancer-ai-backend/internal/auth"
	"github.com/naim-haider/freelancer-ai-backend/internal/config"
	"github.com/naim-haider/freelancer-ai-backend/internal/events"
	"github.com/naim-haider/freelancer-ai-backend/internal/freelancer"
	"github.com/naim-haider/freelancer-ai-backend/internal/gemini"
	"github.com/naim-haider/freelancer-ai-backend/internal/store"
)

const testSecret = "test-shared-secret"

// fakeMarketplace implements the subset of the marketplace API the engine
// talks to. Project IDs present in projects get detail hits.
type fakeMarketplace struct {
	projects map[int64]string
	selfFail bool
	bidsCode int
	bidsBody string
}

func (f *fakeMarketplace) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/projects/0.1/projects/active/"):
			var list []string
			for _, p := range f.projects {
				list = append(list, p)
			}
			fmt.Fprintf(w, `{"status":"success","result":{"projects":[%s]}}`, strings.Join(list, ","))

		case strings.HasPrefix(r.URL.Path, "/projects/0.1/projects/"):
			idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/projects/0.1/projects/"), "/")
			var id int64
			fmt.Sscanf(idStr, "%d", &id)
			body, ok := f.projects[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, `{"status":"success","result":%s}`, body)

		case r.URL.Path == "/users/0.1/users/":
			fmt.Fprint(w, `{"status":"success","result":{"users":{"55":{"username":"clientguy","display_name":"Client Guy","employer_reputation":{"entire_history":{"overall":4.8}}}}}}`)

		case r.URL.Path == "/users/0.1/self/":
			if f.selfFail {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `{"status":"success","result":{"id":777}}`)

		case r.URL.Path == "/projects/0.1/bids/":
			code := f.bidsCode
			if code == 0 {
				code = http.StatusOK
			}
			body := f.bidsBody
			if body == "" {
				body = `{"status":"success","result":{"id":1}}`
			}
			w.WriteHeader(code)
			fmt.Fprint(w, body)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

type testEnv struct {
	api    *httptest.Server
	db     *store.DB
	cfgVal *atomic.Value
}

func newEnv(t *testing.T, market *fakeMarketplace, geminiURL, authURL string) *testEnv {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	marketSrv := market.server(t)
	t.Cleanup(marketSrv.Close)

	cfg := config.Default()
	cfg.Auth.BaseURL = authURL
	cfg.Marketplace.BaseURL = marketSrv.URL
	cfg.Marketplace.Scan.DelayMs = 1
	cfg.Gemini.BaseURL = geminiURL

	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	verifier, err := auth.NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	handler := NewRouter(Deps{
		DB:       db.Pool,
		Hub:      events.NewHub(),
		Market:   freelancer.New(freelancer.Config{BaseURL: marketSrv.URL, Token: "tok", UserAgent: "test"}),
		Gemini:   gemini.New(gemini.Config{BaseURL: geminiURL, Model: "test-model", APIKey: "k"}),
		AuthAPI:  auth.NewClient(authURL),
		Verifier: verifier,
		CfgVal:   &cfgVal,
	})

	api := httptest.NewServer(handler)
	t.Cleanup(api.Close)

	return &testEnv{api: api, db: db, cfgVal: &cfgVal}
}

func signToken(t *testing.T, email string, ttl time.Duration) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.api.URL+path, rd)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return res, raw
}

func decodeBody(t *testing.T, raw []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
}

func TestHealthzIsPublic(t *testing.T) {
	t.Parallel()
	env := newEnv(t, &fakeMarketplace{}, "http://unused", "http://unused")

	res, raw := env.do(t, http.MethodGet, "/healthz", "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	var body map[string]any
	decodeBody(t, raw, &body)
	if body["ok"] != true {
		t.Fatalf("body = %v", body)
	}
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()
	env := newEnv(t, &fakeMarketplace{}, "http://unused", "http://unused")

	cases := []struct {
		name       string
		token      string
		wantStatus int
		wantErr    string
	}{
		{"missing token", "", http.StatusUnauthorized, "Unauthorized, please log in."},
		{"expired token", signToken(t, "alice@example.com", -time.Hour), http.StatusUnauthorized, "Session expired, please log in again."},
		{"garbage token", "not.a.jwt", http.StatusUnauthorized, "Invalid token."},
		{"valid token", signToken(t, "alice@example.com", time.Hour), http.StatusOK, ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, raw := env.do(t, http.MethodGet, "/", tc.token, nil)
			if res.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", res.StatusCode, tc.wantStatus, raw)
			}
			if tc.wantErr != "" {
				var body map[string]any
				decodeBody(t, raw, &body)
				if body["error"] != tc.wantErr {
					t.Fatalf("error = %v, want %q", body["error"], tc.wantErr)
				}
			}
		})
	}
}

func TestIndexReportsCaller(t *testing.T) {
	t.Parallel()
	env := newEnv(t, &fakeMarketplace{}, "http://unused", "http://unused")

	res, raw := env.do(t, http.MethodGet, "/", signToken(t, "alice@example.com", time.Hour), nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	var body map[string]any
	decodeBody(t, raw, &body)
	if body["user"] != "alice@example.com" {
		t.Fatalf("user = %v", body["user"])
	}
}

func TestLoginProxy(t *testing.T) {
	t.Parallel()

	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token":"upstream-jwt","user":{"name":"Alice"}}`)
	}))
	defer authSrv.Close()

	env := newEnv(t, &fakeMarketplace{}, "http://unused", authSrv.URL)

	res, raw := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "alice@example.com", "password": "pw",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", res.StatusCode, raw)
	}
	var body map[string]any
	decodeBody(t, raw, &body)
	if body["success"] != true || body["token"] != "upstream-jwt" {
		t.Fatalf("body = %v", body)
	}
}

func TestLoginRejectsMissingFields(t *testing.T) {
	t.Parallel()
	env := newEnv(t, &fakeMarketplace{}, "http://unused", "http://unused")

	res, _ := env.do(t, http.MethodPost, "/login", "", map[string]string{"email": "  "})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
}

func TestLoginRelaysUpstream429(t *testing.T) {
	t.Parallel()

	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer authSrv.Close()

	env := newEnv(t, &fakeMarketplace{}, "http://unused", authSrv.URL)

	res, _ := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "a@b.c", "password": "pw",
	})
	if res.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", res.StatusCode)
	}
}
