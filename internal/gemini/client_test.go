package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "k123" {
			t.Errorf("key = %q", got)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}

		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"Dear "},{"text":"Hiring Manager"}]}}]}`)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Model: "test-model", APIKey: "k123"})
	out, err := c.Generate(context.Background(), "write a bid")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "Dear Hiring Manager" {
		t.Fatalf("out = %q", out)
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		c := New(Config{BaseURL: "http://unused", Model: "m"})
		if _, err := c.Generate(context.Background(), "p"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("api error body", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":{"message":"API key not valid"}}`)
		}))
		defer srv.Close()

		c := New(Config{BaseURL: srv.URL, Model: "m", APIKey: "bad"})
		_, err := c.Generate(context.Background(), "p")
		if err == nil || !strings.Contains(err.Error(), "API key not valid") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"candidates":[]}`)
		}))
		defer srv.Close()

		c := New(Config{BaseURL: srv.URL, Model: "m", APIKey: "k"})
		if _, err := c.Generate(context.Background(), "p"); !errors.Is(err, ErrNoContent) {
			t.Fatalf("err = %v, want ErrNoContent", err)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`)
		}))
		defer srv.Close()

		c := New(Config{BaseURL: srv.URL, Model: "m", APIKey: "k"})
		if _, err := c.Generate(context.Background(), "p"); !errors.Is(err, ErrNoContent) {
			t.Fatalf("err = %v, want ErrNoContent", err)
		}
	})
}
