package config

import (
	"strings"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	t.Parallel()

	_, vr := NormalizeAndValidate(Default())
	if !vr.OK() {
		t.Fatalf("default config invalid: %v", vr.Errors)
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	t.Parallel()

	t.Run("trims and strips trailing slash", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Marketplace.BaseURL = "  https://market.example/api/  "
		cfg.Gemini.BaseURL = "https://llm.example/v1beta/"

		out, vr := NormalizeAndValidate(cfg)
		if !vr.OK() {
			t.Fatalf("errors: %v", vr.Errors)
		}
		if out.Marketplace.BaseURL != "https://market.example/api" {
			t.Fatalf("marketplace url = %q", out.Marketplace.BaseURL)
		}
		if out.Gemini.BaseURL != "https://llm.example/v1beta" {
			t.Fatalf("gemini url = %q", out.Gemini.BaseURL)
		}
	})

	t.Run("fills scan defaults", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Marketplace.Scan.TargetCount = 0
		cfg.Marketplace.Scan.MaxAttempts = 0

		out, vr := NormalizeAndValidate(cfg)
		if !vr.OK() {
			t.Fatalf("errors: %v", vr.Errors)
		}
		if out.Marketplace.Scan.TargetCount != 20 || out.Marketplace.Scan.MaxAttempts != 50 {
			t.Fatalf("scan budget = %+v", out.Marketplace.Scan)
		}
	})

	t.Run("rejects bad port", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.App.Port = 0
		_, vr := NormalizeAndValidate(cfg)
		if vr.OK() {
			t.Fatal("expected error for port 0")
		}
	})

	t.Run("rejects relative marketplace url", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Marketplace.BaseURL = "not-a-url"
		_, vr := NormalizeAndValidate(cfg)
		if vr.OK() {
			t.Fatal("expected error for relative URL")
		}
	})

	t.Run("warns when target exceeds attempts", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Marketplace.Scan.TargetCount = 80
		cfg.Marketplace.Scan.MaxAttempts = 50

		_, vr := NormalizeAndValidate(cfg)
		if !vr.OK() {
			t.Fatalf("errors: %v", vr.Errors)
		}
		found := false
		for _, wmsg := range vr.Warnings {
			if strings.Contains(wmsg, "can never fill") {
				found = true
			}
		}
		if !found {
			t.Fatalf("warnings = %v, want budget warning", vr.Warnings)
		}
	})

	t.Run("empty auth url warns only", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Auth.BaseURL = ""
		_, vr := NormalizeAndValidate(cfg)
		if !vr.OK() {
			t.Fatalf("errors: %v", vr.Errors)
		}
		if len(vr.Warnings) == 0 {
			t.Fatal("expected a warning for empty auth url")
		}
	})
}
