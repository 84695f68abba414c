package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims URL-ish fields, fills scan defaults, and reports
// anything that would make the engine misbehave at runtime.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Auth.BaseURL = strings.TrimSpace(out.Auth.BaseURL)
	out.Marketplace.BaseURL = strings.TrimRight(strings.TrimSpace(out.Marketplace.BaseURL), "/")
	out.Gemini.BaseURL = strings.TrimRight(strings.TrimSpace(out.Gemini.BaseURL), "/")

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	checkURL := func(name, raw string, required bool) {
		if raw == "" {
			if required {
				res.addErr("%s is required", name)
			}
			return
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			res.addErr("%s must be an absolute URL", name)
		}
	}
	checkURL("marketplace.base_url", out.Marketplace.BaseURL, true)
	checkURL("gemini.base_url", out.Gemini.BaseURL, true)
	// Login still works without an auth backend in offline setups; warn only.
	if out.Auth.BaseURL == "" {
		res.addWarn("auth.base_url is empty; /login will always fail")
	} else {
		checkURL("auth.base_url", out.Auth.BaseURL, false)
	}

	// Scan budget sanity. Defaults restore the stock 20/50/300ms budget.
	if out.Marketplace.Scan.TargetCount <= 0 {
		out.Marketplace.Scan.TargetCount = 20
	}
	if out.Marketplace.Scan.MaxAttempts <= 0 {
		out.Marketplace.Scan.MaxAttempts = 50
	}
	if out.Marketplace.Scan.DelayMs < 0 {
		res.addErr("marketplace.scan.delay_ms must be >= 0")
	}
	if out.Marketplace.Scan.TargetCount > out.Marketplace.Scan.MaxAttempts {
		res.addWarn("marketplace.scan.target_count (%d) exceeds max_attempts (%d); scans can never fill the target",
			out.Marketplace.Scan.TargetCount, out.Marketplace.Scan.MaxAttempts)
	}
	if out.Marketplace.Scan.DelayMs < 100 {
		res.addWarn("marketplace.scan.delay_ms is very low (%d) and may trip upstream rate limits", out.Marketplace.Scan.DelayMs)
	}

	if strings.TrimSpace(out.Gemini.Model) == "" {
		res.addErr("gemini.model is required")
	}
	if out.Retention.BidDays < 0 {
		res.addErr("retention.bid_days must be >= 0 (0 disables cleanup)")
	}

	return out, res
}
