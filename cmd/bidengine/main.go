package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/naim-haider/freelancer-ai-backend/internal/auth"
	"github.com/naim-haider/freelancer-ai-backend/internal/config"
	"github.com/naim-haider/freelancer-ai-backend/internal/events"
	"github.com/naim-haider/freelancer-ai-backend/internal/freelancer"
	"github.com/naim-haider/freelancer-ai-backend/internal/gemini"
	"github.com/naim-haider/freelancer-ai-backend/internal/httpapi"
	"github.com/naim-haider/freelancer-ai-backend/internal/scheduler"
	"github.com/naim-haider/freelancer-ai-backend/internal/secrets"
	"github.com/naim-haider/freelancer-ai-backend/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Data dir: env override for packaged installs, else local folder.
	dataDir := os.Getenv("BIDENGINE_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// One engine per data dir; a second instance would fight over the db.
	lock := flock.New(filepath.Join(dataDir, "bidengine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("data dir lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another engine instance is already running in %s", dataDir)
	}
	defer lock.Unlock()

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		return fmt.Errorf("config bootstrap failed: %w", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		normalized, vr := config.NormalizeAndValidate(cfg)
		if !vr.OK() {
			return cfg, fmt.Errorf("config invalid: %v", vr.Errors)
		}
		for _, wmsg := range vr.Warnings {
			log.Printf("[config] warning: %s", wmsg)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	// Secrets: keyring first, env fallback. The JWT secret is mandatory;
	// the other two only disable their features when absent.
	jwtSecret, err := secrets.Get(secrets.AccountJWTSecret, cfg.Auth.JWTSecretEnv)
	if err != nil {
		return fmt.Errorf("jwt secret: %w", err)
	}
	verifier, err := auth.NewVerifier(jwtSecret)
	if err != nil {
		return err
	}

	marketToken, err := secrets.Get(secrets.AccountMarketplaceToken, cfg.Marketplace.TokenEnv)
	if err != nil {
		log.Printf("[secrets] marketplace token missing: %v", err)
	}
	geminiKey, err := secrets.Get(secrets.AccountGeminiKey, cfg.Gemini.KeyEnv)
	if err != nil {
		log.Printf("[secrets] gemini key missing: %v", err)
	}

	dbPath := filepath.Join(dataDir, "bidengine.db")
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		return err
	}

	hub := events.NewHub()

	market := freelancer.New(freelancer.Config{
		BaseURL:   cfg.Marketplace.BaseURL,
		Token:     marketToken,
		UserAgent: cfg.Marketplace.UserAgent,
	})
	gem := gemini.New(gemini.Config{
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		APIKey:  geminiKey,
	})
	authAPI := auth.NewClient(cfg.Auth.BaseURL)

	handler := httpapi.NewRouter(httpapi.Deps{
		DB:          db.Pool,
		Hub:         hub,
		Market:      market,
		Gemini:      gem,
		AuthAPI:     authAPI,
		Verifier:    verifier,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("[engine] listening on http://%s (db=%s)", addr, dbPath)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Every(gctx, 12*time.Hour, "retention", func(ctx context.Context) error {
			cur := cfgVal.Load().(config.Config)
			n, err := store.CleanupOldBids(db.Pool, cur.Retention.BidDays)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Printf("[retention] deleted=%d keep_days=%d", n, cur.Retention.BidDays)
			}
			return nil
		})
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})

	return g.Wait()
}
