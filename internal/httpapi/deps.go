package httpapi

import (
	"database/sql"
	"sync/atomic"

	"github.com/naim-haider/freelancer-ai-backend/internal/auth"
	"github.com/naim-haider/freelancer-ai-backend/internal/config"
	"github.com/naim-haider/freelancer-ai-backend/internal/events"
	"github.com/naim-haider/freelancer-ai-backend/internal/freelancer"
	"github.com/naim-haider/freelancer-ai-backend/internal/gemini"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Outbound collaborators, constructed once in main.
	Market   *freelancer.Client
	Gemini   *gemini.Client
	AuthAPI  *auth.Client
	Verifier *auth.Verifier

	// Atomic store holding config.Config; reloaded via PUT /config.
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}
