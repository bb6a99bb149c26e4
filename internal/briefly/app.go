// Package briefly wires the services the commands and the TUI share.
package briefly

import (
	"github.com/colonyops/briefly/internal/core/analysis"
	"github.com/colonyops/briefly/internal/core/auth"
	"github.com/colonyops/briefly/internal/core/backend"
	"github.com/colonyops/briefly/internal/core/config"
	"github.com/colonyops/briefly/internal/core/kv"
	"github.com/colonyops/briefly/internal/core/notify"
	"github.com/colonyops/briefly/internal/core/prefs"
)

// draftNamespace scopes scratch buffers in the KV store.
const draftNamespace = "drafts"

// Build describes the running binary.
type Build struct {
	Version string
	Commit  string
	Date    string
}

// App is the central entry point for all briefly operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config   *config.Config
	KV       kv.KV
	Prefs    *prefs.Prefs
	Auth     *auth.Service
	Analysis *analysis.Client
	Doctor   *DoctorService
	Notify   *notify.Bus
	Drafts   *kv.TypedKV[string]
	Build    Build
}

// NewApp constructs an App from explicit dependencies.
func NewApp(
	cfg *config.Config,
	store kv.KV,
	preferences *prefs.Prefs,
	authSvc *auth.Service,
	transport *backend.Client,
	analysisClient *analysis.Client,
	build Build,
) *App {
	return &App{
		Config:   cfg,
		KV:       store,
		Prefs:    preferences,
		Auth:     authSvc,
		Analysis: analysisClient,
		Doctor:   NewDoctorService(cfg, store, transport, authSvc.State()),
		Notify:   notify.NewBus(),
		Drafts:   kv.Scoped[string](store, draftNamespace),
		Build:    build,
	}
}
