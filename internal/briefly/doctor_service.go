package briefly

import (
	"context"

	"github.com/colonyops/briefly/internal/core/config"
	"github.com/colonyops/briefly/internal/core/doctor"
	"github.com/colonyops/briefly/internal/core/kv"
)

// DoctorService runs health checks on the briefly setup.
type DoctorService struct {
	config   *config.Config
	store    kv.KV
	backend  doctor.Pinger
	sessions doctor.SessionSource
}

// NewDoctorService creates a new DoctorService.
func NewDoctorService(cfg *config.Config, store kv.KV, backend doctor.Pinger, sessions doctor.SessionSource) *DoctorService {
	return &DoctorService{
		config:   cfg,
		store:    store,
		backend:  backend,
		sessions: sessions,
	}
}

// RunChecks executes all doctor checks and returns results.
func (d *DoctorService) RunChecks(ctx context.Context, configPath string, autofix bool) []doctor.Result {
	// the sqlite store falls back to memory when it cannot open
	_, inMemory := d.store.(*kv.Memory)

	checks := []doctor.Check{
		doctor.NewConfigCheck(configPath, d.config.DataDir),
		doctor.NewStorageCheck(d.config.DataDir, !inMemory, autofix),
		doctor.NewBackendCheck(d.config.Backend.URL, d.backend, d.config.Backend.Timeout),
		doctor.NewSessionCheck(d.sessions, d.config.Auth.IsRequired()),
		doctor.NewTerminalCheck(),
	}
	return doctor.RunAll(ctx, checks)
}
