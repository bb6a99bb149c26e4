package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/briefly/internal/briefly"
	"github.com/colonyops/briefly/internal/core/auth"
	"github.com/colonyops/briefly/internal/core/backend"
	"github.com/colonyops/briefly/internal/core/config"
	"github.com/colonyops/briefly/internal/core/kv"
	"github.com/colonyops/briefly/internal/printer"
)

func runDoctor(t *testing.T, backendURL string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvBackendURL, "")

	dataDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dataDir
	cfg.Backend.URL = backendURL
	cfg.Backend.Timeout = time.Second

	store := kv.NewMemory()
	state := auth.NewState(store)
	transport := backend.New(backend.Options{BaseURL: backendURL, Timeout: time.Second})

	app := &briefly.App{
		Doctor: briefly.NewDoctorService(&cfg, store, transport, state),
	}
	flags := &Flags{ConfigPath: filepath.Join(dataDir, "missing.yaml"), DataDir: dataDir}

	var out, status bytes.Buffer
	root := &cli.Command{
		Name:           "briefly",
		Writer:         &out,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	root = NewDoctorCmd(flags, app).Register(root)

	ctx := printer.NewContext(context.Background(), printer.New(&status))
	err := root.Run(ctx, append([]string{"briefly", "doctor"}, args...))
	return out.String(), status.String(), err
}

func TestDoctor_JSONHealthyBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	out, _, err := runDoctor(t, srv.URL, "--format", "json")
	require.NoError(t, err)

	var report struct {
		Healthy bool `json:"healthy"`
		Checks  []struct {
			Name  string `json:"name"`
			Items []struct {
				Label  string `json:"label"`
				Status string `json:"status"`
			} `json:"items"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.True(t, report.Healthy)
	names := make([]string, 0, len(report.Checks))
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Configuration", "Storage", "Backend", "Session", "Terminal"}, names)
	assert.Equal(t, "pass", report.Checks[2].Items[0].Status)
}

func TestDoctor_TextUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, status, err := runDoctor(t, url)

	var exit cli.ExitCoder
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.ExitCode())
	assert.Contains(t, status, "briefly doctor")
	assert.Contains(t, status, "unreachable")
	assert.Contains(t, status, "1 failed")
}
