package doctor

import (
	"context"
	"fmt"
	"time"
)

// Pinger reports whether a remote service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendCheck verifies the analysis backend answers.
type BackendCheck struct {
	url     string
	pinger  Pinger
	timeout time.Duration
}

// NewBackendCheck creates a new backend reachability check.
func NewBackendCheck(url string, pinger Pinger, timeout time.Duration) *BackendCheck {
	return &BackendCheck{url: url, pinger: pinger, timeout: timeout}
}

func (c *BackendCheck) Name() string {
	return "Backend"
}

func (c *BackendCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.pinger == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.url,
			Status: StatusFail,
			Detail: "no backend client configured",
		})
		return result
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := c.pinger.Ping(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.url,
			Status: StatusFail,
			Detail: fmt.Sprintf("unreachable: %v", err),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.url,
		Status: StatusPass,
		Detail: fmt.Sprintf("reachable in %s", time.Since(start).Round(time.Millisecond)),
	})
	return result
}
