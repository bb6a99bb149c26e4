package doctor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestBackendCheck(t *testing.T) {
	tests := []struct {
		name   string
		pinger Pinger
		status Status
		detail string
	}{
		{
			name:   "reachable",
			pinger: pingFunc(func(context.Context) error { return nil }),
			status: StatusPass,
			detail: "reachable",
		},
		{
			name:   "unreachable",
			pinger: pingFunc(func(context.Context) error { return errors.New("connection refused") }),
			status: StatusFail,
			detail: "connection refused",
		},
		{
			name:   "no client",
			status: StatusFail,
			detail: "no backend client",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewBackendCheck("http://api.test", tt.pinger, time.Second).Run(context.Background())

			require.Len(t, result.Items, 1)
			assert.Equal(t, "http://api.test", result.Items[0].Label)
			assert.Equal(t, tt.status, result.Items[0].Status)
			assert.Contains(t, result.Items[0].Detail, tt.detail)
		})
	}
}

func TestBackendCheck_AppliesTimeout(t *testing.T) {
	var hasDeadline bool
	pinger := pingFunc(func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})

	NewBackendCheck("http://api.test", pinger, time.Second).Run(context.Background())
	assert.True(t, hasDeadline)
}
