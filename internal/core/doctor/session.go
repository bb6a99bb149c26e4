package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/briefly/internal/core/auth"
)

// SessionSource returns the current session, or nil when signed out.
type SessionSource interface {
	Current() *auth.Session
}

// SessionCheck reports the saved session. Being signed out is only a
// warning when the config requires signing in.
type SessionCheck struct {
	source   SessionSource
	required bool
	now      func() time.Time
}

// NewSessionCheck creates a new session check.
func NewSessionCheck(source SessionSource, required bool) *SessionCheck {
	return &SessionCheck{source: source, required: required, now: time.Now}
}

func (c *SessionCheck) Name() string {
	return "Session"
}

func (c *SessionCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	var sess *auth.Session
	if c.source != nil {
		sess = c.source.Current()
	}

	if sess == nil {
		item := CheckItem{Label: "signed out", Status: StatusPass}
		if c.required {
			item.Status = StatusWarn
			item.Detail = "sign in with 'briefly login' before checking text"
		}
		result.Items = append(result.Items, item)
		return result
	}

	detail := "no expiry"
	if !sess.ExpiresAt.IsZero() {
		detail = fmt.Sprintf("expires in %s", sess.ExpiresAt.Sub(c.now()).Round(time.Minute))
	}
	result.Items = append(result.Items, CheckItem{
		Label:  "signed in as " + sess.User.Email,
		Status: StatusPass,
		Detail: detail,
	})
	return result
}
