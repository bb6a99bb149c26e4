package tui

import (
	"time"

	"github.com/colonyops/briefly/internal/core/notify"
)

const (
	defaultToastTTL   = 5 * time.Second
	defaultMaxToasts  = 5
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 44
)

type toast struct {
	notification notify.Notification
	expiresAt    time.Time
}

// ToastController keeps the stack of visible toasts. Expiry uses absolute
// times so overlapping tick chains never shorten a toast.
type ToastController struct {
	toasts []toast
	now    func() time.Time
}

func NewToastController() *ToastController {
	return &ToastController{now: time.Now}
}

// Push adds a notification to the bottom of the stack. Past
// defaultMaxToasts the oldest toast is dropped.
func (c *ToastController) Push(n notify.Notification) {
	c.toasts = append(c.toasts, toast{
		notification: n,
		expiresAt:    c.now().Add(defaultToastTTL),
	})
	if len(c.toasts) > defaultMaxToasts {
		c.toasts = c.toasts[len(c.toasts)-defaultMaxToasts:]
	}
}

// Expire drops every toast whose time ran out at now.
func (c *ToastController) Expire(now time.Time) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		if t.expiresAt.After(now) {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// Remaining returns how long the toast at index i stays visible.
func (c *ToastController) Remaining(i int) time.Duration {
	return c.toasts[i].expiresAt.Sub(c.now())
}

// Dismiss removes the newest toast.
func (c *ToastController) Dismiss() {
	if len(c.toasts) > 0 {
		c.toasts = c.toasts[:len(c.toasts)-1]
	}
}

// DismissAll removes every toast.
func (c *ToastController) DismissAll() {
	c.toasts = c.toasts[:0]
}

// HasToasts reports whether any toast is visible.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// Toasts returns the visible toasts, oldest first.
func (c *ToastController) Toasts() []toast {
	return c.toasts
}
