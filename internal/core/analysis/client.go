// Package analysis talks to the text analysis backend and turns its issues
// into overlay annotations.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/colonyops/briefly/internal/core/backend"
	"github.com/colonyops/briefly/internal/core/logging"
	"github.com/colonyops/briefly/internal/core/overlay"
)

// AnalyzePath is the backend endpoint that accepts {"text": ...}.
const AnalyzePath = "/analyze"

// Analyzer produces annotations for a text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]overlay.Annotation, error)
}

// Client is an Analyzer backed by the remote analysis service. Results are
// cached per text and concurrent requests for the same text share one call.
type Client struct {
	backend *backend.Client
	cache   *cache.Cache
	group   singleflight.Group
}

var _ Analyzer = (*Client)(nil)

// NewClient creates a Client. A zero cacheTTL disables the result cache.
func NewClient(b *backend.Client, cacheTTL time.Duration) *Client {
	c := &Client{backend: b}
	if cacheTTL > 0 {
		c.cache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return c
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// Issues returns the raw backend issues for text. Blank text yields no
// issues without contacting the backend.
func (c *Client) Issues(ctx context.Context, text string) ([]Issue, error) {
	if strings.TrimSpace(text) == "" {
		return []Issue{}, nil
	}

	key := hashText(text)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return slices.Clone(v.([]Issue)), nil
		}
	}

	// The shared call outlives any single caller so a cancelled waiter does
	// not fail the others.
	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), text, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]Issue)), nil
	}
}

func (c *Client) fetch(ctx context.Context, text, key string) ([]Issue, error) {
	l := logging.For(ctx, "analysis")
	start := time.Now()

	var issues []Issue
	if err := c.backend.PostJSON(ctx, AnalyzePath, analyzeRequest{Text: text}, &issues); err != nil {
		l.Warn().Err(err).Int("chars", len(text)).Msg("analysis failed")
		return nil, err
	}
	if issues == nil {
		issues = []Issue{}
	}

	l.Debug().
		Int("issues", len(issues)).
		Dur("took", time.Since(start)).
		Msg("analysis complete")

	if c.cache != nil {
		c.cache.SetDefault(key, issues)
	}
	return issues, nil
}

// Analyze returns annotations for text.
func (c *Client) Analyze(ctx context.Context, text string) ([]overlay.Annotation, error) {
	issues, err := c.Issues(ctx, text)
	if err != nil {
		return nil, err
	}
	return ToAnnotations(issues, text), nil
}

// AnalyzePrefix analyses the text before cursor (a rune offset), trimmed of
// surrounding whitespace, and returns annotations in full-text offsets.
func (c *Client) AnalyzePrefix(ctx context.Context, text string, cursor int) ([]overlay.Annotation, error) {
	prefix, lead := trimmedPrefix(text, cursor)
	if prefix == "" {
		return []overlay.Annotation{}, nil
	}

	anns, err := c.Analyze(ctx, prefix)
	if err != nil {
		return nil, err
	}
	for i := range anns {
		anns[i].Start += lead
		anns[i].End += lead
	}
	return anns, nil
}

// trimmedPrefix returns the whitespace-trimmed text before cursor and the
// number of leading runes that were removed.
func trimmedPrefix(text string, cursor int) (string, int) {
	runes := []rune(text)
	cursor = min(max(cursor, 0), len(runes))
	prefix := runes[:cursor]

	lead := 0
	for lead < len(prefix) && unicode.IsSpace(prefix[lead]) {
		lead++
	}
	end := len(prefix)
	for end > lead && unicode.IsSpace(prefix[end-1]) {
		end--
	}
	return string(prefix[lead:end]), lead
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
