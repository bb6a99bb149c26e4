package printer

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Successf("saved %s", "a.txt")
	p.Errorf("failed: %d", 2)
	p.Printf("plain")
	p.Section("Results")

	lines := bytes.Split(bytes.TrimSpace([]byte(ansi.Strip(buf.String()))), []byte("\n"))
	assert.Len(t, lines, 4)
	assert.Contains(t, string(lines[0]), "saved a.txt")
	assert.Contains(t, string(lines[1]), "failed: 2")
	assert.Equal(t, "plain", string(lines[2]))
	assert.Contains(t, string(lines[3]), "Results")
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))

	assert.Equal(t, os.Stderr, Ctx(context.Background()).Writer())
}
