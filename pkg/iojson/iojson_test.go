package iojson

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalError(t *testing.T) {
	got := MarshalError("bad input", map[string]any{"field": "text"})
	assert.JSONEq(t, `{"error":"bad input","data":{"field":"text"}}`, got)

	got = MarshalError("broken", map[string]any{"ch": make(chan int)})
	assert.Contains(t, got, `"error":"broken"`)
	assert.Contains(t, got, "json_error")
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, []int{1, 2}))
	assert.JSONEq(t, `[1,2]`, out.String())
	assert.Empty(t, errOut.String())
}

func TestRespond(t *testing.T) {
	rec := httptest.NewRecorder()
	Respond(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondError(rec, http.StatusBadGateway, "backend down")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"backend down"}`, rec.Body.String())
}

func TestTextReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o644))

	tests := []struct {
		name     string
		reader   TextReader
		want     string
		wantName string
		wantErr  bool
	}{
		{
			name:     "file flag",
			reader:   TextReader{fileFlagValue: path},
			want:     "from file",
			wantName: path,
		},
		{
			name:     "piped stdin",
			reader:   TextReader{stdin: strings.NewReader("piped"), isTerminal: func() bool { return false }},
			want:     "piped",
			wantName: "-",
		},
		{
			name:     "terminal stdin",
			reader:   TextReader{stdin: strings.NewReader("ignored"), isTerminal: func() bool { return true }},
			wantName: "-",
			wantErr:  true,
		},
		{
			name:     "missing file",
			reader:   TextReader{fileFlagValue: filepath.Join(t.TempDir(), "nope")},
			wantName: filepath.Join(t.TempDir(), "nope"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.reader.Read()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantName, tt.reader.Name())
		})
	}
}
