package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	laseretch "github.com/alnah/go-laseretch"
	"github.com/alnah/go-laseretch/internal/config"
	"github.com/alnah/go-laseretch/internal/web"
)

// testEnv is an Environment writing to buffers, with no browser or network.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer

	mu          sync.Mutex
	browserOpts []laseretch.BrowserHostOptions
	served      []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	te.Environment = &Environment{
		Stdout:     te.stdout,
		Stderr:     te.stderr,
		LoadConfig: config.LoadConfig,
		NewBrowserHost: func(opts laseretch.BrowserHostOptions) exportHost {
			te.mu.Lock()
			te.browserOpts = append(te.browserOpts, opts)
			te.mu.Unlock()
			return laseretch.NewFileHost(opts.Dir, opts.Out)
		},
		Serve: func(_ context.Context, srv *web.Server) error {
			te.mu.Lock()
			te.served = append(te.served, srv.Addr())
			te.mu.Unlock()
			return nil
		},
		LookPath: func() (string, bool) { return "", false },
	}
	return te
}

func (te *testEnv) run(args ...string) int {
	return runMain(append([]string{"laseretch"}, args...), te.Environment)
}

// brokenHost fails every save step with err.
type brokenHost struct {
	err     error
	out     *bytes.Buffer
	prompts []string
	closed  bool
}

func (h *brokenHost) CreateObjectURL(context.Context, []byte, string) (string, error) {
	return "", h.err
}
func (h *brokenHost) RevokeObjectURL(string) {}
func (h *brokenHost) AppendAnchor(context.Context, string, string) (laseretch.Anchor, error) {
	return nil, h.err
}
func (h *brokenHost) Alert(msg string) { h.out.WriteString(msg + "\n") }
func (h *brokenHost) Prompt(msg, value string) {
	h.prompts = append(h.prompts, value)
	h.out.WriteString(msg + "\n" + value + "\n")
}
func (h *brokenHost) Close() error { h.closed = true; return nil }

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
