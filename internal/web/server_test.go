package web

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	laseretch "github.com/alnah/go-laseretch"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	comp, err := laseretch.NewComposer()
	if err != nil {
		t.Fatalf("NewComposer() error = %v", err)
	}
	srv, err := NewServer(comp, opts...)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv
}

func do(t *testing.T, srv http.Handler, req *http.Request) (*http.Response, string) {
	t.Helper()
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	resp := w.Result()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

func postGenerate(t *testing.T, srv http.Handler, text string) (*http.Response, string) {
	t.Helper()
	form := url.Values{"text": {text}}
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, srv, req)
}

func TestIndex(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{
		`value="LASER"`,
		`id="download" data-filename="laser_etched_text.svg" disabled`,
		"<h2>How it works</h2>",
		"/static/js/export.js",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, `id="svg-source"`) {
		t.Error("no document should be embedded before Generate")
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestIndex_Options(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, WithDefaultText("HELLO"), WithFilename("mine.svg"), WithAddr(":9999"))
	_, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(body, `value="HELLO"`) || !strings.Contains(body, `data-filename="mine.svg"`) {
		t.Error("options not reflected in page")
	}
	if srv.Addr() != ":9999" {
		t.Errorf("Addr() = %q", srv.Addr())
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, body := postGenerate(t, srv, "LASER")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if strings.Contains(body, "disabled>Download SVG") {
		t.Error("download should be enabled once a document exists")
	}
	if !strings.Contains(body, `width="280" height="97.6"`) {
		t.Error("preview missing canvas size")
	}
	if !strings.Contains(body, `src="data:image/svg+xml;utf8,%3C%3Fxml`) {
		t.Error("preview should use the data URI")
	}
	if !strings.Contains(body, `class="chroma"`) {
		t.Error("markup viewer should be highlighted")
	}
	// The textarea holds the escaped markup for export.js.
	if !strings.Contains(body, "&lt;text x=&#34;20&#34; y=&#34;57.6&#34;&gt;LASER&lt;/text&gt;") {
		t.Error("svg source not embedded")
	}
}

func TestGenerate_RawTextIsEscapedInPage(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	_, body := postGenerate(t, srv, `<script>alert(1)</script>`)

	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("user text must not reach the page unescaped")
	}
}

func TestGenerate_EmptyText(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, body := postGenerate(t, srv, "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `width="40" height="97.6"`) {
		t.Error("empty text should produce a padding-only canvas")
	}
}

func TestGenerate_BadForm(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	big := strings.NewReader("text=" + strings.Repeat("x", maxFormBytes+1))
	req := httptest.NewRequest(http.MethodPost, "/generate", big)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, body := do(t, srv, req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(body, "invalid form submission") {
		t.Error("missing error message")
	}
}

func TestDownload(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/download?text=LASER", nil))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "attachment; filename=laser_etched_text.svg" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if body != laseretch.Compose("LASER").String() {
		t.Error("download body differs from Compose output")
	}
}

func TestDownload_MissingDocument(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/download", nil))

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	if !strings.Contains(body, "generate an SVG first") {
		t.Errorf("body = %q", body)
	}
}

func TestStaticAndHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	tests := []struct {
		path string
		want string
	}{
		{"/static/js/export.js", "URL.createObjectURL"},
		{"/static/js/export.js", "Unable to download automatically. Copy SVG:"},
		{"/static/css/widget.css", ".widget"},
		{"/health", `"status":"ok"`},
	}

	for _, tt := range tests {
		resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", tt.path, resp.StatusCode)
			continue
		}
		if !strings.Contains(body, tt.want) {
			t.Errorf("%s missing %q", tt.path, tt.want)
		}
	}

	resp, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/static/nope.js", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing static status = %d, want 404", resp.StatusCode)
	}
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	srv := newTestServer(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	resp, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	id := resp.Header.Get(requestIDHeader)

	out := logs.String()
	for _, want := range []string{"web request", "method=GET", "path=/health", "status=200", "id=" + id} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestListenAndServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, WithAddr("127.0.0.1:0"))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
