package laseretch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// fakeHost records every call and fails on demand.
type fakeHost struct {
	mu sync.Mutex

	failCreate   bool
	failAppend   func(href string) bool
	failClick    func(href string) bool
	panicOnClick bool

	calls    []string
	urls     map[string]bool // live object URLs
	anchors  int             // live anchors
	clicked  []string        // hrefs clicked successfully
	alerts   []string
	prompts  []string
	promptOf []string // values passed to Prompt
}

func newFakeHost() *fakeHost {
	return &fakeHost{urls: make(map[string]bool)}
}

func (h *fakeHost) record(call string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call)
}

func (h *fakeHost) CreateObjectURL(_ context.Context, data []byte, mediaType string) (string, error) {
	h.record("create:" + mediaType)
	if h.failCreate {
		return "", ErrObjectURL
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	url := "blob:fake/1"
	h.urls[url] = true
	return url, nil
}

func (h *fakeHost) RevokeObjectURL(url string) {
	h.record("revoke")
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.urls, url)
}

func (h *fakeHost) AppendAnchor(_ context.Context, href, download string) (Anchor, error) {
	h.record("append:" + scheme(href) + ":" + download)
	if h.failAppend != nil && h.failAppend(href) {
		return nil, ErrAnchor
	}
	h.mu.Lock()
	h.anchors++
	h.mu.Unlock()
	return &fakeAnchor{host: h, href: href}, nil
}

func (h *fakeHost) Alert(message string) {
	h.record("alert")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.alerts = append(h.alerts, message)
}

func (h *fakeHost) Prompt(message, value string) {
	h.record("prompt")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prompts = append(h.prompts, message)
	h.promptOf = append(h.promptOf, value)
}

type fakeAnchor struct {
	host    *fakeHost
	href    string
	removed bool
}

func (a *fakeAnchor) Click(context.Context) error {
	a.host.record("click:" + scheme(a.href))
	if a.host.panicOnClick {
		panic("boom")
	}
	if a.host.failClick != nil && a.host.failClick(a.href) {
		return ErrDownload
	}
	a.host.mu.Lock()
	defer a.host.mu.Unlock()
	a.host.clicked = append(a.host.clicked, a.href)
	return nil
}

func (a *fakeAnchor) Remove() {
	a.host.record("remove")
	if a.removed {
		return
	}
	a.removed = true
	a.host.mu.Lock()
	defer a.host.mu.Unlock()
	a.host.anchors--
}

func scheme(href string) string {
	s, _, _ := strings.Cut(href, ":")
	return s
}

func isBlob(href string) bool { return strings.HasPrefix(href, "blob:") }
func always(string) bool      { return true }

func assertCalls(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("calls =\n  %v\nwant\n  %v", got, want)
	}
}

func TestExport_Primary(t *testing.T) {
	t.Parallel()

	host := newFakeHost()
	res := NewExporter(host).Export(context.Background(), Compose("LASER"))

	if res.Outcome != OutcomePrimary || res.Strategy != "blob" {
		t.Errorf("result = %+v, want primary via blob", res)
	}
	if len(res.Errors) != 0 {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
	assertCalls(t, host.calls, []string{
		"create:image/svg+xml",
		"append:blob:laser_etched_text.svg",
		"click:blob",
		"remove",
		"revoke",
	})
	if len(host.urls) != 0 || host.anchors != 0 {
		t.Errorf("leaked %d URLs and %d anchors", len(host.urls), host.anchors)
	}
}

func TestExport_MissingDocument(t *testing.T) {
	t.Parallel()

	host := newFakeHost()
	res := NewExporter(host).Export(context.Background(), "")

	if res.Outcome != OutcomeMissingDocument {
		t.Errorf("outcome = %v, want missing-document", res.Outcome)
	}
	assertCalls(t, host.calls, []string{"alert"})
	if len(host.alerts) != 1 || host.alerts[0] != "Generate an SVG first" {
		t.Errorf("alerts = %q", host.alerts)
	}
}

func TestExport_FallbackToDataURI(t *testing.T) {
	t.Parallel()

	doc := Compose("a<b & c")

	tests := []struct {
		name  string
		setup func(*fakeHost)
		calls []string
	}{
		{
			name:  "object URL creation fails",
			setup: func(h *fakeHost) { h.failCreate = true },
			calls: []string{
				"create:image/svg+xml",
				"append:data:laser_etched_text.svg",
				"click:data",
				"remove",
			},
		},
		{
			name:  "blob click fails",
			setup: func(h *fakeHost) { h.failClick = isBlob },
			calls: []string{
				"create:image/svg+xml",
				"append:blob:laser_etched_text.svg",
				"click:blob",
				"remove",
				"revoke",
				"append:data:laser_etched_text.svg",
				"click:data",
				"remove",
			},
		},
		{
			name:  "blob anchor fails",
			setup: func(h *fakeHost) { h.failAppend = isBlob },
			calls: []string{
				"create:image/svg+xml",
				"append:blob:laser_etched_text.svg",
				"revoke",
				"append:data:laser_etched_text.svg",
				"click:data",
				"remove",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			host := newFakeHost()
			tt.setup(host)

			res := NewExporter(host).Export(context.Background(), doc)
			if res.Outcome != OutcomeFallback || res.Strategy != "data-uri" {
				t.Fatalf("result = %+v, want fallback via data-uri", res)
			}
			if len(res.Errors) != 1 || !errors.Is(res.Errors[0], ErrPrimaryExport) {
				t.Errorf("errors = %v, want one ErrPrimaryExport", res.Errors)
			}
			assertCalls(t, host.calls, tt.calls)

			if len(host.clicked) != 1 || host.clicked[0] != DataURI(doc) {
				t.Fatalf("clicked = %q, want the data URI", host.clicked)
			}
			_, payload, err := ParseDataURI(host.clicked[0])
			if err != nil {
				t.Fatalf("ParseDataURI() error = %v", err)
			}
			if string(payload) != doc.String() {
				t.Error("data URI does not decode to the original document")
			}
			if len(host.urls) != 0 || host.anchors != 0 {
				t.Errorf("leaked %d URLs and %d anchors", len(host.urls), host.anchors)
			}
		})
	}
}

func TestExport_ManualCopy(t *testing.T) {
	t.Parallel()

	doc := Compose("LASER")
	host := newFakeHost()
	host.failClick = always

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	res := NewExporter(host, WithLogger(logger)).Export(context.Background(), doc)

	if res.Outcome != OutcomeManualCopy {
		t.Fatalf("outcome = %v, want manual-copy", res.Outcome)
	}
	if len(res.Errors) != 2 ||
		!errors.Is(res.Errors[0], ErrPrimaryExport) ||
		!errors.Is(res.Errors[1], ErrFallbackExport) {
		t.Errorf("errors = %v, want primary then fallback", res.Errors)
	}

	// The data URI tier must run before the prompt.
	var dataAt, promptAt = -1, -1
	for i, c := range host.calls {
		switch c {
		case "click:data":
			dataAt = i
		case "prompt":
			promptAt = i
		}
	}
	if dataAt < 0 || promptAt < dataAt {
		t.Errorf("data URI attempt (%d) must precede prompt (%d): %v", dataAt, promptAt, host.calls)
	}

	if len(host.promptOf) != 1 || host.promptOf[0] != doc.String() {
		t.Errorf("prompt did not receive the exact document")
	}
	if host.prompts[0] != "Unable to download automatically. Copy SVG:" {
		t.Errorf("prompt message = %q", host.prompts[0])
	}

	out := logs.String()
	if strings.Count(out, "export tier failed") != 2 {
		t.Errorf("expected two tier failure logs, got:\n%s", out)
	}
	if !strings.Contains(out, "tier=blob") || !strings.Contains(out, "tier=data-uri") {
		t.Errorf("logs missing tier names:\n%s", out)
	}
}

func TestExport_PanickingTierEscalates(t *testing.T) {
	t.Parallel()

	host := newFakeHost()
	host.panicOnClick = true

	res := NewExporter(host).Export(context.Background(), Compose("X"))
	if res.Outcome != OutcomeManualCopy {
		t.Errorf("outcome = %v, want manual-copy", res.Outcome)
	}
	if len(host.urls) != 0 || host.anchors != 0 {
		t.Errorf("panic leaked %d URLs and %d anchors", len(host.urls), host.anchors)
	}
}

// panickyNotifier wraps fakeHost with notices that panic.
type panickyNotifier struct{ *fakeHost }

func (panickyNotifier) Alert(string)          { panic("alert") }
func (panickyNotifier) Prompt(string, string) { panic("prompt") }

func TestExport_NoticePanicsAreContained(t *testing.T) {
	t.Parallel()

	host := panickyNotifier{newFakeHost()}
	host.failClick = always
	exp := NewExporter(host)

	if res := exp.Export(context.Background(), ""); res.Outcome != OutcomeMissingDocument {
		t.Errorf("outcome = %v, want missing-document", res.Outcome)
	}
	if res := exp.Export(context.Background(), Compose("X")); res.Outcome != OutcomeManualCopy {
		t.Errorf("outcome = %v, want manual-copy", res.Outcome)
	}
}

// stepStrategy succeeds or fails as configured and records its order.
type stepStrategy struct {
	name  string
	fail  bool
	order *[]string
}

func (s stepStrategy) Name() string { return s.name }

func (s stepStrategy) Attempt(context.Context, Host, Document, string) error {
	*s.order = append(*s.order, s.name)
	if s.fail {
		return errors.New(s.name + " failed")
	}
	return nil
}

func TestExport_CustomStrategies(t *testing.T) {
	t.Parallel()

	var order []string
	exp := NewExporter(newFakeHost(), WithStrategies(
		stepStrategy{name: "one", fail: true, order: &order},
		stepStrategy{name: "two", fail: true, order: &order},
		stepStrategy{name: "three", order: &order},
		stepStrategy{name: "four", order: &order},
	))

	res := exp.Export(context.Background(), Compose("X"))
	if res.Outcome != OutcomeFallback || res.Strategy != "three" {
		t.Errorf("result = %+v, want fallback via three", res)
	}
	if got := strings.Join(order, ","); got != "one,two,three" {
		t.Errorf("attempt order = %s, want one,two,three", got)
	}
}

func TestExport_Filename(t *testing.T) {
	t.Parallel()

	host := newFakeHost()
	NewExporter(host, WithFilename("custom.svg")).Export(context.Background(), Compose("X"))

	if host.calls[1] != "append:blob:custom.svg" {
		t.Errorf("anchor call = %q, want custom filename", host.calls[1])
	}
}

func TestWithFilename_PanicsOnEmpty(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithFilename(\"\") should panic")
		}
	}()
	WithFilename("")
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome Outcome
		name    string
		saved   bool
	}{
		{OutcomeMissingDocument, "missing-document", false},
		{OutcomePrimary, "primary", true},
		{OutcomeFallback, "fallback", true},
		{OutcomeManualCopy, "manual-copy", false},
		{Outcome(42), "Outcome(42)", false},
	}

	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.outcome.Saved(); got != tt.saved {
			t.Errorf("%s.Saved() = %v, want %v", tt.name, got, tt.saved)
		}
	}
}
