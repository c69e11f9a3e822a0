package laseretch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"

	"github.com/alnah/go-laseretch/internal/fileutil"
	"github.com/alnah/go-laseretch/internal/process"
)

// defaultBrowserTimeout bounds one browser step when the context has no deadline.
const defaultBrowserTimeout = 30 * time.Second

// Scripts evaluated in the blank page. Each is a function rod calls with the
// given arguments.
const (
	jsCreateObjectURL = `(text, type) => URL.createObjectURL(new Blob([text], {type: type}))`
	jsRevokeObjectURL = `(url) => URL.revokeObjectURL(url)`
	jsAppendAnchor    = `(id, href, name) => {
		const a = document.createElement('a');
		a.id = id;
		a.href = href;
		a.download = name;
		document.body.appendChild(a);
	}`
	jsClickAnchor  = `(id) => document.getElementById(id).click()`
	jsRemoveAnchor = `(id) => { const a = document.getElementById(id); if (a) a.remove(); }`
)

// BrowserHostOptions configures a BrowserHost.
type BrowserHostOptions struct {
	Dir       string        // download directory
	Out       io.Writer     // where Alert and Prompt text goes
	Timeout   time.Duration // per-step timeout (0 = 30s)
	Bin       string        // Chrome binary (empty = ROD_BROWSER_BIN, then rod's managed Chromium)
	NoSandbox bool          // disable the Chrome sandbox (containers, CI)
	Logger    *slog.Logger  // receives cleanup failures at debug level (nil = discard)
}

// BrowserHost runs the export inside headless Chrome: the document becomes a
// real Blob with an object URL, the anchor is a DOM element, and the click is
// captured as a browser download. The browser starts on first use.
type BrowserHost struct {
	textNotifier
	opts BrowserHostOptions

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// NewBrowserHost creates a BrowserHost. No browser is launched until the first export.
func NewBrowserHost(opts BrowserHostOptions) *BrowserHost {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultBrowserTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	// Chrome resolves download paths against its own working directory.
	if abs, err := filepath.Abs(opts.Dir); err == nil {
		opts.Dir = abs
	}
	return &BrowserHost{
		textNotifier: textNotifier{out: opts.Out},
		opts:         opts,
	}
}

// ensurePage lazily launches the browser and opens a blank page.
func (h *BrowserHost) ensurePage() (*rod.Browser, *rod.Page, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.page != nil {
		return h.browser, h.page, nil
	}

	l := launcher.New()

	bin := h.opts.Bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	if h.opts.NoSandbox || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		killLauncher(l)
		return nil, nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		killLauncher(l)
		return nil, nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	h.launcher, h.browser, h.page = l, browser, page
	return browser, page, nil
}

// stepContext applies the host timeout unless ctx already has a deadline.
func (h *BrowserHost) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.opts.Timeout)
}

// CreateObjectURL implements Host.
func (h *BrowserHost) CreateObjectURL(ctx context.Context, data []byte, mediaType string) (string, error) {
	_, page, err := h.ensurePage()
	if err != nil {
		return "", err
	}

	ctx, cancel := h.stepContext(ctx)
	defer cancel()

	res, err := page.Context(ctx).Eval(jsCreateObjectURL, string(data), mediaType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrObjectURL, err)
	}

	url := res.Value.Str()
	if url == "" {
		return "", fmt.Errorf("%w: empty URL", ErrObjectURL)
	}
	return url, nil
}

// RevokeObjectURL implements Host.
func (h *BrowserHost) RevokeObjectURL(url string) {
	h.mu.Lock()
	page := h.page
	h.mu.Unlock()
	if page == nil {
		return
	}

	ctx, cancel := h.stepContext(context.Background())
	defer cancel()
	if _, err := page.Context(ctx).Eval(jsRevokeObjectURL, url); err != nil {
		h.opts.Logger.Debug("revoking object URL failed", "url", url, "err", err)
	}
}

// AppendAnchor implements Host.
func (h *BrowserHost) AppendAnchor(ctx context.Context, href, download string) (Anchor, error) {
	if err := fileutil.ValidateFilename(download); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnchor, err)
	}

	_, page, err := h.ensurePage()
	if err != nil {
		return nil, err
	}

	ctx, cancel := h.stepContext(ctx)
	defer cancel()

	id := "laseretch-" + uuid.NewString()
	if _, err := page.Context(ctx).Eval(jsAppendAnchor, id, href, download); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnchor, err)
	}

	return &browserAnchor{host: h, id: id, download: download}, nil
}

// Close shuts the browser down and kills its process group.
func (h *BrowserHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	if h.page != nil {
		if err := h.page.Close(); err != nil {
			errs = append(errs, err)
		}
		h.page = nil
	}
	if h.browser != nil {
		if err := h.browser.Close(); err != nil {
			errs = append(errs, err)
		}
		h.browser = nil
	}
	if h.launcher != nil {
		killLauncher(h.launcher)
		h.launcher = nil
	}
	return errors.Join(errs...)
}

// killLauncher terminates Chrome and removes its user data directory.
func killLauncher(l *launcher.Launcher) {
	process.KillProcessGroup(l.PID())
	l.Kill()
	l.Cleanup()
}

// browserAnchor is an <a download> element in the host page.
type browserAnchor struct {
	host     *BrowserHost
	id       string
	download string
}

// Click implements Anchor. It waits for the download to complete and renames
// the file Chrome saved under its GUID to the anchor's download name.
func (a *browserAnchor) Click(ctx context.Context) error {
	browser, page, err := a.host.ensurePage()
	if err != nil {
		return err
	}

	ctx, cancel := a.host.stepContext(ctx)
	defer cancel()

	dir := a.host.opts.Dir
	wait := browser.Context(ctx).WaitDownload(dir)

	if _, err := page.Context(ctx).Eval(jsClickAnchor, a.id); err != nil {
		return fmt.Errorf("%w: %v", ErrAnchor, err)
	}

	info := wait()
	if info == nil {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrDownload, err)
		}
		return fmt.Errorf("%w: no download started", ErrDownload)
	}

	saved := filepath.Join(dir, info.GUID)
	target := filepath.Join(dir, a.download)
	if err := os.Rename(saved, target); err != nil {
		return fmt.Errorf("%w: %v", ErrDownload, err)
	}
	return nil
}

// Remove implements Anchor.
func (a *browserAnchor) Remove() {
	a.host.mu.Lock()
	page := a.host.page
	a.host.mu.Unlock()
	if page == nil {
		return
	}

	ctx, cancel := a.host.stepContext(context.Background())
	defer cancel()
	if _, err := page.Context(ctx).Eval(jsRemoveAnchor, a.id); err != nil {
		a.host.opts.Logger.Debug("removing anchor failed", "anchor", a.id, "err", err)
	}
}

// Compile-time interface checks.
var (
	_ Host   = (*BrowserHost)(nil)
	_ Anchor = (*browserAnchor)(nil)
)
