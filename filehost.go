package laseretch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/alnah/go-laseretch/internal/fileutil"
)

// objectURLPrefix marks URLs issued by FileHost.
const objectURLPrefix = "blob:laseretch/"

// filePermissions is rw-r--r-- for saved artifacts.
const filePermissions = 0o644

// FileHost saves downloads into a local directory.
// Object URLs are backed by temp files that are deleted on revoke;
// notices are written as text to out.
type FileHost struct {
	textNotifier
	dir string

	mu      sync.Mutex
	objects map[string]fileObject
}

// fileObject is the temp file behind one object URL.
type fileObject struct {
	path    string
	cleanup func()
}

// NewFileHost creates a FileHost that saves into dir and writes notices to out.
func NewFileHost(dir string, out io.Writer) *FileHost {
	if out == nil {
		out = io.Discard
	}
	return &FileHost{
		textNotifier: textNotifier{out: out},
		dir:          dir,
		objects:      make(map[string]fileObject),
	}
}

// Dir returns the download directory.
func (h *FileHost) Dir() string { return h.dir }

// CreateObjectURL implements Host.
func (h *FileHost) CreateObjectURL(ctx context.Context, data []byte, mediaType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, cleanup, err := fileutil.WriteTempFile(data, extensionFor(mediaType))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrObjectURL, err)
	}

	url := objectURLPrefix + uuid.NewString()

	h.mu.Lock()
	h.objects[url] = fileObject{path: path, cleanup: cleanup}
	h.mu.Unlock()

	return url, nil
}

// RevokeObjectURL implements Host.
func (h *FileHost) RevokeObjectURL(url string) {
	h.mu.Lock()
	obj, ok := h.objects[url]
	delete(h.objects, url)
	h.mu.Unlock()

	if ok {
		obj.cleanup()
	}
}

// Outstanding returns the number of object URLs not yet revoked.
func (h *FileHost) Outstanding() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.objects)
}

// Close revokes every outstanding object URL.
func (h *FileHost) Close() error {
	h.mu.Lock()
	objects := h.objects
	h.objects = make(map[string]fileObject)
	h.mu.Unlock()

	for _, obj := range objects {
		obj.cleanup()
	}
	return nil
}

// AppendAnchor implements Host.
func (h *FileHost) AppendAnchor(ctx context.Context, href, download string) (Anchor, error) {
	if err := fileutil.ValidateFilename(download); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnchor, err)
	}
	return &fileAnchor{host: h, href: href, download: download}, nil
}

// resolve returns the bytes an href points at.
func (h *FileHost) resolve(href string) ([]byte, error) {
	switch {
	case strings.HasPrefix(href, objectURLPrefix):
		h.mu.Lock()
		obj, ok := h.objects[href]
		h.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownObjectURL, href)
		}
		data, err := os.ReadFile(obj.path) // #nosec G304 -- path issued by WriteTempFile
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDownload, err)
		}
		return data, nil

	case strings.HasPrefix(href, "data:"):
		_, data, err := ParseDataURI(href)
		if err != nil {
			return nil, err
		}
		return data, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedHref, truncate(href, 64))
	}
}

// fileAnchor writes its target into the host directory when clicked.
type fileAnchor struct {
	host     *FileHost
	href     string
	download string

	mu      sync.Mutex
	removed bool
}

// Click implements Anchor.
func (a *fileAnchor) Click(ctx context.Context) error {
	a.mu.Lock()
	removed := a.removed
	a.mu.Unlock()
	if removed {
		return fmt.Errorf("%w: clicked after removal", ErrAnchor)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := a.host.resolve(a.href)
	if err != nil {
		return err
	}

	target := filepath.Join(a.host.dir, a.download)
	if err := fileutil.WriteFileAtomic(target, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrDownload, err)
	}
	return nil
}

// Remove implements Anchor.
func (a *fileAnchor) Remove() {
	a.mu.Lock()
	a.removed = true
	a.mu.Unlock()
}

// extensionFor picks a temp file extension for a media type.
func extensionFor(mediaType string) string {
	if mediaType == MediaType {
		return "svg"
	}
	return "bin"
}

// truncate shortens s for error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Compile-time interface checks.
var (
	_ Host   = (*FileHost)(nil)
	_ Anchor = (*fileAnchor)(nil)
)
