package laseretch

import (
	"context"
	"fmt"
	"io"
)

// User-facing messages.
const (
	missingDocumentMessage = "Generate an SVG first"
	manualCopyMessage      = "Unable to download automatically. Copy SVG:"
)

// Host is the platform an export runs against: something that can hold an
// in-memory object behind a temporary URL, click a download anchor, and show
// blocking notices to the user.
type Host interface {
	// CreateObjectURL stores data under a new temporary reference URL.
	// Every URL must be released with RevokeObjectURL.
	CreateObjectURL(ctx context.Context, data []byte, mediaType string) (string, error)

	// RevokeObjectURL releases a URL issued by CreateObjectURL. Unknown URLs are ignored.
	RevokeObjectURL(url string)

	// AppendAnchor synthesizes a download anchor pointing at href.
	AppendAnchor(ctx context.Context, href, download string) (Anchor, error)

	// Alert shows a blocking notice.
	Alert(message string)

	// Prompt shows a blocking prompt prefilled with value so it can be copied.
	Prompt(message, value string)
}

// Anchor is a transient download trigger created by a Host.
type Anchor interface {
	// Click activates the anchor, starting the save.
	Click(ctx context.Context) error

	// Remove detaches the anchor. It is safe to call more than once.
	Remove()
}

// textNotifier renders Alert and Prompt as plain text on a writer,
// for hosts that have no dialog surface of their own.
type textNotifier struct {
	out io.Writer
}

func (n textNotifier) Alert(message string) {
	fmt.Fprintln(n.out, message)
}

func (n textNotifier) Prompt(message, value string) {
	fmt.Fprintln(n.out, message)
	fmt.Fprintln(n.out, value)
}
