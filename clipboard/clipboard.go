package clipboard

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Clipboard receives yanked text. It writes to the system clipboard when
// there is one and falls back to OSC52 so yanks also reach the local
// terminal over SSH.
type Clipboard struct {
	// Last yanked text, kept for the status line
	last string
	// Whether we're likely in an SSH session
	remote bool
	// Output writer for OSC52 sequences (typically os.Stdout)
	output io.Writer
	// System clipboard writer, swapped out in tests
	writeSystem func(string) error
}

// New creates a new Clipboard instance. remote forces OSC52, see
// config.TermCapabilities.Remote.
func New(output io.Writer, remote bool) *Clipboard {
	if output == nil {
		output = os.Stdout
	}
	return &Clipboard{
		remote:      remote,
		output:      output,
		writeSystem: clipboard.WriteAll,
	}
}

// Copy copies the given text to the clipboard.
// In SSH sessions, it uses OSC52 escape sequences.
// Locally, it tries the system clipboard first, then falls back to OSC52.
func (c *Clipboard) Copy(text string) error {
	c.last = text

	if c.remote {
		return c.copyOSC52(text)
	}

	if err := c.writeSystem(text); err != nil {
		return c.copyOSC52(text)
	}
	return nil
}

// copyOSC52 copies text using OSC52 escape sequence.
func (c *Clipboard) copyOSC52(text string) error {
	seq := osc52.New(text)
	_, err := io.WriteString(c.output, seq.String())
	return err
}

// Last returns the most recently yanked text.
func (c *Clipboard) Last() string {
	return c.last
}

// IsRemote returns true if yanks go out as OSC52 only.
func (c *Clipboard) IsRemote() bool {
	return c.remote
}
