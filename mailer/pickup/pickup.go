// Package pickup delivers messages by writing them into a pickup directory,
// one .eml file per message, for a mail server or a person to collect.
package pickup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/zostay/go-postal/view"
)

// Extension is the extension of every file written.
const Extension = ".eml"

// Sender writes messages into a directory.
type Sender struct {
	dir    string
	logger *log.Logger

	// LastPath is the file written by the most recent Send.
	LastPath string
}

// New returns a Sender writing into dir. The directory is created on first
// use if missing.
func New(dir string, logger *log.Logger) *Sender {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Sender{dir: dir, logger: logger}
}

// Name returns "pickup".
func (s *Sender) Name() string {
	return "pickup"
}

// Send writes msg to a new file named with a random UUID. The file is written
// under a temporary name and renamed into place when complete.
func (s *Sender) Send(ctx context.Context, msg *view.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating pickup directory: %w", err)
	}

	name := uuid.NewString() + Extension
	tmp, err := os.CreateTemp(s.dir, ".postal-*")
	if err != nil {
		return fmt.Errorf("creating pickup file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := msg.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing pickup file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing pickup file: %w", err)
	}

	dest := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("moving pickup file into place: %w", err)
	}

	s.LastPath = dest
	s.logger.Debug("wrote pickup file", "path", dest)

	return nil
}
