package image

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Embedder registers the images referenced while one message renders. It is
// safe for concurrent use, but must not be shared between messages.
type Embedder struct {
	mu      sync.Mutex
	fetcher Fetcher
	logger  *log.Logger
	refs    map[string]*Resource
	order   []*Resource
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithFetcher sets the Fetcher used for remote images.
func WithFetcher(f Fetcher) Option {
	return func(e *Embedder) {
		e.fetcher = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Embedder) {
		e.logger = l
	}
}

// NewEmbedder returns an empty Embedder. Remote images are fetched with an
// HTTPFetcher unless WithFetcher says otherwise.
func NewEmbedder(opts ...Option) *Embedder {
	e := &Embedder{
		fetcher: &HTTPFetcher{},
		logger:  log.New(io.Discard),
		refs:    map[string]*Resource{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Reference registers the image found at source, which is either an absolute
// URL or a local path, and returns its Resource. Referencing the same source
// again returns the same Resource without fetching it again.
//
// The content type comes from hint when given, or else from the extension of
// the source. Remote images are fetched before Reference returns.
func (e *Embedder) Reference(ctx context.Context, source, hint string) (*Resource, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r, ok := e.refs[source]; ok {
		return r, nil
	}

	ct, err := contentType(source, hint)
	if err != nil {
		return nil, &ResourceError{Source: source, Err: err}
	}

	r := &Resource{
		Source:      source,
		ContentID:   uuid.NewString(),
		ContentType: ct,
	}

	if isAbsoluteURL(source) {
		b, err := e.fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, &ResourceError{
				Source: source,
				Err:    fmt.Errorf("%w: %w", ErrResourceFetchFailed, err),
			}
		}
		r.Content = b
	} else {
		r.Path = source
	}

	e.logger.Debug("referenced image", "source", source, "cid", r.ContentID, "type", ct)

	e.refs[source] = r
	e.order = append(e.order, r)
	return r, nil
}

// HasImages returns true if any image has been referenced.
func (e *Embedder) HasImages() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.order) > 0
}

// Resources returns the referenced images in the order they were first
// referenced.
func (e *Embedder) Resources() []*Resource {
	e.mu.Lock()
	defer e.mu.Unlock()

	rs := make([]*Resource, len(e.order))
	copy(rs, e.order)
	return rs
}

func contentType(source, hint string) (string, error) {
	if hint != "" {
		mt, _, err := mime.ParseMediaType(hint)
		if err != nil || !strings.Contains(mt, "/") {
			return "", ErrInvalidContentType
		}
		return mt, nil
	}

	ext := path.Ext(sourcePath(source))
	if ext == "" {
		return "", ErrInvalidContentType
	}

	ct := mime.TypeByExtension(strings.ToLower(ext))
	if ct == "" {
		return "", ErrInvalidContentType
	}

	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", ErrInvalidContentType
	}
	return mt, nil
}

func isAbsoluteURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && u.IsAbs() && u.Host != ""
}

// sourcePath returns the path portion of a URL source or the source itself.
func sourcePath(source string) string {
	if isAbsoluteURL(source) {
		if u, err := url.Parse(source); err == nil {
			return u.Path
		}
	}
	return strings.ReplaceAll(source, "\\", "/")
}
