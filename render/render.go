// Package render renders message templates stored as text/template files.
//
// A view named "~/emails/Welcome.tmpl" is read from the path
// "emails/Welcome.tmpl". Any other view name has ".tmpl" appended, so
// "Welcome.Html" is read from "Welcome.Html.tmpl".
package render

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"

	"github.com/zostay/go-postal/view"
)

// Extension is appended to view names that are not paths.
const Extension = ".tmpl"

// Data is what a template renders with.
type Data struct {
	// ViewName is the name of the view being rendered.
	ViewName string

	// Model is the Model of the Email.
	Model any

	// ViewData is the ViewData of the Email.
	ViewData view.ViewData
}

// Renderer renders views from a file system. It implements view.Renderer.
type Renderer struct {
	fsys     fs.FS
	imageDir string
	funcs    template.FuncMap
	logger   *log.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithImageDir sets the directory relative image paths are resolved against.
func WithImageDir(dir string) Option {
	return func(r *Renderer) {
		r.imageDir = dir
	}
}

// WithFuncs adds template functions. They replace built in functions with
// the same name.
func WithFuncs(funcs template.FuncMap) Option {
	return func(r *Renderer) {
		for k, f := range funcs {
			r.funcs[k] = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// New returns a Renderer reading views from fsys.
func New(fsys fs.FS, opts ...Option) *Renderer {
	r := &Renderer{
		fsys:   fsys,
		funcs:  template.FuncMap{},
		logger: log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ViewPath returns the path of the file holding the named view.
func ViewPath(viewName string) string {
	if strings.HasPrefix(viewName, "~") {
		return strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(viewName, "~")), "/")
	}
	return viewName + Extension
}

// Render renders the named view for email.
func (r *Renderer) Render(ctx context.Context, email *view.Email, viewName string) (string, error) {
	p := ViewPath(viewName)

	src, err := fs.ReadFile(r.fsys, p)
	if err != nil {
		return "", fmt.Errorf("reading view %q: %w", viewName, err)
	}

	t, err := template.New(p).Funcs(r.funcMap(ctx, email)).Parse(string(src))
	if err != nil {
		return "", fmt.Errorf("parsing view %q: %w", viewName, err)
	}

	data := &Data{
		ViewName: viewName,
		Model:    email.Model,
		ViewData: email.ViewData,
	}

	out := &strings.Builder{}
	if err := t.Execute(out, data); err != nil {
		return "", fmt.Errorf("executing view %q: %w", viewName, err)
	}

	r.logger.Debug("rendered view", "view", viewName, "path", p, "bytes", out.Len())

	return out.String(), nil
}

// RenderEmail renders the Email's own view.
func (r *Renderer) RenderEmail(ctx context.Context, email *view.Email) (string, error) {
	return r.Render(ctx, email, email.ViewName)
}

func (r *Renderer) funcMap(ctx context.Context, email *view.Email) template.FuncMap {
	strict := bluemonday.StrictPolicy()
	ugc := bluemonday.UGCPolicy()

	fm := template.FuncMap{
		// embedImage registers an image and returns its cid: URL.
		"embedImage": func(src string, contentType ...string) (string, error) {
			hint := ""
			if len(contentType) > 0 {
				hint = contentType[0]
			}

			res, err := email.ImageEmbedder().Reference(ctx, r.imagePath(src), hint)
			if err != nil {
				return "", err
			}
			return res.URL(), nil
		},

		"viewData": func(key string) any {
			v, _ := email.ViewData.Get(key)
			return v
		},

		"stripTags": strict.Sanitize,
		"sanitize":  ugc.Sanitize,

		"bytes": func(n int64) string { return humanize.Bytes(uint64(n)) },
		"comma": humanize.Comma,
		"ago":   humanize.Time,
		"date": func(layout string, t time.Time) string {
			return t.Format(layout)
		},
	}

	for k, f := range r.funcs {
		fm[k] = f
	}

	return fm
}

// imagePath resolves a relative local image path against the image directory.
func (r *Renderer) imagePath(src string) string {
	if r.imageDir == "" || strings.Contains(src, "://") || filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(r.imageDir, src)
}
