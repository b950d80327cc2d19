package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zostay/go-postal/mailer"
	"github.com/zostay/go-postal/render"
	"github.com/zostay/go-postal/view"
)

var (
	modelFile   string
	viewData    []string
	attachments []string
)

// addEmailFlags adds the flags that describe the Email to render.
func addEmailFlags(c *cobra.Command) {
	c.Flags().StringVarP(&modelFile, "model", "m", "", "YAML or JSON file passed to the view as .Model")
	c.Flags().StringArrayVarP(&viewData, "data", "d", nil, "view data as key=value, may be repeated")
	c.Flags().StringArrayVarP(&attachments, "attach", "a", nil, "file to attach, may be repeated")
}

// parseViewData turns key=value pairs into ViewData.
func parseViewData(pairs []string) (view.ViewData, error) {
	vd := view.ViewData{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("view data %q is not key=value", pair)
		}
		vd[strings.TrimSpace(k)] = v
	}
	return vd, nil
}

// loadModel reads a YAML (or JSON) document.
func loadModel(path string) (any, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	var model map[string]any
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", path, err)
	}
	return model, nil
}

// attachmentType guesses the media type of an attachment from its name.
func attachmentType(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// newEmail builds the Email described by the flags.
func newEmail(viewName string) (*view.Email, error) {
	email := view.NewEmail(viewName)

	vd, err := parseViewData(viewData)
	if err != nil {
		return nil, err
	}
	email.ViewData = vd

	if email.Model, err = loadModel(modelFile); err != nil {
		return nil, err
	}

	for _, a := range attachments {
		email.Attach(a, attachmentType(a))
	}

	return email, nil
}

// newService returns a Service rendering from the configured views.
func newService(sender mailer.Sender) *mailer.Service {
	r := render.New(os.DirFS(cfg.Views.Dir),
		render.WithImageDir(cfg.Views.ImageDir),
		render.WithLogger(logger))

	return mailer.New(r, sender, mailer.WithLogger(logger))
}
