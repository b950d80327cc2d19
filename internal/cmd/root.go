// Package cmd implements the postal command line.
package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zostay/go-postal/internal/config"
)

var (
	rootCmd = &cobra.Command{
		Use:   "postal",
		Short: "Render email templates into MIME messages and send them",
		Long: `postal renders a template whose header block describes an email, builds
the MIME message it describes, and prints, inspects, or sends it.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	cfgFile  string
	viewsDir string
	debug    bool

	cfg    *config.Config
	logger = log.New(os.Stderr)
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&viewsDir, "views", "", "directory holding the view templates")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(inspectCmd)
}

// Execute runs the command line.
func Execute() {
	err := rootCmd.Execute()
	cobra.CheckErr(err)
}

func setup(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	if viewsDir != "" {
		cfg.Views.Dir = viewsDir
	}

	lvl, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if debug {
		lvl = log.DebugLevel
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "postal",
	})

	return nil
}
