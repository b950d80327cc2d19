package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-postal/internal/inspect"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.eml>",
	Short: "summarize a message file",
	Args:  cobra.ExactArgs(1),
	RunE:  Inspect,
}

// Inspect prints a summary of a message file.
func Inspect(c *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := inspect.Read(f)
	if err != nil {
		return err
	}

	return s.Print(c.OutOrStdout())
}
