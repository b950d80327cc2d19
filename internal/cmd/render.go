package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/go-postal/message"
	"github.com/zostay/go-postal/message/walker"
)

var (
	renderCmd = &cobra.Command{
		Use:   "render <view>",
		Short: "render a view and print the message it describes",
		Args:  cobra.ExactArgs(1),
		RunE:  Render,
	}

	outline bool
)

func init() {
	addEmailFlags(renderCmd)
	renderCmd.Flags().BoolVar(&outline, "outline", false, "print the part tree instead of the message")
}

// Render prints the message rendered from a view.
func Render(c *cobra.Command, args []string) error {
	email, err := newEmail(args[0])
	if err != nil {
		return err
	}

	msg, err := newService(nil).CreateMessage(c.Context(), email)
	if err != nil {
		return err
	}

	if !outline {
		_, err = msg.WriteTo(os.Stdout)
		return err
	}

	g, err := msg.Generic()
	if err != nil {
		return err
	}

	return printOutline(g)
}

func printOutline(g message.Generic) error {
	var w walker.PartWalker = func(depth, _ int, p message.Part) error {
		mt, err := p.GetHeader().GetMediaType()
		if err != nil {
			mt = "(unknown)"
		}

		desc := mt
		if fn, err := p.GetHeader().GetFilename(); err == nil && fn != "" {
			desc += " " + fn
		}

		_, err = fmt.Println(strings.Repeat("  ", depth) + desc)
		return err
	}

	return w.Walk(g)
}
