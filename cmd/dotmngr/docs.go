package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

//go:embed docs/config.md
var configReference string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: MsgDocsShort,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(renderMarkdown(configReference))
		return nil
	},
}

// renderMarkdown renders the reference through glamour when stdout is a
// terminal, falling back to the raw markdown otherwise.
func renderMarkdown(content string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return content
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
