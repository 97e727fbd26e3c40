package alerts

import (
	"github.com/spf13/cobra"

	"github.com/ethan-huo/env-tool/internal/cmd/globals"
	"github.com/ethan-huo/env-tool/internal/cmd/output"
)

// ForCommand returns the writer a command prints status lines with. It
// honors --no-color and --quiet from the root command.
func ForCommand(cmd *cobra.Command) Writer {
	flags := globals.Parse(cmd)
	fw := NewFormatWriter(cmd.OutOrStdout(), output.FormatTable)
	if flags.NoColor {
		fw.WithColor(false)
	}
	if flags.Quiet {
		return Quiet(fw)
	}
	return fw
}
