// Package globals reads the root command's persistent flags and registers
// the flags shared by the env commands.
package globals

import "github.com/spf13/cobra"

// Flags are the root flags that change how subcommands print.
type Flags struct {
	Format  string
	Quiet   bool
	Verbose bool
	NoColor bool
}

// Parse reads the persistent flags of cmd's root. A command run without
// the root, as in package tests, gets zero values.
func Parse(cmd *cobra.Command) *Flags {
	pf := cmd.Root().PersistentFlags()
	f := &Flags{}
	f.Format, _ = pf.GetString("format")
	f.Quiet, _ = pf.GetBool("quiet")
	f.Verbose, _ = pf.GetBool("verbose")
	f.NoColor, _ = pf.GetBool("no-color")
	return f
}
