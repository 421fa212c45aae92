package terminal

import (
	"io"
	"os"

	"github.com/de-tools/time-atlas/pkg/runtime/terminal/commands"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	reports  commands.WorkspaceReporter
	reporter *Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Reports commands.WorkspaceReporter
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		reports:  opts.Reports,
		reporter: NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time-atlas",
		Short: "Time tracking report tool",
	}

	cmd.AddCommand(commands.NewReportCmd(cli.reports, cli.reporter))

	return cmd
}
