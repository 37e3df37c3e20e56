// Package commands implements the CLI commands for the forge build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/build"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/dispatch"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for forge.
type CLI struct {
	dispatcher *dispatch.Dispatcher
	rootCmd    *cobra.Command

	jobs   string
	config string
	prefix string
}

// New creates a CLI exposing every command of the dispatcher table, in table order.
func New(d *dispatch.Dispatcher) *CLI {
	cobra.EnableCommandSorting = false

	c := &CLI{dispatcher: d}

	rootCmd := &cobra.Command{
		Use:           "forge [command]",
		Short:         "A parallel build orchestrator for C projects",
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return zerr.With(zerr.Wrap(domain.ErrCommandNotFound, "unknown command"), "command", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.dispatch(cmd, "", args)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.jobs, "jobs", "j", "1", "Number of parallel compile workers")
	flags.StringVarP(&c.config, "config", "c", domain.DefaultConfigFile, "Path to the project file")

	for _, cmd := range d.Commands() {
		rootCmd.AddCommand(c.newCommand(cmd))
	}

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			defaultHelp(cmd, args)
			return
		}
		c.writeRootHelp(cmd)
	})

	c.rootCmd = rootCmd
	return c
}

func (c *CLI) newCommand(cmd ports.Command) *cobra.Command {
	name := cmd.Name()
	cc := &cobra.Command{
		Use:   name,
		Short: cmd.Description(),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cc *cobra.Command, args []string) error {
			return c.dispatch(cc, name, args)
		},
	}

	if name == app.CommandInstall || name == app.CommandUninstall {
		cc.Flags().StringVar(&c.prefix, "prefix", "", "Install prefix, overriding layout.install_prefix")
	}
	return cc
}

func (c *CLI) dispatch(cmd *cobra.Command, name string, args []string) error {
	return c.dispatcher.Dispatch(cmd.Context(), name, domain.Invocation{
		ConfigPath: c.config,
		Jobs:       domain.ParseJobs(c.jobs),
		Prefix:     c.prefix,
		Args:       args,
	})
}

func (c *CLI) writeRootHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s\n\nUsage:\n  %s [flags]\n\n", cmd.Short, cmd.UseLine())
	_ = c.dispatcher.WriteHelp(out)
	_, _ = fmt.Fprintf(out, "\nFlags:\n%s", cmd.LocalFlags().FlagUsages())
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command.
func (c *CLI) SetArgs(args []string) {
	if args == nil {
		// cobra falls back to os.Args for nil.
		args = []string{}
	}
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects the command's output and error streams. Used for testing.
func (c *CLI) SetOutput(stdout, stderr io.Writer) {
	c.rootCmd.SetOut(stdout)
	c.rootCmd.SetErr(stderr)
}
