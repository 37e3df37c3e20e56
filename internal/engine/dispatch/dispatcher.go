// Package dispatch maps command names onto the ordered command table.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// HelpCommand is the reserved name that prints the command table.
const HelpCommand = "help"

const helpDescription = "Show this help message"

// Dispatcher holds the fixed, ordered command table.
type Dispatcher struct {
	commands []ports.Command
	byName   map[string]ports.Command
	help     io.Writer
}

// New builds a dispatcher from commands. The first command is the default.
func New(help io.Writer, commands ...ports.Command) (*Dispatcher, error) {
	if len(commands) == 0 {
		return nil, zerr.Wrap(domain.ErrInvalidCommandTable, "command table is empty")
	}

	byName := make(map[string]ports.Command, len(commands))
	for _, cmd := range commands {
		name := cmd.Name()
		switch {
		case name == "":
			return nil, zerr.Wrap(domain.ErrInvalidCommandTable, "command name is empty")
		case name == HelpCommand:
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidCommandTable, "command name is reserved"), "command", name)
		}
		if _, dup := byName[name]; dup {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidCommandTable, "duplicate command"), "command", name)
		}
		byName[name] = cmd
	}

	return &Dispatcher{
		commands: commands,
		byName:   byName,
		help:     help,
	}, nil
}

// Commands returns the table in registration order.
func (d *Dispatcher) Commands() []ports.Command {
	return append([]ports.Command(nil), d.commands...)
}

// Default returns the command run when no name is given.
func (d *Dispatcher) Default() ports.Command {
	return d.commands[0]
}

// Lookup returns the command registered under name.
func (d *Dispatcher) Lookup(name string) (ports.Command, error) {
	cmd, ok := d.byName[name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrCommandNotFound, "unknown command"), "command", name)
	}
	return cmd, nil
}

// Dispatch runs the command named name. An empty name runs the default command
// and "help" writes the command table.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, inv domain.Invocation) error {
	switch name {
	case "":
		return d.Default().Run(ctx, inv)
	case HelpCommand:
		return d.WriteHelp(d.help)
	}

	cmd, err := d.Lookup(name)
	if err != nil {
		return err
	}
	return cmd.Run(ctx, inv)
}

// WriteHelp writes one aligned line per command, followed by help itself.
func (d *Dispatcher) WriteHelp(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "Commands:"); err != nil {
		return zerr.Wrap(err, "failed to write help")
	}
	for _, cmd := range d.commands {
		if _, err := fmt.Fprintf(tw, "  %s\t%s\n", cmd.Name(), cmd.Description()); err != nil {
			return zerr.Wrap(err, "failed to write help")
		}
	}
	if _, err := fmt.Fprintf(tw, "  %s\t%s\n", HelpCommand, helpDescription); err != nil {
		return zerr.Wrap(err, "failed to write help")
	}
	if err := tw.Flush(); err != nil {
		return zerr.Wrap(err, "failed to write help")
	}
	return nil
}
