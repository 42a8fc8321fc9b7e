// Package commands implements the pagebuilder command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

// Global is state shared by every command.
type Global struct {
	Context context.Context
	Logger  *slog.Logger
	// Stdout receives user-facing progress lines.
	Stdout io.Writer
	// Stderr receives log output.
	Stderr io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"pagebuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Generate the site pages from the content root"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
	Verify VerifyCmd `cmd:"" help:"Check internal links of generated pages"`
	Watch  WatchCmd  `cmd:"" help:"Build, then rebuild when content changes"`
	Fields FieldsCmd `cmd:"" help:"Print the effective field alias table"`
}

// AfterApply sets up logging once flags are parsed. The configuration may
// refine it later through LoadConfig.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = newLogger(g.stderr(), level, config.LogFormatText)
	slog.SetDefault(g.Logger)
	return nil
}

// LoadConfig reads the configuration file and applies its logging settings.
// The default file is optional; an explicitly named one must exist.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	var (
		cfg   *config.Config
		found = true
		err   error
	)
	if c.Config == config.DefaultPath {
		cfg, found, err = config.LoadOrDefault(c.Config)
	} else {
		cfg, err = config.Load(c.Config)
	}
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = newLogger(g.stderr(), level, cfg.Logging.Format)
	slog.SetDefault(g.Logger)

	if found {
		g.Logger.Debug("Loaded configuration", logfields.Path(c.Config))
	} else {
		g.Logger.Debug("No configuration file, using defaults", logfields.Path(c.Config))
	}
	return cfg, nil
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (g *Global) ctx() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) stderr() io.Writer {
	if g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}

func (g *Global) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
