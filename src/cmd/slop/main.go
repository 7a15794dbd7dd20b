package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"goslop/src/config"
	"goslop/src/logutil"
	"goslop/src/overlay"
	"goslop/src/runtimeinit"
	"goslop/src/session"
	"goslop/src/x11"
)

const cancelledMessage = "Selection was cancelled by keystroke or right-click."

// GL and glfw calls must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

type cliOptions struct {
	display       string
	tolerance     float32
	borderSize    float32
	padding       float32
	color         string
	noDecorations bool
	highlight     bool
	shaders       []string
	format        string
	noOpenGL      bool
	noKeyboard    bool
	quiet         bool
	verbose       bool
	clipboard     bool
	clipboardHold time.Duration
	capture       string
	configPath    string
}

// plan is everything a run needs once flags and configuration are merged.
type plan struct {
	options config.Options
	format  string
	targets []session.ResultTarget
}

func main() {
	if err := run(); err != nil {
		if errors.Is(err, session.ErrSelectionCancelled) {
			fmt.Fprintln(os.Stderr, cancelledMessage)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runWithArgs(ctx, os.Args, os.Stdout)
}

func runWithArgs(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		args = []string{"slop"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts, func(cmd *cobra.Command) error {
		return runWithOptions(ctx, cmd.Flags(), *opts, stdout)
	})
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions, runE func(cmd *cobra.Command) error) *cobra.Command {
	defaults := config.DefaultOptions()
	cmd := &cobra.Command{
		Use:           "slop",
		Short:         "Select a screen region or window and print its geometry",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(cmd)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.display, "xdisplay", "x", defaults.Display, "X display to select on")
	f.Float32VarP(&opts.tolerance, "tolerance", "t", defaults.Tolerance, "pixels the pointer may move before a click becomes a drag")
	f.Float32VarP(&opts.borderSize, "bordersize", "b", defaults.BorderSize, "selection border thickness in pixels")
	f.Float32VarP(&opts.padding, "padding", "p", defaults.Padding, "pixels to grow (or, negative, shrink) the selection by")
	f.StringVarP(&opts.color, "color", "c", "", "selection color as r,g,b[,a] in 0-1")
	f.BoolVarP(&opts.noDecorations, "nodecorations", "n", false, "select the client window without its frame")
	f.BoolVarP(&opts.highlight, "highlight", "l", false, "fill the selection instead of outlining it")
	f.StringSliceVarP(&opts.shaders, "shader", "r", defaults.Shaders, "comma separated effect chain")
	f.StringVarP(&opts.format, "format", "f", config.DefaultFormat, "output format (%x %y %w %h %g %i %c)")
	f.BoolVarP(&opts.noOpenGL, "noopengl", "o", false, "never use the OpenGL overlay")
	f.BoolVarP(&opts.noKeyboard, "nokeyboard", "k", false, "do not cancel on key presses")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress diagnostics")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")
	f.BoolVar(&opts.clipboard, "clipboard", false, "also copy the formatted result to the clipboard")
	f.DurationVar(&opts.clipboardHold, "clipboard-hold", 10*time.Second, "how long to keep serving the clipboard")
	f.StringVar(&opts.capture, "capture", "", "save a PNG of the selected region to this file")
	f.StringVar(&opts.configPath, "config", "", "path to a .env configuration file")

	return cmd
}

func runWithOptions(ctx context.Context, flags *pflag.FlagSet, opts cliOptions, stdout io.Writer) error {
	// The clipboard connects during bootstrap, before the selection opens
	// the display, so it needs -x in the environment first.
	if flags.Changed("xdisplay") {
		if err := x11.BindDisplay(opts.display); err != nil {
			return err
		}
	}
	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:   config.LoadOptions{ConfigPathOverride: opts.configPath},
		SetupLogging:  func(fileLogging bool) { logutil.Setup(logMode(opts.verbose, fileLogging), "") },
		NeedClipboard: opts.clipboard,
	})
	if err != nil {
		return err
	}

	p, err := buildPlan(cfg, flags, opts, stdout)
	if err != nil {
		return err
	}

	selector := overlay.NewSelector(p.options, opts.quiet)
	_, err = session.Execute(ctx, session.Options{
		Select:  selector.Select,
		Targets: p.targets,
	})
	return err
}

func logMode(verbose, fileLogging bool) logutil.Mode {
	switch {
	case verbose:
		return logutil.Stderr
	case fileLogging:
		return logutil.File
	}
	return logutil.Discard
}

// buildPlan layers explicitly set flags over the loaded configuration
// and validates the output format before any window appears.
func buildPlan(cfg *config.Config, flags *pflag.FlagSet, opts cliOptions, stdout io.Writer) (plan, error) {
	o := cfg.Options.Clone()
	format := cfg.Format

	if flags.Changed("xdisplay") {
		o.Display = opts.display
	}
	if flags.Changed("tolerance") {
		o.Tolerance = opts.tolerance
	}
	if flags.Changed("bordersize") {
		o.BorderSize = opts.borderSize
	}
	if flags.Changed("padding") {
		o.Padding = opts.padding
	}
	if flags.Changed("color") {
		c, err := config.ParseColor(opts.color)
		if err != nil {
			return plan{}, err
		}
		o.Color = c
	}
	if flags.Changed("shader") {
		o.Shaders = config.SplitList(strings.Join(opts.shaders, ","), ",")
	}
	if flags.Changed("format") {
		format = opts.format
	}
	if flags.Changed("highlight") {
		o.Highlight = opts.highlight
	}
	if flags.Changed("nodecorations") {
		o.NoDecorations = opts.noDecorations
	}
	if flags.Changed("noopengl") {
		o.NoOpenGL = opts.noOpenGL
	}
	if flags.Changed("nokeyboard") {
		o.NoKeyboard = opts.noKeyboard
	}

	if o.Tolerance < 0 {
		return plan{}, fmt.Errorf("tolerance must not be negative, got %v", o.Tolerance)
	}
	if o.BorderSize < 0 {
		return plan{}, fmt.Errorf("bordersize must not be negative, got %v", o.BorderSize)
	}
	if len(o.Shaders) == 0 {
		o.Shaders = []string{config.BuiltinShader}
	}
	if _, err := session.Format(format, overlay.Result{}, false); err != nil {
		return plan{}, err
	}

	targets := []session.ResultTarget{session.StdoutTarget{Writer: stdout, Format: format}}
	if opts.clipboard {
		targets = append(targets, session.ClipboardTarget{Format: format, Hold: opts.clipboardHold})
	}
	if opts.capture != "" {
		targets = append(targets, session.CaptureTarget{Path: opts.capture})
	}
	return plan{options: o, format: format, targets: targets}, nil
}
