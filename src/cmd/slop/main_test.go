package main

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"goslop/src/config"
	"goslop/src/logutil"
	"goslop/src/session"
)

func parse(t *testing.T, args ...string) (*cobra.Command, cliOptions) {
	t.Helper()
	opts := &cliOptions{}
	cmd := newRootCmd(opts, func(*cobra.Command) error { return nil })
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v): %v", args, err)
	}
	return cmd, *opts
}

func baseConfig() *config.Config {
	return &config.Config{Options: config.DefaultOptions(), Format: config.DefaultFormat}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cmd, opts := parse(t,
		"-x", ":3", "-t", "5", "-b", "3", "-p", "-2",
		"-c", "1,0,0,0.5", "-r", "blur,invert", "-f", "%x %y",
		"-l", "-n", "-o", "-k",
	)
	p, err := buildPlan(baseConfig(), cmd.Flags(), opts, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	o := p.options
	if o.Display != ":3" || o.Tolerance != 5 || o.BorderSize != 3 || o.Padding != -2 {
		t.Fatalf("numeric flags not applied: %+v", o)
	}
	if o.Color != (config.Color{R: 1, G: 0, B: 0, A: 0.5}) {
		t.Fatalf("color = %+v", o.Color)
	}
	if !reflect.DeepEqual(o.Shaders, []string{"blur", "invert"}) {
		t.Fatalf("shaders = %v", o.Shaders)
	}
	if !o.Highlight || !o.NoDecorations || !o.NoOpenGL || !o.NoKeyboard {
		t.Fatalf("boolean flags not applied: %+v", o)
	}
	if p.format != "%x %y" {
		t.Fatalf("format = %q", p.format)
	}
}

func TestUnsetFlagsKeepConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.Options.Padding = 7
	cfg.Options.Shaders = []string{"wiggle"}
	cfg.Options.NoOpenGL = true
	cfg.Format = "%i\n"

	cmd, opts := parse(t)
	p, err := buildPlan(cfg, cmd.Flags(), opts, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if p.options.Padding != 7 || !p.options.NoOpenGL {
		t.Fatalf("config values lost: %+v", p.options)
	}
	if !reflect.DeepEqual(p.options.Shaders, []string{"wiggle"}) {
		t.Fatalf("shaders = %v", p.options.Shaders)
	}
	if p.format != "%i\n" {
		t.Fatalf("format = %q", p.format)
	}
	if len(p.targets) != 1 {
		t.Fatalf("expected stdout only, got %d targets", len(p.targets))
	}
}

func TestFalseBoolFlagsOverrideConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.Options.Highlight = true
	cfg.Options.NoDecorations = true
	cfg.Options.NoOpenGL = true
	cfg.Options.NoKeyboard = true

	cmd, opts := parse(t, "--highlight=false", "--nodecorations=false", "--noopengl=false", "--nokeyboard=false")
	p, err := buildPlan(cfg, cmd.Flags(), opts, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	o := p.options
	if o.Highlight || o.NoDecorations || o.NoOpenGL || o.NoKeyboard {
		t.Fatalf("explicit false flags did not override config: %+v", o)
	}
}

func TestTargets(t *testing.T) {
	cmd, opts := parse(t, "--clipboard", "--capture", "/tmp/shot.png")
	p, err := buildPlan(baseConfig(), cmd.Flags(), opts, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.targets) != 3 {
		t.Fatalf("targets = %d, want 3", len(p.targets))
	}
	if _, ok := p.targets[1].(session.ClipboardTarget); !ok {
		t.Fatalf("second target = %T", p.targets[1])
	}
	if c, ok := p.targets[2].(session.CaptureTarget); !ok || c.Path != "/tmp/shot.png" {
		t.Fatalf("third target = %#v", p.targets[2])
	}
}

func TestBuildPlanRejectsBadInput(t *testing.T) {
	tests := [][]string{
		{"-c", "red"},
		{"-f", "%z"},
		{"-t", "-1"},
		{"-b", "-3"},
	}
	for _, args := range tests {
		cmd, opts := parse(t, args...)
		if _, err := buildPlan(baseConfig(), cmd.Flags(), opts, &bytes.Buffer{}); err == nil {
			t.Errorf("buildPlan(%v) should fail", args)
		}
	}
}

func TestRejectsPositionalArgs(t *testing.T) {
	err := runWithArgs(context.Background(), []string{"slop", "extra"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected an argument error, got %v", err)
	}
}

func TestLogMode(t *testing.T) {
	if logMode(true, true) != logutil.Stderr {
		t.Error("verbose wins over file logging")
	}
	if logMode(false, true) != logutil.File {
		t.Error("file logging when enabled")
	}
	if logMode(false, false) != logutil.Discard {
		t.Error("discard by default")
	}
}
