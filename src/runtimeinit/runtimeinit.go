package runtimeinit

import (
	"fmt"
	"log"

	"goslop/src/clipboard"
	"goslop/src/config"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(enableFileLogging bool)
	// NeedClipboard initializes the clipboard up front so a missing
	// clipboard fails the run before the user makes a selection.
	NeedClipboard bool
}

func Bootstrap(opts Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}
	log.Printf("config: display=%s shaders=%v noopengl=%v", cfg.Options.Display, cfg.Options.Shaders, cfg.Options.NoOpenGL)

	if opts.NeedClipboard {
		if err := clipboard.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
		}
	}

	return cfg, nil
}
