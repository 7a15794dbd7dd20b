package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ConfigPathEnvVar = "SLOP_CONFIG"
	DefaultFormat    = "%g\n"
	BuiltinShader    = "textured"
)

// Color is an RGBA color with components in the 0-1 range.
type Color struct {
	R, G, B, A float32
}

// Vec4 returns the color as a plain array, the layout shaders expect.
func (c Color) Vec4() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// Options is the per-run selection configuration. It is built once before a
// run and treated as read-only while the selection is in progress.
type Options struct {
	BorderSize    float32
	Padding       float32
	Tolerance     float32
	Color         Color
	Highlight     bool
	Shaders       []string
	ShaderPaths   []string
	NoKeyboard    bool
	NoOpenGL      bool
	NoDecorations bool
	Display       string
}

// DefaultOptions returns the stock selection options.
func DefaultOptions() Options {
	display := os.Getenv("DISPLAY")
	if display == "" {
		display = ":0"
	}
	return Options{
		BorderSize: 1,
		Padding:    0,
		Tolerance:  2,
		Color:      Color{R: 0.5, G: 0.5, B: 0.5, A: 1},
		Shaders:    []string{BuiltinShader},
		Display:    display,
	}
}

// Clone returns a copy that shares no slices with o.
func (o Options) Clone() Options {
	c := o
	c.Shaders = append([]string(nil), o.Shaders...)
	c.ShaderPaths = append([]string(nil), o.ShaderPaths...)
	return c
}

type LoadOptions struct {
	ConfigPathOverride string
}

type Config struct {
	Options           Options
	Format            string
	EnableFileLogging bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions resolves configuration in priority order:
// 1) .env in the executable directory (or the file named by SLOP_CONFIG / the override)
// 2) process environment, which wins over the .env file for keys present in both
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	envPath := resolveEnvPath(opts)
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", envPath, err)
		}
	}

	o := DefaultOptions()
	var err error

	if o.BorderSize, err = floatEnv("SLOP_BORDERSIZE", o.BorderSize); err != nil {
		return nil, err
	}
	if o.Padding, err = floatEnv("SLOP_PADDING", o.Padding); err != nil {
		return nil, err
	}
	if o.Tolerance, err = floatEnv("SLOP_TOLERANCE", o.Tolerance); err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(os.Getenv("SLOP_COLOR")); v != "" {
		c, err := ParseColor(v)
		if err != nil {
			return nil, fmt.Errorf("SLOP_COLOR: %w", err)
		}
		o.Color = c
	}
	if shaders := SplitList(os.Getenv("SLOP_SHADERS"), ","); len(shaders) > 0 {
		o.Shaders = shaders
	}
	o.ShaderPaths = SplitList(os.Getenv("SLOP_SHADER_PATH"), string(os.PathListSeparator))
	o.Highlight = boolEnv("SLOP_HIGHLIGHT")
	o.NoOpenGL = boolEnv("SLOP_NOOPENGL")
	o.NoKeyboard = boolEnv("SLOP_NOKEYBOARD")
	o.NoDecorations = boolEnv("SLOP_NODECORATIONS")

	cfg := &Config{
		Options:           o,
		Format:            getEnvWithDefault("SLOP_FORMAT", DefaultFormat),
		EnableFileLogging: boolEnv("ENABLE_FILE_LOGGING"),
	}
	return cfg, nil
}

// ParseColor parses "r,g,b" or "r,g,b,a" with components in 0-1.
func ParseColor(value string) (Color, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("invalid color %q: want r,g,b[,a]", value)
	}
	comps := [4]float32{0, 0, 0, 1}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color component %q: %w", p, err)
		}
		if f < 0 || f > 1 {
			return Color{}, fmt.Errorf("color component %q out of range 0-1", p)
		}
		comps[i] = float32(f)
	}
	return Color{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
}

// SplitList splits on sep, trimming whitespace and dropping empty entries.
func SplitList(value, sep string) []string {
	var out []string
	for _, item := range strings.Split(value, sep) {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func resolveEnvPath(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.ConfigPathOverride); override != "" {
		return override
	}

	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(ConfigPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func floatEnv(key string, def float32) (float32, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return float32(f), nil
}

func boolEnv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
