package config

import (
	"flag"
	"os"
)

// Flags are the command-line settings. Only flags given explicitly override
// the config file.
type Flags struct {
	ConfigPath string
	Version    bool

	fs     *flag.FlagSet
	values Config
}

// BindFlags registers the scansense flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs, values: *Default()}

	fs.StringVar(&f.ConfigPath, "config", "", "path to a YAML config file")
	fs.BoolVar(&f.Version, "version", false, "print version information and exit")
	fs.BoolVar(&f.values.Debug, "debug", f.values.Debug, "log skipped frames and their reasons")
	fs.BoolVar(&f.values.Headless, "headless", f.values.Headless, "run without a display window; stop with Ctrl-C")
	fs.IntVar(&f.values.Device, "device", f.values.Device, "camera device index")
	fs.StringVar(&f.values.Replay, "replay", f.values.Replay, "play frames from this directory instead of a camera")
	fs.BoolVar(&f.values.Loop, "loop", f.values.Loop, "restart the replay after the last frame")
	fs.StringVar(&f.values.Edges, "edges", f.values.Edges, "edge map backend: canny or sobel")
	fs.StringVar(&f.values.Tracer, "tracer", f.values.Tracer, "contour tracer: opencv or native")
	fs.StringVar(&f.values.OutputDir, "output", f.values.OutputDir, "directory for rendered frames")
	fs.StringVar(&f.values.LogDir, "logs", f.values.LogDir, "directory for run logs")
	fs.IntVar(&f.values.ResizeWidth, "width", f.values.ResizeWidth, "resize frames to this width (0 keeps the camera size)")

	return f
}

// Apply copies the flags set on the command line into c.
func (f *Flags) Apply(c *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			c.Debug = f.values.Debug
		case "headless":
			c.Headless = f.values.Headless
		case "device":
			c.Device = f.values.Device
		case "replay":
			c.Replay = f.values.Replay
		case "loop":
			c.Loop = f.values.Loop
		case "edges":
			c.Edges = f.values.Edges
		case "tracer":
			c.Tracer = f.values.Tracer
		case "output":
			c.OutputDir = f.values.OutputDir
		case "logs":
			c.LogDir = f.values.LogDir
		case "width":
			c.ResizeWidth = f.values.ResizeWidth
		}
	})
}

// Resolve parses args and builds the validated configuration: defaults,
// then the -config file, then explicit flags, then the environment.
func Resolve(fs *flag.FlagSet, args []string, getenv func(string) string) (*Config, *Flags, error) {
	f := BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, f, err
	}
	if f.Version {
		return Default(), f, nil
	}

	cfg := Default()
	if f.ConfigPath != "" {
		loaded, err := Load(f.ConfigPath)
		if err != nil {
			return nil, f, err
		}
		cfg = loaded
	}

	f.Apply(cfg)
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg.ApplyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, f, err
	}
	return cfg, f, nil
}
