// Package config turns command-line arguments into an immutable RunConfig.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ByLCY/drawbench/scene"
)

// RunConfig is the parsed command line. It is not modified after Parse.
type RunConfig struct {
	Dir     string
	Loop    int
	Scale   int
	Steps   []scene.Step
	Save    bool
	Profile string
	Scene   string
	Output  string
	Debug   string
	Verbose bool
}

// UsageError reports a fatal configuration problem. Message is the one-line
// diagnostic shown to the user.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

// ErrHelp is returned when -h or --help was requested.
var ErrHelp = flag.ErrHelp

func usageErrorf(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// Parse reads args (without the program name). Unknown flags, malformed
// integers, a missing --dir and a --dir that is not an existing directory
// are reported as *UsageError.
func Parse(args []string) (*RunConfig, error) {
	cfg := &RunConfig{Loop: 1, Scale: 1}
	selected := map[scene.Step]bool{}

	fs, valueErr := newFlagSet(cfg, selected)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}
		if *valueErr != nil {
			return nil, *valueErr
		}
		return nil, translateFlagError(err)
	}
	if rest := fs.Args(); len(rest) > 0 {
		return nil, usageErrorf("Invalid argument: %s", rest[0])
	}

	if cfg.Profile != "" && cfg.Scene != "" {
		return nil, usageErrorf("--profile and --scene cannot be combined")
	}
	if cfg.Dir == "" {
		return nil, usageErrorf("Set working directory with --dir <path>")
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil || !info.IsDir() {
		return nil, usageErrorf("No such directory: %s", cfg.Dir)
	}

	// no restriction flag means draw everything
	for _, step := range scene.AllSteps {
		if len(selected) == 0 || selected[step] {
			cfg.Steps = append(cfg.Steps, step)
		}
	}
	return cfg, nil
}

// Usage writes the flag summary to w.
func Usage(w io.Writer) {
	fs, _ := newFlagSet(&RunConfig{}, map[scene.Step]bool{})
	fs.SetOutput(w)
	fmt.Fprintln(w, "Usage: drawbench --dir <path> [flags]")
	fs.PrintDefaults()
}

// newFlagSet also returns where integer flags leave their diagnostic; the
// flag package flattens errors from Set into plain strings.
func newFlagSet(cfg *RunConfig, selected map[scene.Step]bool) (*flag.FlagSet, *error) {
	var valueErr error
	fs := flag.NewFlagSet("drawbench", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.StringVar(&cfg.Dir, "dir", "", "working directory with input assets and the output file")
	fs.Func("loop", "number of render cycles (default 1)", intAtLeast(0, &cfg.Loop, &valueErr, "Set loop count with --loop <number>"))
	fs.Func("scale", "integer magnification of canvas and drawing (default 1)", intAtLeast(1, &cfg.Scale, &valueErr, "Set scale with --scale <number>"))
	for _, step := range scene.AllSteps {
		fs.BoolFunc(step.String(), "draw only the "+step.String()+" step (combinable)", func(string) error {
			selected[step] = true
			return nil
		})
	}
	fs.BoolVar(&cfg.Save, "save", false, "write the rendered surface as PNG")
	fs.StringVar(&cfg.Profile, "profile", "", "built-in scene profile: "+strings.Join(scene.BuiltinNames(), ", ")+" (default "+scene.DefaultProfile+")")
	fs.StringVar(&cfg.Scene, "scene", "", "custom scene description file")
	fs.StringVar(&cfg.Output, "output", "", "output file name inside --dir (default from the scene)")
	fs.StringVar(&cfg.Debug, "debug", "", "write the resolved run plan as JSON to this path")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "log progress to stderr")
	return fs, &valueErr
}

func intAtLeast(minimum int, dst *int, errp *error, msg string) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < minimum {
			*errp = &UsageError{Message: msg}
			return *errp
		}
		*dst = n
		return nil
	}
}

func translateFlagError(err error) error {
	msg := err.Error()
	if name, ok := strings.CutPrefix(msg, "flag provided but not defined: "); ok {
		return usageErrorf("Invalid argument: --%s", strings.TrimLeft(name, "-"))
	}
	if name, ok := strings.CutPrefix(msg, "flag needs an argument: "); ok {
		return usageErrorf("Missing value for --%s", strings.TrimLeft(name, "-"))
	}
	return usageErrorf("Invalid argument: %s", msg)
}
