package im

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sjc5/kit/pkg/executil"
)

const (
	DefaultBackend       = "tdewolff"
	DefaultMaxInputBytes = 64 << 20

	InvalidUTF8Replace = "replace"
	InvalidUTF8Reject  = "reject"
)

type Config struct {
	// Backend names the minifier to use (see Backends). Defaults to "tdewolff".
	Backend string

	/*
		NodePrefix is the directory handed to the package manager as
		--prefix when an npm-backed minifier has to be installed, and the
		directory whose node_modules is searched when probing for it. If
		empty, the directory containing the running executable is used.
	*/
	NodePrefix string

	// Only relevant for npm-backed minifiers. Defaults to "uglifycss".
	PackageName string

	// Input larger than this many bytes is rejected. Zero means unlimited.
	MaxInputBytes int64

	// Either "replace" (default) or "reject".
	InvalidUTF8 string

	// If set, output goes to this file instead of the output stream.
	OutFile string

	// Rename OutFile to include a short content hash, e.g. "site_0a1b2c3d4e5f.css".
	// The final path is written to the output stream.
	HashOutFile bool

	// Receives installer error output and nothing else. Defaults to os.Stderr.
	Stderr io.Writer

	Logger *zerolog.Logger

	// Runner executes child processes. Defaults to the os/exec runner.
	Runner Runner

	resolved resolved
}

// ConfigFromEnv returns a Config with defaults overlaid by the environment.
// The Config is always usable; a non-nil error names an environment value
// that was malformed and therefore ignored.
func ConfigFromEnv() (*Config, error) {
	c := &Config{
		Backend:       DefaultBackend,
		PackageName:   uglifyCSSPackage,
		MaxInputBytes: DefaultMaxInputBytes,
		InvalidUTF8:   InvalidUTF8Replace,
	}
	if v := getBackend(); v != "" {
		c.Backend = v
	}
	c.NodePrefix = getNodePrefix()
	if v := getInvalidUTF8Policy(); v != "" {
		c.InvalidUTF8 = v
	}
	v, ok, err := getMaxInputBytes()
	if err != nil {
		return c, err
	}
	if ok {
		c.MaxInputBytes = v
	}
	return c, nil
}

func (c *Config) Validate() error {
	if _, ok := lookupBackend(c.backendName()); !ok {
		return fmt.Errorf("%w: %q (known: %s)", ErrUnknownBackend, c.backendName(), strings.Join(Backends(), ", "))
	}
	switch c.InvalidUTF8 {
	case "", InvalidUTF8Replace, InvalidUTF8Reject:
	default:
		return fmt.Errorf("invalid UTF-8 policy %q: must be %q or %q", c.InvalidUTF8, InvalidUTF8Replace, InvalidUTF8Reject)
	}
	if c.MaxInputBytes < 0 {
		return fmt.Errorf("max input bytes must not be negative, got %d", c.MaxInputBytes)
	}
	if c.HashOutFile && c.OutFile == "" {
		return errors.New("hashing the output file name requires an output file")
	}
	return nil
}

func (c *Config) backendName() string {
	if c.Backend == "" {
		return DefaultBackend
	}
	return strings.ToLower(strings.TrimSpace(c.Backend))
}

func (c *Config) packageName() string {
	if c.PackageName == "" {
		return uglifyCSSPackage
	}
	return c.PackageName
}

func (c *Config) getCleanNodePrefix() (string, error) {
	if c.NodePrefix != "" {
		return filepath.Clean(c.NodePrefix), nil
	}
	execDir, err := executil.GetExecutableDir()
	if err != nil {
		return "", fmt.Errorf("error getting executable dir: %w", err)
	}
	return execDir, nil
}

func (c *Config) stderr() io.Writer {
	if c.Stderr == nil {
		return os.Stderr
	}
	return c.Stderr
}

func (c *Config) log() *zerolog.Logger {
	if c.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return c.Logger
}

func (c *Config) runner() Runner {
	if c.Runner == nil {
		return execRunner{}
	}
	return c.Runner
}
