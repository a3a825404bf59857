package mincss

import (
	"context"
	"io"
	"os"

	im "github.com/sjc5/mincss/internal/mincss"
)

type Config = im.Config
type Minifier = im.Minifier
type BackendFactory = im.BackendFactory
type Runner = im.Runner
type Command = im.Command

type InstallError = im.InstallError
type TransformError = im.TransformError
type InputError = im.InputError

type Mincss struct {
	Config *im.Config
}

// Run minifies everything read from in and writes it to out (or to
// Config.OutFile, if set).
func (m Mincss) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	return m.Config.Run(ctx, in, out)
}

// RunFiles is like Run, but reads and concatenates files. Patterns may be
// doublestar globs, e.g. "styles/**/*.css".
func (m Mincss) RunFiles(ctx context.Context, patterns []string, out io.Writer) error {
	return m.Config.RunFiles(ctx, patterns, out)
}

// Watch rebuilds Config.OutFile from the given sources whenever one of them
// changes, until ctx is done.
func (m Mincss) Watch(ctx context.Context, patterns []string, out io.Writer) error {
	return m.Config.Watch(ctx, patterns, out)
}

// MinifyString minifies css in memory, without the size limit or any
// output file.
func (m Mincss) MinifyString(ctx context.Context, css string) (string, error) {
	return m.Config.MinifyString(ctx, css)
}

// New wraps config, or a Config read from the environment when config is
// nil. It fails if the environment holds an invalid setting.
func New(config *im.Config) (*Mincss, error) {
	if config == nil {
		c, err := im.ConfigFromEnv()
		if err != nil {
			return nil, err
		}
		config = c
	}
	if config.Logger == nil {
		var w io.Writer = os.Stderr
		if config.Stderr != nil {
			w = config.Stderr
		}
		config.Logger = im.NewLogger(w, im.GetIsDebug())
	}
	return &Mincss{
		Config: config,
	}, nil
}

const InstallFailedMsg = im.InstallFailedMsg
const DefaultBackend = im.DefaultBackend
const InvalidUTF8Replace = im.InvalidUTF8Replace
const InvalidUTF8Reject = im.InvalidUTF8Reject

var ConfigFromEnv = im.ConfigFromEnv
var RegisterBackend = im.RegisterBackend
var Backends = im.Backends
var ExitCode = im.ExitCode
var Diagnose = im.Diagnose
var ErrUnknownBackend = im.ErrUnknownBackend
var ErrInputTooLarge = im.ErrInputTooLarge
var ErrInvalidUTF8 = im.ErrInvalidUTF8
