package im

import (
	"context"
	"fmt"
	"io"
)

// Run resolves the minifier, drains in, minifies it and writes the result.
// Nothing is written unless every step succeeds.
func (c *Config) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	return c.process(ctx, out, func(buf *InputBuffer) error {
		_, err := buf.ReadFrom(in)
		return err
	})
}

// RunFiles is Run with the input taken from files and glob patterns,
// concatenated in argument order. Glob matches never include the output file.
func (c *Config) RunFiles(ctx context.Context, patterns []string, out io.Writer) error {
	paths, err := expandSources(patterns, c.isOutputPath)
	if err != nil {
		return err
	}
	return c.process(ctx, out, func(buf *InputBuffer) error {
		return c.readSources(ctx, paths, buf)
	})
}

func (c *Config) process(ctx context.Context, out io.Writer, fill func(*InputBuffer) error) error {
	if err := c.Validate(); err != nil {
		return err
	}

	// The capability is resolved before any input is consumed.
	m, err := c.Resolve(ctx)
	if err != nil {
		return err
	}

	buf := NewInputBuffer(c.MaxInputBytes)
	if err := fill(buf); err != nil {
		return err
	}
	c.log().Debug().Int64("bytes", buf.Len()).Str("backend", m.Name()).Msg("input read")

	minified, err := c.transform(ctx, m, buf.String())
	if err != nil {
		return err
	}
	return c.writeOutput(out, minified)
}

// MinifyString runs the configured minifier over src.
func (c *Config) MinifyString(ctx context.Context, src string) (string, error) {
	m, err := c.Resolve(ctx)
	if err != nil {
		return "", err
	}
	return c.transform(ctx, m, src)
}

func (c *Config) transform(ctx context.Context, m Minifier, src string) (result string, err error) {
	src, err = c.decodeInput(src)
	if err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			result, err = "", &TransformError{Backend: m.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	result, err = m.Minify(ctx, src)
	if err != nil {
		return "", &TransformError{Backend: m.Name(), Err: err}
	}
	return result, nil
}
