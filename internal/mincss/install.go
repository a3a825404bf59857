package im

import (
	"context"
	"io"
	"runtime"
	"time"
)

var goos = runtime.GOOS

// installCommand builds the package manager invocation. Windows needs the
// command shell to find npm.cmd.
func installCommand(goos, prefix, pkg string) Command {
	args := []string{"--prefix=" + prefix, "install", pkg}
	if goos == "windows" {
		return Command{Name: "cmd", Args: append([]string{"/C", "npm"}, args...)}
	}
	return Command{Name: "npm", Args: args}
}

func (c *Config) install(ctx context.Context, prefix, pkg string) error {
	cmd := installCommand(goos, prefix, pkg)
	cmd.Stdout = io.Discard
	cmd.Stderr = c.stderr()

	c.log().Debug().Str("package", pkg).Str("prefix", prefix).Msg("installing")
	a := time.Now()
	code, err := c.runner().Run(ctx, cmd)
	b := time.Now()
	c.log().Debug().Dur("took", b.Sub(a)).Int("exit_code", code).Msg("package manager finished")

	if err != nil {
		return &InstallError{Package: pkg, ExitCode: 1, Err: err}
	}
	if code != 0 {
		return &InstallError{Package: pkg, ExitCode: code}
	}
	return nil
}
