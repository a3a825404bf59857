package im

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// fakeRunner stands in for npm and node. npm "installs" by writing a
// package.json under the prefix; node collapses whitespace.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []Command
	hasNode bool

	npmExitCode int
	npmStartErr error
	npmNoop     bool
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	switch cmd.Name {
	case "npm", "cmd":
		if f.npmStartErr != nil {
			return -1, f.npmStartErr
		}
		if cmd.Stderr != nil {
			io.WriteString(cmd.Stderr, "npm notice fake\n")
		}
		if f.npmExitCode != 0 || f.npmNoop {
			return f.npmExitCode, nil
		}
		prefix, pkg := parseInstallArgs(cmd.Args)
		dir := filepath.Join(prefix, "node_modules", pkg)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 1, nil
		}
		if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"`+pkg+`"}`), 0644); err != nil {
			return 1, nil
		}
		return 0, nil

	case "node":
		src, err := io.ReadAll(cmd.Stdin)
		if err != nil {
			return 1, nil
		}
		if strings.Contains(string(src), "THROW") {
			io.WriteString(cmd.Stderr, "Error: boom")
			return 1, nil
		}
		io.WriteString(cmd.Stdout, naiveCSSMinify(string(src)))
		return 0, nil
	}
	return -1, exec.ErrNotFound
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	if file == "node" && f.hasNode {
		return "/usr/bin/node", nil
	}
	return "", exec.ErrNotFound
}

func (f *fakeRunner) callsNamed(name string) []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Command
	for _, c := range f.calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func parseInstallArgs(args []string) (prefix, pkg string) {
	for i, a := range args {
		if strings.HasPrefix(a, "--prefix=") {
			prefix = strings.TrimPrefix(a, "--prefix=")
		}
		if a == "install" && i+1 < len(args) {
			pkg = args[i+1]
		}
	}
	return prefix, pkg
}

// newTestConfig returns a Config that logs nowhere and captures installer
// error output.
func newTestConfig(t *testing.T, backend string) (*Config, *strings.Builder) {
	t.Helper()
	stderr := &strings.Builder{}
	nop := zerolog.Nop()
	return &Config{
		Backend:       backend,
		NodePrefix:    t.TempDir(),
		MaxInputBytes: DefaultMaxInputBytes,
		InvalidUTF8:   InvalidUTF8Replace,
		Stderr:        stderr,
		Logger:        &nop,
	}, stderr
}

// createTestFile writes content to dir/relativePath, creating parents.
func createTestFile(t *testing.T, dir, relativePath, content string) string {
	t.Helper()

	fullPath := filepath.Join(dir, relativePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", filepath.Dir(fullPath), err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", fullPath, err)
	}
	return fullPath
}

// resetEnv resets environment variables to a known state
func resetEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{nodePrefixKey, backendKey, invalidUTF8Key, maxInputKey, debugKey} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// chunkedReader returns its chunks one Read at a time.
type chunkedReader struct {
	chunks []string
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	if n < len(r.chunks[0]) {
		r.chunks[0] = r.chunks[0][n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}
