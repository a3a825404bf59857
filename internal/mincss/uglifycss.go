package im

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	uglifyCSSPackage = "uglifycss"
	nodeBinary       = "node"
)

// Reads the whole of stdin, then hands it to processString of the package
// named by the first argument, resolved through NODE_PATH.
const uglifyCSSScript = `const chunks = [];
process.stdin.setEncoding('utf-8');
process.stdin.on('data', (d) => chunks.push(d));
process.stdin.on('end', () => {
	const out = require(process.argv[1]).processString(chunks.join(''));
	process.stdout.write(out);
});`

type uglifyCSS struct {
	c      *Config
	prefix string
	pkg    string
}

func newUglifyCSS(c *Config) (Minifier, error) {
	prefix, err := c.getCleanNodePrefix()
	if err != nil {
		return nil, err
	}
	return &uglifyCSS{c: c, prefix: prefix, pkg: c.packageName()}, nil
}

func (u *uglifyCSS) Name() string { return "uglifycss" }

func (u *uglifyCSS) modulesDir() string {
	return filepath.Join(u.prefix, "node_modules")
}

func (u *uglifyCSS) probe(context.Context) error {
	if _, err := u.c.runner().LookPath(nodeBinary); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", nodeBinary, err)
	}
	manifest := filepath.Join(u.modulesDir(), u.pkg, "package.json")
	if _, err := os.Stat(manifest); err != nil {
		return fmt.Errorf("%s is not installed under %s: %w", u.pkg, u.prefix, err)
	}
	return nil
}

func (u *uglifyCSS) install(ctx context.Context) error {
	return u.c.install(ctx, u.prefix, u.pkg)
}

func (u *uglifyCSS) Minify(ctx context.Context, src string) (string, error) {
	var stdout, stderr bytes.Buffer
	code, err := u.c.runner().Run(ctx, Command{
		Name:   nodeBinary,
		Args:   []string{"-e", uglifyCSSScript, u.pkg},
		Env:    append(os.Environ(), "NODE_PATH="+u.modulesDir()),
		Stdin:  strings.NewReader(src),
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		return "", fmt.Errorf("error running %s: %w", nodeBinary, err)
	}
	if code != 0 {
		return "", fmt.Errorf("%s exited with code %d: %s", nodeBinary, code, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
