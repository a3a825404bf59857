package im

import (
	"context"
	"sort"
	"strings"

	"github.com/dchest/cssmin"
	"github.com/sjc5/kit/pkg/typed"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
)

const cssMediaType = "text/css"

// Minifier is the single capability the filter depends on.
type Minifier interface {
	Name() string
	Minify(ctx context.Context, src string) (string, error)
}

// A Minifier that also implements prober may be missing from the host.
type prober interface {
	probe(ctx context.Context) error
}

// A prober that also implements installer can be acquired on demand.
type installer interface {
	install(ctx context.Context) error
}

type BackendFactory func(c *Config) (Minifier, error)

var backends = typed.SyncMap[string, BackendFactory]{}

func init() {
	RegisterBackend("tdewolff", func(*Config) (Minifier, error) { return newTdewolffMinifier(), nil })
	RegisterBackend("cssmin", func(*Config) (Minifier, error) { return cssminMinifier{}, nil })
	RegisterBackend("whitespace", func(*Config) (Minifier, error) { return whitespaceMinifier{}, nil })
	RegisterBackend("uglifycss", newUglifyCSS)
}

// RegisterBackend makes a minifier selectable by name. Registering an
// existing name replaces it.
func RegisterBackend(name string, factory BackendFactory) {
	backends.Store(strings.ToLower(name), factory)
}

func lookupBackend(name string) (BackendFactory, bool) {
	return backends.Load(strings.ToLower(name))
}

func Backends() []string {
	var names []string
	backends.Range(func(name string, _ BackendFactory) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

type tdewolffMinifier struct {
	m *minify.M
}

func newTdewolffMinifier() tdewolffMinifier {
	m := minify.New()
	m.AddFunc(cssMediaType, css.Minify)
	return tdewolffMinifier{m: m}
}

func (tdewolffMinifier) Name() string { return "tdewolff" }

func (t tdewolffMinifier) Minify(_ context.Context, src string) (string, error) {
	return t.m.String(cssMediaType, src)
}

type cssminMinifier struct{}

func (cssminMinifier) Name() string { return "cssmin" }

func (cssminMinifier) Minify(_ context.Context, src string) (string, error) {
	return string(cssmin.Minify([]byte(src))), nil
}

// whitespaceMinifier only collapses runs of whitespace. It never fails,
// but it also touches whitespace inside strings.
type whitespaceMinifier struct{}

func (whitespaceMinifier) Name() string { return "whitespace" }

func (whitespaceMinifier) Minify(_ context.Context, src string) (string, error) {
	return naiveCSSMinify(src), nil
}

func naiveCSSMinify(content string) string {
	return strings.Join(strings.Fields(content), " ")
}
