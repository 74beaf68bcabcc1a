// Package vlang is the interpreter's root facade: it wires the scanner,
// parser, evaluator, and importer together behind a small Config/Option
// surface (spec.md §2), grounded on analyzer/option.go's functional
// options and inspector/info.Config's plain-struct-with-DefaultConfig
// style.
package vlang

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viant/vlang/internal/eval"
	"github.com/viant/vlang/internal/importer"
	"github.com/viant/vlang/internal/langerr"
	"github.com/viant/vlang/internal/parser"
	"github.com/viant/vlang/internal/scanner"
	"github.com/viant/vlang/internal/value"
)

// Config controls an Interpreter's I/O and library resolution. The
// yaml tags let it double as the on-disk shape of an optional
// vlang.yaml (spec.md §2: library dir override, builtin aliases),
// decoded the same way linager decodes its fixture/expected-output
// files (analyzer/analyzer_test.go).
type Config struct {
	LibraryDir      string   `yaml:"libraryDir"`
	BuiltinRegistry []string `yaml:"builtins"`
	Stdout          io.Writer `yaml:"-"`
}

// DefaultConfig returns a Config writing to os.Stdout with no library directory.
func DefaultConfig() *Config {
	return &Config{Stdout: os.Stdout}
}

// LoadConfig decodes a vlang.yaml file at path into a Config seeded
// from DefaultConfig. A missing file is not an error: it simply yields
// DefaultConfig, since the on-disk file is optional.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg.Stdout = os.Stdout
	return cfg, nil
}

// AsOptions turns a loaded Config into Options a caller can layer
// additional WithStdout/etc overrides on top of.
func (c *Config) AsOptions() []Option {
	return []Option{WithLibraryDir(c.LibraryDir), WithBuiltinRegistry(c.BuiltinRegistry...)}
}

// Option mutates a Config.
type Option func(*Config)

// WithLibraryDir sets the root directory the Importer resolves
// non-builtin `import NAME` directives against.
func WithLibraryDir(dir string) Option {
	return func(c *Config) { c.LibraryDir = dir }
}

// WithStdout redirects print/println output.
func WithStdout(w io.Writer) Option {
	return func(c *Config) { c.Stdout = w }
}

// WithBuiltinRegistry marks additional import names as natively
// provided (beyond "math"/"thread"), so the Importer never attempts a
// filesystem lookup for them.
func WithBuiltinRegistry(names ...string) Option {
	return func(c *Config) { c.BuiltinRegistry = append(c.BuiltinRegistry, names...) }
}

// Interpreter runs source through scan -> parse -> eval against one
// persistent global Scope, so successive Run calls share bindings (used
// by the REPL).
type Interpreter struct {
	cfg      *Config
	evalr    *eval.Evaluator
	importer *importer.Importer
	global   *value.Scope
}

// New builds an Interpreter from DefaultConfig with opts applied.
func New(opts ...Option) *Interpreter {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	imp := importer.New(cfg.LibraryDir)
	imp.RegisterBuiltin(cfg.BuiltinRegistry...)
	return &Interpreter{
		cfg:      cfg,
		evalr:    eval.New(cfg.Stdout),
		importer: imp,
		global:   value.New(nil),
	}
}

// Global exposes the interpreter's persistent top-level scope.
func (in *Interpreter) Global() *value.Scope { return in.global }

// Run scans and parses src, then evaluates each top-level node in turn.
// A scanning or parsing error aborts before any evaluation runs (spec.md
// §7: scanner/parser errors are reported together, once). A runtime
// error unwinds only to the top-level loop: it is reported and
// evaluation continues with the next top-level node, never aborting the
// whole run (spec.md §7).
func (in *Interpreter) Run(src []byte) []error {
	toks, scanErrs := scanner.New(src).ScanTokens()
	if scanErrs.HasErrors() {
		return collectorErrors(scanErrs)
	}

	p := parser.New(toks)
	program, parseErrs := p.Parse()
	if parseErrs.HasErrors() {
		return collectorErrors(parseErrs)
	}

	if err := in.resolveImports(context.Background(), p.Imports(), map[string]bool{}); err != nil {
		return []error{err}
	}

	var runErrs []error
	for _, node := range program {
		if _, _, err := in.evalr.Eval(node, in.global); err != nil {
			runErrs = append(runErrs, err)
		}
	}
	return runErrs
}

// resolveImports satisfies every `import NAME` directive collected by
// the parser before the main program runs (spec.md §5): "math" and
// "thread" are bound as native Env values the evaluator's `env NAME
// {...}` form can already reach; any other name is fetched through the
// Importer, scanned/parsed/evaluated into a fresh scope of its own, and
// bound in the global scope as an Env value under that name, after
// recursively resolving its own import directives. seen guards against
// a library importing itself, directly or transitively.
func (in *Interpreter) resolveImports(ctx context.Context, names []string, seen map[string]bool) error {
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		if in.global.Has(name) {
			continue
		}

		switch name {
		case "math":
			in.global.DefineEnv("math", map[string]value.Value{
				"sin": value.NativeVal(value.NMathSin),
				"cos": value.NativeVal(value.NMathCos),
				"tan": value.NativeVal(value.NMathTan),
			})
		case "thread":
			in.global.DefineEnv("thread", map[string]value.Value{
				"spawn": value.NativeVal(value.NThreadSpawn),
			})
		default:
			data, err := in.importer.Resolve(ctx, name)
			if err != nil {
				return fmt.Errorf("import %q: %w", name, err)
			}
			if data == nil {
				continue
			}
			toks, scanErrs := scanner.New(data).ScanTokens()
			if scanErrs.HasErrors() {
				return fmt.Errorf("import %q: %w", name, scanErrs.Errors()[0])
			}
			libParser := parser.New(toks)
			program, parseErrs := libParser.Parse()
			if parseErrs.HasErrors() {
				return fmt.Errorf("import %q: %w", name, parseErrs.Errors()[0])
			}
			if err := in.resolveImports(ctx, libParser.Imports(), seen); err != nil {
				return err
			}
			libScope := value.New(nil)
			for _, node := range program {
				if _, _, err := in.evalr.Eval(node, libScope); err != nil {
					return fmt.Errorf("import %q: %w", name, err)
				}
			}
			in.global.Define(name, value.EnvVal(libScope))
		}
	}
	return nil
}

func collectorErrors(c *langerr.Collector) []error {
	out := make([]error, len(c.Errors()))
	for i, e := range c.Errors() {
		out[i] = e
	}
	return out
}
