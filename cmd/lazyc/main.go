// cmd/lazyc/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sghaida/lazyscope/di"
	"github.com/sghaida/lazyscope/loader"
)

// This binary resolves a dependency graph described in YAML.
//
// Key behaviors:
// - Loads optional dotenv and YAML constant files into a root container
// - Binds the graph on a child of that root, so graph keys may shadow loaded constants
// - Drains eager providers, then resolves the requested keys (all keys by default)
// - Prints "key = value" lines to stdout; errors, including dependency cycles, go to stderr

// options holds the parsed command line.
type options struct {
	graphPath     string
	constantsPath string
	envPath       string
	get           []string
	verbose       bool
}

// run executes the command and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stdout, stderr io.Writer) int {
	opts, code := parseFlags(args, stderr)
	if code != 0 {
		return code
	}

	log := newLogger(opts.verbose, stderr)
	defer func() { _ = log.Sync() }()

	scope, err := buildScope(opts, log)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "lazyc: %v\n", err)
		return 1
	}

	keys := opts.get
	if len(keys) == 0 {
		keys = scope.Deps().Keys()
	}

	failed := false
	for _, key := range keys {
		val, ok, err := scope.Lookup(key)
		switch {
		case err != nil:
			_, _ = fmt.Fprintf(stderr, "lazyc: %s: %v\n", key, err)
			failed = true
		case !ok:
			_, _ = fmt.Fprintf(stderr, "lazyc: %s: not bound\n", key)
			failed = true
		default:
			_, _ = fmt.Fprintf(stdout, "%s = %v\n", key, val)
		}
	}

	if failed {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, int) {
	flags := flag.NewFlagSet("lazyc", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var opts options
	var get string
	flags.StringVar(&opts.graphPath, "graph", "", "path to graph.yaml")
	flags.StringVar(&opts.constantsPath, "constants", "", "optional YAML file of constants")
	flags.StringVar(&opts.envPath, "env", "", "optional dotenv file of constants")
	flags.StringVar(&get, "get", "", "comma-separated keys to resolve (default: all)")
	flags.BoolVar(&opts.verbose, "v", false, "log container events to stderr")

	if err := flags.Parse(args); err != nil {
		return options{}, 2
	}

	if strings.TrimSpace(opts.graphPath) == "" {
		_, _ = fmt.Fprintln(stderr, "usage: lazyc -graph <graph.yaml> [-constants <file.yaml>] [-env <.env>] [-get a,b] [-v]")
		return options{}, 2
	}

	for _, key := range strings.Split(get, ",") {
		if key = strings.TrimSpace(key); key != "" {
			opts.get = append(opts.get, key)
		}
	}
	return opts, 0
}

// buildScope loads constants into a root container, binds the graph on a
// child of it and drains eager providers.
func buildScope(opts options, log *zap.Logger) (*di.Container, error) {
	root := di.New(di.WithLogger(log))

	// YAML constants override dotenv values of the same name.
	consts := di.NewMapRegistry()
	if opts.envPath != "" {
		reg, err := loader.Dotenv(opts.envPath)
		if err != nil {
			return nil, err
		}
		consts.Merge(reg)
	}
	if opts.constantsPath != "" {
		reg, err := loader.YAMLFile(opts.constantsPath)
		if err != nil {
			return nil, err
		}
		consts.Merge(reg)
	}
	if err := root.Import(consts); err != nil {
		return nil, err
	}

	g, err := loadGraph(opts.graphPath)
	if err != nil {
		return nil, err
	}

	scope := root.Extend()
	if err := g.Apply(scope); err != nil {
		return nil, err
	}
	scope.Drain()

	log.Debug("lazyc: graph loaded",
		zap.String("graph", opts.graphPath),
		zap.Int("constants", len(g.Constants)),
		zap.Int("providers", len(g.Providers)),
	)
	return scope, nil
}

// newLogger returns a development console logger on w when verbose, and a
// no-op logger otherwise.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel))
}
