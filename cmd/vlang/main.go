// Command vlang is the module runner (spec.md §6/§7): zero arguments
// starts a REPL; one positional argument runs that file; anything else
// is a usage error. Grounded on the original's bin/vmod.rs "take a path,
// run it, exit non-zero on failure" shape, and on
// inspector/coder/example/main.go's plain os.Stdin/os.Stdout driver
// style — no flag/cobra dependency is wired since linager never uses
// one for its own example binaries.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/viant/afs"

	"github.com/viant/vlang/internal/repl"
	"github.com/viant/vlang/internal/vlang"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := vlang.LoadConfig("vlang.yaml")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch len(args) {
	case 0:
		interp := vlang.New(append(cfg.AsOptions(), vlang.WithStdout(os.Stdout))...)
		session := repl.New(interp, os.Stdin, os.Stdout)
		if err := session.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case 1:
		return runFile(cfg, args[0])
	default:
		fmt.Fprintln(os.Stderr, "usage: vlang [path]")
		return 2
	}
}

func runFile(cfg *vlang.Config, path string) int {
	fs := afs.New()
	data, err := fs.DownloadWithURL(context.Background(), path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	interp := vlang.New(append(cfg.AsOptions(), vlang.WithStdout(os.Stdout))...)
	if errs := interp.Run(data); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return 1
	}
	return 0
}
