// Command decafsym runs the symbolic executor over a single function parsed
// from a textual IR file and reports any decaf_assert violations it finds.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aclements/go-z3/z3"

	"decafsym/irtext"
	"decafsym/symexec"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "decafsym:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("decafsym", flag.ContinueOnError)
	order := fs.String("order", "dfs", "path exploration order: dfs, bfs, or random")
	useYAML := fs.Bool("yaml", false, "render failures as YAML documents instead of plain text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: decafsym [-order dfs|bfs|random] [-yaml] <ir-file> <function-name>")
	}
	path, fnName := fs.Arg(0), fs.Arg(1)

	newWorklist, err := worklistFactory(*order)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	fn, err := irtext.Parse(string(src))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if fn.Name() != fnName {
		return fmt.Errorf("%s defines function %q, not %q", path, fn.Name(), fnName)
	}

	zctx := z3.NewContext(nil)
	sink := &symexec.PrintingFailureSink{Out: os.Stdout, YAML: *useYAML}
	if _, err := symexec.ExecuteSymbolic(zctx, fn, symexec.Options{
		NewWorklist: newWorklist,
		Sink:        sink,
	}); err != nil {
		return fmt.Errorf("executing %s: %w", fnName, err)
	}
	return nil
}

func worklistFactory(order string) (func() symexec.Worklist, error) {
	switch order {
	case "dfs":
		return func() symexec.Worklist { return symexec.NewDFSWorklist() }, nil
	case "bfs":
		return func() symexec.Worklist { return symexec.NewBFSWorklist() }, nil
	case "random":
		return func() symexec.Worklist { return symexec.NewRandomWorklist(newSeededRand()) }, nil
	default:
		return nil, fmt.Errorf("unknown -order %q: want dfs, bfs, or random", order)
	}
}
