package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/multimethod/internal/typesystem"
)

const usageText = `mmd - inspect a multimethod type table

Usage:
  mmd linearize <types.yaml> <Type> [Abstract...]   print the resolution order of Type,
                                                    optionally merged with abstract candidates
  mmd ancestors <types.yaml> <Type>                 print the declared ancestor chain
  mmd conforms  <types.yaml> <Type> <Abstract>      check conformance
  mmd types     <types.yaml>                        list the defined types
`

var colorize = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func bold(s string) string {
	if !colorize {
		return s
	}
	return "\033[1m" + s + "\033[0m"
}

func dim(s string) string {
	if !colorize {
		return s
	}
	return "\033[2m" + s + "\033[0m"
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func loadTable(path string) *typesystem.Table {
	tb, err := typesystem.LoadTableFile(path)
	if err != nil {
		fatal("Error: %v", err)
	}
	return tb
}

func lookupType(tb *typesystem.Table, name string) *typesystem.Type {
	t, ok := tb.Lookup(name)
	if !ok {
		fatal("Error: type not found: %s", name)
	}
	return t
}

func printOrder(order []*typesystem.Type) {
	for i, t := range order {
		marker := ""
		if t.Abstract {
			marker = dim(" (abstract)")
		}
		fmt.Printf("%2d. %s%s\n", i, bold(t.String()), marker)
	}
}

func handleLinearize(args []string) {
	if len(args) < 2 {
		fatal("Usage: mmd linearize <types.yaml> <Type> [Abstract...]")
	}
	tb := loadTable(args[0])
	t := lookupType(tb, args[1])

	var candidates []*typesystem.Type
	for _, name := range args[2:] {
		candidates = append(candidates, lookupType(tb, name))
	}

	order, err := typesystem.Linearize(t, candidates)
	if err != nil {
		fatal("Error: %v", err)
	}
	printOrder(order)
}

func handleAncestors(args []string) {
	if len(args) != 2 {
		fatal("Usage: mmd ancestors <types.yaml> <Type>")
	}
	tb := loadTable(args[0])
	t := lookupType(tb, args[1])

	order, err := t.Ancestors()
	if err != nil {
		fatal("Error: %v", err)
	}
	printOrder(order)
}

func handleConforms(args []string) {
	if len(args) != 3 {
		fatal("Usage: mmd conforms <types.yaml> <Type> <Abstract>")
	}
	tb := loadTable(args[0])
	t := lookupType(tb, args[1])
	a := lookupType(tb, args[2])

	if t.ConformsTo(a) {
		fmt.Printf("%s conforms to %s\n", bold(t.String()), bold(a.String()))
		return
	}
	fmt.Printf("%s does not conform to %s\n", bold(t.String()), bold(a.String()))
	os.Exit(1)
}

func handleTypes(args []string) {
	if len(args) != 1 {
		fatal("Usage: mmd types <types.yaml>")
	}
	tb := loadTable(args[0])
	names := tb.Names()
	// Names() order is unspecified; keep the listing stable.
	sort.Strings(names)
	fmt.Println(strings.Join(names, "\n"))
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]
	switch cmd {
	case "linearize":
		handleLinearize(args)
	case "ancestors":
		handleAncestors(args)
	case "conforms":
		handleConforms(args)
	case "types":
		handleTypes(args)
	case "help", "-help", "--help":
		fmt.Print(usageText)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(1)
	}
}
