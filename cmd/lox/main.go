// Command lox is the Lox language driver: a REPL when invoked with no
// arguments, a script runner when given exactly one.
package main

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/loxlang/golox/internal/lox"
)

func main() {
	switch len(os.Args) {
	case 1:
		runPrompt()
	case 2:
		runFile(os.Args[1])
	default:
		fmt.Fprintln(os.Stderr, "usage: lox [script]")
		os.Exit(64)
	}
}

// runFile scans, parses, resolves, and interprets one source file,
// exiting with a distinct code for each error class: 64 if the file
// cannot be read, 65 for a scan/parse/resolve error, 70 for a runtime
// error, 0 otherwise.
func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(64)
	}

	reporter := lox.NewErrorReporter(os.Stderr, !isatty.IsTerminal(os.Stderr.Fd()))
	stmts, ok := parseAndResolve(source, reporter, lox.NewResolver(reporter))
	if ok {
		lox.NewInterpreter(stmts.locals, reporter, os.Stdout).Interpret(stmts.stmts)
	}

	if reporter.HadError() {
		os.Exit(65)
	}
	if reporter.HadRuntimeError() {
		os.Exit(70)
	}
}

// runPrompt reads one line at a time with readline-backed history and
// editing. Every line runs through the same Interpreter and Resolver,
// so declarations from earlier lines stay visible for the rest of the
// session.
func runPrompt() {
	rl, err := readline.New(prompt())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(70)
	}
	defer rl.Close()

	reporter := lox.NewErrorReporter(os.Stderr, !isatty.IsTerminal(os.Stderr.Fd()))
	resolver := lox.NewResolver(reporter)
	interp := lox.NewInterpreter(resolver.Locals(), reporter, os.Stdout)

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF (Ctrl-D) or readline.ErrInterrupt (Ctrl-C)
			return
		}
		if line == "" {
			continue
		}
		rl.SaveHistory(line)

		reporter.Reset()
		result, ok := parseAndResolve([]byte(line), reporter, resolver)
		if ok {
			interp.Interpret(result.stmts)
		}
	}
}

func prompt() string {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		return color.New(color.FgCyan).Sprint("> ")
	}
	return ""
}

type parsed struct {
	stmts  []lox.Stmt
	locals map[lox.Expr]int
}

// parseAndResolve runs the scan -> parse -> resolve stages shared by
// file and REPL runs. resolver is reused across REPL lines so its
// Locals() side table — and therefore the Interpreter built over it —
// keeps accumulating rather than forgetting earlier lines' bindings.
func parseAndResolve(source []byte, reporter *lox.ErrorReporter, resolver *lox.Resolver) (parsed, bool) {
	scanner := lox.NewScanner(source, reporter)
	tokens := scanner.ScanTokens()

	p := lox.NewParser(tokens, reporter)
	stmts := p.Parse()
	if reporter.HadError() {
		return parsed{}, false
	}

	resolver.Resolve(stmts)
	if reporter.HadError() {
		return parsed{}, false
	}

	return parsed{stmts: stmts, locals: resolver.Locals()}, true
}
