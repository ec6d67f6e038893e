package lox

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ErrorReporter collects scan/parse/resolve diagnostics and runtime
// errors for one interpreter run. It is instance state, not a process
// singleton, so a REPL can reset it between lines without
// disturbing a concurrently-running or previously-run interpreter.
type ErrorReporter struct {
	out              io.Writer
	hadError         bool
	hadRuntimeError  bool
	errColor         *color.Color
	suppressColoring bool
}

// NewErrorReporter builds a reporter that writes to out, colorizing
// diagnostics unless suppressColoring is set (the CLI sets it when out
// is not a terminal).
func NewErrorReporter(out io.Writer, suppressColoring bool) *ErrorReporter {
	c := color.New(color.FgRed)
	if suppressColoring {
		c.DisableColor()
	}
	return &ErrorReporter{out: out, errColor: c, suppressColoring: suppressColoring}
}

// Reset clears both flags, allowing a REPL to keep evaluating after an
// error on a previous line.
func (r *ErrorReporter) Reset() {
	r.hadError = false
	r.hadRuntimeError = false
}

func (r *ErrorReporter) HadError() bool        { return r.hadError }
func (r *ErrorReporter) HadRuntimeError() bool { return r.hadRuntimeError }

// ScanError reports a lexical error at the given line.
func (r *ErrorReporter) ScanError(line int, message string) {
	r.report(line, "", message)
}

// ParseError reports a syntax error located at a token.
func (r *ErrorReporter) ParseError(tok Token, message string) {
	where := "at end"
	if tok.Type != EOF {
		where = fmt.Sprintf("at '%s'", tok.Lexeme)
	}
	r.report(tok.Line, where, message)
}

// ResolveError reports a static resolution error located at a token.
func (r *ErrorReporter) ResolveError(tok Token, message string) {
	r.ParseError(tok, message)
}

func (r *ErrorReporter) report(line int, where, message string) {
	r.hadError = true
	prefix := fmt.Sprintf("[line %d] Error", line)
	if where != "" {
		prefix += " " + where
	}
	r.errColor.Fprintf(r.out, "%s: %s\n", prefix, message)
}

// RuntimeError is the error type that an interpreter run surfaces for
// type mismatches, arity mismatches, undefined names, and the other
// runtime-error cases. It is a normal Go
// error so it can be returned and type-switched, distinct from the
// returnSignal control-flow type (see interpreter.go).
type RuntimeError struct {
	Token   Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func newRuntimeError(tok Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// RuntimeErrorOccurred reports a runtime error and flags hadRuntimeError,
// printing the message followed by the offending line.
func (r *ErrorReporter) RuntimeErrorOccurred(err *RuntimeError) {
	r.hadRuntimeError = true
	r.errColor.Fprintf(r.out, "%s\n[line %d]\n", err.Message, err.Token.Line)
}
