package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveNoErrors(t *testing.T, src string) (stmts []Stmt, locals map[Expr]int) {
	t.Helper()
	reporter := NewErrorReporter(nopWriter{}, true)
	tokens := NewScanner([]byte(src), reporter).ScanTokens()
	stmts = NewParser(tokens, reporter).Parse()
	require.False(t, reporter.HadError(), "unexpected parse error")
	r := NewResolver(reporter)
	r.Resolve(stmts)
	require.False(t, reporter.HadError(), "unexpected resolve error for %q", src)
	return stmts, r.Locals()
}

// TestResolver_Totality checks that every variable expression either
// gets a depth or resolves to a global, exercised
// with a local declared one block out and a global.
func TestResolver_Totality(t *testing.T) {
	src := `var g = 1;
	{
		var a = 2;
		{
			print a;
			print g;
		}
	}`
	stmts, locals := resolveNoErrors(t, src)

	outerBlock := stmts[1].(*BlockStmt)
	innerBlock := outerBlock.Stmts[1].(*BlockStmt)
	printA := innerBlock.Stmts[0].(*PrintStmt).Expr.(*VariableExpr)
	printG := innerBlock.Stmts[1].(*PrintStmt).Expr.(*VariableExpr)

	dist, ok := locals[printA]
	require.True(t, ok, "reference to local 'a' must be in the side table")
	assert.Equal(t, 1, dist)

	_, ok = locals[printG]
	assert.False(t, ok, "reference to global 'g' must be absent from the side table")
}

func TestResolver_SelfInitializationIsRejected(t *testing.T) {
	reporter := NewErrorReporter(nopWriter{}, true)
	tokens := NewScanner([]byte("{ var a = a; }"), reporter).ScanTokens()
	stmts := NewParser(tokens, reporter).Parse()
	NewResolver(reporter).Resolve(stmts)
	assert.True(t, reporter.HadError())
}

func TestResolver_RedeclarationInSameScopeIsRejected(t *testing.T) {
	reporter := NewErrorReporter(nopWriter{}, true)
	tokens := NewScanner([]byte("{ var a = 1; var a = 2; }"), reporter).ScanTokens()
	stmts := NewParser(tokens, reporter).Parse()
	NewResolver(reporter).Resolve(stmts)
	assert.True(t, reporter.HadError())
}

func TestResolver_TopLevelReturnIsRejected(t *testing.T) {
	reporter := NewErrorReporter(nopWriter{}, true)
	tokens := NewScanner([]byte("return 1;"), reporter).ScanTokens()
	stmts := NewParser(tokens, reporter).Parse()
	NewResolver(reporter).Resolve(stmts)
	assert.True(t, reporter.HadError())
}

func TestResolver_ReturnValueFromInitializerIsRejected(t *testing.T) {
	reporter := NewErrorReporter(nopWriter{}, true)
	src := `class A { init() { return 1; } }`
	tokens := NewScanner([]byte(src), reporter).ScanTokens()
	stmts := NewParser(tokens, reporter).Parse()
	NewResolver(reporter).Resolve(stmts)
	assert.True(t, reporter.HadError())
}

func TestResolver_SelfInheritanceIsRejected(t *testing.T) {
	reporter := NewErrorReporter(nopWriter{}, true)
	tokens := NewScanner([]byte("class Oops < Oops {}"), reporter).ScanTokens()
	stmts := NewParser(tokens, reporter).Parse()
	NewResolver(reporter).Resolve(stmts)
	assert.True(t, reporter.HadError())
}

func TestResolver_ThisOutsideClassIsRejected(t *testing.T) {
	reporter := NewErrorReporter(nopWriter{}, true)
	tokens := NewScanner([]byte("print this;"), reporter).ScanTokens()
	stmts := NewParser(tokens, reporter).Parse()
	NewResolver(reporter).Resolve(stmts)
	assert.True(t, reporter.HadError())
}

func TestResolver_SuperWithoutSuperclassIsRejected(t *testing.T) {
	reporter := NewErrorReporter(nopWriter{}, true)
	src := `class A { f() { super.f(); } }`
	tokens := NewScanner([]byte(src), reporter).ScanTokens()
	stmts := NewParser(tokens, reporter).Parse()
	NewResolver(reporter).Resolve(stmts)
	assert.True(t, reporter.HadError())
}

// TestResolver_MethodSeesThisAtDepthOne pins down the scope layout
// executeClass and bind both rely on: inside a method with no
// superclass, "this" is exactly one enclosing scope away.
func TestResolver_MethodSeesThisAtDepthOne(t *testing.T) {
	src := `class A {
		f() { print this; }
	}`
	stmts, locals := resolveNoErrors(t, src)
	class := stmts[0].(*ClassStmt)
	body := class.Methods[0].Body
	thisExpr := body[0].(*PrintStmt).Expr.(*ThisExpr)
	dist, ok := locals[thisExpr]
	require.True(t, ok)
	assert.Equal(t, 1, dist)
}

// TestResolver_SuperDepthsLineUpWithEnvironmentLayout pins down the
// same invariant evaluateSuper depends on: "super" sits one scope
// further out than "this" when a class has a superclass.
func TestResolver_SuperDepthsLineUpWithEnvironmentLayout(t *testing.T) {
	src := `class A { f() {} }
	class B < A {
		f() { super.f(); }
	}`
	stmts, locals := resolveNoErrors(t, src)
	class := stmts[1].(*ClassStmt)
	body := class.Methods[0].Body
	superExpr := body[0].(*ExpressionStmt).Expr.(*CallExpr).Callee.(*SuperExpr)
	dist, ok := locals[superExpr]
	require.True(t, ok)
	assert.Equal(t, 2, dist)
}
