package lox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run scans, parses, resolves, and interprets src, returning its
// stdout and whether the run reported any error (scan/parse/resolve or
// runtime).
func run(t *testing.T, src string) (stdout string, hadError bool) {
	t.Helper()
	reporter := NewErrorReporter(nopWriter{}, true)
	tokens := NewScanner([]byte(src), reporter).ScanTokens()
	stmts := NewParser(tokens, reporter).Parse()
	if reporter.HadError() {
		return "", true
	}

	resolver := NewResolver(reporter)
	resolver.Resolve(stmts)
	if reporter.HadError() {
		return "", true
	}

	var buf bytes.Buffer
	interp := NewInterpreter(resolver.Locals(), reporter, &buf)
	interp.Interpret(stmts)

	return buf.String(), reporter.HadError() || reporter.HadRuntimeError()
}

// Concrete end-to-end scenarios.

func TestEndToEnd_Arithmetic(t *testing.T) {
	out, hadError := run(t, `print 1 + 2;`)
	require.False(t, hadError)
	assert.Equal(t, "3\n", out)
}

func TestEndToEnd_LexicalScoping(t *testing.T) {
	src := `var a = "global";
	{
		fun show() { print a; }
		var a = "block";
		show();
	}`
	out, hadError := run(t, src)
	require.False(t, hadError)
	assert.Equal(t, "global\n", out)
}

func TestEndToEnd_ClosureCapture(t *testing.T) {
	src := `fun make() {
		var i = 0;
		fun inc() {
			i = i + 1;
			return i;
		}
		return inc;
	}
	var c = make();
	print c();
	print c();
	print c();`
	out, hadError := run(t, src)
	require.False(t, hadError)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestEndToEnd_SuperDispatch(t *testing.T) {
	src := `class A { f() { print "A"; } }
	class B < A { f() { super.f(); print "B"; } }
	B().f();`
	out, hadError := run(t, src)
	require.False(t, hadError)
	assert.Equal(t, "A\nB\n", out)
}

func TestEndToEnd_ClassInitAndMethods(t *testing.T) {
	src := `class Counter { init(n) { this.n = n; } get() { return this.n; } }
	var c = Counter(5);
	print c.get();`
	out, hadError := run(t, src)
	require.False(t, hadError)
	assert.Equal(t, "5\n", out)
}

func TestEndToEnd_FunctionsAsValues(t *testing.T) {
	src := `fun addPair(a, b) { return a + b; }
	fun identity(a) { return a; }
	print identity(addPair)(1, 2);`
	out, hadError := run(t, src)
	require.False(t, hadError)
	assert.Equal(t, "3\n", out)
}

// Negative scenarios.

func TestEndToEnd_SelfInitializationInBlockIsRejected(t *testing.T) {
	_, hadError := run(t, `{ var a = a; }`)
	assert.True(t, hadError)
}

func TestEndToEnd_TopLevelReturnIsRejected(t *testing.T) {
	_, hadError := run(t, `return 1;`)
	assert.True(t, hadError)
}

func TestEndToEnd_SelfInheritingClassIsRejected(t *testing.T) {
	_, hadError := run(t, `class Oops < Oops {}`)
	assert.True(t, hadError)
}

func TestEndToEnd_StringPlusNumberIsRuntimeError(t *testing.T) {
	_, hadError := run(t, `"a" + 1;`)
	assert.True(t, hadError)
}

func TestEndToEnd_CallingNonCallableIsRuntimeError(t *testing.T) {
	_, hadError := run(t, `var x; x();`)
	assert.True(t, hadError)
}

// TestPrintIdempotenceOfLiterals checks the universal property:
// print "<s>"; produces <s>\n for any string not containing a quote.
func TestPrintIdempotenceOfLiterals(t *testing.T) {
	cases := []string{"hello", "", "with spaces and 123", "!@#$%^&*()"}
	for _, s := range cases {
		out, hadError := run(t, `print "`+s+`";`)
		require.False(t, hadError)
		assert.Equal(t, s+"\n", out)
	}
}

func TestInterpreter_NumberFormatting(t *testing.T) {
	out, hadError := run(t, `print 3.0; print 0.5; print 1 / 2;`)
	require.False(t, hadError)
	assert.Equal(t, "3\n0.5\n0.5\n", out)
}

func TestInterpreter_Equality(t *testing.T) {
	out, hadError := run(t, `print nil == nil; print nil == false; print 0 == 0; print "a" == "a";`)
	require.False(t, hadError)
	assert.Equal(t, "true\nfalse\ntrue\ntrue\n", out)
}

func TestInterpreter_LogicalOperatorsReturnOperandValue(t *testing.T) {
	out, hadError := run(t, `print "hi" or 2; print nil and "unreached"; print false or "fallback";`)
	require.False(t, hadError)
	assert.Equal(t, "hi\nnil\nfallback\n", out)
}

func TestInterpreter_WhileLoop(t *testing.T) {
	src := `var i = 0;
	while (i < 3) {
		print i;
		i = i + 1;
	}`
	out, hadError := run(t, src)
	require.False(t, hadError)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpreter_ForLoop(t *testing.T) {
	out, hadError := run(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.False(t, hadError)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpreter_FieldsAreCreatedOnFirstAssignment(t *testing.T) {
	src := `class Box {}
	var b = Box();
	b.value = 42;
	print b.value;`
	out, hadError := run(t, src)
	require.False(t, hadError)
	assert.Equal(t, "42\n", out)
}

func TestInterpreter_UndefinedPropertyIsRuntimeError(t *testing.T) {
	_, hadError := run(t, `class Box {} print Box().missing;`)
	assert.True(t, hadError)
}

func TestInterpreter_ArityMismatchIsRuntimeError(t *testing.T) {
	_, hadError := run(t, `fun f(a, b) { return a + b; } f(1);`)
	assert.True(t, hadError)
}

func TestInterpreter_ClockIsCallableWithNoArgs(t *testing.T) {
	out, hadError := run(t, `print clock() >= 0;`)
	require.False(t, hadError)
	assert.Equal(t, "true\n", out)
}
