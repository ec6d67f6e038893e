package lox

import (
	"fmt"
	"io"
	"time"
)

// Interpreter walks a resolved statement list and executes it against a
// chain of Environment frames. It owns the one global
// frame for the lifetime of a REPL session or a single script run.
type Interpreter struct {
	globals  *Environment
	env      *Environment
	locals   map[Expr]int
	reporter *ErrorReporter
	stdout   io.Writer
}

// NewInterpreter builds an Interpreter around the side table a Resolver
// produced for this program and the shared error reporter. locals may
// be reused across REPL lines accumulated into the same map.
func NewInterpreter(locals map[Expr]int, reporter *ErrorReporter, stdout io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	in := &Interpreter{
		globals:  globals,
		env:      globals,
		locals:   locals,
		reporter: reporter,
		stdout:   stdout,
	}
	in.defineGlobals()
	return in
}

// defineGlobals registers every native function as an ordinary global
// binding, the way other_examples/archevan-glox wires its builtins,
// rather than special-casing a callee's name at the call site.
func (in *Interpreter) defineGlobals() {
	in.globals.Define("clock", &NativeFunction{
		name:  "clock",
		arity: 0,
		fn: func(in *Interpreter, args []Object) (Object, *RuntimeError) {
			return float64(time.Now().UnixNano()) / float64(time.Second), nil
		},
	})
}

// Interpret runs stmts to completion or until a runtime error occurs.
// A runtime error is reported and interpretation stops; a parse/resolve
// error is never passed in here (callers check HadError first).
func (in *Interpreter) Interpret(stmts []Stmt) {
	for _, stmt := range stmts {
		if err := in.execute(stmt); err != nil {
			if rerr, ok := err.(*RuntimeError); ok {
				in.reporter.RuntimeErrorOccurred(rerr)
				return
			}
			// A returnSignal escaping every enclosing call is a resolver
			// bug: the resolver rejects top-level "return" before this
			// point is ever reached.
			panic(err)
		}
	}
}

// returnSignal unwinds a Lox `return` out of the statement-execution
// recursion as a typed Go error, distinct from *RuntimeError, and is
// type-switched back out at the function-call boundary (LoxFunction.Call)
// rather than treated as a genuine failure.
type returnSignal struct {
	value Object
}

func (r *returnSignal) Error() string { return "return outside of function" }

// execute runs one statement in the current environment. Its error
// result is either nil, a *RuntimeError, or a *returnSignal unwinding
// toward the nearest LoxFunction.Call.
func (in *Interpreter) execute(stmt Stmt) error {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		_, err := in.evaluate(s.Expr)
		return errOf(err)

	case *PrintStmt:
		v, err := in.evaluate(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.stdout, Stringify(v))
		return nil

	case *VarStmt:
		var value Object
		if s.Initializer != nil {
			v, err := in.evaluate(s.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		in.env.Define(s.Name.Lexeme, value)
		return nil

	case *BlockStmt:
		return in.executeBlock(s.Stmts, NewEnvironment(in.env))

	case *IfStmt:
		cond, err := in.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return in.execute(s.Then)
		} else if s.Else != nil {
			return in.execute(s.Else)
		}
		return nil

	case *WhileStmt:
		for {
			cond, err := in.evaluate(s.Cond)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := in.execute(s.Body); err != nil {
				return err
			}
		}

	case *FunctionStmt:
		fn := &LoxFunction{decl: s, closure: in.env, isInitializer: false}
		in.env.Define(s.Name.Lexeme, fn)
		return nil

	case *ReturnStmt:
		var value Object
		if s.Value != nil {
			v, err := in.evaluate(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{value: value}

	case *ClassStmt:
		return in.executeClass(s)

	default:
		panic("interpreter: unreachable statement variant")
	}
}

// executeClass resolves and typechecks
// an optional superclass, predeclare the class name (so methods that
// reference it recursively at call time resolve fine, the same "declare
// before body" trick VarStmt uses for its own initializer guard), build
// the method table in a frame carrying "super" if there is one, and
// finally bind the constructed class into the frame where it was
// predeclared.
func (in *Interpreter) executeClass(s *ClassStmt) error {
	var superclass *LoxClass
	if s.Superclass != nil {
		v, err := in.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*LoxClass)
		if !ok {
			return newRuntimeError(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	in.env.Define(s.Name.Lexeme, nil)

	outer := in.env
	if s.Superclass != nil {
		in.env = NewEnvironment(in.env)
		in.env.Define("super", superclass)
	}

	methods := make(map[string]*LoxFunction, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &LoxFunction{
			decl:          m,
			closure:       in.env,
			isInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &LoxClass{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}

	if s.Superclass != nil {
		in.env = outer
	}

	return errOf(in.env.Assign(s.Name, class))
}

// executeBlock runs stmts in env, restoring the interpreter's previous
// environment on every exit path: normal completion, a runtime error,
// or a return unwinding through it.
func (in *Interpreter) executeBlock(stmts []Stmt, env *Environment) error {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// errOf converts a possibly-nil *RuntimeError into the error interface
// without tripping the typed-nil-in-interface trap.
func errOf(e *RuntimeError) error {
	if e == nil {
		return nil
	}
	return e
}
