package lox

// Resolver is the static pass that, for every Variable/Assign/This/
// Super reference, computes the number of enclosing lexical scopes
// between the use and its declaration. The recorded
// depths let the interpreter jump straight to the right environment
// frame instead of walking the chain linearly.
type Resolver struct {
	locals       map[Expr]int
	scopes       []map[string]bool
	currentFn    functionType
	currentClass classType
	reporter     *ErrorReporter
}

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnInitializer
	fnMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// NewResolver creates a resolver that reports static errors through
// reporter and accumulates its side table for later use by an
// Interpreter (NewInterpreter takes it directly).
func NewResolver(reporter *ErrorReporter) *Resolver {
	return &Resolver{
		locals:   make(map[Expr]int),
		reporter: reporter,
	}
}

// Locals returns the accumulated side table: Expr -> scope distance.
func (r *Resolver) Locals() map[Expr]int {
	return r.locals
}

// Resolve walks every statement in the program exactly once.
func (r *Resolver) Resolve(stmts []Stmt) {
	r.resolveStmts(stmts)
}

func (r *Resolver) resolveStmts(stmts []Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *ClassStmt:
		r.resolveClass(s)

	case *VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)

	case *ExpressionStmt:
		r.resolveExpr(s.Expr)

	case *IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *PrintStmt:
		r.resolveExpr(s.Expr)

	case *ReturnStmt:
		if r.currentFn == fnNone {
			r.reporter.ResolveError(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFn == fnInitializer {
				r.reporter.ResolveError(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *WhileStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)

	default:
		panic("resolver: unreachable statement variant")
	}
}

func (r *Resolver) resolveClass(s *ClassStmt) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.reporter.ResolveError(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		fnType := fnMethod
		if method.Name.Lexeme == "init" {
			fnType = fnInitializer
		}
		r.resolveFunction(method, fnType)
	}

	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) resolveFunction(fn *FunctionStmt, typ functionType) {
	enclosingFn := r.currentFn
	r.currentFn = typ

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFn = enclosingFn
}

func (r *Resolver) resolveExpr(expr Expr) {
	switch e := expr.(type) {
	case *VariableExpr:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.reporter.ResolveError(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)

	case *AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *UnaryExpr:
		r.resolveExpr(e.Right)

	case *CallExpr:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}

	case *GetExpr:
		r.resolveExpr(e.Object)

	case *SetExpr:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ThisExpr:
		if r.currentClass == classNone {
			r.reporter.ResolveError(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)

	case *SuperExpr:
		if r.currentClass == classNone {
			r.reporter.ResolveError(e.Keyword, "Can't use 'super' outside of a class.")
		} else if r.currentClass != classSubclass {
			r.reporter.ResolveError(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)

	case *GroupingExpr:
		r.resolveExpr(e.Inner)

	case *LiteralExpr:
		// nothing to resolve

	default:
		panic("resolver: unreachable expression variant")
	}
}

// resolveLocal walks the scope stack from innermost outward; on the
// first scope containing name, it records the distance in r.locals. No
// entry means the reference is global.
func (r *Resolver) resolveLocal(expr Expr, name Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare marks name as present in the innermost scope but not yet
// usable; a no-op at global scope.
func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.reporter.ResolveError(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

// define marks the innermost scope's most recent declaration as usable.
func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}
