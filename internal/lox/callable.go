package lox

import "fmt"

// Callable is any Object that can appear as the callee of a CallExpr:
// a native function, a user function/closure, or a class.
type Callable interface {
	Call(in *Interpreter, args []Object) (Object, *RuntimeError)
	Arity() int
}

// NativeFunction wraps a Go function as a Lox-callable built-in. The
// only one defined here is clock/0, registered as an ordinary global
// binding rather than special-cased by name at the call site — see
// Interpreter.defineGlobals.
type NativeFunction struct {
	name  string
	arity int
	fn    func(in *Interpreter, args []Object) (Object, *RuntimeError)
}

func (f *NativeFunction) Call(in *Interpreter, args []Object) (Object, *RuntimeError) {
	return f.fn(in, args)
}

func (f *NativeFunction) Arity() int { return f.arity }

func (f *NativeFunction) String() string { return fmt.Sprintf("<native fn %s>", f.name) }

// LoxFunction is a user-defined function or method value: a
// FunctionStmt declaration paired with the environment frame it closed
// over.
type LoxFunction struct {
	decl          *FunctionStmt
	closure       *Environment
	isInitializer bool
}

func (f *LoxFunction) Arity() int { return len(f.decl.Params) }

func (f *LoxFunction) String() string {
	if f.decl.Name.Lexeme == "" {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme)
}

// Call creates a new frame enclosing the closure, binds parameters to
// args, and runs the body as a block in that frame. A returnSignal unwound from the body supplies the
// result; falling off the end yields nil (or the bound `this` for an
// initializer).
func (f *LoxFunction) Call(in *Interpreter, args []Object) (Object, *RuntimeError) {
	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := in.executeBlock(f.decl.Body, env)
	switch sig := err.(type) {
	case nil:
		if f.isInitializer {
			return f.closure.GetAt(0, "this"), nil
		}
		return nil, nil
	case *returnSignal:
		if f.isInitializer {
			return f.closure.GetAt(0, "this"), nil
		}
		return sig.value, nil
	case *RuntimeError:
		return nil, sig
	default:
		panic(err)
	}
}

// bind returns a new function value sharing this one's declaration and
// isInitializer flag, but closed over a fresh frame that wraps this
// one's closure and defines "this" -> instance. This is what makes `this` resolvable at depth 1 inside a
// method body, per the resolver's scope layout for class bodies.
func (f *LoxFunction) bind(instance *LoxInstance) *LoxFunction {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return &LoxFunction{decl: f.decl, closure: env, isInitializer: f.isInitializer}
}

// LoxClass is a runtime class value: a name, an optional superclass,
// and a method table. Classes are themselves
// Callable; calling one constructs an instance.
type LoxClass struct {
	Name       string
	Superclass *LoxClass
	Methods    map[string]*LoxFunction
}

func (c *LoxClass) String() string { return c.Name }

// FindMethod looks up name in this class's own method table, then its
// superclass chain.
func (c *LoxClass) FindMethod(name string) *LoxFunction {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

func (c *LoxClass) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs an instance and, if the class (or an ancestor) has an
// init method, binds and calls it before returning the instance
//.
func (c *LoxClass) Call(in *Interpreter, args []Object) (Object, *RuntimeError) {
	instance := &LoxInstance{class: c, fields: make(map[string]Object)}
	if init := c.FindMethod("init"); init != nil {
		if _, rerr := init.bind(instance).Call(in, args); rerr != nil {
			return nil, rerr
		}
	}
	return instance, nil
}

// LoxInstance holds a reference to its class and a mutable field table
//. Fields are created on first assignment;
// unknown field reads fall back to the class's method table.
type LoxInstance struct {
	class  *LoxClass
	fields map[string]Object
}

func (i *LoxInstance) String() string { return i.class.Name + " instance" }

// Get looks up own fields first, then a bound method from the class
// chain; a miss on both is a runtime error.
func (i *LoxInstance) Get(name Token) (Object, *RuntimeError) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}
	if method := i.class.FindMethod(name.Lexeme); method != nil {
		return method.bind(i), nil
	}
	return nil, newRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

// Set is an unconditional write, creating the field if absent.
func (i *LoxInstance) Set(name Token, value Object) {
	i.fields[name.Lexeme] = value
}
