package lox

// evaluate walks an expression tree and produces its runtime value
//. Every branch that can fail returns a *RuntimeError
// pointing at the token responsible, so the caller can report a
// precise source line.
func (in *Interpreter) evaluate(expr Expr) (Object, *RuntimeError) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil

	case *GroupingExpr:
		return in.evaluate(e.Inner)

	case *VariableExpr:
		return in.lookupVariable(e.Name, e)

	case *AssignExpr:
		value, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if dist, ok := in.locals[e]; ok {
			in.env.AssignAt(dist, e.Name.Lexeme, value)
		} else if err := in.globals.Assign(e.Name, value); err != nil {
			return nil, err
		}
		return value, nil

	case *UnaryExpr:
		right, err := in.evaluate(e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Op.Type {
		case BANG:
			return !IsTruthy(right), nil
		case MINUS:
			n, ok := right.(float64)
			if !ok {
				return nil, newRuntimeError(e.Op, "Operand must be a number.")
			}
			return -n, nil
		}
		panic("interpreter: unreachable unary operator")

	case *LogicalExpr:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Op.Type == OR {
			if IsTruthy(left) {
				return left, nil
			}
		} else if !IsTruthy(left) {
			return left, nil
		}
		return in.evaluate(e.Right)

	case *BinaryExpr:
		return in.evaluateBinary(e)

	case *CallExpr:
		return in.evaluateCall(e)

	case *GetExpr:
		obj, err := in.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*LoxInstance)
		if !ok {
			return nil, newRuntimeError(e.Name, "Only instances have properties.")
		}
		return instance.Get(e.Name)

	case *SetExpr:
		obj, err := in.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*LoxInstance)
		if !ok {
			return nil, newRuntimeError(e.Name, "Only instances have fields.")
		}
		value, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(e.Name, value)
		return value, nil

	case *ThisExpr:
		return in.lookupVariable(e.Keyword, e)

	case *SuperExpr:
		return in.evaluateSuper(e)

	default:
		panic("interpreter: unreachable expression variant")
	}
}

// evaluateBinary implements arithmetic, comparison, the `+` overload
// (string concatenation or numeric addition), and equality rules.
func (in *Interpreter) evaluateBinary(e *BinaryExpr) (Object, *RuntimeError) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case PLUS:
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		return nil, newRuntimeError(e.Op, "Operands must be two numbers or two strings.")

	case MINUS:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil

	case STAR:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil

	case SLASH:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l / r, nil

	case GREATER:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l > r, nil

	case GREATER_EQUAL:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l >= r, nil

	case LESS:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l < r, nil

	case LESS_EQUAL:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l <= r, nil

	case EQUAL_EQUAL:
		return IsEqual(left, right), nil

	case BANG_EQUAL:
		return !IsEqual(left, right), nil
	}

	panic("interpreter: unreachable binary operator")
}

func numberOperands(op Token, left, right Object) (float64, float64, *RuntimeError) {
	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		return 0, 0, newRuntimeError(op, "Operands must be numbers.")
	}
	return l, r, nil
}

// evaluateCall evaluates the callee and every argument left to right
// before the callability and arity checks run.
func (in *Interpreter) evaluateCall(e *CallExpr) (Object, *RuntimeError) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Object, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := in.evaluate(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, newRuntimeError(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return fn.Call(in, args)
}

// evaluateSuper looks up "super" at the distance the resolver recorded;
// the instance ("this") is always exactly one frame closer than that,
// by construction of executeClass's and bind's frame layout.
func (in *Interpreter) evaluateSuper(e *SuperExpr) (Object, *RuntimeError) {
	dist := in.locals[e]
	superclass := in.env.GetAt(dist, "super").(*LoxClass)
	instance := in.env.GetAt(dist-1, "this").(*LoxInstance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, newRuntimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return method.bind(instance), nil
}

// lookupVariable resolves a Variable or This reference: a recorded
// distance means a local read via GetAt, otherwise it falls back to a
// chain walk starting at globals.
func (in *Interpreter) lookupVariable(name Token, expr Expr) (Object, *RuntimeError) {
	if dist, ok := in.locals[expr]; ok {
		return in.env.GetAt(dist, name.Lexeme), nil
	}
	return in.globals.Get(name)
}
