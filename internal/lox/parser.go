package lox

// Parser is a recursive-descent parser with one-token lookahead
//. On a syntax error it reports through the shared
// reporter and synchronizes to the next statement boundary instead of
// aborting, so a single run can surface every syntax error in a file.
type Parser struct {
	tokens   []Token
	current  int
	reporter *ErrorReporter
}

// NewParser creates a parser over tokens, reporting syntax errors
// through reporter.
func NewParser(tokens []Token, reporter *ErrorReporter) *Parser {
	return &Parser{tokens: tokens, reporter: reporter}
}

// parseError is a private control-flow signal used to unwind out of a
// partially-parsed declaration/statement back to synchronize(); it is
// never returned to callers outside this file.
type parseError struct{ tok Token }

func (parseError) Error() string { return "parse error" }

// Parse parses the full token stream into a program (a list of
// declarations). Errors are reported as encountered; ErrorReporter's
// HadError() tells the caller whether the program is safe to run.
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	for !p.atEnd() {
		if decl := p.declaration(); decl != nil {
			stmts = append(stmts, decl)
		}
	}
	return stmts
}

func (p *Parser) declaration() (stmt Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(CLASS):
		return p.classDeclaration()
	case p.match(FUN):
		return p.function("function")
	case p.match(VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() Stmt {
	name := p.consume(IDENTIFIER, "Expect class name.")

	var superclass *VariableExpr
	if p.match(LESS) {
		p.consume(IDENTIFIER, "Expect superclass name.")
		superclass = &VariableExpr{Name: p.previous()}
	}

	p.consume(LEFT_BRACE, "Expect '{' before class body.")

	var methods []*FunctionStmt
	for !p.check(RIGHT_BRACE) && !p.atEnd() {
		methods = append(methods, p.function("method"))
	}

	p.consume(RIGHT_BRACE, "Expect '}' after class body.")

	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *FunctionStmt {
	name := p.consume(IDENTIFIER, "Expect "+kind+" name.")
	p.consume(LEFT_PAREN, "Expect '(' after "+kind+" name.")

	var params []Token
	if !p.check(RIGHT_PAREN) {
		for {
			if len(params) >= 255 {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(IDENTIFIER, "Expect parameter name."))
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.consume(RIGHT_PAREN, "Expect ')' after parameters.")

	p.consume(LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.blockStatements()

	return &FunctionStmt{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() Stmt {
	name := p.consume(IDENTIFIER, "Expect variable name.")

	var initializer Expr
	if p.match(EQUAL) {
		initializer = p.expression()
	}

	p.consume(SEMICOLON, "Expect ';' after variable declaration.")
	return &VarStmt{Name: name, Initializer: initializer}
}

func (p *Parser) statement() Stmt {
	switch {
	case p.match(FOR):
		return p.forStatement()
	case p.match(IF):
		return p.ifStatement()
	case p.match(PRINT):
		return p.printStatement()
	case p.match(RETURN):
		return p.returnStatement()
	case p.match(WHILE):
		return p.whileStatement()
	case p.match(LEFT_BRACE):
		return &BlockStmt{Stmts: p.blockStatements()}
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) forStatement() Stmt {
	p.consume(LEFT_PAREN, "Expect '(' after 'for'.")

	var initializer Stmt
	switch {
	case p.match(SEMICOLON):
		initializer = nil
	case p.match(VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition Expr
	if !p.check(SEMICOLON) {
		condition = p.expression()
	}
	p.consume(SEMICOLON, "Expect ';' after loop condition.")

	var increment Expr
	if !p.check(RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	// Desugar for(init; cond; inc) body into:
	// { init; while (cond) { body; inc; } }
	if increment != nil {
		body = &BlockStmt{Stmts: []Stmt{body, &ExpressionStmt{Expr: increment}}}
	}
	if condition == nil {
		condition = &LiteralExpr{Value: true}
	}
	body = &WhileStmt{Cond: condition, Body: body}
	if initializer != nil {
		body = &BlockStmt{Stmts: []Stmt{initializer, body}}
	}

	return body
}

func (p *Parser) ifStatement() Stmt {
	p.consume(LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch Stmt
	if p.match(ELSE) {
		elseBranch = p.statement()
	}

	return &IfStmt{Cond: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) printStatement() Stmt {
	value := p.expression()
	p.consume(SEMICOLON, "Expect ';' after value.")
	return &PrintStmt{Expr: value}
}

func (p *Parser) returnStatement() Stmt {
	keyword := p.previous()
	var value Expr
	if !p.check(SEMICOLON) {
		value = p.expression()
	}
	p.consume(SEMICOLON, "Expect ';' after return value.")
	return &ReturnStmt{Keyword: keyword, Value: value}
}

func (p *Parser) whileStatement() Stmt {
	p.consume(LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(RIGHT_PAREN, "Expect ')' after condition.")
	body := p.statement()
	return &WhileStmt{Cond: condition, Body: body}
}

func (p *Parser) blockStatements() []Stmt {
	var stmts []Stmt
	for !p.check(RIGHT_BRACE) && !p.atEnd() {
		if decl := p.declaration(); decl != nil {
			stmts = append(stmts, decl)
		}
	}
	p.consume(RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) expressionStatement() Stmt {
	expr := p.expression()
	p.consume(SEMICOLON, "Expect ';' after expression.")
	return &ExpressionStmt{Expr: expr}
}

func (p *Parser) expression() Expr {
	return p.assignment()
}

func (p *Parser) assignment() Expr {
	expr := p.or()

	if p.match(EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch e := expr.(type) {
		case *VariableExpr:
			return &AssignExpr{Name: e.Name, Value: value}
		case *GetExpr:
			return &SetExpr{Object: e.Object, Name: e.Name, Value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return expr
		}
	}

	return expr
}

func (p *Parser) or() Expr {
	expr := p.and()
	for p.match(OR) {
		op := p.previous()
		right := p.and()
		expr = &LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) and() Expr {
	expr := p.equality()
	for p.match(AND) {
		op := p.previous()
		right := p.equality()
		expr = &LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() Expr {
	expr := p.comparison()
	for p.match(BANG_EQUAL, EQUAL_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() Expr {
	expr := p.term()
	for p.match(GREATER, GREATER_EQUAL, LESS, LESS_EQUAL) {
		op := p.previous()
		right := p.term()
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) term() Expr {
	expr := p.factor()
	for p.match(MINUS, PLUS) {
		op := p.previous()
		right := p.factor()
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() Expr {
	expr := p.unary()
	for p.match(SLASH, STAR) {
		op := p.previous()
		right := p.unary()
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() Expr {
	if p.match(BANG, MINUS) {
		op := p.previous()
		right := p.unary()
		return &UnaryExpr{Op: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(DOT):
			name := p.consume(IDENTIFIER, "Expect property name after '.'.")
			expr = &GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(RIGHT_PAREN) {
		for {
			if len(args) >= 255 {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren := p.consume(RIGHT_PAREN, "Expect ')' after arguments.")
	return &CallExpr{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() Expr {
	switch {
	case p.match(FALSE):
		return &LiteralExpr{Value: false}
	case p.match(TRUE):
		return &LiteralExpr{Value: true}
	case p.match(NIL):
		return &LiteralExpr{Value: nil}
	case p.match(NUMBER, STRING):
		return &LiteralExpr{Value: p.previous().Literal}
	case p.match(SUPER):
		keyword := p.previous()
		p.consume(DOT, "Expect '.' after 'super'.")
		method := p.consume(IDENTIFIER, "Expect superclass method name.")
		return &SuperExpr{Keyword: keyword, Method: method}
	case p.match(THIS):
		return &ThisExpr{Keyword: p.previous()}
	case p.match(IDENTIFIER):
		return &VariableExpr{Name: p.previous()}
	case p.match(LEFT_PAREN):
		expr := p.expression()
		p.consume(RIGHT_PAREN, "Expect ')' after expression.")
		return &GroupingExpr{Inner: expr}
	}

	p.errorAt(p.peek(), "Expect expression.")
	panic(parseError{tok: p.peek()})
}

// --- token-stream helpers ---

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(typ TokenType, message string) Token {
	if p.check(typ) {
		return p.advance()
	}
	p.errorAt(p.peek(), message)
	panic(parseError{tok: p.peek()})
}

func (p *Parser) check(typ TokenType) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Type == typ
}

func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) errorAt(tok Token, message string) {
	p.reporter.ParseError(tok, message)
}

// synchronize discards tokens until a statement boundary: either the
// previous token was a semicolon, or the next token starts a new
// statement.
func (p *Parser) synchronize() {
	p.advance()

	for !p.atEnd() {
		if p.previous().Type == SEMICOLON {
			return
		}

		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}

		p.advance()
	}
}
