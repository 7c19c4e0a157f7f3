package expr

import "fmt"

// The AST is deliberately restricted: symbol leaves, numeric literals, and a
// fixed operator set. There are no call, attribute, index, or name-resolution
// forms, so an expression can never reach anything beyond its bindings.
type node interface {
	// freeSymbols appends referenced symbol names in first-appearance order.
	freeSymbols(seen map[string]bool, out *[]string)
}

type symbolNode struct {
	name string
	pos  int
}

type numberNode struct {
	isFloat  bool
	intVal   int64
	floatVal float64
}

type unaryNode struct {
	op      tokenKind // tokenMinus or tokenTilde
	operand node
}

type binaryNode struct {
	op    tokenKind
	left  node
	right node
}

func (n *symbolNode) freeSymbols(seen map[string]bool, out *[]string) {
	if !seen[n.name] {
		seen[n.name] = true
		*out = append(*out, n.name)
	}
}

func (n *numberNode) freeSymbols(map[string]bool, *[]string) {}

func (n *unaryNode) freeSymbols(seen map[string]bool, out *[]string) {
	n.operand.freeSymbols(seen, out)
}

func (n *binaryNode) freeSymbols(seen map[string]bool, out *[]string) {
	n.left.freeSymbols(seen, out)
	n.right.freeSymbols(seen, out)
}

// parser is a recursive-descent parser over the lexed token stream, one
// function per precedence level.
type parser struct {
	tokens []token
	pos    int
}

func parse(src string) (node, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	if p.peek().kind == tokenEOF {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	root, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, fmt.Errorf("%w: unexpected %s at position %d", ErrSyntax, tok.kind, tok.pos)
	}
	return root, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func isComparison(k tokenKind) bool {
	switch k {
	case tokenGt, tokenGe, tokenLt, tokenLe, tokenEq, tokenNe:
		return true
	}
	return false
}

// parseComparison handles the lowest precedence level. At most one comparison
// is allowed; chained comparisons are rejected rather than reinterpreted.
func (p *parser) parseComparison() (node, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	if !isComparison(p.peek().kind) {
		return left, nil
	}
	op := p.next()
	right, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); isComparison(tok.kind) {
		return nil, fmt.Errorf("%w: comparison chaining is not supported (position %d)", ErrSyntax, tok.pos)
	}
	return &binaryNode{op: op.kind, left: left, right: right}, nil
}

func (p *parser) parseBitOr() (node, error) {
	return p.parseLeftAssoc(p.parseBitXor, tokenPipe)
}

func (p *parser) parseBitXor() (node, error) {
	return p.parseLeftAssoc(p.parseBitAnd, tokenCaret)
}

func (p *parser) parseBitAnd() (node, error) {
	return p.parseLeftAssoc(p.parseAddSub, tokenAmp)
}

func (p *parser) parseAddSub() (node, error) {
	return p.parseLeftAssoc(p.parseMulDiv, tokenPlus, tokenMinus)
}

func (p *parser) parseMulDiv() (node, error) {
	return p.parseLeftAssoc(p.parseUnary, tokenStar, tokenSlash, tokenDoubleSlash, tokenPercent)
}

func (p *parser) parseLeftAssoc(operand func() (node, error), kinds ...tokenKind) (node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		matched := false
		for _, k := range kinds {
			if p.peek().kind == k {
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
		op := p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op.kind, left: left, right: right}
	}
}

// parseUnary handles - and ~. Unary operators bind looser than ** on their
// operand, so -A**2 negates the power.
func (p *parser) parseUnary() (node, error) {
	if k := p.peek().kind; k == tokenMinus || k == tokenTilde {
		op := p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op.kind, operand: operand}, nil
	}
	return p.parsePower()
}

// parsePower handles ** with right associativity. The exponent re-enters at
// the unary level so forms like A ** -2 parse.
func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenDoubleStar {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: tokenDoubleStar, left: base, right: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNumber:
		return &numberNode{isFloat: tok.isFloat, intVal: tok.intVal, floatVal: tok.floatVal}, nil
	case tokenSymbol:
		return &symbolNode{name: tok.text, pos: tok.pos}, nil
	case tokenLParen:
		inner, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, fmt.Errorf("%w: expected ')' but found %s at position %d", ErrSyntax, closing.kind, closing.pos)
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %s at position %d", ErrSyntax, tok.kind, tok.pos)
	}
}
