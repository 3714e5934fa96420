package formula

import (
	"fmt"
	"strconv"

	"github.com/motamman/signalk-units-preference-sub000/errors"
)

// Operator precedence levels, lowest first.
const (
	_ int = iota
	precLowest
	precSum     // + -
	precProduct // * /
	precPrefix  // -x
	precCall    // f(x)
)

var precedences = map[tokenType]int{
	tokenPlus:     precSum,
	tokenMinus:    precSum,
	tokenAsterisk: precProduct,
	tokenSlash:    precProduct,
	tokenLParen:   precCall,
}

// parser is a Pratt parser over the formula token stream. It only ever
// produces trees of the five node types in ast.go; there is no identifier
// resolution beyond "value" and the function whitelist.
type parser struct {
	l       *lexer
	formula string

	curToken  token
	peekToken token
}

func newParser(formula string) *parser {
	p := &parser{l: newLexer(formula), formula: formula}
	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.nextToken()
}

// parse consumes the whole input and returns the expression tree. Exactly one
// expression must span the input; trailing tokens are a syntax error.
func (p *parser) parse() (expr, error) {
	node, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if p.peekToken.typ != tokenEOF {
		return nil, p.syntaxError("unexpected trailing token " + p.peekToken.String())
	}
	return node, nil
}

func (p *parser) parseExpression(precedence int) (expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for p.peekToken.typ != tokenEOF && precedence < p.peekPrecedence() {
		switch p.peekToken.typ {
		case tokenPlus, tokenMinus, tokenAsterisk, tokenSlash:
			p.nextToken()
			left, err = p.parseInfix(left)
		case tokenLParen:
			p.nextToken()
			left, err = p.parseCall(left)
		default:
			return left, nil
		}
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *parser) parsePrefix() (expr, error) {
	switch p.curToken.typ {
	case tokenNumber:
		v, err := strconv.ParseFloat(p.curToken.literal, 64)
		if err != nil {
			return nil, p.syntaxError(fmt.Sprintf("bad numeric literal %q", p.curToken.literal))
		}
		return &numberLiteral{value: v}, nil

	case tokenIdent:
		// The only identifiers that exist are "value" and the function
		// whitelist; everything else is rejected here, before any
		// evaluation can happen.
		if p.curToken.literal == variableName {
			return &valueRef{}, nil
		}
		if _, ok := mathFunctions[p.curToken.literal]; ok {
			if p.peekToken.typ != tokenLParen {
				return nil, p.syntaxError(fmt.Sprintf("function %q must be called", p.curToken.literal))
			}
			return &callTarget{name: p.curToken.literal}, nil
		}
		return nil, &errors.UnsafeFormulaError{
			Formula:  p.formula,
			Token:    p.curToken.literal,
			Position: p.curToken.pos,
		}

	case tokenMinus:
		op := p.curToken.literal
		p.nextToken()
		right, err := p.parsePrefixOperand()
		if err != nil {
			return nil, err
		}
		return &prefixExpr{operator: op, right: right}, nil

	case tokenLParen:
		p.nextToken()
		node, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if err := p.expectPeek(tokenRParen); err != nil {
			return nil, err
		}
		return node, nil

	case tokenIllegal:
		return nil, &errors.UnsafeFormulaError{
			Formula:  p.formula,
			Token:    p.curToken.literal,
			Position: p.curToken.pos,
		}

	case tokenEOF:
		return nil, p.syntaxError("unexpected end of formula")

	default:
		return nil, p.syntaxError("unexpected token " + p.curToken.String())
	}
}

// parsePrefixOperand parses the operand of a unary minus.
func (p *parser) parsePrefixOperand() (expr, error) {
	return p.parseExpression(precPrefix)
}

func (p *parser) parseInfix(left expr) (expr, error) {
	op := p.curToken.literal
	prec := p.curPrecedence()
	p.nextToken()
	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}
	return &infixExpr{left: left, operator: op, right: right}, nil
}

// parseCall parses the argument list of a whitelisted function. left must be
// a bare function identifier, which parsePrefix has already vetted.
func (p *parser) parseCall(left expr) (expr, error) {
	ref, ok := left.(*callTarget)
	if !ok {
		return nil, p.syntaxError("only whitelisted functions may be called")
	}

	call := &callExpr{name: ref.name}
	if p.peekToken.typ == tokenRParen {
		p.nextToken()
		return call, nil
	}

	p.nextToken()
	arg, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	call.args = append(call.args, arg)

	for p.peekToken.typ == tokenComma {
		p.nextToken() // comma
		p.nextToken() // first token of next arg
		arg, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		call.args = append(call.args, arg)
	}

	if err := p.expectPeek(tokenRParen); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *parser) expectPeek(t tokenType) error {
	if p.peekToken.typ != t {
		return p.syntaxError("unexpected token " + p.peekToken.String())
	}
	p.nextToken()
	return nil
}

func (p *parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.typ]; ok {
		return prec
	}
	return precLowest
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.typ]; ok {
		return prec
	}
	return precLowest
}

func (p *parser) syntaxError(msg string) error {
	return &errors.FormulaEvaluationError{Formula: p.formula, Reason: "syntax error: " + msg}
}
