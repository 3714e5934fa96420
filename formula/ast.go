package formula

import (
	"fmt"
	"strings"
)

// expr is a node in the parsed formula tree.
type expr interface {
	String() string
}

// numberLiteral is a numeric constant.
type numberLiteral struct {
	value float64
}

func (n *numberLiteral) String() string { return fmt.Sprintf("%g", n.value) }

// valueRef is the single free variable "value".
type valueRef struct{}

func (v *valueRef) String() string { return "value" }

// prefixExpr is unary minus (the only prefix operator in the grammar).
type prefixExpr struct {
	operator string
	right    expr
}

func (p *prefixExpr) String() string {
	return fmt.Sprintf("(%s%s)", p.operator, p.right.String())
}

// infixExpr is a binary arithmetic operation.
type infixExpr struct {
	left     expr
	operator string
	right    expr
}

func (i *infixExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", i.left.String(), i.operator, i.right.String())
}

// callTarget is a whitelisted function name awaiting its argument list. It
// only exists between parsePrefix and parseCall; one escaping to evaluation
// is a syntax error.
type callTarget struct {
	name string
}

func (c *callTarget) String() string { return c.name }

// callExpr is a call to a whitelisted math function.
type callExpr struct {
	name string
	args []expr
}

func (c *callExpr) String() string {
	parts := make([]string, len(c.args))
	for i, a := range c.args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.name, strings.Join(parts, ", "))
}
