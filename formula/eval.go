package formula

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/motamman/signalk-units-preference-sub000/errors"
)

// variableName is the single free variable every formula is bound to.
const variableName = "value"

// mathFunction is one whitelisted function: fixed arity bounds plus the
// implementation. Variadic min/max use maxArgs = -1.
type mathFunction struct {
	minArgs int
	maxArgs int
	apply   func(args []float64) float64
}

// mathFunctions is the complete function whitelist for arithmetic formulas.
// The parser rejects any identifier not in this map (other than "value")
// before evaluation starts.
var mathFunctions = map[string]mathFunction{
	"pow":   {2, 2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	"sqrt":  {1, 1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"abs":   {1, 1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"round": {1, 1, func(a []float64) float64 { return math.Round(a[0]) }},
	"floor": {1, 1, func(a []float64) float64 { return math.Floor(a[0]) }},
	"ceil":  {1, 1, func(a []float64) float64 { return math.Ceil(a[0]) }},
	"min": {2, -1, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {2, -1, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
}

// durationCall matches the direct-dispatch form "formatDurationXXX(value)".
// Duration formulas never go through the expression parser.
var durationCall = regexp.MustCompile(`^\s*(formatDuration[A-Za-z]*)\s*\(\s*value\s*\)\s*$`)

// ResultKind discriminates the two result shapes a formula can produce.
type ResultKind int

const (
	// ResultNumber is a finite numeric result from an arithmetic formula.
	ResultNumber ResultKind = iota
	// ResultText is a formatted string from a duration function.
	ResultText
)

// Result is the outcome of evaluating a formula: either a finite number or,
// for duration functions, a formatted string.
type Result struct {
	Kind   ResultKind
	Number float64
	Text   string
}

// Evaluate runs a formula against a value. The formula is either a duration
// function call from the fixed whitelist, dispatched directly, or an
// arithmetic expression parsed and walked by the sandboxed interpreter.
//
// Returns InvalidInputError for a non-finite value, UnsafeFormulaError for a
// disallowed token, and FormulaEvaluationError for syntax errors or
// non-finite results.
func Evaluate(formula string, value float64) (Result, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Result{}, &errors.InvalidInputError{Value: value, Reason: "value must be finite"}
	}

	if m := durationCall.FindStringSubmatch(formula); m != nil {
		fn, ok := durationFunctions[m[1]]
		if !ok {
			return Result{}, &errors.UnsafeFormulaError{
				Formula:  formula,
				Token:    m[1],
				Position: strings.Index(formula, m[1]),
			}
		}
		return Result{Kind: ResultText, Text: fn(value)}, nil
	}

	node, err := newParser(formula).parse()
	if err != nil {
		return Result{}, err
	}

	n, err := eval(node, formula, value)
	if err != nil {
		return Result{}, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Result{}, &errors.FormulaEvaluationError{Formula: formula, Reason: "non-finite result"}
	}
	return Result{Kind: ResultNumber, Number: n}, nil
}

// EvaluateNumeric is Evaluate restricted to arithmetic formulas; a duration
// formula is an evaluation error here.
func EvaluateNumeric(formula string, value float64) (float64, error) {
	res, err := Evaluate(formula, value)
	if err != nil {
		return 0, err
	}
	if res.Kind != ResultNumber {
		return 0, &errors.FormulaEvaluationError{Formula: formula, Reason: "formula yields text, not a number"}
	}
	return res.Number, nil
}

// eval walks the expression tree. Division by zero is not special-cased here;
// it surfaces as a non-finite result check in Evaluate.
func eval(node expr, formula string, value float64) (float64, error) {
	switch n := node.(type) {
	case *numberLiteral:
		return n.value, nil

	case *valueRef:
		return value, nil

	case *prefixExpr:
		right, err := eval(n.right, formula, value)
		if err != nil {
			return 0, err
		}
		return -right, nil

	case *infixExpr:
		left, err := eval(n.left, formula, value)
		if err != nil {
			return 0, err
		}
		right, err := eval(n.right, formula, value)
		if err != nil {
			return 0, err
		}
		switch n.operator {
		case "+":
			return left + right, nil
		case "-":
			return left - right, nil
		case "*":
			return left * right, nil
		case "/":
			return left / right, nil
		default:
			return 0, &errors.FormulaEvaluationError{Formula: formula, Reason: "unknown operator " + n.operator}
		}

	case *callExpr:
		fn, ok := mathFunctions[n.name]
		if !ok {
			// Unreachable: the parser only builds calls for whitelisted names.
			return 0, &errors.UnsafeFormulaError{Formula: formula, Token: n.name}
		}
		if len(n.args) < fn.minArgs || (fn.maxArgs >= 0 && len(n.args) > fn.maxArgs) {
			return 0, &errors.FormulaEvaluationError{
				Formula: formula,
				Reason:  fmt.Sprintf("%s: wrong argument count %d", n.name, len(n.args)),
			}
		}
		args := make([]float64, len(n.args))
		for i, a := range n.args {
			v, err := eval(a, formula, value)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return fn.apply(args), nil

	case *callTarget:
		return 0, &errors.FormulaEvaluationError{Formula: formula, Reason: "function " + n.name + " used without arguments"}

	default:
		return 0, &errors.FormulaEvaluationError{Formula: formula, Reason: "unknown expression node"}
	}
}

// CheckSyntax parses and sandbox-checks a formula without evaluating it.
// Used at preference-write time so a bad formula is rejected before it is
// persisted. Duration function calls from the whitelist pass unchecked.
func CheckSyntax(formula string) error {
	if m := durationCall.FindStringSubmatch(formula); m != nil {
		if _, ok := durationFunctions[m[1]]; !ok {
			return &errors.UnsafeFormulaError{
				Formula:  formula,
				Token:    m[1],
				Position: strings.Index(formula, m[1]),
			}
		}
		return nil
	}
	_, err := newParser(formula).parse()
	return err
}

// Identity is the pass-through formula used when no conversion applies.
const Identity = "value"
