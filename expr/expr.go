// Package expr implements the restricted expression language used by
// formula overrides: the four arithmetic operators, parentheses,
// comparisons, and the conditional form `A if cond else B`, evaluated over
// a closed set of named decimal variables.
//
// It is a small AST interpreter, deliberately not a general-purpose
// evaluator: there are no function calls, no assignment, no access to
// anything outside the Env the caller provides.
package expr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Env is the closed variable namespace an expression evaluates against.
type Env map[string]decimal.Decimal

// ErrDivisionByZero is returned when a division's right side evaluates to
// zero.
var ErrDivisionByZero = errors.New("division by zero")

// SyntaxError reports where parsing gave up.
type SyntaxError struct {
	Pos int // rune offset in the source
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// UndefinedVariableError reports an identifier missing from the Env.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// Eval parses src and evaluates it against env.
func Eval(src string, env Env) (decimal.Decimal, error) {
	n, err := Parse(src)
	if err != nil {
		return decimal.Zero, err
	}
	return n.Eval(env)
}

// Node is a parsed expression, ready for repeated evaluation.
type Node interface {
	// Eval computes the numeric value of the expression. An expression
	// whose top level is a bare comparison evaluates to 1 or 0.
	Eval(env Env) (decimal.Decimal, error)
}

// node is the internal AST contract.
type node interface {
	eval(env Env) (value, error)
}

// value is the result of evaluating a subexpression: either a number or,
// for comparisons, a boolean usable as a conditional's condition.
type value struct {
	num    decimal.Decimal
	isBool bool
	b      bool
}

func numValue(d decimal.Decimal) value { return value{num: d} }
func boolValue(b bool) value           { return value{isBool: true, b: b} }

// number asserts the value is numeric.
func (v value) number() (decimal.Decimal, error) {
	if v.isBool {
		return decimal.Zero, errors.New("comparison used as a number")
	}
	return v.num, nil
}

type numberNode struct {
	val decimal.Decimal
}

func (n numberNode) eval(Env) (value, error) { return numValue(n.val), nil }

type identNode struct {
	name string
}

func (n identNode) eval(env Env) (value, error) {
	d, ok := env[n.name]
	if !ok {
		return value{}, &UndefinedVariableError{Name: n.name}
	}
	return numValue(d), nil
}

type unaryNode struct {
	operand node
}

func (n unaryNode) eval(env Env) (value, error) {
	v, err := n.operand.eval(env)
	if err != nil {
		return value{}, err
	}
	d, err := v.number()
	if err != nil {
		return value{}, err
	}
	return numValue(d.Neg()), nil
}

type binaryNode struct {
	op          rune // one of + - * /
	left, right node
}

func (n binaryNode) eval(env Env) (value, error) {
	lv, err := n.left.eval(env)
	if err != nil {
		return value{}, err
	}
	l, err := lv.number()
	if err != nil {
		return value{}, err
	}
	rv, err := n.right.eval(env)
	if err != nil {
		return value{}, err
	}
	r, err := rv.number()
	if err != nil {
		return value{}, err
	}
	switch n.op {
	case '+':
		return numValue(l.Add(r)), nil
	case '-':
		return numValue(l.Sub(r)), nil
	case '*':
		return numValue(l.Mul(r)), nil
	case '/':
		if r.IsZero() {
			return value{}, ErrDivisionByZero
		}
		return numValue(l.Div(r)), nil
	}
	return value{}, fmt.Errorf("unknown operator %q", n.op)
}

type compareNode struct {
	op          string // < <= > >= == !=
	left, right node
}

func (n compareNode) eval(env Env) (value, error) {
	lv, err := n.left.eval(env)
	if err != nil {
		return value{}, err
	}
	l, err := lv.number()
	if err != nil {
		return value{}, err
	}
	rv, err := n.right.eval(env)
	if err != nil {
		return value{}, err
	}
	r, err := rv.number()
	if err != nil {
		return value{}, err
	}
	c := l.Cmp(r)
	switch n.op {
	case "<":
		return boolValue(c < 0), nil
	case "<=":
		return boolValue(c <= 0), nil
	case ">":
		return boolValue(c > 0), nil
	case ">=":
		return boolValue(c >= 0), nil
	case "==":
		return boolValue(c == 0), nil
	case "!=":
		return boolValue(c != 0), nil
	}
	return value{}, fmt.Errorf("unknown comparison %q", n.op)
}

// condNode is the `A if cond else B` form.
type condNode struct {
	then, cond, alt node
}

func (n condNode) eval(env Env) (value, error) {
	cv, err := n.cond.eval(env)
	if err != nil {
		return value{}, err
	}
	var take bool
	if cv.isBool {
		take = cv.b
	} else {
		// a bare numeric condition counts as "non-zero is true"
		take = !cv.num.IsZero()
	}
	if take {
		return n.then.eval(env)
	}
	return n.alt.eval(env)
}

// root adapts the internal value-typed tree to the public Node contract.
type root struct {
	n node
}

func (r root) Eval(env Env) (decimal.Decimal, error) {
	v, err := r.n.eval(env)
	if err != nil {
		return decimal.Zero, err
	}
	if v.isBool {
		if v.b {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, nil
	}
	return v.num, nil
}
