package expr

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

type tokenKind int

const (
	tkEOF tokenKind = iota
	tkNumber
	tkIdent
	tkIf
	tkElse
	tkOp  // + - * /
	tkCmp // < <= > >= == !=
	tkLParen
	tkRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int // rune offset
}

// lex splits src into tokens.
func lex(src string) ([]token, error) {
	var tokens []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, token{tkLParen, "(", i})
			i++
		case r == ')':
			tokens = append(tokens, token{tkRParen, ")", i})
			i++
		case r == '+' || r == '-' || r == '*' || r == '/':
			tokens = append(tokens, token{tkOp, string(r), i})
			i++
		case r == '<' || r == '>':
			text := string(r)
			if i+1 < len(runes) && runes[i+1] == '=' {
				text += "="
			}
			tokens = append(tokens, token{tkCmp, text, i})
			i += len(text)
		case r == '=' || r == '!':
			if i+1 >= len(runes) || runes[i+1] != '=' {
				return nil, &SyntaxError{Pos: i, Msg: "expected " + string(r) + "="}
			}
			tokens = append(tokens, token{tkCmp, string(r) + "=", i})
			i += 2
		case unicode.IsDigit(r) || r == '.':
			start := i
			seenDot := false
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				if runes[i] == '.' {
					if seenDot {
						return nil, &SyntaxError{Pos: i, Msg: "malformed number"}
					}
					seenDot = true
				}
				i++
			}
			tokens = append(tokens, token{tkNumber, string(runes[start:i]), start})
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			text := string(runes[start:i])
			switch text {
			case "if":
				tokens = append(tokens, token{tkIf, text, start})
			case "else":
				tokens = append(tokens, token{tkElse, text, start})
			default:
				tokens = append(tokens, token{tkIdent, text, start})
			}
		default:
			return nil, &SyntaxError{Pos: i, Msg: "unexpected character " + string(r)}
		}
	}
	tokens = append(tokens, token{tkEOF, "", len(runes)})
	return tokens, nil
}

type parser struct {
	tokens []token
	i      int
}

func (p *parser) peek() token { return p.tokens[p.i] }

func (p *parser) next() token {
	t := p.tokens[p.i]
	if t.kind != tkEOF {
		p.i++
	}
	return t
}

func (p *parser) errorf(msg string) error {
	return &SyntaxError{Pos: p.peek().pos, Msg: msg}
}

// Parse parses src into a reusable expression.
//
// Grammar, lowest precedence first:
//
//	conditional = comparison [ "if" comparison "else" conditional ]
//	comparison  = sum [ cmpop sum ]
//	sum         = term { ("+"|"-") term }
//	term        = unary { ("*"|"/") unary }
//	unary       = "-" unary | primary
//	primary     = number | identifier | "(" conditional ")"
func Parse(src string) (Node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	n, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tkEOF {
		return nil, p.errorf("unexpected " + p.peek().text)
	}
	return root{n: n}, nil
}

func (p *parser) parseConditional() (node, error) {
	then, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tkIf {
		return then, nil
	}
	p.next()
	cond, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tkElse {
		return nil, p.errorf("expected else")
	}
	p.next()
	alt, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return condNode{then: then, cond: cond, alt: alt}, nil
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tkCmp {
		return left, nil
	}
	op := p.next().text
	right, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	return compareNode{op: op, left: left, right: right}, nil
}

func (p *parser) parseSum() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tkOp && (p.peek().text == "+" || p.peek().text == "-") {
		op := rune(p.next().text[0])
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tkOp && (p.peek().text == "*" || p.peek().text == "/") {
		op := rune(p.next().text[0])
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == tkOp && p.peek().text == "-" {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.peek()
	switch t.kind {
	case tkNumber:
		p.next()
		d, err := decimal.NewFromString(t.text)
		if err != nil {
			return nil, &SyntaxError{Pos: t.pos, Msg: "malformed number " + t.text}
		}
		return numberNode{val: d}, nil
	case tkIdent:
		p.next()
		return identNode{name: t.text}, nil
	case tkLParen:
		p.next()
		inner, err := p.parseConditional()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tkRParen {
			return nil, p.errorf("expected closing parenthesis")
		}
		p.next()
		return inner, nil
	}
	return nil, p.errorf("expected a number, variable or parenthesis")
}
