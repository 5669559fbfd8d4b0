// Package parser turns a token stream into an exprtree.Node via the
// shunting-yard algorithm, so operator precedence/associativity/unary-minus
// come from optable rather than from nested grammar rules. Grounded on
// original_source/src/parse.cpp's ParseFunctions/Parse, restructured into
// sentra's own Parser-over-a-token-slice shape.
package parser

import (
	"strconv"

	"tomsolver/internal/errs"
	"tomsolver/internal/exprtree"
	"tomsolver/internal/lexer"
	"tomsolver/internal/optable"
)

var functionNames = map[string]optable.OpTag{
	"sin":    optable.Sin,
	"cos":    optable.Cos,
	"tan":    optable.Tan,
	"arcsin": optable.Arcsin,
	"arccos": optable.Arccos,
	"arctan": optable.Arctan,
	"sqrt":   optable.Sqrt,
	"log":    optable.Log,
	"log2":   optable.Log2,
	"log10":  optable.Log10,
	"exp":    optable.Exp,
}

// Parse tokenizes and parses source into a single expression tree. On
// failure it returns an *errs.MultiParseError aggregating every syntax
// problem found, per spec.md §4.5/§7.
func Parse(source string) (*exprtree.Node, error) {
	toks, lexErrs := lexer.NewScanner(source).ScanTokens()
	if len(lexErrs) > 0 {
		return nil, &errs.MultiParseError{Errors: lexErrs}
	}
	p := &parser{tokens: toks}
	root, err := p.parseExpr()
	if err != nil {
		pe, ok := err.(*errs.SingleParseError)
		if !ok {
			return nil, err
		}
		p.errors = append(p.errors, pe)
	}
	if root != nil && p.peek().Type != lexer.TokenEOF {
		p.errors = append(p.errors, &errs.SingleParseError{
			Message: "unexpected trailing input",
			Slice:   p.peek().Lexeme,
			Span:    errs.SourceSpan{Line: p.peek().Line, Col: p.peek().Col},
		})
	}
	if len(p.errors) > 0 {
		return nil, &errs.MultiParseError{Errors: p.errors}
	}
	return root, nil
}

type parser struct {
	tokens []lexer.Token
	pos    int
	errors []*errs.SingleParseError
}

func (p *parser) peek() lexer.Token { return p.tokens[p.pos] }

func (p *parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) fail(message string) *errs.SingleParseError {
	t := p.peek()
	return &errs.SingleParseError{Message: message, Slice: t.Lexeme, Span: errs.SourceSpan{Line: t.Line, Col: t.Col}}
}

// parseExpr runs shunting-yard: an explicit operator stack and an operand
// stack, draining onto the operand stack by precedence/associativity as
// each token arrives, exactly as original_source's ParseFunctions does.
func (p *parser) parseExpr() (*exprtree.Node, error) {
	var operands []*exprtree.Node
	var operators []optable.OpTag

	popOperator := func() error {
		op := operators[len(operators)-1]
		operators = operators[:len(operators)-1]
		if optable.Arity(op) == 1 {
			if len(operands) < 1 {
				return p.fail("operator with missing operand")
			}
			a := operands[len(operands)-1]
			operands = operands[:len(operands)-1]
			operands = append(operands, exprtree.Unary(op, a))
			return nil
		}
		if len(operands) < 2 {
			return p.fail("operator with missing operand")
		}
		r := operands[len(operands)-1]
		l := operands[len(operands)-2]
		operands = operands[:len(operands)-2]
		operands = append(operands, exprtree.Binary(op, l, r))
		return nil
	}

	expectOperand := true
	for {
		tok := p.peek()
		switch tok.Type {
		case lexer.TokenEOF, lexer.TokenRParen:
			goto drain
		case lexer.TokenNumber:
			if !expectOperand {
				goto drain
			}
			p.advance()
			v, err := strconv.ParseFloat(tok.Lexeme, 64)
			if err != nil {
				return nil, p.fail("invalid number literal")
			}
			operands = append(operands, exprtree.Num(v))
			expectOperand = false
		case lexer.TokenIdent:
			if !expectOperand {
				goto drain
			}
			p.advance()
			if fn, ok := functionNames[tok.Lexeme]; ok {
				if p.peek().Type != lexer.TokenLParen {
					return nil, p.fail("expected '(' after function name")
				}
				p.advance()
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				if p.peek().Type != lexer.TokenRParen {
					return nil, p.fail("unmatched parenthesis")
				}
				p.advance()
				operands = append(operands, exprtree.Unary(fn, arg))
				expectOperand = false
				continue
			}
			v, err := exprtree.Var(tok.Lexeme)
			if err != nil {
				return nil, p.fail(err.Error())
			}
			operands = append(operands, v)
			expectOperand = false
		case lexer.TokenLParen:
			p.advance()
			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.peek().Type != lexer.TokenRParen {
				return nil, p.fail("unmatched parenthesis")
			}
			p.advance()
			operands = append(operands, inner)
			expectOperand = false
		case lexer.TokenPlus, lexer.TokenMinus:
			p.advance()
			op := binaryTag(tok.Type)
			if expectOperand {
				op = unaryTag(tok.Type)
			}
			for len(operators) > 0 && shouldPopBefore(operators[len(operators)-1], op) {
				if err := popOperator(); err != nil {
					return nil, err
				}
			}
			operators = append(operators, op)
			expectOperand = true
		case lexer.TokenStar, lexer.TokenSlash, lexer.TokenCaret, lexer.TokenAmp, lexer.TokenPipe, lexer.TokenPercent:
			if expectOperand {
				return nil, p.fail("expected operand before binary operator")
			}
			p.advance()
			op := binaryTag(tok.Type)
			for len(operators) > 0 && shouldPopBefore(operators[len(operators)-1], op) {
				if err := popOperator(); err != nil {
					return nil, err
				}
			}
			operators = append(operators, op)
			expectOperand = true
		default:
			return nil, p.fail("unexpected token")
		}
	}

drain:
	if expectOperand {
		return nil, p.fail("expected an operand")
	}
	for len(operators) > 0 {
		if err := popOperator(); err != nil {
			return nil, err
		}
	}
	if len(operands) != 1 {
		return nil, p.fail("malformed expression")
	}
	return operands[0], nil
}

// shouldPopBefore decides whether the operator already on the stack (top)
// must be applied before incoming is pushed: it does when top binds at
// least as tightly as incoming, except when incoming is right-associative
// and they tie, in which case incoming must wait for a higher operand.
func shouldPopBefore(top, incoming optable.OpTag) bool {
	if top == optable.LParen {
		return false
	}
	tr, ir := optable.Rank(top), optable.Rank(incoming)
	if tr > ir {
		return true
	}
	if tr == ir {
		return optable.IsLeftAssoc(incoming)
	}
	return false
}

func binaryTag(t lexer.TokenType) optable.OpTag {
	switch t {
	case lexer.TokenPlus:
		return optable.Add
	case lexer.TokenMinus:
		return optable.Sub
	case lexer.TokenStar:
		return optable.Mul
	case lexer.TokenSlash:
		return optable.Div
	case lexer.TokenCaret:
		return optable.Pow
	case lexer.TokenAmp:
		return optable.And
	case lexer.TokenPipe:
		return optable.Or
	case lexer.TokenPercent:
		return optable.Mod
	}
	return optable.Null
}

func unaryTag(t lexer.TokenType) optable.OpTag {
	if t == lexer.TokenMinus {
		return optable.Negative
	}
	return optable.Positive
}
