package skills

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Calculate evaluates a spoken arithmetic expression: digits, + - * / ^,
// parentheses, unary minus, and the word forms "plus", "minus", "times",
// "x" and "divided by".
func Calculate(expr string) (string, error) {
	expr = strings.ToLower(expr)
	expr = strings.TrimSpace(strings.Replace(expr, "calculate", "", 1))

	replacer := strings.NewReplacer(
		"divided by", "/",
		"plus", "+",
		"minus", "-",
		"times", "*",
		"x", "*",
	)
	expr = replacer.Replace(expr)

	tokens, err := tokenize(expr)
	if err != nil {
		return "", err
	}
	p := &exprParser{tokens: tokens}
	v, err := p.parseSum()
	if err != nil {
		return "", err
	}
	if p.pos != len(p.tokens) {
		return "", fmt.Errorf("unexpected token %q", p.tokens[p.pos])
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "", errors.New("result is not a number")
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

func tokenize(expr string) ([]string, error) {
	var tokens []string
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ':
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(expr) && (expr[j] >= '0' && expr[j] <= '9' || expr[j] == '.') {
				j++
			}
			tokens = append(tokens, expr[i:j])
			i = j
		case strings.ContainsRune("+-*/^()", rune(c)):
			tokens = append(tokens, string(c))
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	if len(tokens) == 0 {
		return nil, errors.New("empty expression")
	}
	return tokens, nil
}

type exprParser struct {
	tokens []string
	pos    int
}

func (p *exprParser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *exprParser) parseSum() (float64, error) {
	v, err := p.parseProduct()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case "+":
			p.pos++
			rhs, err := p.parseProduct()
			if err != nil {
				return 0, err
			}
			v += rhs
		case "-":
			p.pos++
			rhs, err := p.parseProduct()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseProduct() (float64, error) {
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case "*":
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case "/":
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, errors.New("division by zero")
			}
			v /= rhs
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	if p.peek() == "-" {
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	if p.peek() != "^" {
		return base, nil
	}
	p.pos++
	// Right-associative.
	exp, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

func (p *exprParser) parsePrimary() (float64, error) {
	tok := p.peek()
	switch {
	case tok == "(":
		p.pos++
		v, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		if p.peek() != ")" {
			return 0, errors.New("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case tok == "":
		return 0, errors.New("unexpected end of expression")
	default:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, fmt.Errorf("bad number %q", tok)
		}
		p.pos++
		return v, nil
	}
}
