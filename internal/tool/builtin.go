package tool

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Calculator evaluates arithmetic expressions with +, -, *, / and parentheses.
type Calculator struct{}

// Name returns the tool's identifier.
func (Calculator) Name() string { return "calculator" }

// Description returns what the tool does.
func (Calculator) Description() string {
	return "Evaluate an arithmetic expression, e.g. '2 * (3 + 4)'"
}

// Run evaluates the expression in input.
func (Calculator) Run(_ context.Context, input string) (Result, error) {
	p := &exprParser{input: strings.TrimSpace(input)}
	value, err := p.parseExpr()
	if err != nil {
		return Result{}, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return Result{}, fmt.Errorf("unexpected character at position %d", p.pos)
	}
	return Result{Content: strconv.FormatFloat(value, 'f', -1, 64)}, nil
}

// exprParser is a recursive-descent parser over a single expression.
type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		if p.pos >= len(p.input) {
			return left, nil
		}
		op := p.input[p.pos]
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		if p.pos >= len(p.input) {
			return left, nil
		}
		op := p.input[p.pos]
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		}
	}
}

func (p *exprParser) parseFactor() (float64, error) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	if p.input[p.pos] == '(' {
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil
	}

	start := p.pos
	if p.input[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.input) && (p.input[p.pos] == '.' || (p.input[p.pos] >= '0' && p.input[p.pos] <= '9')) {
		p.pos++
	}
	if p.pos == start || (p.pos == start+1 && p.input[start] == '-') {
		return 0, fmt.Errorf("expected number at position %d", start)
	}

	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", p.input[start:p.pos], err)
	}
	return value, nil
}

// Clock reports the current time. Useful as a trivially deterministic tool
// when exercising planner loops.
type Clock struct {
	// Now overrides the time source, nil means time.Now.
	Now func() time.Time
}

// Name returns the tool's identifier.
func (Clock) Name() string { return "clock" }

// Description returns what the tool does.
func (Clock) Description() string {
	return "Get the current date and time (input is ignored)"
}

// Run returns the current time in RFC 3339 format.
func (c Clock) Run(_ context.Context, _ string) (Result, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return Result{Content: now().Format(time.RFC3339)}, nil
}

// DefaultRegistry returns a registry preloaded with the built-in tools.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Calculator{})
	r.Register(Clock{})
	return r
}
