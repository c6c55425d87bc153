package plugins

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/poiesic/launchpad/core"
)

const (
	calculatorName  = "Calculator"
	calculatorScore = 0.9
	calculatorChars = "+-*/()0123456789."
)

// Calculator evaluates arithmetic expressions typed as queries.
type Calculator struct {
	logger *slog.Logger
}

var _ Plugin = (*Calculator)(nil)

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithCalculatorLogger sets a custom logger.
func WithCalculatorLogger(logger *slog.Logger) CalculatorOption {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCalculator creates a calculator plugin.
func NewCalculator(opts ...CalculatorOption) *Calculator {
	c := &Calculator{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("plugin", calculatorName)
	return c
}

func (c *Calculator) Name() string        { return calculatorName }
func (c *Calculator) Version() string     { return "1.0.0" }
func (c *Calculator) Description() string { return "Basic calculator for mathematical expressions" }

// CanHandle reports whether query contains a digit.
func (c *Calculator) CanHandle(query string) bool {
	return strings.ContainsAny(query, calculatorChars) &&
		strings.ContainsFunc(query, func(r rune) bool { return r >= '0' && r <= '9' })
}

// Search evaluates query. Expressions that do not evaluate yield no results.
func (c *Calculator) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	value, err := Evaluate(query)
	if err != nil {
		c.logger.Debug("expression not evaluated", "query", query, "err", err)
		return nil, nil
	}

	text := FormatNumber(value)
	result := core.NewSearchResult(fmt.Sprintf("%s = %s", query, text), "Mathematical calculation").
		WithAction(core.CopyToClipboard{Text: text}).
		WithCategory(core.PluginCategory(calculatorName)).
		WithScore(calculatorScore)
	return []core.SearchResult{result}, nil
}

// Execute logs the copied value; the copy itself is performed by the caller.
func (c *Calculator) Execute(ctx context.Context, result core.SearchResult) error {
	if action, ok := result.Action.(core.CopyToClipboard); ok {
		c.logger.Info("calculator result copied", "value", action.Text)
	}
	return nil
}

// FormatNumber renders v with the fewest digits that round-trip.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Evaluate computes an arithmetic expression of decimal numbers combined with
// + - * /, parentheses and unary signs, using the usual precedence.
func Evaluate(expr string) (float64, error) {
	p := &exprParser{src: expr}
	p.skipSpace()
	if p.done() {
		return 0, fmt.Errorf("%w: empty expression", ErrUnsupportedExpression)
	}

	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if !p.done() {
		return 0, fmt.Errorf("%w: unexpected %q at offset %d", ErrUnsupportedExpression, p.src[p.pos], p.pos)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result is not finite", ErrUnsupportedExpression)
	}
	return v, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) done() bool {
	return p.pos >= len(p.src)
}

func (p *exprParser) skipSpace() {
	for !p.done() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

// peek returns the next non-space byte, or 0 at the end of input.
func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

// expr := term (('+' | '-') term)*
func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
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

// term := factor (('*' | '/') factor)*
func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
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
			continue
		}
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		left /= right
	}
}

// factor := ('+' | '-') factor | '(' expr ')' | number
func (p *exprParser) parseFactor() (float64, error) {
	switch c := p.peek(); {
	case c == '-' || c == '+':
		p.pos++
		v, err := p.parseFactor()
		if c == '-' {
			v = -v
		}
		return v, err
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrUnsupportedExpression)
		}
		p.pos++
		return v, nil
	case c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case c == 0:
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrUnsupportedExpression)
	default:
		return 0, fmt.Errorf("%w: unexpected %q at offset %d", ErrUnsupportedExpression, c, p.pos)
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for !p.done() && (p.src[p.pos] == '.' || (p.src[p.pos] >= '0' && p.src[p.pos] <= '9')) {
		p.pos++
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number %q", ErrUnsupportedExpression, p.src[start:p.pos])
	}
	return v, nil
}
