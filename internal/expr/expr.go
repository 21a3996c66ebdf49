// Package expr compiles the small arithmetic language used to enter curves
// at the prompt, such as "y = sin(x)/x" or "p = cos(3t), sin(2t)".
//
// Operators are + - * / % and ^ (right-associative power, binding tighter
// than unary minus). A number or ')' followed by a name, number or '('
// multiplies, so "3t", "2pi" and "(x+1)(x-1)" work.
package expr

import (
	"fmt"
	"go/scanner"
	"go/token"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/juju/errors"
)

// Func is a compiled real function of one variable.
type Func func(v float64) float64

// Kind tells how a Curve's variable maps onto the plane.
type Kind int

const (
	// OfX is y = f(x).
	OfX Kind = iota
	// OfY is x = f(y).
	OfY
	// Parametric is (x, y) = (f(t), g(t)).
	Parametric
)

func (k Kind) String() string {
	switch k {
	case OfX:
		return "y(x)"
	case OfY:
		return "x(y)"
	case Parametric:
		return "p(t)"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Variable is the free variable of expressions of this kind.
func (k Kind) Variable() string {
	switch k {
	case OfY:
		return "y"
	case Parametric:
		return "t"
	}
	return "x"
}

// Curve is a parsed curve definition.
type Curve struct {
	Source string
	Kind   Kind
	// F is the only function of OfX and OfY curves and the x component of
	// a Parametric one.
	F Func
	// G is the y component of a Parametric curve.
	G Func
}

// ParseCurve parses "y = ...", "x = ..." or "p = fx, fy". A bare
// expression is taken as y = f(x).
func ParseCurve(src string) (Curve, error) {
	s := strings.TrimSpace(src)
	if s == "" {
		return Curve{}, errors.NotValidf("empty curve")
	}
	lhs, rhs, found := strings.Cut(s, "=")
	if !found {
		lhs, rhs = "y", s
	}
	c := Curve{Source: s}
	var err error
	switch strings.Join(strings.Fields(lhs), "") {
	case "y":
		c.Kind = OfX
		c.F, err = Compile(rhs, "x")
	case "x":
		c.Kind = OfY
		c.F, err = Compile(rhs, "y")
	case "p", "(x,y)":
		c.Kind = Parametric
		parts := splitPair(rhs)
		if len(parts) != 2 {
			return Curve{}, errors.NotValidf("parametric curve %q needs two components", strings.TrimSpace(rhs))
		}
		if c.F, err = Compile(parts[0], "t"); err != nil {
			return Curve{}, errors.Annotate(err, "x component")
		}
		if c.G, err = Compile(parts[1], "t"); err != nil {
			return Curve{}, errors.Annotate(err, "y component")
		}
	default:
		return Curve{}, errors.NotSupportedf("left-hand side %q", strings.TrimSpace(lhs))
	}
	if err != nil {
		return Curve{}, err
	}
	return c, nil
}

// splitPair splits s on commas outside parentheses. One pair of parentheses
// enclosing the whole list is dropped.
func splitPair(s string) []string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		if inner := splitTop(s[1 : len(s)-1]); len(inner) == 2 {
			return inner
		}
	}
	return splitTop(s)
}

func splitTop(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// Compile compiles src as a function of the named variable.
func Compile(src, variable string) (Func, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.NotValidf("empty expression")
	}
	p := newParser(src, variable)
	n, err := p.parse()
	if err != nil {
		return nil, errors.Annotatef(err, "compile %q", strings.TrimSpace(src))
	}
	return Func(n), nil
}

type node func(v float64) float64

var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
	"inf": math.Inf(1),
}

var unary = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"sqrt":  math.Sqrt,
	"abs":   math.Abs,
	"exp":   math.Exp,
	"ln":    math.Log,
	"log":   math.Log10,
	"log2":  math.Log2,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"round": math.Round,
	"sign": func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return v
	},
}

var binary = map[string]func(a, b float64) float64{
	"pow":   math.Pow,
	"atan2": math.Atan2,
	"min":   math.Min,
	"max":   math.Max,
	"mod":   math.Mod,
	"hypot": math.Hypot,
}

type parser struct {
	s        scanner.Scanner
	errs     scanner.ErrorList
	variable string
	// offsets of the spaces inserted by splitNumbers
	inserted []int

	pos token.Pos
	tok token.Token
	lit string
}

func newParser(src, variable string) *parser {
	p := &parser{variable: variable}
	src, p.inserted = splitNumbers(src)
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))
	p.s.Init(file, []byte(src), func(pos token.Position, msg string) {
		p.errs.Add(pos, msg)
	}, 0)
	p.next()
	return p
}

func (p *parser) next() {
	p.pos, p.tok, p.lit = p.s.Scan()
	// the scanner inserts a semicolon after a trailing name or literal
	if p.tok == token.SEMICOLON && p.lit == "\n" {
		p.tok = token.EOF
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.NotValidf("%s at offset %d", fmt.Sprintf(format, args...), p.offset())
}

// offset is the position of the current token in the caller's source.
func (p *parser) offset() int {
	off := int(p.pos) - 1
	n := 0
	for _, i := range p.inserted {
		if i < off {
			n++
		}
	}
	return off - n
}

// splitNumbers puts a space between a decimal literal and a name directly
// after it, so "2pi" scans as 2 times pi rather than one malformed literal.
func splitNumbers(src string) (string, []int) {
	var (
		b        strings.Builder
		inserted []int
	)
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case isLetter(c):
			j := i + 1
			for j < len(src) && (isLetter(src[j]) || isDigit(src[j])) {
				j++
			}
			b.WriteString(src[i:j])
			i = j
		case isDigit(c) || c == '.' && i+1 < len(src) && isDigit(src[i+1]):
			j := scanDecimal(src, i)
			b.WriteString(src[i:j])
			i = j
			if j < len(src) && isLetter(src[j]) {
				inserted = append(inserted, b.Len())
				b.WriteByte(' ')
			}
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), inserted
}

// scanDecimal returns the end of the decimal literal starting at i. An
// exponent is only taken when digits follow it.
func scanDecimal(src string, i int) int {
	digits := func(j int) int {
		for j < len(src) && isDigit(src[j]) {
			j++
		}
		return j
	}
	j := digits(i)
	if j < len(src) && src[j] == '.' {
		j = digits(j + 1)
	}
	if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
		k := j + 1
		if k < len(src) && (src[k] == '+' || src[k] == '-') {
			k++
		}
		if k < len(src) && isDigit(src[k]) {
			j = digits(k)
		}
	}
	return j
}

func isDigit(c byte) bool  { return '0' <= c && c <= '9' }
func isLetter(c byte) bool { return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c >= utf8.RuneSelf }

func (p *parser) parse() (node, error) {
	n, err := p.sum()
	if err == nil && p.tok != token.EOF {
		err = p.errorf("unexpected %s", p.describe())
	}
	if err == nil && p.errs.Len() > 0 {
		err = errors.Trace(p.errs.Err())
	}
	return n, err
}

func (p *parser) describe() string {
	if p.lit != "" {
		return strconv.Quote(p.lit)
	}
	return strconv.Quote(p.tok.String())
}

func (p *parser) sum() (node, error) {
	x, err := p.product()
	if err != nil {
		return nil, err
	}
	for p.tok == token.ADD || p.tok == token.SUB {
		op := p.tok
		p.next()
		y, err := p.product()
		if err != nil {
			return nil, err
		}
		a := x
		if op == token.ADD {
			x = func(v float64) float64 { return a(v) + y(v) }
		} else {
			x = func(v float64) float64 { return a(v) - y(v) }
		}
	}
	return x, nil
}

func (p *parser) product() (node, error) {
	x, err := p.signed()
	if err != nil {
		return nil, err
	}
	for {
		op := p.tok
		switch op {
		case token.MUL, token.QUO, token.REM:
			p.next()
		case token.IDENT, token.INT, token.FLOAT, token.LPAREN:
			op = token.MUL
		default:
			return x, nil
		}
		y, err := p.signed()
		if err != nil {
			return nil, err
		}
		a := x
		switch op {
		case token.MUL:
			x = func(v float64) float64 { return a(v) * y(v) }
		case token.QUO:
			x = func(v float64) float64 { return a(v) / y(v) }
		default:
			x = func(v float64) float64 { return math.Mod(a(v), y(v)) }
		}
	}
}

func (p *parser) signed() (node, error) {
	switch p.tok {
	case token.SUB:
		p.next()
		x, err := p.signed()
		if err != nil {
			return nil, err
		}
		return func(v float64) float64 { return -x(v) }, nil
	case token.ADD:
		p.next()
		return p.signed()
	}
	return p.power()
}

func (p *parser) power() (node, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.tok != token.XOR {
		return x, nil
	}
	p.next()
	// right-associative, and 2^-x is allowed
	y, err := p.signed()
	if err != nil {
		return nil, err
	}
	return func(v float64) float64 { return math.Pow(x(v), y(v)) }, nil
}

func (p *parser) primary() (node, error) {
	switch p.tok {
	case token.INT, token.FLOAT:
		c, err := strconv.ParseFloat(p.lit, 64)
		if err != nil {
			return nil, p.errorf("bad number %q", p.lit)
		}
		p.next()
		return func(float64) float64 { return c }, nil
	case token.LPAREN:
		p.next()
		x, err := p.sum()
		if err != nil {
			return nil, err
		}
		if p.tok != token.RPAREN {
			return nil, p.errorf("expected ')', found %s", p.describe())
		}
		p.next()
		return x, nil
	case token.IDENT:
		name := p.lit
		p.next()
		if _, ok := unary[name]; ok {
			return p.call(name)
		}
		if _, ok := binary[name]; ok {
			return p.call(name)
		}
		if name == p.variable {
			return func(v float64) float64 { return v }, nil
		}
		if c, ok := constants[name]; ok {
			return func(float64) float64 { return c }, nil
		}
		return nil, errors.NotFoundf("name %q", name)
	case token.EOF:
		return nil, p.errorf("unexpected end of expression")
	}
	return nil, p.errorf("unexpected %s", p.describe())
}

func (p *parser) call(name string) (node, error) {
	if p.tok != token.LPAREN {
		return nil, p.errorf("expected '(' after %s", name)
	}
	p.next()
	var args []node
	for p.tok != token.RPAREN {
		if len(args) > 0 {
			if p.tok != token.COMMA {
				return nil, p.errorf("expected ',' or ')', found %s", p.describe())
			}
			p.next()
		}
		a, err := p.sum()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	p.next()

	if f, ok := unary[name]; ok {
		if len(args) != 1 {
			return nil, errors.NotValidf("%s with %d arguments", name, len(args))
		}
		a := args[0]
		return func(v float64) float64 { return f(a(v)) }, nil
	}
	f := binary[name]
	if len(args) != 2 {
		return nil, errors.NotValidf("%s with %d arguments", name, len(args))
	}
	a, b := args[0], args[1]
	return func(v float64) float64 { return f(a(v), b(v)) }, nil
}
