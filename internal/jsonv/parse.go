package jsonv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
	"github.com/dop251/goja/token"
)

// MaxParseDepth caps array and object nesting accepted by Parse and
// ParseLenient
const MaxParseDepth = 10000

var (
	// ErrTrailingData is returned when a payload holds more than one JSON value
	ErrTrailingData = errors.New("jsonv: trailing data after top-level value")

	// ErrTooDeep is returned when nesting exceeds MaxParseDepth
	ErrTooDeep = errors.New("jsonv: nesting exceeds maximum depth")
)

// Parse decodes strict JSON, keeping object key order and number literals
func Parse(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return v, nil
}

// ParseString is Parse for string input
func ParseString(s string) (*Value, error) {
	return Parse([]byte(s))
}

func decodeValue(dec *json.Decoder, depth int) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		if depth >= MaxParseDepth {
			return nil, ErrTooDeep
		}
		switch t {
		case '{':
			obj := &Value{kind: Object}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("jsonv: object key is %T", keyTok)
				}
				val, err := decodeValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := &Value{kind: Array}
			for dec.More() {
				val, err := decodeValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				arr.items = append(arr.items, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("jsonv: unexpected delimiter %q", rune(t))
	case string:
		return NewString(t), nil
	case json.Number:
		return NewNumber(t.String()), nil
	case bool:
		return NewBool(t), nil
	case nil:
		return NewNull(), nil
	}
	return nil, fmt.Errorf("jsonv: unexpected token %T", tok)
}

// ParseLenient accepts JavaScript object-literal payloads: unquoted keys,
// single-quoted strings, trailing commas and array holes. Nothing is
// evaluated. The payload is parsed with the goja parser and every node must
// be an object, array, string, number, boolean or null literal; calls,
// functions, identifiers and operators are rejected.
func ParseLenient(src string) (*Value, error) {
	if err := checkLiteralTokens(src); err != nil {
		return nil, err
	}
	prog, err := parser.ParseFile(nil, "", "("+src+"\n)", 0)
	if err != nil {
		return nil, fmt.Errorf("jsonv: lenient parse failed: %w", err)
	}
	if len(prog.Body) != 1 {
		return nil, errors.New("jsonv: lenient payload must be a single expression")
	}
	stmt, ok := prog.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, fmt.Errorf("jsonv: lenient payload is a %T", prog.Body[0])
	}
	v, err := fromLiteral(stmt.Expression)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.New("jsonv: lenient payload is undefined")
	}
	return v, nil
}

// checkLiteralTokens rejects, before parsing, anything a literal cannot
// contain: operators other than a numeric sign, parentheses, templates,
// comments, and a word followed by anything but a separator. This also
// bounds parser recursion by the bracket depth.
func checkLiteralTokens(src string) error {
	const (
		start = iota
		open
		sep
		sign
		word
		value
	)
	depth := 0
	prev := start

	for i := 0; i < len(src); {
		c := src[i]
		if isSpace(c) {
			i++
			continue
		}
		if prev == word && c != ':' && c != ',' && c != '}' && c != ']' {
			return fmt.Errorf("jsonv: unexpected %q after identifier at offset %d", c, i)
		}
		if prev == sign && !isDigit(c) && c != '.' {
			return fmt.Errorf("jsonv: sign without number at offset %d", i)
		}

		switch {
		case c == '"' || c == '\'':
			end := skipString(src, i)
			if end < 0 {
				return fmt.Errorf("jsonv: unterminated string at offset %d", i)
			}
			i, prev = end, value
		case c == '{' || c == '[':
			depth++
			if depth > MaxParseDepth {
				return ErrTooDeep
			}
			i, prev = i+1, open
		case c == '}' || c == ']':
			depth--
			if depth < 0 {
				return fmt.Errorf("jsonv: unbalanced %q at offset %d", c, i)
			}
			i, prev = i+1, value
		case c == ',' || c == ':':
			i, prev = i+1, sep
		case c == '-' || c == '+':
			if prev != start && prev != open && prev != sep {
				return fmt.Errorf("jsonv: unexpected operator %q at offset %d", c, i)
			}
			i, prev = i+1, sign
		case isDigit(c) || c == '.':
			i, prev = skipNumber(src, i), value
		case isWordByte(c):
			for i < len(src) && (isWordByte(src[i]) || isDigit(src[i])) {
				i++
			}
			prev = word
		default:
			return fmt.Errorf("jsonv: unexpected %q at offset %d", c, i)
		}
	}
	return nil
}

func skipString(src string, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return -1
}

func skipNumber(src string, i int) int {
	for i < len(src) {
		c := src[i]
		switch {
		case isDigit(c) || isWordByte(c) || c == '.':
			i++
		case (c == '+' || c == '-') && (src[i-1] == 'e' || src[i-1] == 'E'):
			i++
		default:
			return i
		}
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// isWordByte covers identifier bytes; non-ASCII bytes are left to the parser
func isWordByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

var jsonNumber = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?(?:[eE][+-]?\d+)?$`)

// fromLiteral converts a literal expression. A nil Value with a nil error
// means undefined, which is dropped from objects and null in arrays, as
// JSON.stringify does.
func fromLiteral(expr ast.Expression) (*Value, error) {
	switch n := expr.(type) {
	case *ast.ObjectLiteral:
		obj := NewObject()
		for _, p := range n.Value {
			keyed, ok := p.(*ast.PropertyKeyed)
			if !ok || keyed.Computed || keyed.Kind != ast.PropertyKindValue {
				return nil, fmt.Errorf("jsonv: unsupported property %T", p)
			}
			key, err := propertyKey(keyed.Key)
			if err != nil {
				return nil, err
			}
			val, err := fromLiteral(keyed.Value)
			if err != nil {
				return nil, err
			}
			if val != nil {
				obj.Set(key, val)
			}
		}
		return obj, nil
	case *ast.ArrayLiteral:
		arr := NewArray()
		for _, item := range n.Value {
			if item == nil {
				arr.Append(NewNull())
				continue
			}
			val, err := fromLiteral(item)
			if err != nil {
				return nil, err
			}
			if val == nil {
				val = NewNull()
			}
			arr.Append(val)
		}
		return arr, nil
	case *ast.StringLiteral:
		return NewString(n.Value.String()), nil
	case *ast.NumberLiteral:
		return numberLiteral(n.Literal, n.Value, false)
	case *ast.UnaryExpression:
		num, ok := n.Operand.(*ast.NumberLiteral)
		if !ok || n.Postfix || (n.Operator != token.MINUS && n.Operator != token.PLUS) {
			return nil, fmt.Errorf("jsonv: unsupported operator %s", n.Operator)
		}
		return numberLiteral(num.Literal, num.Value, n.Operator == token.MINUS)
	case *ast.BooleanLiteral:
		return NewBool(n.Value), nil
	case *ast.NullLiteral:
		return NewNull(), nil
	case *ast.Identifier:
		if n.Name == "undefined" {
			return nil, nil
		}
		return nil, fmt.Errorf("jsonv: identifier %q is not a literal", n.Name)
	}
	return nil, fmt.Errorf("jsonv: %T is not a literal", expr)
}

func propertyKey(key ast.Expression) (string, error) {
	switch k := key.(type) {
	case *ast.StringLiteral:
		return k.Value.String(), nil
	case *ast.NumberLiteral:
		v, err := numberLiteral(k.Literal, k.Value, false)
		if err != nil {
			return "", err
		}
		return v.Text(), nil
	}
	return "", fmt.Errorf("jsonv: unsupported key %T", key)
}

// numberLiteral keeps plain decimal literals verbatim so long ids stay exact;
// hex, octal and leading-dot forms are normalised through their value
func numberLiteral(lit string, val interface{}, negative bool) (*Value, error) {
	if negative {
		lit = "-" + lit
	}
	if jsonNumber.MatchString(lit) {
		return NewNumber(lit), nil
	}

	switch n := val.(type) {
	case int64:
		if negative {
			n = -n
		}
		return NewNumber(strconv.FormatInt(n, 10)), nil
	case float64:
		if negative {
			n = -n
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return NewNull(), nil
		}
		return NewNumber(strconv.FormatFloat(n, 'g', -1, 64)), nil
	}
	return nil, fmt.Errorf("jsonv: unsupported number literal %q", lit)
}
