package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// fields maps the filter fields to the columns of the exports table.
var fields = map[string]string{
	"kind":          "kind",
	"filename":      "filename",
	"assessment_id": "assessment_id",
	"content_type":  "content_type",
	"size":          "size",
	"created_at":    "created_at",
}

type SizeUnit int

const (
	NoSizeUnit SizeUnit = iota
	KbSizeUnit
	MbSizeUnit
	GbSizeUnit
	TbSizeUnit
)

func (u SizeUnit) String() string {
	switch u {
	case KbSizeUnit:
		return "KB"
	case MbSizeUnit:
		return "MB"
	case GbSizeUnit:
		return "GB"
	case TbSizeUnit:
		return "TB"
	default:
		return ""
	}
}

// bytes returns the number of bytes of one unit.
func (u SizeUnit) bytes() float64 {
	switch u {
	case KbSizeUnit:
		return 1 << 10
	case MbSizeUnit:
		return 1 << 20
	case GbSizeUnit:
		return 1 << 30
	case TbSizeUnit:
		return 1 << 40
	default:
		return 1
	}
}

// Expression is the abstract syntax tree of a filter.
type Expression interface {
	String() string
	Sql() string
}

// binaryExpression is a comparison like "kind = 'pdf'" or a logical "a and b".
type binaryExpression struct {
	Left  Expression
	Op    Token
	Right Expression
}

func (e *binaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op.String(), e.Right.String())
}

func (e *binaryExpression) Sql() string {
	switch e.Op {
	case like:
		return fmt.Sprintf("regexp_matches(%s, %s)", e.Left.Sql(), e.Right.Sql())
	case notLike:
		return fmt.Sprintf("NOT regexp_matches(%s, %s)", e.Left.Sql(), e.Right.Sql())
	default:
		return fmt.Sprintf("(%s %s %s)", e.Left.Sql(), e.Op.Sql(), e.Right.Sql())
	}
}

type stringExpression struct {
	Value string
}

func (e *stringExpression) String() string {
	return strconv.Quote(e.Value)
}

func (e *stringExpression) Sql() string {
	return quote(e.Value)
}

// fieldExpression references a column of the exports table.
type fieldExpression struct {
	Name   string
	Column string
}

func newFieldExpression(pos int, name string) *fieldExpression {
	column, ok := fields[strings.ToLower(name)]
	if !ok {
		panic(ParseError{pos, fmt.Sprintf("unknown field %q", name)})
	}
	return &fieldExpression{Name: name, Column: column}
}

func (f *fieldExpression) String() string {
	return f.Name
}

func (f *fieldExpression) Sql() string {
	return strconv.Quote(f.Column)
}

type regexExpression struct {
	Pattern string
}

func newRegexExpression(pos int, pattern string) *regexExpression {
	if _, err := regexp.Compile(pattern); err != nil {
		panic(ParseError{pos, fmt.Sprintf("invalid regex: %s", err)})
	}
	return &regexExpression{Pattern: pattern}
}

func (r *regexExpression) String() string {
	return fmt.Sprintf("/%s/", r.Pattern)
}

func (r *regexExpression) Sql() string {
	return quote(r.Pattern)
}

// sizeExpression is a number with an optional unit, compared in bytes.
type sizeExpression struct {
	Value float64
	Unit  SizeUnit
}

func newSizeExpression(pos int, val string) *sizeExpression {
	e := &sizeExpression{Unit: NoSizeUnit}

	num := val
	if len(val) > 2 {
		switch strings.ToLower(val[len(val)-2:]) {
		case "kb":
			e.Unit = KbSizeUnit
		case "mb":
			e.Unit = MbSizeUnit
		case "gb":
			e.Unit = GbSizeUnit
		case "tb":
			e.Unit = TbSizeUnit
		}
		if e.Unit != NoSizeUnit {
			num = val[:len(val)-2]
		}
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		panic(ParseError{pos, fmt.Sprintf("invalid size %q", val)})
	}
	e.Value = v
	return e
}

func (s *sizeExpression) String() string {
	return strconv.FormatFloat(s.Value, 'f', -1, 64) + s.Unit.String()
}

func (s *sizeExpression) Sql() string {
	return strconv.FormatFloat(s.Value*s.Unit.bytes(), 'f', 0, 64)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
