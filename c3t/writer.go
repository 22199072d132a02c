package c3t

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Value kinds writable by Write. Composite domain types (Document, Mesh,
// Material, Node) convert themselves into this closed set via Value().
type Kind int

const (
	Null Kind = iota
	String
	Bool
	Int
	Float
	Array
	Object
	// Table is an Array that wraps onto a new line every PerLine items and
	// formats numbers in fixed-width columns.
	Table
	// Inline forces the whole subtree onto a single line. A Table nested in
	// an Inline keeps its number formats but loses its line breaks.
	Inline
)

type Value struct {
	Kind    Kind
	Str     string
	Bool    bool
	Int     int
	Float   float64
	Items   []*Value
	Keys    []string
	Values  []*Value
	PerLine int
}

func NewString(s string) *Value { return &Value{Kind: String, Str: s} }

func NewNull() *Value { return &Value{Kind: Null} }

func NewBool(b bool) *Value { return &Value{Kind: Bool, Bool: b} }

func NewInt(i int) *Value { return &Value{Kind: Int, Int: i} }

func NewFloat(f float64) *Value { return &Value{Kind: Float, Float: f} }

func NewArray(items ...*Value) *Value { return &Value{Kind: Array, Items: items} }

func NewObject() *Value { return &Value{Kind: Object} }

func NewTable(items []*Value, perLine int) *Value {
	return &Value{Kind: Table, Items: items, PerLine: perLine}
}

func NewInline(v *Value) *Value { return &Value{Kind: Inline, Items: []*Value{v}} }

// Set appends a key. Keys are emitted in insertion order.
func (v *Value) Set(key string, val *Value) *Value {
	v.Keys = append(v.Keys, key)
	v.Values = append(v.Values, val)
	return v
}

func NewFloatArray(f []float64) []*Value {
	items := make([]*Value, len(f))
	for i, v := range f {
		items[i] = NewFloat(v)
	}
	return items
}

func NewIntArray(n []int) []*Value {
	items := make([]*Value, len(n))
	for i, v := range n {
		items[i] = NewInt(v)
	}
	return items
}

const indentStep = "    "

// Table cells use fixed-width columns so that rows line up.
const (
	tableIntFormat   = "%5d"
	tableFloatFormat = "%12.7f"
)

type writer struct {
	w           *bufio.Writer
	intFormat   string
	floatFormat string
	inline      bool
}

// Write serializes the value tree followed by a trailing newline.
func Write(ww io.Writer, v *Value) error {
	w := bufio.NewWriter(ww)
	e := &writer{w: w}
	e.encode(v, 0)
	w.WriteByte('\n')
	return w.Flush()
}

func (e *writer) encode(v *Value, indent int) {
	switch v.Kind {
	case String:
		e.w.WriteByte('"')
		e.w.WriteString(v.Str)
		e.w.WriteByte('"')
	case Null:
		e.w.WriteString("null")
	case Bool:
		if v.Bool {
			e.w.WriteString("true")
		} else {
			e.w.WriteString("false")
		}
	case Int:
		if e.intFormat == "" {
			e.w.WriteString(strconv.Itoa(v.Int))
		} else {
			fmt.Fprintf(e.w, e.intFormat, v.Int)
		}
	case Float:
		if e.floatFormat == "" {
			e.w.WriteString(formatFloat(v.Float))
		} else {
			fmt.Fprintf(e.w, e.floatFormat, v.Float)
		}
	case Array:
		e.encodeArray(v.Items, indent, 1)
	case Table:
		intFormat, floatFormat := e.intFormat, e.floatFormat
		e.intFormat, e.floatFormat = tableIntFormat, tableFloatFormat
		perLine := v.PerLine
		if perLine < 1 {
			perLine = 1
		}
		e.encodeArray(v.Items, indent, perLine)
		e.intFormat, e.floatFormat = intFormat, floatFormat
	case Inline:
		inline := e.inline
		e.inline = true
		e.encode(v.Items[0], indent)
		e.inline = inline
	case Object:
		e.encodeObject(v, indent)
	}
}

func (e *writer) encodeArray(items []*Value, indent, perLine int) {
	if len(items) == 0 {
		e.w.WriteString("[]")
		return
	}
	indent++
	nl := "\n" + strings.Repeat(indentStep, indent)
	sep := ""
	e.w.WriteByte('[')
	for i, item := range items {
		e.w.WriteString(sep)
		sep = ", "
		if !e.inline && i%perLine == 0 {
			e.w.WriteString(nl)
		}
		e.encode(item, indent)
	}
	if !e.inline {
		indent--
		e.w.WriteString("\n" + strings.Repeat(indentStep, indent))
	}
	e.w.WriteByte(']')
}

func (e *writer) encodeObject(v *Value, indent int) {
	if len(v.Keys) == 0 {
		e.w.WriteString("{}")
		return
	}
	indent++
	nl := "\n" + strings.Repeat(indentStep, indent)
	e.w.WriteString("{" + nl)
	sep := ""
	for i, key := range v.Keys {
		e.w.WriteString(sep)
		sep = "," + nl
		e.w.WriteByte('"')
		e.w.WriteString(key)
		e.w.WriteString("\": ")
		e.encode(v.Values[i], indent)
	}
	indent--
	e.w.WriteString("\n" + strings.Repeat(indentStep, indent) + "}")
}

// formatFloat prints the shortest decimal that round-trips. Exponent form
// is used only below 1e-4 and at 1e16 and above; integral values keep a
// ".0" so floats stay distinguishable from ints.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		if exp, err := strconv.Atoi(s[i+1:]); err == nil && exp >= -4 && exp < 16 {
			s = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
