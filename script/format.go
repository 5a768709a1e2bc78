package script

import (
	"io"
	"strconv"
	"strings"
)

const indentUnit = "    "

// Format renders doc as script text.
//
// Top-level entries are separated by blank lines, nested blocks are
// indented by four spaces per level, arrays of scalars stay on one line,
// and every value of a repeated key gets its own line. Loose values follow
// the keyed entries of their block. Strings are quoted as-is: embedded
// quotes and backslashes are not escaped.
func Format(doc *Document) string {
	var p printer
	for k, v := range doc.All() {
		p.b.WriteString(k)
		p.b.WriteString(" = ")
		p.value(v, 0)
		p.b.WriteString("\n\n")
	}
	for _, v := range doc.Loose() {
		p.value(v, 0)
		p.b.WriteString("\n\n")
	}
	return strings.TrimRight(p.b.String(), " \t\r\n") + "\n"
}

// Write renders doc to w. See Format.
func Write(w io.Writer, doc *Document) error {
	_, err := io.WriteString(w, Format(doc))
	return err
}

type printer struct {
	b strings.Builder
}

func (p *printer) pad(indent int) {
	for range indent {
		p.b.WriteString(indentUnit)
	}
}

func (p *printer) value(v Value, indent int) {
	switch v.Kind() {
	case KindIdent:
		p.b.WriteString(v.text)
	case KindString:
		p.b.WriteByte('"')
		p.b.WriteString(v.text)
		p.b.WriteByte('"')
	case KindNumber:
		p.b.WriteString(strconv.FormatInt(v.num, 10))
	case KindArray:
		p.array(v.items, indent)
	case KindObject:
		p.object(v.doc, indent)
	}
}

func (p *printer) array(items []Value, indent int) {
	if allScalar(items) {
		if len(items) == 0 {
			p.b.WriteString("{ }")
			return
		}
		p.b.WriteString("{ ")
		for i, item := range items {
			if i > 0 {
				p.b.WriteByte(' ')
			}
			p.value(item, indent+1)
		}
		p.b.WriteString(" }")
		return
	}
	p.b.WriteString("{\n")
	for _, item := range items {
		p.pad(indent + 1)
		p.value(item, indent+1)
		p.b.WriteByte('\n')
	}
	p.pad(indent)
	p.b.WriteByte('}')
}

func (p *printer) object(doc *Document, indent int) {
	if doc.Len() == 0 && len(doc.loose) == 0 {
		p.b.WriteString("{ }")
		return
	}
	p.b.WriteString("{\n")
	for k, v := range doc.All() {
		p.pad(indent + 1)
		p.b.WriteString(k)
		p.b.WriteString(" = ")
		p.value(v, indent+1)
		p.b.WriteByte('\n')
	}
	for _, v := range doc.loose {
		p.pad(indent + 1)
		p.value(v, indent+1)
		p.b.WriteByte('\n')
	}
	p.pad(indent)
	p.b.WriteByte('}')
}

func allScalar(items []Value) bool {
	for _, item := range items {
		if !item.IsScalar() {
			return false
		}
	}
	return true
}
