// Package script provides the in-memory model of a Clausewitz/Paradox
// script document and its serializer.
//
// A document is an ordered mapping of keys to values. Values form a tree:
// identifiers, strings, integers, arrays (blocks without key/value pairs)
// and objects (blocks with at least one pair). Comments and original
// layout are not part of the model.
package script

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindIdent Kind = iota
	KindString
	KindNumber
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindIdent:
		return "ident"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Value is a tagged union over the script value variants.
// The zero Value is the empty identifier.
type Value struct {
	kind  Kind
	text  string
	num   int64
	items []Value
	doc   *Document
}

// Ident returns a bare identifier value.
func Ident(s string) Value { return Value{kind: KindIdent, text: s} }

// String returns a quoted string value.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Number returns an integer value.
func Number(n int64) Value { return Value{kind: KindNumber, num: n} }

// Array returns an array value holding items in order.
func Array(items ...Value) Value { return Value{kind: KindArray, items: items} }

// Object returns an object value wrapping doc. A nil doc is replaced by an
// empty document.
func Object(doc *Document) Value {
	if doc == nil {
		doc = NewDocument()
	}
	return Value{kind: KindObject, doc: doc}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsScalar reports whether v is an identifier, string or number.
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindIdent, KindString, KindNumber:
		return true
	}
	return false
}

// AsString returns the text of an identifier or string value.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindIdent, KindString:
		return v.text, true
	}
	return "", false
}

// AsNumber returns the integer of a number value.
func (v Value) AsNumber() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Items returns the elements of an array value, nil otherwise.
// The returned slice is shared with v.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.items
}

// Document returns the document of an object value, nil otherwise.
// Mutations through the returned document are visible through v.
func (v Value) Document() *Document {
	if v.kind != KindObject {
		return nil
	}
	return v.doc
}

// GoString renders v in script syntax on a single line, for debugging.
func (v Value) GoString() string {
	switch v.kind {
	case KindIdent:
		return v.text
	case KindString:
		return strconv.Quote(v.text)
	case KindNumber:
		return strconv.FormatInt(v.num, 10)
	case KindArray:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.GoString()
		}
		return "{ " + strings.Join(parts, " ") + " }"
	case KindObject:
		return fmt.Sprintf("object(%d keys)", v.doc.Len())
	default:
		return fmt.Sprintf("Value(%s)", v.kind)
	}
}

// Equal reports whether a and b are structurally equal. Objects compare
// keys in order, every value of repeated keys, and loose values.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindIdent, KindString:
		return a.text == b.text
	case KindNumber:
		return a.num == b.num
	case KindArray:
		return valuesEqual(a.items, b.items)
	case KindObject:
		return a.doc.Equal(b.doc)
	default:
		return false
	}
}

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
