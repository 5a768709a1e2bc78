package script

import (
	"iter"
	"slices"
)

// ResourceKey is the one key allowed to repeat within a block. Each
// occurrence is kept, in order, instead of replacing the previous one.
const ResourceKey = "resource"

// Document is an ordered mapping from keys to values, plus the values that
// appeared in the same block without a key.
//
// A Document is not safe for concurrent mutation.
type Document struct {
	keys    []string
	entries map[string][]Value
	loose   []Value
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{entries: make(map[string][]Value)}
}

// Len returns the number of distinct keys.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// Has reports whether key is present in d itself.
func (d *Document) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.entries[key]
	return ok
}

// Get returns the value stored under key. For a repeated key it returns
// the first occurrence.
func (d *Document) Get(key string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	vals, ok := d.entries[key]
	if !ok {
		return Value{}, false
	}
	return vals[0], true
}

// Values returns every value stored under key, in order.
func (d *Document) Values(key string) []Value {
	if d == nil {
		return nil
	}
	return slices.Clone(d.entries[key])
}

// Set stores v under key, replacing any previous values. A replaced key
// keeps its original position.
func (d *Document) Set(key string, v Value) {
	if _, ok := d.entries[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.entries[key] = []Value{v}
}

// Add stores v under key using the parser's insertion policy: ResourceKey
// accumulates every occurrence, any other key is overwritten as with Set.
func (d *Document) Add(key string, v Value) {
	if key != ResourceKey {
		d.Set(key, v)
		return
	}
	if _, ok := d.entries[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.entries[key] = append(d.entries[key], v)
}

// Delete removes key and all of its values.
func (d *Document) Delete(key string) {
	if _, ok := d.entries[key]; !ok {
		return
	}
	delete(d.entries, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
}

// Loose returns the values that appeared without a key.
func (d *Document) Loose() []Value {
	if d == nil {
		return nil
	}
	return slices.Clone(d.loose)
}

// AddLoose appends a value without a key.
func (d *Document) AddLoose(v Value) {
	d.loose = append(d.loose, v)
}

// All iterates over key/value pairs in order. A repeated key yields one
// pair per value.
func (d *Document) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if d == nil {
			return
		}
		for _, k := range d.keys {
			for _, v := range d.entries[k] {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// Equal reports whether d and other hold the same keys in the same order,
// structurally equal values, and the same loose values.
func (d *Document) Equal(other *Document) bool {
	if d.Len() != other.Len() || len(d.Loose()) != len(other.Loose()) {
		return false
	}
	for i, k := range d.Keys() {
		if other.keys[i] != k {
			return false
		}
		if !valuesEqual(d.entries[k], other.entries[k]) {
			return false
		}
	}
	return valuesEqual(d.Loose(), other.Loose())
}
