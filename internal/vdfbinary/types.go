// Package vdfbinary parses and writes Valve's binary VDF format, used by
// Steam for files like shortcuts.vdf.
//
// Parsing is adapted from github.com/TimDeve/valve-vdf-binary (MIT).
// Key case from the source file is preserved; lookups are case-insensitive
// because Valve's own readers treat VDF keys case-insensitively.
package vdfbinary

import "strings"

const (
	markerMap         byte = 0x00
	markerString      byte = 0x01
	markerNumber      byte = 0x02
	markerEndOfMap    byte = 0x08
	markerEndOfString byte = 0x00
)

// Value is a single node in a binary VDF tree: a string, a uint32 or a Map.
type Value struct {
	v any
}

// Map is a VDF object keyed by name.
type Map map[string]Value

// NewString wraps a string as a Value.
func NewString(s string) Value { return Value{v: s} }

// NewUint wraps a number as a Value.
func NewUint(u uint32) Value { return Value{v: u} }

// NewMap wraps a Map as a Value.
func NewMap(m Map) Value { return Value{v: m} }

func (v Value) AsString() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

func (v Value) AsUint() (uint32, bool) {
	u, ok := v.v.(uint32)
	return u, ok
}

func (v Value) AsMap() (Map, bool) {
	m, ok := v.v.(Map)
	return m, ok
}

func (v Value) GetString(key string) (string, bool) {
	child, ok := v.get(key)
	if !ok {
		return "", false
	}
	return child.AsString()
}

func (v Value) GetUint(key string) (uint32, bool) {
	child, ok := v.get(key)
	if !ok {
		return 0, false
	}
	return child.AsUint()
}

func (v Value) GetMap(key string) (Map, bool) {
	child, ok := v.get(key)
	if !ok {
		return nil, false
	}
	return child.AsMap()
}

func (v Value) get(key string) (Value, bool) {
	m, ok := v.AsMap()
	if !ok {
		return Value{}, false
	}
	return m.Lookup(key)
}

// Lookup finds a key case-insensitively, preferring an exact match.
func (m Map) Lookup(key string) (Value, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return Value{}, false
}

// Set replaces an existing key case-insensitively, or inserts the key as
// given when no variant of it exists.
func (m Map) Set(key string, val Value) {
	if _, ok := m[key]; ok {
		m[key] = val
		return
	}
	for k := range m {
		if strings.EqualFold(k, key) {
			m[k] = val
			return
		}
	}
	m[key] = val
}
