package model

import (
	"fmt"
	"time"
)

// attrKind tags an AttrValue's active constructor (Design Note: "runtime-typed
// attribute values" — a sum type standing in for the configuration store's
// discriminated union over primitive attribute types, spec §6).
type attrKind int

const (
	attrInt32 attrKind = iota
	attrUint32
	attrInt64
	attrUint64
	attrName
	attrString
	attrTime
	attrFloat
	attrDouble
	attrOpaque
	attrMulti
)

// AttrValue is a single runtime attribute value of one of the primitive types
// named in spec §6 (int32, uint32, int64, uint64, name (DN), string, time,
// float, double, opaque bytes), or a Multi wrapping any number of values of a
// single underlying kind. Comparison and copy both dispatch on kind, never on
// Go's dynamic interface equality, so that e.g. two Opaque values with equal
// bytes but different slice headers compare equal.
type AttrValue struct {
	kind    attrKind
	i64     int64
	u64     uint64
	f64     float64
	str     string
	tm      time.Time
	opaque  []byte
	multi   []AttrValue
	isFloat bool // distinguishes Float (false) / Double (true) when kind==attrFloat/attrDouble isn't enough after copy
}

func Int32(v int32) AttrValue   { return AttrValue{kind: attrInt32, i64: int64(v)} }
func Uint32(v uint32) AttrValue { return AttrValue{kind: attrUint32, u64: uint64(v)} }
func Int64(v int64) AttrValue   { return AttrValue{kind: attrInt64, i64: v} }
func Uint64(v uint64) AttrValue { return AttrValue{kind: attrUint64, u64: v} }
func Name(dn string) AttrValue  { return AttrValue{kind: attrName, str: dn} }
func Str(s string) AttrValue    { return AttrValue{kind: attrString, str: s} }
func TimeVal(t time.Time) AttrValue {
	return AttrValue{kind: attrTime, tm: t}
}
func Float(v float32) AttrValue { return AttrValue{kind: attrFloat, f64: float64(v)} }
func Double(v float64) AttrValue {
	return AttrValue{kind: attrDouble, f64: v, isFloat: true}
}
func Opaque(b []byte) AttrValue {
	cp := make([]byte, len(b))
	copy(cp, b)
	return AttrValue{kind: attrOpaque, opaque: cp}
}
func Multi(values ...AttrValue) AttrValue {
	cp := make([]AttrValue, len(values))
	copy(cp, values)
	return AttrValue{kind: attrMulti, multi: cp}
}

// IsMulti reports whether this value wraps a multi-valued attribute.
func (v AttrValue) IsMulti() bool { return v.kind == attrMulti }

// Values returns the wrapped values of a Multi, or a single-element slice
// containing v itself otherwise.
func (v AttrValue) Values() []AttrValue {
	if v.kind == attrMulti {
		out := make([]AttrValue, len(v.multi))
		copy(out, v.multi)
		return out
	}
	return []AttrValue{v}
}

// AsString renders the value for display/templating purposes regardless of
// its underlying kind, mirroring the Config Adapter's need to hand CLC-CLI
// command templating a flat string context (see internal/template).
func (v AttrValue) AsString() string {
	switch v.kind {
	case attrInt32, attrInt64:
		return fmt.Sprintf("%d", v.i64)
	case attrUint32, attrUint64:
		return fmt.Sprintf("%d", v.u64)
	case attrName, attrString:
		return v.str
	case attrTime:
		return v.tm.Format(time.RFC3339)
	case attrFloat, attrDouble:
		return fmt.Sprintf("%g", v.f64)
	case attrOpaque:
		return fmt.Sprintf("<opaque %d bytes>", len(v.opaque))
	case attrMulti:
		out := "["
		for i, e := range v.multi {
			if i > 0 {
				out += ","
			}
			out += e.AsString()
		}
		return out + "]"
	default:
		return ""
	}
}

// Equal compares two AttrValues by kind and content.
func (v AttrValue) Equal(other AttrValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case attrInt32, attrInt64:
		return v.i64 == other.i64
	case attrUint32, attrUint64:
		return v.u64 == other.u64
	case attrName, attrString:
		return v.str == other.str
	case attrTime:
		return v.tm.Equal(other.tm)
	case attrFloat, attrDouble:
		return v.f64 == other.f64 && v.isFloat == other.isFloat
	case attrOpaque:
		if len(v.opaque) != len(other.opaque) {
			return false
		}
		for i := range v.opaque {
			if v.opaque[i] != other.opaque[i] {
				return false
			}
		}
		return true
	case attrMulti:
		if len(v.multi) != len(other.multi) {
			return false
		}
		for i := range v.multi {
			if !v.multi[i].Equal(other.multi[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy; Opaque and Multi hold slices that must not alias.
func (v AttrValue) Clone() AttrValue {
	out := v
	if v.kind == attrOpaque {
		out.opaque = make([]byte, len(v.opaque))
		copy(out.opaque, v.opaque)
	}
	if v.kind == attrMulti {
		out.multi = make([]AttrValue, len(v.multi))
		for i, e := range v.multi {
			out.multi[i] = e.Clone()
		}
	}
	return out
}

// AttrSet is a named collection of runtime attributes for an entity, used by
// the Config Adapter's runtime-attribute read callback (spec §4.2).
type AttrSet map[string]AttrValue

// Equal compares two AttrSets key by key.
func (a AttrSet) Equal(other AttrSet) bool {
	if len(a) != len(other) {
		return false
	}
	for k, v := range a {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the set.
func (a AttrSet) Clone() AttrSet {
	out := make(AttrSet, len(a))
	for k, v := range a {
		out[k] = v.Clone()
	}
	return out
}
