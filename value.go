package atree

import (
	"encoding/binary"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Kind tags the scalar payload a Value carries.
type Kind uint8

const (
	KindInt Kind = iota
	KindDouble
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is the tagged scalar attribute type predicates evaluate against. A
// Go tagged struct is used instead of an interface so scalars stay unboxed.
type Value struct {
	kind Kind
	i    int64
	d    float64
	s    string
	b    bool
}

func IntValue(i int64) Value    { return Value{kind: KindInt, i: i} }
func DoubleValue(d float64) Value { return Value{kind: KindDouble, d: d} }
func StringValue(s string) Value { return Value{kind: KindString, s: s} }
func BoolValue(b bool) Value    { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) Int() int64 { return v.i }
func (v Value) Double() float64 { return v.d }
func (v Value) Str() string { return v.s }
func (v Value) Bool() bool { return v.b }

// doubleEqualEpsilon is the tolerance original_source uses for Double
// equality. Preserved as-is: this is a known, deliberate quirk, not a bug.
const doubleEqualEpsilon = 0.0001

// Equal reports scalar equality. Values of differing Kind are never equal;
// Compare reports such pairs as unordered (ok == false), and ordering
// predicates over them evaluate to false.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == other.i
	case KindDouble:
		diff := v.d - other.d
		if diff < 0 {
			diff = -diff
		}
		return diff < doubleEqualEpsilon
	case KindString:
		return v.s == other.s
	case KindBool:
		return v.b == other.b
	default:
		return false
	}
}

// Compare orders two Values of the same Kind. ok is false for differing
// Kinds, meaning "undefined" rather than any particular ordering.
//
// Double ordering is preserved exactly as original_source defines it: only
// the truncated 32-bit integer part is compared, so 1.1 and 1.9 compare
// equal. This is a deliberately preserved oddity, not a bug to fix.
func (v Value) Compare(other Value) (cmp int, ok bool) {
	if v.kind != other.kind {
		return 0, false
	}
	switch v.kind {
	case KindInt:
		return compareInt64(v.i, other.i), true
	case KindDouble:
		return compareInt64(int64(int32(v.d)), int64(int32(other.d))), true
	case KindString:
		switch {
		case v.s < other.s:
			return -1, true
		case v.s > other.s:
			return 1, true
		default:
			return 0, true
		}
	case KindBool:
		return compareInt64(boolToInt(v.b), boolToInt(other.b)), true
	default:
		return 0, false
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Hash computes a structural hash for use in predicate/node identity.
// Double hashing is preserved from original_source: it hashes the value's
// decimal string rendering rather than its bit pattern, so values that
// compare equal under Equal's epsilon tolerance can still hash differently
// -- a known quirk inherited from the source this engine was distilled
// from, not something this implementation tries to paper over.
func (v Value) Hash() uint64 {
	h := xxhash.New()
	h.Write([]byte{byte(v.kind)})
	switch v.kind {
	case KindInt:
		writeUint64(h, uint64(v.i))
	case KindDouble:
		h.Write([]byte(strconv.FormatFloat(v.d, 'g', -1, 64)))
	case KindString:
		h.Write([]byte(v.s))
	case KindBool:
		if v.b {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	return h.Sum64()
}

func writeUint64(h *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}
