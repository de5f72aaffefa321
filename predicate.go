package atree

import "github.com/cespare/xxhash/v2"

// Predicate is a single-attribute test: given the attribute's Value, report
// whether it matches. Predicates carry no notion of which event field they
// apply to -- that association lives in PredicateStore, exactly as
// original_source keeps Predicate and the field keying separate.
type Predicate interface {
	ID() uint64
	Evaluate(v Value) bool
}

func idOf(tag string, parts ...uint64) uint64 {
	h := xxhash.New()
	h.Write([]byte(tag))
	for _, p := range parts {
		writeUint64(h, p)
	}
	return h.Sum64()
}

// EqualPredicate matches when the attribute equals Value exactly (per
// Value.Equal's quirks, including Double's epsilon tolerance).
type EqualPredicate struct{ Value Value }

func Equal(v Value) *EqualPredicate { return &EqualPredicate{Value: v} }

func (p *EqualPredicate) ID() uint64            { return idOf("eq", p.Value.Hash()) }
func (p *EqualPredicate) Evaluate(v Value) bool { return p.Value.Equal(v) }

// NotEqualPredicate is EqualPredicate's logical complement.
type NotEqualPredicate struct{ Value Value }

func NotEqual(v Value) *NotEqualPredicate { return &NotEqualPredicate{Value: v} }

func (p *NotEqualPredicate) ID() uint64            { return idOf("ne", p.Value.Hash()) }
func (p *NotEqualPredicate) Evaluate(v Value) bool { return !p.Value.Equal(v) }

// ordKind names the four ordering comparisons an OrdPredicate can perform.
type ordKind uint8

const (
	ordGreater ordKind = iota
	ordGreaterEqual
	ordLess
	ordLessEqual
)

func (k ordKind) tag() string {
	switch k {
	case ordGreater:
		return "gt"
	case ordGreaterEqual:
		return "gte"
	case ordLess:
		return "lt"
	default:
		return "lte"
	}
}

// OrdPredicate compares the attribute against Value using Compare. A
// cross-Kind comparison (ok == false) evaluates to false: ordering against
// an incomparable type is not a match, it is not raised as an error, and it
// is distinct from the Unknown produced by a missing attribute.
type OrdPredicate struct {
	Value Value
	kind  ordKind
}

func Greater(v Value) *OrdPredicate      { return &OrdPredicate{Value: v, kind: ordGreater} }
func GreaterEqual(v Value) *OrdPredicate { return &OrdPredicate{Value: v, kind: ordGreaterEqual} }
func Less(v Value) *OrdPredicate         { return &OrdPredicate{Value: v, kind: ordLess} }
func LessEqual(v Value) *OrdPredicate    { return &OrdPredicate{Value: v, kind: ordLessEqual} }

func (p *OrdPredicate) ID() uint64 { return idOf(p.kind.tag(), p.Value.Hash()) }

func (p *OrdPredicate) Evaluate(v Value) bool {
	cmp, ok := v.Compare(p.Value)
	if !ok {
		return false
	}
	switch p.kind {
	case ordGreater:
		return cmp > 0
	case ordGreaterEqual:
		return cmp >= 0
	case ordLess:
		return cmp < 0
	default:
		return cmp <= 0
	}
}

// SetPredicate tests membership in a fixed set of Values.
type SetPredicate struct {
	Values []Value
	negate bool
}

func ElementOf(values ...Value) *SetPredicate    { return &SetPredicate{Values: values} }
func NotElementOf(values ...Value) *SetPredicate { return &SetPredicate{Values: values, negate: true} }

func (p *SetPredicate) ID() uint64 {
	parts := make([]uint64, 0, len(p.Values)+1)
	if p.negate {
		parts = append(parts, 1)
	} else {
		parts = append(parts, 0)
	}
	for _, v := range p.Values {
		parts = append(parts, v.Hash())
	}
	return idOf("set", parts...)
}

func (p *SetPredicate) Evaluate(v Value) bool {
	found := false
	for _, candidate := range p.Values {
		if candidate.Equal(v) {
			found = true
			break
		}
	}
	if p.negate {
		return !found
	}
	return found
}

// BetweenPredicate matches when Lower <= attribute <= Upper, both bounds
// inclusive. Like OrdPredicate, an incomparable Kind fails closed (false),
// never errors -- Predicate.Evaluate never returns an error.
type BetweenPredicate struct {
	Lower, Upper Value
}

func Between(lower, upper Value) *BetweenPredicate {
	return &BetweenPredicate{Lower: lower, Upper: upper}
}

func (p *BetweenPredicate) ID() uint64 {
	return idOf("between", p.Lower.Hash(), p.Upper.Hash())
}

func (p *BetweenPredicate) Evaluate(v Value) bool {
	lo, ok := v.Compare(p.Lower)
	if !ok || lo < 0 {
		return false
	}
	hi, ok := v.Compare(p.Upper)
	if !ok || hi > 0 {
		return false
	}
	return true
}
