package atree

// This file implements predicate-level compound tests: combining two or
// more Predicates evaluated against the *same* attribute Value (e.g.
// "x > 5 AND x < 10" as one compound predicate on a single field). This is
// distinct from the DAG-level And/Or nodes in node.go, which combine the
// three-valued results of different sub-expressions across different
// attributes. The two layers deliberately use opposite id-folding
// conventions (mul/add here vs add/mul at the node layer) -- grounded on
// original_source, where the same asymmetry exists between
// predicates/logical_operations.rs and lib.rs.

// AndPredicate matches when both wrapped predicates match the same Value.
type AndPredicate struct{ Lhs, Rhs Predicate }

func And(lhs, rhs Predicate) *AndPredicate { return &AndPredicate{Lhs: lhs, Rhs: rhs} }

func (p *AndPredicate) ID() uint64 { return p.Lhs.ID() * p.Rhs.ID() }

func (p *AndPredicate) Evaluate(v Value) bool {
	return p.Lhs.Evaluate(v) && p.Rhs.Evaluate(v)
}

// OrPredicate matches when either wrapped predicate matches the same Value.
type OrPredicate struct{ Lhs, Rhs Predicate }

func Or(lhs, rhs Predicate) *OrPredicate { return &OrPredicate{Lhs: lhs, Rhs: rhs} }

func (p *OrPredicate) ID() uint64 { return p.Lhs.ID() + p.Rhs.ID() }

func (p *OrPredicate) Evaluate(v Value) bool {
	return p.Lhs.Evaluate(v) || p.Rhs.Evaluate(v)
}

// NotPredicate negates a wrapped predicate's result.
type NotPredicate struct{ Pred Predicate }

func Not(p Predicate) *NotPredicate { return &NotPredicate{Pred: p} }

func (p *NotPredicate) ID() uint64 { return ^p.Pred.ID() }

func (p *NotPredicate) Evaluate(v Value) bool { return !p.Pred.Evaluate(v) }

// AndsPredicate is the n-ary generalization of AndPredicate.
type AndsPredicate struct{ Preds []Predicate }

func Ands(preds ...Predicate) *AndsPredicate { return &AndsPredicate{Preds: preds} }

func (p *AndsPredicate) ID() uint64 {
	id := uint64(1)
	for _, pred := range p.Preds {
		id *= pred.ID()
	}
	return id
}

func (p *AndsPredicate) Evaluate(v Value) bool {
	for _, pred := range p.Preds {
		if !pred.Evaluate(v) {
			return false
		}
	}
	return true
}

// OrsPredicate is the n-ary generalization of OrPredicate.
type OrsPredicate struct{ Preds []Predicate }

func Ors(preds ...Predicate) *OrsPredicate { return &OrsPredicate{Preds: preds} }

func (p *OrsPredicate) ID() uint64 {
	id := uint64(0)
	for _, pred := range p.Preds {
		id += pred.ID()
	}
	return id
}

func (p *OrsPredicate) Evaluate(v Value) bool {
	for _, pred := range p.Preds {
		if pred.Evaluate(v) {
			return true
		}
	}
	return false
}
