package atree

// EventValue is an alias for Value at the event boundary, kept distinct in
// name (per spec.md's glossary) even though it shares Value's
// representation, grounded on original_source's EventValue type.
type EventValue = Value

// Event is a single incoming record: a flat map of attribute name to value.
// Matches spec.md §4.5 -- no nesting, no schema, the caller is responsible
// for producing whatever flat attribute set its predicates expect.
type Event struct {
	attrs map[string]EventValue
}

// NewEvent returns an empty Event.
func NewEvent() *Event {
	return &Event{attrs: make(map[string]EventValue)}
}

// Set records field's value on the event.
func (e *Event) Set(field string, v EventValue) {
	e.attrs[field] = v
}

// Get returns field's value, and whether it was present at all.
func (e *Event) Get(field string) (EventValue, bool) {
	v, ok := e.attrs[field]
	return v, ok
}

// PredicateStore is the naive per-field predicate registry from
// original_source's PredicateStore: a map from attribute name to the
// predicates registered against it, with no indexing beyond that grouping.
// Evaluate runs every predicate registered against each attribute the event
// carries; there is no attribute-value index to prune that set further.
type PredicateStore struct {
	byField map[string][]Predicate
}

// NewPredicateStore returns an empty PredicateStore.
func NewPredicateStore() *PredicateStore {
	return &PredicateStore{byField: make(map[string][]Predicate)}
}

// Add registers pred against field.
func (s *PredicateStore) Add(field string, pred Predicate) {
	s.byField[field] = append(s.byField[field], pred)
}

// Evaluate scans e's own attribute/value pairs and, for each one present in
// the store, runs every predicate registered against that attribute. A
// predicate whose field never appears in e is simply never visited -- it
// has no entry in the returned slice at all, matching original_source's
// evaluate (which walks event.values and looks up predicates per attribute
// present, rather than walking the store and checking for absent fields).
// ATree.Matches is responsible for treating an entirely-absent leaf
// correctly (it simply never contributes to its parent's operands); this
// store does not synthesize an explicit Unknown PredResult to compensate.
func (s *PredicateStore) Evaluate(e *Event) []PredResult {
	var out []PredResult
	for field, v := range e.attrs {
		preds, ok := s.byField[field]
		if !ok {
			continue
		}
		for _, p := range preds {
			out = append(out, PredResult{ID: p.ID(), Result: triFromBool(p.Evaluate(v))})
		}
	}
	return out
}
