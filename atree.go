package atree

// PredResult is one predicate's three-valued evaluation against a single
// event, the shape PredicateStore.Evaluate produces and ATree.Matches
// consumes.
type PredResult struct {
	ID     uint64
	Result Tri
}

// Statistics summarizes the interned DAG's shape, grounded on the teacher's
// DagStatistics -- ambient observability the matching algorithm itself
// never needs, but useful for callers sizing caches or debugging fan-in.
type Statistics struct {
	NodeCount  int
	LeafCount  int
	InnerCount int
	RootCount  int
	MaxLevel   int
}

// ATree is the shared DAG of interned boolean expressions. Insertions and
// matches are not internally synchronized: per spec.md §5, callers must
// serialize Insert against Matches (e.g. insert all expressions up front,
// then match freely, or hold an external lock around structural changes).
// Matches itself is reentrant -- it keeps no state on the nodes it walks --
// so concurrent Matches calls against a stable tree are safe.
type ATree struct {
	byID  map[uint64]*Node
	roots map[uint64]bool
	level int
}

// New returns an empty ATree.
func New() *ATree {
	return &ATree{
		byID:  make(map[uint64]*Node),
		roots: make(map[uint64]bool),
	}
}

// Insert canonicalizes d into the tree, interning any subtree already
// present (by structural id) rather than duplicating it, and returns the
// resulting canonical Node. The node Insert is called on directly is
// recorded as a root of some expression, visible via IsRoot, even if the
// same node is also reachable as a shared child of another expression.
func (t *ATree) Insert(d *Draft) *Node {
	n := t.insert(d)
	t.roots[n.ID] = true
	return n
}

func (t *ATree) insert(d *Draft) *Node {
	id := d.id()
	if n, ok := t.byID[id]; ok {
		return n
	}

	if d.kind == NodeLeaf {
		n := &Node{ID: id, Kind: NodeLeaf, Level: 1, PredicateID: d.pred.ID()}
		t.byID[id] = n
		t.bumpLevel(n.Level)
		return n
	}

	childNodes := make([]*Node, len(d.children))
	childIDs := make([]uint64, len(d.children))
	maxChildLevel := 0
	for i, c := range d.children {
		cn := t.insert(c)
		childNodes[i] = cn
		childIDs[i] = cn.ID
		if cn.Level > maxChildLevel {
			maxChildLevel = cn.Level
		}
	}

	n := &Node{ID: id, Kind: NodeInner, Op: d.op, Level: maxChildLevel + 1, Children: childIDs}
	t.byID[id] = n
	for _, cn := range childNodes {
		cn.addParent(id)
	}
	t.bumpLevel(n.Level)
	return n
}

func (t *ATree) bumpLevel(level int) {
	if level > t.level {
		t.level = level
	}
}

// Len returns the number of distinct canonical nodes in the tree.
func (t *ATree) Len() int { return len(t.byID) }

// MaxLevel returns the highest Level among all canonical nodes, i.e. the
// number of levels Matches must drain.
func (t *ATree) MaxLevel() int { return t.level }

// IsRoot reports whether id was ever the top-level argument to Insert, i.e.
// whether it is the root of some registered expression (as opposed to only
// a shared inner sub-expression). Resolves spec.md §9's open question about
// exposing sub-expression fires: Matches returns every node that evaluated
// True, and callers filter with IsRoot when they only want whole-expression
// matches.
func (t *ATree) IsRoot(id uint64) bool { return t.roots[id] }

// Matches evaluates every canonical node reachable from results (one
// PredResult per predicate the event actually triggered -- results need
// not, and in general will not, cover every predicate ever registered) and
// returns the ids of every node -- Leaf, Inner, or Root -- that evaluated
// True.
//
// The algorithm walks nodes level by level, 1 through MaxLevel inclusive.
// Per spec.md §4.4 step 3, a parent is enqueued the first time any child
// contributes a value to its operand list, not once every child has --
// children always sit at a strictly lower level than their parent (levels
// are assigned at insertion time from the max of already-canonical
// children), so by the time the parent's own level is drained, every child
// that will ever fire for this call has already run. Waiting for full
// arity instead is a distinct bug: a child simply absent from results (the
// normal case, not merely Unknown) would then never let its parent reach
// readiness at all, silently dropping that parent -- and everything above
// it -- from the output even when, e.g., an Or parent's other child alone
// is enough to make it True. Gating on first-contribution also sidesteps
// the case of a node referencing the same child id more than once: parent
// back-links are deduplicated (see Node.addParent), so an arity-based count
// could never be reached in that case either; first-contribution has no
// such dependency on how many times a child is listed.
//
// A further correction relative to a literal transliteration of
// original_source (see DESIGN.md): the level range is inclusive of M, and
// a child's value -- True, False, or Unknown -- is always appended to its
// parent's operand list; only the "add this node's id to the output" step
// is skipped for non-True values. Both are required for scenario F
// (And over {True, Unknown} must not match) to hold.
//
// Leaf result and Inner/Root operand state live in maps local to this
// call, not on the Node values themselves, so Matches is reentrant and
// safe to call concurrently against a tree that is not being mutated.
func (t *ATree) Matches(results []PredResult) []uint64 {
	leafVal := make(map[uint64]Tri, len(results))
	for _, r := range results {
		leafVal[r.ID] = r.Result
	}

	operands := make(map[uint64][]Tri)
	queues := make(map[int][]uint64)
	queued := make(map[uint64]bool)

	enqueue := func(id uint64) {
		if queued[id] {
			return
		}
		queued[id] = true
		n := t.byID[id]
		queues[n.Level] = append(queues[n.Level], id)
	}

	for id, n := range t.byID {
		if n.Kind == NodeLeaf {
			if _, ok := leafVal[id]; ok {
				enqueue(id)
			}
		}
	}

	var output []uint64
	for lvl := 1; lvl <= t.level; lvl++ {
		queue := queues[lvl]
		for _, id := range queue {
			n := t.byID[id]

			var val Tri
			if n.Kind == NodeLeaf {
				val = leafVal[id]
			} else {
				val = foldTri(n.Op, operands[id])
			}

			if val == TriTrue {
				output = append(output, id)
			}

			for _, pid := range n.Parents {
				firstContribution := len(operands[pid]) == 0
				operands[pid] = append(operands[pid], val)
				if firstContribution {
					enqueue(pid)
				}
			}
		}
	}
	return output
}

// Statistics computes ambient observability figures over the interned
// tree, grounded on the teacher's DagStatistics shape.
func (t *ATree) Statistics() Statistics {
	stats := Statistics{MaxLevel: t.level}
	for _, n := range t.byID {
		stats.NodeCount++
		if n.Kind == NodeLeaf {
			stats.LeafCount++
		} else {
			stats.InnerCount++
		}
	}
	for id := range t.roots {
		if _, ok := t.byID[id]; ok {
			stats.RootCount++
		}
	}
	return stats
}
