package atree

import "testing"

func TestInsertDedupesIdenticalTopLevelDraft(t *testing.T) {
	tree := New()
	a := tree.Insert(Leaf(Equal(IntValue(1))))
	b := tree.Insert(Leaf(Equal(IntValue(1))))
	if a.ID != b.ID {
		t.Errorf("two structurally identical drafts should canonicalize to the same node")
	}
	if tree.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tree.Len())
	}
}

func TestInsertSharesCommonSubexpression(t *testing.T) {
	tree := New()
	shared := Equal(IntValue(1))

	rootA := tree.Insert(AllOf(Leaf(shared), Leaf(Equal(IntValue(2)))))
	rootB := tree.Insert(AllOf(Leaf(shared), Leaf(Equal(IntValue(3)))))

	if rootA.ID == rootB.ID {
		t.Fatalf("distinct expressions should not collapse to the same root")
	}
	// 1 shared leaf + 2 distinct leaves + 2 distinct AND nodes = 5 nodes,
	// not 6 -- the shared leaf is interned once.
	if tree.Len() != 5 {
		t.Errorf("Len() = %d, want 5 (shared leaf interned once)", tree.Len())
	}

	sharedNode := tree.byID[shared.ID()]
	if sharedNode == nil {
		t.Fatalf("shared leaf node missing from arena")
	}
	if len(sharedNode.Parents) != 2 {
		t.Errorf("shared leaf should have 2 parents, got %d", len(sharedNode.Parents))
	}
}

func TestLevelComputation(t *testing.T) {
	tree := New()
	leaf := tree.Insert(Leaf(Equal(IntValue(1))))
	if leaf.Level != 1 {
		t.Errorf("leaf level = %d, want 1", leaf.Level)
	}

	inner := tree.Insert(AllOf(Leaf(Equal(IntValue(1))), Leaf(Equal(IntValue(2)))))
	if inner.Level != 2 {
		t.Errorf("inner level = %d, want 2", inner.Level)
	}

	nested := tree.Insert(AllOf(Leaf(Equal(IntValue(1))), AllOf(Leaf(Equal(IntValue(2))), Leaf(Equal(IntValue(3))))))
	if nested.Level != 3 {
		t.Errorf("nested level = %d, want 3", nested.Level)
	}
	if tree.MaxLevel() != 3 {
		t.Errorf("MaxLevel() = %d, want 3", tree.MaxLevel())
	}
}

func TestIsRootTracksTopLevelInsertsOnly(t *testing.T) {
	tree := New()
	shared := Equal(IntValue(1))

	leafNode := tree.insert(Leaf(shared))
	if tree.IsRoot(leafNode.ID) {
		t.Errorf("a leaf only ever inserted as a child should not be reported as root")
	}

	root := tree.Insert(AllOf(Leaf(shared), Leaf(Equal(IntValue(2)))))
	if !tree.IsRoot(root.ID) {
		t.Errorf("a node directly passed to Insert should be reported as root")
	}
}

// Scenario: a single leaf predicate, directly registered as a root,
// matches when its predicate evaluates true.
func TestMatchesSingleLeafRoot(t *testing.T) {
	tree := New()
	p := Equal(IntValue(1))
	root := tree.Insert(Leaf(p))

	out := tree.Matches([]PredResult{{ID: p.ID(), Result: TriTrue}})
	if len(out) != 1 || out[0] != root.ID {
		t.Errorf("Matches() = %v, want [%d]", out, root.ID)
	}
}

// Scenario: AND over all-true leaves matches and reports the root.
func TestMatchesAndAllTrue(t *testing.T) {
	tree := New()
	p1, p2 := Equal(IntValue(1)), Equal(IntValue(2))
	root := tree.Insert(AllOf(Leaf(p1), Leaf(p2)))

	out := tree.Matches([]PredResult{
		{ID: p1.ID(), Result: TriTrue},
		{ID: p2.ID(), Result: TriTrue},
	})
	if !containsID(out, root.ID) {
		t.Errorf("Matches() = %v, want root %d present", out, root.ID)
	}
}

// Scenario: AND over {True, Unknown} must NOT match -- this is the case
// that a literal transliteration of original_source's continue-on-None
// gets wrong (see DESIGN.md and atree.go's Matches doc comment).
func TestMatchesAndWithUnknownOperandDoesNotMatch(t *testing.T) {
	tree := New()
	p1, p2 := Equal(IntValue(1)), Equal(IntValue(2))
	root := tree.Insert(AllOf(Leaf(p1), Leaf(p2)))

	out := tree.Matches([]PredResult{
		{ID: p1.ID(), Result: TriTrue},
		{ID: p2.ID(), Result: TriUnknown},
	})
	if containsID(out, root.ID) {
		t.Errorf("Matches() = %v, root %d should not be present", out, root.ID)
	}
}

// Scenario: OR short-circuits to True even with an Unknown sibling.
func TestMatchesOrShortCircuitsOnTrueDespiteUnknownSibling(t *testing.T) {
	tree := New()
	p1, p2 := Equal(IntValue(1)), Equal(IntValue(2))
	root := tree.Insert(AnyOf(Leaf(p1), Leaf(p2)))

	out := tree.Matches([]PredResult{
		{ID: p1.ID(), Result: TriTrue},
		{ID: p2.ID(), Result: TriUnknown},
	})
	if !containsID(out, root.ID) {
		t.Errorf("Matches() = %v, want root %d present", out, root.ID)
	}
}

// A leaf entirely absent from results (not merely Unknown -- the ordinary
// case, since results only ever carries one entry per predicate the event
// actually triggered) must still let an Or parent fire on its other,
// present, True child. This is the enqueue-on-first-contribution
// requirement: gating on full child arity would leave this parent's
// operand count permanently short of len(Children) and it would never be
// evaluated at all.
func TestMatchesOrFiresWhenSiblingLeafIsEntirelyAbsent(t *testing.T) {
	tree := New()
	p1, p2 := Equal(IntValue(1)), Equal(IntValue(2))
	root := tree.Insert(AnyOf(Leaf(p1), Leaf(p2)))

	// p2 is not present in results at all, not even as TriUnknown.
	out := tree.Matches([]PredResult{
		{ID: p1.ID(), Result: TriTrue},
	})
	if !containsID(out, root.ID) {
		t.Errorf("Matches() = %v, want root %d present even though one child was never reported", out, root.ID)
	}
}

// A node that references the same child twice (AllOf(Leaf(p), Leaf(p)))
// must still evaluate: Node.addParent dedupes parent back-links, so the
// child only ever contributes once, and an arity-based readiness gate could
// never be satisfied for such a node.
func TestMatchesHandlesDuplicateChildID(t *testing.T) {
	tree := New()
	p := Equal(IntValue(1))
	root := tree.Insert(AllOf(Leaf(p), Leaf(p)))

	out := tree.Matches([]PredResult{
		{ID: p.ID(), Result: TriTrue},
	})
	if !containsID(out, root.ID) {
		t.Errorf("Matches() = %v, want root %d present for a duplicate-child And node", out, root.ID)
	}
}

// Scenario: OR over {False, Unknown} is Unknown, not a match, but the
// Unknown value must still propagate to a further parent rather than being
// dropped.
func TestMatchesUnknownPropagatesAcrossTwoLevels(t *testing.T) {
	tree := New()
	p1, p2, p3 := Equal(IntValue(1)), Equal(IntValue(2)), Equal(IntValue(3))

	inner := AnyOf(Leaf(p1), Leaf(p2)) // False, Unknown -> Unknown
	root := tree.Insert(AllOf(inner, Leaf(p3)))

	out := tree.Matches([]PredResult{
		{ID: p1.ID(), Result: TriFalse},
		{ID: p2.ID(), Result: TriUnknown},
		{ID: p3.ID(), Result: TriTrue},
	})
	if containsID(out, root.ID) {
		t.Errorf("Matches() = %v, root %d should not be present (AND sees an Unknown operand)", out, root.ID)
	}
	innerID := inner.id()
	if containsID(out, innerID) {
		t.Errorf("inner OR node evaluated Unknown, should not appear in output either")
	}
}

// Two roots sharing a leaf both fire when that leaf and their own other
// operand are satisfied independently.
func TestMatchesMultipleRootsOverSharedLeaf(t *testing.T) {
	tree := New()
	shared := Equal(IntValue(1))
	p2, p3 := Equal(IntValue(2)), Equal(IntValue(3))

	rootA := tree.Insert(AllOf(Leaf(shared), Leaf(p2)))
	rootB := tree.Insert(AllOf(Leaf(shared), Leaf(p3)))

	out := tree.Matches([]PredResult{
		{ID: shared.ID(), Result: TriTrue},
		{ID: p2.ID(), Result: TriTrue},
		{ID: p3.ID(), Result: TriFalse},
	})
	if !containsID(out, rootA.ID) {
		t.Errorf("rootA should match")
	}
	if containsID(out, rootB.ID) {
		t.Errorf("rootB should not match")
	}
}

func TestStatistics(t *testing.T) {
	tree := New()
	tree.Insert(AllOf(Leaf(Equal(IntValue(1))), Leaf(Equal(IntValue(2)))))
	stats := tree.Statistics()
	if stats.LeafCount != 2 {
		t.Errorf("LeafCount = %d, want 2", stats.LeafCount)
	}
	if stats.InnerCount != 1 {
		t.Errorf("InnerCount = %d, want 1", stats.InnerCount)
	}
	if stats.RootCount != 1 {
		t.Errorf("RootCount = %d, want 1", stats.RootCount)
	}
	if stats.MaxLevel != 2 {
		t.Errorf("MaxLevel = %d, want 2", stats.MaxLevel)
	}
}

func containsID(ids []uint64, id uint64) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
