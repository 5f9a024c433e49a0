package consistency

import (
	"strings"
	"testing"

	"kindred/internal/relation"
	"kindred/internal/rules"
	"kindred/internal/store"
)

func newChecker() (*store.Store, *Checker) {
	st := store.New()
	return st, New(st, rules.New(st))
}

func assertRejected(t *testing.T, d Decision, fragment string) {
	t.Helper()
	if d.OK {
		t.Fatalf("assertion should be rejected (want reason containing %q)", fragment)
	}
	for _, r := range d.Reasons {
		if strings.Contains(r, fragment) {
			return
		}
	}
	t.Fatalf("no reason contains %q, got %v", fragment, d.Reasons)
}

func assertAdmitted(t *testing.T, d Decision) {
	t.Helper()
	if !d.OK {
		t.Fatalf("assertion should be admitted, rejected with %v", d.Reasons)
	}
}

func TestGenderConflict(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredFemale, "alice")

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Male, Names: []string{"alice"},
	}), "already recorded as female")

	assertAdmitted(t, c.Admits(relation.Assertion{
		Type: relation.Female, Names: []string{"alice"},
	}))
}

func TestSelfParent(t *testing.T) {
	_, c := newChecker()
	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Parent, Names: []string{"alice", "alice"},
	}), "parent of themselves")
}

func TestReverseParent(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredParent, "bob", "alice")

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Parent, Names: []string{"alice", "bob"},
	}), "reverse parent")
}

func TestAncestorCycle(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredParent, "a", "b")
	st.Add(relation.PredParent, "b", "c")

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Parent, Names: []string{"c", "a"},
	}), "cycle")
}

func TestThirdParentRejected(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredParent, "alice", "bob")
	st.Add(relation.PredParent, "david", "bob")

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Parent, Names: []string{"eve", "bob"},
	}), "already has two parents")

	// Re-asserting a recorded edge is not a third parent.
	assertAdmitted(t, c.Admits(relation.Assertion{
		Type: relation.Parent, Names: []string{"alice", "bob"},
	}))
}

func TestSecondMotherRejected(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredParent, "alice", "bob")
	st.Add(relation.PredFemale, "alice")

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Mother, Names: []string{"carol", "bob"},
	}), "already has a mother")

	// A father alongside the mother is fine.
	assertAdmitted(t, c.Admits(relation.Assertion{
		Type: relation.Father, Names: []string{"david", "bob"},
	}))
}

func TestFatherCannotBeFemale(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredFemale, "alice")

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Father, Names: []string{"alice", "bob"},
	}), "father cannot be female")
}

func TestParentChildExclusivity(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredParent, "alice", "bob")

	// bob is a child of alice; he cannot also become her parent via the
	// child relation stated the other way round.
	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Child, Names: []string{"alice", "bob"},
	}), "cannot be both child and parent")
}

func TestSiblingNeedsCommonParent(t *testing.T) {
	_, c := newChecker()

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Sibling, Names: []string{"bob", "carol"},
	}), "no common parent known")

	assertAdmitted(t, c.Admits(relation.Assertion{
		Type: relation.Sibling, Names: []string{"bob", "carol"}, CommonParent: "alice",
	}))
}

func TestSiblingWithRecordedCommonParent(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredParent, "alice", "bob")
	st.Add(relation.PredParent, "alice", "carol")

	assertAdmitted(t, c.Admits(relation.Assertion{
		Type: relation.Sibling, Names: []string{"bob", "carol"},
	}))
}

func TestSiblingCommonParentIsChecked(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredParent, "x", "bob")
	st.Add(relation.PredParent, "y", "bob")
	st.Add(relation.PredParent, "z", "carol")

	// bob already has two parents, so a fresh common parent cannot be
	// attached to him.
	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Sibling, Names: []string{"bob", "carol"}, CommonParent: "w",
	}), "already has two parents")
}

func TestSisterCannotBeMale(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredMale, "bob")

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Sister, Names: []string{"bob", "carol"}, CommonParent: "alice",
	}), "sister cannot be male")
}

func TestGrandmotherMustDerive(t *testing.T) {
	st, c := newChecker()

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Grandmother, Names: []string{"mary", "bob"},
	}), "not known to be a grandparent")

	st.Add(relation.PredParent, "mary", "alice")
	st.Add(relation.PredParent, "alice", "bob")

	assertAdmitted(t, c.Admits(relation.Assertion{
		Type: relation.Grandmother, Names: []string{"mary", "bob"},
	}))

	st.Add(relation.PredMale, "mary")
	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Grandmother, Names: []string{"mary", "bob"},
	}), "grandmother cannot be male")
}

func TestUncleMustBeSiblingOfParent(t *testing.T) {
	st, c := newChecker()

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Uncle, Names: []string{"victor", "bob"},
	}), "not known to be a sibling of a parent")

	st.Add(relation.PredParent, "george", "alice")
	st.Add(relation.PredParent, "george", "victor")
	st.Add(relation.PredParent, "alice", "bob")

	assertAdmitted(t, c.Admits(relation.Assertion{
		Type: relation.Uncle, Names: []string{"victor", "bob"},
	}))

	st.Add(relation.PredFemale, "victor")
	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.Uncle, Names: []string{"victor", "bob"},
	}), "uncle cannot be female")
}

func TestAuntGenderGuardIsOnTheAunt(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredParent, "george", "alice")
	st.Add(relation.PredParent, "george", "susan")
	st.Add(relation.PredParent, "alice", "bob")
	st.Add(relation.PredMale, "bob")

	// The nephew being male must not disturb the aunt assertion.
	assertAdmitted(t, c.Admits(relation.Assertion{
		Type: relation.Aunt, Names: []string{"susan", "bob"},
	}))
}

func TestParentsOf(t *testing.T) {
	st, c := newChecker()

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.ParentsOf, Names: []string{"alice", "alice", "bob"},
	}), "distinct")

	st.Add(relation.PredMale, "alice")
	st.Add(relation.PredMale, "david")
	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.ParentsOf, Names: []string{"alice", "david", "bob"},
	}), "both be fathers")
}

func TestParentsOfCombinedCardinality(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredParent, "eve", "bob")
	st.Add(relation.PredParent, "adam", "bob")

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.ParentsOf, Names: []string{"alice", "david", "bob"},
	}), "more than two parents")

	// Naming the recorded pair again stays admissible.
	assertAdmitted(t, c.Admits(relation.Assertion{
		Type: relation.ParentsOf, Names: []string{"eve", "adam", "bob"},
	}))
}

func TestChildrenOf(t *testing.T) {
	_, c := newChecker()

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.ChildrenOf, Names: []string{"bob", "bob", "alice"},
	}), "listed twice")

	assertRejected(t, c.Admits(relation.Assertion{
		Type: relation.ChildrenOf, Names: []string{"bob", "alice", "alice"},
	}), "child of themselves")

	assertAdmitted(t, c.Admits(relation.Assertion{
		Type: relation.ChildrenOf, Names: []string{"bob", "carol", "alice"},
	}))
}

func TestReasonsAccumulate(t *testing.T) {
	st, c := newChecker()
	st.Add(relation.PredParent, "bob", "alice")
	st.Add(relation.PredFemale, "alice")

	// alice as father of bob violates both the reverse edge and the
	// gender constraint; the decision must carry every reason.
	d := c.Admits(relation.Assertion{
		Type: relation.Father, Names: []string{"alice", "bob"},
	})
	if d.OK {
		t.Fatal("assertion should be rejected")
	}
	if len(d.Reasons) < 2 {
		t.Fatalf("want at least 2 reasons, got %v", d.Reasons)
	}
}
