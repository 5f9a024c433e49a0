package dialog

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"kindred/internal/relation"
)

func TestParseStatement(t *testing.T) {
	cases := []struct {
		in   string
		want relation.Assertion
	}{
		{"alice is the mother of bob", relation.Assertion{Type: relation.Mother, Names: []string{"alice", "bob"}}},
		{"David is a father of Carol.", relation.Assertion{Type: relation.Father, Names: []string{"david", "carol"}}},
		{"bob is a son of alice", relation.Assertion{Type: relation.Son, Names: []string{"bob", "alice"}}},
		{"victor is an uncle of bob", relation.Assertion{Type: relation.Uncle, Names: []string{"victor", "bob"}}},
		{"mary is the grandmother of carol", relation.Assertion{Type: relation.Grandmother, Names: []string{"mary", "carol"}}},
		{"bob and carol are siblings", relation.Assertion{Type: relation.Sibling, Names: []string{"bob", "carol"}}},
		{"alice and david are the parents of bob", relation.Assertion{Type: relation.ParentsOf, Names: []string{"alice", "david", "bob"}}},
		{"bob and carol are children of alice", relation.Assertion{Type: relation.ChildrenOf, Names: []string{"bob", "carol", "alice"}}},
		{"bob, carol and dan are children of alice", relation.Assertion{Type: relation.ChildrenOf, Names: []string{"bob", "carol", "dan", "alice"}}},
		{"bob is male", relation.Assertion{Type: relation.Male, Names: []string{"bob"}}},
		{"Alice is female", relation.Assertion{Type: relation.Female, Names: []string{"alice"}}},
		// Misspelled relation words are corrected against the vocabulary.
		{"alice is the mothr of bob", relation.Assertion{Type: relation.Mother, Names: []string{"alice", "bob"}}},
		{"bob is a brothr of carol", relation.Assertion{Type: relation.Brother, Names: []string{"bob", "carol"}}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseStatement(tc.in)
			if !ok {
				t.Fatalf("ParseStatement(%q) did not match", tc.in)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("assertion mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseStatementRejectsNonsense(t *testing.T) {
	for _, in := range []string{
		"",
		"hello there",
		"alice is the xylophone of bob",
		"alice is the ancestor of bob", // query-only view
		"who are the children of alice",
	} {
		if a, ok := ParseStatement(in); ok {
			t.Errorf("ParseStatement(%q) matched as %s%v", in, a.Type, a.Names)
		}
	}
}

func TestParseQuestion(t *testing.T) {
	cases := []struct {
		in   string
		want Question
	}{
		{"is alice the mother of bob?", Question{Kind: BoolQuestion, Relation: relation.Mother, Names: []string{"alice", "bob"}}},
		{"is victor an uncle of bob?", Question{Kind: BoolQuestion, Relation: relation.Uncle, Names: []string{"victor", "bob"}}},
		{"is george an ancestor of carol?", Question{Kind: BoolQuestion, Relation: relation.Ancestor, Names: []string{"george", "carol"}}},
		{"are bob and carol siblings?", Question{Kind: BoolQuestion, Relation: relation.Sibling, Names: []string{"bob", "carol"}}},
		{"are bob and victor relatives?", Question{Kind: BoolQuestion, Relation: relation.Relative, Names: []string{"bob", "victor"}}},
		{"are alice and david the parents of bob?", Question{Kind: BoolQuestion, Relation: relation.ParentsOf, Names: []string{"alice", "david", "bob"}}},
		{"are bob and carol children of alice?", Question{Kind: ChildrenQuestion, Relation: relation.Child, Names: []string{"bob", "carol", "alice"}}},
		{"are bob, carol and dan children of alice?", Question{Kind: ChildrenQuestion, Relation: relation.Child, Names: []string{"bob", "carol", "dan", "alice"}}},
		{"who are the siblings of bob?", Question{Kind: WhoQuestion, Relation: relation.Sibling, Pattern: relation.WhoIs("bob")}},
		{"who are the children of alice?", Question{Kind: WhoQuestion, Relation: relation.Child, Pattern: relation.WhoIs("alice")}},
		{"who is the mother of bob?", Question{Kind: WhoQuestion, Relation: relation.Mother, Pattern: relation.WhoIs("bob")}},
		{"who are the daughters of david?", Question{Kind: WhoQuestion, Relation: relation.Daughter, Pattern: relation.WhoIs("david")}},
		{"is bob male?", Question{Kind: BoolQuestion, Relation: relation.Male, Names: []string{"bob"}}},
		// Misspelling.
		{"who are the siblngs of bob?", Question{Kind: WhoQuestion, Relation: relation.Sibling, Pattern: relation.WhoIs("bob")}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseQuestion(tc.in)
			if !ok {
				t.Fatalf("ParseQuestion(%q) did not match", tc.in)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("question mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseQuestionRejectsNonsense(t *testing.T) {
	for _, in := range []string{
		"",
		"why is the sky blue?",
		"is alice the xylophone of bob?",
	} {
		if q, ok := ParseQuestion(in); ok {
			t.Errorf("ParseQuestion(%q) matched as %+v", in, q)
		}
	}
}

func TestCorrectRelationWord(t *testing.T) {
	cases := []struct {
		in   string
		want relation.Type
		ok   bool
	}{
		{"mother", relation.Mother, true},
		{"mothr", relation.Mother, true},
		{"children", relation.Child, true},
		{"sistr", relation.Sister, true},
		{"grandfther", relation.Grandfather, true},
		{"xylophone", "", false},
		{"zz", "", false},
	}
	for _, tc := range cases {
		got, ok := correctRelationWord(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("correctRelationWord(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
