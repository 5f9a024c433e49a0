// Package relation defines the closed vocabulary of the knowledge base:
// the three ground predicates, the fixed set of assertable and derivable
// relations, and the bound/free query patterns shared by every layer.
package relation

import "strings"

// Predicate identifies a ground fact kind. These are the only predicates
// the store ever holds; everything else is derived on demand.
type Predicate string

const (
	PredParent Predicate = "parent" // parent(P, C), directed
	PredMale   Predicate = "male"   // male(P)
	PredFemale Predicate = "female" // female(P)
)

// Type is a relation or query token from the fixed vocabulary.
type Type string

const (
	Male   Type = "male"
	Female Type = "female"

	Parent      Type = "parent"
	Father      Type = "father"
	Mother      Type = "mother"
	Child       Type = "child"
	Son         Type = "son"
	Daughter    Type = "daughter"
	Sibling     Type = "sibling"
	Brother     Type = "brother"
	Sister      Type = "sister"
	Grandparent Type = "grandparent"
	Grandfather Type = "grandfather"
	Grandmother Type = "grandmother"
	Ancestor    Type = "ancestor"
	Descendant  Type = "descendant"
	Uncle       Type = "uncle"
	Aunt        Type = "aunt"
	ParentsOf   Type = "parents_of"
	ChildrenOf  Type = "children_of"
	Relative    Type = "relative"
)

// All lists every token in the vocabulary. Order is not significant.
var All = []Type{
	Male, Female,
	Parent, Father, Mother, Child, Son, Daughter,
	Sibling, Brother, Sister,
	Grandparent, Grandfather, Grandmother,
	Ancestor, Descendant, Uncle, Aunt,
	ParentsOf, ChildrenOf, Relative,
}

// Known reports whether t is part of the fixed vocabulary.
func Known(t Type) bool {
	for _, k := range All {
		if k == t {
			return true
		}
	}
	return false
}

// Arity returns the number of name arguments a relation takes.
// ChildrenOf is variadic (N children + one parent) and returns -1.
func Arity(t Type) int {
	switch t {
	case Male, Female:
		return 1
	case ParentsOf:
		return 3
	case ChildrenOf:
		return -1
	default:
		return 2
	}
}

// Assertable reports whether t may appear on the assert path.
// Ancestor, descendant, grandparent and relative are query-only views.
func Assertable(t Type) bool {
	switch t {
	case Ancestor, Descendant, Grandparent, Relative:
		return false
	default:
		return Known(t)
	}
}

// Normalize canonicalizes a person name token.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Fact is a single ground fact. Args holds one name for the unary
// predicates and parent, child for PredParent.
type Fact struct {
	Pred Predicate
	Args []string
}

// Slot says which argument position of a binary query is free.
type Slot int

const (
	BothBound Slot = iota
	FirstFree
	SecondFree
)

// Pattern is a binary query shape with at most one free position.
// The name in the free position is ignored.
type Pattern struct {
	Free   Slot
	First  string
	Second string
}

// Bound builds a fully bound pattern (a boolean test).
func Bound(first, second string) Pattern {
	return Pattern{Free: BothBound, First: Normalize(first), Second: Normalize(second)}
}

// WhoIs builds a pattern with the first position free, e.g.
// "who is the mother of c" = mother(?, c).
func WhoIs(second string) Pattern {
	return Pattern{Free: FirstFree, Second: Normalize(second)}
}

// OfWhom builds a pattern with the second position free, e.g.
// "whose parent is p" = parent(p, ?).
func OfWhom(first string) Pattern {
	return Pattern{Free: SecondFree, First: Normalize(first)}
}

// Assertion is a structured assert request as produced by the text
// interface. CommonParent is the optional supplementary fact for
// sibling-class assertions that lack a recorded common parent.
type Assertion struct {
	Type         Type
	Names        []string
	CommonParent string
}
