// Package consistency gates every mutation of the knowledge base. The
// checker never mutates the store; it queries the rule engine against
// the pre-commit snapshot and either admits a candidate assertion or
// rejects it with the full list of violated checks. Violations are
// accumulated, not short-circuited, so the caller can report every
// reason at once.
package consistency

import (
	"fmt"

	"kindred/internal/logging"
	"kindred/internal/relation"
	"kindred/internal/rules"
	"kindred/internal/store"
)

// Decision is the checker's verdict on a candidate assertion.
type Decision struct {
	OK      bool
	Reasons []string
}

func accept() Decision {
	return Decision{OK: true}
}

// Checker validates candidate assertions against the current fact base.
type Checker struct {
	store *store.Store
	rules *rules.Engine
}

// New returns a checker reading st through eng.
func New(st *store.Store, eng *rules.Engine) *Checker {
	return &Checker{store: st, rules: eng}
}

// Admits decides whether the assertion may be committed. Names are
// assumed normalized by the facade.
func (c *Checker) Admits(a relation.Assertion) Decision {
	var reasons []string
	add := func(format string, args ...interface{}) {
		reasons = append(reasons, fmt.Sprintf(format, args...))
	}

	switch a.Type {
	case relation.Male:
		if _, female := c.rules.Gender(a.Names[0]); female {
			add("%s is already recorded as female", a.Names[0])
		}
	case relation.Female:
		if male, _ := c.rules.Gender(a.Names[0]); male {
			add("%s is already recorded as male", a.Names[0])
		}

	case relation.Parent, relation.Father, relation.Mother:
		c.checkParentEdge(a.Type, a.Names[0], a.Names[1], add)

	case relation.Child, relation.Son, relation.Daughter:
		// child(C,P) commits parent(P,C).
		c.checkChildEdge(a.Type, a.Names[0], a.Names[1], add)

	case relation.Sibling, relation.Brother, relation.Sister:
		c.checkSibling(a, add)

	case relation.Grandfather, relation.Grandmother:
		c.checkGrandparentGender(a.Type, a.Names[0], a.Names[1], add)

	case relation.Uncle, relation.Aunt:
		c.checkPibling(a.Type, a.Names[0], a.Names[1], add)

	case relation.ParentsOf:
		c.checkParentsOf(a.Names[0], a.Names[1], a.Names[2], add)

	case relation.ChildrenOf:
		c.checkChildrenOf(a.Names, add)

	default:
		add("%s is not assertable", a.Type)
	}

	if len(reasons) > 0 {
		logging.Consistency("reject %s%v: %v", a.Type, a.Names, reasons)
		return Decision{OK: false, Reasons: reasons}
	}
	logging.Consistency("admit %s%v", a.Type, a.Names)
	return accept()
}

type addFn func(format string, args ...interface{})

// checkParentEdge validates committing parent(p, child) plus the gender
// fact implied by rel.
func (c *Checker) checkParentEdge(rel relation.Type, p, child string, add addFn) {
	if p == child {
		add("%s cannot be a parent of themselves", p)
		return
	}
	if c.store.Has(relation.PredParent, child, p) {
		add("reverse parent already exists: %s is a parent of %s", child, p)
	}
	if c.rules.Holds(relation.Ancestor, child, p) {
		add("%s is already an ancestor of %s, the family graph would contain a cycle", child, p)
	}
	c.checkParentCardinality(p, child, add)

	// Gender implied by the relation must agree with what is recorded,
	// and the new edge must not create a second father or mother.
	male, female := c.rules.Gender(p)
	switch rel {
	case relation.Father:
		if female {
			add("a father cannot be female")
		}
		c.checkSingleGenderedParent(relation.Father, p, child, add)
	case relation.Mother:
		if male {
			add("a mother cannot be male")
		}
		c.checkSingleGenderedParent(relation.Mother, p, child, add)
	case relation.Parent:
		if male {
			c.checkSingleGenderedParent(relation.Father, p, child, add)
		}
		if female {
			c.checkSingleGenderedParent(relation.Mother, p, child, add)
		}
	}

	// Cross-relation exclusivity: the candidate parent must not already
	// derive as child, sibling, descendant, uncle or aunt of the child.
	if rel == relation.Father || rel == relation.Mother {
		for _, ex := range []relation.Type{relation.Child, relation.Sibling, relation.Descendant, relation.Uncle, relation.Aunt} {
			if c.rules.Holds(ex, p, child) {
				add("%s cannot be both %s and %s of %s", p, rel, ex, child)
			}
		}
	} else {
		for _, ex := range []relation.Type{relation.Child, relation.Sibling, relation.Descendant} {
			if c.rules.Holds(ex, p, child) {
				add("%s cannot be both parent and %s of %s", p, ex, child)
			}
		}
	}
}

// checkParentCardinality rejects a third parent edge into child.
// Re-asserting an existing edge stays admissible.
func (c *Checker) checkParentCardinality(p, child string, add addFn) {
	others := 0
	for _, existing := range c.rules.Derive(relation.Parent, relation.WhoIs(child)) {
		if existing != p {
			others++
		}
	}
	if others >= 2 {
		add("%s already has two parents", child)
	}
}

// checkSingleGenderedParent rejects a second father or second mother.
func (c *Checker) checkSingleGenderedParent(rel relation.Type, p, child string, add addFn) {
	for _, existing := range c.rules.Derive(rel, relation.WhoIs(child)) {
		if existing != p {
			add("%s already has a %s (%s)", child, rel, existing)
			return
		}
	}
}

// checkChildEdge validates child/son/daughter(c, p), which commits
// parent(p, c) plus the gender of c implied by rel.
func (c *Checker) checkChildEdge(rel relation.Type, child, p string, add addFn) {
	if p == child {
		add("%s cannot be a child of themselves", child)
		return
	}
	if c.store.Has(relation.PredParent, child, p) {
		add("%s cannot be both child and parent of %s", child, p)
	}
	if c.rules.Holds(relation.Ancestor, child, p) {
		add("%s is already an ancestor of %s, the family graph would contain a cycle", child, p)
	}
	c.checkParentCardinality(p, child, add)

	male, female := c.rules.Gender(child)
	switch rel {
	case relation.Son:
		if female {
			add("a son cannot be female")
		}
	case relation.Daughter:
		if male {
			add("a daughter cannot be male")
		}
	}

	// If p's gender is known, the new edge must not create a second
	// father or mother.
	pMale, pFemale := c.rules.Gender(p)
	if pMale {
		c.checkSingleGenderedParent(relation.Father, p, child, add)
	}
	if pFemale {
		c.checkSingleGenderedParent(relation.Mother, p, child, add)
	}
}

// checkSibling validates sibling/brother/sister(x, y). The relation
// needs a common parent: either one already recorded, or the explicit
// CommonParent supplied with the assertion. There is no interactive
// fallback; absent both, the assertion is rejected.
func (c *Checker) checkSibling(a relation.Assertion, add addFn) {
	x, y := a.Names[0], a.Names[1]
	if x == y {
		add("%s cannot be a sibling of themselves", x)
		return
	}
	for _, ex := range []relation.Type{relation.Parent, relation.Child} {
		if c.rules.Holds(ex, x, y) {
			add("%s cannot be both %s and %s of %s", x, a.Type, ex, y)
		}
	}

	male, female := c.rules.Gender(x)
	switch a.Type {
	case relation.Brother:
		if female {
			add("a brother cannot be female")
		}
	case relation.Sister:
		if male {
			add("a sister cannot be male")
		}
	}

	if c.rules.Holds(relation.Sibling, x, y) {
		return
	}
	cp := a.CommonParent
	if cp == "" {
		add("no common parent known for %s and %s; supply one with the assertion", x, y)
		return
	}
	if cp == x || cp == y {
		add("%s cannot be their own parent", cp)
		return
	}
	// The two implied parent edges must themselves be admissible.
	c.checkParentEdge(relation.Parent, cp, x, add)
	c.checkParentEdge(relation.Parent, cp, y, add)
}

// checkGrandparentGender validates grandfather/grandmother(g, c). The
// assertion only records g's gender, so the underlying grandparent
// relation must already derive.
func (c *Checker) checkGrandparentGender(rel relation.Type, g, gc string, add addFn) {
	if g == gc {
		add("%s cannot be a grandparent of themselves", g)
		return
	}
	if !c.rules.Holds(relation.Grandparent, g, gc) {
		add("%s is not known to be a grandparent of %s", g, gc)
	}
	male, female := c.rules.Gender(g)
	switch rel {
	case relation.Grandfather:
		if female {
			add("a grandfather cannot be female")
		}
	case relation.Grandmother:
		if male {
			add("a grandmother cannot be male")
		}
	}
}

// checkPibling validates uncle/aunt(u, n). Like the grandparent case
// the assertion only records gender, so u must already be a sibling of
// one of n's parents.
func (c *Checker) checkPibling(rel relation.Type, u, n string, add addFn) {
	if u == n {
		add("%s cannot be an %s of themselves", u, rel)
		return
	}
	for _, ex := range []relation.Type{relation.Parent, relation.Grandparent, relation.Sibling} {
		if c.rules.Holds(ex, u, n) {
			add("%s cannot be both %s and %s of %s", u, rel, ex, n)
		}
	}
	sibOfParent := false
	for _, p := range c.rules.Derive(relation.Parent, relation.WhoIs(n)) {
		if c.rules.Holds(relation.Sibling, u, p) {
			sibOfParent = true
			break
		}
	}
	if !sibOfParent {
		add("%s is not known to be a sibling of a parent of %s", u, n)
	}
	male, female := c.rules.Gender(u)
	switch rel {
	case relation.Uncle:
		if female {
			add("an uncle cannot be female")
		}
	case relation.Aunt:
		if male {
			add("an aunt cannot be male")
		}
	}
}

// checkParentsOf validates parents_of(p1, p2, c), which commits two
// parent edges at once.
func (c *Checker) checkParentsOf(p1, p2, child string, add addFn) {
	if p1 == p2 {
		add("the two parents must be distinct people")
		return
	}
	c.checkParentEdge(relation.Parent, p1, child, add)
	c.checkParentEdge(relation.Parent, p2, child, add)

	// Together with existing edges there is room for at most two.
	existing := c.rules.Derive(relation.Parent, relation.WhoIs(child))
	all := map[string]bool{p1: true, p2: true}
	for _, p := range existing {
		all[p] = true
	}
	if len(all) > 2 {
		add("%s would have more than two parents", child)
	}

	p1Male, p1Female := c.rules.Gender(p1)
	p2Male, p2Female := c.rules.Gender(p2)
	if p1Male && p2Male {
		add("%s and %s cannot both be fathers of %s", p1, p2, child)
	}
	if p1Female && p2Female {
		add("%s and %s cannot both be mothers of %s", p1, p2, child)
	}
}

// checkChildrenOf validates children_of(c1..cn, p): every child edge
// must be admissible and the children pairwise distinct.
func (c *Checker) checkChildrenOf(names []string, add addFn) {
	children := names[:len(names)-1]
	p := names[len(names)-1]

	seen := make(map[string]bool)
	for _, child := range children {
		if seen[child] {
			add("%s is listed twice", child)
			continue
		}
		seen[child] = true
		if child == p {
			add("%s cannot be a child of themselves", child)
			continue
		}
		c.checkParentEdge(relation.Parent, p, child, add)
	}
}
