// Package rules evaluates the derived relations of the knowledge base.
// The engine is stateless over a fact store: every relation is a fixed
// Horn-clause rule recomputed on demand, never stored. Dispatch is an
// exhaustive switch over the closed vocabulary, and the one genuinely
// recursive relation (ancestor) is an explicit depth-guarded traversal
// over parent edges rather than engine-backed resolution.
package rules

import (
	"kindred/internal/logging"
	"kindred/internal/relation"
	"kindred/internal/store"
)

// maxGenerations bounds the ancestor traversal. The consistency checker
// keeps the parent graph acyclic, so this guard only fires on a
// pathological or not-yet-validated fact base; on trip the query answers
// empty instead of hanging or failing.
const maxGenerations = 512

// Engine derives relations over a fact store. It performs no mutation
// and holds no state beyond the store reference.
type Engine struct {
	store *store.Store
}

// New returns an engine reading from st.
func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Gender reports the recorded gender facts for a person.
func (e *Engine) Gender(p string) (male, female bool) {
	return e.male(p), e.female(p)
}

// Holds answers a fully bound binary relation query.
func (e *Engine) Holds(rel relation.Type, first, second string) bool {
	a := relation.Normalize(first)
	b := relation.Normalize(second)

	switch rel {
	case relation.Parent:
		return e.store.Has(relation.PredParent, a, b)
	case relation.Father:
		return e.store.Has(relation.PredParent, a, b) && e.male(a)
	case relation.Mother:
		return e.store.Has(relation.PredParent, a, b) && e.female(a)
	case relation.Child:
		return e.store.Has(relation.PredParent, b, a)
	case relation.Son:
		return e.store.Has(relation.PredParent, b, a) && e.male(a)
	case relation.Daughter:
		return e.store.Has(relation.PredParent, b, a) && e.female(a)
	case relation.Sibling:
		return e.areSiblings(a, b)
	case relation.Brother:
		return e.areSiblings(a, b) && e.male(a)
	case relation.Sister:
		return e.areSiblings(a, b) && e.female(a)
	case relation.Grandparent:
		return e.isGrandparent(a, b)
	case relation.Grandfather:
		return e.isGrandparent(a, b) && e.male(a)
	case relation.Grandmother:
		return e.isGrandparent(a, b) && e.female(a)
	case relation.Ancestor:
		return e.isAncestor(a, b)
	case relation.Descendant:
		return e.isAncestor(b, a)
	case relation.Uncle:
		return e.isPibling(a, b) && e.male(a)
	case relation.Aunt:
		return e.isPibling(a, b) && e.female(a)
	case relation.Relative:
		return e.areRelatives(a, b)
	default:
		return false
	}
}

// HoldsParentsOf answers the 3-place parents_of relation with all slots
// bound.
func (e *Engine) HoldsParentsOf(p1, p2, c string) bool {
	a := relation.Normalize(p1)
	b := relation.Normalize(p2)
	child := relation.Normalize(c)
	return a != b &&
		e.store.Has(relation.PredParent, a, child) &&
		e.store.Has(relation.PredParent, b, child)
}

// Derive answers a one-free-slot binary relation query and returns the
// set of bindings for the free position. The result is unordered and
// deduplicated; callers needing stable output sort before presentation.
// A fully bound pattern belongs on Holds and yields nil here.
func (e *Engine) Derive(rel relation.Type, pat relation.Pattern) []string {
	if pat.Free == relation.BothBound {
		return nil
	}

	switch rel {
	case relation.Parent:
		return e.direct(pat, e.parentsOf, e.childrenOf)
	case relation.Father:
		return e.gendered(pat, e.parentsOf, e.childrenOf, e.male)
	case relation.Mother:
		return e.gendered(pat, e.parentsOf, e.childrenOf, e.female)
	case relation.Child:
		return e.direct(pat, e.childrenOf, e.parentsOf)
	case relation.Son:
		return e.gendered(pat, e.childrenOf, e.parentsOf, e.male)
	case relation.Daughter:
		return e.gendered(pat, e.childrenOf, e.parentsOf, e.female)
	case relation.Sibling:
		return e.direct(pat, e.siblingsOf, e.siblingsOf)
	case relation.Brother:
		return e.gendered(pat, e.siblingsOf, e.siblingsOf, e.male)
	case relation.Sister:
		return e.gendered(pat, e.siblingsOf, e.siblingsOf, e.female)
	case relation.Grandparent:
		return e.direct(pat, e.grandparentsOf, e.grandchildrenOf)
	case relation.Grandfather:
		return e.gendered(pat, e.grandparentsOf, e.grandchildrenOf, e.male)
	case relation.Grandmother:
		return e.gendered(pat, e.grandparentsOf, e.grandchildrenOf, e.female)
	case relation.Ancestor:
		return e.direct(pat, e.ancestorsOf, e.descendantsOf)
	case relation.Descendant:
		return e.direct(pat, e.descendantsOf, e.ancestorsOf)
	case relation.Uncle:
		return e.gendered(pat, e.piblingsOf, e.niblingsOf, e.male)
	case relation.Aunt:
		return e.gendered(pat, e.piblingsOf, e.niblingsOf, e.female)
	case relation.Relative:
		return e.direct(pat, e.relativesOf, e.relativesOf)
	default:
		return nil
	}
}

// DeriveParentsOf answers parents_of with exactly one free slot.
// free is the free argument index (0, 1 or 2); the corresponding entry
// of names is ignored.
func (e *Engine) DeriveParentsOf(free int, names [3]string) []string {
	p1 := relation.Normalize(names[0])
	p2 := relation.Normalize(names[1])
	c := relation.Normalize(names[2])

	switch free {
	case 0:
		if !e.store.Has(relation.PredParent, p2, c) {
			return nil
		}
		return filter(e.parentsOf(c), func(x string) bool { return x != p2 })
	case 1:
		if !e.store.Has(relation.PredParent, p1, c) {
			return nil
		}
		return filter(e.parentsOf(c), func(x string) bool { return x != p1 })
	case 2:
		if p1 == p2 {
			return nil
		}
		return intersect(e.childrenOf(p1), e.childrenOf(p2))
	default:
		return nil
	}
}

// direct answers a relation whose FirstFree/SecondFree enumerations are
// plain set-valued functions of the bound name.
func (e *Engine) direct(pat relation.Pattern, firstOf, secondOf func(string) []string) []string {
	if pat.Free == relation.FirstFree {
		return firstOf(pat.Second)
	}
	return secondOf(pat.First)
}

// gendered answers a relation that is a gender guard over an underlying
// relation. The guard always applies to the first argument.
func (e *Engine) gendered(pat relation.Pattern, firstOf, secondOf func(string) []string, gender func(string) bool) []string {
	if pat.Free == relation.FirstFree {
		return filter(firstOf(pat.Second), gender)
	}
	if !gender(pat.First) {
		return nil
	}
	return secondOf(pat.First)
}

func (e *Engine) male(p string) bool {
	return e.store.Has(relation.PredMale, p)
}

func (e *Engine) female(p string) bool {
	return e.store.Has(relation.PredFemale, p)
}

func (e *Engine) parentsOf(c string) []string {
	return e.store.Match(relation.PredParent, relation.WhoIs(c))
}

func (e *Engine) childrenOf(p string) []string {
	return e.store.Match(relation.PredParent, relation.OfWhom(p))
}

// sibling(X,Y) := parent(P,X), parent(P,Y), X != Y
func (e *Engine) siblingsOf(x string) []string {
	seen := map[string]bool{x: true}
	var out []string
	for _, p := range e.parentsOf(x) {
		for _, c := range e.childrenOf(p) {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func (e *Engine) areSiblings(a, b string) bool {
	if a == b {
		return false
	}
	for _, p := range e.parentsOf(a) {
		if e.store.Has(relation.PredParent, p, b) {
			return true
		}
	}
	return false
}

// grandparent(G,C) := parent(G,P), parent(P,C)
func (e *Engine) grandparentsOf(c string) []string {
	return e.hop(c, e.parentsOf)
}

func (e *Engine) grandchildrenOf(g string) []string {
	return e.hop(g, e.childrenOf)
}

// hop applies step twice and deduplicates.
func (e *Engine) hop(from string, step func(string) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, mid := range step(from) {
		for _, far := range step(mid) {
			if !seen[far] {
				seen[far] = true
				out = append(out, far)
			}
		}
	}
	return out
}

func (e *Engine) isGrandparent(g, c string) bool {
	for _, p := range e.parentsOf(c) {
		if e.store.Has(relation.PredParent, g, p) {
			return true
		}
	}
	return false
}

// ancestor(A,D) := parent(A,D) | parent(A,X), ancestor(X,D)
//
// Implemented as an iterative DFS with a visited set; the generation
// guard returns empty if the walk runs deeper than any credible family
// graph.
func (e *Engine) ancestorsOf(d string) []string {
	return e.walk(d, e.parentsOf)
}

func (e *Engine) descendantsOf(a string) []string {
	return e.walk(a, e.childrenOf)
}

type walkFrame struct {
	name  string
	depth int
}

func (e *Engine) walk(from string, step func(string) []string) []string {
	visited := map[string]bool{from: true}
	var out []string
	stack := []walkFrame{{from, 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.depth >= maxGenerations {
			logging.KernelWarn("traversal guard tripped at %q (depth %d), returning empty result", from, top.depth)
			return nil
		}
		for _, next := range step(top.name) {
			if visited[next] {
				continue
			}
			visited[next] = true
			out = append(out, next)
			stack = append(stack, walkFrame{next, top.depth + 1})
		}
	}
	return out
}

func (e *Engine) isAncestor(a, d string) bool {
	for _, anc := range e.ancestorsOf(d) {
		if anc == a {
			return true
		}
	}
	return false
}

// uncle(U,N) := parent(P,N), sibling(U,P), male(U); piblings are the
// gender-free base both uncle and aunt share.
func (e *Engine) piblingsOf(n string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range e.parentsOf(n) {
		for _, s := range e.siblingsOf(p) {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func (e *Engine) niblingsOf(u string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range e.siblingsOf(u) {
		for _, c := range e.childrenOf(s) {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func (e *Engine) isPibling(u, n string) bool {
	for _, p := range e.parentsOf(n) {
		if e.areSiblings(u, p) {
			return true
		}
	}
	return false
}

// relative(X,Y) := ancestor(X,Y) | ancestor(Y,X) | ancestor(A,X), ancestor(A,Y)
// with an X != Y guard so nobody is their own relative.
func (e *Engine) relativesOf(x string) []string {
	seen := map[string]bool{x: true}
	var out []string
	add := func(names []string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	ancestors := e.ancestorsOf(x)
	add(ancestors)
	add(e.descendantsOf(x))
	for _, a := range ancestors {
		add(e.descendantsOf(a))
	}
	return out
}

func (e *Engine) areRelatives(x, y string) bool {
	if x == y {
		return false
	}
	if e.isAncestor(x, y) || e.isAncestor(y, x) {
		return true
	}
	mine := make(map[string]bool)
	for _, a := range e.ancestorsOf(x) {
		mine[a] = true
	}
	for _, a := range e.ancestorsOf(y) {
		if mine[a] {
			return true
		}
	}
	return false
}

func filter(names []string, keep func(string) bool) []string {
	var out []string
	for _, n := range names {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

func intersect(xs, ys []string) []string {
	in := make(map[string]bool, len(xs))
	for _, x := range xs {
		in[x] = true
	}
	var out []string
	for _, y := range ys {
		if in[y] {
			out = append(out, y)
			in[y] = false
		}
	}
	return out
}
