// Package kb composes the fact store, rule engine and consistency
// checker into the assert/query contract consumed by the text
// interface. All mutation flows through Assert: the checker sees the
// pre-commit snapshot and the compound insert happens under the same
// write lock, so no partially applied fact is ever observable.
package kb

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kindred/internal/consistency"
	"kindred/internal/logging"
	"kindred/internal/relation"
	"kindred/internal/rules"
	"kindred/internal/store"
)

// Result reports the outcome of an assertion.
type Result struct {
	Accepted bool
	Reasons  []string
}

// KnowledgeBase is the facade over the deductive store. Queries may run
// concurrently with each other but never with an in-flight assert.
type KnowledgeBase struct {
	mu      sync.RWMutex
	store   *store.Store
	rules   *rules.Engine
	checker *consistency.Checker
	session string
	logger  *zap.Logger
}

// Option configures a KnowledgeBase.
type Option func(*KnowledgeBase)

// WithLogger attaches a zap logger; the default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(k *KnowledgeBase) { k.logger = l }
}

// New returns an empty knowledge base.
func New(opts ...Option) *KnowledgeBase {
	st := store.New()
	eng := rules.New(st)
	k := &KnowledgeBase{
		store:   st,
		rules:   eng,
		checker: consistency.New(st, eng),
		session: uuid.NewString(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(k)
	}
	k.logger = k.logger.With(zap.String("session", k.session))
	return k
}

// Session returns the session identifier stamped into logs.
func (k *KnowledgeBase) Session() string {
	return k.session
}

// Assert validates the assertion against the current state and, on
// acceptance, performs the compound fact insertion implied by the
// relation as a single logical unit.
func (k *KnowledgeBase) Assert(a relation.Assertion) (Result, error) {
	if err := checkShape(a); err != nil {
		return Result{}, err
	}
	a = normalize(a)

	k.mu.Lock()
	defer k.mu.Unlock()

	decision := k.checker.Admits(a)
	if !decision.OK {
		k.logger.Info("assertion rejected",
			zap.String("relation", string(a.Type)),
			zap.Strings("names", a.Names),
			zap.Strings("reasons", decision.Reasons))
		return Result{Accepted: false, Reasons: decision.Reasons}, nil
	}

	k.commitLocked(a)
	logging.Session("assert %s%v ok", a.Type, a.Names)
	k.logger.Debug("assertion committed",
		zap.String("relation", string(a.Type)),
		zap.Strings("names", a.Names))
	return Result{Accepted: true}, nil
}

// Holds answers a fully bound query: every slot carries a name.
func (k *KnowledgeBase) Holds(rel relation.Type, names ...string) (bool, error) {
	if !relation.Known(rel) {
		return false, fmt.Errorf("unknown relation %q", rel)
	}

	k.mu.RLock()
	defer k.mu.RUnlock()

	switch rel {
	case relation.Male, relation.Female:
		if len(names) != 1 {
			return false, fmt.Errorf("%s takes 1 name, got %d", rel, len(names))
		}
		pred := relation.PredMale
		if rel == relation.Female {
			pred = relation.PredFemale
		}
		return k.store.Has(pred, relation.Normalize(names[0])), nil
	case relation.ParentsOf:
		if len(names) != 3 {
			return false, fmt.Errorf("parents_of takes 3 names, got %d", len(names))
		}
		return k.rules.HoldsParentsOf(names[0], names[1], names[2]), nil
	default:
		if len(names) != 2 {
			return false, fmt.Errorf("%s takes 2 names, got %d", rel, len(names))
		}
		return k.rules.Holds(rel, names[0], names[1]), nil
	}
}

// Enumerate answers a one-free-slot query and returns the bindings for
// the free position. The result is an unordered set; presentation
// layers sort it themselves.
func (k *KnowledgeBase) Enumerate(rel relation.Type, pat relation.Pattern) ([]string, error) {
	if !relation.Known(rel) {
		return nil, fmt.Errorf("unknown relation %q", rel)
	}
	if pat.Free == relation.BothBound {
		return nil, fmt.Errorf("enumeration needs a free slot")
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.rules.Derive(rel, pat), nil
}

// Stats returns the number of stored ground facts per base predicate.
func (k *KnowledgeBase) Stats() map[string]int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return map[string]int{
		string(relation.PredParent): k.store.CountPred(relation.PredParent),
		string(relation.PredMale):   k.store.CountPred(relation.PredMale),
		string(relation.PredFemale): k.store.CountPred(relation.PredFemale),
	}
}

// Facts returns a snapshot of every stored ground fact, sorted by
// predicate and arguments for stable presentation.
func (k *KnowledgeBase) Facts() []relation.Fact {
	k.mu.RLock()
	defer k.mu.RUnlock()

	var out []relation.Fact
	for _, pred := range []relation.Predicate{relation.PredParent, relation.PredMale, relation.PredFemale} {
		k.store.Each(pred, func(args []string) {
			stored := make([]string, len(args))
			copy(stored, args)
			out = append(out, relation.Fact{Pred: pred, Args: stored})
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pred != out[j].Pred {
			return out[i].Pred < out[j].Pred
		}
		return strings.Join(out[i].Args, "\x00") < strings.Join(out[j].Args, "\x00")
	})
	return out
}

// FactCount returns the total number of stored ground facts.
func (k *KnowledgeBase) FactCount() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.store.Count()
}

// commitLocked performs the compound insertion for an admitted
// assertion. Caller holds the write lock.
func (k *KnowledgeBase) commitLocked(a relation.Assertion) {
	n := a.Names
	switch a.Type {
	case relation.Male:
		k.store.Add(relation.PredMale, n[0])
	case relation.Female:
		k.store.Add(relation.PredFemale, n[0])
	case relation.Parent:
		k.store.Add(relation.PredParent, n[0], n[1])
	case relation.Father:
		k.store.Add(relation.PredParent, n[0], n[1])
		k.store.Add(relation.PredMale, n[0])
	case relation.Mother:
		k.store.Add(relation.PredParent, n[0], n[1])
		k.store.Add(relation.PredFemale, n[0])
	case relation.Child:
		k.store.Add(relation.PredParent, n[1], n[0])
	case relation.Son:
		k.store.Add(relation.PredParent, n[1], n[0])
		k.store.Add(relation.PredMale, n[0])
	case relation.Daughter:
		k.store.Add(relation.PredParent, n[1], n[0])
		k.store.Add(relation.PredFemale, n[0])
	case relation.Sibling:
		k.commitSiblingLocked(a)
	case relation.Brother:
		k.commitSiblingLocked(a)
		k.store.Add(relation.PredMale, n[0])
	case relation.Sister:
		k.commitSiblingLocked(a)
		k.store.Add(relation.PredFemale, n[0])
	case relation.Grandfather:
		k.store.Add(relation.PredMale, n[0])
	case relation.Grandmother:
		k.store.Add(relation.PredFemale, n[0])
	case relation.Uncle:
		k.store.Add(relation.PredMale, n[0])
	case relation.Aunt:
		k.store.Add(relation.PredFemale, n[0])
	case relation.ParentsOf:
		k.store.Add(relation.PredParent, n[0], n[2])
		k.store.Add(relation.PredParent, n[1], n[2])
	case relation.ChildrenOf:
		p := n[len(n)-1]
		for _, child := range n[:len(n)-1] {
			k.store.Add(relation.PredParent, p, child)
		}
	}
}

// commitSiblingLocked records the supplementary common-parent edges
// when the sibling relation does not already derive.
func (k *KnowledgeBase) commitSiblingLocked(a relation.Assertion) {
	if k.rules.Holds(relation.Sibling, a.Names[0], a.Names[1]) {
		return
	}
	if a.CommonParent == "" {
		return // checker guarantees this is unreachable on the accept path
	}
	k.store.Add(relation.PredParent, a.CommonParent, a.Names[0])
	k.store.Add(relation.PredParent, a.CommonParent, a.Names[1])
}

// checkShape rejects malformed assertions before they reach the
// checker. The dialog layer normally guarantees shape; this guards
// direct API callers.
func checkShape(a relation.Assertion) error {
	if !relation.Known(a.Type) {
		return fmt.Errorf("unknown relation %q", a.Type)
	}
	if !relation.Assertable(a.Type) {
		return fmt.Errorf("%s is a derived view and cannot be asserted", a.Type)
	}
	want := relation.Arity(a.Type)
	if a.Type == relation.ChildrenOf {
		if len(a.Names) < 3 {
			return fmt.Errorf("children_of takes at least 2 children and a parent")
		}
	} else if len(a.Names) != want {
		return fmt.Errorf("%s takes %d names, got %d", a.Type, want, len(a.Names))
	}
	for _, n := range a.Names {
		if relation.Normalize(n) == "" {
			return fmt.Errorf("empty name in %s assertion", a.Type)
		}
	}
	return nil
}

func normalize(a relation.Assertion) relation.Assertion {
	out := relation.Assertion{
		Type:         a.Type,
		Names:        make([]string, len(a.Names)),
		CommonParent: relation.Normalize(a.CommonParent),
	}
	for i, n := range a.Names {
		out.Names[i] = relation.Normalize(n)
	}
	return out
}
