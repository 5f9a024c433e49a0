// Package dialog is the text boundary of the knowledge base. It turns
// user sentences into structured (relation, names) tuples via a fixed
// pattern grammar with spelling correction against the relation
// vocabulary, and renders structured results back into chatbot replies.
// Malformed input is handled here and never reaches the facade.
package dialog

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"kindred/internal/relation"
)

// vocabulary lists the relation words recognized in sentences,
// including the plural/grouped surface forms.
var vocabulary = []string{
	"father", "mother", "parent", "parents",
	"child", "children",
	"son", "sons", "daughter", "daughters",
	"sibling", "siblings", "brother", "brothers", "sister", "sisters",
	"grandfather", "grandmother", "grandparent",
	"uncle", "uncles", "aunt", "aunts",
	"ancestor", "ancestors", "descendant", "descendants",
	"relative", "relatives",
	"male", "female",
}

// singular maps surface forms to vocabulary tokens.
var singular = map[string]relation.Type{
	"father":      relation.Father,
	"mother":      relation.Mother,
	"parent":      relation.Parent,
	"parents":     relation.Parent,
	"child":       relation.Child,
	"children":    relation.Child,
	"son":         relation.Son,
	"sons":        relation.Son,
	"daughter":    relation.Daughter,
	"daughters":   relation.Daughter,
	"sibling":     relation.Sibling,
	"siblings":    relation.Sibling,
	"brother":     relation.Brother,
	"brothers":    relation.Brother,
	"sister":      relation.Sister,
	"sisters":     relation.Sister,
	"grandfather": relation.Grandfather,
	"grandmother": relation.Grandmother,
	"grandparent": relation.Grandparent,
	"uncle":       relation.Uncle,
	"uncles":      relation.Uncle,
	"aunt":        relation.Aunt,
	"aunts":       relation.Aunt,
	"ancestor":    relation.Ancestor,
	"ancestors":   relation.Ancestor,
	"descendant":  relation.Descendant,
	"descendants": relation.Descendant,
	"relative":    relation.Relative,
	"relatives":   relation.Relative,
	"male":        relation.Male,
	"female":      relation.Female,
}

// correctRelationWord resolves a possibly misspelled relation word to a
// vocabulary token. Exact hits win; otherwise the closest fuzzy match
// is accepted so "mothr" still reads as mother. Unknown words come
// back unresolved.
func correctRelationWord(word string) (relation.Type, bool) {
	w := strings.ToLower(strings.TrimSpace(word))
	if rel, ok := singular[w]; ok {
		return rel, true
	}
	if len(w) < 3 {
		return "", false
	}
	matches := fuzzy.Find(w, vocabulary)
	if len(matches) == 0 {
		return "", false
	}
	best := matches[0].Str
	// A correction should be a near miss, not a distant cousin.
	if len(best)-len(w) > 3 {
		return "", false
	}
	return singular[best], true
}
