package dialog

import (
	"fmt"
	"sort"
	"strings"

	"kindred/internal/kb"
)

// Canned replies. Question answers are Yes!/No!; statement outcomes
// acknowledge or refuse with the accumulated reasons.
const (
	ReplyLearned    = "OK! I learned something."
	ReplyImpossible = "That's impossible!"
	ReplyYes        = "Yes!"
	ReplyNo         = "No!"
	ReplyUnparsed   = "I don't understand that. Tell me facts like \"alice is the mother of bob\" or ask \"who are the children of alice?\"."
)

// title uppercases the first letter of a stored name for display.
func title(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// joinNames renders a sorted name list as prose: "Ana", "Ana and Bo",
// "Ana, Bo and Cy".
func joinNames(names []string) string {
	shown := make([]string, len(names))
	for i, n := range names {
		shown[i] = title(n)
	}
	switch len(shown) {
	case 0:
		return ""
	case 1:
		return shown[0]
	default:
		return strings.Join(shown[:len(shown)-1], ", ") + " and " + shown[len(shown)-1]
	}
}

// RenderResult renders an assertion outcome.
func RenderResult(res kb.Result) string {
	if res.Accepted {
		return ReplyLearned
	}
	if len(res.Reasons) == 0 {
		return ReplyImpossible
	}
	return fmt.Sprintf("%s (%s)", ReplyImpossible, strings.Join(res.Reasons, "; "))
}

// RenderBool renders a yes/no answer.
func RenderBool(yes bool) string {
	if yes {
		return ReplyYes
	}
	return ReplyNo
}

// RenderWho renders an enumeration answer. relWord is the surface word
// from the question ("siblings", "mother"), owner the bound name. The
// binding set is sorted for a stable reply.
func RenderWho(relWord, owner string, names []string) string {
	if len(names) == 0 {
		return fmt.Sprintf("%s has no %s.", title(owner), pluralize(relWord))
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	verb := "are"
	if len(sorted) == 1 {
		verb = "is"
	}
	return fmt.Sprintf("The %s of %s %s %s.", pluralizeFor(relWord, len(sorted)), title(owner), verb, joinNames(sorted))
}

// RenderChildren answers "are A, B children of P" given which of the
// asked children actually are. All of them is a plain yes, none a
// plain no, and a strict subset names the ones that hold.
func RenderChildren(asked, held []string) string {
	switch {
	case len(held) == len(asked):
		return ReplyYes
	case len(held) == 0:
		return ReplyNo
	default:
		sorted := append([]string(nil), held...)
		sort.Strings(sorted)
		return fmt.Sprintf("Only %s.", joinNames(sorted))
	}
}

// pluralize returns the plural surface form of a relation word.
func pluralize(word string) string {
	switch word {
	case "child", "children":
		return "children"
	case "parents":
		return "parents"
	}
	if strings.HasSuffix(word, "s") {
		return word
	}
	return word + "s"
}

// pluralizeFor matches the relation word's number to the binding count.
func pluralizeFor(word string, n int) string {
	if n == 1 {
		switch word {
		case "children":
			return "child"
		case "parents":
			return "parent"
		}
		return strings.TrimSuffix(word, "s")
	}
	return pluralize(word)
}
