package dialog

import (
	"strings"

	"kindred/internal/kb"
	"kindred/internal/logging"
	"kindred/internal/relation"
)

// Responder drives one conversation turn at a time against a knowledge
// base. It owns no state beyond the facade reference, so a single
// Responder can serve interleaved inputs.
type Responder struct {
	kb *kb.KnowledgeBase
}

// NewResponder returns a responder speaking for k.
func NewResponder(k *kb.KnowledgeBase) *Responder {
	return &Responder{kb: k}
}

// Process handles one line of user input and returns the reply. Input
// ending in "?" is treated as a question, everything else as a
// statement.
func (r *Responder) Process(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ReplyUnparsed
	}
	logging.Dialog("input: %s", trimmed)

	var reply string
	if strings.HasSuffix(trimmed, "?") {
		reply = r.answer(trimmed)
	} else {
		reply = r.learn(trimmed)
	}
	logging.Dialog("reply: %s", reply)
	return reply
}

func (r *Responder) learn(text string) string {
	a, ok := ParseStatement(text)
	if !ok {
		return ReplyUnparsed
	}
	res, err := r.kb.Assert(a)
	if err != nil {
		return ReplyImpossible + " (" + err.Error() + ")"
	}
	return RenderResult(res)
}

func (r *Responder) answer(text string) string {
	q, ok := ParseQuestion(text)
	if !ok {
		return ReplyUnparsed
	}
	switch q.Kind {
	case BoolQuestion:
		yes, err := r.kb.Holds(q.Relation, q.Names...)
		if err != nil {
			return ReplyUnparsed
		}
		return RenderBool(yes)

	case WhoQuestion:
		names, err := r.kb.Enumerate(q.Relation, q.Pattern)
		if err != nil {
			return ReplyUnparsed
		}
		return RenderWho(relationWord(q.Relation), q.Pattern.Second, names)

	case ChildrenQuestion:
		asked := q.Names[:len(q.Names)-1]
		parent := q.Names[len(q.Names)-1]
		var held []string
		for _, child := range asked {
			yes, err := r.kb.Holds(relation.Child, child, parent)
			if err != nil {
				return ReplyUnparsed
			}
			if yes {
				held = append(held, child)
			}
		}
		return RenderChildren(asked, held)
	}
	return ReplyUnparsed
}

// relationWord picks the singular surface word used in enumeration
// replies; RenderWho matches its number to the binding count.
func relationWord(rel relation.Type) string {
	if rel == relation.Child {
		return "child"
	}
	return string(rel)
}
