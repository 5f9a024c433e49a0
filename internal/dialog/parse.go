package dialog

import (
	"regexp"
	"strings"

	"kindred/internal/relation"
)

// QuestionKind discriminates the question shapes the grammar accepts.
type QuestionKind int

const (
	// BoolQuestion asks whether a fully bound relation holds.
	BoolQuestion QuestionKind = iota
	// WhoQuestion asks for the bindings of one free slot.
	WhoQuestion
	// ChildrenQuestion asks which of several named children belong to
	// a parent.
	ChildrenQuestion
)

// Question is a parsed user question.
type Question struct {
	Kind     QuestionKind
	Relation relation.Type
	// Names holds the bound names. For BoolQuestion over a binary
	// relation it is [first, second]; for parents_of it is [p1, p2, c];
	// for ChildrenQuestion it is the candidate children followed by the
	// parent.
	Names []string
	// Pattern is set for WhoQuestion.
	Pattern relation.Pattern
}

var (
	reSiblingsStmt   = regexp.MustCompile(`^(\w+) and (\w+) are siblings$`)
	reParentsOfStmt  = regexp.MustCompile(`^(\w+) and (\w+) are the parents of (\w+)$`)
	reChildren3Stmt  = regexp.MustCompile(`^(\w+),? (\w+),? and (\w+) are children of (\w+)$`)
	reChildren2Stmt  = regexp.MustCompile(`^(\w+) and (\w+) are children of (\w+)$`)
	reBinaryStmt     = regexp.MustCompile(`^(\w+) is (?:a|an|the) (\w+) of (\w+)$`)
	reGenderStmt     = regexp.MustCompile(`^(\w+) is (\w+)$`)
	reGroupRelStmt   = regexp.MustCompile(`^(\w+) and (\w+) are (\w+)$`)
	reBoolParentsOfQ = regexp.MustCompile(`^are (\w+) and (\w+) the parents of (\w+)$`)
	reBoolPairQ      = regexp.MustCompile(`^are (\w+) and (\w+) (\w+)$`)
	reChildren3Q     = regexp.MustCompile(`^are (\w+),? (\w+),? and (\w+) children of (\w+)$`)
	reChildren2Q     = regexp.MustCompile(`^are (\w+) and (\w+) children of (\w+)$`)
	reBoolBinaryQ    = regexp.MustCompile(`^is (\w+) (?:a|an|the) (\w+) of (\w+)$`)
	reWhoPluralQ     = regexp.MustCompile(`^who are the (\w+) of (\w+)$`)
	reWhoSingularQ   = regexp.MustCompile(`^who is the (\w+) of (\w+)$`)
	reGenderQ        = regexp.MustCompile(`^is (\w+) (\w+)$`)
)

// clean lowercases the input and strips surrounding whitespace and the
// trailing punctuation mark.
func clean(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimRight(s, ".?! ")
	return strings.Join(strings.Fields(s), " ")
}

// binaryAssertable reports whether rel can appear in an "X is the R of
// Y" statement.
func binaryAssertable(rel relation.Type) bool {
	return relation.Assertable(rel) && relation.Arity(rel) == 2
}

// ParseStatement parses a declarative sentence into an assertion.
// Relation words are spell-corrected against the vocabulary. The
// second return is false when the sentence does not match the grammar.
func ParseStatement(text string) (relation.Assertion, bool) {
	s := clean(text)

	if m := reParentsOfStmt.FindStringSubmatch(s); m != nil {
		return relation.Assertion{Type: relation.ParentsOf, Names: m[1:4]}, true
	}
	if m := reChildren3Stmt.FindStringSubmatch(s); m != nil {
		return relation.Assertion{Type: relation.ChildrenOf, Names: m[1:5]}, true
	}
	if m := reChildren2Stmt.FindStringSubmatch(s); m != nil {
		return relation.Assertion{Type: relation.ChildrenOf, Names: m[1:4]}, true
	}
	if m := reSiblingsStmt.FindStringSubmatch(s); m != nil {
		return relation.Assertion{Type: relation.Sibling, Names: m[1:3]}, true
	}
	if m := reGroupRelStmt.FindStringSubmatch(s); m != nil {
		if rel, ok := correctRelationWord(m[3]); ok && rel == relation.Sibling {
			return relation.Assertion{Type: relation.Sibling, Names: m[1:3]}, true
		}
	}
	if m := reBinaryStmt.FindStringSubmatch(s); m != nil {
		if rel, ok := correctRelationWord(m[2]); ok && binaryAssertable(rel) {
			return relation.Assertion{Type: rel, Names: []string{m[1], m[3]}}, true
		}
	}
	if m := reGenderStmt.FindStringSubmatch(s); m != nil {
		switch rel, ok := correctRelationWord(m[2]); {
		case ok && rel == relation.Male:
			return relation.Assertion{Type: relation.Male, Names: m[1:2]}, true
		case ok && rel == relation.Female:
			return relation.Assertion{Type: relation.Female, Names: m[1:2]}, true
		}
	}
	return relation.Assertion{}, false
}

// ParseQuestion parses an interrogative sentence. The second return is
// false when the sentence does not match the grammar.
func ParseQuestion(text string) (Question, bool) {
	s := clean(text)

	if m := reBoolParentsOfQ.FindStringSubmatch(s); m != nil {
		return Question{Kind: BoolQuestion, Relation: relation.ParentsOf, Names: m[1:4]}, true
	}
	if m := reChildren3Q.FindStringSubmatch(s); m != nil {
		return Question{Kind: ChildrenQuestion, Relation: relation.Child, Names: m[1:5]}, true
	}
	if m := reChildren2Q.FindStringSubmatch(s); m != nil {
		return Question{Kind: ChildrenQuestion, Relation: relation.Child, Names: m[1:4]}, true
	}
	if m := reBoolPairQ.FindStringSubmatch(s); m != nil {
		if rel, ok := correctRelationWord(m[3]); ok {
			switch rel {
			case relation.Sibling, relation.Relative:
				return Question{Kind: BoolQuestion, Relation: rel, Names: m[1:3]}, true
			}
		}
	}
	if m := reBoolBinaryQ.FindStringSubmatch(s); m != nil {
		if rel, ok := correctRelationWord(m[2]); ok && relation.Arity(rel) == 2 {
			return Question{Kind: BoolQuestion, Relation: rel, Names: []string{m[1], m[3]}}, true
		}
	}
	if m := reWhoPluralQ.FindStringSubmatch(s); m != nil {
		if rel, ok := correctRelationWord(m[1]); ok && relation.Arity(rel) == 2 {
			return Question{Kind: WhoQuestion, Relation: rel, Pattern: relation.WhoIs(m[2])}, true
		}
	}
	if m := reWhoSingularQ.FindStringSubmatch(s); m != nil {
		if rel, ok := correctRelationWord(m[1]); ok && relation.Arity(rel) == 2 {
			return Question{Kind: WhoQuestion, Relation: rel, Pattern: relation.WhoIs(m[2])}, true
		}
	}
	if m := reGenderQ.FindStringSubmatch(s); m != nil {
		switch rel, ok := correctRelationWord(m[2]); {
		case ok && rel == relation.Male:
			return Question{Kind: BoolQuestion, Relation: relation.Male, Names: m[1:2]}, true
		case ok && rel == relation.Female:
			return Question{Kind: BoolQuestion, Relation: relation.Female, Names: m[1:2]}, true
		}
	}
	return Question{}, false
}
