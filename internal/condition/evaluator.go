// Package condition evaluates task inclusion conditions against a story.
//
// The grammar is deliberately tiny: one ${story.<field>} substitution on
// either side, one comparator from {==, !=, >=, <=, >, <, CONTAINS}, and
// quoted or bare literals. A malformed condition is treated as not met so a
// broken expression can never accidentally create an unintended task.
package condition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/josephgoksu/atomize/models"
	"github.com/rs/zerolog"
)

// Comparator is the closed set of supported comparison operators.
type Comparator int

const (
	CompareEq Comparator = iota
	CompareNe
	CompareGe
	CompareLe
	CompareGt
	CompareLt
	CompareContains
)

// comparator tokens in scan order: multi-character operators first so ">="
// is not misread as ">".
var comparatorTokens = []struct {
	token string
	op    Comparator
}{
	{">=", CompareGe},
	{"<=", CompareLe},
	{"==", CompareEq},
	{"!=", CompareNe},
	{">", CompareGt},
	{"<", CompareLt},
	{" CONTAINS ", CompareContains},
}

// Evaluator evaluates condition strings. The zero value is usable; the
// logger only receives debug records for malformed conditions.
type Evaluator struct {
	log zerolog.Logger
}

// New creates an Evaluator logging malformed conditions to the given logger.
func New(log zerolog.Logger) *Evaluator {
	return &Evaluator{log: log}
}

// Evaluate reports whether the condition holds for the story. Empty
// conditions hold trivially; malformed conditions do not hold.
func (e *Evaluator) Evaluate(cond string, story models.WorkItem) bool {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return true
	}
	// Tolerate the raw YAML-escaped form: strip one layer of quotes wrapping
	// the whole expression.
	cond = stripOuterQuotes(cond)

	left, op, right, ok := split(cond)
	if !ok {
		e.log.Debug().Str("condition", cond).Msg("malformed condition treated as not met")
		return false
	}

	lv, lok := e.resolve(left, story)
	rv, rok := e.resolve(right, story)
	if !lok || !rok {
		e.log.Debug().Str("condition", cond).Msg("unresolvable operand, condition treated as not met")
		return false
	}
	return compare(lv, op, rv)
}

// split finds the single comparator and returns trimmed operands.
func split(cond string) (left string, op Comparator, right string, ok bool) {
	for _, c := range comparatorTokens {
		idx := strings.Index(cond, c.token)
		if idx < 0 {
			continue
		}
		left = strings.TrimSpace(cond[:idx])
		right = strings.TrimSpace(cond[idx+len(c.token):])
		if left == "" || right == "" {
			return "", 0, "", false
		}
		return left, c.op, right, true
	}
	return "", 0, "", false
}

// value is a resolved operand: either a scalar rendered as a string or a
// list (for CONTAINS membership checks).
type value struct {
	str    string
	list   []string
	isList bool
}

// resolve turns an operand into a value: a ${story.*} reference is looked up
// on the story, anything else is a literal with one layer of quotes removed.
func (e *Evaluator) resolve(operand string, story models.WorkItem) (value, bool) {
	if strings.HasPrefix(operand, "${") && strings.HasSuffix(operand, "}") {
		field := strings.TrimSuffix(strings.TrimPrefix(operand, "${"), "}")
		if !strings.HasPrefix(field, "story.") {
			return value{}, false
		}
		return lookupField(story, strings.TrimPrefix(field, "story."))
	}
	return value{str: stripOuterQuotes(operand)}, true
}

// lookupField resolves a story field path, including nested custom fields
// (customFields.<key>). Missing custom-field keys resolve to the empty
// string; unknown top-level fields are malformed.
func lookupField(story models.WorkItem, path string) (value, bool) {
	if key, ok := strings.CutPrefix(path, "customFields."); ok {
		raw, present := story.CustomFields[key]
		if !present {
			return value{str: ""}, true
		}
		return value{str: renderScalar(raw)}, true
	}
	switch path {
	case "id":
		return value{str: story.ID}, true
	case "title":
		return value{str: story.Title}, true
	case "description":
		return value{str: story.Description}, true
	case "type":
		return value{str: story.Type}, true
	case "state":
		return value{str: story.State}, true
	case "estimation":
		return value{str: strconv.FormatFloat(story.Estimation, 'f', -1, 64)}, true
	case "assignedTo":
		return value{str: story.AssignedTo}, true
	case "priority":
		return value{str: strconv.Itoa(story.Priority)}, true
	case "tags":
		return value{list: story.Tags, isList: true}, true
	}
	return value{}, false
}

func renderScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func compare(l value, op Comparator, r value) bool {
	if op == CompareContains {
		if l.isList {
			for _, item := range l.list {
				if item == r.str {
					return true
				}
			}
			return false
		}
		return strings.Contains(l.str, r.str)
	}
	// A list on either side of a scalar comparator is malformed.
	if l.isList || r.isList {
		return false
	}

	lf, lerr := strconv.ParseFloat(l.str, 64)
	rf, rerr := strconv.ParseFloat(r.str, 64)
	numeric := lerr == nil && rerr == nil

	switch op {
	case CompareEq:
		if numeric {
			return lf == rf
		}
		return l.str == r.str
	case CompareNe:
		if numeric {
			return lf != rf
		}
		return l.str != r.str
	case CompareGt:
		if numeric {
			return lf > rf
		}
		return l.str > r.str
	case CompareLt:
		if numeric {
			return lf < rf
		}
		return l.str < r.str
	case CompareGe:
		if numeric {
			return lf >= rf
		}
		return l.str >= r.str
	case CompareLe:
		if numeric {
			return lf <= rf
		}
		return l.str <= r.str
	}
	return false
}

// stripOuterQuotes removes exactly one layer of matching single or double
// quotes wrapping the whole string.
func stripOuterQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
