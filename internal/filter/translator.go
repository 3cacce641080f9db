// Package filter translates abstract filter criteria into the query shape a
// work-item source expects, and validates and merges criteria.
package filter

import (
	"fmt"

	"github.com/josephgoksu/atomize/models"
	"github.com/josephgoksu/atomize/platform"
	"github.com/rs/zerolog"
)

// Validation is the result of validating filter criteria.
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Translator maps filter criteria to platform queries.
type Translator struct {
	log zerolog.Logger
}

// New creates a Translator.
func New(log zerolog.Logger) *Translator {
	return &Translator{log: log}
}

// Translate copies present criteria into a platform query. Entries in
// assignedTo equal to the @Me macro are replaced by the resolved identity
// when one is supplied; with no identity the entry is dropped with a warning,
// never passed through as the literal macro string.
func (t *Translator) Translate(f models.FilterCriteria, identity string) (platform.Query, []string) {
	q := platform.Query{
		WorkItemTypes:     append([]string(nil), f.WorkItemTypes...),
		States:            append([]string(nil), f.States...),
		Tags:              append([]string(nil), f.Tags...),
		ExcludeTags:       append([]string(nil), f.ExcludeTags...),
		AreaPath:          f.AreaPath,
		Iteration:         f.Iteration,
		MinPriority:       f.MinPriority,
		MaxPriority:       f.MaxPriority,
		ExcludeIfHasTasks: f.ExcludeIfHasTasks,
		CustomQuery:       f.CustomQuery,
	}
	if len(f.CustomFields) > 0 {
		q.CustomFields = make(map[string]string, len(f.CustomFields))
		for k, v := range f.CustomFields {
			q.CustomFields[k] = v
		}
	}

	var warnings []string
	for _, entry := range f.AssignedTo {
		if entry != models.MacroMe {
			q.AssignedTo = append(q.AssignedTo, entry)
			continue
		}
		if identity == "" {
			msg := "assignedTo contains @Me but no identity is available; entry dropped"
			t.log.Warn().Msg(msg)
			warnings = append(warnings, msg)
			continue
		}
		q.AssignedTo = append(q.AssignedTo, identity)
	}
	return q, warnings
}

// Validate checks that the criteria can be translated into a meaningful
// query: at least one criterion must be set, and list fields that are
// explicitly present must not be empty.
func Validate(f models.FilterCriteria) Validation {
	var errs []string
	if !f.HasCriteria() {
		errs = append(errs, "Filter must have at least one criterion")
	}
	if f.WorkItemTypes != nil && len(f.WorkItemTypes) == 0 {
		errs = append(errs, "workItemTypes is present but empty")
	}
	if f.States != nil && len(f.States) == 0 {
		errs = append(errs, "states is present but empty")
	}
	if f.MinPriority != nil && f.MaxPriority != nil && *f.MinPriority > *f.MaxPriority {
		errs = append(errs, fmt.Sprintf("minPriority %d is greater than maxPriority %d", *f.MinPriority, *f.MaxPriority))
	}
	return Validation{Valid: len(errs) == 0, Errors: errs}
}

// Merge combines several criteria into one: list-valued fields are unioned
// with uniqueness preserved in first-seen order, scalar fields are
// last-write-wins.
func Merge(filters ...models.FilterCriteria) models.FilterCriteria {
	var out models.FilterCriteria
	for _, f := range filters {
		out.WorkItemTypes = unionStrings(out.WorkItemTypes, f.WorkItemTypes)
		out.States = unionStrings(out.States, f.States)
		out.Tags = unionStrings(out.Tags, f.Tags)
		out.ExcludeTags = unionStrings(out.ExcludeTags, f.ExcludeTags)
		out.AssignedTo = unionStrings(out.AssignedTo, f.AssignedTo)

		if f.AreaPath != "" {
			out.AreaPath = f.AreaPath
		}
		if f.Iteration != "" {
			out.Iteration = f.Iteration
		}
		if f.MinPriority != nil {
			out.MinPriority = f.MinPriority
		}
		if f.MaxPriority != nil {
			out.MaxPriority = f.MaxPriority
		}
		if f.ExcludeIfHasTasks {
			out.ExcludeIfHasTasks = true
		}
		if f.CustomQuery != "" {
			out.CustomQuery = f.CustomQuery
		}
		for k, v := range f.CustomFields {
			if out.CustomFields == nil {
				out.CustomFields = make(map[string]string)
			}
			out.CustomFields[k] = v
		}
	}
	return out
}

func unionStrings(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range src {
		if !seen[s] {
			seen[s] = true
			dst = append(dst, s)
		}
	}
	return dst
}
