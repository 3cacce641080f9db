package platform

// Query is the concrete query shape a work-item source expects. It mirrors
// the abstract filter criteria with all identity macros already resolved;
// sources never see a literal macro string.
type Query struct {
	WorkItemTypes []string
	States        []string
	Tags          []string
	ExcludeTags   []string
	AreaPath      string
	Iteration     string
	AssignedTo    []string
	MinPriority   *int
	MaxPriority   *int

	ExcludeIfHasTasks bool

	CustomFields map[string]string
	// CustomQuery is passed through verbatim to sources that support a raw
	// query language.
	CustomQuery string

	// Project scopes the query to one project; empty means the source's
	// default. The engine passes it through without interpreting it.
	Project string
}
