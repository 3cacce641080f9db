package platform

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/josephgoksu/atomize/models"
	"gopkg.in/yaml.v3"
)

// MemorySource is an in-memory Source implementation. It backs tests,
// previews, and fixture-driven runs; it is not a remote adapter.
type MemorySource struct {
	mu       sync.Mutex
	items    map[string]models.WorkItem
	children map[string][]string
	links    map[string][]string // toID -> fromIDs
	identity string
	order    []string // insertion order, the query result order
}

// NewMemorySource creates an empty in-memory source reporting the given
// user identity.
func NewMemorySource(identity string) *MemorySource {
	return &MemorySource{
		items:    make(map[string]models.WorkItem),
		children: make(map[string][]string),
		links:    make(map[string][]string),
		identity: identity,
	}
}

// memoryFixture is the YAML shape accepted by LoadFixture.
type memoryFixture struct {
	Identity string            `yaml:"identity"`
	Items    []models.WorkItem `yaml:"items"`
}

// NewMemorySourceFromFile creates a source seeded from a YAML fixture file.
// Nested children in the fixture are registered as child work items.
func NewMemorySourceFromFile(path string) (*MemorySource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fx memoryFixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	s := NewMemorySource(fx.Identity)
	for _, it := range fx.Items {
		s.Add(it)
	}
	return s, nil
}

// Add registers a work item. Children embedded in the item are registered
// as separate items parented to it.
func (s *MemorySource) Add(item models.WorkItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(item)
}

func (s *MemorySource) add(item models.WorkItem) {
	children := item.Children
	item.Children = nil
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if _, seen := s.items[item.ID]; !seen {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = item
	for _, c := range children {
		s.add(c)
		s.children[item.ID] = append(s.children[item.ID], c.ID)
	}
}

// Name implements Source.
func (s *MemorySource) Name() string { return "memory" }

// SetIdentity overrides the identity reported by CurrentUserIdentity.
func (s *MemorySource) SetIdentity(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
}

// CurrentUserIdentity implements Source.
func (s *MemorySource) CurrentUserIdentity(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, nil
}

// QueryWorkItems implements Source. CustomQuery is not supported by the
// in-memory source and yields an error rather than silently matching all.
func (s *MemorySource) QueryWorkItems(ctx context.Context, q Query) ([]models.WorkItem, error) {
	if q.CustomQuery != "" {
		return nil, fmt.Errorf("memory source does not support custom queries")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.WorkItem
	for _, id := range s.order {
		item := s.items[id]
		if s.matches(item, q) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *MemorySource) matches(item models.WorkItem, q Query) bool {
	if len(q.WorkItemTypes) > 0 && !containsString(q.WorkItemTypes, item.Type) {
		return false
	}
	if len(q.States) > 0 && !containsString(q.States, item.State) {
		return false
	}
	for _, tag := range q.Tags {
		if !item.HasTag(tag) {
			return false
		}
	}
	for _, tag := range q.ExcludeTags {
		if item.HasTag(tag) {
			return false
		}
	}
	if q.AreaPath != "" && item.AreaPath != q.AreaPath {
		return false
	}
	if q.Iteration != "" && item.Iteration != q.Iteration {
		return false
	}
	if len(q.AssignedTo) > 0 && !containsString(q.AssignedTo, item.AssignedTo) {
		return false
	}
	if q.MinPriority != nil && item.Priority < *q.MinPriority {
		return false
	}
	if q.MaxPriority != nil && item.Priority > *q.MaxPriority {
		return false
	}
	if q.ExcludeIfHasTasks && len(s.children[item.ID]) > 0 {
		return false
	}
	for k, want := range q.CustomFields {
		got, ok := item.CustomFields[k]
		if !ok || fmt.Sprintf("%v", got) != want {
			return false
		}
	}
	return true
}

// CreateTasksBulk implements Source.
func (s *MemorySource) CreateTasksBulk(ctx context.Context, parentID string, tasks []models.CalculatedTask) ([]models.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[parentID]; !ok {
		return nil, fmt.Errorf("parent work item %q not found", parentID)
	}
	created := make([]models.WorkItem, 0, len(tasks))
	for _, t := range tasks {
		fields := make(map[string]any, len(t.CustomFields))
		for k, v := range t.CustomFields {
			fields[k] = v
		}
		item := models.WorkItem{
			ID:          uuid.NewString(),
			Title:       t.Title,
			Description: t.Description,
			Type:        "Task",
			State:       "New",
			Estimation:  t.Estimation,
			AssignedTo:  t.AssignedTo,
			Tags:        t.Tags,
		}
		if t.Priority != nil {
			item.Priority = *t.Priority
		}
		if len(fields) > 0 {
			item.CustomFields = fields
		}
		s.items[item.ID] = item
		s.order = append(s.order, item.ID)
		s.children[parentID] = append(s.children[parentID], item.ID)
		created = append(created, item)
	}
	return created, nil
}

// CreateDependencyLink implements DependencyLinker.
func (s *MemorySource) CreateDependencyLink(ctx context.Context, fromID, toID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[fromID]; !ok {
		return fmt.Errorf("work item %q not found", fromID)
	}
	if _, ok := s.items[toID]; !ok {
		return fmt.Errorf("work item %q not found", toID)
	}
	s.links[toID] = append(s.links[toID], fromID)
	return nil
}

// Links returns the predecessor ids recorded for a work item.
func (s *MemorySource) Links(toID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.links[toID]...)
}

// GetWorkItem implements Source.
func (s *MemorySource) GetWorkItem(ctx context.Context, id string) (models.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return models.WorkItem{}, fmt.Errorf("work item %q not found", id)
	}
	return item, nil
}

// GetChildren implements Source.
func (s *MemorySource) GetChildren(ctx context.Context, id string) ([]models.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return nil, fmt.Errorf("work item %q not found", id)
	}
	ids := s.children[id]
	out := make([]models.WorkItem, 0, len(ids))
	for _, cid := range ids {
		out = append(out, s.items[cid])
	}
	return out, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
