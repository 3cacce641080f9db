package platform

import (
	"context"

	"github.com/josephgoksu/atomize/models"
)

// Source defines the interface to an external work-item platform.
// It outlines the contract the atomization engine depends on: querying
// stories, resolving the caller's identity, and creating child tasks.
// Implementations own all remote I/O; the engine never retries or batches
// on their behalf.
type Source interface {
	// Name identifies the platform, used in warnings and error payloads.
	Name() string

	// QueryWorkItems returns the work items matching the translated query.
	// The result order is the platform's natural order and is the order in
	// which stories are processed.
	QueryWorkItems(ctx context.Context, q Query) ([]models.WorkItem, error)

	// CurrentUserIdentity resolves the identity of the calling user, used
	// to substitute the @Me macro in filters and assignments.
	CurrentUserIdentity(ctx context.Context) (string, error)

	// CreateTasksBulk creates the given tasks as children of the parent
	// work item. The returned slice is order-preserving: one created item
	// per input task, in input order.
	CreateTasksBulk(ctx context.Context, parentID string, tasks []models.CalculatedTask) ([]models.WorkItem, error)

	// GetWorkItem retrieves a single work item by id. Used by the learning
	// direction.
	GetWorkItem(ctx context.Context, id string) (models.WorkItem, error)

	// GetChildren retrieves the direct children of a work item. Used by the
	// learning direction.
	GetChildren(ctx context.Context, id string) ([]models.WorkItem, error)
}

// DependencyLinker is an optional capability of a Source. Platforms that
// cannot express predecessor links simply do not implement it; the engine
// then warns and drops the links instead of failing.
type DependencyLinker interface {
	// CreateDependencyLink records that toID depends on fromID.
	CreateDependencyLink(ctx context.Context, fromID, toID string) error
}
