// Package graph defines the node-graph capability the importer writes into.
//
// The graph is owned by something else (a notes application, a database shared
// with other writers). The importer only ever looks nodes up by name within a
// parent scope, creates nodes and mutates the nodes it created.
//
// # Implementations
//
//   - MemoryStore: in-process map, used by tests and dry runs
//   - database/nodes.Repository: gorm/sqlite backed, durable
package graph

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no node matches a lookup.
var ErrNotFound = errors.New("node not found")

// NodeID identifies a node. The empty NodeID denotes the root scope.
type NodeID string

// Root is the scope of top-level nodes.
const Root NodeID = ""

// Node is a read-only snapshot of a graph node.
type Node struct {
	ID         NodeID
	ParentID   NodeID
	Text       string
	IsDocument bool
	IsProperty bool
	Tags       []NodeID
	CreatedAt  time.Time
}

// HasTag reports whether tagID is attached to the node.
func (n Node) HasTag(tagID NodeID) bool {
	for _, t := range n.Tags {
		if t == tagID {
			return true
		}
	}
	return false
}

// Reference points at another node from a property value.
type Reference struct {
	NodeID NodeID `json:"node_id"`
}

// Finder looks nodes up by exact name within a parent scope.
type Finder interface {
	// FindByName returns the node named name whose parent is parentID
	// (Root for top-level nodes). When several match, the earliest created
	// wins. Returns ErrNotFound on a miss.
	FindByName(ctx context.Context, name string, parentID NodeID) (*Node, error)
}

// Store is the full set of graph operations used by the importer.
type Store interface {
	Finder

	CreateNode(ctx context.Context) (*Node, error)
	SetText(ctx context.Context, id NodeID, text string) error
	SetParent(ctx context.Context, id, parentID NodeID) error
	SetIsDocument(ctx context.Context, id NodeID, isDocument bool) error
	SetIsProperty(ctx context.Context, id NodeID, isProperty bool) error
	AddTag(ctx context.Context, id, tagID NodeID) error

	// ReferenceTo builds a reference suitable for SetPropertyValue.
	ReferenceTo(ctx context.Context, id NodeID) (Reference, error)
	// SetPropertyValue replaces the value of propertyID on node id.
	SetPropertyValue(ctx context.Context, id, propertyID NodeID, value []Reference) error
	// PropertyValue reads the value of propertyID on node id. A node without
	// a value returns an empty slice.
	PropertyValue(ctx context.Context, id, propertyID NodeID) ([]Reference, error)

	GetNode(ctx context.Context, id NodeID) (*Node, error)
	// Children lists the direct children of parentID in creation order.
	Children(ctx context.Context, parentID NodeID) ([]Node, error)
}
