package graph

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memNode struct {
	Node
	seq        int
	properties map[NodeID][]Reference
}

// MemoryStore is a Store kept entirely in process memory.
// Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[NodeID]*memNode
	seq   int
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory graph.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[NodeID]*memNode),
		now:   time.Now,
	}
}

func (s *MemoryStore) FindByName(ctx context.Context, name string, parentID NodeID) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *memNode
	for _, n := range s.nodes {
		if n.Text != name || n.ParentID != parentID {
			continue
		}
		if found == nil || n.seq < found.seq {
			found = n
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found.snapshot(), nil
}

func (s *MemoryStore) CreateNode(ctx context.Context) (*Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	n := &memNode{
		Node: Node{
			ID:        NodeID(uuid.NewString()),
			CreatedAt: s.now(),
		},
		seq:        s.seq,
		properties: make(map[NodeID][]Reference),
	}
	s.nodes[n.ID] = n
	return n.snapshot(), nil
}

func (s *MemoryStore) SetText(ctx context.Context, id NodeID, text string) error {
	return s.update(id, func(n *memNode) error {
		n.Text = text
		return nil
	})
}

func (s *MemoryStore) SetParent(ctx context.Context, id, parentID NodeID) error {
	return s.update(id, func(n *memNode) error {
		if parentID != Root {
			if _, ok := s.nodes[parentID]; !ok {
				return fmt.Errorf("parent %s: %w", parentID, ErrNotFound)
			}
		}
		n.ParentID = parentID
		return nil
	})
}

func (s *MemoryStore) SetIsDocument(ctx context.Context, id NodeID, isDocument bool) error {
	return s.update(id, func(n *memNode) error {
		n.IsDocument = isDocument
		return nil
	})
}

func (s *MemoryStore) SetIsProperty(ctx context.Context, id NodeID, isProperty bool) error {
	return s.update(id, func(n *memNode) error {
		n.IsProperty = isProperty
		return nil
	})
}

func (s *MemoryStore) AddTag(ctx context.Context, id, tagID NodeID) error {
	return s.update(id, func(n *memNode) error {
		if _, ok := s.nodes[tagID]; !ok {
			return fmt.Errorf("tag %s: %w", tagID, ErrNotFound)
		}
		if !n.HasTag(tagID) {
			n.Tags = append(n.Tags, tagID)
		}
		return nil
	})
}

func (s *MemoryStore) ReferenceTo(ctx context.Context, id NodeID) (Reference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[id]; !ok {
		return Reference{}, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return Reference{NodeID: id}, nil
}

func (s *MemoryStore) SetPropertyValue(ctx context.Context, id, propertyID NodeID, value []Reference) error {
	return s.update(id, func(n *memNode) error {
		if _, ok := s.nodes[propertyID]; !ok {
			return fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
		}
		n.properties[propertyID] = append([]Reference(nil), value...)
		return nil
	})
}

func (s *MemoryStore) PropertyValue(ctx context.Context, id, propertyID NodeID) ([]Reference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return append([]Reference{}, n.properties[propertyID]...), nil
}

func (s *MemoryStore) GetNode(ctx context.Context, id NodeID) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return n.snapshot(), nil
}

func (s *MemoryStore) Children(ctx context.Context, parentID NodeID) ([]Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*memNode
	for _, n := range s.nodes {
		if n.ParentID == parentID {
			matched = append(matched, n)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	children := make([]Node, 0, len(matched))
	for _, n := range matched {
		children = append(children, *n.snapshot())
	}
	return children, nil
}

// Len returns the number of nodes in the store.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

func (s *MemoryStore) update(id NodeID, fn func(n *memNode) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return fn(n)
}

func (n *memNode) snapshot() *Node {
	cp := n.Node
	cp.Tags = append([]NodeID(nil), n.Tags...)
	return &cp
}

var _ Store = (*MemoryStore)(nil)
