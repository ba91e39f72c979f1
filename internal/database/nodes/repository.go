// Package nodes stores the node graph in the application database.
//
//	var _ graph.Store = (*Repository)(nil)
//
// # Usage
//
//	repo := nodes.NewRepository(db)
//	node, err := repo.FindByName(ctx, "Goodreads Import", graph.Root)
package nodes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/shelfgraph/internal/entities"
	"github.com/mrlokans/shelfgraph/internal/graph"
)

// creationOrder sorts rows created in the same instant by insertion order.
const creationOrder = "created_at ASC, rowid ASC"

// Repository is a graph.Store backed by gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new node repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByName(ctx context.Context, name string, parentID graph.NodeID) (*graph.Node, error) {
	var node entities.Node
	err := scopeToParent(r.db.WithContext(ctx), parentID).
		Preload("Tags", orderedTags).
		Where("text = ?", name).
		Order(creationOrder).
		First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, graph.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find node %q: %w", name, err)
	}
	return toGraphNode(node), nil
}

func (r *Repository) CreateNode(ctx context.Context) (*graph.Node, error) {
	node := entities.Node{ID: uuid.NewString()}
	if err := r.db.WithContext(ctx).Create(&node).Error; err != nil {
		return nil, fmt.Errorf("failed to create node: %w", err)
	}
	return toGraphNode(node), nil
}

func (r *Repository) SetText(ctx context.Context, id graph.NodeID, text string) error {
	return r.updateColumn(ctx, id, "text", text)
}

func (r *Repository) SetParent(ctx context.Context, id, parentID graph.NodeID) error {
	if parentID == graph.Root {
		return r.updateColumn(ctx, id, "parent_id", nil)
	}
	if err := r.mustExist(ctx, parentID, "parent"); err != nil {
		return err
	}
	return r.updateColumn(ctx, id, "parent_id", string(parentID))
}

func (r *Repository) SetIsDocument(ctx context.Context, id graph.NodeID, isDocument bool) error {
	return r.updateColumn(ctx, id, "is_document", isDocument)
}

func (r *Repository) SetIsProperty(ctx context.Context, id graph.NodeID, isProperty bool) error {
	return r.updateColumn(ctx, id, "is_property", isProperty)
}

func (r *Repository) AddTag(ctx context.Context, id, tagID graph.NodeID) error {
	if err := r.mustExist(ctx, id, "node"); err != nil {
		return err
	}
	if err := r.mustExist(ctx, tagID, "tag"); err != nil {
		return err
	}

	tag := entities.NodeTag{NodeID: string(id), TagID: string(tagID)}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&tag).Error
	if err != nil {
		return fmt.Errorf("failed to tag node %s: %w", id, err)
	}
	return nil
}

func (r *Repository) ReferenceTo(ctx context.Context, id graph.NodeID) (graph.Reference, error) {
	if err := r.mustExist(ctx, id, "node"); err != nil {
		return graph.Reference{}, err
	}
	return graph.Reference{NodeID: id}, nil
}

// SetPropertyValue replaces every stored reference of propertyID on node id
// inside one transaction.
func (r *Repository) SetPropertyValue(ctx context.Context, id, propertyID graph.NodeID, value []graph.Reference) error {
	if err := r.mustExist(ctx, id, "node"); err != nil {
		return err
	}
	if err := r.mustExist(ctx, propertyID, "property"); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("node_id = ? AND property_id = ?", string(id), string(propertyID)).
			Delete(&entities.NodePropertyValue{}).Error
		if err != nil {
			return fmt.Errorf("failed to clear property value: %w", err)
		}

		if len(value) == 0 {
			return nil
		}

		rows := make([]entities.NodePropertyValue, len(value))
		for i, ref := range value {
			rows[i] = entities.NodePropertyValue{
				NodeID:     string(id),
				PropertyID: string(propertyID),
				Position:   i,
				RefID:      string(ref.NodeID),
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to store property value: %w", err)
		}
		return nil
	})
}

func (r *Repository) PropertyValue(ctx context.Context, id, propertyID graph.NodeID) ([]graph.Reference, error) {
	if err := r.mustExist(ctx, id, "node"); err != nil {
		return nil, err
	}

	var rows []entities.NodePropertyValue
	err := r.db.WithContext(ctx).
		Where("node_id = ? AND property_id = ?", string(id), string(propertyID)).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read property value: %w", err)
	}

	refs := make([]graph.Reference, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, graph.Reference{NodeID: graph.NodeID(row.RefID)})
	}
	return refs, nil
}

func (r *Repository) GetNode(ctx context.Context, id graph.NodeID) (*graph.Node, error) {
	var node entities.Node
	err := r.db.WithContext(ctx).
		Preload("Tags", orderedTags).
		Where("id = ?", string(id)).
		First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, graph.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load node %s: %w", id, err)
	}
	return toGraphNode(node), nil
}

func (r *Repository) Children(ctx context.Context, parentID graph.NodeID) ([]graph.Node, error) {
	var rows []entities.Node
	err := scopeToParent(r.db.WithContext(ctx), parentID).
		Preload("Tags", orderedTags).
		Order(creationOrder).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %q: %w", parentID, err)
	}

	children := make([]graph.Node, 0, len(rows))
	for _, row := range rows {
		children = append(children, *toGraphNode(row))
	}
	return children, nil
}

// Count returns the number of stored nodes.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Node{}).Count(&count).Error
	return count, err
}

func (r *Repository) updateColumn(ctx context.Context, id graph.NodeID, column string, value any) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Node{}).
		Where("id = ?", string(id)).
		Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s of node %s: %w", column, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("node %s: %w", id, graph.ErrNotFound)
	}
	return nil
}

func (r *Repository) mustExist(ctx context.Context, id graph.NodeID, role string) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Node{}).Where("id = ?", string(id)).Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to look up %s %s: %w", role, id, err)
	}
	if count == 0 {
		return fmt.Errorf("%s %s: %w", role, id, graph.ErrNotFound)
	}
	return nil
}

func scopeToParent(db *gorm.DB, parentID graph.NodeID) *gorm.DB {
	if parentID == graph.Root {
		return db.Where("parent_id IS NULL")
	}
	return db.Where("parent_id = ?", string(parentID))
}

func orderedTags(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, rowid ASC")
}

func toGraphNode(n entities.Node) *graph.Node {
	node := &graph.Node{
		ID:         graph.NodeID(n.ID),
		Text:       n.Text,
		IsDocument: n.IsDocument,
		IsProperty: n.IsProperty,
		CreatedAt:  n.CreatedAt,
	}
	if n.ParentID != nil {
		node.ParentID = graph.NodeID(*n.ParentID)
	}
	for _, t := range n.Tags {
		node.Tags = append(node.Tags, graph.NodeID(t.TagID))
	}
	return node
}

var _ graph.Store = (*Repository)(nil)
