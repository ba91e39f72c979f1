package entities

import "time"

// Node is a labeled entry in the persistent outline graph. A nil ParentID
// places the node at the root.
type Node struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ParentID   *string   `gorm:"index;size:36" json:"parent_id,omitempty"`
	Text       string    `gorm:"index;size:1024" json:"text"`
	IsDocument bool      `gorm:"default:false" json:"is_document"`
	IsProperty bool      `gorm:"default:false" json:"is_property"`
	Tags       []NodeTag `gorm:"foreignKey:NodeID" json:"tags,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Node) TableName() string {
	return "nodes"
}

// NodeTag attaches a tag node to a node.
type NodeTag struct {
	NodeID    string    `gorm:"primaryKey;size:36" json:"node_id"`
	TagID     string    `gorm:"primaryKey;size:36;index" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (NodeTag) TableName() string {
	return "node_tags"
}

// NodePropertyValue is one reference held by a node under a property node.
// Multi-valued properties are stored as several rows ordered by Position.
type NodePropertyValue struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	NodeID     string    `gorm:"index:idx_node_property;size:36" json:"node_id"`
	PropertyID string    `gorm:"index:idx_node_property;size:36" json:"property_id"`
	Position   int       `json:"position"`
	RefID      string    `gorm:"size:36" json:"ref_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (NodePropertyValue) TableName() string {
	return "node_property_values"
}
