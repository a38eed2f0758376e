package models

import (
	"encoding/json"
	"time"
)

type SourceType string

const (
	SourceTypeAgent     SourceType = "agent"
	SourceTypeInventory SourceType = "inventory"
	SourceTypeRvtools   SourceType = "rvtools"
)

// Assessment groups the inventory snapshots of one source environment.
type Assessment struct {
	ID         string
	Name       string
	SourceType SourceType
	CreatedAt  time.Time
	Snapshots  []SnapshotRecord
}

// SnapshotRecord is a stored snapshot. Inventory holds the raw document as it was received.
type SnapshotRecord struct {
	ID           string
	AssessmentID string
	Inventory    json.RawMessage
	CreatedAt    time.Time
}
