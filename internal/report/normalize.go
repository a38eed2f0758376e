package report

import (
	"encoding/json"
	"fmt"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

// ParseSnapshot decodes a snapshot document. Shape validation is left to Normalize.
func ParseSnapshot(data []byte) (*models.Snapshot, error) {
	var s models.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &s, nil
}

// Normalize resolves the infra/vms pair of a snapshot.
//
// The accepted shapes are probed in order:
//
//	{infra, vms}
//	{inventory: {infra, vms}}
//	{inventory: {vcenter: {infra, vms}}}
//	{vcenter: {infra, vms}}
//
// The first level holding both members wins. The returned members point into snapshot.
func Normalize(snapshot *models.Snapshot) (models.CanonicalInventory, error) {
	if snapshot == nil {
		return models.CanonicalInventory{}, srvErrors.NewInvalidInventoryShapeError()
	}

	for _, candidate := range candidates(snapshot) {
		if candidate.Complete() {
			return models.CanonicalInventory{Infra: candidate.Infra, VMs: candidate.VMs}, nil
		}
	}

	return models.CanonicalInventory{}, srvErrors.NewInvalidInventoryShapeError()
}

func candidates(s *models.Snapshot) []*models.InventoryData {
	c := []*models.InventoryData{&s.InventoryData}
	if s.Inventory != nil {
		c = append(c, &s.Inventory.InventoryData, s.Inventory.Vcenter)
	}
	return append(c, s.Vcenter)
}
