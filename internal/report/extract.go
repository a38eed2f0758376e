package report

import (
	"math"
	"sort"

	"github.com/kubev2v/assessment-report-agent/internal/models"
)

const maxOSEntries = 8

// Recommended capacity margins over the allocated amount.
const (
	cpuMargin     = 1.2
	memoryMargin  = 1.25
	storageMargin = 1.15
)

// ExtractOSData returns the operating system entries of vms.
// osInfo is preferred over the legacy os map. Entries are ordered by name.
func ExtractOSData(vms *models.VMs) []models.OSRow {
	rows := []models.OSRow{}
	if vms == nil {
		return rows
	}

	switch {
	case len(vms.OsInfo) > 0:
		for name, info := range vms.OsInfo {
			rows = append(rows, models.OSRow{Name: name, Count: info.Count, Supported: info.Supported})
		}
	case len(vms.Os) > 0:
		for name, count := range vms.Os {
			rows = append(rows, models.OSRow{Name: name, Count: count})
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

// Transform derives the chart data of a snapshot.
func Transform(snapshot *models.Snapshot) (*models.ChartData, error) {
	inventory, err := Normalize(snapshot)
	if err != nil {
		return nil, err
	}
	vms, infra := inventory.VMs, inventory.Infra

	data := &models.ChartData{
		PowerStateData: []models.PowerStateRow{
			{Label: "Powered On", Count: vms.PowerStates[models.PowerStatePoweredOn]},
			{Label: "Powered Off", Count: vms.PowerStates[models.PowerStatePoweredOff]},
			{Label: "Suspended", Count: vms.PowerStates[models.PowerStateSuspended]},
		},
		ResourceData: []models.ResourceRow{
			resourceRow("CPU Cores", vms.CpuCores.Total, cpuMargin),
			resourceRow("Memory GB", vms.RamGB.Total, memoryMargin),
			resourceRow("Storage GB", vms.DiskGB.Total, storageMargin),
		},
		WarningsData:     make([]models.WarningRow, 0, len(vms.MigrationWarnings)),
		StorageLabels:    make([]string, 0, len(infra.Datastores)),
		StorageUsedData:  make([]float64, 0, len(infra.Datastores)),
		StorageTotalData: make([]float64, 0, len(infra.Datastores)),
	}

	osData := ExtractOSData(vms)
	sort.SliceStable(osData, func(i, j int) bool { return osData[i].Count > osData[j].Count })
	if len(osData) > maxOSEntries {
		osData = osData[:maxOSEntries]
	}
	data.OSData = osData

	for _, w := range vms.MigrationWarnings {
		data.WarningsData = append(data.WarningsData, models.WarningRow{Label: w.Label, Count: w.Count})
	}

	for _, ds := range infra.Datastores {
		data.StorageLabels = append(data.StorageLabels, storageLabel(ds))
		data.StorageUsedData = append(data.StorageUsedData, ds.TotalCapacityGB-ds.FreeCapacityGB)
		data.StorageTotalData = append(data.StorageTotalData, ds.TotalCapacityGB)
	}

	return data, nil
}

func resourceRow(label string, actual int, margin float64) models.ResourceRow {
	return models.ResourceRow{
		Label:       label,
		Actual:      actual,
		Recommended: int(math.Round(float64(actual) * margin)),
	}
}

func storageLabel(ds models.Datastore) string {
	return ds.Vendor + " " + ds.Type
}
