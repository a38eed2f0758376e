package models

// PowerStateRow is one bar of the power state chart.
type PowerStateRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ResourceRow compares the allocated amount of a resource with the recommended
// target capacity.
type ResourceRow struct {
	Label       string `json:"label"`
	Actual      int    `json:"actual"`
	Recommended int    `json:"recommended"`
}

// OSRow is one operating system entry of the OS distribution chart.
type OSRow struct {
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Supported bool   `json:"supported"`
}

// WarningRow is one migration warning with the number of affected VMs.
type WarningRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ChartData is the chart-ready view of one inventory snapshot.
//
// StorageLabels, StorageUsedData and StorageTotalData are aligned with the
// datastore order of the inventory.
type ChartData struct {
	PowerStateData   []PowerStateRow `json:"powerStateData"`
	ResourceData     []ResourceRow   `json:"resourceData"`
	OSData           []OSRow         `json:"osData"`
	WarningsData     []WarningRow    `json:"warningsData"`
	StorageLabels    []string        `json:"storageLabels"`
	StorageUsedData  []float64       `json:"storageUsedData"`
	StorageTotalData []float64       `json:"storageTotalData"`
}
