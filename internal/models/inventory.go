package models

// Datastore represents a VMware datastore.
type Datastore struct {
	DiskId                  string  `json:"diskId"`
	FreeCapacityGB          float64 `json:"freeCapacityGB"`
	HardwareAcceleratedMove bool    `json:"hardwareAcceleratedMove"`
	HostId                  string  `json:"hostId"`
	Model                   string  `json:"model"`
	ProtocolType            string  `json:"protocolType"`
	TotalCapacityGB         float64 `json:"totalCapacityGB"`
	Type                    string  `json:"type"`
	Vendor                  string  `json:"vendor"`
}

// Host represents a VMware ESXi host.
type Host struct {
	CpuCores   int    `json:"cpuCores"`
	CpuSockets int    `json:"cpuSockets"`
	Id         string `json:"id"`
	MemoryMB   int    `json:"memoryMB"`
	Model      string `json:"model"`
	Vendor     string `json:"vendor"`
}

// Network represents a VMware network.
type Network struct {
	Dvswitch string `json:"dvswitch"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	VlanId   string `json:"vlanId"`
	VmsCount int    `json:"vmsCount"`
}

// Infra holds facility-level data about the virtualization environment.
type Infra struct {
	TotalHosts            int            `json:"totalHosts"`
	TotalClusters         int            `json:"totalClusters"`
	TotalDatacenters      int            `json:"totalDatacenters"`
	ClustersPerDatacenter []int          `json:"clustersPerDatacenter,omitempty"`
	HostsPerCluster       []int          `json:"hostsPerCluster,omitempty"`
	VmsPerCluster         []int          `json:"vmsPerCluster,omitempty"`
	HostPowerStates       map[string]int `json:"hostPowerStates,omitempty"`
	Hosts                 []Host         `json:"hosts,omitempty"`
	Datastores            []Datastore    `json:"datastores"`
	Networks              []Network      `json:"networks,omitempty"`
}

// ResourceBreakdown splits a resource total by migrability.
type ResourceBreakdown struct {
	Total                          int `json:"total"`
	TotalForMigratable             int `json:"totalForMigratable,omitempty"`
	TotalForMigratableWithWarnings int `json:"totalForMigratableWithWarnings,omitempty"`
	TotalForNotMigratable          int `json:"totalForNotMigratable,omitempty"`
}

// OsInfo is the per operating system summary of the modern inventory format.
type OsInfo struct {
	Count     int  `json:"count"`
	Supported bool `json:"supported"`
}

// MigrationIssue is a warning or blocker shared by a number of VMs.
type MigrationIssue struct {
	ID         string `json:"id,omitempty"`
	Label      string `json:"label"`
	Assessment string `json:"assessment,omitempty"`
	Count      int    `json:"count"`
}

// Power states as reported by vCenter.
const (
	PowerStatePoweredOn  = "poweredOn"
	PowerStatePoweredOff = "poweredOff"
	PowerStateSuspended  = "suspended"
)

// VMs holds the aggregated virtual machine data of an inventory.
type VMs struct {
	Total                       int               `json:"total"`
	TotalMigratable             int               `json:"totalMigratable"`
	TotalMigratableWithWarnings int               `json:"totalMigratableWithWarnings,omitempty"`
	PowerStates                 map[string]int    `json:"powerStates"`
	CpuCores                    ResourceBreakdown `json:"cpuCores"`
	RamGB                       ResourceBreakdown `json:"ramGB"`
	DiskGB                      ResourceBreakdown `json:"diskGB"`
	DiskCount                   ResourceBreakdown `json:"diskCount"`
	Os                          map[string]int    `json:"os,omitempty"`
	OsInfo                      map[string]OsInfo `json:"osInfo,omitempty"`
	MigrationWarnings           []MigrationIssue  `json:"migrationWarnings"`
	NotMigratableReasons        []MigrationIssue  `json:"notMigratableReasons,omitempty"`
}

// InventoryData is an infra/vms pair as it appears at any level of a snapshot.
type InventoryData struct {
	Infra *Infra `json:"infra,omitempty"`
	VMs   *VMs   `json:"vms,omitempty"`
}

// Complete reports whether both halves of the pair are present.
func (d *InventoryData) Complete() bool {
	return d != nil && d.Infra != nil && d.VMs != nil
}

// NestedInventory is the "inventory" member of a snapshot. It may carry the pair
// directly or under a "vcenter" member.
type NestedInventory struct {
	InventoryData
	Vcenter *InventoryData `json:"vcenter,omitempty"`
}

// Snapshot is one timestamped inventory capture in any of the accepted shapes.
type Snapshot struct {
	InventoryData
	Inventory *NestedInventory `json:"inventory,omitempty"`
	Vcenter   *InventoryData   `json:"vcenter,omitempty"`
}

// CanonicalInventory is the normalized infra/vms pair. Both members point into
// the snapshot they were resolved from.
type CanonicalInventory struct {
	Infra *Infra
	VMs   *VMs
}
