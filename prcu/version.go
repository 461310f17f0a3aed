package prcu

// Version information for the PRCU runtime.
const (
	// Version is the current version of the prcu module.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// RuntimeInfo describes a running Domain for diagnostics.
type RuntimeInfo struct {
	// Version is the module version string.
	Version string

	// Algorithm names the synchronization scheme.
	Algorithm string

	// Shards is the number of processor shards the Domain was built with.
	Shards int
}

// GetInfo returns diagnostic information about dm.
//
// Example:
//
//	info := dm.GetInfo()
//	fmt.Printf("prcu %s (%s, %d shards)\n", info.Version, info.Algorithm, info.Shards)
func (dm *Domain) GetInfo() RuntimeInfo {
	return RuntimeInfo{
		Version:   Version,
		Algorithm: "Preemptible Read-Copy-Update",
		Shards:    dm.Shards(),
	}
}

// GetInfo returns diagnostic information about the default Domain.
func GetInfo() RuntimeInfo { return def.GetInfo() }
