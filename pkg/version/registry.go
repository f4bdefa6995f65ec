package version

import (
	"slices"
	"sort"
)

// Capabilities is what a given FastTransfer version supports.
// Values handed out by a Registry are copies; mutating them does not affect the registry.
type Capabilities struct {
	SourceTypes          []string `json:"source_types"`
	TargetTypes          []string `json:"target_types"`
	ParallelismMethods   []string `json:"parallelism_methods"`
	SupportsNoBanner     bool     `json:"supports_nobanner"`
	SupportsVersionFlag  bool     `json:"supports_version_flag"`
	SupportsFileInput    bool     `json:"supports_file_input"`
	SupportsSettingsFile bool     `json:"supports_settings_file"`
	SupportsLicensePath  bool     `json:"supports_license_path"`
}

// SupportsSource reports whether the source connection type is available.
func (c Capabilities) SupportsSource(t string) bool {
	return slices.Contains(c.SourceTypes, t)
}

// SupportsTarget reports whether the target connection type is available.
func (c Capabilities) SupportsTarget(t string) bool {
	return slices.Contains(c.TargetTypes, t)
}

// SupportsMethod reports whether the parallelism method is available.
func (c Capabilities) SupportsMethod(m string) bool {
	return slices.Contains(c.ParallelismMethods, m)
}

func (c Capabilities) clone() Capabilities {
	c.SourceTypes = slices.Clone(c.SourceTypes)
	c.TargetTypes = slices.Clone(c.TargetTypes)
	c.ParallelismMethods = slices.Clone(c.ParallelismMethods)
	return c
}

func newCapabilities(c Capabilities) Capabilities {
	c = c.clone()
	sort.Strings(c.SourceTypes)
	sort.Strings(c.TargetTypes)
	sort.Strings(c.ParallelismMethods)
	return c
}

// Entry binds a version to its documented capabilities.
type Entry struct {
	Version      Version
	Capabilities Capabilities
}

// Registry is a read-only table of known versions, sorted ascending.
type Registry struct {
	entries []Entry
}

// NewRegistry builds a registry from entries in any order.
func NewRegistry(entries ...Entry) *Registry {
	sorted := make([]Entry, len(entries))
	for i, e := range entries {
		sorted[i] = Entry{Version: e.Version, Capabilities: newCapabilities(e.Capabilities)}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Version.Less(sorted[j].Version)
	})
	return &Registry{entries: sorted}
}

// DefaultRegistry returns the registry of FastTransfer releases documented so far.
// New releases get a new entry here; version-gated features compare entries.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Entry{
			Version: MustParse("0.16.0.0"),
			Capabilities: Capabilities{
				SourceTypes: []string{
					"clickhouse", "duckdb", "duckdbstream", "hana", "mssql", "msoledbsql",
					"mysql", "nzoledb", "nzsql", "nzbulk", "odbc", "oledb", "oraodp",
					"pgcopy", "pgsql", "teradata",
				},
				TargetTypes: []string{
					"clickhousebulk", "duckdb", "hanabulk", "msbulk", "mysqlbulk", "nzbulk",
					"orabulk", "oradirect", "pgcopy", "pgsql", "teradata",
				},
				ParallelismMethods: []string{
					"Ctid", "DataDriven", "Ntile", "NZDataSlice", "None", "Physloc",
					"Random", "RangeId", "Rowid",
				},
				SupportsNoBanner:     true,
				SupportsVersionFlag:  true,
				SupportsFileInput:    true,
				SupportsSettingsFile: true,
				SupportsLicensePath:  true,
			},
		},
	)
}

// Entries returns a copy of the registry entries in ascending version order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = Entry{Version: e.Version, Capabilities: e.Capabilities.clone()}
	}
	return out
}

// Latest returns the newest entry, or false for an empty registry.
func (r *Registry) Latest() (Entry, bool) {
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	e := r.entries[len(r.entries)-1]
	return Entry{Version: e.Version, Capabilities: e.Capabilities.clone()}, true
}

// Resolve returns the capabilities of the highest entry whose version is <= v.
//
// A nil v means the version could not be detected. Undetected versions, and
// versions older than every entry, resolve to the latest entry: newer binaries
// are assumed to be supersets of the latest documented release, and nothing
// older than the first entry is modeled. An empty registry yields empty
// capabilities.
func (r *Registry) Resolve(v *Version) Capabilities {
	latest, ok := r.Latest()
	if !ok {
		return Capabilities{}
	}
	if v == nil {
		return latest.Capabilities
	}

	var best *Entry
	for i := range r.entries {
		if r.entries[i].Version.Compare(*v) > 0 {
			break
		}
		best = &r.entries[i]
	}
	if best == nil {
		return latest.Capabilities
	}
	return best.Capabilities.clone()
}

// MinimumVersion returns the oldest entry whose capabilities satisfy the predicate.
func (r *Registry) MinimumVersion(supports func(Capabilities) bool) (Version, bool) {
	for _, e := range r.entries {
		if supports(e.Capabilities) {
			return e.Version, true
		}
	}
	return Version{}, false
}
