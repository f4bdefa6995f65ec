package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	return NewRegistry(
		Entry{Version: MustParse("0.20.0.0"), Capabilities: Capabilities{SourceTypes: []string{"c"}}},
		Entry{Version: MustParse("0.10.0.0"), Capabilities: Capabilities{SourceTypes: []string{"a"}}},
		Entry{Version: MustParse("0.15.0.0"), Capabilities: Capabilities{SourceTypes: []string{"b"}}},
	)
}

func ptr(v Version) *Version { return &v }

func TestRegistry_SortsEntries(t *testing.T) {
	entries := testRegistry().Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "0.10.0.0", entries[0].Version.String())
	assert.Equal(t, "0.15.0.0", entries[1].Version.String())
	assert.Equal(t, "0.20.0.0", entries[2].Version.String())
}

func TestRegistry_Resolve(t *testing.T) {
	r := testRegistry()

	tests := []struct {
		name    string
		version *Version
		want    string
	}{
		{name: "exact first entry", version: ptr(MustParse("0.10.0.0")), want: "a"},
		{name: "exact middle entry", version: ptr(MustParse("0.15.0.0")), want: "b"},
		{name: "between entries resolves to lower", version: ptr(MustParse("0.17.3.0")), want: "b"},
		{name: "just below next entry", version: ptr(MustParse("0.19.99.99")), want: "b"},
		{name: "above maximum", version: ptr(MustParse("9.0.0.0")), want: "c"},
		{name: "older than every entry falls back to latest", version: ptr(MustParse("0.1.0.0")), want: "c"},
		{name: "undetected falls back to latest", version: nil, want: "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := r.Resolve(tt.version)
			assert.Equal(t, []string{tt.want}, caps.SourceTypes)
		})
	}
}

func TestRegistry_ResolveIsIdempotent(t *testing.T) {
	r := DefaultRegistry()
	v := MustParse("0.16.0.0")

	first := r.Resolve(&v)
	second := r.Resolve(&v)
	assert.Equal(t, first, second)
}

func TestRegistry_ResolveReturnsCopies(t *testing.T) {
	r := DefaultRegistry()
	caps := r.Resolve(nil)
	caps.SourceTypes[0] = "tampered"

	assert.NotContains(t, r.Resolve(nil).SourceTypes, "tampered")
}

func TestRegistry_Empty(t *testing.T) {
	r := NewRegistry()

	caps := r.Resolve(ptr(MustParse("0.16.0.0")))
	assert.Empty(t, caps.SourceTypes)
	assert.Empty(t, caps.TargetTypes)
	assert.Empty(t, caps.ParallelismMethods)
	assert.False(t, caps.SupportsNoBanner)

	_, ok := r.Latest()
	assert.False(t, ok)
}

func TestRegistry_MinimumVersion(t *testing.T) {
	r := testRegistry()

	v, ok := r.MinimumVersion(func(c Capabilities) bool { return c.SupportsSource("b") })
	require.True(t, ok)
	assert.Equal(t, "0.15.0.0", v.String())

	_, ok = r.MinimumVersion(func(c Capabilities) bool { return c.SupportsSource("z") })
	assert.False(t, ok)
}

func TestDefaultRegistry_016(t *testing.T) {
	latest, ok := DefaultRegistry().Latest()
	require.True(t, ok)
	assert.Equal(t, "0.16.0.0", latest.Version.String())

	caps := latest.Capabilities
	assert.ElementsMatch(t, []string{
		"clickhouse", "duckdb", "duckdbstream", "hana", "mssql", "msoledbsql", "mysql",
		"nzoledb", "nzsql", "nzbulk", "odbc", "oledb", "oraodp", "pgcopy", "pgsql", "teradata",
	}, caps.SourceTypes)
	assert.ElementsMatch(t, []string{
		"clickhousebulk", "duckdb", "hanabulk", "msbulk", "mysqlbulk", "nzbulk",
		"orabulk", "oradirect", "pgcopy", "pgsql", "teradata",
	}, caps.TargetTypes)
	assert.ElementsMatch(t, []string{
		"Ctid", "DataDriven", "Ntile", "NZDataSlice", "None", "Physloc", "Random", "RangeId", "Rowid",
	}, caps.ParallelismMethods)
	assert.True(t, caps.SupportsNoBanner)
	assert.True(t, caps.SupportsVersionFlag)
	assert.True(t, caps.SupportsFileInput)
	assert.True(t, caps.SupportsSettingsFile)
	assert.True(t, caps.SupportsLicensePath)
}
