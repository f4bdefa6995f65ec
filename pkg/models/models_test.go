package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceType_Family(t *testing.T) {
	tests := []struct {
		source SourceType
		want   Family
	}{
		{SourcePGSQL, FamilyPostgres},
		{SourcePGCopy, FamilyPostgres},
		{SourceOraODP, FamilyOracle},
		{SourceNZBulk, FamilyNetezza},
		{SourceMSOleDBSQL, FamilySQLServer},
		{SourceDuckDBStream, FamilyDuckDB},
		{SourceODBC, FamilyGeneric},
		{SourceOleDB, FamilyGeneric},
	}
	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.source.Family())
			assert.True(t, tt.source.IsValid())
		})
	}

	assert.False(t, SourceType("sqlite").IsValid())
	assert.False(t, SourceType("msbulk").IsValid(), "target-only type is not a source")
}

func TestTargetType_IsValid(t *testing.T) {
	for _, tt := range ValidTargetTypes {
		assert.True(t, tt.IsValid(), tt)
	}
	assert.False(t, TargetType("mssql").IsValid(), "source-only type is not a target")
	assert.Equal(t, FamilySQLServer, TargetMSBulk.Family())
	assert.Equal(t, FamilyOracle, TargetOraDirect.Family())
}

func TestSourceType_AcceptsProvider(t *testing.T) {
	assert.True(t, SourceOleDB.AcceptsProvider())
	assert.True(t, SourceMSOleDBSQL.AcceptsProvider())
	assert.True(t, SourceNZOleDB.AcceptsProvider())
	assert.False(t, SourcePGSQL.AcceptsProvider())
	assert.False(t, SourceODBC.AcceptsProvider())
}

func TestMethod_Restriction(t *testing.T) {
	tests := []struct {
		method     Method
		restricted bool
		allows     SourceType
		rejects    SourceType
	}{
		{MethodCtid, true, SourcePGCopy, SourceMySQL},
		{MethodRowid, true, SourceOraODP, SourcePGSQL},
		{MethodNZDataSlice, true, SourceNZSQL, SourceMSSQL},
		{MethodPhysloc, true, SourceMSSQL, SourceOraODP},
		{MethodRandom, false, "", ""},
		{MethodNone, false, "", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			r, ok := tt.method.Restriction()
			require.Equal(t, tt.restricted, ok)
			if !ok {
				return
			}
			assert.True(t, r.Allows(tt.allows))
			assert.False(t, r.Allows(tt.rejects))
		})
	}

	r, _ := MethodCtid.Restriction()
	assert.Equal(t, "pgsql, pgcopy", r.AllowedList())
}

func TestMethod_RequiresDistributeKey(t *testing.T) {
	for _, m := range ValidMethods {
		want := m == MethodDataDriven || m == MethodRandom || m == MethodRangeID || m == MethodNtile
		assert.Equal(t, want, m.RequiresDistributeKey(), m)
	}
	assert.False(t, Method("Parallel").IsValid())
}

func TestConnectionConfig_AuthModes(t *testing.T) {
	c := ConnectionConfig{User: "u", TrustedAuth: true, DSN: "warehouse"}
	assert.Equal(t, []AuthMode{AuthCredentials, AuthTrusted, AuthDSN}, c.AuthModes())
	assert.Empty(t, (&ConnectionConfig{}).AuthModes())
}

func TestConnectionConfig_DataRefs(t *testing.T) {
	c := ConnectionConfig{FileInput: "/data/a.parquet", Table: "orders"}
	assert.Equal(t, []DataRef{DataRefTable, DataRefFile}, c.DataRefs())
}

func TestConnectionConfig_QualifiedTable(t *testing.T) {
	assert.Equal(t, "dbo.orders", (&ConnectionConfig{Schema: "dbo", Table: "orders"}).QualifiedTable())
	assert.Equal(t, "orders", (&ConnectionConfig{Table: "orders"}).QualifiedTable())
}

func TestTransferOptions_WithDefaults(t *testing.T) {
	opts := TransferOptions{}.WithDefaults()

	assert.Equal(t, MethodNone, opts.Method)
	require.NotNil(t, opts.Degree)
	assert.Equal(t, DefaultDegree, *opts.Degree)
	assert.Equal(t, LoadModeAppend, opts.LoadMode)
	assert.Equal(t, MapMethodPosition, opts.MapMethod)

	zero := 0
	kept := TransferOptions{Degree: &zero, LoadMode: LoadModeTruncate}.WithDefaults()
	assert.Equal(t, 0, kept.DegreeValue())
	assert.Equal(t, LoadModeTruncate, kept.LoadMode)
}

func TestTransferOptions_DegreeValue(t *testing.T) {
	assert.Equal(t, DefaultDegree, (&TransferOptions{}).DegreeValue())
	d := 8
	assert.Equal(t, 8, (&TransferOptions{Degree: &d}).DegreeValue())
}

func TestTableSize_IsValid(t *testing.T) {
	assert.True(t, TableSizeSmall.IsValid())
	assert.True(t, TableSizeLarge.IsValid())
	assert.False(t, TableSize("huge").IsValid())
	assert.True(t, SideTarget.IsValid())
	assert.False(t, Side("both").IsValid())
}
