// Package models contains domain types for fasttransfer-mcp.
package models

// SourceType is a FastTransfer source connection type (--sourceconnectiontype).
type SourceType string

const (
	SourceClickHouse   SourceType = "clickhouse"
	SourceDuckDB       SourceType = "duckdb"
	SourceDuckDBStream SourceType = "duckdbstream" // File import through DuckDB
	SourceHana         SourceType = "hana"
	SourceMSSQL        SourceType = "mssql"
	SourceMSOleDBSQL   SourceType = "msoledbsql"
	SourceMySQL        SourceType = "mysql"
	SourceNZOleDB      SourceType = "nzoledb"
	SourceNZSQL        SourceType = "nzsql"
	SourceNZBulk       SourceType = "nzbulk"
	SourceODBC         SourceType = "odbc"
	SourceOleDB        SourceType = "oledb"
	SourceOraODP       SourceType = "oraodp"
	SourcePGCopy       SourceType = "pgcopy"
	SourcePGSQL        SourceType = "pgsql"
	SourceTeradata     SourceType = "teradata"
)

// ValidSourceTypes contains all source types known to this server, sorted.
var ValidSourceTypes = []SourceType{
	SourceClickHouse,
	SourceDuckDB,
	SourceDuckDBStream,
	SourceHana,
	SourceMSSQL,
	SourceMSOleDBSQL,
	SourceMySQL,
	SourceNZBulk,
	SourceNZOleDB,
	SourceNZSQL,
	SourceODBC,
	SourceOleDB,
	SourceOraODP,
	SourcePGCopy,
	SourcePGSQL,
	SourceTeradata,
}

// String returns the string representation of a SourceType.
func (t SourceType) String() string {
	return string(t)
}

// IsValid returns true if the type is a known source connection type.
func (t SourceType) IsValid() bool {
	for _, v := range ValidSourceTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Family returns the database family the source type belongs to.
func (t SourceType) Family() Family {
	switch t {
	case SourcePGSQL, SourcePGCopy:
		return FamilyPostgres
	case SourceOraODP:
		return FamilyOracle
	case SourceNZOleDB, SourceNZSQL, SourceNZBulk:
		return FamilyNetezza
	case SourceMSSQL, SourceMSOleDBSQL:
		return FamilySQLServer
	case SourceMySQL:
		return FamilyMySQL
	case SourceClickHouse:
		return FamilyClickHouse
	case SourceDuckDB, SourceDuckDBStream:
		return FamilyDuckDB
	case SourceHana:
		return FamilyHana
	case SourceTeradata:
		return FamilyTeradata
	default:
		return FamilyGeneric
	}
}

// AcceptsProvider reports whether --sourceprovider is meaningful for the type.
func (t SourceType) AcceptsProvider() bool {
	switch t {
	case SourceOleDB, SourceMSOleDBSQL, SourceNZOleDB:
		return true
	default:
		return false
	}
}

// TargetType is a FastTransfer target connection type (--targetconnectiontype).
type TargetType string

const (
	TargetClickHouseBulk TargetType = "clickhousebulk"
	TargetDuckDB         TargetType = "duckdb"
	TargetHanaBulk       TargetType = "hanabulk"
	TargetMSBulk         TargetType = "msbulk"
	TargetMySQLBulk      TargetType = "mysqlbulk"
	TargetNZBulk         TargetType = "nzbulk"
	TargetOraBulk        TargetType = "orabulk"
	TargetOraDirect      TargetType = "oradirect"
	TargetPGCopy         TargetType = "pgcopy"
	TargetPGSQL          TargetType = "pgsql"
	TargetTeradata       TargetType = "teradata"
)

// ValidTargetTypes contains all target types known to this server, sorted.
var ValidTargetTypes = []TargetType{
	TargetClickHouseBulk,
	TargetDuckDB,
	TargetHanaBulk,
	TargetMSBulk,
	TargetMySQLBulk,
	TargetNZBulk,
	TargetOraBulk,
	TargetOraDirect,
	TargetPGCopy,
	TargetPGSQL,
	TargetTeradata,
}

// String returns the string representation of a TargetType.
func (t TargetType) String() string {
	return string(t)
}

// IsValid returns true if the type is a known target connection type.
func (t TargetType) IsValid() bool {
	for _, v := range ValidTargetTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Family returns the database family the target type belongs to.
func (t TargetType) Family() Family {
	switch t {
	case TargetPGSQL, TargetPGCopy:
		return FamilyPostgres
	case TargetOraBulk, TargetOraDirect:
		return FamilyOracle
	case TargetNZBulk:
		return FamilyNetezza
	case TargetMSBulk:
		return FamilySQLServer
	case TargetMySQLBulk:
		return FamilyMySQL
	case TargetClickHouseBulk:
		return FamilyClickHouse
	case TargetDuckDB:
		return FamilyDuckDB
	case TargetHanaBulk:
		return FamilyHana
	case TargetTeradata:
		return FamilyTeradata
	default:
		return FamilyGeneric
	}
}

// Family groups connection types by the database engine they talk to.
type Family string

const (
	FamilyPostgres   Family = "PostgreSQL"
	FamilyOracle     Family = "Oracle"
	FamilyNetezza    Family = "Netezza"
	FamilySQLServer  Family = "SQL Server"
	FamilyMySQL      Family = "MySQL"
	FamilyClickHouse Family = "ClickHouse"
	FamilyDuckDB     Family = "DuckDB"
	FamilyHana       Family = "SAP HANA"
	FamilyTeradata   Family = "Teradata"
	FamilyGeneric    Family = "Generic"
)

// Side identifies which end of a transfer a connection describes.
type Side string

const (
	SideSource Side = "source"
	SideTarget Side = "target"
)

// IsValid returns true if the side is source or target.
func (s Side) IsValid() bool {
	return s == SideSource || s == SideTarget
}
