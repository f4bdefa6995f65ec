package models

import "strings"

// Method is a FastTransfer parallelism method (--method).
type Method string

const (
	MethodNone        Method = "None"        // Single-threaded
	MethodCtid        Method = "Ctid"        // PostgreSQL tuple identifier
	MethodDataDriven  Method = "DataDriven"  // Distinct values of the key column
	MethodNtile       Method = "Ntile"       // Even split over the key column
	MethodNZDataSlice Method = "NZDataSlice" // Netezza data slices
	MethodPhysloc     Method = "Physloc"     // SQL Server physical row locator
	MethodRandom      Method = "Random"      // Modulo on a numeric key
	MethodRangeID     Method = "RangeId"     // Numeric key ranges
	MethodRowid       Method = "Rowid"       // Oracle ROWID
)

// ValidMethods contains all parallelism methods.
var ValidMethods = []Method{
	MethodCtid,
	MethodDataDriven,
	MethodNtile,
	MethodNZDataSlice,
	MethodNone,
	MethodPhysloc,
	MethodRandom,
	MethodRangeID,
	MethodRowid,
}

// String returns the string representation of a Method.
func (m Method) String() string {
	return string(m)
}

// IsValid returns true if the method is a known parallelism method.
func (m Method) IsValid() bool {
	for _, v := range ValidMethods {
		if v == m {
			return true
		}
	}
	return false
}

// RequiresDistributeKey reports whether the method partitions on distribute_key_column.
func (m Method) RequiresDistributeKey() bool {
	switch m {
	case MethodDataDriven, MethodRandom, MethodRangeID, MethodNtile:
		return true
	default:
		return false
	}
}

// MethodRestriction limits a method to the source types of one database family.
type MethodRestriction struct {
	Family  string
	Sources []SourceType
}

// Allows reports whether the source type is in the restriction's allowed set.
func (r MethodRestriction) Allows(t SourceType) bool {
	for _, s := range r.Sources {
		if s == t {
			return true
		}
	}
	return false
}

// AllowedList renders the allowed source types as a comma separated list.
func (r MethodRestriction) AllowedList() string {
	names := make([]string, len(r.Sources))
	for i, s := range r.Sources {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// methodRestrictions is keyed by every method tied to a source engine.
// Methods absent from the table work with any source type.
var methodRestrictions = map[Method]MethodRestriction{
	MethodCtid:        {Family: "PostgreSQL", Sources: []SourceType{SourcePGSQL, SourcePGCopy}},
	MethodRowid:       {Family: "Oracle (oraodp)", Sources: []SourceType{SourceOraODP}},
	MethodNZDataSlice: {Family: "Netezza", Sources: []SourceType{SourceNZOleDB, SourceNZSQL, SourceNZBulk}},
	MethodPhysloc:     {Family: "SQL Server", Sources: []SourceType{SourceMSSQL, SourceMSOleDBSQL}},
}

// Restriction returns the source restriction for the method, if it has one.
func (m Method) Restriction() (MethodRestriction, bool) {
	r, ok := methodRestrictions[m]
	return r, ok
}

// LoadMode controls what happens to existing target rows (--loadmode).
type LoadMode string

const (
	LoadModeAppend   LoadMode = "Append"
	LoadModeTruncate LoadMode = "Truncate"
)

// ValidLoadModes contains all load modes.
var ValidLoadModes = []LoadMode{LoadModeAppend, LoadModeTruncate}

// IsValid returns true if the load mode is Append or Truncate.
func (l LoadMode) IsValid() bool {
	return l == LoadModeAppend || l == LoadModeTruncate
}

// MapMethod controls how source columns map onto target columns (--mapmethod).
type MapMethod string

const (
	MapMethodPosition MapMethod = "Position"
	MapMethodName     MapMethod = "Name" // Case-insensitive
)

// ValidMapMethods contains all map methods.
var ValidMapMethods = []MapMethod{MapMethodPosition, MapMethodName}

// IsValid returns true if the map method is Position or Name.
func (m MapMethod) IsValid() bool {
	return m == MapMethodPosition || m == MapMethodName
}

// LogLevel overrides FastTransfer's own log verbosity (--loglevel).
type LogLevel string

const (
	LogLevelError       LogLevel = "error"
	LogLevelWarning     LogLevel = "warning"
	LogLevelInformation LogLevel = "information"
	LogLevelDebug       LogLevel = "debug"
	LogLevelFatal       LogLevel = "fatal"
)

// ValidLogLevels contains all FastTransfer log levels.
var ValidLogLevels = []LogLevel{
	LogLevelError,
	LogLevelWarning,
	LogLevelInformation,
	LogLevelDebug,
	LogLevelFatal,
}

// IsValid returns true if the level is a known FastTransfer log level.
func (l LogLevel) IsValid() bool {
	for _, v := range ValidLogLevels {
		if v == l {
			return true
		}
	}
	return false
}
