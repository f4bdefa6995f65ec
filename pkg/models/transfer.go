package models

// DefaultDegree is the parallelism degree used when options omit it (half the CPUs).
const DefaultDegree = -2

// MaxFixedDegree is the exclusive upper bound of a fixed worker count.
const MaxFixedDegree = 1024

// AuthMode is one of the mutually exclusive ways a connection authenticates.
type AuthMode string

const (
	AuthCredentials   AuthMode = "Username/Password"
	AuthTrusted       AuthMode = "Trusted"
	AuthConnectString AuthMode = "Connection String"
	AuthDSN           AuthMode = "DSN"
)

// DataRef names one of the mutually exclusive places a source reads from.
type DataRef string

const (
	DataRefTable DataRef = "table"
	DataRefQuery DataRef = "query"
	DataRefFile  DataRef = "file_input"
)

// ConnectionConfig describes one end of a transfer.
// Type holds a SourceType or TargetType depending on the side it is used for.
type ConnectionConfig struct {
	Type          string `json:"type"`
	Server        string `json:"server,omitempty"` // host:port or host\instance
	Database      string `json:"database"`
	Schema        string `json:"schema,omitempty"`
	Table         string `json:"table,omitempty"`
	Query         string `json:"query,omitempty"`
	FileInput     string `json:"file_input,omitempty"`
	User          string `json:"user,omitempty"`
	Password      string `json:"password,omitempty"`
	TrustedAuth   bool   `json:"trusted_auth,omitempty"`
	ConnectString string `json:"connect_string,omitempty"`
	DSN           string `json:"dsn,omitempty"`
	Provider      string `json:"provider,omitempty"` // OLE DB provider name
}

// AuthModes returns every authentication mode the config sets.
// A well-formed config sets exactly one.
func (c *ConnectionConfig) AuthModes() []AuthMode {
	var modes []AuthMode
	if c.User != "" {
		modes = append(modes, AuthCredentials)
	}
	if c.TrustedAuth {
		modes = append(modes, AuthTrusted)
	}
	if c.ConnectString != "" {
		modes = append(modes, AuthConnectString)
	}
	if c.DSN != "" {
		modes = append(modes, AuthDSN)
	}
	return modes
}

// DataRefs returns every data reference the config sets, in table, query, file order.
func (c *ConnectionConfig) DataRefs() []DataRef {
	var refs []DataRef
	if c.Table != "" {
		refs = append(refs, DataRefTable)
	}
	if c.Query != "" {
		refs = append(refs, DataRefQuery)
	}
	if c.FileInput != "" {
		refs = append(refs, DataRefFile)
	}
	return refs
}

// QualifiedTable returns schema.table, or just table when no schema is set.
func (c *ConnectionConfig) QualifiedTable() string {
	if c.Schema != "" {
		return c.Schema + "." + c.Table
	}
	return c.Table
}

// TransferOptions controls how FastTransfer moves the data.
type TransferOptions struct {
	Method              Method    `json:"method,omitempty"`
	DistributeKeyColumn string    `json:"distribute_key_column,omitempty"`
	Degree              *int      `json:"degree,omitempty"` // 0 auto, 1..1023 fixed, <0 CPU adaptive
	LoadMode            LoadMode  `json:"load_mode,omitempty"`
	BatchSize           *int      `json:"batch_size,omitempty"`
	MapMethod           MapMethod `json:"map_method,omitempty"`
	RunID               string    `json:"run_id,omitempty"`
	DataDrivenQuery     string    `json:"data_driven_query,omitempty"`
	UseWorkTables       bool      `json:"use_work_tables,omitempty"`
	SettingsFile        string    `json:"settings_file,omitempty"`
	LogLevel            LogLevel  `json:"log_level,omitempty"`
	NoBanner            bool      `json:"no_banner,omitempty"`
	LicensePath         string    `json:"license_path,omitempty"`
}

// WithDefaults returns a copy with method, degree, load mode and map method filled in.
func (o TransferOptions) WithDefaults() TransferOptions {
	if o.Method == "" {
		o.Method = MethodNone
	}
	if o.Degree == nil {
		d := DefaultDegree
		o.Degree = &d
	}
	if o.LoadMode == "" {
		o.LoadMode = LoadModeAppend
	}
	if o.MapMethod == "" {
		o.MapMethod = MapMethodPosition
	}
	return o
}

// DegreeValue returns the degree, or DefaultDegree when unset.
func (o *TransferOptions) DegreeValue() int {
	if o.Degree == nil {
		return DefaultDegree
	}
	return *o.Degree
}

// TransferRequest is a complete transfer: where from, where to, and how.
type TransferRequest struct {
	Source  ConnectionConfig `json:"source"`
	Target  ConnectionConfig `json:"target"`
	Options TransferOptions  `json:"options"`
}

// ConnectionValidationRequest asks for a structural check of one connection.
type ConnectionValidationRequest struct {
	Connection ConnectionConfig `json:"connection"`
	Side       Side             `json:"side"`
}

// TableSize is a coarse estimate used when suggesting a parallelism method.
type TableSize string

const (
	TableSizeSmall  TableSize = "small"
	TableSizeMedium TableSize = "medium"
	TableSizeLarge  TableSize = "large"
)

// IsValid returns true if the size is small, medium or large.
func (s TableSize) IsValid() bool {
	switch s {
	case TableSizeSmall, TableSizeMedium, TableSizeLarge:
		return true
	default:
		return false
	}
}

// ParallelismSuggestionRequest describes a table for which a method is suggested.
type ParallelismSuggestionRequest struct {
	SourceType        string    `json:"source_type"`
	HasNumericKey     bool      `json:"has_numeric_key"`
	HasIdentityColumn bool      `json:"has_identity_column,omitempty"`
	TableSizeEstimate TableSize `json:"table_size_estimate"`
}
