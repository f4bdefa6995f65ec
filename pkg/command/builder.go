// Package command turns validated transfer requests into FastTransfer argument
// vectors and renders them safely for humans.
package command

import (
	"strconv"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/validation"
)

// sideFlags holds the per-side flag names. Source and target only differ by prefix,
// except that query and file input exist on the source side only.
type sideFlags struct {
	connectionType string
	connectString  string
	dsn            string
	server         string
	user           string
	password       string
	trusted        string
	database       string
	schema         string
	table          string
	query          string
	fileInput      string
	provider       string
}

var (
	sourceFlags = sideFlags{
		connectionType: "--sourceconnectiontype",
		connectString:  FlagSourceConnectString,
		dsn:            "--sourcedsn",
		server:         "--sourceserver",
		user:           "--sourceuser",
		password:       FlagSourcePassword,
		trusted:        "--sourcetrusted",
		database:       "--sourcedatabase",
		schema:         "--sourceschema",
		table:          "--sourcetable",
		query:          "--query",
		fileInput:      "--fileinput",
		provider:       "--sourceprovider",
	}
	targetFlags = sideFlags{
		connectionType: "--targetconnectiontype",
		connectString:  FlagTargetConnectString,
		dsn:            "--targetdsn",
		server:         "--targetserver",
		user:           "--targetuser",
		password:       FlagTargetPassword,
		trusted:        "--targettrusted",
		database:       "--targetdatabase",
		schema:         "--targetschema",
		table:          "--targettable",
		provider:       "--targetprovider",
	}
)

// Option flags.
const (
	FlagMethod          = "--method"
	FlagDistributeKey   = "--distributeKeyColumn"
	FlagDegree          = "--degree"
	FlagLoadMode        = "--loadmode"
	FlagBatchSize       = "--batchsize"
	FlagMapMethod       = "--mapmethod"
	FlagRunID           = "--runid"
	FlagDataDrivenQuery = "--datadrivenquery"
	FlagUseWorkTables   = "--useworktables"
	FlagSettingsFile    = "--settingsfile"
	FlagLogLevel        = "--loglevel"
	FlagNoBanner        = "--nobanner"
	FlagLicense         = "--license"
)

// Builder synthesizes FastTransfer invocations for one binary.
type Builder struct {
	binaryPath string
}

// NewBuilder creates a Builder that puts binaryPath first in every command.
func NewBuilder(binaryPath string) *Builder {
	return &Builder{binaryPath: binaryPath}
}

// BinaryPath returns the binary the builder targets.
func (b *Builder) BinaryPath() string {
	return b.binaryPath
}

// Build returns the argument vector for the request: binary path, source
// parameters, target parameters, then options. Equal requests yield equal vectors.
func (b *Builder) Build(v *validation.Validated) []string {
	req := v.Request()

	argv := []string{b.binaryPath}
	argv = appendConnection(argv, sourceFlags, &req.Source)
	argv = appendConnection(argv, targetFlags, &req.Target)
	argv = appendOptions(argv, &req.Options)
	return argv
}

func appendConnection(argv []string, f sideFlags, c *models.ConnectionConfig) []string {
	argv = append(argv, f.connectionType, c.Type)

	switch {
	case c.ConnectString != "":
		argv = append(argv, f.connectString, c.ConnectString)
	case c.DSN != "":
		argv = append(argv, f.dsn, c.DSN)
	default:
		if c.Server != "" {
			argv = append(argv, f.server, c.Server)
		}
		if c.TrustedAuth {
			argv = append(argv, f.trusted)
		} else {
			if c.User != "" {
				argv = append(argv, f.user, c.User)
			}
			if c.Password != "" {
				argv = append(argv, f.password, c.Password)
			}
		}
	}

	if c.Database != "" {
		argv = append(argv, f.database, c.Database)
	}
	if c.Schema != "" {
		argv = append(argv, f.schema, c.Schema)
	}

	switch {
	case c.Table != "":
		argv = append(argv, f.table, c.Table)
	case c.Query != "" && f.query != "":
		argv = append(argv, f.query, c.Query)
	case c.FileInput != "" && f.fileInput != "":
		argv = append(argv, f.fileInput, c.FileInput)
	}

	if c.Provider != "" {
		argv = append(argv, f.provider, c.Provider)
	}
	return argv
}

func appendOptions(argv []string, o *models.TransferOptions) []string {
	argv = append(argv, FlagMethod, o.Method.String())
	if o.DistributeKeyColumn != "" {
		argv = append(argv, FlagDistributeKey, o.DistributeKeyColumn)
	}
	argv = append(argv, FlagDegree, strconv.Itoa(o.DegreeValue()))
	argv = append(argv, FlagLoadMode, string(o.LoadMode))

	if o.BatchSize != nil {
		argv = append(argv, FlagBatchSize, strconv.Itoa(*o.BatchSize))
	}
	if o.MapMethod != "" {
		argv = append(argv, FlagMapMethod, string(o.MapMethod))
	}
	if o.RunID != "" {
		argv = append(argv, FlagRunID, o.RunID)
	}
	if o.DataDrivenQuery != "" {
		argv = append(argv, FlagDataDrivenQuery, o.DataDrivenQuery)
	}
	if o.UseWorkTables {
		argv = append(argv, FlagUseWorkTables)
	}
	if o.SettingsFile != "" {
		argv = append(argv, FlagSettingsFile, o.SettingsFile)
	}
	if o.LogLevel != "" {
		argv = append(argv, FlagLogLevel, string(o.LogLevel))
	}
	if o.NoBanner {
		argv = append(argv, FlagNoBanner)
	}
	if o.LicensePath != "" {
		argv = append(argv, FlagLicense, o.LicensePath)
	}
	return argv
}
