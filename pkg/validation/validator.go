package validation

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/version"
)

// Validated is a transfer request that passed validation, with option defaults applied.
// It can only be obtained from Validator.ValidateTransfer.
type Validated struct {
	request models.TransferRequest
}

// Request returns a copy of the validated request.
func (v *Validated) Request() models.TransferRequest {
	return v.request
}

// Validator checks transfer requests and single connections.
type Validator struct {
	registry *version.Registry
}

// NewValidator creates a validator. The registry is only consulted to name the
// minimum version of a gated feature; a nil registry uses version.DefaultRegistry.
func NewValidator(registry *version.Registry) *Validator {
	if registry == nil {
		registry = version.DefaultRegistry()
	}
	return &Validator{registry: registry}
}

// ValidateTransfer checks the whole request and returns every violation at once.
// When caps is non-nil, types, methods and features missing from it are reported
// as compatibility violations.
func (v *Validator) ValidateTransfer(req models.TransferRequest, caps *version.Capabilities) (*Validated, error) {
	c := &collector{}
	opts := req.Options.WithDefaults()

	checkConnection(c, "source", &req.Source, models.SideSource, true)
	checkConnection(c, "target", &req.Target, models.SideTarget, true)
	checkOptions(c, &opts, models.SourceType(req.Source.Type))

	if caps != nil {
		v.checkCapabilities(c, &req, &opts, *caps)
	}

	if err := c.err(); err != nil {
		return nil, err
	}

	req.Options = opts
	return &Validated{request: req}, nil
}

// ValidateConnection checks one connection in isolation. Unlike ValidateTransfer it
// does not require a data reference, only that at most one is set.
func (v *Validator) ValidateConnection(conn models.ConnectionConfig, side models.Side, caps *version.Capabilities) error {
	c := &collector{}
	if !side.IsValid() {
		c.structural("side", "side must be 'source' or 'target', got '%s'", side)
		return c.err()
	}

	prefix := string(side)
	checkConnection(c, prefix, &conn, side, false)
	if caps != nil {
		v.checkConnectionCapabilities(c, prefix, &conn, side, *caps)
	}
	return c.err()
}

func checkConnection(c *collector, prefix string, conn *models.ConnectionConfig, side models.Side, requireData bool) {
	checkType(c, prefix, conn.Type, side)

	if strings.TrimSpace(conn.Database) == "" {
		c.structural(prefix+".database", "database is required")
	}

	checkAuth(c, prefix, conn)
	checkDataRefs(c, prefix, conn, side, requireData)

	if conn.Provider != "" {
		if side != models.SideSource || !models.SourceType(conn.Type).AcceptsProvider() {
			c.structural(prefix+".provider",
				"provider is only valid for OLE DB source types (oledb, msoledbsql, nzoledb), not '%s'", conn.Type)
		}
	}
}

func checkType(c *collector, prefix, typ string, side models.Side) {
	field := prefix + ".type"
	if typ == "" {
		c.structural(field, "connection type is required")
		return
	}

	switch side {
	case models.SideSource:
		if !models.SourceType(typ).IsValid() {
			c.structural(field, "unsupported source type '%s'", typ)
		}
	case models.SideTarget:
		if !models.TargetType(typ).IsValid() {
			c.structural(field, "unsupported target type '%s'", typ)
		}
	}
}

func checkAuth(c *collector, prefix string, conn *models.ConnectionConfig) {
	modes := conn.AuthModes()
	switch {
	case len(modes) == 0:
		c.structural(prefix,
			"exactly one authentication method is required: user/password, trusted_auth, connect_string or dsn")
	case len(modes) > 1:
		names := make([]string, len(modes))
		for i, m := range modes {
			names[i] = string(m)
		}
		c.structural(prefix, "only one authentication method may be used, got: %s", strings.Join(names, ", "))
	}

	if conn.Password != "" && conn.User == "" {
		c.structural(prefix+".password", "password requires user")
	}
}

func checkDataRefs(c *collector, prefix string, conn *models.ConnectionConfig, side models.Side, requireData bool) {
	refs := conn.DataRefs()

	if side == models.SideTarget {
		if conn.Query != "" {
			c.structural(prefix+".query", "query is only valid on the source connection")
		}
		if conn.FileInput != "" {
			c.structural(prefix+".file_input", "file_input is only valid on the source connection")
		}
		if requireData && conn.Table == "" {
			c.structural(prefix+".table", "target table is required")
		}
		return
	}

	switch {
	case len(refs) == 0 && requireData:
		c.structural(prefix, "exactly one of table, query or file_input is required")
	case len(refs) > 1:
		names := make([]string, len(refs))
		for i, r := range refs {
			names[i] = string(r)
		}
		c.structural(prefix, "table, query and file_input are mutually exclusive, got: %s", strings.Join(names, ", "))
	}
}

func checkOptions(c *collector, opts *models.TransferOptions, source models.SourceType) {
	if !opts.Method.IsValid() {
		c.structural("options.method", "unsupported parallelism method '%s'", opts.Method)
	} else if r, ok := opts.Method.Restriction(); ok && source.IsValid() && !r.Allows(source) {
		c.compatibility("options.method", "method '%s' only works with %s sources (%s), not '%s'",
			opts.Method, r.Family, r.AllowedList(), source)
	}

	if opts.Method.RequiresDistributeKey() && strings.TrimSpace(opts.DistributeKeyColumn) == "" {
		c.structural("options.distribute_key_column", "method '%s' requires distribute_key_column", opts.Method)
	}

	if opts.DataDrivenQuery != "" && opts.Method != models.MethodDataDriven {
		c.structural("options.data_driven_query", "data_driven_query is only valid with method '%s'", models.MethodDataDriven)
	}

	if d := opts.DegreeValue(); d >= models.MaxFixedDegree {
		c.structural("options.degree",
			"degree must be 0 (auto), 1-%d (fixed) or negative (adaptive), got %d", models.MaxFixedDegree-1, d)
	}

	if opts.BatchSize != nil && *opts.BatchSize < 1 {
		c.structural("options.batch_size", "batch_size must be at least 1, got %d", *opts.BatchSize)
	}

	if !opts.LoadMode.IsValid() {
		c.structural("options.load_mode", "load_mode must be Append or Truncate, got '%s'", opts.LoadMode)
	}
	if !opts.MapMethod.IsValid() {
		c.structural("options.map_method", "map_method must be Position or Name, got '%s'", opts.MapMethod)
	}
	if opts.LogLevel != "" && !opts.LogLevel.IsValid() {
		c.structural("options.log_level", "unsupported log_level '%s'", opts.LogLevel)
	}
}

// checkCapabilities is the version gate. Only values that already passed the
// structural checks are gated, so an unknown type is reported once.
func (v *Validator) checkCapabilities(c *collector, req *models.TransferRequest, opts *models.TransferOptions, caps version.Capabilities) {
	v.checkConnectionCapabilities(c, "source", &req.Source, models.SideSource, caps)
	v.checkConnectionCapabilities(c, "target", &req.Target, models.SideTarget, caps)

	if opts.Method.IsValid() && !caps.SupportsMethod(opts.Method.String()) {
		m := opts.Method.String()
		c.compatibility("options.method", "method '%s' %s", m,
			v.requirement(func(vc version.Capabilities) bool { return vc.SupportsMethod(m) }))
	}

	features := []struct {
		field    string
		used     bool
		name     string
		supports func(version.Capabilities) bool
	}{
		{"options.settings_file", opts.SettingsFile != "", "settings_file",
			func(vc version.Capabilities) bool { return vc.SupportsSettingsFile }},
		{"options.license_path", opts.LicensePath != "", "license_path",
			func(vc version.Capabilities) bool { return vc.SupportsLicensePath }},
		{"options.no_banner", opts.NoBanner, "no_banner",
			func(vc version.Capabilities) bool { return vc.SupportsNoBanner }},
	}
	for _, f := range features {
		if f.used && !f.supports(caps) {
			c.compatibility(f.field, "%s %s", f.name, v.requirement(f.supports))
		}
	}
}

func (v *Validator) checkConnectionCapabilities(c *collector, prefix string, conn *models.ConnectionConfig, side models.Side, caps version.Capabilities) {
	typ := conn.Type
	switch side {
	case models.SideSource:
		if models.SourceType(typ).IsValid() && !caps.SupportsSource(typ) {
			c.compatibility(prefix+".type", "source type '%s' %s", typ,
				v.requirement(func(vc version.Capabilities) bool { return vc.SupportsSource(typ) }))
		}
		if conn.FileInput != "" && !caps.SupportsFileInput {
			c.compatibility(prefix+".file_input", "file_input %s",
				v.requirement(func(vc version.Capabilities) bool { return vc.SupportsFileInput }))
		}
	case models.SideTarget:
		if models.TargetType(typ).IsValid() && !caps.SupportsTarget(typ) {
			c.compatibility(prefix+".type", "target type '%s' %s", typ,
				v.requirement(func(vc version.Capabilities) bool { return vc.SupportsTarget(typ) }))
		}
	}
}

// requirement describes the oldest release supporting a feature.
func (v *Validator) requirement(supports func(version.Capabilities) bool) string {
	if minVersion, ok := v.registry.MinimumVersion(supports); ok {
		return fmt.Sprintf("requires FastTransfer %s or later", minVersion)
	}
	return "is not supported by any known FastTransfer version"
}
