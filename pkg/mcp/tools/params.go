package tools

import (
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
)

func enumOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// connectionProperties is the JSON schema of a connection object.
// typeEnum restricts the type property to one side's connection types.
func connectionProperties(typeEnum []string) map[string]any {
	str := func(description string) map[string]any {
		return map[string]any{"type": "string", "description": description}
	}
	connType := map[string]any{"type": "string", "description": "FastTransfer connection type"}
	if len(typeEnum) > 0 {
		connType["enum"] = typeEnum
	}
	return map[string]any{
		"type":           connType,
		"server":         str("Server address (host:port, host,port or host\\instance)"),
		"database":       str("Database name"),
		"schema":         str("Schema name"),
		"table":          str("Table name"),
		"query":          str("SQL query to read from (source only, instead of table)"),
		"file_input":     str("File to import (source only, instead of table or query)"),
		"user":           str("Username"),
		"password":       str("Password (requires user; masked in previews and logs)"),
		"trusted_auth":   map[string]any{"type": "boolean", "description": "Use trusted (integrated) authentication"},
		"connect_string": str("Full connection string (replaces server, user and password)"),
		"dsn":            str("ODBC data source name"),
		"provider":       str("OLE DB provider name (oledb, msoledbsql and nzoledb sources only)"),
	}
}

// optionsProperties is the JSON schema of the transfer options object.
func optionsProperties() map[string]any {
	return map[string]any{
		"method": map[string]any{
			"type":        "string",
			"enum":        enumOf(models.ValidMethods),
			"description": "Parallelism method (default None). Ctid needs a PostgreSQL source, Rowid oraodp, NZDataSlice Netezza, Physloc SQL Server",
		},
		"distribute_key_column": map[string]any{
			"type":        "string",
			"description": "Column used to split the data; required for DataDriven, Random, RangeId and Ntile",
		},
		"degree": map[string]any{
			"type":        "integer",
			"description": "Parallelism degree: 0 auto, 1-1023 fixed workers, negative adapts to CPU count (default -2)",
		},
		"load_mode": map[string]any{
			"type":        "string",
			"enum":        enumOf(models.ValidLoadModes),
			"description": "Append (default) or Truncate the target table first",
		},
		"batch_size": map[string]any{
			"type":        "integer",
			"description": "Rows per bulk write batch (must be at least 1)",
		},
		"map_method": map[string]any{
			"type":        "string",
			"enum":        enumOf(models.ValidMapMethods),
			"description": "Map columns by Position (default) or by Name",
		},
		"run_id":            map[string]any{"type": "string", "description": "Identifier recorded in FastTransfer's own logs"},
		"data_driven_query": map[string]any{"type": "string", "description": "Query returning the distribution values (DataDriven only)"},
		"use_work_tables":   map[string]any{"type": "boolean", "description": "Load through intermediate work tables"},
		"settings_file":     map[string]any{"type": "string", "description": "Path to a FastTransfer settings file"},
		"log_level": map[string]any{
			"type":        "string",
			"enum":        enumOf(models.ValidLogLevels),
			"description": "FastTransfer log level override",
		},
		"no_banner":    map[string]any{"type": "boolean", "description": "Suppress the FastTransfer banner"},
		"license_path": map[string]any{"type": "string", "description": "Path or URL of the FastTransfer license"},
	}
}
