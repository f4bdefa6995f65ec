// Package sql lints the identifier-like values of a transfer request.
//
// FastTransfer splices table, schema and key column names into the SQL it
// generates, so injection patterns in those values are worth flagging before
// a command is run.
package sql

import (
	"sort"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
)

// InjectionCheckResult contains the result of an injection check on one request field.
// The checked value is deliberately not retained.
type InjectionCheckResult struct {
	IsSQLi      bool   `json:"is_sqli"`     // True if SQL injection pattern detected
	Fingerprint string `json:"fingerprint"` // libinjection fingerprint of the detected pattern
	Field       string `json:"field"`       // Request field path, e.g. source.table
}

// CheckIdentifierForInjection uses libinjection to detect SQL injection patterns
// in an identifier value. Returns nil if no injection is detected.
//
// Example:
//
//	result := CheckIdentifierForInjection("source.table", "users")
//	// result == nil
//
//	result = CheckIdentifierForInjection("source.table", "'; DROP TABLE users--")
//	// result.IsSQLi == true
//	// result.Field == "source.table"
func CheckIdentifierForInjection(field, value string) *InjectionCheckResult {
	if value == "" {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
		Field:       field,
	}
}

// CheckAllIdentifiers checks every value in the map and returns the findings
// sorted by field. Returns an empty slice if all values are clean.
func CheckAllIdentifiers(values map[string]string) []*InjectionCheckResult {
	results := []*InjectionCheckResult{}
	for field, value := range values {
		if result := CheckIdentifierForInjection(field, value); result != nil {
			results = append(results, result)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Field < results[j].Field })
	return results
}

// CheckTransferRequest lints the identifiers FastTransfer embeds in generated SQL.
// Free-form queries are SQL by definition and are not checked.
func CheckTransferRequest(req models.TransferRequest) []*InjectionCheckResult {
	return CheckAllIdentifiers(map[string]string{
		"source.database":               req.Source.Database,
		"source.schema":                 req.Source.Schema,
		"source.table":                  req.Source.Table,
		"target.database":               req.Target.Database,
		"target.schema":                 req.Target.Schema,
		"target.table":                  req.Target.Table,
		"options.distribute_key_column": req.Options.DistributeKeyColumn,
		"options.run_id":                req.Options.RunID,
	})
}
