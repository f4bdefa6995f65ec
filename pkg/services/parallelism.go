package services

import (
	"fmt"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/validation"
)

// ParallelismSuggestion is a recommended method with the reasoning behind it.
type ParallelismSuggestion struct {
	Method      models.Method `json:"method"`
	Explanation string        `json:"explanation"`
	// RequiresDistributeKey is true when the request must also name distribute_key_column.
	RequiresDistributeKey bool `json:"requires_distribute_key"`
}

// MethodNotes summarizes when each method fits, for display next to a suggestion.
var MethodNotes = []string{
	"Ctid: best for PostgreSQL (no key column needed)",
	"Rowid: best for Oracle (no key column needed)",
	"NZDataSlice: best for Netezza (uses native data slices)",
	"Physloc: best for SQL Server without a numeric key",
	"RangeId: requires a numeric key with good distribution",
	"Random: requires a numeric key, uses modulo distribution",
	"DataDriven: works with any data type, uses distinct values",
	"Ntile: even distribution, works with numeric, date or string columns",
	"None: single-threaded, best for small tables or troubleshooting",
}

func (s *transferService) SuggestParallelism(req models.ParallelismSuggestionRequest) (*ParallelismSuggestion, error) {
	return SuggestParallelism(req)
}

// SuggestParallelism picks a method from the source engine and table shape.
// Engine-native methods win over key-based ones; small tables get no parallelism.
func SuggestParallelism(req models.ParallelismSuggestionRequest) (*ParallelismSuggestion, error) {
	source := models.SourceType(req.SourceType)

	var violations []validation.Violation
	if !source.IsValid() {
		violations = append(violations, validation.Violation{
			Field:   "source_type",
			Message: fmt.Sprintf("unsupported source type '%s'", req.SourceType),
			Kind:    validation.KindStructural,
		})
	}
	if !req.TableSizeEstimate.IsValid() {
		violations = append(violations, validation.Violation{
			Field:   "table_size_estimate",
			Message: "table_size_estimate must be one of small, medium, large",
			Kind:    validation.KindStructural,
		})
	}
	if len(violations) > 0 {
		return nil, &validation.ValidationError{Violations: violations}
	}

	method, explanation := suggestMethod(source, req.HasNumericKey, req.HasIdentityColumn, req.TableSizeEstimate)
	return &ParallelismSuggestion{
		Method:                method,
		Explanation:           explanation,
		RequiresDistributeKey: method.RequiresDistributeKey(),
	}, nil
}

func suggestMethod(source models.SourceType, numericKey, identity bool, size models.TableSize) (models.Method, string) {
	if size == models.TableSizeSmall {
		return models.MethodNone,
			"Table is small; parallelism overhead would likely reduce performance."
	}

	switch {
	case source.Family() == models.FamilyPostgres:
		return models.MethodCtid,
			"PostgreSQL source detected. Ctid reads in parallel using PostgreSQL's native tuple identifier."
	case source == models.SourceOraODP:
		return models.MethodRowid,
			"Oracle source detected. Rowid reads in parallel using Oracle's native row identifier."
	case source.Family() == models.FamilyNetezza:
		return models.MethodNZDataSlice,
			"Netezza source detected. NZDataSlice leverages Netezza data slices for parallel reads."
	case source.Family() == models.FamilySQLServer && !numericKey:
		return models.MethodPhysloc,
			"SQL Server source without a numeric key. Physloc splits on the physical row locator and needs no key column."
	}

	if numericKey {
		if identity || size == models.TableSizeLarge {
			return models.MethodRangeID,
				"RangeId divides the numeric key range into chunks, giving good load balancing for large or identity-keyed tables."
		}
		return models.MethodRandom,
			"Random applies a modulo on the numeric key. Works well when key values are evenly distributed."
	}

	if size == models.TableSizeLarge {
		return models.MethodDataDriven,
			"DataDriven distributes on the distinct values of a key column. Choose a column with good cardinality."
	}
	return models.MethodNtile,
		"Ntile distributes rows evenly across workers. Works with numeric, date or string columns."
}

// Combination lists the target engines one source engine can feed.
type Combination struct {
	Source  string   `json:"source"`
	Targets []string `json:"targets"`
}

// supportedCombinations is ordered by source display name.
var supportedCombinations = []Combination{
	{Source: "ClickHouse", Targets: []string{"ClickHouse", "DuckDB", "PostgreSQL", "SQL Server", "MySQL", "Oracle"}},
	{Source: "DuckDB", Targets: []string{"DuckDB", "PostgreSQL", "SQL Server", "MySQL", "Oracle", "ClickHouse"}},
	{Source: "DuckDB Stream (File Import)", Targets: []string{"DuckDB", "PostgreSQL", "SQL Server", "MySQL", "Oracle", "ClickHouse"}},
	{Source: "MySQL", Targets: []string{"MySQL", "PostgreSQL", "SQL Server", "Oracle", "DuckDB", "ClickHouse"}},
	{Source: "Netezza", Targets: []string{"Netezza", "PostgreSQL", "SQL Server", "Oracle", "DuckDB"}},
	{Source: "Oracle", Targets: []string{"Oracle", "PostgreSQL", "SQL Server", "MySQL", "DuckDB", "ClickHouse"}},
	{Source: "PostgreSQL", Targets: []string{"PostgreSQL", "SQL Server", "MySQL", "Oracle", "DuckDB", "ClickHouse", "Netezza"}},
	{Source: "SAP HANA", Targets: []string{"SAP HANA", "PostgreSQL", "SQL Server", "Oracle", "DuckDB"}},
	{Source: "SQL Server", Targets: []string{"SQL Server", "PostgreSQL", "MySQL", "Oracle", "DuckDB", "ClickHouse"}},
	{Source: "Teradata", Targets: []string{"Teradata", "PostgreSQL", "SQL Server", "Oracle", "DuckDB"}},
}

// CombinationNotes accompany the combination list.
var CombinationNotes = []string{
	"All combinations support both Append and Truncate load modes",
	"Parallelism method availability depends on the source database type",
	"Some methods only work with specific sources (Ctid for PostgreSQL, Rowid for Oracle)",
}

func (s *transferService) SupportedCombinations() []Combination {
	return SupportedCombinations()
}

// SupportedCombinations returns a copy of the static combination table.
func SupportedCombinations() []Combination {
	out := make([]Combination, len(supportedCombinations))
	for i, c := range supportedCombinations {
		out[i] = Combination{Source: c.Source, Targets: append([]string(nil), c.Targets...)}
	}
	return out
}
