package services

import (
	"fmt"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
)

// Explain describes in plain words what a validated transfer will do, one step per entry,
// each prefixed with its number.
func Explain(req models.TransferRequest) []string {
	var steps []string

	src := req.Source
	switch {
	case src.FileInput != "":
		steps = append(steps, fmt.Sprintf("Import file '%s' via %s into %s", src.FileInput, src.Type, src.Database))
	case src.Query != "":
		where := src.Database
		if src.Server != "" {
			where = src.Server + "/" + src.Database
		}
		steps = append(steps, fmt.Sprintf("Execute query on %s (%s)", src.Type, where))
	default:
		steps = append(steps, fmt.Sprintf("Read from %s table: %s.%s", src.Type, src.Database, src.QualifiedTable()))
	}

	steps = append(steps, fmt.Sprintf("Write to %s table: %s.%s", req.Target.Type, req.Target.Database, req.Target.QualifiedTable()))

	opts := req.Options
	if opts.LoadMode == models.LoadModeTruncate {
		steps = append(steps, "Mode: TRUNCATE target table before loading (all existing data will be deleted)")
	} else {
		steps = append(steps, "Mode: APPEND to existing target table data")
	}

	if opts.Method != models.MethodNone {
		desc := fmt.Sprintf("Parallelism: %s method", opts.Method)
		if opts.DistributeKeyColumn != "" {
			desc += fmt.Sprintf(" on column '%s'", opts.DistributeKeyColumn)
		}
		desc += fmt.Sprintf(" with degree %d", opts.DegreeValue())
		steps = append(steps, desc)
	} else {
		steps = append(steps, "Parallelism: None (single-threaded transfer)")
	}

	steps = append(steps, fmt.Sprintf("Column mapping: %s", opts.MapMethod))

	for i := range steps {
		steps[i] = fmt.Sprintf("%d. %s", i+1, steps[i])
	}
	return steps
}
