package sql

import (
	"strings"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
)

// StatementCheckResult reports a free-form SQL request field that holds more
// than one statement. The SQL itself is not retained.
type StatementCheckResult struct {
	Field string `json:"field"`
}

// HasMultipleStatements reports whether query contains a semicolon outside of
// string literals, quoted identifiers and comments, ignoring one trailing semicolon.
func HasMultipleStatements(query string) bool {
	query = strings.TrimSpace(query)
	query = strings.TrimRight(strings.TrimSuffix(query, ";"), " \t\r\n")
	return hasSemicolonOutsideStrings(query)
}

// CheckTransferStatements checks source.query and options.data_driven_query.
func CheckTransferStatements(req models.TransferRequest) []*StatementCheckResult {
	var results []*StatementCheckResult
	for _, f := range []struct {
		field string
		query string
	}{
		{"source.query", req.Source.Query},
		{"options.data_driven_query", req.Options.DataDrivenQuery},
	} {
		if f.query != "" && HasMultipleStatements(f.query) {
			results = append(results, &StatementCheckResult{Field: f.field})
		}
	}
	return results
}

func hasSemicolonOutsideStrings(query string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
		stateBracket
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	runes := []rune(query)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch state {
		case stateNormal:
			switch {
			case c == ';':
				return true
			case c == '\'':
				state = stateSingleQuote
			case c == '"':
				state = stateDoubleQuote
			case c == '[':
				state = stateBracket
			case c == '-' && next == '-':
				state = stateLineComment
				i++
			case c == '/' && next == '*':
				state = stateBlockComment
				i++
			}
		case stateSingleQuote:
			// '' is an escaped quote: leaving and re-entering the literal is equivalent.
			if c == '\'' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if c == '"' {
				state = stateNormal
			}
		case stateBracket:
			if c == ']' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}
	return false
}
