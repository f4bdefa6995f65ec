package logging

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kballard/go-shellquote"
	"github.com/mattn/go-shellwords"
)

const (
	// MaxQueryLogLength is the maximum length of a query to log
	MaxQueryLogLength = 100
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match potential passwords in connection strings
	// Matches: password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Pattern to match connection string credentials (user:pass@host format)
	connStringPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s]+`)

	// Pattern to match the value after a FastTransfer secret flag in a command line.
	// The value is one shell word: quoted and bare pieces run together, as in 'it'\''s'.
	// An unterminated quote falls back to the next run of non-space characters.
	commandSecretPattern = regexp.MustCompile(
		`(--sourcepassword|--targetpassword|--sourceconnectstring|--targetconnectstring|(?:^|\s)-[xXgG])(\s+|=)((?:'[^']*'|"(?:[^"\\]|\\.)*"|\\.|[^\s'"\\])+|\S+)`)
)

// secretFlags are the FastTransfer flags whose following token is a secret.
var secretFlags = map[string]bool{
	"--sourcepassword":      true,
	"--targetpassword":      true,
	"--sourceconnectstring": true,
	"--targetconnectstring": true,
	"-x":                    true,
	"-X":                    true,
	"-g":                    true,
	"-G":                    true,
}

// sensitiveKeys are argument names whose values are never logged.
var sensitiveKeys = map[string]bool{
	"password":       true,
	"connect_string": true,
}

// SanitizeConnectionString removes sensitive data from connection strings
// Use this before logging any connection string
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// SanitizeCommandLine redacts secret flag values in a FastTransfer command string.
// A line that splits into shell words is redacted token by token; anything else
// falls back to pattern matching.
func SanitizeCommandLine(cmd string) string {
	if cmd == "" {
		return ""
	}
	sanitized, ok := redactTokens(cmd)
	if !ok {
		sanitized = commandSecretPattern.ReplaceAllString(cmd, "${1}${2}"+RedactedText)
	}
	return SanitizeConnectionString(sanitized)
}

// redactTokens splits line like a shell would and replaces every secret flag
// value. It returns ok=false when the line is not a single shell command.
// A line without secret flags is returned unchanged.
func redactTokens(line string) (string, bool) {
	parser := shellwords.NewParser()
	argv, err := parser.Parse(line)
	if err != nil || parser.Position >= 0 || len(argv) == 0 {
		return "", false
	}

	parts := make([]string, len(argv))
	redacted := false
	maskNext := false
	for i, tok := range argv {
		switch {
		case maskNext:
			parts[i] = RedactedText
			maskNext = false
			redacted = true
		case secretFlags[tok]:
			parts[i] = tok
			maskNext = true
		default:
			if flag, _, found := strings.Cut(tok, "="); found && secretFlags[flag] {
				parts[i] = flag + "=" + RedactedText
				redacted = true
				continue
			}
			parts[i] = shellquote.Join(tok)
		}
	}
	if !redacted {
		return line, true
	}
	return strings.Join(parts, " "), true
}

// SanitizeError sanitizes error messages that might contain sensitive data
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeCommandLine(err.Error())
}

// SanitizeQuery truncates and sanitizes a SQL query for logging
func SanitizeQuery(query string) string {
	if query == "" {
		return ""
	}

	sanitized := TruncateString(query, MaxQueryLogLength)
	return passwordPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
}

// SanitizeArguments returns a copy of tool arguments that is safe to log.
// Passwords and connection strings are replaced, commands have their secret
// flag values redacted, and nested objects are sanitized recursively.
func SanitizeArguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}

	out := make(map[string]any, len(args))
	for k, v := range args {
		switch {
		case sensitiveKeys[strings.ToLower(k)]:
			if v == nil || v == "" {
				out[k] = v
			} else {
				out[k] = RedactedText
			}
		default:
			out[k] = sanitizeValue(v)
		}
	}
	return out
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return SanitizeArguments(val)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = sanitizeValue(item)
		}
		return items
	case string:
		return SanitizeCommandLine(val)
	default:
		return v
	}
}

// TruncateString truncates a string to at most maxLen bytes and adds ellipsis if needed.
// The cut never splits a UTF-8 sequence.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
