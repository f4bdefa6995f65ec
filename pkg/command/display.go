package command

import (
	"strings"
	"unicode"

	"github.com/kballard/go-shellquote"
)

// RedactionMarker replaces every secret in a masked command.
const RedactionMarker = "******"

// Sensitive flags. The value following any of these is a secret.
const (
	FlagSourcePassword      = "--sourcepassword"
	FlagTargetPassword      = "--targetpassword"
	FlagSourceConnectString = "--sourceconnectstring"
	FlagTargetConnectString = "--targetconnectstring"
)

// DisplaySeparator joins the rendered parts of a multi-line command.
const DisplaySeparator = " \\\n  "

// sensitiveFlags also covers FastTransfer's short forms of the password and
// connection string flags.
var sensitiveFlags = map[string]bool{
	FlagSourcePassword:      true,
	FlagTargetPassword:      true,
	FlagSourceConnectString: true,
	FlagTargetConnectString: true,
	"-x":                    true,
	"-X":                    true,
	"-g":                    true,
	"-G":                    true,
}

// IsSensitiveFlag reports whether the value following flag must be masked.
func IsSensitiveFlag(flag string) bool {
	return sensitiveFlags[flag]
}

// Mask returns a copy of argv with the token after every sensitive flag replaced
// by RedactionMarker. It is purely positional, so it works on any argument vector,
// including ones split from free text. Inline --flag=value forms are masked too.
func Mask(argv []string) []string {
	masked := make([]string, len(argv))
	maskNext := false
	for i, tok := range argv {
		switch {
		case maskNext:
			masked[i] = RedactionMarker
			maskNext = false
		case sensitiveFlags[tok]:
			masked[i] = tok
			maskNext = true
		default:
			masked[i] = maskInline(tok)
		}
	}
	return masked
}

func maskInline(tok string) string {
	flag, _, found := strings.Cut(tok, "=")
	if found && sensitiveFlags[flag] {
		return flag + "=" + RedactionMarker
	}
	return tok
}

// Format renders argv for humans: the binary alone on the first line, then one
// "flag value" pair per line joined by DisplaySeparator. Values containing
// whitespace are double quoted. Standalone flags and orphaned tokens get a line
// of their own. With mask set, secrets are redacted first.
func Format(argv []string, mask bool) string {
	if len(argv) == 0 {
		return ""
	}
	if mask {
		argv = Mask(argv)
	}

	parts := []string{argv[0]}
	for i := 1; i < len(argv); i++ {
		tok := argv[i]
		if isFlag(tok) && i+1 < len(argv) && !isFlag(argv[i+1]) {
			parts = append(parts, tok+" "+quoteValue(argv[i+1]))
			i++
			continue
		}
		parts = append(parts, tok)
	}
	return strings.Join(parts, DisplaySeparator)
}

// ShellLine renders argv as a single shell-quoted line that go-shellwords (or a
// POSIX shell) splits back into the same tokens. It does not mask.
func ShellLine(argv []string) string {
	return shellquote.Join(argv...)
}

// isFlag reports whether tok is a long (--name) or short (-x) flag.
// Negative numbers such as "-2" are values.
func isFlag(tok string) bool {
	if strings.HasPrefix(tok, "--") {
		return len(tok) > 2
	}
	return len(tok) >= 2 && tok[0] == '-' && unicode.IsLetter(rune(tok[1]))
}

func quoteValue(v string) string {
	if strings.ContainsFunc(v, unicode.IsSpace) {
		return `"` + v + `"`
	}
	return v
}
