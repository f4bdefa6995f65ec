package command

import (
	"strings"
	"testing"

	"github.com/mattn/go-shellwords"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	argv := []string{"bin", "--sourcepassword", "secret123", "--sourceuser", "bob"}
	assert.Equal(t, []string{"bin", "--sourcepassword", "******", "--sourceuser", "bob"}, Mask(argv))
	assert.Equal(t, "secret123", argv[2], "input is not modified")
}

func TestMask_AllSensitiveFlags(t *testing.T) {
	for flag := range sensitiveFlags {
		t.Run(flag, func(t *testing.T) {
			masked := Mask([]string{"bin", flag, "hunter2", "--next", "value"})
			assert.Equal(t, []string{"bin", flag, RedactionMarker, "--next", "value"}, masked)
		})
	}
}

func TestMask_Edges(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "empty", in: []string{}, want: []string{}},
		{name: "trailing sensitive flag", in: []string{"bin", "--targetpassword"}, want: []string{"bin", "--targetpassword"}},
		{name: "inline value", in: []string{"bin", "--sourcepassword=p@ss"}, want: []string{"bin", "--sourcepassword=******"}},
		{name: "inline non-sensitive", in: []string{"bin", "--degree=4"}, want: []string{"bin", "--degree=4"}},
		{
			name: "consecutive sensitive flags mask positionally",
			in:   []string{"bin", "-x", "-X", "secret"},
			want: []string{"bin", "-x", RedactionMarker, "secret"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.in))
		})
	}
}

func TestMask_SecretNeverInFormattedOutput(t *testing.T) {
	argv := NewBuilder(testBinary).Build(mustValidate(t, pgToMSSQL()))
	out := Format(argv, true)
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, "--sourcepassword ******")
}

func TestFormat(t *testing.T) {
	argv := []string{
		"bin",
		"--sourceconnectiontype", "pgsql",
		"--sourcetrusted",
		"--query", "SELECT * FROM t",
		"--degree", "-2",
		"--nobanner",
	}

	want := strings.Join([]string{
		"bin",
		"--sourceconnectiontype pgsql",
		"--sourcetrusted",
		`--query "SELECT * FROM t"`,
		"--degree -2",
		"--nobanner",
	}, DisplaySeparator)

	assert.Equal(t, want, Format(argv, false))
}

func TestFormat_OrphanedToken(t *testing.T) {
	assert.Equal(t, "bin"+DisplaySeparator+"stray"+DisplaySeparator+"--flag value",
		Format([]string{"bin", "stray", "--flag", "value"}, false))
}

func TestFormat_Unmasked(t *testing.T) {
	out := Format([]string{"bin", "--sourcepassword", "secret123"}, false)
	assert.Contains(t, out, "secret123")
}

func TestFormat_Empty(t *testing.T) {
	assert.Equal(t, "", Format(nil, true))
	assert.Equal(t, "bin", Format([]string{"bin"}, true))
}

func TestShellLine_RoundTrips(t *testing.T) {
	argv := []string{
		testBinary,
		"--query", "SELECT * FROM users WHERE name = 'O''Brien'",
		"--sourcepassword", `p@ss "word" $HOME`,
		"--degree", "-2",
	}

	parsed, err := shellwords.Parse(ShellLine(argv))
	require.NoError(t, err)
	assert.Equal(t, argv, parsed)
}

func TestIsFlag(t *testing.T) {
	assert.True(t, isFlag("--method"))
	assert.True(t, isFlag("-x"))
	assert.False(t, isFlag("-2"))
	assert.False(t, isFlag("--"))
	assert.False(t, isFlag("value"))
	assert.False(t, isFlag("-"))
}
