package version

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProber struct {
	output []byte
	err    error
	calls  int
	args   []string
}

func (p *fakeProber) Probe(_ context.Context, binaryPath string, args ...string) ([]byte, error) {
	p.calls++
	p.args = append([]string{binaryPath}, args...)
	return p.output, p.err
}

func TestDetector_DetectSuccess(t *testing.T) {
	prober := &fakeProber{output: []byte("FastTransfer Version 0.16.0.0\n")}
	d := NewDetector("/fake/binary", prober, nil, time.Second, zap.NewNop())

	v, ok := d.Detect(context.Background())
	require.True(t, ok)
	assert.Equal(t, "0.16.0.0", v.String())
	assert.Equal(t, []string{"/fake/binary", "--version", "--nobanner"}, prober.args)
}

func TestDetector_DetectNoMatch(t *testing.T) {
	prober := &fakeProber{output: []byte("Unknown option\n")}
	d := NewDetector("/fake/binary", prober, nil, time.Second, zap.NewNop())

	_, ok := d.Detect(context.Background())
	assert.False(t, ok)
}

func TestDetector_DetectProbeErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "timeout", err: context.DeadlineExceeded},
		{name: "not found", err: os.ErrNotExist},
		{name: "other", err: errors.New("permission denied")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector("/fake/binary", &fakeProber{err: tt.err}, nil, time.Second, zap.NewNop())
			_, ok := d.Detect(context.Background())
			assert.False(t, ok)
		})
	}
}

func TestDetector_CachesResult(t *testing.T) {
	prober := &fakeProber{output: []byte("FastTransfer Version 0.16.0.0")}
	d := NewDetector("/fake/binary", prober, nil, time.Second, zap.NewNop())

	d.Detect(context.Background())
	d.Detect(context.Background())
	d.Capabilities(context.Background())
	assert.Equal(t, 1, prober.calls)
}

func TestDetector_CachesUndetected(t *testing.T) {
	prober := &fakeProber{err: os.ErrNotExist}
	d := NewDetector("/fake/binary", prober, nil, time.Second, zap.NewNop())

	d.Detect(context.Background())
	d.Detect(context.Background())
	assert.Equal(t, 1, prober.calls)
}

func TestDetector_Redetect(t *testing.T) {
	prober := &fakeProber{output: []byte("FastTransfer Version 0.16.0.0")}
	d := NewDetector("/fake/binary", prober, nil, time.Second, zap.NewNop())

	d.Detect(context.Background())
	prober.output = []byte("FastTransfer Version 0.17.0.0")

	v, ok := d.Detect(context.Background())
	require.True(t, ok)
	assert.Equal(t, "0.16.0.0", v.String(), "cached value is stale until Redetect")

	v, ok = d.Redetect(context.Background())
	require.True(t, ok)
	assert.Equal(t, "0.17.0.0", v.String())
	assert.Equal(t, 2, prober.calls)
}

func TestDetector_CapabilitiesKnownVersion(t *testing.T) {
	prober := &fakeProber{output: []byte("FastTransfer Version 0.16.0.0")}
	d := NewDetector("/fake/binary", prober, nil, time.Second, zap.NewNop())

	caps := d.Capabilities(context.Background())
	assert.True(t, caps.SupportsSource("pgsql"))
	assert.True(t, caps.SupportsTarget("msbulk"))
	assert.True(t, caps.SupportsMethod("Ctid"))
	assert.True(t, caps.SupportsNoBanner)
}

func TestDetector_CapabilitiesNewerAndUndetected(t *testing.T) {
	latest, _ := DefaultRegistry().Latest()

	newer := NewDetector("/fake", &fakeProber{output: []byte("FastTransfer Version 9.0.0.0")}, nil, time.Second, zap.NewNop())
	assert.Equal(t, latest.Capabilities, newer.Capabilities(context.Background()))

	undetected := NewDetector("/fake", &fakeProber{err: os.ErrNotExist}, nil, time.Second, zap.NewNop())
	assert.Equal(t, latest.Capabilities, undetected.Capabilities(context.Background()))
}

func TestExecProber_RealBinary(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "FastTransfer")
	script := "#!/bin/sh\necho 'FastTransfer Version 0.16.0.0'\nexit 3\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))

	d := NewDetector(bin, nil, nil, 5*time.Second, zap.NewNop())
	v, ok := d.Detect(context.Background())
	require.True(t, ok, "non-zero exit with a version banner still counts")
	assert.Equal(t, "0.16.0.0", v.String())
}

func TestExecProber_MissingBinary(t *testing.T) {
	d := NewDetector(filepath.Join(t.TempDir(), "missing"), nil, nil, time.Second, zap.NewNop())
	_, ok := d.Detect(context.Background())
	assert.False(t, ok)
}

func TestExecProber_BackgroundChildKeepsPipeOpen(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "FastTransfer")
	script := "#!/bin/sh\necho 'FastTransfer Version 0.16.0.0'\nsleep 10 &\nexit 0\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))

	d := NewDetector(bin, nil, nil, 5*time.Second, zap.NewNop())
	start := time.Now()
	v, ok := d.Detect(context.Background())
	require.True(t, ok)
	assert.Equal(t, "0.16.0.0", v.String())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecProber_TimeoutWithBackgroundChild(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "FastTransfer")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nsleep 10 &\nsleep 10\n"), 0o755))

	d := NewDetector(bin, nil, nil, 200*time.Millisecond, zap.NewNop())
	start := time.Now()
	_, ok := d.Detect(context.Background())
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 200*time.Millisecond+probeWaitDelay+2*time.Second)
}

func TestExecProber_Timeout(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "FastTransfer")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexec sleep 5\n"), 0o755))

	d := NewDetector(bin, nil, nil, 200*time.Millisecond, zap.NewNop())
	start := time.Now()
	_, ok := d.Detect(context.Background())
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 4*time.Second)
}
