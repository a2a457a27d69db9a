package dataset

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sartorproj/goobr/internal/tracetest"
	"github.com/sartorproj/goobr/trace"
)

func linear(x float64) float64 { return 2*x - 1 }

func TestGroupFiles(t *testing.T) {
	tests := []struct {
		name     string
		group    Group
		expected []string
	}{
		{
			"suffixes",
			Group{Dir: "data/strain", Prefix: "10me", Suffixes: []string{"Upper", "Lower"}},
			[]string{
				filepath.Join("data", "strain", "10me_Upper.txt"),
				filepath.Join("data", "strain", "10me_Lower.txt"),
			},
		},
		{
			"trailing separator",
			Group{Dir: "data/strain/", Prefix: "A", Suffixes: []string{"Upper"}},
			[]string{filepath.Join("data", "strain", "A_Upper.txt")},
		},
		{
			"no suffix",
			Group{Dir: "data", Prefix: "0_Lower"},
			[]string{filepath.Join("data", "0_Lower.txt")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, tt.group.Paths()); diff != "" {
				t.Errorf("Paths() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssembleAllPresent(t *testing.T) {
	dir := t.TempDir()
	tracetest.Write(t, dir, "A_Upper.txt", tracetest.Ramp(2.0, 0.01, 20, linear))
	tracetest.Write(t, dir, "A_Lower.txt", tracetest.Fixture{
		Gage: true,
		Rows: tracetest.Ramp(2.0, 0.01, 10, linear).Rows,
	})

	ds := Assemble(dir, "A", []string{"Upper", "Lower"})

	require.False(t, ds.Empty())
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"Upper", "Lower"}, ds.Suffixes())
	assert.Empty(t, ds.Missing())

	lower, err := ds.At(1)
	require.NoError(t, err)
	assert.Equal(t, 10, lower.NumRows())
	assert.Equal(t, []string{"Length (m)", "Spectral Shift (GHz)"}, lower.Names(), "artifact column should be stripped")
}

func TestAssembleDropsFailedLoads(t *testing.T) {
	dir := t.TempDir()
	tracetest.Write(t, dir, "A_Upper.txt", tracetest.Ramp(2.0, 0.01, 20, linear))

	core, logs := observer.New(zapcore.WarnLevel)
	asm := NewAssembler(WithLogger(zap.New(core)))

	ds := asm.Assemble(Group{Dir: dir, Prefix: "A", Suffixes: []string{"Upper", "Lower"}})

	require.Equal(t, 1, ds.Len())
	assert.Equal(t, []string{"Upper"}, ds.Suffixes())
	assert.Equal(t, []string{"Lower"}, ds.Missing())
	assert.ErrorIs(t, ds.Err("Lower"), trace.ErrFileAccess)
	assert.NoError(t, ds.Err("Upper"))

	// The index shift: position 1 does not exist, the Lower table is absent by name.
	_, err := ds.At(1)
	assert.ErrorIs(t, err, ErrMissingDimension)

	_, ok := ds.Table("Lower")
	assert.False(t, ok)

	_, err = ds.Lookup("Lower")
	assert.ErrorIs(t, err, ErrMissingDimension)
	assert.ErrorIs(t, err, trace.ErrFileAccess)

	upper, ok := ds.Table("Upper")
	require.True(t, ok)
	at0, err := ds.At(0)
	require.NoError(t, err)
	assert.Same(t, upper, at0)

	entries := logs.FilterMessage("Skipping trace file").All()
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(dir, "A_Lower.txt"), entries[0].ContextMap()["path"])
	assert.Equal(t, "Lower", entries[0].ContextMap()["suffix"])
}

func TestAssembleEmpty(t *testing.T) {
	dir := t.TempDir()
	tracetest.WriteRaw(t, dir, "A_Upper.txt", "too short\n")

	core, logs := observer.New(zapcore.WarnLevel)
	ds := NewAssembler(WithLogger(zap.New(core))).Assemble(Group{Dir: dir, Prefix: "A", Suffixes: []string{"Upper", "Lower"}})

	assert.True(t, ds.Empty())
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, []string{"Upper", "Lower"}, ds.Missing())
	assert.ErrorIs(t, ds.Err("Upper"), trace.ErrShortHeader)

	_, err := ds.At(0)
	assert.True(t, errors.Is(err, ErrEmptyDataset))
	_, err = ds.Lookup("Upper")
	assert.ErrorIs(t, err, ErrEmptyDataset)

	assert.Equal(t, 1, logs.FilterMessage("No trace file loaded").Len())
	assert.Equal(t, 2, logs.FilterMessage("Skipping trace file").Len())
}

func TestAssembleBareFile(t *testing.T) {
	dir := t.TempDir()
	tracetest.Write(t, dir, "5_Lower.txt", tracetest.Ramp(0, 0.5, 5, linear))

	ds := Assemble(dir, "5_Lower", nil)

	require.Equal(t, 1, ds.Len())
	table, ok := ds.Table("")
	require.True(t, ok)
	assert.Equal(t, 5, table.NumRows())
}

func TestAssembleKeepsArtifactsWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	tracetest.Write(t, dir, "A_Upper.txt", tracetest.Ramp(0, 1, 3, linear))

	ds := NewAssembler(WithArtifactPrefix("")).Assemble(Group{Dir: dir, Prefix: "A", Suffixes: []string{"Upper"}})

	table, err := ds.At(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Length (m)", "Spectral Shift (GHz)", "Unnamed: 2"}, table.Names())
}

func TestAssembleExplicitSkip(t *testing.T) {
	dir := t.TempDir()
	tracetest.WriteRaw(t, dir, "dist.txt", "a\nb\nx\ty\n1\t2\n")

	opts := trace.DefaultLoadOptions()
	opts.SkipRows = 2
	ds := NewAssembler(WithLoadOptions(opts)).Assemble(Group{Dir: dir, Prefix: "dist"})

	require.Equal(t, 1, ds.Len())
	tables := ds.Tables()
	assert.Equal(t, []string{"x", "y"}, tables[0].Names())
}

func TestNilDataset(t *testing.T) {
	var ds *Dataset
	assert.True(t, ds.Empty())

	_, ok := ds.Table("Upper")
	assert.False(t, ok)

	_, err := ds.At(0)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}
