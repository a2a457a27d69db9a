package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func TestSubdirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "loop2/0me_Upper.txt", "loop1/0me_Upper.txt", "notes.txt")

	dirs, err := Subdirectories(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "loop1"), filepath.Join(root, "loop2")}, dirs)
}

func TestSubdirectoriesFlat(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "0me_Upper.txt")

	dirs, err := Subdirectories(root)
	require.NoError(t, err)
	assert.Equal(t, []string{root}, dirs)
}

func TestSubdirectoriesMissing(t *testing.T) {
	dirs, err := Subdirectories(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, ErrDiscovery)
	assert.Nil(t, dirs)
}

func TestFilePrefixes(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"10me_Upper.txt", "10me_Lower.txt",
		"20me_Upper.txt", "20me_Lower.txt",
		"5me_Upper.txt", "5me_Lower.txt",
		"ref_Upper.txt",
		"characterization.csv",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	tests := []struct {
		name     string
		opts     *PrefixOptions
		expected []string
	}{
		{"default", nil, []string{"10me", "20me", "5me", "ref"}},
		{"numeric only", &PrefixOptions{NumericOnly: true}, []string{"10me", "20me", "5me"}},
		{
			"ordered",
			&PrefixOptions{Order: []string{"5me", "10me", "20me", "99me"}},
			[]string{"5me", "10me", "20me"},
		},
		{
			"whole name",
			&PrefixOptions{WholeName: true, NumericOnly: true, Order: []string{"5me_Lower", "10me_Lower"}},
			[]string{"5me_Lower", "10me_Lower"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilePrefixes(dir, tt.opts)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("FilePrefixes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilePrefixesMissingDir(t *testing.T) {
	_, err := FilePrefixes(filepath.Join(t.TempDir(), "absent"), nil)
	assert.ErrorIs(t, err, ErrDiscovery)
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name       string
		discovered []string
		order      []string
		expected   []string
	}{
		{
			"skip missing token",
			[]string{"10me", "20me", "5me"},
			[]string{"5me", "10me", "20me", "99me"},
			[]string{"5me", "10me", "20me"},
		},
		{
			"drop unlisted",
			[]string{"00me", "05me", "10me", "ref"},
			[]string{"10me", "00me"},
			[]string{"10me", "00me"},
		},
		{
			"repeated token",
			[]string{"a", "b"},
			[]string{"b", "a", "b"},
			[]string{"b", "a"},
		},
		{"empty order", []string{"a"}, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discovered := append([]string(nil), tt.discovered...)
			got := Reorder(discovered, tt.order)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Reorder() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.discovered, discovered, "Reorder must not modify its input")
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		prefix   string
		unit     string
		expected float64
	}{
		{"10me", "me", 10},
		{"05me", "me", 5},
		{"2.5me", "me", 2.5},
		{"30C", "C", 30},
		{"45_Lower", "", 45},
		{"-20deg", "", -20},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := ParseLevel(tt.prefix, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	for _, bad := range []struct{ prefix, unit string }{{"ref", "me"}, {"me", "me"}, {"ref", ""}} {
		_, err := ParseLevel(bad.prefix, bad.unit)
		assert.ErrorIs(t, err, ErrNoLevel, "prefix %q", bad.prefix)
	}
}
