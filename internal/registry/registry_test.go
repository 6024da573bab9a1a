package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopHandler(ctx context.Context, args Arguments) (string, error) {
	return "ok", nil
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	err := r.Register(Descriptor{Name: "read_file", Handler: nopHandler})
	require.NoError(t, err)

	d, ok := r.Lookup("read_file")
	assert.True(t, ok)
	assert.Equal(t, "read_file", d.Name)

	_, ok = r.Lookup("frobnicate")
	assert.False(t, ok)
}

func TestRegisterDuplicateName(t *testing.T) {
	r := NewRegistry()

	first := Descriptor{Name: "read_file", Description: "first", Handler: nopHandler}
	require.NoError(t, r.Register(first))

	second := Descriptor{Name: "read_file", Description: "second", Handler: nopHandler}
	err := r.Register(second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	// The first descriptor remains resolvable
	d, ok := r.Lookup("read_file")
	require.True(t, ok)
	assert.Equal(t, "first", d.Description)
}

func TestRegisterRejectsInvalidDescriptors(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(Descriptor{Name: "", Handler: nopHandler}))
	assert.Error(t, r.Register(Descriptor{Name: "no_handler"}))
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()

	names := []string{"write_file", "read_file", "edit_file", "list_directory"}
	for _, name := range names {
		require.NoError(t, r.Register(Descriptor{Name: name, Handler: nopHandler}))
	}

	all := r.All()
	require.Len(t, all, len(names))
	for i, d := range all {
		assert.Equal(t, names[i], d.Name)
	}
}

func TestArgumentsGetters(t *testing.T) {
	args := Arguments{
		"path":      "/ws/a.txt",
		"overwrite": true,
		"count":     float64(3),
	}

	assert.Equal(t, "/ws/a.txt", args.String("path"))
	assert.Equal(t, "", args.String("missing"))
	assert.True(t, args.Bool("overwrite", false))
	assert.False(t, args.Bool("missing", false))
	assert.Equal(t, int64(3), args.Int("count", 0))
	assert.Equal(t, int64(7), args.Int("missing", 7))
}
