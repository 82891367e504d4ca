package memory

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestMappingSharesOneMapping(t *testing.T) {
	var mapping Mapping
	mapping.Init(true)
	backing := make([]byte, 16)
	mapCalls, unmapCalls := 0, 0

	mapFunc := func() ([]byte, error) {
		mapCalls++
		return backing, nil
	}
	unmapFunc := func(data []byte) error {
		unmapCalls++
		require.Len(t, data, 16)
		return nil
	}

	first, err := mapping.Map(mapFunc)
	require.NoError(t, err)
	second, err := mapping.Map(mapFunc)
	require.NoError(t, err)
	require.Equal(t, 1, mapCalls)
	require.Equal(t, 2, mapping.References())

	first[0] = 7
	require.Equal(t, byte(7), second[0])

	require.NoError(t, mapping.Unmap(unmapFunc))
	require.Equal(t, 0, unmapCalls)
	require.NoError(t, mapping.Unmap(unmapFunc))
	require.Equal(t, 1, unmapCalls)

	require.Error(t, mapping.Unmap(unmapFunc))
}

func TestMappingFailure(t *testing.T) {
	var mapping Mapping
	mapping.Init(false)
	_, err := mapping.Map(func() ([]byte, error) {
		return nil, errors.New("mmap failed")
	})
	require.Error(t, err)
	require.Equal(t, 0, mapping.References())
}

func TestMappingRelease(t *testing.T) {
	var mapping Mapping
	mapping.Init(true)
	_, err := mapping.Map(func() ([]byte, error) { return make([]byte, 4), nil })
	require.NoError(t, err)
	_, err = mapping.Map(func() ([]byte, error) { return nil, errors.New("unexpected") })
	require.NoError(t, err)

	released := false
	require.NoError(t, mapping.Release(func([]byte) error {
		released = true
		return nil
	}))
	require.True(t, released)
	require.Equal(t, 0, mapping.References())
	require.NoError(t, mapping.Release(func([]byte) error { return errors.New("unexpected") }))
}

func TestAllocRequestValidate(t *testing.T) {
	require.NoError(t, AllocRequest{Size: 1, Alignment: 4096}.Validate())
	require.Error(t, AllocRequest{Size: 0, Alignment: 4096}.Validate())
	require.Error(t, AllocRequest{Size: 1, Alignment: 48}.Validate())
	require.Equal(t, "Metadata", RegionKindMetadata.String())
}
