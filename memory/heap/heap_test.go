package heap

import (
	"testing"
	"unsafe"

	"github.com/sgr-gralloc/sgralloc/memory"
	"github.com/stretchr/testify/require"
)

func TestAllocMapClose(t *testing.T) {
	manager := New(Options{UseMutex: true})

	region, err := manager.Alloc(memory.AllocRequest{BufferID: 1, Size: 100, Alignment: 4096})
	require.NoError(t, err)
	require.Equal(t, -1, region.FD())
	require.Equal(t, uint64(100), region.Size())
	require.Equal(t, 1, manager.LiveRegions())
	require.Equal(t, uint64(100), manager.LiveBytes())

	data, err := region.Map()
	require.NoError(t, err)
	require.Len(t, data, 100)
	require.Zero(t, uintptr(unsafe.Pointer(&data[0]))%4096)
	require.NoError(t, region.Unmap())

	require.NoError(t, region.Close())
	require.Equal(t, 0, manager.LiveRegions())
	require.Equal(t, uint64(0), manager.LiveBytes())

	require.Error(t, region.Close())
	_, err = region.Map()
	require.Error(t, err)
}

func TestLimit(t *testing.T) {
	manager := New(Options{MaxBytes: 8192})

	first, err := manager.Alloc(memory.AllocRequest{Size: 4096, Alignment: 64})
	require.NoError(t, err)
	_, err = manager.Alloc(memory.AllocRequest{Size: 4097, Alignment: 64})
	require.ErrorIs(t, err, ErrLimitExceeded)
	require.Equal(t, 1, manager.LiveRegions())

	require.NoError(t, first.Close())
	second, err := manager.Alloc(memory.AllocRequest{Size: 8192, Alignment: 64})
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestInvalidRequest(t *testing.T) {
	manager := New(Options{})
	_, err := manager.Alloc(memory.AllocRequest{Size: 16, Alignment: 3})
	require.Error(t, err)
	require.Equal(t, 0, manager.LiveRegions())
}
