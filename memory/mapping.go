package memory

import (
	"github.com/cockroachdb/errors"
	"github.com/sgr-gralloc/sgralloc/internal/utils"
)

// Mapping reference-counts the CPU mapping of one region so that nested Map/Unmap pairs share a
// single underlying mapping. Implementations of Memory embed it and supply the map and unmap
// functions of their backend.
type Mapping struct {
	mapReferences int
	mapData       []byte

	mapMutex utils.OptionalRWMutex
}

func (m *Mapping) Init(useMutex bool) {
	m.mapMutex.UseMutex = useMutex
}

func (m *Mapping) References() int {
	m.mapMutex.RLock()
	defer m.mapMutex.RUnlock()

	return m.mapReferences
}

// Map returns the existing mapping or creates one with mapFunc
func (m *Mapping) Map(mapFunc func() ([]byte, error)) ([]byte, error) {
	m.mapMutex.Lock()
	defer m.mapMutex.Unlock()

	if m.mapReferences > 0 {
		if m.mapData == nil {
			return nil, errors.New("the region is showing existing mapping references, but no mapped memory")
		}
		m.mapReferences++
		return m.mapData, nil
	}

	data, err := mapFunc()
	if err != nil {
		return nil, err
	}

	m.mapData = data
	m.mapReferences = 1
	return data, nil
}

// Unmap drops one reference and calls unmapFunc when the last one is gone
func (m *Mapping) Unmap(unmapFunc func([]byte) error) error {
	m.mapMutex.Lock()
	defer m.mapMutex.Unlock()

	if m.mapReferences == 0 {
		return errors.New("the region is being unmapped more times than it was mapped")
	}

	m.mapReferences--
	if m.mapReferences > 0 {
		return nil
	}

	data := m.mapData
	m.mapData = nil
	return unmapFunc(data)
}

// Release drops every outstanding reference, for use when the region is closed while still mapped
func (m *Mapping) Release(unmapFunc func([]byte) error) error {
	m.mapMutex.Lock()
	defer m.mapMutex.Unlock()

	if m.mapReferences == 0 {
		return nil
	}

	data := m.mapData
	m.mapReferences = 0
	m.mapData = nil
	return unmapFunc(data)
}
