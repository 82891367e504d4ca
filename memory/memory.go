// Package memory defines the boundary between the buffer allocator and whatever provides the
// backing memory. Each region the allocator asks for is a separate shareable object, normally a
// file descriptor that other processes can map.
package memory

//go:generate mockgen -source memory.go -destination ./mocks/memory.go -package mocks

import "github.com/cockroachdb/errors"

// RegionKind says what a region will hold
type RegionKind int32

var regionKindMapping = make(map[RegionKind]string)

func (k RegionKind) Register(str string) {
	regionKindMapping[k] = str
}

func (k RegionKind) String() string {
	return regionKindMapping[k]
}

const (
	RegionKindData RegionKind = iota
	RegionKindMetadata
)

func init() {
	RegionKindData.Register("Data")
	RegionKindMetadata.Register("Metadata")
}

// AllocRequest describes one region
type AllocRequest struct {
	BufferID uint64
	// Name is the descriptor name, used for debugging only
	Name string
	Kind RegionKind
	// Index is the allocation index within the buffer; metadata regions use 0
	Index     int
	Size      uint64
	Alignment uint64
}

func (r AllocRequest) Validate() error {
	if r.Size == 0 {
		return errors.Newf("region %d of buffer %#x has zero size", r.Index, r.BufferID)
	}
	if r.Alignment == 0 || r.Alignment&(r.Alignment-1) != 0 {
		return errors.Newf("region %d of buffer %#x has alignment %d, which is not a power of two", r.Index, r.BufferID, r.Alignment)
	}
	return nil
}

// Memory is one allocated region
type Memory interface {
	// FD is the shareable handle of the region, or -1 when the region cannot be shared
	FD() int
	Size() uint64
	// Map returns a CPU view of the whole region. Every successful Map must be paired with an Unmap.
	Map() ([]byte, error)
	Unmap() error
	// Close releases the region. The region must not be used afterward.
	Close() error
}

// Manager hands out regions. Alloc may block and may fail; a failure leaves nothing allocated.
type Manager interface {
	Alloc(request AllocRequest) (Memory, error)
}
