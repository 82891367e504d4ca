package allocator

import "github.com/sgr-gralloc/sgralloc/memory"

type AllocateMemoryCallback func(
	allocator *Allocator,
	bufferID uint64,
	kind memory.RegionKind,
	region memory.Memory,
	size uint64,
	userData interface{},
)

type FreeMemoryCallback func(
	allocator *Allocator,
	bufferID uint64,
	kind memory.RegionKind,
	region memory.Memory,
	size uint64,
	userData interface{},
)

type MemoryCallbackOptions struct {
	Allocate AllocateMemoryCallback
	Free     FreeMemoryCallback
	UserData interface{}
}

type memoryCallbacks struct {
	Callbacks *MemoryCallbackOptions
	Allocator *Allocator
}

func (c *memoryCallbacks) Allocate(
	bufferID uint64,
	kind memory.RegionKind,
	region memory.Memory,
	size uint64,
) {
	if c.Callbacks != nil && c.Callbacks.Allocate != nil {
		c.Callbacks.Allocate(c.Allocator, bufferID, kind, region, size, c.Callbacks.UserData)
	}
}

func (c *memoryCallbacks) Free(
	bufferID uint64,
	kind memory.RegionKind,
	region memory.Memory,
	size uint64,
) {
	if c.Callbacks != nil && c.Callbacks.Free != nil {
		c.Callbacks.Free(c.Allocator, bufferID, kind, region, size, c.Callbacks.UserData)
	}
}
