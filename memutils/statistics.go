package memutils

import "math"

// Statistics summarizes the memory a buffer allocator currently holds
type Statistics struct {
	// BufferCount is the number of live buffers
	BufferCount int
	// RegionCount is the number of memory regions (fds) held for those buffers, metadata regions included
	RegionCount int
	// RegionBytes is the total size of all held regions
	RegionBytes int
	// MetadataBytes is the part of RegionBytes used by metadata regions
	MetadataBytes int
}

func (s *Statistics) Clear() {
	s.BufferCount = 0
	s.RegionCount = 0
	s.RegionBytes = 0
	s.MetadataBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.BufferCount += other.BufferCount
	s.RegionCount += other.RegionCount
	s.RegionBytes += other.RegionBytes
	s.MetadataBytes += other.MetadataBytes
}

type DetailedStatistics struct {
	Statistics
	BufferSizeMin int
	BufferSizeMax int
	RegionSizeMin int
	RegionSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.BufferSizeMin = math.MaxInt
	s.BufferSizeMax = 0
	s.RegionSizeMin = math.MaxInt
	s.RegionSizeMax = 0
}

func (s *DetailedStatistics) AddRegion(size int, metadata bool) {
	s.RegionCount++
	s.RegionBytes += size
	if metadata {
		s.MetadataBytes += size
	}

	if size < s.RegionSizeMin {
		s.RegionSizeMin = size
	}

	if size > s.RegionSizeMax {
		s.RegionSizeMax = size
	}
}

// AddBuffer records one buffer whose regions have already been added with AddRegion
func (s *DetailedStatistics) AddBuffer(size int) {
	s.BufferCount++

	if size < s.BufferSizeMin {
		s.BufferSizeMin = size
	}

	if size > s.BufferSizeMax {
		s.BufferSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)

	if other.BufferSizeMin < s.BufferSizeMin {
		s.BufferSizeMin = other.BufferSizeMin
	}

	if other.BufferSizeMax > s.BufferSizeMax {
		s.BufferSizeMax = other.BufferSizeMax
	}

	if other.RegionSizeMin < s.RegionSizeMin {
		s.RegionSizeMin = other.RegionSizeMin
	}

	if other.RegionSizeMax > s.RegionSizeMax {
		s.RegionSizeMax = other.RegionSizeMax
	}
}
