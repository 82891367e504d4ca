package layout

import (
	"github.com/cockroachdb/errors"
	"github.com/sgr-gralloc/sgralloc/config"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/ip"
	"github.com/sgr-gralloc/sgralloc/memutils"
)

// pageSize is the allocation alignment of the linear and SBWC layouts
const pageSize uint64 = 4096

// Request carries everything a layout computation depends on
type Request struct {
	Format     format.PixelFormat
	Layout     format.FormatLayout
	Usage      format.Usage
	IPFlags    ip.Flags
	LayerCount uint32
	Extent     Extent
}

// Manager computes layouts. It holds no state besides the configuration, so a single Manager can
// serve concurrent callers.
type Manager struct {
	cfg config.Config
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{cfg: cfg}
}

// Supports reports whether a layout manager claims the format
func Supports(f format.PixelFormat, layout format.FormatLayout) bool {
	info, ok := format.Lookup(f)
	if !ok {
		return false
	}

	switch layout {
	case format.FormatLayoutLinear:
		return !info.IsSBWC()
	case format.FormatLayoutDCC:
		return info.DCC
	case format.FormatLayoutSBWC:
		return info.IsSBWC()
	default:
		return false
	}
}

// Compute dispatches the request to the layout manager for its layout. A format the chosen layout
// does not claim is ErrUnsupported; a format the layout claims but cannot size is an assertion
// failure, since that means the format table and the layout manager disagree.
func (m *Manager) Compute(req Request) (*Info, error) {
	if req.Extent.Width == 0 || req.Extent.Height == 0 {
		return nil, errors.Wrapf(memutils.ErrBadValue, "extent %dx%d is empty", req.Extent.Width, req.Extent.Height)
	}
	if req.LayerCount == 0 {
		return nil, errors.Wrap(memutils.ErrBadValue, "layer count must be at least 1")
	}
	if !Supports(req.Format, req.Layout) {
		return nil, errors.Wrapf(memutils.ErrUnsupported, "no %s layout for format %s", req.Layout, req.Format)
	}

	info, _ := format.Lookup(req.Format)

	var result *Info
	var err error
	switch req.Layout {
	case format.FormatLayoutLinear:
		result, err = m.linear(info, req)
	case format.FormatLayoutDCC:
		result, err = m.dcc(info, req)
	case format.FormatLayoutSBWC:
		result, err = m.sbwc(info, req)
	}
	if err != nil {
		return nil, err
	}

	memutils.DebugValidate(result)
	return result, nil
}
