// Package formatmgr decides how a buffer is stored: it resolves the requested format to a concrete
// one, intersects the layouts every consumer implied by the usage can handle, and computes the
// allocation layout for the winning choice.
package formatmgr

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/sgr-gralloc/sgralloc/config"
	"github.com/sgr-gralloc/sgralloc/descriptor"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/ip"
	"github.com/sgr-gralloc/sgralloc/layout"
	"github.com/sgr-gralloc/sgralloc/memutils"
	"golang.org/x/exp/slog"
)

// Resolved is the storage decision for a descriptor
type Resolved struct {
	Format  format.PixelFormat
	Layout  format.FormatLayout
	IPFlags ip.Flags
}

// Manager is safe for concurrent use; it only reads its configuration and the format table.
type Manager struct {
	logger  *slog.Logger
	cfg     config.Config
	layouts *layout.Manager
}

func New(logger *slog.Logger, cfg config.Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Manager{
		logger:  logger,
		cfg:     cfg,
		layouts: layout.NewManager(cfg),
	}, nil
}

func (m *Manager) Config() config.Config {
	return m.cfg
}

// GetFormat resolves the descriptor's format, intersects the layouts of every consumer its usage
// implies, and picks one layout in DCC > SBWC > Linear order. A nil descriptor is ErrBadDescriptor,
// an unknown format is ErrUnsupported and an empty intersection is ErrBadValue.
func (m *Manager) GetFormat(desc *descriptor.BufferDescriptor) (Resolved, error) {
	if desc == nil {
		return Resolved{}, errors.Wrap(memutils.ErrBadDescriptor, "nil descriptor")
	}
	if err := desc.Validate(); err != nil {
		return Resolved{}, err
	}

	flags := ip.FlagsFromUsage(desc.Usage)
	resolvedFormat := ResolveFlexible(desc.Format, desc.Usage)
	if _, ok := format.Lookup(resolvedFormat); !ok {
		return Resolved{}, errors.Wrapf(memutils.ErrUnsupported, "format %s", desc.Format)
	}

	layouts := format.FormatLayoutMaskAll
	for _, kind := range flags.Kinds() {
		layouts &= ip.NewManager(kind, m.cfg).Layout(resolvedFormat, desc)
	}

	if desc.Usage.HasAny(format.UsageProtected) &&
		desc.Width >= m.cfg.ProtectedDCCLimit && desc.Height >= m.cfg.ProtectedDCCLimit {
		layouts &^= format.FormatLayoutMaskDCC
	}

	if layouts == format.FormatLayoutMaskNone {
		return Resolved{}, errors.Wrapf(memutils.ErrBadValue, "no layout of format %s is usable by %s with usage %s",
			resolvedFormat, flags, desc.Usage)
	}
	memutils.DebugValidate(layouts)

	resolved := Resolved{
		Format:  resolvedFormat,
		Layout:  layouts.Preferred(),
		IPFlags: flags,
	}

	m.logger.Debug("FormatManager::GetFormat",
		slog.String("Requested", desc.Format.String()),
		slog.String("Format", resolved.Format.String()),
		slog.String("Layout", resolved.Layout.String()),
		slog.String("IPFlags", flags.String()),
	)
	return resolved, nil
}

// GetAllocationInfo computes the allocations and planes for a resolved request. When the usage asks
// for a downscaled sub-image, the sub-image's allocations and planes follow the primary ones.
func (m *Manager) GetAllocationInfo(req layout.Request) (*layout.Info, error) {
	info, err := m.layouts.Compute(req)
	if err != nil {
		return nil, err
	}

	if !req.Usage.HasAny(format.UsageDownscale) {
		return info, nil
	}

	subFormat, ok := DownscaleFormat(req.Format)
	if !ok {
		return nil, errors.Wrapf(memutils.ErrUnsupported, "format %s has no downscaled sub-image format", req.Format)
	}

	subLayout := format.FormatLayoutLinear
	if subInfo, _ := format.Lookup(subFormat); subInfo.IsSBWC() {
		subLayout = format.FormatLayoutSBWC
	}

	sub, err := m.layouts.Compute(layout.Request{
		Format:     subFormat,
		Layout:     subLayout,
		Usage:      req.Usage &^ (format.UsageDownscale | format.UsageGPUMipmapComplete),
		IPFlags:    req.IPFlags,
		LayerCount: req.LayerCount,
		Extent:     req.Extent.Half(),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "downscaled sub-image of %s", req.Format)
	}

	if err := info.Append(sub); err != nil {
		return nil, err
	}

	m.logger.Debug("FormatManager::GetAllocationInfo",
		slog.String("Format", req.Format.String()),
		slog.String("SubImageFormat", subFormat.String()),
		slog.Int("AllocCount", info.AllocCount()),
		slog.Int("PlaneCount", info.PlaneCount()),
	)
	return info, nil
}
