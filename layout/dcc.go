package layout

import (
	"github.com/cockroachdb/errors"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/memutils"
)

const (
	dccTileSize    uint64 = 64 * 1024
	dccKeyTileSize uint64 = 4 * 1024
	// dccSVKPadding holds the SVK metadata that follows the key region
	dccSVKPadding uint64 = 512
	dccAlignment         = dccTileSize
)

// Block extents in pixels covered by one 64KB data tile, by bytes per pixel
var dccDataBlocks = map[int]Extent{
	1:  {Width: 256, Height: 256},
	2:  {Width: 256, Height: 128},
	4:  {Width: 128, Height: 128},
	8:  {Width: 128, Height: 64},
	16: {Width: 64, Height: 64},
}

// Block extents in pixels covered by one 4KB key tile, by bytes per pixel. A key tile covers 4x4
// data tiles.
var dccKeyBlocks = map[int]Extent{
	1:  {Width: 1024, Height: 1024},
	2:  {Width: 1024, Height: 512},
	4:  {Width: 512, Height: 512},
	8:  {Width: 512, Height: 256},
	16: {Width: 256, Height: 256},
}

func blockCount(extent Extent, block Extent) (uint64, uint64) {
	return memutils.DivRoundUp(uint64(extent.Width), uint64(block.Width)),
		memutils.DivRoundUp(uint64(extent.Height), uint64(block.Height))
}

// DCCDataSize is the size of the compressed data region of one layer
func DCCDataSize(bytesPerPixel int, extent Extent) (uint64, error) {
	block, ok := dccDataBlocks[bytesPerPixel]
	if !ok {
		return 0, errors.AssertionFailedf("no DCC data block extent for %d bytes per pixel", bytesPerPixel)
	}
	blocksWide, blocksHigh := blockCount(extent, block)
	return blocksWide * blocksHigh * dccTileSize, nil
}

// DCCKeySize is the size of the compression key region of one layer
func DCCKeySize(bytesPerPixel int, extent Extent) (uint64, error) {
	block, ok := dccKeyBlocks[bytesPerPixel]
	if !ok {
		return 0, errors.AssertionFailedf("no DCC key block extent for %d bytes per pixel", bytesPerPixel)
	}
	blocksWide, blocksHigh := blockCount(extent, block)
	return blocksWide * blocksHigh * dccKeyTileSize, nil
}

func (m *Manager) dcc(info format.FormatInfo, req Request) (*Info, error) {
	bytesPerPixel := info.BytesPerPixel()
	layers := uint64(req.LayerCount)

	dataSize, err := DCCDataSize(bytesPerPixel, req.Extent)
	if err != nil {
		return nil, errors.Wrapf(err, "format %s", info.Format)
	}
	keySize, err := DCCKeySize(bytesPerPixel, req.Extent)
	if err != nil {
		return nil, errors.Wrapf(err, "format %s", info.Format)
	}
	dataSize *= layers
	keySize *= layers

	size := dataSize + keySize
	if m.cfg.DCCDoubleSize {
		size *= 2
	} else {
		size += dccSVKPadding
	}

	block := dccDataBlocks[bytesPerPixel]
	blocksWide, blocksHigh := blockCount(req.Extent, block)

	result := &Info{}
	_, err = result.AppendAlloc(Alloc{
		Alignment: dccAlignment,
		Size:      size,
		Data:      Region{Size: dataSize},
		Key:       Region{Offset: dataSize, Size: keySize},
	})
	if err != nil {
		return nil, err
	}

	// Tiles are not addressed by rows, so the plane has no stride
	err = result.AppendPlane(PlaneLayout{
		Components:            PlaneComponents(info, 0),
		WidthInSamples:        blocksWide * uint64(block.Width),
		HeightInSamples:       blocksHigh * uint64(block.Height),
		TotalSizeInBytes:      dataSize,
		HorizontalSubsampling: 1,
		VerticalSubsampling:   1,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
