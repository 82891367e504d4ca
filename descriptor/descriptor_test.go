package descriptor

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/memutils"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	desc := BufferDescriptor{
		Name:         "SurfaceView[com.example]#0",
		Width:        1920,
		Height:       1080,
		LayerCount:   1,
		Format:       format.PixelFormatYCbCr420SPNSBWC,
		Usage:        format.UsageVideoDecoder | format.UsageComposerOverlay | format.UsageDownscale,
		ReservedSize: 4096,
	}

	data, err := desc.Encode()
	require.NoError(t, err)
	require.Len(t, data, headerSize+len(desc.Name))

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, desc, decoded)
}

var badDescriptorCases = map[string]func(valid []byte) []byte{
	"Empty":     func(valid []byte) []byte { return nil },
	"Truncated": func(valid []byte) []byte { return valid[:headerSize-1] },
	"Trailing Garbage": func(valid []byte) []byte {
		return append(append([]byte{}, valid...), 'x')
	},
	"Wrong Version": func(valid []byte) []byte {
		corrupt := append([]byte{}, valid...)
		corrupt[0] = 9
		return corrupt
	},
}

func TestDecodeBadDescriptor(t *testing.T) {
	desc := BufferDescriptor{Name: "bad", Width: 1, Height: 1, LayerCount: 1, Format: format.PixelFormatRGBA8888}
	valid, err := desc.Encode()
	require.NoError(t, err)

	for testName, corrupt := range badDescriptorCases {
		t.Run(testName, func(t *testing.T) {
			_, err := Decode(corrupt(valid))
			require.Error(t, err)
			require.True(t, errors.Is(err, memutils.ErrBadDescriptor))
		})
	}
}

func TestValidate(t *testing.T) {
	desc := BufferDescriptor{Width: 64, Height: 64, LayerCount: 1, Format: format.PixelFormatRGBA8888}
	require.NoError(t, desc.Validate())
	require.Equal(t, uint64(4096), desc.Area())

	desc.LayerCount = 0
	require.True(t, errors.Is(desc.Validate(), memutils.ErrBadValue))

	desc.LayerCount = 1
	desc.Height = 0
	require.True(t, errors.Is(desc.Validate(), memutils.ErrBadValue))

	desc.Height = 64
	desc.Name = string(make([]byte, MaxNameLength+1))
	require.True(t, errors.Is(desc.Validate(), memutils.ErrBadValue))
	_, err := desc.Encode()
	require.True(t, errors.Is(err, memutils.ErrBadDescriptor))
}
