package microbmp

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

// Encoded output must be readable by an independent BMP implementation.
// golang.org/x/image/bmp supports 8-bit and 24-bit BITMAPINFOHEADER files,
// exactly what we emit for those depths.
func TestEncodedOutputReadableByXImage(t *testing.T) {
	t.Run("24-bit", func(t *testing.T) {
		img, err := New(3, 2, 24)
		require.NoError(t, err)
		for y := 0; y < 2; y++ {
			for x := 0; x < 3; x++ {
				require.NoError(t, img.SetPixelRGB(x, y, uint8(x*80), uint8(y*100), uint8(x*y)))
			}
		}

		data, err := img.Encode()
		require.NoError(t, err)
		theirs, err := bmp.Decode(bytes.NewReader(data))
		require.NoError(t, err)

		for y := 0; y < 2; y++ {
			for x := 0; x < 3; x++ {
				r, g, b, errPix := img.PixelRGB(x, y)
				require.NoError(t, errPix)
				tr, tg, tb, _ := theirs.At(x, y).RGBA()
				assert.Equal(t, uint32(r)*0x101, tr, "red at (%d,%d)", x, y)
				assert.Equal(t, uint32(g)*0x101, tg, "green at (%d,%d)", x, y)
				assert.Equal(t, uint32(b)*0x101, tb, "blue at (%d,%d)", x, y)
			}
		}
	})

	t.Run("8-bit", func(t *testing.T) {
		img, err := New(5, 3, 8)
		require.NoError(t, err)
		for y := 0; y < 3; y++ {
			for x := 0; x < 5; x++ {
				require.NoError(t, img.SetPixelIndex(x, y, uint8(x*50+y)))
			}
		}

		data, err := img.Encode()
		require.NoError(t, err)
		theirs, err := bmp.Decode(bytes.NewReader(data))
		require.NoError(t, err)

		pal := img.Palette()
		for y := 0; y < 3; y++ {
			for x := 0; x < 5; x++ {
				v, errPix := img.PixelIndex(x, y)
				require.NoError(t, errPix)
				want := color.NRGBA{R: pal[v].R, G: pal[v].G, B: pal[v].B, A: 255}
				got := color.NRGBAModel.Convert(theirs.At(x, y)).(color.NRGBA)
				assert.Equal(t, want, got, "pixel (%d,%d)", x, y)
			}
		}
	})
}

func TestToImage(t *testing.T) {
	rgb, err := New(2, 2, 24)
	require.NoError(t, err)
	require.NoError(t, rgb.SetPixelRGB(1, 0, 10, 20, 30))

	std := rgb.ToImage()
	got := color.NRGBAModel.Convert(std.At(1, 0)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, got)

	mono, err := New(2, 1, 1)
	require.NoError(t, err)
	require.NoError(t, mono.SetPixelIndex(1, 0, 1))

	std = mono.ToImage()
	got = color.NRGBAModel.Convert(std.At(1, 0)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, got)
}

func TestRGBABuffer(t *testing.T) {
	img, err := New(2, 1, 1)
	require.NoError(t, err)
	require.NoError(t, img.SetPixelIndex(0, 0, 1))

	assert.Equal(t, []byte{
		255, 255, 255, 255,
		0, 0, 0, 255,
	}, img.RGBA())
}
