package microbmp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaneBitPackingRoundTrip(t *testing.T) {
	// Every valid value must read back unchanged at every coordinate, for
	// every indexed depth.
	for _, depth := range []int{1, 2, 4, 8} {
		t.Run(fmt.Sprintf("depth_%d", depth), func(t *testing.T) {
			p := newPlane(5, 3, depth)
			maxVal := uint8(1<<uint(depth) - 1)

			for y := 0; y < 3; y++ {
				for x := 0; x < 5; x++ {
					v := uint8((x + y*5) % (int(maxVal) + 1))
					require.NoError(t, p.setIndex(x, y, v))
					got, err := p.index(x, y)
					require.NoError(t, err)
					require.Equal(t, v, got, "pixel (%d,%d)", x, y)
				}
			}
		})
	}
}

func TestPlaneSetIndexPreservesNeighbors(t *testing.T) {
	// Pixels packed into the same byte must not disturb each other.
	p := newPlane(8, 1, 1)
	for x := 0; x < 8; x++ {
		require.NoError(t, p.setIndex(x, 0, 1))
	}
	require.NoError(t, p.setIndex(3, 0, 0))

	for x := 0; x < 8; x++ {
		v, err := p.index(x, 0)
		require.NoError(t, err)
		if x == 3 {
			assert.Equal(t, uint8(0), v)
		} else {
			assert.Equal(t, uint8(1), v, "neighbor %d was disturbed", x)
		}
	}
}

func TestPlaneHLSBBitOrder(t *testing.T) {
	// The first pixel of a byte occupies its highest-order bits.
	p := newPlane(8, 1, 1)
	require.NoError(t, p.setIndex(0, 0, 1))
	assert.Equal(t, byte(0x80), p.pix[0])

	p4 := newPlane(2, 1, 4)
	require.NoError(t, p4.setIndex(0, 0, 0xA))
	require.NoError(t, p4.setIndex(1, 0, 0x5))
	assert.Equal(t, byte(0xA5), p4.pix[0])

	p2 := newPlane(4, 1, 2)
	require.NoError(t, p2.setIndex(0, 0, 3))
	require.NoError(t, p2.setIndex(3, 0, 1))
	assert.Equal(t, byte(0xC1), p2.pix[0])
}

func TestPlaneRGBWireOrder(t *testing.T) {
	// 24-bit pixels are stored B,G,R on the wire but exposed as R,G,B.
	p := newPlane(2, 1, 24)
	require.NoError(t, p.setRGB(0, 0, 1, 2, 3))
	assert.Equal(t, []byte{3, 2, 1}, p.pix[0:3])

	r, g, b, err := p.rgb(0, 0)
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})
}

func TestPlaneChannelIsolation(t *testing.T) {
	p := newPlane(2, 2, 24)
	require.NoError(t, p.setRGB(1, 1, 10, 20, 30))

	require.NoError(t, p.setChannel(1, 1, 1, 99))

	r, g, b, err := p.rgb(1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(10), r)
	assert.Equal(t, uint8(99), g)
	assert.Equal(t, uint8(30), b)

	for c, want := range []uint8{10, 99, 30} {
		v, err := p.channel(1, 1, c)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestPlaneRangeErrors(t *testing.T) {
	p := newPlane(2, 2, 4)
	rgb := newPlane(2, 2, 24)

	var rerr RangeError

	_, err := p.index(2, 0)
	require.ErrorAs(t, err, &rerr)
	_, err = p.index(0, -1)
	require.ErrorAs(t, err, &rerr)
	require.ErrorAs(t, p.setIndex(-1, 0, 0), &rerr)
	require.ErrorAs(t, p.setIndex(0, 2, 0), &rerr)

	// Value exceeding 2^depth-1.
	require.ErrorAs(t, p.setIndex(0, 0, 16), &rerr)

	// Channel outside {0,1,2}.
	_, err = rgb.channel(0, 0, 3)
	require.ErrorAs(t, err, &rerr)
	require.ErrorAs(t, rgb.setChannel(0, 0, -1, 0), &rerr)
	require.ErrorAs(t, rgb.setRGB(0, 5, 0, 0, 0), &rerr)
}

func TestGrayPaletteDefaults(t *testing.T) {
	p := grayPalette(1)
	require.Len(t, p, 2)
	assert.Equal(t, Color{0, 0, 0}, p[0])
	assert.Equal(t, Color{255, 255, 255}, p[1])

	p = grayPalette(8)
	require.Len(t, p, 256)
	assert.Equal(t, Color{0, 0, 0}, p[0])
	assert.Equal(t, Color{128, 128, 128}, p[128])
	assert.Equal(t, Color{255, 255, 255}, p[255])
}

func TestPaletteQuadRoundTrip(t *testing.T) {
	p := Palette{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}}

	quads := p.appendQuads(nil)
	require.Equal(t, []byte{3, 2, 1, 0, 6, 5, 4, 0}, quads, "on-disk order is B,G,R,reserved")

	back := paletteFromQuads(quads, 2)
	assert.Equal(t, p, back)
}
