package microbmp

import "fmt"

// plane is one raster of packed pixel data. Rows are stored top-down at the
// unpadded stride regardless of the on-disk row order; 4-byte scanline
// padding is applied only when serializing and stripped when decoding.
//
// For depths 1/2/4/8 each pixel is a depth-bit palette index packed
// most-significant-bits-first within each byte, so the first pixel of a byte
// occupies its highest-order bits. For depth 24 each pixel is three
// contiguous bytes kept in the on-disk B,G,R order; accessors reorder to
// R,G,B.
type plane struct {
	width, height int
	depth         int
	stride        int // unpadded bytes per row
	pix           []byte
}

func newPlane(width, height, depth int) plane {
	stride := rowStride(width, depth)
	return plane{
		width:  width,
		height: height,
		depth:  depth,
		stride: stride,
		pix:    make([]byte, stride*height),
	}
}

func (p *plane) inBounds(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

// index returns the packed palette index at (x, y). Valid for depths <= 8.
func (p *plane) index(x, y int) (uint8, error) {
	if !p.inBounds(x, y) {
		return 0, RangeError(fmt.Sprintf("pixel (%d,%d) outside %dx%d", x, y, p.width, p.height))
	}
	ppb := 8 / p.depth
	b := p.pix[y*p.stride+x/ppb]
	shift := uint(8 - p.depth*(x%ppb+1))
	mask := byte(0xFF >> uint(8-p.depth))
	return (b >> shift) & mask, nil
}

// setIndex stores a packed palette index at (x, y) without disturbing the
// neighboring pixels sharing the same byte. Valid for depths <= 8.
func (p *plane) setIndex(x, y int, v uint8) error {
	if !p.inBounds(x, y) {
		return RangeError(fmt.Sprintf("pixel (%d,%d) outside %dx%d", x, y, p.width, p.height))
	}
	mask := byte(0xFF >> uint(8-p.depth))
	if v > mask {
		return RangeError(fmt.Sprintf("index %d exceeds %d-bit depth", v, p.depth))
	}
	ppb := 8 / p.depth
	i := y*p.stride + x/ppb
	shift := uint(8 - p.depth*(x%ppb+1))
	p.pix[i] = p.pix[i]&^(mask<<shift) | v<<shift
	return nil
}

// rgb returns the R, G, B bytes of a 24-bit pixel.
func (p *plane) rgb(x, y int) (r, g, b uint8, err error) {
	if !p.inBounds(x, y) {
		return 0, 0, 0, RangeError(fmt.Sprintf("pixel (%d,%d) outside %dx%d", x, y, p.width, p.height))
	}
	i := y*p.stride + x*3
	return p.pix[i+2], p.pix[i+1], p.pix[i], nil
}

func (p *plane) setRGB(x, y int, r, g, b uint8) error {
	if !p.inBounds(x, y) {
		return RangeError(fmt.Sprintf("pixel (%d,%d) outside %dx%d", x, y, p.width, p.height))
	}
	i := y*p.stride + x*3
	p.pix[i] = b
	p.pix[i+1] = g
	p.pix[i+2] = r
	return nil
}

// channel reads one channel of a 24-bit pixel; c is 0=R, 1=G, 2=B.
func (p *plane) channel(x, y, c int) (uint8, error) {
	if c < 0 || c > 2 {
		return 0, RangeError(fmt.Sprintf("channel %d not in [0,2]", c))
	}
	if !p.inBounds(x, y) {
		return 0, RangeError(fmt.Sprintf("pixel (%d,%d) outside %dx%d", x, y, p.width, p.height))
	}
	return p.pix[y*p.stride+x*3+2-c], nil
}

func (p *plane) setChannel(x, y, c int, v uint8) error {
	if c < 0 || c > 2 {
		return RangeError(fmt.Sprintf("channel %d not in [0,2]", c))
	}
	if !p.inBounds(x, y) {
		return RangeError(fmt.Sprintf("pixel (%d,%d) outside %dx%d", x, y, p.width, p.height))
	}
	p.pix[y*p.stride+x*3+2-c] = v
	return nil
}

// row returns the packed bytes of one logical (top-down) row.
func (p *plane) row(y int) []byte {
	return p.pix[y*p.stride : y*p.stride+p.stride]
}
