package microbmp

// Color is one palette entry, in the R, G, B order exposed to callers.
// BMP files store entries as B, G, R, reserved quads; the conversion happens
// at the serialization boundary only.
type Color struct {
	R, G, B uint8
}

// Palette is the ordered color table of an indexed image. A pixel's stored
// value is its index into this slice. It is nil for 24-bit images, so
// "no palette" is distinguishable from an empty one.
type Palette []Color

// grayPalette builds the default palette for a fresh indexed image: a full
// grayscale ramp from black to white. For depth 1 this yields exactly
// {black, white}.
func grayPalette(depth int) Palette {
	n := 1 << uint(depth)
	p := make(Palette, n)
	for i := range p {
		s := uint8(255 * i / (n - 1))
		p[i] = Color{s, s, s}
	}
	return p
}

// paletteFromQuads decodes on-disk B,G,R,reserved quads. The caller is
// responsible for slicing data to entries*4 bytes.
func paletteFromQuads(data []byte, entries int) Palette {
	p := make(Palette, entries)
	for i := 0; i < entries; i++ {
		p[i] = Color{
			R: data[i*4+2],
			G: data[i*4+1],
			B: data[i*4],
		}
	}
	return p
}

// appendQuads appends the palette in on-disk B,G,R,reserved order.
func (p Palette) appendQuads(dst []byte) []byte {
	for _, c := range p {
		dst = append(dst, c.B, c.G, c.R, 0)
	}
	return dst
}
