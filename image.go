// Package microbmp implements a Windows Bitmap (BMP) image decoder and
// encoder for 1/2/4/8/24-bit color depths. Decoding supports BI_RGB,
// BI_RLE8, and BI_RLE4 pixel data with the classic 40-byte BITMAPINFOHEADER;
// encoding always emits uncompressed BI_RGB.
package microbmp

import (
	"fmt"
	"io"
)

// Image is a decoded BMP image: its header-derived geometry, its palette
// (nil for 24-bit images), and one top-down raster of packed pixels.
//
// Pixel coordinates are always 0-based and top-down, regardless of the row
// order the file was stored in. An Image is a plain value owned by its
// caller; the codec performs no locking.
type Image struct {
	width, height int
	depth         int
	palette       Palette
	plane         plane
}

// New creates a zero-filled image. Indexed depths get the default grayscale
// ramp palette (black and white for depth 1).
func New(width, height, depth int) (*Image, error) {
	if !validDepth(depth) {
		return nil, UnsupportedError(fmt.Sprintf("bit depth %d", depth))
	}
	if width < 1 || height < 1 {
		return nil, RangeError(fmt.Sprintf("dimensions %dx%d", width, height))
	}

	img := &Image{
		width:  width,
		height: height,
		depth:  depth,
		plane:  newPlane(width, height, depth),
	}
	if depth <= 8 {
		img.palette = grayPalette(depth)
	}
	return img, nil
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Depth returns the color depth in bits per pixel.
func (img *Image) Depth() int { return img.depth }

// Palette returns the image's color table, nil for 24-bit images.
func (img *Image) Palette() Palette { return img.palette }

// SetPalette replaces the color table wholesale. The replacement must have
// exactly 2^depth entries so that every storable index stays resolvable.
func (img *Image) SetPalette(p Palette) error {
	if img.depth > 8 {
		return UnsupportedError("palette on 24-bit image")
	}
	if want := 1 << uint(img.depth); len(p) != want {
		return RangeError(fmt.Sprintf("palette size %d, want %d", len(p), want))
	}
	img.palette = p
	return nil
}

// PixelIndex returns the palette index stored at (x, y) of an indexed image.
func (img *Image) PixelIndex(x, y int) (uint8, error) {
	if img.depth > 8 {
		return 0, UnsupportedError("index access on 24-bit image")
	}
	return img.plane.index(x, y)
}

// SetPixelIndex stores a palette index at (x, y) of an indexed image.
func (img *Image) SetPixelIndex(x, y int, v uint8) error {
	if img.depth > 8 {
		return UnsupportedError("index access on 24-bit image")
	}
	return img.plane.setIndex(x, y, v)
}

// PixelRGB returns the color at (x, y) of a 24-bit image.
func (img *Image) PixelRGB(x, y int) (r, g, b uint8, err error) {
	if img.depth != 24 {
		return 0, 0, 0, UnsupportedError("RGB access on indexed image")
	}
	return img.plane.rgb(x, y)
}

// SetPixelRGB stores a color at (x, y) of a 24-bit image.
func (img *Image) SetPixelRGB(x, y int, r, g, b uint8) error {
	if img.depth != 24 {
		return UnsupportedError("RGB access on indexed image")
	}
	return img.plane.setRGB(x, y, r, g, b)
}

// Channel returns one channel of a 24-bit pixel; c is 0=R, 1=G, 2=B.
func (img *Image) Channel(x, y, c int) (uint8, error) {
	if img.depth != 24 {
		return 0, UnsupportedError("channel access on indexed image")
	}
	return img.plane.channel(x, y, c)
}

// SetChannel stores one channel of a 24-bit pixel without touching the
// other two.
func (img *Image) SetChannel(x, y, c int, v uint8) error {
	if img.depth != 24 {
		return UnsupportedError("channel access on indexed image")
	}
	return img.plane.setChannel(x, y, c, v)
}

// Describe returns a one-line human-readable summary of the image. The byte
// size is the size an uncompressed encoding of the image occupies.
func (img *Image) Describe() string {
	mode := "indexed"
	if img.depth == 24 {
		mode = "RGB"
	}
	h := img.header()
	return fmt.Sprintf("BMP image, %s, %d-bit, %dx%d pixels, %d bytes",
		mode, img.depth, img.width, img.height, h.encodedSize())
}

func (img *Image) header() header {
	return header{
		width:          img.width,
		height:         img.height,
		depth:          img.depth,
		paletteEntries: len(img.palette),
	}
}

// Config holds the geometry of a BMP file, readable without touching its
// pixel data.
type Config struct {
	Width  int
	Height int
	Depth  int
}

// DecodeConfig parses only the headers of a BMP file and returns its
// geometry. Callers that cap image sizes can check the result before
// committing to a full Decode, which allocates width*height storage.
func DecodeConfig(data []byte) (Config, error) {
	h, err := parseHeader(data)
	if err != nil {
		return Config{}, err
	}
	return Config{Width: h.width, Height: h.height, Depth: h.depth}, nil
}

// If int is 32 bits, a width*height*4 RGBA buffer must stay below 2^31-1
// bytes, so each dimension is bounded by 46340 (floor of sqrt(2^31-1)) and
// the pixel count by 2^29.
const (
	maxDimension  = 46340
	maxPixelCount = 1 << 29
)

// Decode parses a complete BMP file held in memory. On any error no image
// is returned.
func Decode(data []byte) (*Image, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.width > maxDimension || h.height > maxDimension ||
		h.width*h.height >= maxPixelCount {
		return nil, UnsupportedError(fmt.Sprintf("image dimensions %dx%d too large", h.width, h.height))
	}

	pos := headerLen
	var palette Palette
	if h.depth <= 8 {
		paletteBytes := h.paletteEntries * 4
		if pos+paletteBytes > len(data) {
			return nil, FormatError("file too short for palette")
		}
		palette = paletteFromQuads(data[pos:pos+paletteBytes], h.paletteEntries)
		pos += paletteBytes
		// Stored palettes may be shorter than 2^depth; pad with black so
		// every storable index stays resolvable.
		for len(palette) < 1<<uint(h.depth) {
			palette = append(palette, Color{})
		}
	}

	// Some writers leave a gap between the color table and the pixel array.
	if int(h.dataOffset) < pos {
		return nil, FormatError("pixel data offset inside headers")
	}
	if int(h.dataOffset) > len(data) {
		return nil, FormatError("pixel data offset beyond end of file")
	}
	pixelData := data[h.dataOffset:]

	// Uncompressed pixel data has a known byte count, so a short file is
	// rejected before the plane is allocated.
	if h.compression == biRGB && len(pixelData) < paddedStride(h.width, h.depth)*h.height {
		return nil, FormatError("file too short for pixel data")
	}

	p := newPlane(h.width, h.height, h.depth)
	switch h.compression {
	case biRGB:
		copyRows(&p, pixelData, h.topDown)
	case biRLE8:
		if err := decodeRLE(&p, pixelData, false); err != nil {
			return nil, err
		}
	case biRLE4:
		if err := decodeRLE(&p, pixelData, true); err != nil {
			return nil, err
		}
	}

	return &Image{
		width:   h.width,
		height:  h.height,
		depth:   h.depth,
		palette: palette,
		plane:   p,
	}, nil
}

// DecodeReader reads a complete BMP stream from r and decodes it.
func DecodeReader(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// copyRows unpacks uncompressed pixel data into the plane, de-padding each
// row and flipping the row order for bottom-up files. The caller has already
// verified that data holds paddedStride*height bytes.
func copyRows(p *plane, data []byte, topDown bool) {
	padded := paddedStride(p.width, p.depth)
	for r := 0; r < p.height; r++ {
		y := p.height - r - 1
		if topDown {
			y = r
		}
		copy(p.row(y), data[r*padded:r*padded+p.stride])
	}
}

// Encode serializes the image as an uncompressed, bottom-up BMP file.
func (img *Image) Encode() ([]byte, error) {
	h := img.header()

	out := make([]byte, 0, h.encodedSize())
	out = append(out, h.serialize()...)
	out = img.palette.appendQuads(out)

	padded := paddedStride(img.width, img.depth)
	pad := make([]byte, padded-img.plane.stride)
	for r := 0; r < img.height; r++ {
		out = append(out, img.plane.row(img.height-r-1)...)
		out = append(out, pad...)
	}
	return out, nil
}

// EncodeWriter serializes the image to w and returns the number of bytes
// written.
func (img *Image) EncodeWriter(w io.Writer) (int, error) {
	data, err := img.Encode()
	if err != nil {
		return 0, err
	}
	return w.Write(data)
}
