package microbmp

import "fmt"

// Compression methods from the BITMAPINFOHEADER biCompression field.
const (
	biRGB  = 0 // uncompressed
	biRLE8 = 1 // 8-bit run-length encoding
	biRLE4 = 2 // 4-bit run-length encoding
)

const (
	fileHeaderLen = 14
	infoHeaderLen = 40
	headerLen     = fileHeaderLen + infoHeaderLen

	// 72 DPI expressed in pixels per metre, the value most writers emit.
	defaultResolution = 2835
)

// header is the decoded BITMAPFILEHEADER + BITMAPINFOHEADER pair. Only the
// classic 40-byte info header is supported; anything else is rejected at
// parse time.
type header struct {
	fileSize   uint32
	dataOffset uint32

	width       int
	height      int
	depth       int
	compression uint32
	topDown     bool

	// Number of palette entries stored in the file. Zero for 24-bit.
	paletteEntries int
}

func getUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func getUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putUint16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// putInt32 stores a signed value in its little-endian two's-complement
// encoding, as the width and height fields require.
func putInt32(b []byte, v int32) {
	putUint32(b, uint32(v))
}

// rowStride returns the number of bytes needed to store one unpadded row.
func rowStride(width, depth int) int {
	return (width*depth + 7) / 8
}

// paddedStride returns the on-disk row size, rounded up to a multiple of 4
// bytes per the BMP scanline alignment rule.
func paddedStride(width, depth int) int {
	return (rowStride(width, depth) + 3) / 4 * 4
}

func validDepth(depth int) bool {
	switch depth {
	case 1, 2, 4, 8, 24:
		return true
	}
	return false
}

// parseHeader decodes and validates the first 54 bytes of a BMP file.
func parseHeader(data []byte) (header, error) {
	var h header

	if len(data) < headerLen {
		return h, FormatError("file too short for BMP headers")
	}
	if data[0] != 'B' || data[1] != 'M' {
		return h, FormatError("not a BMP file")
	}

	h.fileSize = getUint32(data[2:6])
	h.dataOffset = getUint32(data[10:14])

	if dibLen := getUint32(data[14:18]); dibLen != infoHeaderLen {
		return h, FormatError(fmt.Sprintf("unsupported DIB header size %d", dibLen))
	}

	h.width = int(int32(getUint32(data[18:22])))
	h.height = int(int32(getUint32(data[22:26])))
	if h.height < 0 {
		// Negative stored height means rows are stored top-down.
		h.topDown = true
		h.height = -h.height
	}
	if h.width < 1 {
		return h, FormatError(fmt.Sprintf("bad width %d", h.width))
	}
	if h.height < 1 {
		return h, FormatError("bad height 0")
	}

	if planes := getUint16(data[26:28]); planes != 1 {
		return h, FormatError(fmt.Sprintf("bad plane count %d", planes))
	}

	h.depth = int(getUint16(data[28:30]))
	if !validDepth(h.depth) {
		return h, FormatError(fmt.Sprintf("unsupported bit depth %d", h.depth))
	}

	h.compression = getUint32(data[30:34])
	switch h.compression {
	case biRGB:
	case biRLE8:
		if h.depth != 8 {
			return h, FormatError(fmt.Sprintf("RLE8 with bit depth %d", h.depth))
		}
	case biRLE4:
		if h.depth != 4 {
			return h, FormatError(fmt.Sprintf("RLE4 with bit depth %d", h.depth))
		}
	default:
		return h, FormatError(fmt.Sprintf("unsupported compression %d", h.compression))
	}
	if h.compression != biRGB && h.topDown {
		return h, FormatError("compressed top-down bitmap")
	}

	if h.depth <= 8 {
		h.paletteEntries = 1 << uint(h.depth)
		// A nonzero biClrUsed overrides the depth-implied entry count.
		if clrUsed := getUint32(data[46:50]); clrUsed != 0 {
			if clrUsed > uint32(h.paletteEntries) {
				return h, FormatError(fmt.Sprintf("bad palette size %d", clrUsed))
			}
			h.paletteEntries = int(clrUsed)
		}
	}

	return h, nil
}

// serialize writes the fixed 54-byte header pair for an uncompressed,
// bottom-up image. File size, data offset, and image size are recomputed
// from the dimensions so that stale fields can never leak into output.
func (h header) serialize() []byte {
	stride := paddedStride(h.width, h.depth)
	paletteBytes := h.paletteEntries * 4
	dataOffset := headerLen + paletteBytes
	imageSize := stride * h.height
	fileSize := dataOffset + imageSize

	b := make([]byte, headerLen)
	b[0] = 'B'
	b[1] = 'M'
	putUint32(b[2:6], uint32(fileSize))
	// Bytes 6-9 are reserved and stay zero.
	putUint32(b[10:14], uint32(dataOffset))

	putUint32(b[14:18], infoHeaderLen)
	putInt32(b[18:22], int32(h.width))
	putInt32(b[22:26], int32(h.height))
	putUint16(b[26:28], 1)
	putUint16(b[28:30], uint16(h.depth))
	putUint32(b[30:34], biRGB)
	putUint32(b[34:38], uint32(imageSize))
	putUint32(b[38:42], defaultResolution)
	putUint32(b[42:46], defaultResolution)
	putUint32(b[46:50], uint32(h.paletteEntries))
	putUint32(b[50:54], uint32(h.paletteEntries))

	return b
}

// encodedSize returns the total file size an uncompressed encoding of this
// header's image will occupy.
func (h header) encodedSize() int {
	return headerLen + h.paletteEntries*4 + paddedStride(h.width, h.depth)*h.height
}
