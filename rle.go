package microbmp

import "fmt"

// rleDecoder expands a BI_RLE8 or BI_RLE4 pixel stream into a plane.
//
// The encoding unit is a two-byte token (count, value). count > 0 repeats
// value count times; count == 0 escapes: value 0 ends the line, value 1 ends
// the bitmap, value 2 is followed by an unsigned (dx, dy) cursor delta, and
// value >= 3 introduces that many literal indices, padded to an even byte
// count. Compressed bitmaps are always stored bottom-up, so the cursor
// starts at the bottom logical row and end-of-line moves it up.
type rleDecoder struct {
	p    *plane
	rle4 bool
	x, y int // cursor in logical top-down coordinates
}

func decodeRLE(p *plane, src []byte, rle4 bool) error {
	d := rleDecoder{p: p, rle4: rle4, y: p.height - 1}
	pos := 0

	for {
		if pos == len(src) {
			// Stream ends exactly at the declared length without an
			// end-of-bitmap marker; unwritten pixels stay zero.
			return nil
		}
		if pos+1 >= len(src) {
			return FormatError("truncated RLE stream")
		}
		count, value := src[pos], src[pos+1]
		pos += 2

		if count > 0 {
			if err := d.putRun(int(count), value); err != nil {
				return err
			}
			continue
		}

		switch value {
		case 0: // end of line
			d.x = 0
			d.y--
		case 1: // end of bitmap
			return nil
		case 2: // delta
			if pos+1 >= len(src) {
				return FormatError("truncated RLE delta")
			}
			d.x += int(src[pos])
			d.y -= int(src[pos+1])
			pos += 2
		default: // absolute run of `value` literal indices
			n := int(value)
			byteCount := n
			if rle4 {
				byteCount = (n + 1) / 2
			}
			padded := (byteCount + 1) / 2 * 2 // 16-bit alignment rule
			if pos+padded > len(src) {
				return FormatError("truncated RLE absolute run")
			}
			if err := d.putLiteral(src[pos:pos+byteCount], n); err != nil {
				return err
			}
			pos += padded
		}
	}
}

// put writes one index at the cursor and advances it. A write outside the
// declared image bounds means the stream is corrupt.
func (d *rleDecoder) put(v uint8) error {
	if d.x < 0 || d.x >= d.p.width || d.y < 0 || d.y >= d.p.height {
		return FormatError(fmt.Sprintf("RLE write at (%d,%d) outside %dx%d",
			d.x, d.y, d.p.width, d.p.height))
	}
	if err := d.p.setIndex(d.x, d.y, v); err != nil {
		return err
	}
	d.x++
	return nil
}

// putRun expands an encoded run. For RLE4 the value byte packs two indices
// that alternate across the run.
func (d *rleDecoder) putRun(n int, value uint8) error {
	for k := 0; k < n; k++ {
		v := value
		if d.rle4 {
			if k%2 == 0 {
				v = value >> 4
			} else {
				v = value & 0x0F
			}
		}
		if err := d.put(v); err != nil {
			return err
		}
	}
	return nil
}

// putLiteral expands an absolute run of n literal indices from data.
func (d *rleDecoder) putLiteral(data []byte, n int) error {
	for i := 0; i < n; i++ {
		var v uint8
		if d.rle4 {
			if i%2 == 0 {
				v = data[i/2] >> 4
			} else {
				v = data[i/2] & 0x0F
			}
		} else {
			v = data[i]
		}
		if err := d.put(v); err != nil {
			return err
		}
	}
	return nil
}
