package microbmp

import (
	"image"
	"image/color"
)

// ToImage converts to a standard library image: *image.Paletted for indexed
// depths, *image.NRGBA for 24-bit.
func (img *Image) ToImage() image.Image {
	bounds := image.Rect(0, 0, img.width, img.height)

	if img.depth <= 8 {
		pal := make(color.Palette, len(img.palette))
		for i, c := range img.palette {
			pal[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
		}
		dst := image.NewPaletted(bounds, pal)
		for y := 0; y < img.height; y++ {
			for x := 0; x < img.width; x++ {
				v, _ := img.plane.index(x, y)
				dst.Pix[y*dst.Stride+x] = v
			}
		}
		return dst
	}

	dst := image.NewNRGBA(bounds)
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			r, g, b, _ := img.plane.rgb(x, y)
			i := y*dst.Stride + x*4
			dst.Pix[i] = r
			dst.Pix[i+1] = g
			dst.Pix[i+2] = b
			dst.Pix[i+3] = 255
		}
	}
	return dst
}

// RGBA flattens the image to a width*height*4 RGBA byte buffer in top-down
// row-major order, resolving palette indices for indexed depths. This is the
// layout browsers consume directly via ImageData.
func (img *Image) RGBA() []byte {
	out := make([]byte, img.width*img.height*4)
	i := 0
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			var r, g, b uint8
			if img.depth <= 8 {
				v, _ := img.plane.index(x, y)
				if int(v) < len(img.palette) {
					c := img.palette[v]
					r, g, b = c.R, c.G, c.B
				}
			} else {
				r, g, b, _ = img.plane.rgb(x, y)
			}
			out[i] = r
			out[i+1] = g
			out[i+2] = b
			out[i+3] = 255
			i += 4
		}
	}
	return out
}
