package microbmp

// A FormatError reports that the input is not a valid BMP file, or that an
// RLE stream is corrupt or truncated.
type FormatError string

func (e FormatError) Error() string { return "bmp: invalid format: " + string(e) }

// A RangeError reports a pixel coordinate, channel, or value outside the
// valid range for the image.
type RangeError string

func (e RangeError) Error() string { return "bmp: out of range: " + string(e) }

// An UnsupportedError reports a valid but unimplemented BMP feature, such as
// a color depth outside {1, 2, 4, 8, 24} or compressed output.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "bmp: unsupported feature: " + string(e) }
