package hub75

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func testGeometry() Geometry {
	return Geometry{Width: 2, Height: 4, ColorDepth: 2}
}

func newTestEncoder(c *qt.C) (*encoder, *doubleBuffer) {
	geo := testGeometry()
	lut := buildGammaLUT(Gamma{Kind: GammaNone}, geo.ColorDepth)
	buf := newDoubleBuffer(geo.bufferBytes())
	return &encoder{geo: geo, lut: &lut, buf: buf}, buf
}

func TestLoadRGB888PacksBitplanes(t *testing.T) {
	c := qt.New(t)
	e, buf := newTestEncoder(c)

	// W=2, H=4: row0/row1 top half, row2/row3 bottom half.
	src := make([]byte, 2*4*3)
	setRGB888 := func(x, y int, r, g, b byte) {
		i := (y*2 + x) * 3
		src[i], src[i+1], src[i+2] = r, g, b
	}
	setRGB888(0, 0, 255, 0, 0)
	setRGB888(1, 0, 0, 255, 0)
	setRGB888(0, 2, 0, 0, 255)
	setRGB888(1, 2, 255, 255, 255)

	c.Assert(e.LoadRGB888(src), qt.IsNil)
	c.Assert(buf.back(), qt.DeepEquals, []byte{0x84, 0x5C, 0x84, 0x5C, 0, 0, 0, 0})
}

func TestLoadRGB888RejectsWrongSize(t *testing.T) {
	c := qt.New(t)
	e, _ := newTestEncoder(c)

	err := e.LoadRGB888(make([]byte, 3))
	c.Assert(err, qt.Equals, ErrSizeMismatch)
}

func TestLoadRGB565RejectsWrongSize(t *testing.T) {
	c := qt.New(t)
	e, _ := newTestEncoder(c)

	err := e.LoadRGB565(make([]byte, 3))
	c.Assert(err, qt.Equals, ErrSizeMismatch)
}

func TestLoadRGB565UsesRawChannelValues(t *testing.T) {
	c := qt.New(t)
	e, buf := newTestEncoder(c)

	src := make([]byte, 2*4*2)
	setRGB565 := func(x, y int, v uint16) {
		i := (y*2 + x) * 2
		src[i] = byte(v)
		src[i+1] = byte(v >> 8)
	}
	setRGB565(0, 0, 0xFFFF) // r=31 g=63 b=31

	c.Assert(e.LoadRGB565(src), qt.IsNil)
	c.Assert(buf.back(), qt.DeepEquals, []byte{0, 0, 0x40, 0, 0, 0, 0, 0})
}

func TestUnpackRGB565(t *testing.T) {
	c := qt.New(t)

	r, g, b := unpackRGB565(0xFF, 0xFF)
	c.Assert([]byte{r, g, b}, qt.DeepEquals, []byte{31, 63, 31})

	r, g, b = unpackRGB565(0x00, 0x00)
	c.Assert([]byte{r, g, b}, qt.DeepEquals, []byte{0, 0, 0})
}

func TestClearZeroesBackBuffer(t *testing.T) {
	c := qt.New(t)
	e, buf := newTestEncoder(c)

	back := buf.back()
	for i := range back {
		back[i] = 0xFF
	}
	e.Clear()
	for _, v := range buf.back() {
		c.Assert(v, qt.Equals, byte(0))
	}
}

func TestPackPixelPairGenericMatchesFastPaths(t *testing.T) {
	c := qt.New(t)

	back8a := make([]byte, 8)
	back8b := make([]byte, 8)
	packPixelPair8(back8a, 0, 1, 0xFF, 0x81, 0x01, 0x00, 0x7E, 0xAA)
	packPixelPairGeneric(back8b, 0, 1, 8, 0xFF, 0x81, 0x01, 0x00, 0x7E, 0xAA)
	c.Assert(back8a, qt.DeepEquals, back8b)

	back6a := make([]byte, 6)
	back6b := make([]byte, 6)
	packPixelPair6(back6a, 0, 1, 0x3F, 0x21, 0x01, 0x00, 0x1E, 0x2A)
	packPixelPairGeneric(back6b, 0, 1, 6, 0x3F, 0x21, 0x01, 0x00, 0x1E, 0x2A)
	c.Assert(back6a, qt.DeepEquals, back6b)
}
