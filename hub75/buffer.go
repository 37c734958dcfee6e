package hub75

// Bit positions within a packed bitplane byte. Bits 1 and 0 are always zero.
const (
	bitR1 = 7
	bitG1 = 6
	bitB1 = 5
	bitR2 = 4
	bitG2 = 3
	bitB2 = 2
)

// planeIndex returns the byte offset within one bitplane buffer for the
// pixel-pair at (rowPair, column) on bitplane plane, per the layout fixed in
// §3: byte_index = (row_pair*K + plane) * W + column.
func (g Geometry) planeIndex(rowPair, plane, column int) int {
	return (rowPair*g.depthBits()+plane)*g.Width + column
}

// depthBits returns K, the number of bitplanes (== color bit depth).
func (g Geometry) depthBits() int {
	return int(g.ColorDepth)
}

// rowPairs returns 2^A, the number of simultaneously-addressable row pairs.
func (g Geometry) rowPairs() int {
	return g.Height / 2
}

// bufferBytes returns BUF_BYTES = 2^A * W * K for the receiver's geometry.
func (g Geometry) bufferBytes() int {
	return g.rowPairs() * g.Width * g.depthBits()
}

// doubleBuffer owns the two bitplane buffers (C1) plus the bookkeeping (C7)
// that decides which one is front (read by DMA) and which is back
// (writable by the encoder).
type doubleBuffer struct {
	planes      [2][]byte
	activeIndex int // 0 or 1; selects the front (DMA-visible) buffer
}

func newDoubleBuffer(size int) *doubleBuffer {
	return &doubleBuffer{
		planes: [2][]byte{
			make([]byte, size),
			make([]byte, size),
		},
	}
}

// front returns the buffer currently being read by DMA. CPU code must treat
// it as read-only.
func (d *doubleBuffer) front() []byte {
	return d.planes[d.activeIndex]
}

// back returns the buffer the encoder is allowed to write to.
func (d *doubleBuffer) back() []byte {
	return d.planes[1-d.activeIndex]
}

// flip toggles which buffer is front. The caller reads the new front buffer
// through front() to update the control-DMA's active-pointer cell.
func (d *doubleBuffer) flip() {
	d.activeIndex = 1 - d.activeIndex
}
