package hub75

// IRQ flag indices used for the cross-state-machine rendezvous described in
// §4.4/§4.5. Both state machines must live in the same physical PIO block so
// these indices (0-3, the block-local IRQ range) are visible to both without
// the +4 offset needed to signal the other PIO block.
const (
	latchSafeIRQ     = 0
	latchCompleteIRQ = 1
)
