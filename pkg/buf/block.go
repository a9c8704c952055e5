package buf

// block is one pool-allocated fixed-size chunk. Blocks are chained into a
// blockList (head holds the oldest bytes, tail the newest) and enumerated
// with a strictly increasing id assigned by the owning Buffer, which is what
// lets an Iterator compare two positions in different blocks without
// walking the chain.
type block struct {
	link links[*block]
	id   uint64
	data []byte
}

func (b *block) linkNode() *links[*block] { return &b.link }

// size returns the number of usable data bytes in the block.
func (b *block) size() int { return len(b.data) }

type blockList = list[*block]
