package buffer

import "unicode/utf8"

// DefaultBlockSize is the maximum number of lines per block.
const DefaultBlockSize = 256

// block is a run of consecutive lines with cached rune counts.
type block struct {
	lines [][]byte
	runes []int
	// Per-block totals, each line counting one extra unit for its newline.
	runeUnits int
	byteUnits int
}

func newBlock(lines [][]byte) *block {
	b := &block{lines: lines, runes: make([]int, len(lines))}
	for i, l := range lines {
		b.runes[i] = utf8.RuneCount(l)
		b.runeUnits += b.runes[i] + 1
		b.byteUnits += len(l) + 1
	}
	return b
}

// BlockStore groups lines into blocks of bounded size and indexes the blocks
// with Fenwick trees over their line, rune and byte counts. Line lookup and
// offset conversion cost O(log B + blockSize); an edit touches the blocks it
// spans plus an O(log B) index update, or an O(B) rebuild when blocks split
// or merge. Overflowing blocks split into balanced halves and short runs merge
// with a neighbour, so blocks hold at least blockSize/4 lines and a rebuild
// happens at most once per blockSize/4 line insertions or removals.
type BlockStore struct {
	blocks    []*block
	blockSize int

	lineIdx *fenwick
	runeIdx *fenwick
	byteIdx *fenwick
}

// NewBlockStore creates a store holding a single empty line.
func NewBlockStore(blockSize int) *BlockStore {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	bs := &BlockStore{
		blocks:    []*block{newBlock([][]byte{{}})},
		blockSize: blockSize,
	}
	bs.reindex()
	return bs
}

func (bs *BlockStore) reindex() {
	lines := make([]int, len(bs.blocks))
	runes := make([]int, len(bs.blocks))
	byteCounts := make([]int, len(bs.blocks))
	for i, b := range bs.blocks {
		lines[i] = len(b.lines)
		runes[i] = b.runeUnits
		byteCounts[i] = b.byteUnits
	}
	bs.lineIdx = newFenwick(lines)
	bs.runeIdx = newFenwick(runes)
	bs.byteIdx = newFenwick(byteCounts)
}

// locate returns the block holding line n and n's index inside it. n equal to
// LineCount maps to one past the last line of the last block.
func (bs *BlockStore) locate(n int) (int, int) {
	bi, k := bs.lineIdx.find(n)
	if bi >= len(bs.blocks) {
		last := len(bs.blocks) - 1
		return last, len(bs.blocks[last].lines) + k
	}
	return bi, k
}

func (bs *BlockStore) LineCount() int { return bs.lineIdx.prefix(bs.lineIdx.len()) }

func (bs *BlockStore) Line(n int) []byte {
	bi, k := bs.locate(n)
	return bs.blocks[bi].lines[k]
}

func (bs *BlockStore) LineRunes(n int) int {
	bi, k := bs.locate(n)
	return bs.blocks[bi].runes[k]
}

func (bs *BlockStore) LineOffset(n int) (int, int) {
	bi, k := bs.locate(n)
	runeOff, byteOff := bs.runeIdx.prefix(bi), bs.byteIdx.prefix(bi)
	b := bs.blocks[bi]
	for i := 0; i < k && i < len(b.lines); i++ {
		runeOff += b.runes[i] + 1
		byteOff += len(b.lines[i]) + 1
	}
	return runeOff, byteOff
}

func (bs *BlockStore) LineAtRune(off int) int {
	bi, rem := bs.runeIdx.find(off)
	if bi >= len(bs.blocks) {
		return bs.LineCount() - 1
	}
	line := bs.lineIdx.prefix(bi)
	for _, r := range bs.blocks[bi].runes {
		if rem <= r {
			return line
		}
		rem -= r + 1
		line++
	}
	return line - 1
}

func (bs *BlockStore) RuneCount() int {
	return bs.runeIdx.prefix(bs.runeIdx.len()) - 1
}

func (bs *BlockStore) ByteCount() int {
	return bs.byteIdx.prefix(bs.byteIdx.len()) - 1
}

func (bs *BlockStore) Splice(start, end int, lines [][]byte) {
	first, k0 := bs.locate(start)
	last, k1 := first, k0
	if end > start {
		last, k1 = bs.locate(end - 1)
		k1++
	}

	merged := make([][]byte, 0, k0+len(lines)+len(bs.blocks[last].lines)-k1)
	merged = append(merged, bs.blocks[first].lines[:k0]...)
	for _, l := range lines {
		merged = append(merged, copyLine(l))
	}
	merged = append(merged, bs.blocks[last].lines[k1:]...)

	// A short run absorbs a neighbouring block so small blocks do not pile up.
	if len(merged) < bs.minBlockLines() && last-first+1 < len(bs.blocks) {
		if last+1 < len(bs.blocks) {
			last++
			merged = append(merged, bs.blocks[last].lines...)
		} else {
			first--
			prev := bs.blocks[first].lines
			merged = append(append(make([][]byte, 0, len(prev)+len(merged)), prev...), merged...)
		}
	}
	replacement := bs.chunk(merged)

	oldCount := last - first + 1
	if len(replacement) == oldCount {
		for i, nb := range replacement {
			ob := bs.blocks[first+i]
			bs.lineIdx.add(first+i, len(nb.lines)-len(ob.lines))
			bs.runeIdx.add(first+i, nb.runeUnits-ob.runeUnits)
			bs.byteIdx.add(first+i, nb.byteUnits-ob.byteUnits)
			bs.blocks[first+i] = nb
		}
		return
	}

	blocks := make([]*block, 0, len(bs.blocks)-oldCount+len(replacement))
	blocks = append(blocks, bs.blocks[:first]...)
	blocks = append(blocks, replacement...)
	blocks = append(blocks, bs.blocks[last+1:]...)
	if len(blocks) == 0 {
		blocks = []*block{newBlock([][]byte{{}})}
	}
	bs.blocks = blocks
	bs.reindex()
}

// minBlockLines is the size below which a spliced run merges with a neighbour.
func (bs *BlockStore) minBlockLines() int {
	if m := bs.blockSize / 4; m > 0 {
		return m
	}
	return 1
}

// chunk splits lines into the fewest blocks of at most blockSize lines, with
// sizes differing by at most one.
func (bs *BlockStore) chunk(lines [][]byte) []*block {
	if len(lines) == 0 {
		return nil
	}
	count := (len(lines) + bs.blockSize - 1) / bs.blockSize
	size, extra := len(lines)/count, len(lines)%count
	out := make([]*block, 0, count)
	for i := 0; i < count; i++ {
		n := size
		if i < extra {
			n++
		}
		out = append(out, newBlock(lines[:n:n]))
		lines = lines[n:]
	}
	return out
}

// BlockCount reports how many blocks back the document.
func (bs *BlockStore) BlockCount() int { return len(bs.blocks) }

var _ LineStore = (*BlockStore)(nil)
