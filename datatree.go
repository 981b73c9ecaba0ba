package pst

// DataTree is the logical byte stream of a node, stored either in a single
// data block or spread over the leaves of an XBLOCK/XXBLOCK tree. Leaf
// locations are resolved on construction; leaf data is read on demand.
type DataTree struct {
	f      *File
	bid    BID
	leaves []*BlockEntry
	size   int
}

// DataTree resolves the data stream rooted at bid. A simple BID yields a
// single-block tree.
func (f *File) DataTree(bid BID) (*DataTree, error) {
	t := &DataTree{f: f, bid: bid}

	if !bid.Internal() {
		e, err := f.resolve(bid)
		if err != nil {
			return nil, err
		}
		t.leaves = []*BlockEntry{e}
		t.size = e.Size
	} else if err := t.expand(bid, 0); err != nil {
		return nil, err
	}

	f.sugar.Debugw("data tree",
		"bid", bid,
		"blocks", len(t.leaves),
		"size", t.size,
	)
	return t, nil
}

// expand appends the leaves below the XBLOCK or XXBLOCK at bid. A non-zero
// level demands that exact level.
func (t *DataTree) expand(bid BID, level int) error {
	f := t.f
	id := uint64(bid)

	e, err := f.resolve(bid)
	if err != nil {
		return err
	}
	p, err := f.readBlock(e, false)
	if err != nil {
		return err
	}
	if len(p) < 8 {
		return corruptf("xblock", id, "size", 8, len(p))
	}

	btype, cLevel := p[0], int(p[1])
	count := int(le.Uint16(p[2:]))
	total := int(le.Uint32(p[4:]))

	if btype != btypeXBlock {
		return formatErr(ErrUnexpectedStructure, "xblock", id, "btype", uint8(btypeXBlock), btype)
	}
	if cLevel != 1 && cLevel != 2 {
		return formatErr(ErrUnexpectedStructure, "xblock", id, "level", "1 or 2", cLevel)
	}
	if level != 0 && cLevel != level {
		return corruptf("xblock", id, "level", level, cLevel)
	}

	n := f.h.Format.bidSize()
	if 8+count*n > len(p) {
		return corruptf("xblock", id, "entry count", (len(p)-8)/n, count)
	}

	start := t.size
	for i := 0; i < count; i++ {
		child := f.h.Format.readBID(p[8+i*n:])

		if cLevel == 2 {
			if !child.Internal() {
				return formatErr(ErrUnexpectedStructure, "xxblock", id, "simple child", nil, child)
			}
			if err := t.expand(child, 1); err != nil {
				return err
			}
			continue
		}

		if child.Internal() {
			return formatErr(ErrUnexpectedStructure, "xblock", id, "internal child", nil, child)
		}
		ce, err := f.resolve(child)
		if err != nil {
			return err
		}
		t.leaves = append(t.leaves, ce)
		t.size += ce.Size
	}

	if got := t.size - start; got != total {
		return corruptf("xblock", id, "total size", total, got)
	}
	return nil
}

// BID returns the root BID.
func (t *DataTree) BID() BID { return t.bid }

// Size returns the total number of bytes.
func (t *DataTree) Size() int { return t.size }

// NumBlocks returns the number of leaf blocks.
func (t *DataTree) NumBlocks() int { return len(t.leaves) }

// BlockSize returns the size of the i-th leaf block.
func (t *DataTree) BlockSize(i int) int { return t.leaves[i].Size }

// Block reads and decodes the i-th leaf block.
func (t *DataTree) Block(i int) ([]byte, error) {
	return t.f.readBlock(t.leaves[i], true)
}

// Bytes reads the whole stream into a single slice.
func (t *DataTree) Bytes() ([]byte, error) {
	buf := make([]byte, 0, t.size)
	for i := range t.leaves {
		p, err := t.Block(i)
		if err != nil {
			return nil, err
		}
		buf = append(buf, p...)
	}
	return buf, nil
}

// Iterator returns an iterator over the leaf blocks in stored order.
func (t *DataTree) Iterator() *BlockIterator {
	return &BlockIterator{t: t, pos: -1}
}

// --------------------------------------------------------------------

// BlockIterator reads the leaf blocks of a DataTree one at a time.
type BlockIterator struct {
	t   *DataTree
	pos int
	buf []byte
	err error
}

// Next advances to the next block and returns true if successful.
func (i *BlockIterator) Next() bool {
	if i.err != nil || i.pos+1 >= len(i.t.leaves) {
		i.buf = nil
		return false
	}

	i.pos++
	i.buf, i.err = i.t.Block(i.pos)
	return i.err == nil
}

// Index returns the index of the current block.
func (i *BlockIterator) Index() int { return i.pos }

// Bytes returns the data of the current block.
func (i *BlockIterator) Bytes() []byte { return i.buf }

// Err exposes iterator errors, if any.
func (i *BlockIterator) Err() error { return i.err }
