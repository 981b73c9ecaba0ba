package pst

import "fmt"

// BlockEntry is a leaf entry of the block B-tree.
type BlockEntry struct {
	Ref      BlockRef
	Size     int // number of data bytes, excluding the trailer
	RefCount int
}

// Key implements Entry.
func (e *BlockEntry) Key() uint64 { return e.Ref.BID.key() }

func (e *BlockEntry) String() string {
	return fmt.Sprintf("BID %s ib %d cb %d refs %d", e.Ref.BID, e.Ref.Offset, e.Size, e.RefCount)
}

// blockEntryKind decodes BBTENTRY records.
type blockEntryKind struct{}

func (blockEntryKind) entrySize(f Format) int {
	if f == Unicode {
		return 24
	}
	return 12
}

func (blockEntryKind) decode(f Format, p []byte) Entry {
	n := f.bidSize()
	return &BlockEntry{
		Ref:      BlockRef{BID: f.readBID(p), Offset: f.readIB(p[n:])},
		Size:     int(le.Uint16(p[2*n:])),
		RefCount: int(le.Uint16(p[2*n+2:])),
	}
}

// --------------------------------------------------------------------

// BlockBTree maps BIDs to block locations.
type BlockBTree struct {
	t btree
}

// Find returns the entry for bid or ErrNotFound. The reserved low bit of
// bid is ignored.
func (b *BlockBTree) Find(bid BID) (*BlockEntry, error) {
	e, err := b.t.find(bid.key())
	if err != nil {
		return nil, err
	}
	return e.(*BlockEntry), nil
}

// Iterator returns an iterator over all entries in BID order. Entry
// returns *BlockEntry values.
func (b *BlockBTree) Iterator() *Iterator { return b.t.iterator() }
