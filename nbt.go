package pst

import "fmt"

// NodeEntry is a leaf entry of the node B-tree.
type NodeEntry struct {
	NID        NID
	DataBID    BID // data of the node
	SubnodeBID BID // root of the node's sub-node B-tree, zero if none
	ParentNID  NID
}

// Key implements Entry.
func (e *NodeEntry) Key() uint64 { return uint64(e.NID) }

func (e *NodeEntry) String() string {
	return fmt.Sprintf("NID %s data %s subnode %s parent %s", e.NID, e.DataBID, e.SubnodeBID, e.ParentNID)
}

// nodeEntryKind decodes NBTENTRY records. Unicode entries pad the NID to
// 8 bytes and carry 4 trailing padding bytes.
type nodeEntryKind struct{}

func (nodeEntryKind) entrySize(f Format) int {
	if f == Unicode {
		return 32
	}
	return 16
}

func (nodeEntryKind) decode(f Format, p []byte) Entry {
	n := f.bidSize()
	return &NodeEntry{
		NID:        NID(le.Uint32(p)),
		DataBID:    f.readBID(p[n:]),
		SubnodeBID: f.readBID(p[2*n:]),
		ParentNID:  NID(le.Uint32(p[3*n:])),
	}
}

// --------------------------------------------------------------------

// NodeBTree maps NIDs to node entries.
type NodeBTree struct {
	t btree
}

// Find returns the entry for nid or ErrNotFound.
func (b *NodeBTree) Find(nid NID) (*NodeEntry, error) {
	e, err := b.t.find(uint64(nid))
	if err != nil {
		return nil, err
	}
	return e.(*NodeEntry), nil
}

// Iterator returns an iterator over all entries in NID order. Entry
// returns *NodeEntry values.
func (b *NodeBTree) Iterator() *Iterator { return b.t.iterator() }
