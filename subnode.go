package pst

import "fmt"

// SubnodeEntry is a leaf entry (SLENTRY) of a sub-node B-tree.
type SubnodeEntry struct {
	NID        NID
	DataBID    BID
	SubnodeBID BID // zero if the sub-node has no sub-nodes of its own
}

// Key implements Entry.
func (e *SubnodeEntry) Key() uint64 { return uint64(e.NID) }

func (e *SubnodeEntry) String() string {
	return fmt.Sprintf("NID %s data %s subnode %s", e.NID, e.DataBID, e.SubnodeBID)
}

// subnodeLeafKind decodes SLENTRY records. Unicode entries pad the NID to
// 8 bytes.
type subnodeLeafKind struct{}

func (subnodeLeafKind) entrySize(f Format) int { return 3 * f.bidSize() }

func (subnodeLeafKind) decode(f Format, p []byte) Entry {
	n := f.bidSize()
	return &SubnodeEntry{
		NID:        NID(le.Uint32(p)),
		DataBID:    f.readBID(p[n:]),
		SubnodeBID: f.readBID(p[2*n:]),
	}
}

// subnodeRefKind decodes SIENTRY records.
type subnodeRefKind struct{}

type subnodeRef struct {
	nid NID
	bid BID
}

func (e *subnodeRef) Key() uint64         { return uint64(e.nid) }
func (e *subnodeRef) childRef() BlockRef { return BlockRef{BID: e.bid} }

func (subnodeRefKind) entrySize(f Format) int { return 2 * f.bidSize() }

func (subnodeRefKind) decode(f Format, p []byte) Entry {
	return &subnodeRef{
		nid: NID(le.Uint32(p)),
		bid: f.readBID(p[f.bidSize():]),
	}
}

// subnodeLoader reads SLBLOCK and SIBLOCK nodes. They are addressed by BID
// alone, resolved through the block B-tree and never encoded.
func (f *File) subnodeLoader() nodeLoader {
	format := f.h.Format

	hdr := 4
	if format == Unicode {
		hdr = 8
	}

	return func(ref BlockRef) (*btNode, error) {
		id := uint64(ref.BID)

		e, err := f.resolve(ref.BID)
		if err != nil {
			return nil, err
		}
		p, err := f.readBlock(e, false)
		if err != nil {
			return nil, err
		}
		if len(p) < hdr {
			return nil, corruptf("subnode block", id, "size", hdr, len(p))
		}

		btype, level := p[0], int(p[1])
		count := int(le.Uint16(p[2:]))
		if btype != btypeSLBlock {
			return nil, formatErr(ErrUnexpectedStructure, "subnode block", id, "btype", uint8(btypeSLBlock), btype)
		}

		var kind entryKind
		switch level {
		case 0:
			kind = subnodeLeafKind{}
		case 1:
			kind = subnodeRefKind{}
		default:
			return nil, formatErr(ErrUnexpectedStructure, "subnode block", id, "level", "0 or 1", level)
		}

		size := kind.entrySize(format)
		if hdr+count*size > len(p) {
			return nil, corruptf("subnode block", id, "entry count", (len(p)-hdr)/size, count)
		}

		n := &btNode{ref: BlockRef{BID: ref.BID, Offset: e.Ref.Offset}, level: level, entries: make([]Entry, count)}
		for i := range n.entries {
			n.entries[i] = kind.decode(format, p[hdr+i*size:])
		}
		return n, nil
	}
}

// --------------------------------------------------------------------

// SubnodeBTree maps the NIDs of a node's sub-nodes to their data. It is
// rooted in the node's own blocks rather than in the file header.
type SubnodeBTree struct {
	f *File
	t btree
}

// SubnodeBTree opens the sub-node B-tree rooted at bid.
func (f *File) SubnodeBTree(bid BID) (*SubnodeBTree, error) {
	s := &SubnodeBTree{f: f, t: btree{root: BlockRef{BID: bid}, load: f.subnodeLoader()}}

	root, err := s.t.load(s.t.root)
	if err != nil {
		return nil, err
	}

	f.sugar.Debugw("subnode tree",
		"bid", bid,
		"level", root.level,
		"entries", len(root.entries),
	)
	return s, nil
}

// Find returns the entry for nid or ErrNotFound.
func (s *SubnodeBTree) Find(nid NID) (*SubnodeEntry, error) {
	e, err := s.t.find(uint64(nid))
	if err != nil {
		return nil, err
	}
	return e.(*SubnodeEntry), nil
}

// Iterator returns an iterator over all entries in NID order. Entry
// returns *SubnodeEntry values.
func (s *SubnodeBTree) Iterator() *Iterator { return s.t.iterator() }

// DataTree resolves the data of the sub-node nid.
func (s *SubnodeBTree) DataTree(nid NID) (*DataTree, error) {
	e, err := s.Find(nid)
	if err != nil {
		return nil, err
	}
	return s.f.DataTree(e.DataBID)
}

// Subtree opens the sub-node B-tree of the sub-node nid. It returns
// ErrNotFound if nid has no sub-nodes.
func (s *SubnodeBTree) Subtree(nid NID) (*SubnodeBTree, error) {
	e, err := s.Find(nid)
	if err != nil {
		return nil, err
	}
	if e.SubnodeBID.IsZero() {
		return nil, ErrNotFound
	}
	return s.f.SubnodeBTree(e.SubnodeBID)
}

// HeapOnNode decodes the heap stored in the sub-node nid.
func (s *SubnodeBTree) HeapOnNode(nid NID) (*HeapOnNode, error) {
	t, err := s.DataTree(nid)
	if err != nil {
		return nil, err
	}
	return NewHeapOnNode(t)
}

// TableContext decodes a table context stored in the sub-node nid, such as
// a message's attachment or recipient table.
func (s *SubnodeBTree) TableContext(nid NID) (*TableContext, error) {
	hn, sub, err := s.parts(nid)
	if err != nil {
		return nil, err
	}
	return NewTableContext(hn, sub)
}

// PropertyContext decodes a property context stored in the sub-node nid,
// such as an attachment's properties.
func (s *SubnodeBTree) PropertyContext(nid NID) (*PropertyContext, error) {
	hn, sub, err := s.parts(nid)
	if err != nil {
		return nil, err
	}
	return NewPropertyContext(hn, sub)
}

func (s *SubnodeBTree) parts(nid NID) (*HeapOnNode, *SubnodeBTree, error) {
	e, err := s.Find(nid)
	if err != nil {
		return nil, nil, err
	}

	t, err := s.f.DataTree(e.DataBID)
	if err != nil {
		return nil, nil, err
	}
	hn, err := NewHeapOnNode(t)
	if err != nil {
		return nil, nil, err
	}

	var sub *SubnodeBTree
	if !e.SubnodeBID.IsZero() {
		if sub, err = s.f.SubnodeBTree(e.SubnodeBID); err != nil {
			return nil, nil, err
		}
	}
	return hn, sub, nil
}
