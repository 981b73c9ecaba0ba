package pst

import "fmt"

// ClientSig identifies the structure a heap-on-node holds.
type ClientSig uint8

// Client signatures.
const (
	ClientSigReserved1 ClientSig = 0x6C
	ClientSigTC        ClientSig = 0x7C // table context
	ClientSigReserved2 ClientSig = 0x8C
	ClientSigReserved3 ClientSig = 0x9C
	ClientSigReserved4 ClientSig = 0xA5
	ClientSigReserved5 ClientSig = 0xAC
	ClientSigBTH       ClientSig = 0xB5 // BTree-on-heap
	ClientSigPC        ClientSig = 0xBC // property context
	ClientSigReserved6 ClientSig = 0xCC
)

func (s ClientSig) String() string {
	switch s {
	case ClientSigTC:
		return "TC"
	case ClientSigBTH:
		return "BTH"
	case ClientSigPC:
		return "PC"
	}
	return fmt.Sprintf("0x%02X", uint8(s))
}

const (
	heapHeaderSize    = 12 // HNHDR
	heapPageMapHeader = 4  // cAlloc, cFree
)

type heapBlock struct {
	data   []byte
	allocs []uint16 // rgibAlloc, cAlloc+1 offsets
}

// HeapOnNode is the allocator embedded in the data of a node. Each
// allocation is addressed by a HID.
type HeapOnNode struct {
	t      *DataTree
	sig    ClientSig
	root   HID
	blocks []heapBlock
}

// NewHeapOnNode reads all blocks of t and parses their page maps.
func NewHeapOnNode(t *DataTree) (*HeapOnNode, error) {
	h := &HeapOnNode{t: t, blocks: make([]heapBlock, 0, t.NumBlocks())}
	id := uint64(t.BID())

	it := t.Iterator()
	for it.Next() {
		p := it.Bytes()

		if it.Index() == 0 {
			if len(p) < heapHeaderSize {
				return nil, corruptf("heap", id, "header size", heapHeaderSize, len(p))
			}
			if p[2] != heapSignature {
				return nil, formatErr(ErrUnexpectedStructure, "heap", id, "signature", uint8(heapSignature), p[2])
			}
			h.sig = ClientSig(p[3])
			h.root = HID(le.Uint32(p[4:]))
		}

		b, err := parsePageMap(id, it.Index(), p)
		if err != nil {
			return nil, err
		}
		h.blocks = append(h.blocks, b)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	if len(h.blocks) == 0 {
		return nil, corruptf("heap", id, "blocks", 1, 0)
	}

	t.f.sugar.Debugw("heap",
		"bid", t.BID(),
		"client", h.sig,
		"root", h.root,
		"blocks", len(h.blocks),
	)
	return h, nil
}

// parsePageMap decodes the HNPAGEMAP of one heap block. Every block header
// (HNHDR, HNPAGEHDR, HNBITMAPHDR) starts with the page map offset.
func parsePageMap(id uint64, index int, p []byte) (heapBlock, error) {
	if len(p) < 2 {
		return heapBlock{}, corruptf("heap", id, fmt.Sprintf("block %d size", index), 2, len(p))
	}

	ib := int(le.Uint16(p))
	if ib+heapPageMapHeader > len(p) {
		return heapBlock{}, corruptf("heap", id, fmt.Sprintf("block %d page map offset", index), len(p)-heapPageMapHeader, ib)
	}

	cAlloc := int(le.Uint16(p[ib:]))
	end := ib + heapPageMapHeader + 2*(cAlloc+1)
	if end > len(p) {
		return heapBlock{}, corruptf("heap", id, fmt.Sprintf("block %d allocation count", index), (len(p)-ib-heapPageMapHeader)/2-1, cAlloc)
	}

	allocs := make([]uint16, cAlloc+1)
	prev := uint16(0)
	for i := range allocs {
		off := le.Uint16(p[ib+heapPageMapHeader+2*i:])
		if off < prev || int(off) > ib {
			return heapBlock{}, corruptf("heap", id, fmt.Sprintf("block %d allocation %d offset", index, i), nil, off)
		}
		allocs[i], prev = off, off
	}
	return heapBlock{data: p, allocs: allocs}, nil
}

// ClientSignature returns the type of structure stored in the heap.
func (h *HeapOnNode) ClientSignature() ClientSig { return h.sig }

// UserRoot returns the HID of the client's root allocation.
func (h *HeapOnNode) UserRoot() HID { return h.root }

// NumBlocks returns the number of heap blocks.
func (h *HeapOnNode) NumBlocks() int { return len(h.blocks) }

// NumAllocations returns the number of allocations in block i.
func (h *HeapOnNode) NumAllocations(i int) int {
	if i < 0 || i >= len(h.blocks) {
		return 0
	}
	return len(h.blocks[i].allocs) - 1
}

// HeapData returns the bytes of the allocation hid, or nil if hid does not
// address an allocation of this heap. The result must not be modified.
func (h *HeapOnNode) HeapData(hid HID) []byte {
	if hid.Type() != NIDTypeHID || hid.Index() == 0 {
		return nil
	}

	bi := hid.BlockIndex()
	if bi >= len(h.blocks) {
		return nil
	}

	b := h.blocks[bi]
	i := hid.Index()
	if i >= len(b.allocs) {
		return nil
	}
	return b.data[b.allocs[i-1]:b.allocs[i]:b.allocs[i]]
}

// readHNID returns the bytes an HNID refers to: a heap allocation or the data
// of a sub-node. A nil result with a nil error means absent.
func (h *HeapOnNode) readHNID(hnid uint32, sub *SubnodeBTree) ([]byte, error) {
	if isHeapRef(hnid) {
		return h.HeapData(HID(hnid)), nil
	}

	nid := NID(hnid)
	if sub == nil {
		return nil, corruptf("subnode", uint64(nid), "no subnode tree", nil, nil)
	}
	t, err := sub.DataTree(nid)
	if err == ErrNotFound {
		return nil, corruptf("subnode", uint64(nid), "not in subnode tree", nil, nil)
	} else if err != nil {
		return nil, err
	}
	return t.Bytes()
}
