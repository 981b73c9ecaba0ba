package pst

import "fmt"

// BID identifies a physical block or page. ANSI files store 32 bits,
// Unicode files 64.
type BID uint64

const (
	bidReserved BID = 0x1 // ignored on lookup
	bidInternal BID = 0x2
)

// Internal reports whether the BID references an internal block (an
// XBLOCK/XXBLOCK data tree or other non-data block) rather than a simple data
// block.
func (b BID) Internal() bool { return b&bidInternal != 0 }

// IsZero reports whether b is the null BID.
func (b BID) IsZero() bool { return b == 0 }

func (b BID) key() uint64 { return uint64(b &^ bidReserved) }

func (b BID) String() string { return fmt.Sprintf("0x%x", uint64(b)) }

// BlockRef is a BID together with the absolute file offset of the block.
type BlockRef struct {
	BID    BID
	Offset int64
}

func (r BlockRef) String() string { return fmt.Sprintf("%s@%d", r.BID, r.Offset) }

// --------------------------------------------------------------------

// NIDType is the 5-bit type tag of a NID.
type NIDType uint8

// NID types.
const (
	NIDTypeHID                  NIDType = 0x00
	NIDTypeInternal             NIDType = 0x01
	NIDTypeNormalFolder         NIDType = 0x02
	NIDTypeSearchFolder         NIDType = 0x03
	NIDTypeNormalMessage        NIDType = 0x04
	NIDTypeAttachment           NIDType = 0x05
	NIDTypeSearchUpdateQueue    NIDType = 0x06
	NIDTypeSearchCriteriaObject NIDType = 0x07
	NIDTypeAssocMessage         NIDType = 0x08
	NIDTypeContentsTableIndex   NIDType = 0x0A
	NIDTypeReceiveFolderTable   NIDType = 0x0B
	NIDTypeOutgoingQueueTable   NIDType = 0x0C
	NIDTypeHierarchyTable       NIDType = 0x0D
	NIDTypeContentsTable        NIDType = 0x0E
	NIDTypeAssocContentsTable   NIDType = 0x0F
	NIDTypeSearchContentsTable  NIDType = 0x10
	NIDTypeAttachmentTable      NIDType = 0x11
	NIDTypeRecipientTable       NIDType = 0x12
	NIDTypeSearchTableIndex     NIDType = 0x13
	NIDTypeLTP                  NIDType = 0x1F
)

// NID identifies a logical node, independent of its physical storage.
type NID uint32

// Well-known NIDs.
const (
	NIDMessageStore          NID = 0x21
	NIDNameToIDMap           NID = 0x61
	NIDNormalFolderTemplate  NID = 0xA1
	NIDSearchFolderTemplate  NID = 0xC1
	NIDRootFolder            NID = 0x122
	NIDSearchManagementQueue NID = 0x1E1
	NIDSearchActivityList    NID = 0x201
	NIDHierarchyTableTmpl    NID = 0x60D
	NIDContentsTableTmpl     NID = 0x60E
	NIDAssocContentsTmpl     NID = 0x60F
	NIDSearchContentsTmpl    NID = 0x610
	NIDAttachmentTableTmpl   NID = 0x671
	NIDRecipientTableTmpl    NID = 0x692
)

// MakeNID composes a NID from its type and index.
func MakeNID(t NIDType, index uint32) NID { return NID(index<<5 | uint32(t&0x1f)) }

// Type returns the type tag.
func (n NID) Type() NIDType { return NIDType(n & 0x1f) }

// Index returns the index part.
func (n NID) Index() uint32 { return uint32(n) >> 5 }

func (n NID) String() string { return fmt.Sprintf("0x%x", uint32(n)) }

// --------------------------------------------------------------------

// HID addresses one allocation inside a heap-on-node.
type HID uint32

// MakeHID composes a HID from a block index and a 1-based allocation index.
func MakeHID(block, index int) HID {
	return HID(uint32(block)<<16 | uint32(index&0x7ff)<<5 | uint32(NIDTypeHID))
}

// Type returns the type tag, which is NIDTypeHID for heap references.
func (h HID) Type() NIDType { return NIDType(h & 0x1f) }

// Index returns the 1-based allocation index within the block.
func (h HID) Index() int { return int(h>>5) & 0x7ff }

// BlockIndex returns the heap block the allocation lives in.
func (h HID) BlockIndex() int { return int(h >> 16) }

func (h HID) String() string { return fmt.Sprintf("0x%x", uint32(h)) }

// isHeapRef tells a HID from a sub-node NID inside an HNID.
func isHeapRef(hnid uint32) bool { return NIDType(hnid&0x1f) == NIDTypeHID }
