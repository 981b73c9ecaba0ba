package pst

// page field offsets by generation
type pageLayout struct {
	entries int // size of the entry area
	meta    int // cEnt, cEntMax, cbEnt, cLevel
	trailer int
	sig     int
	crc     int
	bid     int
}

var (
	ansiPage    = pageLayout{entries: 496, meta: 496, trailer: 500, sig: 502, bid: 504, crc: 508}
	unicodePage = pageLayout{entries: 488, meta: 488, trailer: 496, sig: 498, crc: 500, bid: 504}
)

func (f Format) pageLayout() *pageLayout {
	if f == Unicode {
		return &unicodePage
	}
	return &ansiPage
}

// pageRefKind decodes BTENTRY records of intermediate pages.
type pageRefKind struct{}

type pageRef struct {
	key uint64
	ref BlockRef
}

func (e *pageRef) Key() uint64         { return e.key }
func (e *pageRef) childRef() BlockRef { return e.ref }

func (pageRefKind) entrySize(f Format) int { return 3 * f.bidSize() }

func (pageRefKind) decode(f Format, p []byte) Entry {
	n := f.bidSize()
	return &pageRef{
		key: uint64(f.readBID(p)),
		ref: BlockRef{BID: f.readBID(p[n:]), Offset: f.readIB(p[2*n:])},
	}
}

// pageLoader reads the 512-byte pages of the node and block B-trees.
func (f *File) pageLoader(ptype uint8, leaf entryKind) nodeLoader {
	format := f.h.Format
	layout := format.pageLayout()

	return func(ref BlockRef) (*btNode, error) {
		p := fetchBuffer(pageSize)
		defer releaseBuffer(p)

		if err := f.readAt(p, ref.Offset); err != nil {
			return nil, err
		}

		id := uint64(ref.BID)
		if t, rt := p[layout.trailer], p[layout.trailer+1]; t != ptype || rt != ptype {
			return nil, formatErr(ErrUnexpectedStructure, "page", id, "ptype", ptype, t)
		}
		if bid := format.readBID(p[layout.bid:]); bid != ref.BID {
			return nil, corruptf("page", id, "trailer bid", ref.BID, bid)
		}
		if !f.o.SkipChecksums {
			if crc, stored := computeCRC(p[:layout.trailer]), le.Uint32(p[layout.crc:]); crc != stored {
				return nil, corruptf("page", id, "crc", stored, crc)
			}
			if sig, stored := computeSig(ref.Offset, ref.BID), le.Uint16(p[layout.sig:]); sig != stored {
				return nil, corruptf("page", id, "signature", stored, sig)
			}
		}

		cEnt := int(p[layout.meta])
		cEntMax := int(p[layout.meta+1])
		cbEnt := int(p[layout.meta+2])
		level := int(p[layout.meta+3])

		kind := leaf
		if level != 0 {
			kind = pageRefKind{}
		}
		if size := kind.entrySize(format); cbEnt != size {
			return nil, corruptf("page", id, "entry size", size, cbEnt)
		}
		if cEnt > cEntMax || cEnt*cbEnt > layout.entries {
			return nil, corruptf("page", id, "entry count", cEntMax, cEnt)
		}

		n := &btNode{ref: ref, level: level, entries: make([]Entry, cEnt)}
		for i := range n.entries {
			n.entries[i] = kind.decode(format, p[i*cbEnt:])
		}
		return n, nil
	}
}
