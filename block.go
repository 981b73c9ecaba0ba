package pst

// ReadBlock returns the decoded data of a simple block. Internal BIDs are
// rejected; use DataTree to reconstruct them.
func (f *File) ReadBlock(bid BID) ([]byte, error) {
	if bid.Internal() {
		return nil, formatErr(ErrUnexpectedStructure, "block", uint64(bid), "internal bid where a simple block is required", nil, nil)
	}

	e, err := f.resolve(bid)
	if err != nil {
		return nil, err
	}
	return f.readBlock(e, true)
}

// resolve looks bid up in the block B-tree. A BID referenced by the file
// itself must always resolve.
func (f *File) resolve(bid BID) (*BlockEntry, error) {
	e, err := f.BlockBTree().Find(bid)
	if err == ErrNotFound {
		return nil, corruptf("block", uint64(bid), "not in block b-tree", nil, nil)
	}
	return e, err
}

// readBlock reads and verifies the block described by e. Data of simple
// blocks is decoded when decode is set; internal blocks are never encoded.
func (f *File) readBlock(e *BlockEntry, decode bool) ([]byte, error) {
	format := f.h.Format
	id := uint64(e.Ref.BID)

	if e.Size > format.maxBlockData() {
		return nil, corruptf("block", id, "size", format.maxBlockData(), e.Size)
	}

	size := format.blockSize(e.Size)
	p := make([]byte, size)
	if err := f.readAt(p, e.Ref.Offset); err != nil {
		return nil, err
	}

	tr := p[size-format.blockTrailerSize():]
	cb := int(le.Uint16(tr))
	sig := le.Uint16(tr[2:])

	var crc uint32
	var bid BID
	if format == Unicode {
		crc, bid = le.Uint32(tr[4:]), BID(le.Uint64(tr[8:]))
	} else {
		bid, crc = BID(le.Uint32(tr[4:])), le.Uint32(tr[8:])
	}

	if cb != e.Size {
		return nil, corruptf("block", id, "trailer size", e.Size, cb)
	}
	if bid.key() != e.Ref.BID.key() {
		return nil, corruptf("block", id, "trailer bid", e.Ref.BID, bid)
	}

	data := p[:cb:cb]
	if !f.o.SkipChecksums {
		if actual := computeCRC(data); actual != crc {
			return nil, corruptf("block", id, "crc", crc, actual)
		}
		if actual := computeSig(e.Ref.Offset, bid); actual != sig {
			return nil, corruptf("block", id, "signature", sig, actual)
		}
	}

	if decode && !e.Ref.BID.Internal() {
		decodeBlock(f.h.Crypt, e.Ref.BID, data)
	}
	return data, nil
}
