package pst

import "sort"

// PropertyContext is a set of properties keyed by property ID, decoded
// from a BTree-on-heap.
type PropertyContext struct {
	tags   []PropTag
	values map[PropTag]interface{}
}

// NewPropertyContext decodes the property context stored in hn. Values
// promoted to sub-nodes are resolved through sub, which may be nil.
func NewPropertyContext(hn *HeapOnNode, sub *SubnodeBTree) (*PropertyContext, error) {
	root := hn.UserRoot()
	id := uint64(root)

	if sig := hn.ClientSignature(); sig != ClientSigPC {
		return nil, formatErr(ErrUnexpectedStructure, "property context", id, "client signature", ClientSigPC, sig)
	}

	b, err := NewBTreeOnHeap(hn, root)
	if err != nil {
		return nil, err
	}
	if b.KeySize() != 2 || b.DataSize() != 6 {
		return nil, formatErr(ErrUnexpectedStructure, "property context", id, "record layout", "2+6", b.KeySize()+b.DataSize())
	}

	pc := &PropertyContext{values: make(map[PropTag]interface{})}

	it := b.Iterator()
	for it.Next() {
		rec := it.Value()
		tag := MakePropTag(uint16(it.Key()), PropType(le.Uint16(rec)))
		slot := rec[2:6]

		var v interface{}
		if tag.Type().inSlot() {
			v, err = decodeValue(tag, slot)
		} else {
			var data []byte
			if data, err = hn.readHNID(le.Uint32(slot), sub); err == nil && data != nil {
				v, err = decodeValue(tag, data)
			}
		}
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}

		pc.tags = append(pc.tags, tag)
		pc.values[tag] = v
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	sort.Slice(pc.tags, func(i, j int) bool { return pc.tags[i] < pc.tags[j] })

	hn.t.f.sugar.Debugw("property context",
		"bid", hn.t.BID(),
		"properties", len(pc.tags),
	)
	return pc, nil
}

// Len returns the number of present properties.
func (pc *PropertyContext) Len() int { return len(pc.tags) }

// Tags returns the tags of all present properties in ascending order.
func (pc *PropertyContext) Tags() []PropTag {
	return append([]PropTag(nil), pc.tags...)
}

// Get returns the value of the property with the given tag and whether it
// is present.
func (pc *PropertyContext) Get(tag PropTag) (interface{}, bool) {
	v, ok := pc.values[tag]
	return v, ok
}
