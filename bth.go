package pst

import "sort"

const bthHeaderSize = 8

// BTreeOnHeap is a sorted index of fixed-size records embedded in a heap.
// Leaf records hold a key and cbEnt bytes of data; intermediate records hold
// the minimum key of a child and the child's HID.
type BTreeOnHeap struct {
	hn     *HeapOnNode
	cbKey  int
	cbEnt  int
	levels int
	root   HID
}

// NewBTreeOnHeap decodes the BTH header stored at hid.
func NewBTreeOnHeap(hn *HeapOnNode, hid HID) (*BTreeOnHeap, error) {
	p := hn.HeapData(hid)
	if p == nil {
		return nil, corruptf("bth", uint64(hid), "header allocation", nil, nil)
	}
	if len(p) < bthHeaderSize {
		return nil, corruptf("bth", uint64(hid), "header size", bthHeaderSize, len(p))
	}
	if p[0] != bthSignature {
		return nil, formatErr(ErrUnexpectedStructure, "bth", uint64(hid), "type", ClientSigBTH, ClientSig(p[0]))
	}

	b := &BTreeOnHeap{
		hn:     hn,
		cbKey:  int(p[1]),
		cbEnt:  int(p[2]),
		levels: int(p[3]),
		root:   HID(le.Uint32(p[4:])),
	}
	switch b.cbKey {
	case 1, 2, 4, 8:
	default:
		return nil, formatErr(ErrUnexpectedStructure, "bth", uint64(hid), "key size", "1, 2, 4 or 8", b.cbKey)
	}
	if b.cbEnt == 0 {
		return nil, corruptf("bth", uint64(hid), "record size", nil, 0)
	}
	return b, nil
}

// KeySize returns the size of a key in bytes.
func (b *BTreeOnHeap) KeySize() int { return b.cbKey }

// DataSize returns the size of the data of a leaf record in bytes.
func (b *BTreeOnHeap) DataSize() int { return b.cbEnt }

// Levels returns the number of intermediate levels.
func (b *BTreeOnHeap) Levels() int { return b.levels }

func (b *BTreeOnHeap) key(rec []byte) uint64 {
	switch b.cbKey {
	case 1:
		return uint64(rec[0])
	case 2:
		return uint64(le.Uint16(rec))
	case 4:
		return uint64(le.Uint32(rec))
	}
	return le.Uint64(rec)
}

func (b *BTreeOnHeap) recordSize(level int) int {
	if level == 0 {
		return b.cbKey + b.cbEnt
	}
	return b.cbKey + 4
}

// records returns the record array stored at hid.
func (b *BTreeOnHeap) records(hid HID, level int) ([]byte, int, error) {
	p := b.hn.HeapData(hid)
	if p == nil {
		return nil, 0, corruptf("bth node", uint64(hid), "allocation", nil, nil)
	}

	size := b.recordSize(level)
	if len(p)%size != 0 {
		return nil, 0, corruptf("bth node", uint64(hid), "allocation size", "multiple of record size", len(p))
	}
	return p, len(p) / size, nil
}

// Find returns the data of the leaf record with the given key or
// ErrNotFound.
func (b *BTreeOnHeap) Find(key uint64) ([]byte, error) {
	if b.root == 0 {
		return nil, ErrNotFound
	}

	hid := b.root
	for level := b.levels; ; level-- {
		p, n, err := b.records(hid, level)
		if err != nil {
			return nil, err
		}

		size := b.recordSize(level)
		pos := sort.Search(n, func(i int) bool {
			return b.key(p[i*size:]) > key
		}) - 1
		if pos < 0 {
			return nil, ErrNotFound
		}

		rec := p[pos*size : (pos+1)*size]
		if level == 0 {
			if b.key(rec) != key {
				return nil, ErrNotFound
			}
			return rec[b.cbKey:], nil
		}
		hid = HID(le.Uint32(rec[b.cbKey:]))
	}
}

// NumLeafNodes returns the number of leaf records. Only intermediate records
// are decoded.
func (b *BTreeOnHeap) NumLeafNodes() (int, error) {
	if b.root == 0 {
		return 0, nil
	}
	return b.count(b.root, b.levels)
}

func (b *BTreeOnHeap) count(hid HID, level int) (int, error) {
	p, n, err := b.records(hid, level)
	if err != nil || level == 0 {
		return n, err
	}

	size, sum := b.recordSize(level), 0
	for i := 0; i < n; i++ {
		c, err := b.count(HID(le.Uint32(p[i*size+b.cbKey:])), level-1)
		if err != nil {
			return 0, err
		}
		sum += c
	}
	return sum, nil
}

// Iterator returns an iterator over the leaf records in key order.
func (b *BTreeOnHeap) Iterator() *BTHIterator {
	return &BTHIterator{b: b}
}

// --------------------------------------------------------------------

type bthFrame struct {
	p     []byte
	n     int
	pos   int
	level int
}

// BTHIterator walks the leaf records of a BTreeOnHeap.
type BTHIterator struct {
	b     *BTreeOnHeap
	stack []bthFrame
	rec   []byte
	init  bool
	err   error
}

// Next advances to the next record and returns true if successful.
func (i *BTHIterator) Next() bool {
	if i.err != nil {
		return false
	}
	if !i.init {
		i.init = true
		if i.b.root != 0 && !i.push(i.b.root, i.b.levels) {
			return false
		}
	}

	for len(i.stack) != 0 {
		top := &i.stack[len(i.stack)-1]
		if top.pos >= top.n {
			i.stack = i.stack[:len(i.stack)-1]
			continue
		}

		size := i.b.recordSize(top.level)
		rec := top.p[top.pos*size : (top.pos+1)*size]
		top.pos++

		if top.level == 0 {
			i.rec = rec
			return true
		}
		if !i.push(HID(le.Uint32(rec[i.b.cbKey:])), top.level-1) {
			return false
		}
	}

	i.rec = nil
	return false
}

func (i *BTHIterator) push(hid HID, level int) bool {
	p, n, err := i.b.records(hid, level)
	if err != nil {
		i.err = err
		return false
	}
	i.stack = append(i.stack, bthFrame{p: p, n: n, level: level})
	return true
}

// Key returns the key of the current record.
func (i *BTHIterator) Key() uint64 {
	if i.rec == nil {
		return 0
	}
	return i.b.key(i.rec)
}

// Value returns the data of the current record.
func (i *BTHIterator) Value() []byte {
	if i.rec == nil {
		return nil
	}
	return i.rec[i.b.cbKey:]
}

// Err exposes iterator errors, if any.
func (i *BTHIterator) Err() error { return i.err }
