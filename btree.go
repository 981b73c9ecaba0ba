package pst

import "sort"

// Entry is a leaf record of one of the B-trees.
type Entry interface {
	// Key returns the search key of the entry.
	Key() uint64
}

// entryKind decodes one fixed-size entry variant. Each tree supplies the
// variants it stores at the leaf and intermediate levels.
type entryKind interface {
	entrySize(f Format) int
	decode(f Format, p []byte) Entry
}

// childEntry is an intermediate entry pointing at the next level down.
type childEntry interface {
	Entry
	childRef() BlockRef
}

// btNode is one decoded page or block of a tree.
type btNode struct {
	ref     BlockRef
	level   int
	entries []Entry
}

// nodeLoader loads the tree node at ref.
type nodeLoader func(ref BlockRef) (*btNode, error)

// btree is the traversal engine shared by the node, block and sub-node
// B-trees.
type btree struct {
	root BlockRef
	load nodeLoader
}

// find descends to the last entry with a key <= key at each level and
// requires an exact match at the leaf.
func (t *btree) find(key uint64) (Entry, error) {
	n, err := t.load(t.root)
	if err != nil {
		return nil, err
	}

	for {
		pos := sort.Search(len(n.entries), func(i int) bool {
			return n.entries[i].Key() > key
		}) - 1
		if pos < 0 {
			return nil, ErrNotFound
		}

		ent := n.entries[pos]
		if n.level == 0 {
			if ent.Key() != key {
				return nil, ErrNotFound
			}
			return ent, nil
		}

		if n, err = t.child(n, ent); err != nil {
			return nil, err
		}
	}
}

func (t *btree) child(parent *btNode, ent Entry) (*btNode, error) {
	ref := ent.(childEntry).childRef()
	n, err := t.load(ref)
	if err != nil {
		return nil, err
	}
	if n.level != parent.level-1 {
		return nil, corruptf("tree node", uint64(ref.BID), "level", parent.level-1, n.level)
	}
	return n, nil
}

func (t *btree) iterator() *Iterator {
	return &Iterator{t: t}
}

// --------------------------------------------------------------------

type iterFrame struct {
	n   *btNode
	pos int
}

// Iterator walks the leaf entries of a tree in ascending key order. Nodes
// are loaded lazily, each one once. Iterators are forward-only.
type Iterator struct {
	t     *btree
	stack []iterFrame
	cur   Entry
	init  bool
	err   error
}

// Next advances to the next leaf entry and returns true if successful.
func (i *Iterator) Next() bool {
	if i.err != nil {
		return false
	}

	if !i.init {
		i.init = true
		n, err := i.t.load(i.t.root)
		if err != nil {
			i.err = err
			return false
		}
		i.stack = append(i.stack, iterFrame{n: n})
	}

	for len(i.stack) != 0 {
		top := &i.stack[len(i.stack)-1]
		if top.pos >= len(top.n.entries) {
			i.stack = i.stack[:len(i.stack)-1]
			continue
		}

		ent := top.n.entries[top.pos]
		top.pos++

		if top.n.level == 0 {
			i.cur = ent
			return true
		}

		n, err := i.t.child(top.n, ent)
		if err != nil {
			i.err = err
			return false
		}
		i.stack = append(i.stack, iterFrame{n: n})
	}

	i.cur = nil
	return false
}

// Entry returns the current entry.
func (i *Iterator) Entry() Entry { return i.cur }

// Key returns the key of the current entry.
func (i *Iterator) Key() uint64 {
	if i.cur == nil {
		return 0
	}
	return i.cur.Key()
}

// Err exposes iterator errors, if any.
func (i *Iterator) Err() error { return i.err }
