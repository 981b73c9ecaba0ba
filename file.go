package pst

import (
	"bytes"
	"errors"
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

var errMmapUnsupported = errors.New("pst: mmap unsupported")

// File is an open PST file. All structures obtained from a File are
// read-only views that are decoded on demand; nothing is cached between
// calls. A File may be shared between goroutines only if the underlying
// io.ReaderAt supports parallel ReadAt calls.
type File struct {
	r     io.ReaderAt
	h     *Header
	o     *Options
	sugar *zap.SugaredLogger

	close func() error
}

// Open opens the named file.
func Open(name string, o *Options) (*File, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	o = o.norm()
	if o.Mmap {
		if f, err := openMapped(fd, o); err != errMmapUnsupported {
			return f, err
		}
	}
	return openDirect(fd, o)
}

func openDirect(fd *os.File, o *Options) (*File, error) {
	f, err := NewFile(fd, o)
	if err != nil {
		_ = fd.Close()
		return nil, err
	}
	f.close = fd.Close
	return f, nil
}

func openMapped(fd *os.File, o *Options) (*File, error) {
	fi, err := fd.Stat()
	if err != nil {
		_ = fd.Close()
		return nil, err
	}

	data, err := mmapFile(fd, fi.Size())
	if err == errMmapUnsupported {
		return nil, err
	} else if err != nil {
		_ = fd.Close()
		return nil, pkgerrors.Wrapf(err, "pst: mmap %s", fd.Name())
	}

	f, err := NewFile(bytes.NewReader(data), o)
	if err != nil {
		_ = munmap(data)
		_ = fd.Close()
		return nil, err
	}
	f.close = func() error {
		err := munmap(data)
		if e2 := fd.Close(); err == nil {
			err = e2
		}
		return err
	}
	return f, nil
}

// NewFile wraps a reader and parses the file header.
func NewFile(r io.ReaderAt, o *Options) (*File, error) {
	o = o.norm()

	h, err := readHeader(r, !o.SkipChecksums)
	if err != nil {
		return nil, err
	}

	f := &File{
		r:     r,
		h:     h,
		o:     o,
		sugar: o.Logger.Sugar(),
	}
	f.sugar.Debugw("opened",
		"format", h.Format,
		"version", h.Version,
		"crypt", h.Crypt,
		"nbt", h.NodeBTree,
		"bbt", h.BlockBTree,
	)
	return f, nil
}

// Close releases the file. Structures obtained from the file must not be
// used afterwards.
func (f *File) Close() error {
	if f.r == nil {
		return errClosed
	}
	f.r = nil

	if f.close != nil {
		return f.close()
	}
	return nil
}

// Header returns a copy of the parsed file header.
func (f *File) Header() Header { return *f.h }

// Format returns the on-disk generation.
func (f *File) Format() Format { return f.h.Format }

// NodeBTree returns the file's node B-tree.
func (f *File) NodeBTree() *NodeBTree {
	return &NodeBTree{t: btree{root: f.h.NodeBTree, load: f.pageLoader(ptypeNBT, nodeEntryKind{})}}
}

// BlockBTree returns the file's block B-tree.
func (f *File) BlockBTree() *BlockBTree {
	return &BlockBTree{t: btree{root: f.h.BlockBTree, load: f.pageLoader(ptypeBBT, blockEntryKind{})}}
}

// HeapOnNode decodes the heap stored in the data of a top-level node.
func (f *File) HeapOnNode(nid NID) (*HeapOnNode, error) {
	ne, err := f.NodeBTree().Find(nid)
	if err != nil {
		return nil, err
	}
	t, err := f.DataTree(ne.DataBID)
	if err != nil {
		return nil, err
	}
	return NewHeapOnNode(t)
}

// TableContext decodes the table context stored in a top-level node.
func (f *File) TableContext(nid NID) (*TableContext, error) {
	hn, sub, err := f.nodeParts(nid)
	if err != nil {
		return nil, err
	}
	return NewTableContext(hn, sub)
}

// PropertyContext decodes the property context stored in a top-level node.
func (f *File) PropertyContext(nid NID) (*PropertyContext, error) {
	hn, sub, err := f.nodeParts(nid)
	if err != nil {
		return nil, err
	}
	return NewPropertyContext(hn, sub)
}

func (f *File) nodeParts(nid NID) (*HeapOnNode, *SubnodeBTree, error) {
	ne, err := f.NodeBTree().Find(nid)
	if err != nil {
		return nil, nil, err
	}

	t, err := f.DataTree(ne.DataBID)
	if err != nil {
		return nil, nil, err
	}
	hn, err := NewHeapOnNode(t)
	if err != nil {
		return nil, nil, err
	}

	var sub *SubnodeBTree
	if !ne.SubnodeBID.IsZero() {
		if sub, err = f.SubnodeBTree(ne.SubnodeBID); err != nil {
			return nil, nil, err
		}
	}
	return hn, sub, nil
}

// readAt reads exactly len(p) bytes at off.
func (f *File) readAt(p []byte, off int64) error {
	if f.r == nil {
		return errClosed
	}
	if n, err := f.r.ReadAt(p, off); n < len(p) {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return pkgerrors.Wrapf(err, "pst: read %d bytes at %d", len(p), off)
	}
	return nil
}
