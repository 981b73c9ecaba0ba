package pst

import "sort"

// TCINFO layout.
const (
	tcInfoSize    = 22
	tcColDescSize = 8

	tci4b = 0 // end of 8 and 4 byte columns
	tci2b = 1 // end of 2 byte columns
	tci1b = 2 // end of 1 byte columns
	tcibm = 3 // end of the cell existence bitmap, i.e. the row width
)

// ColumnDesc describes a table column.
type ColumnDesc struct {
	Tag    PropTag
	Offset int // offset of the cell in the row
	Width  int // width of the cell in the row
	Bit    int // index into the cell existence bitmap
}

// TableContext is a table of rows and property columns decoded from a heap.
// All rows are decoded on construction; absent cells are nil.
type TableContext struct {
	hn  *HeapOnNode
	sub *SubnodeBTree

	cols  []ColumnDesc
	index *BTreeOnHeap
	rows  [][]interface{}

	rowWidth  int
	cebOffset int
	cebSize   int
}

// NewTableContext decodes the table stored in hn. Cells promoted to
// sub-nodes are resolved through sub, which may be nil if the node has
// none.
func NewTableContext(hn *HeapOnNode, sub *SubnodeBTree) (*TableContext, error) {
	root := hn.UserRoot()
	id := uint64(root)

	if sig := hn.ClientSignature(); sig != ClientSigTC {
		return nil, formatErr(ErrUnexpectedStructure, "table", id, "client signature", ClientSigTC, sig)
	}

	p := hn.HeapData(root)
	if len(p) < tcInfoSize {
		return nil, corruptf("table", id, "header size", tcInfoSize, len(p))
	}
	if sig := ClientSig(p[0]); sig != ClientSigTC {
		return nil, formatErr(ErrUnexpectedStructure, "table", id, "type", ClientSigTC, sig)
	}

	var rgib [4]int
	for i := range rgib {
		rgib[i] = int(le.Uint16(p[2+2*i:]))
	}
	hidRowIndex := HID(le.Uint32(p[10:]))
	hnidRows := le.Uint32(p[14:])

	nCols := int(p[1])
	if n := tcInfoSize + nCols*tcColDescSize; len(p) < n {
		return nil, corruptf("table", id, "header size", n, len(p))
	}

	tc := &TableContext{
		hn:        hn,
		sub:       sub,
		cols:      make([]ColumnDesc, nCols),
		rowWidth:  rgib[tcibm],
		cebOffset: rgib[tci1b],
		cebSize:   (nCols + 7) / 8,
	}
	for i := range tc.cols {
		c := p[tcInfoSize+i*tcColDescSize:]
		tc.cols[i] = ColumnDesc{
			Tag:    PropTag(le.Uint32(c)),
			Offset: int(le.Uint16(c[4:])),
			Width:  int(c[6]),
			Bit:    int(c[7]),
		}
	}
	sort.SliceStable(tc.cols, func(i, j int) bool {
		return tc.cols[i].Offset < tc.cols[j].Offset
	})

	if err := tc.validateLayout(id, rgib); err != nil {
		return nil, err
	}

	index, err := NewBTreeOnHeap(hn, hidRowIndex)
	if err != nil {
		return nil, err
	}
	nRows, err := index.NumLeafNodes()
	if err != nil {
		return nil, err
	}
	tc.index = index
	tc.rows = make([][]interface{}, 0, nRows)

	switch {
	case nRows == 0:
	case hnidRows == 0:
		return nil, formatErr(ErrUnparseableTable, "table", id, "row data", nRows, 0)
	case isHeapRef(hnidRows):
		err = tc.readHeapRows(HID(hnidRows), nRows)
	default:
		err = tc.readSubnodeRows(NID(hnidRows), nRows)
	}
	if err != nil {
		return nil, err
	}

	hn.t.f.sugar.Debugw("table",
		"bid", hn.t.BID(),
		"columns", len(tc.cols),
		"rows", len(tc.rows),
		"width", tc.rowWidth,
		"rows_in_subnode", !isHeapRef(hnidRows),
	)
	return tc, nil
}

func (tc *TableContext) validateLayout(id uint64, rgib [4]int) error {
	for i := 1; i < len(rgib); i++ {
		if rgib[i] < rgib[i-1] {
			return formatErr(ErrUnparseableTable, "table", id, "row layout offsets", rgib[i-1], rgib[i])
		}
	}
	if n := rgib[tcibm] - rgib[tci1b]; n < tc.cebSize {
		return formatErr(ErrUnparseableTable, "table", id, "cell existence bitmap size", tc.cebSize, n)
	}

	for _, c := range tc.cols {
		if c.Offset+c.Width > tc.cebOffset {
			return formatErr(ErrUnparseableTable, "table", id, "column "+c.Tag.String()+" end", tc.cebOffset, c.Offset+c.Width)
		}
		if c.Bit >= tc.cebSize*8 {
			return formatErr(ErrUnparseableTable, "table", id, "column "+c.Tag.String()+" bit", tc.cebSize*8, c.Bit)
		}
		if !c.Tag.Type().inline(c.Width) && c.Width != 4 {
			return formatErr(ErrUnparseableTable, "table", id, "column "+c.Tag.String()+" width", 4, c.Width)
		}
	}
	return nil
}

// rowStride returns the number of rows that fit a block and the padding
// that follows them.
func (tc *TableContext) rowStride() (perBlock, padding int) {
	capacity := maxBlockBytes - tc.hn.t.f.h.Format.blockTrailerSize()
	perBlock = capacity / tc.rowWidth
	return perBlock, capacity - perBlock*tc.rowWidth
}

// readHeapRows decodes rows packed into a single heap allocation.
func (tc *TableContext) readHeapRows(hid HID, n int) error {
	id := uint64(hid)
	if tc.rowWidth == 0 {
		return formatErr(ErrUnparseableTable, "table", id, "row width", nil, 0)
	}

	data := tc.hn.HeapData(hid)
	if data == nil {
		return formatErr(ErrUnparseableTable, "table", id, "row data", n, 0)
	}

	perBlock, padding := tc.rowStride()
	if perBlock == 0 {
		return formatErr(ErrUnparseableTable, "table", id, "row width", maxBlockBytes, tc.rowWidth)
	}

	// A heap allocation is smaller than a block, so real files never reach
	// the first stride boundary; the layout is still the block layout.
	rows, want := strideRows(data, n, tc.rowWidth, perBlock, padding)
	if rows == nil {
		return formatErr(ErrUnparseableTable, "table", id, "row data size", want, len(data))
	}
	for _, p := range rows {
		if err := tc.appendRow(p); err != nil {
			return err
		}
	}
	return nil
}

// strideRows cuts n rows of width bytes out of p, skipping padding bytes
// after every perBlock rows. It returns nil and the expected size of p if
// the size does not match.
func strideRows(p []byte, n, width, perBlock, padding int) ([][]byte, int) {
	want := n*width + (n-1)/perBlock*padding
	if n == 0 || len(p) != want {
		return nil, want
	}

	rows := make([][]byte, n)
	off := 0
	for r := range rows {
		if r > 0 && r%perBlock == 0 {
			off += padding
		}
		rows[r] = p[off : off+width : off+width]
		off += width
	}
	return rows, want
}

// readSubnodeRows decodes rows streamed from the data of a sub-node. Rows
// never span blocks.
func (tc *TableContext) readSubnodeRows(nid NID, n int) error {
	id := uint64(nid)
	if tc.rowWidth == 0 {
		return formatErr(ErrUnparseableTable, "table", id, "row width", nil, 0)
	}
	if tc.sub == nil {
		return corruptf("subnode", id, "no subnode tree", nil, nil)
	}

	t, err := tc.sub.DataTree(nid)
	if err == ErrNotFound {
		return corruptf("subnode", id, "not in subnode tree", nil, nil)
	} else if err != nil {
		return err
	}

	it := t.Iterator()
	for it.Next() {
		for p := it.Bytes(); len(p) >= tc.rowWidth; p = p[tc.rowWidth:] {
			if len(tc.rows) == n {
				return formatErr(ErrUnparseableTable, "table", id, "row count", n, "more")
			}
			if err := tc.appendRow(p[:tc.rowWidth]); err != nil {
				return err
			}
		}
	}
	if err := it.Err(); err != nil {
		return err
	}

	if len(tc.rows) != n {
		return formatErr(ErrUnparseableTable, "table", id, "row count", n, len(tc.rows))
	}
	return nil
}

func (tc *TableContext) appendRow(p []byte) error {
	ceb := p[tc.cebOffset : tc.cebOffset+tc.cebSize]
	row := make([]interface{}, len(tc.cols))

	for i, c := range tc.cols {
		if ceb[c.Bit/8]&(0x80>>uint(c.Bit%8)) == 0 {
			continue
		}

		v, err := tc.decodeCell(c, p[c.Offset:c.Offset+c.Width])
		if err != nil {
			return err
		}
		row[i] = v
	}

	tc.rows = append(tc.rows, row)
	return nil
}

func (tc *TableContext) decodeCell(c ColumnDesc, p []byte) (interface{}, error) {
	if c.Tag.Type().inline(c.Width) {
		return decodeValue(c.Tag, p)
	}

	data, err := tc.hn.readHNID(le.Uint32(p), tc.sub)
	if err != nil || data == nil {
		return nil, err
	}
	return decodeValue(c.Tag, data)
}

// ColumnCount returns the number of columns.
func (tc *TableContext) ColumnCount() int { return len(tc.cols) }

// Column returns the i-th column, in row layout order.
func (tc *TableContext) Column(i int) ColumnDesc { return tc.cols[i] }

// ColumnName returns the name of the i-th column's property tag.
func (tc *TableContext) ColumnName(i int) string { return tc.cols[i].Tag.String() }

// ColumnIndex returns the index of the column with the given tag, or -1.
func (tc *TableContext) ColumnIndex(tag PropTag) int {
	for i, c := range tc.cols {
		if c.Tag == tag {
			return i
		}
	}
	return -1
}

// RowCount returns the number of rows.
func (tc *TableContext) RowCount() int { return len(tc.rows) }

// Value returns the value of a cell and whether it is present.
func (tc *TableContext) Value(row, col int) (interface{}, bool) {
	if row < 0 || row >= len(tc.rows) || col < 0 || col >= len(tc.cols) {
		return nil, false
	}
	v := tc.rows[row][col]
	return v, v != nil
}

// Get returns the value of the cell in the column with the given tag.
func (tc *TableContext) Get(row int, tag PropTag) (interface{}, bool) {
	return tc.Value(row, tc.ColumnIndex(tag))
}

// RowIndex returns the position of the row with the given row ID, or
// ErrNotFound.
func (tc *TableContext) RowIndex(rowID uint32) (int, error) {
	p, err := tc.index.Find(uint64(rowID))
	if err != nil {
		return 0, err
	}

	switch len(p) {
	case 2:
		return int(le.Uint16(p)), nil
	case 4:
		return int(le.Uint32(p)), nil
	}
	return 0, corruptf("table", uint64(rowID), "row index entry size", 4, len(p))
}
