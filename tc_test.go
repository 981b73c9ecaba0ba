package pst_test

import (
	"errors"
	"time"

	"github.com/bsm/pst"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("TableContext", func() {
	tagFlag := pst.MakePropTag(0x8001, pst.PropTypeInt16)

	present := func(v interface{}, ok bool) interface{} {
		ExpectWithOffset(1, ok).To(BeTrue())
		return v
	}

	rowIndexSize := func(format pst.Format) int {
		if format == pst.Unicode {
			return 4
		}
		return 2
	}

	open := func(x *fixture, h *heapBuilder, sub pst.BID) (*pst.TableContext, error) {
		x.AddHeapNode(messageNID(0), h, sub)

		f, err := x.Open(nil)
		Expect(err).NotTo(HaveOccurred())
		return f.TableContext(messageNID(0))
	}

	DescribeTable("should decode cells by existence bit",
		func(format pst.Format) {
			x := newFixture(format, pst.CryptPermute)
			h := newHeap(pst.ClientSigTC)

			tb := newTable(
				tcCol{Tag: pst.TagMessageSize, Width: 4},
				tcCol{Tag: tagFlag, Width: 2},
				tcCol{Tag: pst.TagSubfolders, Width: 1},
			)
			tb.AddRow(100, map[int][]byte{0: u32(1024), 1: u16(0xBEEF), 2: {1}}, 1) // 0b101
			tb.AddRow(101, map[int][]byte{0: u32(2048), 1: u16(7), 2: {0}})         // 0b111
			tb.Store(h, tb.HeapRows(h), rowIndexSize(format))

			tc, err := open(x, h, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(tc.ColumnCount()).To(Equal(3))
			Expect(tc.RowCount()).To(Equal(2))

			v, ok := tc.Value(0, 1)
			Expect(ok).To(BeFalse())
			Expect(v).To(BeNil())

			Expect(present(tc.Value(1, 1))).To(Equal(int16(7)))

			Expect(present(tc.Value(0, 0))).To(Equal(int32(1024)))
			Expect(present(tc.Get(1, pst.TagMessageSize))).To(Equal(int32(2048)))
			Expect(present(tc.Get(0, pst.TagSubfolders))).To(Equal(true))
			Expect(present(tc.Get(1, pst.TagSubfolders))).To(Equal(false))

			_, ok = tc.Get(0, pst.TagSubject)
			Expect(ok).To(BeFalse())
			_, ok = tc.Value(2, 0)
			Expect(ok).To(BeFalse())
			_, ok = tc.Value(0, 3)
			Expect(ok).To(BeFalse())

			Expect(tc.RowIndex(101)).To(Equal(1))
			_, err = tc.RowIndex(102)
			Expect(err).To(MatchError(pst.ErrNotFound))
		},

		Entry("ANSI", pst.ANSI),
		Entry("Unicode", pst.Unicode),
	)

	It("should sort columns by offset and resolve HNIDs", func() {
		x := newFixture(pst.Unicode, pst.CryptNone)
		h := newHeap(pst.ClientSigTC)

		tb := newTable(
			tcCol{Tag: pst.TagSubfolders, Width: 1},
			tcCol{Tag: pst.TagDisplayName, Width: 4},
			tcCol{Tag: pst.TagLastModificationTime, Width: 8},
			tcCol{Tag: tagFlag, Width: 2},
			tcCol{Tag: pst.TagEntryID, Width: 4},
		)

		blob := chunk(9000, 5)
		blobNID := pst.MakeNID(pst.NIDTypeLTP, 0x40)
		sub := x.AddSubnodeTree(subnodeRec{NID: blobNID, Data: x.AddDataTree(blob[:8000], blob[8000:])})

		name := h.Alloc(utf16le("Inbox"))
		mtime := uint64(132223104000000000)
		tb.AddRow(1, map[int][]byte{
			0: {1},
			1: u32(uint32(name)),
			2: u64(mtime),
			3: u16(3),
			4: u32(uint32(blobNID)),
		})
		tb.AddRow(2, map[int][]byte{
			1: u32(uint32(pst.MakeHID(7, 1))),
			4: u32(0),
		})
		tb.Store(h, tb.HeapRows(h), 4)

		tc, err := open(x, h, sub)
		Expect(err).NotTo(HaveOccurred())
		Expect(tc.ColumnCount()).To(Equal(5))

		var names []string
		for i := 0; i < tc.ColumnCount(); i++ {
			names = append(names, tc.ColumnName(i))
		}
		Expect(names).To(Equal([]string{"DisplayName", "LastModificationTime", "EntryID", "0x80010002", "Subfolders"}))
		Expect(tc.Column(0)).To(Equal(pst.ColumnDesc{Tag: pst.TagDisplayName, Offset: 0, Width: 4, Bit: 1}))
		Expect(tc.ColumnIndex(pst.TagSubfolders)).To(Equal(4))
		Expect(tc.ColumnIndex(pst.TagBody)).To(Equal(-1))

		Expect(present(tc.Get(0, pst.TagDisplayName))).To(Equal("Inbox"))
		Expect(present(tc.Get(0, pst.TagLastModificationTime))).To(Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
		Expect(present(tc.Get(0, tagFlag))).To(Equal(int16(3)))
		Expect(present(tc.Get(0, pst.TagEntryID))).To(Equal(blob))

		// unresolvable HID and null HNID are absent
		_, ok := tc.Get(1, pst.TagDisplayName)
		Expect(ok).To(BeFalse())
		_, ok = tc.Get(1, pst.TagEntryID)
		Expect(ok).To(BeFalse())
		_, ok = tc.Get(1, pst.TagSubfolders)
		Expect(ok).To(BeFalse())
	})

	DescribeTable("should decode narrow cells of other types inline",
		func(width int) {
			x := newFixture(pst.Unicode, pst.CryptNone)
			h := newHeap(pst.ClientSigTC)

			tagOther := pst.MakePropTag(0x8003, pst.PropType(0x0049))
			tagNull := pst.MakePropTag(0x8004, pst.PropTypeNull)
			tb := newTable(
				tcCol{Tag: tagOther, Width: width},
				tcCol{Tag: tagNull, Width: 4},
			)

			hid := h.Alloc([]byte("heap-bytes"))
			other := make([]byte, width)
			other[0] = 7
			tb.AddRow(1, map[int][]byte{0: other, 1: u32(uint32(hid))})
			tb.Store(h, tb.HeapRows(h), 4)

			tc, err := open(x, h, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(present(tc.Get(0, tagOther))).To(Equal(other))
			Expect(present(tc.Get(0, tagNull))).To(Equal(u32(uint32(hid))))
		},

		Entry("2 bytes", 2),
		Entry("4 bytes", 4),
	)

	It("should reject narrow cells of variable types", func() {
		x := newFixture(pst.Unicode, pst.CryptNone)
		h := newHeap(pst.ClientSigTC)

		tb := newTable(tcCol{Tag: pst.TagDisplayName, Width: 2})
		tb.AddRow(1, map[int][]byte{0: u16(1)})
		tb.Store(h, tb.HeapRows(h), 4)

		_, err := open(x, h, 0)
		Expect(errors.Is(err, pst.ErrUnparseableTable)).To(BeTrue())
	})

	It("should skip padding at each row stride", func() {
		p := []byte("aabbcc--ddeeff")
		rows, want := pst.StrideRows(p, 6, 2, 3, 2)
		Expect(want).To(Equal(14))
		Expect(rows).To(Equal([][]byte{
			[]byte("aa"), []byte("bb"), []byte("cc"),
			[]byte("dd"), []byte("ee"), []byte("ff"),
		}))

		rows, want = pst.StrideRows(p[:12], 6, 2, 3, 2)
		Expect(rows).To(BeNil())
		Expect(want).To(Equal(14))

		rows, _ = pst.StrideRows(p[:6], 3, 2, 3, 2)
		Expect(rows).To(HaveLen(3))
	})

	DescribeTable("should stream rows from sub-nodes",
		func(format pst.Format) {
			x := newFixture(format, pst.CryptCyclic)
			h := newHeap(pst.ClientSigTC)

			tb := newTable(
				tcCol{Tag: pst.TagLtpRowID, Width: 4},
				tcCol{Tag: pst.TagLtpRowVer, Width: 4},
			)
			for i := 0; i < 25; i++ {
				tb.AddRow(uint32(1000+i), map[int][]byte{0: u32(uint32(1000 + i)), 1: u32(uint32(i))})
			}

			rowsNID := pst.MakeNID(pst.NIDTypeLTP, 1)
			sub := x.AddSubnodeTree(subnodeRec{NID: rowsNID, Data: x.AddDataTree(tb.RowChunks(10)...)})
			tb.Store(h, uint32(rowsNID), rowIndexSize(format))

			tc, err := open(x, h, sub)
			Expect(err).NotTo(HaveOccurred())
			Expect(tc.RowCount()).To(Equal(25))

			for i := 0; i < 25; i++ {
				Expect(present(tc.Get(i, pst.TagLtpRowID))).To(Equal(int32(1000 + i)))
				Expect(present(tc.Get(i, pst.TagLtpRowVer))).To(Equal(int32(i)))
				Expect(tc.RowIndex(uint32(1000 + i))).To(Equal(i))
			}
		},

		Entry("ANSI", pst.ANSI),
		Entry("Unicode", pst.Unicode),
	)

	It("should support empty tables", func() {
		x := newFixture(pst.Unicode, pst.CryptNone)
		h := newHeap(pst.ClientSigTC)
		tb := newTable(tcCol{Tag: pst.TagDisplayName, Width: 4})
		tb.Store(h, 0, 4)

		tc, err := open(x, h, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(tc.RowCount()).To(Equal(0))
		Expect(tc.ColumnCount()).To(Equal(1))
	})

	Describe("errors", func() {
		var x *fixture
		var h *heapBuilder
		var tb *tableBuilder

		BeforeEach(func() {
			x = newFixture(pst.Unicode, pst.CryptNone)
			h = newHeap(pst.ClientSigTC)
			tb = newTable(tcCol{Tag: pst.TagLtpRowID, Width: 4})
			for i := 0; i < 5; i++ {
				tb.AddRow(uint32(i), map[int][]byte{0: u32(uint32(i))})
			}
		})

		expectUnparseable := func(err error) {
			Expect(errors.Is(err, pst.ErrUnparseableTable)).To(BeTrue(), "got %v", err)
		}

		It("should reject more rows than declared", func() {
			tb.Store(h, uint32(pst.MakeNID(pst.NIDTypeLTP, 1)), 4)
			tb.AddRow(5, map[int][]byte{0: u32(5)})
			sub := x.AddSubnodeTree(subnodeRec{NID: pst.MakeNID(pst.NIDTypeLTP, 1), Data: x.AddDataTree(tb.RowChunks(4)...)})

			_, err := open(x, h, sub)
			expectUnparseable(err)
		})

		It("should reject fewer rows than declared", func() {
			tb.Store(h, uint32(pst.MakeNID(pst.NIDTypeLTP, 1)), 4)
			sub := x.AddSubnodeTree(subnodeRec{NID: pst.MakeNID(pst.NIDTypeLTP, 1), Data: x.AddDataTree(tb.RowChunks(4)[0])})

			_, err := open(x, h, sub)
			expectUnparseable(err)
		})

		It("should reject heap rows of the wrong size", func() {
			rows := tb.HeapRows(h)
			tb.AddRow(5, map[int][]byte{0: u32(5)})
			tb.Store(h, rows, 4)

			_, err := open(x, h, 0)
			expectUnparseable(err)
		})

		It("should reject missing row data", func() {
			tb.Store(h, 0, 4)

			_, err := open(x, h, 0)
			expectUnparseable(err)
		})

		It("should reject other structures", func() {
			h.Sig = pst.ClientSigPC
			tb.Store(h, tb.HeapRows(h), 4)

			_, err := open(x, h, 0)
			Expect(errors.Is(err, pst.ErrUnexpectedStructure)).To(BeTrue())

			var fe *pst.FormatError
			Expect(errors.As(err, &fe)).To(BeTrue())
			Expect(fe.Expected).To(Equal(pst.ClientSigTC))
			Expect(fe.Found).To(Equal(pst.ClientSigPC))
			Expect(err.Error()).To(ContainSubstring("expected 0x7c, found 0xbc"))
		})

		It("should reject rows in missing sub-nodes", func() {
			tb.Store(h, uint32(pst.MakeNID(pst.NIDTypeLTP, 1)), 4)

			_, err := open(x, h, 0)
			Expect(errors.Is(err, pst.ErrCorrupt)).To(BeTrue())
		})
	})
})
