package pst_test

import (
	"errors"

	"github.com/bsm/pst"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("BTreeOnHeap", func() {
	build := func(format pst.Format, fanout, n int) *pst.BTreeOnHeap {
		x := newFixture(format, pst.CryptNone)
		h := newHeap(pst.ClientSigBTH)
		h.Fanout = fanout

		recs := make([]bthRec, n)
		for i := range recs {
			recs[i] = bthRec{Key: uint64(i*3 + 10), Data: u32(uint32(i))}
		}
		h.Root = h.AddBTH(4, 4, recs)
		x.AddHeapNode(messageNID(0), h, 0)

		f, err := x.Open(nil)
		Expect(err).NotTo(HaveOccurred())
		hn, err := f.HeapOnNode(messageNID(0))
		Expect(err).NotTo(HaveOccurred())

		b, err := pst.NewBTreeOnHeap(hn, hn.UserRoot())
		Expect(err).NotTo(HaveOccurred())
		return b
	}

	DescribeTable("should find and iterate",
		func(format pst.Format, fanout, levels int) {
			b := build(format, fanout, 100)
			Expect(b.KeySize()).To(Equal(4))
			Expect(b.DataSize()).To(Equal(4))
			Expect(b.Levels()).To(Equal(levels))
			Expect(b.NumLeafNodes()).To(Equal(100))

			n := 0
			iter := b.Iterator()
			for iter.Next() {
				Expect(iter.Key()).To(Equal(uint64(n*3 + 10)))
				Expect(iter.Value()).To(Equal(u32(uint32(n))))

				data, err := b.Find(iter.Key())
				Expect(err).NotTo(HaveOccurred())
				Expect(data).To(Equal(u32(uint32(n))))
				n++
			}
			Expect(iter.Err()).NotTo(HaveOccurred())
			Expect(n).To(Equal(100))

			_, err := b.Find(9)
			Expect(err).To(MatchError(pst.ErrNotFound))
			_, err = b.Find(11)
			Expect(err).To(MatchError(pst.ErrNotFound))
			_, err = b.Find(400)
			Expect(err).To(MatchError(pst.ErrNotFound))
		},

		Entry("single leaf", pst.Unicode, 0, 0),
		Entry("two levels", pst.ANSI, 16, 1),
		Entry("three levels", pst.Unicode, 5, 2),
	)

	It("should support empty trees", func() {
		b := build(pst.Unicode, 0, 0)
		Expect(b.NumLeafNodes()).To(Equal(0))

		_, err := b.Find(10)
		Expect(err).To(MatchError(pst.ErrNotFound))

		iter := b.Iterator()
		Expect(iter.Next()).To(BeFalse())
		Expect(iter.Err()).NotTo(HaveOccurred())
	})

	It("should reject misaligned allocations", func() {
		x := newFixture(pst.Unicode, pst.CryptNone)
		h := newHeap(pst.ClientSigBTH)
		leaf := h.Alloc(make([]byte, 13))
		h.Root = h.Alloc([]byte{0xB5, 4, 4, 0, byte(leaf), byte(leaf >> 8), byte(leaf >> 16), byte(leaf >> 24)})
		x.AddHeapNode(messageNID(0), h, 0)

		f, err := x.Open(nil)
		Expect(err).NotTo(HaveOccurred())
		hn, err := f.HeapOnNode(messageNID(0))
		Expect(err).NotTo(HaveOccurred())

		b, err := pst.NewBTreeOnHeap(hn, hn.UserRoot())
		Expect(err).NotTo(HaveOccurred())

		_, err = b.NumLeafNodes()
		Expect(errors.Is(err, pst.ErrCorrupt)).To(BeTrue())
		_, err = b.Find(0)
		Expect(errors.Is(err, pst.ErrCorrupt)).To(BeTrue())
	})

	It("should reject other structures", func() {
		x := newFixture(pst.Unicode, pst.CryptNone)
		h := newHeap(pst.ClientSigBTH)
		h.Root = h.Alloc([]byte{0x7C, 4, 4, 0, 0, 0, 0, 0})
		x.AddHeapNode(messageNID(0), h, 0)

		f, err := x.Open(nil)
		Expect(err).NotTo(HaveOccurred())
		hn, err := f.HeapOnNode(messageNID(0))
		Expect(err).NotTo(HaveOccurred())

		_, err = pst.NewBTreeOnHeap(hn, hn.UserRoot())
		Expect(errors.Is(err, pst.ErrUnexpectedStructure)).To(BeTrue())
	})
})
