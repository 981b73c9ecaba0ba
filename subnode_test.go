package pst_test

import (
	"errors"
	"fmt"

	"github.com/bsm/pst"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func attachmentNID(i int) pst.NID { return pst.MakeNID(pst.NIDTypeAttachment, uint32(i+1)) }

var _ = Describe("SubnodeBTree", func() {
	DescribeTable("should find and iterate",
		func(format pst.Format, fanout int) {
			x := newFixture(format, pst.CryptPermute)
			x.Fanout = fanout

			var recs []subnodeRec
			for i := 0; i < 30; i++ {
				recs = append(recs, subnodeRec{
					NID:  attachmentNID(i),
					Data: x.AddBlock([]byte(fmt.Sprintf("attachment %02d", i))),
				})
			}
			x.AddNode(messageNID(0), x.AddBlock([]byte("message")), x.AddSubnodeTree(recs...), pst.NIDRootFolder)

			f, err := x.Open(nil)
			Expect(err).NotTo(HaveOccurred())

			ne, err := f.NodeBTree().Find(messageNID(0))
			Expect(err).NotTo(HaveOccurred())
			Expect(ne.SubnodeBID.Internal()).To(BeTrue())

			sub, err := f.SubnodeBTree(ne.SubnodeBID)
			Expect(err).NotTo(HaveOccurred())

			n := 0
			iter := sub.Iterator()
			for iter.Next() {
				ent := iter.Entry().(*pst.SubnodeEntry)
				Expect(ent.NID).To(Equal(attachmentNID(n)))
				Expect(ent.SubnodeBID.IsZero()).To(BeTrue())

				found, err := sub.Find(ent.NID)
				Expect(err).NotTo(HaveOccurred())
				Expect(found).To(Equal(ent))

				t, err := sub.DataTree(ent.NID)
				Expect(err).NotTo(HaveOccurred())
				Expect(t.Bytes()).To(Equal([]byte(fmt.Sprintf("attachment %02d", n))))
				n++
			}
			Expect(iter.Err()).NotTo(HaveOccurred())
			Expect(n).To(Equal(30))

			_, err = sub.Find(attachmentNID(0) - 1)
			Expect(err).To(MatchError(pst.ErrNotFound))
			_, err = sub.Find(attachmentNID(30))
			Expect(err).To(MatchError(pst.ErrNotFound))
		},

		Entry("ANSI", pst.ANSI, 0),
		Entry("ANSI two levels", pst.ANSI, 7),
		Entry("Unicode", pst.Unicode, 0),
		Entry("Unicode two levels", pst.Unicode, 7),
	)

	It("should open nested trees and heaps", func() {
		x := newFixture(pst.Unicode, pst.CryptNone)

		h := newHeap(pst.ClientSigPC)
		h.Root = h.Alloc([]byte("root"))
		heapNID := pst.MakeNID(pst.NIDTypeHID, 1)
		inner := x.AddSubnodeTree(subnodeRec{NID: heapNID, Data: x.AddDataTree(h.Chunks()...)})

		outer := x.AddSubnodeTree(
			subnodeRec{NID: attachmentNID(0), Data: x.AddBlock([]byte("a")), Sub: inner},
			subnodeRec{NID: attachmentNID(1), Data: x.AddBlock([]byte("b"))},
		)

		f, err := x.Open(nil)
		Expect(err).NotTo(HaveOccurred())

		sub, err := f.SubnodeBTree(outer)
		Expect(err).NotTo(HaveOccurred())

		_, err = sub.Subtree(attachmentNID(1))
		Expect(err).To(MatchError(pst.ErrNotFound))

		nested, err := sub.Subtree(attachmentNID(0))
		Expect(err).NotTo(HaveOccurred())

		hn, err := nested.HeapOnNode(heapNID)
		Expect(err).NotTo(HaveOccurred())
		Expect(hn.ClientSignature()).To(Equal(pst.ClientSigPC))
		Expect(hn.HeapData(hn.UserRoot())).To(Equal([]byte("root")))
	})

	It("should reject other block types", func() {
		x := newFixture(pst.ANSI, pst.CryptNone)
		bid := x.AddInternal(x.XBlock(1, 0))

		f, err := x.Open(nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = f.SubnodeBTree(bid)
		Expect(errors.Is(err, pst.ErrUnexpectedStructure)).To(BeTrue())
	})
})
