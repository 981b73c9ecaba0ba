package pst_test

import (
	"github.com/bsm/pst"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("BID", func() {
	It("should tell internal from simple", func() {
		Expect(pst.BID(0x24).Internal()).To(BeFalse())
		Expect(pst.BID(0x26).Internal()).To(BeTrue())
		Expect(pst.BID(0x25).Internal()).To(BeFalse())
		Expect(pst.BID(0).IsZero()).To(BeTrue())
		Expect(pst.BID(0x26).String()).To(Equal("0x26"))
	})
})

var _ = Describe("NID", func() {
	It("should compose", func() {
		nid := pst.MakeNID(pst.NIDTypeNormalFolder, 9)
		Expect(nid).To(Equal(pst.NIDRootFolder))
		Expect(nid.Type()).To(Equal(pst.NIDTypeNormalFolder))
		Expect(nid.Index()).To(Equal(uint32(9)))
		Expect(nid.String()).To(Equal("0x122"))
	})
})

var _ = Describe("HID", func() {
	It("should compose", func() {
		hid := pst.MakeHID(3, 2)
		Expect(uint32(hid)).To(Equal(uint32(0x00030040)))
		Expect(hid.Type()).To(Equal(pst.NIDTypeHID))
		Expect(hid.Index()).To(Equal(2))
		Expect(hid.BlockIndex()).To(Equal(3))
	})

	It("should parse the common root HID", func() {
		hid := pst.HID(0x20)
		Expect(hid.Index()).To(Equal(1))
		Expect(hid.BlockIndex()).To(Equal(0))
	})
})

var _ = Describe("PropTag", func() {
	It("should compose", func() {
		tag := pst.MakePropTag(0x3001, pst.PropTypeString)
		Expect(tag).To(Equal(pst.TagDisplayName))
		Expect(tag.ID()).To(Equal(uint16(0x3001)))
		Expect(tag.Type()).To(Equal(pst.PropTypeString))
	})

	It("should have names", func() {
		Expect(pst.TagSubject.String()).To(Equal("Subject"))
		Expect(pst.TagLtpRowID.String()).To(Equal("LtpRowID"))
		Expect(pst.PropTag(0x80010003).String()).To(Equal("0x80010003"))
	})
})

var _ = Describe("PropType", func() {
	It("should have names", func() {
		Expect(pst.PropTypeInt32.String()).To(Equal("Int32"))
		Expect((pst.PropTypeMultiple | pst.PropTypeString).String()).To(Equal("MultipleString"))
		Expect(pst.PropType(0x0999).String()).To(Equal("0x0999"))
	})

	It("should tell multi-valued types", func() {
		Expect(pst.PropType(0x101F).IsMultiple()).To(BeTrue())
		Expect(pst.PropType(0x101F).Base()).To(Equal(pst.PropTypeString))
		Expect(pst.PropTypeBinary.IsMultiple()).To(BeFalse())
	})
})

var _ = Describe("PropertySetName", func() {
	It("should name well-known sets", func() {
		Expect(pst.PropertySetName(pst.PSMAPI)).To(Equal("MAPI"))
		Expect(pst.PSPublicStrings.String()).To(Equal("00020329-0000-0000-c000-000000000046"))
		Expect(pst.PropertySetName(pst.PSMeeting)).To(Equal("Meeting"))
	})
})
