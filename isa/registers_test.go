package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mewais/archtools.io-sub000/isa"
)

var _ = Describe("Register and CSR names", func() {
	Describe("RegisterByName", func() {
		It("should resolve architectural names", func() {
			class, index, ok := isa.RegisterByName("x17")
			Expect(ok).To(BeTrue())
			Expect(class).To(Equal(isa.RegInt))
			Expect(index).To(Equal(uint8(17)))

			class, index, ok = isa.RegisterByName("f31")
			Expect(ok).To(BeTrue())
			Expect(class).To(Equal(isa.RegFloat))
			Expect(index).To(Equal(uint8(31)))

			class, index, ok = isa.RegisterByName("v7")
			Expect(ok).To(BeTrue())
			Expect(class).To(Equal(isa.RegVector))
			Expect(index).To(Equal(uint8(7)))
		})

		It("should resolve ABI names", func() {
			_, index, ok := isa.RegisterByName("sp")
			Expect(ok).To(BeTrue())
			Expect(index).To(Equal(uint8(2)))

			_, index, ok = isa.RegisterByName("a0")
			Expect(ok).To(BeTrue())
			Expect(index).To(Equal(uint8(10)))

			class, index, ok := isa.RegisterByName("fa0")
			Expect(ok).To(BeTrue())
			Expect(class).To(Equal(isa.RegFloat))
			Expect(index).To(Equal(uint8(10)))
		})

		It("should treat s0 and fp as the same register", func() {
			_, s0, _ := isa.RegisterByName("s0")
			_, fp, _ := isa.RegisterByName("fp")
			Expect(s0).To(Equal(fp))
		})

		It("should be case-insensitive", func() {
			_, index, ok := isa.RegisterByName("RA")
			Expect(ok).To(BeTrue())
			Expect(index).To(Equal(uint8(1)))
		})

		It("should reject unknown names", func() {
			_, _, ok := isa.RegisterByName("x32")
			Expect(ok).To(BeFalse())
			_, _, ok = isa.RegisterByName("r5")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("RegisterName", func() {
		It("should render canonical numeric names", func() {
			Expect(isa.RegisterName(isa.RegInt, 2)).To(Equal("x2"))
			Expect(isa.RegisterName(isa.RegFloat, 10)).To(Equal("f10"))
			Expect(isa.RegisterName(isa.RegVector, 0)).To(Equal("v0"))
		})
	})

	Describe("CSR names", func() {
		It("should resolve well-known CSRs", func() {
			addr, ok := isa.CSRByName("mstatus")
			Expect(ok).To(BeTrue())
			Expect(addr).To(Equal(uint16(0x300)))

			addr, ok = isa.CSRByName("fflags")
			Expect(ok).To(BeTrue())
			Expect(addr).To(Equal(uint16(0x001)))
		})

		It("should render unknown addresses in hex", func() {
			Expect(isa.CSRName(0x7C0)).To(Equal("0x7c0"))
		})

		It("should round-trip named CSRs", func() {
			addr, ok := isa.CSRByName("satp")
			Expect(ok).To(BeTrue())
			Expect(isa.CSRName(addr)).To(Equal("satp"))
		})
	})

	Describe("Rounding modes", func() {
		It("should resolve mode names to codes", func() {
			code, ok := isa.RoundingModeByName("rtz")
			Expect(ok).To(BeTrue())
			Expect(code).To(Equal(uint8(isa.RoundTowardZero)))

			code, ok = isa.RoundingModeByName("DYN")
			Expect(ok).To(BeTrue())
			Expect(code).To(Equal(uint8(isa.RoundDynamic)))
		})

		It("should reject reserved codes by name", func() {
			_, ok := isa.RoundingModeByName("rns")
			Expect(ok).To(BeFalse())
		})
	})
})
