package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mewais/archtools.io-sub000/isa"
)

// recordSource feeds literal records into catalog construction.
type recordSource []isa.Record

func (s recordSource) Records() ([]isa.Record, error) {
	return s, nil
}

func validRecord() isa.Record {
	return isa.Record{
		Mnemonic:   "ADD",
		Format:     "R-Type",
		Extensions: []string{"RV32I", "RV64I"},
		Category:   "Arithmetic",
		Encoding:   "0000000xxxxxxxxxx000xxxxx0110011",
		Operands:   []string{"rd", "rs1", "rs2"},
	}
}

var _ = Describe("Catalog", func() {
	Describe("the embedded dataset", func() {
		var catalog *isa.Catalog

		BeforeEach(func() {
			var err error
			catalog, err = isa.LoadDefault()
			Expect(err).NotTo(HaveOccurred())
		})

		It("should load a substantial template set", func() {
			Expect(catalog.Len()).To(BeNumerically(">", 200))
		})

		It("should resolve mnemonics case-insensitively", func() {
			Expect(catalog.Lookup("add", 64)).NotTo(BeNil())
			Expect(catalog.Lookup("ADD", 64)).NotTo(BeNil())
			Expect(catalog.Lookup("Amoadd.W", 64)).NotTo(BeNil())
		})

		It("should return nil for unknown mnemonics", func() {
			Expect(catalog.Lookup("bxl", 64)).To(BeNil())
		})

		It("should gate templates by base width", func() {
			// LWU and LD exist only at RV64.
			Expect(catalog.Lookup("lwu", 64)).NotTo(BeNil())
			Expect(catalog.Lookup("lwu", 32)).To(BeNil())
			Expect(catalog.Lookup("ld", 32)).To(BeNil())

			// C.JAL exists only at RV32, C.ADDIW only at RV64.
			Expect(catalog.Lookup("c.jal", 32)).NotTo(BeNil())
			Expect(catalog.Lookup("c.jal", 64)).To(BeNil())
			Expect(catalog.Lookup("c.addiw", 64)).NotTo(BeNil())
			Expect(catalog.Lookup("c.addiw", 32)).To(BeNil())
		})

		It("should resolve the width-specific shift variant", func() {
			slli32 := catalog.Lookup("slli", 32)
			slli64 := catalog.Lookup("slli", 64)
			Expect(slli32).NotTo(BeNil())
			Expect(slli64).NotTo(BeNil())
			Expect(slli32.Format).To(Equal("I-Shift32"))
			Expect(slli64.Format).To(Equal("I-Shift64"))
		})

		It("should bucket candidates by opcode", func() {
			for _, t := range catalog.Candidates(0x003100B3) {
				Expect(t.Encoding).To(HaveSuffix("0110011"))
			}
		})

		It("should route compressed words to the compressed index", func() {
			candidates := catalog.Candidates(0x0411)
			Expect(candidates).NotTo(BeEmpty())
			for _, t := range candidates {
				Expect(t.Compressed()).To(BeTrue())
			}
		})

		It("should record the compressed-extension overlaps", func() {
			pairs := map[string]string{}
			for _, o := range catalog.Overlaps() {
				pairs[o.Specific] = o.General
			}
			Expect(pairs).To(HaveKeyWithValue("C.JR", "C.MV"))
			Expect(pairs).To(HaveKeyWithValue("C.JALR", "C.ADD"))
			Expect(pairs).To(HaveKeyWithValue("C.ADDI16SP", "C.LUI"))
		})
	})

	Describe("record validation", func() {
		load := func(mutate func(*isa.Record)) error {
			rec := validRecord()
			mutate(&rec)
			_, err := isa.Load(recordSource{rec})
			return err
		}

		It("should reject a missing mnemonic", func() {
			err := load(func(r *isa.Record) { r.Mnemonic = "" })
			Expect(err).To(MatchError(&isa.Error{Kind: isa.ErrBadRecord}))
		})

		It("should reject an unknown format", func() {
			err := load(func(r *isa.Record) { r.Format = "Z-Type" })
			Expect(err).To(MatchError(&isa.Error{Kind: isa.ErrBadRecord}))
		})

		It("should reject an encoding of the wrong length", func() {
			err := load(func(r *isa.Record) { r.Encoding = "0000000" })
			Expect(err).To(MatchError(&isa.Error{Kind: isa.ErrBadRecord}))
		})

		It("should reject encoding symbols outside 0, 1, x", func() {
			err := load(func(r *isa.Record) {
				r.Encoding = "0000000xxxxxxxxxx000xxxxx011001?"
			})
			Expect(err).To(MatchError(&isa.Error{Kind: isa.ErrBadRecord}))
		})

		It("should reject an empty extension list", func() {
			err := load(func(r *isa.Record) { r.Extensions = nil })
			Expect(err).To(MatchError(&isa.Error{Kind: isa.ErrBadRecord}))
		})

		It("should reject extensions without a width prefix", func() {
			err := load(func(r *isa.Record) { r.Extensions = []string{"I"} })
			Expect(err).To(MatchError(&isa.Error{Kind: isa.ErrBadRecord}))
		})

		It("should reject unknown operand slots", func() {
			err := load(func(r *isa.Record) { r.Operands = []string{"rq"} })
			Expect(err).To(MatchError(&isa.Error{Kind: isa.ErrBadRecord}))
		})

		It("should reject a non-immediate immCat override", func() {
			err := load(func(r *isa.Record) { r.ImmCat = "rd" })
			Expect(err).To(MatchError(&isa.Error{Kind: isa.ErrBadRecord}))
		})
	})

	Describe("pattern exclusivity", func() {
		It("should abort on equal-specificity overlapping patterns", func() {
			a := validRecord()
			b := validRecord()
			b.Mnemonic = "ADDALSO"

			_, err := isa.Load(recordSource{a, b})
			Expect(err).To(MatchError(&isa.Error{Kind: isa.ErrCatalogIntegrity}))
		})

		It("should allow identical patterns in disjoint width scopes", func() {
			a := validRecord()
			a.Extensions = []string{"RV32I"}
			b := validRecord()
			b.Mnemonic = "ADDALSO"
			b.Extensions = []string{"RV64I"}

			catalog, err := isa.Load(recordSource{a, b})
			Expect(err).NotTo(HaveOccurred())
			Expect(catalog.Lookup("add", 32)).NotTo(BeNil())
			Expect(catalog.Lookup("add", 64)).To(BeNil())
			Expect(catalog.Lookup("addalso", 64)).NotTo(BeNil())
		})

		It("should order buckets most-specific-first", func() {
			catalog, err := isa.LoadDefault()
			Expect(err).NotTo(HaveOccurred())

			// C.JALR (rs2 literal zero) must precede C.ADD in quadrant 2.
			var jalrAt, addAt int
			for i, t := range catalog.Candidates(0x9002) {
				switch t.Mnemonic {
				case "C.JALR":
					jalrAt = i
				case "C.ADD":
					addAt = i
				}
			}
			Expect(jalrAt).To(BeNumerically("<", addAt))
		})
	})
})
