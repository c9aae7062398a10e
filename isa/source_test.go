package isa

import (
	"errors"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Catalog construction from a Source", func() {
	var (
		mockCtrl *gomock.Controller
		source   *MockSource
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		source = NewMockSource(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should propagate source errors", func() {
		source.EXPECT().Records().Return(nil, errors.New("disk on fire"))

		_, err := Load(source)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("disk on fire"))
	})

	It("should reject an empty record set", func() {
		source.EXPECT().Records().Return([]Record{}, nil)

		_, err := Load(source)
		Expect(err).To(MatchError(&Error{Kind: ErrBadRecord}))
	})

	It("should build templates from supplied records", func() {
		source.EXPECT().Records().Return([]Record{
			{
				Mnemonic:   "ADD",
				Format:     "R-Type",
				Extensions: []string{"RV32I", "RV64I"},
				Category:   "Arithmetic",
				Encoding:   "0000000xxxxxxxxxx000xxxxx0110011",
				Operands:   []string{"rd", "rs1", "rs2"},
			},
		}, nil)

		catalog, err := Load(source)
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog.Len()).To(Equal(1))
		Expect(catalog.Lookup("add", 64)).NotTo(BeNil())
	})
})
