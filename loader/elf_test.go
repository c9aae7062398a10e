package loader_test

import (
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mewais/archtools.io-sub000/loader"
)

var _ = Describe("ELF Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "elf-loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("with a valid RV64 ELF binary", func() {
			var elfPath string

			BeforeEach(func() {
				elfPath = filepath.Join(tempDir, "test.elf")
				createMinimalRISCVELF(elfPath, 0x10000, 0x10080, []byte{
					// addi a0, zero, 42; ret
					0x13, 0x05, 0xA0, 0x02,
					0x67, 0x80, 0x00, 0x00,
				})
			})

			It("should load without error", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog).NotTo(BeNil())
			})

			It("should extract the correct entry point", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.EntryPoint).To(Equal(uint64(0x10080)))
			})

			It("should report XLEN 64 from the ELF class", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.XLEN).To(Equal(64))
			})

			It("should load segments", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(len(prog.Segments)).To(BeNumerically(">", 0))
			})
		})

		Context("with segment data", func() {
			It("should correctly load segment contents", func() {
				elfPath := filepath.Join(tempDir, "code.elf")
				codeData := []byte{
					0x13, 0x05, 0xA0, 0x02, // addi a0, zero, 42
					0x67, 0x80, 0x00, 0x00, // ret
				}
				createMinimalRISCVELF(elfPath, 0x10000, 0x10000, codeData)

				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())

				var foundSegment *loader.Segment
				for i := range prog.Segments {
					if prog.Segments[i].VirtAddr == 0x10000 {
						foundSegment = &prog.Segments[i]
						break
					}
				}
				Expect(foundSegment).NotTo(BeNil())
				Expect(foundSegment.Data).To(Equal(codeData))
			})
		})

		Context("with a 32-bit RISC-V ELF", func() {
			It("should report XLEN 32", func() {
				elfPath := filepath.Join(tempDir, "rv32.elf")
				createMinimalRV32ELF(elfPath, 0x10000)

				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.XLEN).To(Equal(32))
			})
		})

		Context("with an invalid file", func() {
			It("should return error for non-existent file", func() {
				_, err := loader.Load("/nonexistent/path/to/file.elf")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to open"))
			})

			It("should return error for non-ELF file", func() {
				notElfPath := filepath.Join(tempDir, "not-elf.bin")
				err := os.WriteFile(notElfPath, []byte("not an elf file"), 0644)
				Expect(err).NotTo(HaveOccurred())

				_, err = loader.Load(notElfPath)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("ELF"))
			})

			It("should return error for empty file", func() {
				emptyPath := filepath.Join(tempDir, "empty.elf")
				err := os.WriteFile(emptyPath, []byte{}, 0644)
				Expect(err).NotTo(HaveOccurred())

				_, err = loader.Load(emptyPath)
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with a non-RISC-V ELF", func() {
			It("should return error for x86-64 ELF", func() {
				elfPath := filepath.Join(tempDir, "x86.elf")
				createMinimalx86ELF(elfPath)

				_, err := loader.Load(elfPath)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("not a RISC-V"))
			})
		})
	})

	Describe("CodeSegments", func() {
		It("should return only executable segments", func() {
			elfPath := filepath.Join(tempDir, "multi-segment.elf")
			codeData := []byte{0x13, 0x05, 0xA0, 0x02, 0x67, 0x80, 0x00, 0x00}
			dataData := []byte{0x01, 0x02, 0x03, 0x04}
			createMultiSegmentRISCVELF(elfPath, 0x10000, 0x10000, codeData, 0x20000, dataData)

			prog, err := loader.Load(elfPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments).To(HaveLen(2))

			code := prog.CodeSegments()
			Expect(code).To(HaveLen(1))
			Expect(code[0].VirtAddr).To(Equal(uint64(0x10000)))
			Expect(code[0].Data).To(Equal(codeData))
			Expect(code[0].Flags & loader.SegmentFlagExecute).NotTo(BeZero())
		})
	})

	Describe("BSS segments", func() {
		It("should handle segments where Memsz > Filesz", func() {
			elfPath := filepath.Join(tempDir, "bss.elf")
			initialData := []byte{0x01, 0x02, 0x03, 0x04}
			memSize := uint64(1024)
			createBSSSegmentELF(elfPath, 0x20000, 0x10000, initialData, memSize)

			prog, err := loader.Load(elfPath)
			Expect(err).NotTo(HaveOccurred())

			var bssSeg *loader.Segment
			for i := range prog.Segments {
				if prog.Segments[i].VirtAddr == 0x20000 {
					bssSeg = &prog.Segments[i]
					break
				}
			}

			Expect(bssSeg).NotTo(BeNil())
			Expect(bssSeg.Data).To(Equal(initialData))
			Expect(bssSeg.MemSize).To(Equal(memSize))
			Expect(bssSeg.MemSize).To(BeNumerically(">", uint64(len(bssSeg.Data))))
		})
	})
})

const emRISCV = 243

// writeELF64Header fills the common fields of a little-endian ELF64 header.
func writeELF64Header(machine uint16, entryPoint uint64, phnum uint16) []byte {
	h := make([]byte, 64)
	copy(h[0:4], []byte{0x7f, 'E', 'L', 'F'})
	h[4] = 2 // 64-bit
	h[5] = 1 // little endian
	h[6] = 1 // version
	binary.LittleEndian.PutUint16(h[16:18], 2) // executable
	binary.LittleEndian.PutUint16(h[18:20], machine)
	binary.LittleEndian.PutUint32(h[20:24], 1) // version
	binary.LittleEndian.PutUint64(h[24:32], entryPoint)
	binary.LittleEndian.PutUint64(h[32:40], 64) // phoff
	binary.LittleEndian.PutUint16(h[52:54], 64) // ehsize
	binary.LittleEndian.PutUint16(h[54:56], 56) // phentsize
	binary.LittleEndian.PutUint16(h[56:58], phnum)
	return h
}

// writeProgHeader64 fills one ELF64 program header.
func writeProgHeader64(ptype, flags uint32, offset, vaddr, filesz, memsz uint64) []byte {
	p := make([]byte, 56)
	binary.LittleEndian.PutUint32(p[0:4], ptype)
	binary.LittleEndian.PutUint32(p[4:8], flags)
	binary.LittleEndian.PutUint64(p[8:16], offset)
	binary.LittleEndian.PutUint64(p[16:24], vaddr)
	binary.LittleEndian.PutUint64(p[24:32], vaddr)
	binary.LittleEndian.PutUint64(p[32:40], filesz)
	binary.LittleEndian.PutUint64(p[40:48], memsz)
	binary.LittleEndian.PutUint64(p[48:56], 0x1000)
	return p
}

// createMinimalRISCVELF creates a minimal valid RV64 ELF binary with one
// executable PT_LOAD segment.
func createMinimalRISCVELF(path string, loadAddr, entryPoint uint64, code []byte) {
	elfHeader := writeELF64Header(emRISCV, entryPoint, 1)
	progHeader := writeProgHeader64(1, 0x5, 120, loadAddr,
		uint64(len(code)), uint64(len(code)))

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()
	_, _ = file.Write(elfHeader)
	_, _ = file.Write(progHeader)
	_, _ = file.Write(code)
}

// createMinimalRV32ELF creates a minimal ELF32 RISC-V header with no
// program headers, enough to exercise class detection.
func createMinimalRV32ELF(path string, entryPoint uint32) {
	h := make([]byte, 52)
	copy(h[0:4], []byte{0x7f, 'E', 'L', 'F'})
	h[4] = 1 // 32-bit
	h[5] = 1 // little endian
	h[6] = 1 // version
	binary.LittleEndian.PutUint16(h[16:18], 2) // executable
	binary.LittleEndian.PutUint16(h[18:20], emRISCV)
	binary.LittleEndian.PutUint32(h[20:24], 1) // version
	binary.LittleEndian.PutUint32(h[24:28], entryPoint)
	binary.LittleEndian.PutUint32(h[28:32], 0)  // phoff (none)
	binary.LittleEndian.PutUint16(h[40:42], 52) // ehsize
	binary.LittleEndian.PutUint16(h[42:44], 32) // phentsize
	binary.LittleEndian.PutUint16(h[44:46], 0)  // phnum

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()
	_, _ = file.Write(h)
}

// createMinimalx86ELF creates a minimal x86-64 ELF to test rejection.
func createMinimalx86ELF(path string) {
	elfHeader := writeELF64Header(62, 0, 0)

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()
	_, _ = file.Write(elfHeader)
}

// createMultiSegmentRISCVELF creates a RISC-V ELF with a code segment (RX)
// and a data segment (RW).
func createMultiSegmentRISCVELF(path string, codeAddr, entryPoint uint64, code []byte, dataAddr uint64, data []byte) {
	elfHeader := writeELF64Header(emRISCV, entryPoint, 2)
	progHeader1 := writeProgHeader64(1, 0x5, 64+56*2, codeAddr,
		uint64(len(code)), uint64(len(code)))
	progHeader2 := writeProgHeader64(1, 0x6, 64+56*2+uint64(len(code)), dataAddr,
		uint64(len(data)), uint64(len(data)))

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()
	_, _ = file.Write(elfHeader)
	_, _ = file.Write(progHeader1)
	_, _ = file.Write(progHeader2)
	_, _ = file.Write(code)
	_, _ = file.Write(data)
}

// createBSSSegmentELF creates a RISC-V ELF with a BSS-like segment where
// Memsz > Filesz.
func createBSSSegmentELF(path string, segAddr, entryPoint uint64, data []byte, memSize uint64) {
	elfHeader := writeELF64Header(emRISCV, entryPoint, 1)
	progHeader := writeProgHeader64(1, 0x6, 120, segAddr,
		uint64(len(data)), memSize)

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()
	_, _ = file.Write(elfHeader)
	_, _ = file.Write(progHeader)
	_, _ = file.Write(data)
}
