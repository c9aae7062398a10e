// Package loader reads RISC-V ELF binaries for disassembly.
package loader

import (
	"debug/elf"
	"fmt"
	"io"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// Segment is one loadable segment of an ELF binary.
type Segment struct {
	// VirtAddr is the virtual address where this segment would be loaded.
	VirtAddr uint64
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint64
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Program is a parsed RISC-V ELF binary.
type Program struct {
	// EntryPoint is the virtual address where execution would begin.
	EntryPoint uint64
	// XLEN is the base integer width (32 or 64) taken from the ELF class.
	XLEN int
	// Segments contains all loadable segments from the ELF file.
	Segments []Segment
}

// Load parses a RISC-V ELF binary. The ELF class selects the base integer
// width, so callers need not guess XLEN for decoding.
func Load(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("not a RISC-V ELF file (machine type: %v)", f.Machine)
	}

	xlen := 0
	switch f.Class {
	case elf.ELFCLASS32:
		xlen = 32
	case elf.ELFCLASS64:
		xlen = 64
	default:
		return nil, fmt.Errorf("unsupported ELF class: %v", f.Class)
	}

	prog := &Program{
		EntryPoint: f.Entry,
		XLEN:       xlen,
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: phdr.Vaddr,
			Data:     data,
			MemSize:  phdr.Memsz,
			Flags:    flags,
		})
	}

	return prog, nil
}

// CodeSegments returns the executable segments in file order.
func (p *Program) CodeSegments() []Segment {
	var code []Segment
	for _, seg := range p.Segments {
		if seg.Flags&SegmentFlagExecute != 0 {
			code = append(code, seg)
		}
	}
	return code
}
