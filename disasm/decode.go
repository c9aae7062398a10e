// Package disasm translates machine words back into assembly text.
package disasm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mewais/archtools.io-sub000/isa"
)

// Decoded is one fully decoded instruction.
type Decoded struct {
	Template *isa.InstructionTemplate
	Word     uint32
	Mnemonic string   // rendered mnemonic, ordering suffixes included
	Operands []string // rendered operands in assembly order
	Fields   isa.BoundFields
	Assembly string
}

// Decoder matches raw words against one catalog at one base integer width.
// It holds no per-word state and is safe for concurrent use.
type Decoder struct {
	catalog *isa.Catalog
	xlen    int
}

// NewDecoder builds a decoder for the given width (32 or 64).
func NewDecoder(catalog *isa.Catalog, xlen int) *Decoder {
	return &Decoder{catalog: catalog, xlen: xlen}
}

// DecodeWord matches a raw word against the catalog and renders it. The
// candidate bucket is ordered most-specific-first, so the first full match
// is the decode.
func (d *Decoder) DecodeWord(word uint32) (Decoded, error) {
	compressed := word&0x3 != 0x3
	if compressed && word>>16 != 0 {
		return Decoded{}, isa.NewError(isa.ErrNoMatchingTemplate,
			"compressed word 0x%X has bits above 16", word)
	}

	for _, t := range d.catalog.Candidates(word) {
		if t.Matches(word) && t.VisibleAt(d.xlen) {
			return d.render(t, word), nil
		}
	}
	if compressed {
		return Decoded{}, isa.NewError(isa.ErrNoMatchingTemplate,
			"no template matches 0x%04X at RV%d", word, d.xlen)
	}
	return Decoded{}, isa.NewError(isa.ErrNoMatchingTemplate,
		"no template matches 0x%08X at RV%d", word, d.xlen)
}

func (d *Decoder) render(t *isa.InstructionTemplate, word uint32) Decoded {
	fields := extractFields(t, word)

	mnemonic := strings.ToLower(t.Mnemonic)
	if fields[isa.CatAq] == 1 {
		mnemonic += ".aq"
	}
	if fields[isa.CatRl] == 1 {
		mnemonic += ".rl"
	}

	var operands []string
	for _, slot := range t.OperandSlots {
		if s, ok := renderSlot(fields, slot); ok {
			operands = append(operands, s)
		}
	}

	assembly := mnemonic
	if len(operands) > 0 {
		assembly += " " + strings.Join(operands, ", ")
	}

	return Decoded{
		Template: t,
		Word:     word,
		Mnemonic: mnemonic,
		Operands: operands,
		Fields:   fields,
		Assembly: assembly,
	}
}

// extractFields pulls every variable field out of the word, reassembling
// scattered immediates into one logical value and widening 3-bit register
// fields back to architectural indexes.
func extractFields(t *isa.InstructionTemplate, word uint32) isa.BoundFields {
	fields := isa.BoundFields{}
	var imm uint64
	immCat := isa.CatImm
	haveImm := false

	for i := range t.Fields {
		f := &t.Fields[i]
		if !f.Variable() {
			continue
		}
		raw := uint64(word>>f.Lo) & (1<<f.Width() - 1)
		if f.Immediate() {
			imm |= raw << f.LogLo
			immCat = f.Category
			haveImm = true
			continue
		}
		switch f.Category {
		case isa.CatRd, isa.CatRs1, isa.CatRs2, isa.CatRs3:
			if f.Width() == 3 {
				raw += 8
			}
		}
		fields[f.Category] = raw
	}

	if haveImm {
		if immCat == isa.CatImm {
			width := uint(t.ImmWidth())
			if imm&(1<<(width-1)) != 0 {
				imm |= ^uint64(0) << width
			}
		}
		fields[immCat] = imm
	}
	return fields
}

func renderSlot(fields isa.BoundFields, slot string) (string, bool) {
	switch slot {
	case "rd", "rs1", "rs2", "rs3":
		return renderReg(fields, slot, isa.RegInt)
	case "frd", "frs1", "frs2", "frs3":
		return renderReg(fields, slot[1:], isa.RegFloat)
	case "vd", "vs1", "vs2":
		return renderReg(fields, "r"+slot[1:], isa.RegVector)

	case "imm", "offset":
		return strconv.FormatInt(immOf(fields), 10), true
	case "uimm", "shamt", "pred", "succ":
		cat := isa.CatUImm
		switch slot {
		case "shamt":
			cat = isa.CatShamt
		case "pred":
			cat = isa.CatPred
		case "succ":
			cat = isa.CatSucc
		}
		return strconv.FormatUint(fields[cat], 10), true

	case "csr":
		return isa.CSRName(uint16(fields[isa.CatCSR])), true

	case "mem":
		base := isa.RegisterName(isa.RegInt, uint8(fields[isa.CatRs1]))
		return fmt.Sprintf("%d(%s)", immOf(fields), base), true
	case "addr":
		return fmt.Sprintf("(%s)", isa.RegisterName(isa.RegInt, uint8(fields[isa.CatRs1]))), true
	case "offsp":
		return fmt.Sprintf("%d(sp)", immOf(fields)), true

	case "rm":
		// Dynamic rounding is the assembler default and stays implicit.
		if code, ok := fields[isa.CatRM]; ok && code != isa.RoundDynamic {
			return isa.RoundingModeName(uint8(code)), true
		}
		return "", false
	case "vmask":
		if fields[isa.CatVm] == 0 {
			return "v0.t", true
		}
		return "", false
	}
	return "", false
}

func renderReg(fields isa.BoundFields, slot string, class isa.RegClass) (string, bool) {
	cat := isa.CatRd
	switch slot {
	case "rs1":
		cat = isa.CatRs1
	case "rs2":
		cat = isa.CatRs2
	case "rs3":
		cat = isa.CatRs3
	}
	idx, ok := fields[cat]
	if !ok && cat == isa.CatRs1 {
		// CR layout: the source register lives in the rd position.
		idx, ok = fields[isa.CatRd]
	}
	if !ok {
		return "", false
	}
	return isa.RegisterName(class, uint8(idx)), true
}

// immOf returns the logical immediate as a signed value regardless of which
// immediate category the template uses.
func immOf(fields isa.BoundFields) int64 {
	for _, cat := range []isa.FieldCategory{isa.CatImm, isa.CatUImm, isa.CatShamt} {
		if v, ok := fields[cat]; ok {
			return int64(v)
		}
	}
	return 0
}
