// Package isa provides the RISC-V instruction catalog and data model.
//
// The catalog is an immutable table of instruction templates loaded once at
// startup from a declarative data source. Each template describes one
// instruction variant as a fixed-width bit pattern (literal bits plus
// wildcards) together with named field metadata, and the catalog derives
// both directions of translation from it: packing parsed operands into a
// machine word, and matching a raw word back to its unique template.
//
// Usage:
//
//	catalog, err := isa.LoadDefault()
//	tmpl := catalog.Lookup("ADDIW", 64)
package isa

import (
	"strings"
)

// FieldCategory classifies what an encoding field carries. Unrecognized
// category strings are rejected at data-load time.
type FieldCategory uint8

// Field categories.
const (
	CatOpcode FieldCategory = iota // major opcode / opcode quadrant
	CatRd                          // destination register
	CatRs1                         // source register 1
	CatRs2                         // source register 2
	CatRs3                         // source register 3
	CatFunct                       // function code (funct3, funct7, fmt, ...)
	CatImm                         // signed immediate or offset
	CatUImm                        // zero-extended immediate
	CatShamt                       // shift amount
	CatCSR                         // CSR address
	CatRM                          // floating-point rounding mode
	CatAq                          // acquire ordering bit
	CatRl                          // release ordering bit
	CatVm                          // vector mask bit
	CatPred                        // fence predecessor set
	CatSucc                        // fence successor set
)

var fieldCategoryNames = map[FieldCategory]string{
	CatOpcode: "opcode",
	CatRd:     "rd",
	CatRs1:    "rs1",
	CatRs2:    "rs2",
	CatRs3:    "rs3",
	CatFunct:  "funct",
	CatImm:    "imm",
	CatUImm:   "uimm",
	CatShamt:  "shamt",
	CatCSR:    "csr",
	CatRM:     "rm",
	CatAq:     "aq",
	CatRl:     "rl",
	CatVm:     "vm",
	CatPred:   "pred",
	CatSucc:   "succ",
}

func (c FieldCategory) String() string {
	if name, ok := fieldCategoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseFieldCategory maps a category name from the data source onto the
// closed enum. Unknown names are a data error, not a silent default.
func ParseFieldCategory(name string) (FieldCategory, error) {
	for cat, n := range fieldCategoryNames {
		if n == name {
			return cat, nil
		}
	}
	return 0, newError(ErrBadRecord, "unrecognized field category %q", name)
}

// EncodingField is a named bit range within an instruction template. A field
// is variable when its sub-pattern contains wildcard bits; otherwise it is a
// literal constant baked into every encoding of the instruction.
//
// For immediate-category fields, [LogHi, LogLo] locate the physical range
// within the logical immediate value, so a scattered immediate is described
// by several fields that each map one physical sub-range independently.
type EncodingField struct {
	Name     string
	Hi, Lo   uint8 // physical bit range, inclusive, Hi >= Lo
	Category FieldCategory
	Sub      string // the template sub-pattern this field occupies
	LogHi    uint8  // logical immediate bit covered by Hi
	LogLo    uint8  // logical immediate bit covered by Lo
}

// Width returns the number of physical bits the field occupies.
func (f *EncodingField) Width() uint8 {
	return f.Hi - f.Lo + 1
}

// Variable reports whether the field carries an operand value rather than a
// literal constant.
func (f *EncodingField) Variable() bool {
	return strings.ContainsRune(f.Sub, 'x')
}

// Signed reports whether extracted values of this field sign-extend.
func (f *EncodingField) Signed() bool {
	return f.Category == CatImm
}

// Immediate reports whether the field is part of the logical immediate.
func (f *EncodingField) Immediate() bool {
	switch f.Category {
	case CatImm, CatUImm, CatShamt:
		return true
	}
	return false
}

// InstructionTemplate describes one instruction variant: its canonical
// mnemonic, structural format, the extensions it belongs to, the MSB-first
// bit pattern, derived field metadata, and the operand slots it exposes in
// assembly text order.
type InstructionTemplate struct {
	Mnemonic     string
	Format       string
	Extensions   []string
	Category     string
	Encoding     string // 16 or 32 symbols of 0/1/x, MSB first
	Fields       []EncodingField
	OperandSlots []string

	// Test and Mask hold the literal bits of the template: a word matches
	// when word & Mask == Test.
	Test, Mask uint32

	binder binder
}

// Width returns the instruction length in bits (16 or 32).
func (t *InstructionTemplate) Width() int {
	return len(t.Encoding)
}

// Compressed reports whether this is a 16-bit template.
func (t *InstructionTemplate) Compressed() bool {
	return t.Width() == 16
}

// Matches reports whether a raw word carries this template's literal bits.
func (t *InstructionTemplate) Matches(word uint32) bool {
	return word&t.Mask == t.Test
}

// VisibleAt reports whether the template exists under the given base
// integer width. A template gated to RV32-only extensions is invisible to
// 64-bit lookups and vice versa.
func (t *InstructionTemplate) VisibleAt(xlen int) bool {
	prefix := "RV32"
	if xlen == 64 {
		prefix = "RV64"
	}
	for _, ext := range t.Extensions {
		if strings.HasPrefix(ext, prefix) {
			return true
		}
	}
	return false
}

// Field returns the first variable field of the given category, or nil.
func (t *InstructionTemplate) Field(cat FieldCategory) *EncodingField {
	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Category == cat && f.Variable() {
			return f
		}
	}
	return nil
}

// ImmFields returns all variable immediate-carrying fields of the template.
func (t *InstructionTemplate) ImmFields() []*EncodingField {
	var fields []*EncodingField
	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Immediate() && f.Variable() {
			fields = append(fields, f)
		}
	}
	return fields
}

// ImmWidth returns the logical width of the template's immediate, counting
// implicit low-order zero bits that the encoding does not store (branch and
// jump offsets). Zero when the template has no variable immediate.
func (t *InstructionTemplate) ImmWidth() int {
	width := 0
	for _, f := range t.ImmFields() {
		if int(f.LogHi)+1 > width {
			width = int(f.LogHi) + 1
		}
	}
	return width
}

// ImmShift returns the number of implicit low-order zero bits of the
// logical immediate (e.g. 1 for branch offsets).
func (t *InstructionTemplate) ImmShift() int {
	fields := t.ImmFields()
	if len(fields) == 0 {
		return 0
	}
	shift := int(fields[0].LogLo)
	for _, f := range fields[1:] {
		if int(f.LogLo) < shift {
			shift = int(f.LogLo)
		}
	}
	return shift
}

// OperandKind tags a parsed operand value.
type OperandKind uint8

// Parsed operand kinds.
const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandMemory
	OperandCSR
	OperandRoundingMode
	OperandVectorMask // trailing v0.t mask selector
)

var operandKindNames = map[OperandKind]string{
	OperandRegister:     "register",
	OperandImmediate:    "immediate",
	OperandMemory:       "memory reference",
	OperandCSR:          "csr",
	OperandRoundingMode: "rounding mode",
	OperandVectorMask:   "vector mask",
}

func (k OperandKind) String() string {
	if name, ok := operandKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// RegClass identifies a register file.
type RegClass uint8

// Register classes.
const (
	RegInt RegClass = iota
	RegFloat
	RegVector
)

// ParsedOperand is a tagged operand value produced per parse call and
// consumed within a single encode call.
type ParsedOperand struct {
	Kind  OperandKind
	Class RegClass // register class for OperandRegister and memory bases
	Index uint8    // register index for OperandRegister
	Base  uint8    // base register index for OperandMemory
	Value int64    // immediate, memory offset, CSR address, or rm code
}

// Reg builds a register operand.
func Reg(class RegClass, index uint8) ParsedOperand {
	return ParsedOperand{Kind: OperandRegister, Class: class, Index: index}
}

// Imm builds an immediate operand.
func Imm(value int64) ParsedOperand {
	return ParsedOperand{Kind: OperandImmediate, Value: value}
}

// Mem builds a memory-reference operand.
func Mem(base uint8, offset int64) ParsedOperand {
	return ParsedOperand{Kind: OperandMemory, Class: RegInt, Base: base, Value: offset}
}

// BoundFields maps field categories to the raw values the encoder packs.
// Values are already meaningful at the field's width; the encoder truncates.
type BoundFields map[FieldCategory]uint64

// Modifiers carries suffix modifiers split off a raw mnemonic token.
type Modifiers struct {
	RM int8 // rounding-mode code, or -1 when absent
	Aq bool
	Rl bool
}

// NoModifiers is the zero state of Modifiers (RM is -1, not 0).
func NoModifiers() Modifiers {
	return Modifiers{RM: -1}
}
