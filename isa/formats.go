package isa

// fieldSpec positions one field within a structural instruction format.
// For immediate-carrying fields, logHi/logLo map the physical range onto
// bits of the logical immediate value.
type fieldSpec struct {
	name         string
	hi, lo       uint8
	cat          FieldCategory
	logHi, logLo uint8
}

// formatSpec is the field layout shared by every instruction of a format.
type formatSpec struct {
	width  int
	fields []fieldSpec
}

// formats holds the structural layouts of the supported instruction
// families. Standard 32-bit formats carry their immediate scatter here;
// compressed formats leave immediate placement to per-record bit specs
// because the scatter varies per instruction within one format.
var formats = map[string]formatSpec{
	"R-Type": {32, []fieldSpec{
		{name: "funct7", hi: 31, lo: 25, cat: CatFunct},
		{name: "rs2", hi: 24, lo: 20, cat: CatRs2},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	// R layout with bits [14:12] carrying the rounding mode instead of a
	// function code (floating-point arithmetic and conversions).
	"RF-Type": {32, []fieldSpec{
		{name: "funct7", hi: 31, lo: 25, cat: CatFunct},
		{name: "rs2", hi: 24, lo: 20, cat: CatRs2},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "rm", hi: 14, lo: 12, cat: CatRM},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"R4-Type": {32, []fieldSpec{
		{name: "rs3", hi: 31, lo: 27, cat: CatRs3},
		{name: "fmt", hi: 26, lo: 25, cat: CatFunct},
		{name: "rs2", hi: 24, lo: 20, cat: CatRs2},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "rm", hi: 14, lo: 12, cat: CatRM},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"R-Atomic": {32, []fieldSpec{
		{name: "funct5", hi: 31, lo: 27, cat: CatFunct},
		{name: "aq", hi: 26, lo: 26, cat: CatAq},
		{name: "rl", hi: 25, lo: 25, cat: CatRl},
		{name: "rs2", hi: 24, lo: 20, cat: CatRs2},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"FENCE-Type": {32, []fieldSpec{
		{name: "fm", hi: 31, lo: 28, cat: CatFunct},
		{name: "pred", hi: 27, lo: 24, cat: CatPred},
		{name: "succ", hi: 23, lo: 20, cat: CatSucc},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"I-Type": {32, []fieldSpec{
		{name: "imm[11:0]", hi: 31, lo: 20, cat: CatImm, logHi: 11, logLo: 0},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	// Shift-immediate layouts: RV32 keeps a 5-bit shamt under funct7,
	// RV64 widens it to 6 bits under funct6.
	"I-Shift32": {32, []fieldSpec{
		{name: "funct7", hi: 31, lo: 25, cat: CatFunct},
		{name: "shamt", hi: 24, lo: 20, cat: CatShamt, logHi: 4, logLo: 0},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"I-Shift64": {32, []fieldSpec{
		{name: "funct6", hi: 31, lo: 26, cat: CatFunct},
		{name: "shamt", hi: 25, lo: 20, cat: CatShamt, logHi: 5, logLo: 0},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"S-Type": {32, []fieldSpec{
		{name: "imm[11:5]", hi: 31, lo: 25, cat: CatImm, logHi: 11, logLo: 5},
		{name: "rs2", hi: 24, lo: 20, cat: CatRs2},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "imm[4:0]", hi: 11, lo: 7, cat: CatImm, logHi: 4, logLo: 0},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"B-Type": {32, []fieldSpec{
		{name: "imm[12]", hi: 31, lo: 31, cat: CatImm, logHi: 12, logLo: 12},
		{name: "imm[10:5]", hi: 30, lo: 25, cat: CatImm, logHi: 10, logLo: 5},
		{name: "rs2", hi: 24, lo: 20, cat: CatRs2},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "imm[4:1]", hi: 11, lo: 8, cat: CatImm, logHi: 4, logLo: 1},
		{name: "imm[11]", hi: 7, lo: 7, cat: CatImm, logHi: 11, logLo: 11},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	// The U-type immediate is the raw 20-bit field value, not the shifted
	// result, matching assembler syntax for LUI/AUIPC.
	"U-Type": {32, []fieldSpec{
		{name: "imm[31:12]", hi: 31, lo: 12, cat: CatUImm, logHi: 19, logLo: 0},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"J-Type": {32, []fieldSpec{
		{name: "imm[20]", hi: 31, lo: 31, cat: CatImm, logHi: 20, logLo: 20},
		{name: "imm[10:1]", hi: 30, lo: 21, cat: CatImm, logHi: 10, logLo: 1},
		{name: "imm[11]", hi: 20, lo: 20, cat: CatImm, logHi: 11, logLo: 11},
		{name: "imm[19:12]", hi: 19, lo: 12, cat: CatImm, logHi: 19, logLo: 12},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"CSR-Type": {32, []fieldSpec{
		{name: "csr", hi: 31, lo: 20, cat: CatCSR},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"CSRI-Type": {32, []fieldSpec{
		{name: "csr", hi: 31, lo: 20, cat: CatCSR},
		{name: "uimm", hi: 19, lo: 15, cat: CatUImm, logHi: 4, logLo: 0},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	// Vector arithmetic layouts differ only in what bits [19:15] carry:
	// a vector source, a scalar source, or a 5-bit signed immediate.
	"V-Type": {32, []fieldSpec{
		{name: "funct6", hi: 31, lo: 26, cat: CatFunct},
		{name: "vm", hi: 25, lo: 25, cat: CatVm},
		{name: "vs2", hi: 24, lo: 20, cat: CatRs2},
		{name: "vs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "vd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"VX-Type": {32, []fieldSpec{
		{name: "funct6", hi: 31, lo: 26, cat: CatFunct},
		{name: "vm", hi: 25, lo: 25, cat: CatVm},
		{name: "vs2", hi: 24, lo: 20, cat: CatRs2},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "vd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"VI-Type": {32, []fieldSpec{
		{name: "funct6", hi: 31, lo: 26, cat: CatFunct},
		{name: "vm", hi: 25, lo: 25, cat: CatVm},
		{name: "vs2", hi: 24, lo: 20, cat: CatRs2},
		{name: "simm5", hi: 19, lo: 15, cat: CatImm, logHi: 4, logLo: 0},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "vd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},
	"VSETVL-Type": {32, []fieldSpec{
		{name: "funct1", hi: 31, lo: 31, cat: CatFunct},
		{name: "zimm", hi: 30, lo: 20, cat: CatUImm, logHi: 10, logLo: 0},
		{name: "rs1", hi: 19, lo: 15, cat: CatRs1},
		{name: "funct3", hi: 14, lo: 12, cat: CatFunct},
		{name: "rd", hi: 11, lo: 7, cat: CatRd},
		{name: "opcode", hi: 6, lo: 0, cat: CatOpcode},
	}},

	// Compressed formats. Register-prime fields are 3 bits wide and encode
	// x8-x15/f8-f15. Immediate scatter comes from per-record bit specs.
	"CR-Type": {16, []fieldSpec{
		{name: "funct4", hi: 15, lo: 12, cat: CatFunct},
		{name: "rd/rs1", hi: 11, lo: 7, cat: CatRd},
		{name: "rs2", hi: 6, lo: 2, cat: CatRs2},
		{name: "op", hi: 1, lo: 0, cat: CatOpcode},
	}},
	"CI-Type": {16, []fieldSpec{
		{name: "funct3", hi: 15, lo: 13, cat: CatFunct},
		{name: "imm[5]", hi: 12, lo: 12, cat: CatImm, logHi: 5, logLo: 5},
		{name: "rd/rs1", hi: 11, lo: 7, cat: CatRd},
		{name: "imm[4:0]", hi: 6, lo: 2, cat: CatImm, logHi: 4, logLo: 0},
		{name: "op", hi: 1, lo: 0, cat: CatOpcode},
	}},
	"CSS-Type": {16, []fieldSpec{
		{name: "funct3", hi: 15, lo: 13, cat: CatFunct},
		{name: "imm[5:0]", hi: 12, lo: 7, cat: CatUImm, logHi: 5, logLo: 0},
		{name: "rs2", hi: 6, lo: 2, cat: CatRs2},
		{name: "op", hi: 1, lo: 0, cat: CatOpcode},
	}},
	"CIW-Type": {16, []fieldSpec{
		{name: "funct3", hi: 15, lo: 13, cat: CatFunct},
		{name: "nzuimm", hi: 12, lo: 5, cat: CatUImm, logHi: 9, logLo: 2},
		{name: "rd'", hi: 4, lo: 2, cat: CatRd},
		{name: "op", hi: 1, lo: 0, cat: CatOpcode},
	}},
	"CL-Type": {16, []fieldSpec{
		{name: "funct3", hi: 15, lo: 13, cat: CatFunct},
		{name: "uimm[hi]", hi: 12, lo: 10, cat: CatUImm, logHi: 5, logLo: 3},
		{name: "rs1'", hi: 9, lo: 7, cat: CatRs1},
		{name: "uimm[lo]", hi: 6, lo: 5, cat: CatUImm, logHi: 2, logLo: 1},
		{name: "rd'", hi: 4, lo: 2, cat: CatRd},
		{name: "op", hi: 1, lo: 0, cat: CatOpcode},
	}},
	"CS-Type": {16, []fieldSpec{
		{name: "funct3", hi: 15, lo: 13, cat: CatFunct},
		{name: "uimm[hi]", hi: 12, lo: 10, cat: CatUImm, logHi: 5, logLo: 3},
		{name: "rs1'", hi: 9, lo: 7, cat: CatRs1},
		{name: "uimm[lo]", hi: 6, lo: 5, cat: CatUImm, logHi: 2, logLo: 1},
		{name: "rs2'", hi: 4, lo: 2, cat: CatRs2},
		{name: "op", hi: 1, lo: 0, cat: CatOpcode},
	}},
	"CA-Type": {16, []fieldSpec{
		{name: "funct6", hi: 15, lo: 10, cat: CatFunct},
		{name: "rd'/rs1'", hi: 9, lo: 7, cat: CatRd},
		{name: "funct2", hi: 6, lo: 5, cat: CatFunct},
		{name: "rs2'", hi: 4, lo: 2, cat: CatRs2},
		{name: "op", hi: 1, lo: 0, cat: CatOpcode},
	}},
	"CB-Type": {16, []fieldSpec{
		{name: "funct3", hi: 15, lo: 13, cat: CatFunct},
		{name: "offset[hi]", hi: 12, lo: 10, cat: CatImm, logHi: 8, logLo: 6},
		{name: "rs1'", hi: 9, lo: 7, cat: CatRs1},
		{name: "offset[lo]", hi: 6, lo: 2, cat: CatImm, logHi: 5, logLo: 1},
		{name: "op", hi: 1, lo: 0, cat: CatOpcode},
	}},
	// CB layout reused by the compressed shift/and-immediate group, where
	// bits [11:10] select the operation instead of carrying offset bits.
	"CB-Imm-Type": {16, []fieldSpec{
		{name: "funct3", hi: 15, lo: 13, cat: CatFunct},
		{name: "imm[5]", hi: 12, lo: 12, cat: CatImm, logHi: 5, logLo: 5},
		{name: "funct2", hi: 11, lo: 10, cat: CatFunct},
		{name: "rd'/rs1'", hi: 9, lo: 7, cat: CatRd},
		{name: "imm[4:0]", hi: 6, lo: 2, cat: CatImm, logHi: 4, logLo: 0},
		{name: "op", hi: 1, lo: 0, cat: CatOpcode},
	}},
	"CJ-Type": {16, []fieldSpec{
		{name: "funct3", hi: 15, lo: 13, cat: CatFunct},
		{name: "target", hi: 12, lo: 2, cat: CatImm, logHi: 11, logLo: 1},
		{name: "op", hi: 1, lo: 0, cat: CatOpcode},
	}},
}
