package isa

import (
	"fmt"
	"strings"
)

// RegisterName resolves an architectural or ABI register name. Matching is
// case-insensitive. The second return is false for unknown names.
func RegisterByName(name string) (RegClass, uint8, bool) {
	reg, ok := registerNames[strings.ToLower(name)]
	if !ok {
		return 0, 0, false
	}
	return reg.class, reg.index, ok
}

// RegisterName renders the canonical (numeric) name of a register.
func RegisterName(class RegClass, index uint8) string {
	switch class {
	case RegFloat:
		return fmt.Sprintf("f%d", index)
	case RegVector:
		return fmt.Sprintf("v%d", index)
	default:
		return fmt.Sprintf("x%d", index)
	}
}

type regEntry struct {
	class RegClass
	index uint8
}

var registerNames = buildRegisterNames()

func buildRegisterNames() map[string]regEntry {
	names := make(map[string]regEntry, 160)

	for i := uint8(0); i < 32; i++ {
		names[fmt.Sprintf("x%d", i)] = regEntry{RegInt, i}
		names[fmt.Sprintf("f%d", i)] = regEntry{RegFloat, i}
		names[fmt.Sprintf("v%d", i)] = regEntry{RegVector, i}
	}

	// Integer ABI names.
	intABI := map[string]uint8{
		"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
		"t0": 5, "t1": 6, "t2": 7,
		"s0": 8, "fp": 8, "s1": 9,
		"a0": 10, "a1": 11, "a2": 12, "a3": 13,
		"a4": 14, "a5": 15, "a6": 16, "a7": 17,
		"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22,
		"s7": 23, "s8": 24, "s9": 25, "s10": 26, "s11": 27,
		"t3": 28, "t4": 29, "t5": 30, "t6": 31,
	}
	for name, idx := range intABI {
		names[name] = regEntry{RegInt, idx}
	}

	// Floating-point ABI names.
	floatABI := map[string]uint8{
		"ft0": 0, "ft1": 1, "ft2": 2, "ft3": 3,
		"ft4": 4, "ft5": 5, "ft6": 6, "ft7": 7,
		"fs0": 8, "fs1": 9,
		"fa0": 10, "fa1": 11, "fa2": 12, "fa3": 13,
		"fa4": 14, "fa5": 15, "fa6": 16, "fa7": 17,
		"fs2": 18, "fs3": 19, "fs4": 20, "fs5": 21, "fs6": 22,
		"fs7": 23, "fs8": 24, "fs9": 25, "fs10": 26, "fs11": 27,
		"ft8": 28, "ft9": 29, "ft10": 30, "ft11": 31,
	}
	for name, idx := range floatABI {
		names[name] = regEntry{RegFloat, idx}
	}

	return names
}

// CSRByName resolves a CSR name to its 12-bit address.
func CSRByName(name string) (uint16, bool) {
	addr, ok := csrNames[strings.ToLower(name)]
	return addr, ok
}

// CSRName renders a CSR address by name when known, hex otherwise.
func CSRName(addr uint16) string {
	if name, ok := csrAddrs[addr]; ok {
		return name
	}
	return fmt.Sprintf("0x%03x", addr)
}

var csrNames = map[string]uint16{
	// Floating-point control.
	"fflags": 0x001, "frm": 0x002, "fcsr": 0x003,
	// Vector unit.
	"vstart": 0x008, "vxsat": 0x009, "vxrm": 0x00A, "vcsr": 0x00F,
	"vl": 0xC20, "vtype": 0xC21, "vlenb": 0xC22,
	// User counters.
	"cycle": 0xC00, "time": 0xC01, "instret": 0xC02,
	"cycleh": 0xC80, "timeh": 0xC81, "instreth": 0xC82,
	// Supervisor.
	"sstatus": 0x100, "sie": 0x104, "stvec": 0x105, "scounteren": 0x106,
	"sscratch": 0x140, "sepc": 0x141, "scause": 0x142, "stval": 0x143,
	"sip": 0x144, "satp": 0x180,
	// Machine.
	"mstatus": 0x300, "misa": 0x301, "medeleg": 0x302, "mideleg": 0x303,
	"mie": 0x304, "mtvec": 0x305, "mcounteren": 0x306,
	"mscratch": 0x340, "mepc": 0x341, "mcause": 0x342, "mtval": 0x343,
	"mip": 0x344,
	"mvendorid": 0xF11, "marchid": 0xF12, "mimpid": 0xF13, "mhartid": 0xF14,
}

var csrAddrs = invertCSRNames()

func invertCSRNames() map[uint16]string {
	inv := make(map[uint16]string, len(csrNames))
	for name, addr := range csrNames {
		inv[addr] = name
	}
	return inv
}

// Rounding-mode codes per the F extension. Code 7 selects the dynamic mode
// held in the frm CSR.
const (
	RoundNearestEven   = 0 // RNE
	RoundTowardZero    = 1 // RTZ
	RoundDown          = 2 // RDN
	RoundUp            = 3 // RUP
	RoundNearestMaxMag = 4 // RMM
	RoundDynamic       = 7 // DYN
)

var roundingModeNames = map[string]uint8{
	"rne": RoundNearestEven,
	"rtz": RoundTowardZero,
	"rdn": RoundDown,
	"rup": RoundUp,
	"rmm": RoundNearestMaxMag,
	"dyn": RoundDynamic,
}

var roundingModeCodes = map[uint8]string{
	RoundNearestEven:   "rne",
	RoundTowardZero:    "rtz",
	RoundDown:          "rdn",
	RoundUp:            "rup",
	RoundNearestMaxMag: "rmm",
	RoundDynamic:       "dyn",
}

// RoundingModeByName resolves a rounding-mode mnemonic (case-insensitive).
func RoundingModeByName(name string) (uint8, bool) {
	code, ok := roundingModeNames[strings.ToLower(name)]
	return code, ok
}

// RoundingModeName renders a rounding-mode code; reserved codes render
// numerically.
func RoundingModeName(code uint8) string {
	if name, ok := roundingModeCodes[code]; ok {
		return name
	}
	return fmt.Sprintf("%d", code)
}
