package isa

import (
	"strconv"
	"strings"
)

// immSlice maps one contiguous physical bit range onto a contiguous range
// of logical immediate bits.
type immSlice struct {
	physHi, physLo uint8
	logHi, logLo   uint8
}

// parseImmBits parses a per-record immediate placement spec into slices.
//
// The spec is a comma-separated list of physical ranges, each annotated
// with the logical bits it carries:
//
//	"12:10[5:3],6[2],5[6]"          (C.LW: uimm[5:3] at 12:10, ...)
//	"12:2[11|4|9:8|10|6|7|3:1|5]"   (C.J: one physical run, scattered)
//
// Within a bracket, '|'-separated logical ranges are consumed MSB-first
// from the physical range, the same walk riscv-style operand tables use.
// A bare range with no bracket maps physical bits to equal logical bits.
func parseImmBits(spec string) ([]immSlice, error) {
	var slices []immSlice

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, newError(ErrBadRecord, "empty immediate range in %q", spec)
		}

		rawPhys, rawLog, bracketed := cutBracket(part)
		physHi, physLo, err := parseBitRange(rawPhys)
		if err != nil {
			return nil, newError(ErrBadRecord, "bad physical range %q: %s", rawPhys, err)
		}

		if !bracketed {
			slices = append(slices, immSlice{physHi, physLo, physHi, physLo})
			continue
		}

		// Consume the physical range MSB-first, one logical run at a time.
		top := int(physHi)
		for _, rawRun := range strings.Split(rawLog, "|") {
			logHi, logLo, err := parseBitRange(rawRun)
			if err != nil {
				return nil, newError(ErrBadRecord, "bad logical range %q: %s", rawRun, err)
			}
			width := int(logHi - logLo)
			if top-width < int(physLo) {
				return nil, newError(ErrBadRecord,
					"logical bits overflow physical range in %q", part)
			}
			slices = append(slices, immSlice{
				physHi: uint8(top),
				physLo: uint8(top - width),
				logHi:  logHi,
				logLo:  logLo,
			})
			top -= width + 1
		}
		if top != int(physLo)-1 {
			return nil, newError(ErrBadRecord,
				"logical bits do not cover physical range in %q", part)
		}
	}

	return slices, nil
}

// cutBracket splits "12:10[5:3]" into "12:10" and "5:3".
func cutBracket(s string) (phys, log string, ok bool) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		return s, "", false
	}
	close := strings.IndexByte(s, ']')
	if close != len(s)-1 || close < open {
		return s, "", false
	}
	return s[:open], s[open+1 : close], true
}

// parseBitRange parses "hi:lo" or a single "bit" position.
func parseBitRange(s string) (hi, lo uint8, err error) {
	rawHi, rawLo, found := strings.Cut(s, ":")
	if !found {
		rawLo = rawHi
	}
	h, err := strconv.ParseUint(strings.TrimSpace(rawHi), 10, 8)
	if err != nil {
		return 0, 0, err
	}
	l, err := strconv.ParseUint(strings.TrimSpace(rawLo), 10, 8)
	if err != nil {
		return 0, 0, err
	}
	if l > h {
		h, l = l, h
	}
	return uint8(h), uint8(l), nil
}
