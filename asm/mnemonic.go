// Package asm translates assembly text into machine words using the
// instruction catalog.
package asm

import (
	"strings"

	"github.com/mewais/archtools.io-sub000/isa"
)

// SplitMnemonic separates suffix modifiers from a raw mnemonic token. The
// recognized suffixes are the ordering bits (AQ, RL) and the rounding-mode
// names (RNE, RTZ, RDN, RUP, RMM, DYN); stripping walks from the end of the
// token and stops at the first unrecognized part, so dotted mnemonics like
// AMOADD.W or FCVT.W.S keep their qualifiers.
func SplitMnemonic(token string) (string, isa.Modifiers, error) {
	mods := isa.NoModifiers()
	parts := strings.Split(token, ".")

	for len(parts) > 1 {
		last := strings.ToUpper(parts[len(parts)-1])
		switch {
		case last == "AQ":
			if mods.Aq {
				return "", mods, isa.NewError(isa.ErrOperandParse,
					"duplicate aq modifier in %q", token)
			}
			mods.Aq = true
		case last == "RL":
			if mods.Rl {
				return "", mods, isa.NewError(isa.ErrOperandParse,
					"duplicate rl modifier in %q", token)
			}
			mods.Rl = true
		default:
			code, ok := isa.RoundingModeByName(last)
			if !ok {
				return strings.Join(parts, "."), mods, nil
			}
			if mods.RM >= 0 {
				return "", mods, isa.NewError(isa.ErrOperandParse,
					"duplicate rounding mode in %q", token)
			}
			mods.RM = int8(code)
		}
		parts = parts[:len(parts)-1]
	}

	return strings.Join(parts, "."), mods, nil
}
