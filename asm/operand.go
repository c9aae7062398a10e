package asm

import (
	"strconv"
	"strings"

	"github.com/mewais/archtools.io-sub000/isa"
)

// SplitOperands splits the operand portion of an assembly line on commas,
// keeping parenthesized memory references intact. Empty input yields no
// operands.
func SplitOperands(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, isa.NewError(isa.ErrOperandParse, "unbalanced ')' in %q", s)
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, isa.NewError(isa.ErrOperandParse, "unbalanced '(' in %q", s)
	}
	out = append(out, strings.TrimSpace(s[start:]))

	for _, tok := range out {
		if tok == "" {
			return nil, isa.NewError(isa.ErrOperandParse, "empty operand in %q", s)
		}
	}
	return out, nil
}

// ParseOperand classifies one operand token. Register names win over every
// other reading, then CSR names, then rounding modes, then integer literals
// (decimal, hex with 0x, or octal with 0o); offset(base) forms become memory
// references.
func ParseOperand(token string) (isa.ParsedOperand, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return isa.ParsedOperand{}, isa.NewError(isa.ErrOperandParse, "empty operand")
	}

	if strings.EqualFold(token, "v0.t") {
		return isa.ParsedOperand{Kind: isa.OperandVectorMask}, nil
	}

	if open := strings.IndexByte(token, '('); open >= 0 {
		return parseMemory(token, open)
	}

	if class, index, ok := isa.RegisterByName(token); ok {
		return isa.Reg(class, index), nil
	}

	if addr, ok := isa.CSRByName(token); ok {
		return isa.ParsedOperand{Kind: isa.OperandCSR, Value: int64(addr)}, nil
	}

	if code, ok := isa.RoundingModeByName(token); ok {
		return isa.ParsedOperand{Kind: isa.OperandRoundingMode, Value: int64(code)}, nil
	}

	if v, err := strconv.ParseInt(token, 0, 64); err == nil {
		return isa.Imm(v), nil
	}

	return isa.ParsedOperand{}, isa.NewError(isa.ErrOperandParse,
		"cannot parse operand %q", token)
}

// parseMemory handles offset(base) tokens. The offset may be empty (zero) or
// any integer literal; the base must be an integer register.
func parseMemory(token string, open int) (isa.ParsedOperand, error) {
	if !strings.HasSuffix(token, ")") {
		return isa.ParsedOperand{}, isa.NewError(isa.ErrOperandParse,
			"malformed memory operand %q", token)
	}

	offset := int64(0)
	if head := strings.TrimSpace(token[:open]); head != "" {
		v, err := strconv.ParseInt(head, 0, 64)
		if err != nil {
			return isa.ParsedOperand{}, isa.NewError(isa.ErrOperandParse,
				"bad offset in memory operand %q", token)
		}
		offset = v
	}

	baseName := strings.TrimSpace(token[open+1 : len(token)-1])
	class, index, ok := isa.RegisterByName(baseName)
	if !ok || class != isa.RegInt {
		return isa.ParsedOperand{}, isa.NewError(isa.ErrOperandParse,
			"bad base register in memory operand %q", token)
	}

	return isa.Mem(index, offset), nil
}
