package isa

// Encode packs bound field values over the template's literal bits and
// returns the machine word. Values are truncated to each field's width; in
// strict mode an immediate that cannot survive the round trip (out of range,
// or misaligned against implicit low-order zeros) is rejected instead.
func (t *InstructionTemplate) Encode(bound BoundFields, strict bool) (uint32, error) {
	if strict {
		if err := t.checkImmediateRange(bound); err != nil {
			return 0, err
		}
	}

	word := t.Test
	for i := range t.Fields {
		f := &t.Fields[i]
		if !f.Variable() {
			continue
		}
		v, ok := bound[f.Category]
		if !ok {
			return 0, newError(ErrOperandBinding,
				"%s: no value bound for field %s", t.Mnemonic, f.Name)
		}
		slice := v
		if f.Immediate() {
			slice >>= f.LogLo
		}
		// Truncation to the field width also turns x8-x15 indexes into the
		// 3-bit register-prime encoding.
		slice &= (1 << f.Width()) - 1
		word |= uint32(slice) << f.Lo
	}
	return word, nil
}

// checkImmediateRange verifies a bound immediate fits the template's logical
// immediate exactly: within the signed or unsigned range of its width and
// zero in the implicit low-order bits the encoding does not store.
func (t *InstructionTemplate) checkImmediateRange(bound BoundFields) error {
	fields := t.ImmFields()
	if len(fields) == 0 {
		return nil
	}
	cat := fields[0].Category
	raw, ok := bound[cat]
	if !ok {
		return nil
	}
	width := uint(t.ImmWidth())
	shift := uint(t.ImmShift())

	v := int64(raw)
	if cat == CatImm {
		lo := -(int64(1) << (width - 1))
		hi := int64(1)<<(width-1) - 1
		if v < lo || v > hi {
			return newError(ErrImmediateOutOfRange,
				"%s: immediate %d outside [%d, %d]", t.Mnemonic, v, lo, hi)
		}
	} else {
		hi := int64(1)<<width - 1
		if v < 0 || v > hi {
			return newError(ErrImmediateOutOfRange,
				"%s: immediate %d outside [0, %d]", t.Mnemonic, v, hi)
		}
	}
	if shift > 0 && v&(int64(1)<<shift-1) != 0 {
		return newError(ErrImmediateOutOfRange,
			"%s: immediate %d must be a multiple of %d", t.Mnemonic, v, 1<<shift)
	}
	return nil
}
