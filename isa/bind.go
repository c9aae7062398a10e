package isa

// binder maps a parsed operand list onto a template's field slots. The
// strategy for each template is selected once at catalog-build time from
// its format and category, so the per-call path never re-examines those
// strings.
type binder interface {
	bind(t *InstructionTemplate, ops []ParsedOperand, mods Modifiers) (BoundFields, error)
}

// Bind produces the field values for an encode call.
func (t *InstructionTemplate) Bind(ops []ParsedOperand, mods Modifiers) (BoundFields, error) {
	return t.binder.bind(t, ops, mods)
}

func chooseBinder(t *InstructionTemplate) binder {
	if t.Format == "R-Atomic" {
		return atomicBinder{}
	}
	switch t.Category {
	case "Load":
		return loadBinder{}
	case "Store":
		return storeBinder{}
	}
	return positionalBinder{}
}

// positionalBinder implements the generic rule: the i-th operand binds to
// the i-th declared slot.
type positionalBinder struct{}

func (positionalBinder) bind(t *InstructionTemplate, ops []ParsedOperand, mods Modifiers) (BoundFields, error) {
	return bindSlots(t, ops, mods)
}

// loadBinder handles "dest, offset(base)" syntax: the destination register
// binds first, the memory operand supplies rs1 and the immediate.
type loadBinder struct{}

func (loadBinder) bind(t *InstructionTemplate, ops []ParsedOperand, mods Modifiers) (BoundFields, error) {
	if hasSlot(t, "mem") && len(ops) == 2 && ops[1].Kind != OperandMemory {
		return nil, newError(ErrOperandBinding,
			"%s expects a memory operand, e.g. %s rd, 8(rs1)", t.Mnemonic, t.Mnemonic)
	}
	return bindSlots(t, ops, mods)
}

// storeBinder handles "value, offset(base)" syntax: the first operand is
// the stored value and binds rs2, not rd.
type storeBinder struct{}

func (storeBinder) bind(t *InstructionTemplate, ops []ParsedOperand, mods Modifiers) (BoundFields, error) {
	if hasSlot(t, "mem") && len(ops) == 2 && ops[1].Kind != OperandMemory {
		return nil, newError(ErrOperandBinding,
			"%s expects a memory operand, e.g. %s rs2, 8(rs1)", t.Mnemonic, t.Mnemonic)
	}
	return bindSlots(t, ops, mods)
}

// atomicBinder handles LR/SC/AMO syntax: rd binds first, the address
// operand supplies rs1 with no displacement, and three-operand forms take
// the source register in between.
type atomicBinder struct{}

func (atomicBinder) bind(t *InstructionTemplate, ops []ParsedOperand, mods Modifiers) (BoundFields, error) {
	if len(ops) != len(t.OperandSlots) {
		return nil, newError(ErrOperandBinding,
			"%s takes %d operands, got %d", t.Mnemonic, len(t.OperandSlots), len(ops))
	}
	return bindSlots(t, ops, mods)
}

// bindSlots walks the declared slots in assembly order, consuming parsed
// operands and validating their shape against each slot.
func bindSlots(t *InstructionTemplate, ops []ParsedOperand, mods Modifiers) (BoundFields, error) {
	bound := BoundFields{}
	next := 0

	for _, slot := range t.OperandSlots {
		// Optional trailing slots never fail for absence.
		switch slot {
		case "rm":
			if next < len(ops) && ops[next].Kind == OperandRoundingMode {
				bound[CatRM] = uint64(ops[next].Value)
				next++
			}
			continue
		case "vmask":
			if next < len(ops) && ops[next].Kind == OperandVectorMask {
				bound[CatVm] = 0
				next++
			}
			continue
		}

		if next >= len(ops) {
			return nil, newError(ErrOperandBinding,
				"%s: missing operand for %s", t.Mnemonic, slot)
		}
		op := ops[next]
		next++

		if err := bindSlot(t, bound, slot, op); err != nil {
			return nil, err
		}
	}

	if next != len(ops) {
		return nil, newError(ErrOperandBinding,
			"%s takes %d operands, got %d", t.Mnemonic, next, len(ops))
	}

	if err := bindModifiers(t, bound, mods); err != nil {
		return nil, err
	}
	return bound, nil
}

func bindSlot(t *InstructionTemplate, bound BoundFields, slot string, op ParsedOperand) error {
	switch slot {
	case "rd", "rs1", "rs2", "rs3":
		return bindReg(t, bound, regSlotCategory(slot), RegInt, op)
	case "frd", "frs1", "frs2", "frs3":
		return bindReg(t, bound, regSlotCategory(slot[1:]), RegFloat, op)
	case "vd", "vs1", "vs2":
		return bindReg(t, bound, regSlotCategory("r"+slot[1:]), RegVector, op)

	case "imm", "offset":
		if op.Kind != OperandImmediate {
			return bindShapeError(t, slot, op)
		}
		bound[immCategory(t)] = uint64(op.Value)
	case "uimm":
		if op.Kind != OperandImmediate {
			return bindShapeError(t, slot, op)
		}
		bound[CatUImm] = uint64(op.Value)
	case "shamt":
		if op.Kind != OperandImmediate {
			return bindShapeError(t, slot, op)
		}
		bound[CatShamt] = uint64(op.Value)

	case "csr":
		// CSRs are addressable by name or by raw 12-bit address.
		switch op.Kind {
		case OperandCSR:
		case OperandImmediate:
			if op.Value < 0 || op.Value > 0xFFF {
				return newError(ErrOperandBinding,
					"%s: CSR address %d outside [0, 4095]", t.Mnemonic, op.Value)
			}
		default:
			return bindShapeError(t, slot, op)
		}
		bound[CatCSR] = uint64(op.Value)

	case "mem":
		if op.Kind != OperandMemory {
			return bindShapeError(t, slot, op)
		}
		if err := bindBase(t, bound, op.Base); err != nil {
			return err
		}
		bound[immCategory(t)] = uint64(op.Value)
	case "addr":
		// Atomics address registers with no displacement; a bare register
		// is accepted alongside the canonical (rs1) form.
		switch op.Kind {
		case OperandMemory:
			if op.Value != 0 {
				return newError(ErrOperandBinding,
					"%s: address operand cannot carry an offset", t.Mnemonic)
			}
			return bindBase(t, bound, op.Base)
		case OperandRegister:
			if op.Class != RegInt {
				return bindShapeError(t, slot, op)
			}
			return bindBase(t, bound, op.Index)
		default:
			return bindShapeError(t, slot, op)
		}
	case "offsp":
		// Stack-pointer-relative compressed forms: the base is implicit.
		switch op.Kind {
		case OperandMemory:
			if op.Base != 2 {
				return newError(ErrOperandBinding,
					"%s: base register must be sp", t.Mnemonic)
			}
			bound[immCategory(t)] = uint64(op.Value)
		case OperandImmediate:
			bound[immCategory(t)] = uint64(op.Value)
		default:
			return bindShapeError(t, slot, op)
		}

	case "pred", "succ":
		if op.Kind != OperandImmediate {
			return bindShapeError(t, slot, op)
		}
		cat := CatPred
		if slot == "succ" {
			cat = CatSucc
		}
		bound[cat] = uint64(op.Value)

	default:
		return newError(ErrBadRecord, "%s: unknown operand slot %q", t.Mnemonic, slot)
	}
	return nil
}

func regSlotCategory(slot string) FieldCategory {
	switch slot {
	case "rs1":
		return CatRs1
	case "rs2":
		return CatRs2
	case "rs3":
		return CatRs3
	}
	return CatRd
}

func bindReg(t *InstructionTemplate, bound BoundFields, cat FieldCategory, class RegClass, op ParsedOperand) error {
	if op.Kind != OperandRegister || op.Class != class {
		return newError(ErrOperandBinding,
			"%s: operand for %s must be a register", t.Mnemonic, cat)
	}
	f := t.Field(cat)
	if f == nil && cat == CatRs1 {
		// The CR layout stores its source register in the rd position
		// (C.JR, C.JALR).
		if f = t.Field(CatRd); f != nil {
			cat = CatRd
		}
	}
	if f == nil {
		return newError(ErrOperandBinding,
			"%s has no variable %s field", t.Mnemonic, cat)
	}
	// 3-bit compressed register fields encode x8-x15 only.
	if f.Width() == 3 && (op.Index < 8 || op.Index > 15) {
		return newError(ErrOperandBinding,
			"%s: register %s not encodable in a compressed field (x8-x15 only)",
			t.Mnemonic, RegisterName(op.Class, op.Index))
	}
	bound[cat] = uint64(op.Index)
	return nil
}

func bindBase(t *InstructionTemplate, bound BoundFields, base uint8) error {
	f := t.Field(CatRs1)
	if f == nil {
		return newError(ErrOperandBinding, "%s has no base register field", t.Mnemonic)
	}
	if f.Width() == 3 && (base < 8 || base > 15) {
		return newError(ErrOperandBinding,
			"%s: base register %s not encodable in a compressed field (x8-x15 only)",
			t.Mnemonic, RegisterName(RegInt, base))
	}
	bound[CatRs1] = uint64(base)
	return nil
}

// immCategory returns the category under which this template stores its
// immediate (signed, unsigned, or shift amount).
func immCategory(t *InstructionTemplate) FieldCategory {
	for _, f := range t.ImmFields() {
		return f.Category
	}
	return CatImm
}

// bindModifiers applies the suffix modifiers and the documented defaults:
// a variable rm field defaults to dynamic rounding, ordering bits default
// to zero.
func bindModifiers(t *InstructionTemplate, bound BoundFields, mods Modifiers) error {
	rmField := t.Field(CatRM)
	if mods.RM >= 0 {
		if rmField == nil {
			return newError(ErrOperandBinding,
				"%s does not take a rounding-mode modifier", t.Mnemonic)
		}
		if _, dup := bound[CatRM]; dup {
			return newError(ErrOperandBinding,
				"%s: rounding mode given both as modifier and operand", t.Mnemonic)
		}
		bound[CatRM] = uint64(mods.RM)
	}
	if rmField != nil {
		if _, ok := bound[CatRM]; !ok {
			bound[CatRM] = RoundDynamic
		}
	}

	aqField := t.Field(CatAq)
	rlField := t.Field(CatRl)
	if (mods.Aq && aqField == nil) || (mods.Rl && rlField == nil) {
		return newError(ErrOperandBinding,
			"%s does not take ordering modifiers", t.Mnemonic)
	}
	if aqField != nil {
		bound[CatAq] = boolBit(mods.Aq)
	}
	if rlField != nil {
		bound[CatRl] = boolBit(mods.Rl)
	}

	if vmField := t.Field(CatVm); vmField != nil {
		if _, ok := bound[CatVm]; !ok {
			bound[CatVm] = 1 // unmasked
		}
	}
	return nil
}

func bindShapeError(t *InstructionTemplate, slot string, op ParsedOperand) error {
	return newError(ErrOperandBinding,
		"%s: %s operand does not fit slot %s", t.Mnemonic, op.Kind, slot)
}

func hasSlot(t *InstructionTemplate, name string) bool {
	for _, slot := range t.OperandSlots {
		if slot == name {
			return true
		}
	}
	return false
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
