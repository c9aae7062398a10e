package asm

import (
	"strings"

	"github.com/mewais/archtools.io-sub000/isa"
)

// Encoded is the result of assembling one line.
type Encoded struct {
	Template *isa.InstructionTemplate
	Word     uint32
}

// Assembler turns assembly lines into machine words against one catalog at
// one base integer width. It holds no per-line state and is safe for
// concurrent use.
type Assembler struct {
	catalog *isa.Catalog
	xlen    int
	strict  bool
}

// NewAssembler builds an assembler for the given width (32 or 64).
func NewAssembler(catalog *isa.Catalog, xlen int) *Assembler {
	return &Assembler{catalog: catalog, xlen: xlen}
}

// SetStrict switches immediate handling from truncation to range checking.
func (a *Assembler) SetStrict(strict bool) {
	a.strict = strict
}

// Assemble encodes one line of assembly text. Comments introduced by '#'
// are stripped first.
func (a *Assembler) Assemble(line string) (Encoded, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return Encoded{}, isa.NewError(isa.ErrOperandParse, "empty assembly line")
	}

	token := line
	rest := ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		token, rest = line[:i], line[i+1:]
	}

	tmpl, mods, err := a.resolve(token)
	if err != nil {
		return Encoded{}, err
	}

	tokens, err := SplitOperands(rest)
	if err != nil {
		return Encoded{}, err
	}
	ops := make([]isa.ParsedOperand, len(tokens))
	for i, tok := range tokens {
		if ops[i], err = ParseOperand(tok); err != nil {
			return Encoded{}, err
		}
	}

	bound, err := tmpl.Bind(ops, mods)
	if err != nil {
		return Encoded{}, err
	}
	word, err := tmpl.Encode(bound, a.strict)
	if err != nil {
		return Encoded{}, err
	}
	return Encoded{Template: tmpl, Word: word}, nil
}

// resolve maps a raw mnemonic token to a template. The whole token is tried
// first so dotted mnemonics (FENCE.I, AMOADD.W) resolve before any suffix
// stripping; only when that fails are modifier suffixes split off.
func (a *Assembler) resolve(token string) (*isa.InstructionTemplate, isa.Modifiers, error) {
	if tmpl := a.catalog.Lookup(token, a.xlen); tmpl != nil {
		return tmpl, isa.NoModifiers(), nil
	}

	base, mods, err := SplitMnemonic(token)
	if err != nil {
		return nil, isa.Modifiers{}, err
	}
	tmpl := a.catalog.Lookup(base, a.xlen)
	if tmpl == nil {
		return nil, isa.Modifiers{}, isa.NewError(isa.ErrUnknownMnemonic,
			"no instruction named %q at RV%d", token, a.xlen)
	}
	return tmpl, mods, nil
}
