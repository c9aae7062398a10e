package isa

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

// Record is one instruction template row as supplied by a data source.
// Fields are derived from (Encoding, Format) at load time; ImmBits
// optionally overrides the format's immediate placement for instructions
// with per-mnemonic scatter (the compressed formats), and ImmCat overrides
// the immediate's category ("imm", "uimm", or "shamt").
type Record struct {
	Mnemonic   string   `json:"mnemonic"`
	Format     string   `json:"format"`
	Extensions []string `json:"extensions"`
	Category   string   `json:"category"`
	Encoding   string   `json:"encoding"`
	Operands   []string `json:"operands"`
	ImmBits    string   `json:"immBits,omitempty"`
	ImmCat     string   `json:"immCat,omitempty"`
}

// Source supplies instruction template records to catalog construction.
//
//go:generate mockgen -write_package_comment=false -package=isa -destination=mock_source_test.go -self_package=github.com/mewais/archtools.io-sub000/isa github.com/mewais/archtools.io-sub000/isa Source
type Source interface {
	Records() ([]Record, error)
}

// Catalog is the immutable, process-wide table of instruction templates.
// It is built once, then frozen; concurrent read access needs no locking.
type Catalog struct {
	templates  []*InstructionTemplate
	byMnemonic map[string][]*InstructionTemplate
	index32    map[uint32][]*InstructionTemplate
	index16    map[uint32][]*InstructionTemplate
	overlaps   []Overlap
}

// Overlap records a pair of templates whose literal patterns intersect but
// remain decodable because one is strictly more specific. These are
// legitimate in the compressed extension (e.g. C.JALR inside C.ADD's
// pattern space) yet worth surfacing to data maintainers.
type Overlap struct {
	Specific, General string
}

// Opcode index key masks: the major opcode occupies bits [6:0] of 32-bit
// words and the quadrant bits [1:0] of compressed words.
const (
	opcodeMask32 = 0x7F
	opcodeMask16 = 0x3
)

// Load builds a catalog from a data source. It fails fast on records it
// cannot interpret and on literal-pattern overlaps that would make decoding
// ambiguous.
func Load(src Source) (*Catalog, error) {
	records, err := src.Records()
	if err != nil {
		return nil, fmt.Errorf("reading instruction records: %w", err)
	}
	if len(records) == 0 {
		return nil, newError(ErrBadRecord, "data source supplied no records")
	}

	c := &Catalog{
		byMnemonic: make(map[string][]*InstructionTemplate),
		index32:    make(map[uint32][]*InstructionTemplate),
		index16:    make(map[uint32][]*InstructionTemplate),
	}

	for i, rec := range records {
		t, err := buildTemplate(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.Mnemonic, err)
		}
		c.templates = append(c.templates, t)
		key := strings.ToUpper(t.Mnemonic)
		c.byMnemonic[key] = append(c.byMnemonic[key], t)
	}

	if err := c.buildIndex(); err != nil {
		return nil, err
	}
	return c, nil
}

// Lookup resolves a mnemonic at a base integer width. Matching is
// case-insensitive; templates gated to the other width are invisible.
func (c *Catalog) Lookup(mnemonic string, xlen int) *InstructionTemplate {
	for _, t := range c.byMnemonic[strings.ToUpper(mnemonic)] {
		if t.VisibleAt(xlen) {
			return t
		}
	}
	return nil
}

// Candidates returns the pre-built opcode bucket for a raw word, sorted
// most-specific-first. Callers confirm each candidate's full literal mask.
func (c *Catalog) Candidates(word uint32) []*InstructionTemplate {
	if word&opcodeMask16 == opcodeMask16 {
		return c.index32[word&opcodeMask32]
	}
	return c.index16[word&opcodeMask16]
}

// Templates returns every template in the catalog, in load order.
func (c *Catalog) Templates() []*InstructionTemplate {
	return c.templates
}

// Overlaps lists the specificity-resolvable pattern overlaps found while
// indexing. Decode behavior stays deterministic (most specific wins), but
// callers may want to report these to whoever maintains the data.
func (c *Catalog) Overlaps() []Overlap {
	return c.overlaps
}

// Len returns the number of templates loaded.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// buildIndex partitions templates into buckets keyed by their literal
// opcode bits, orders each bucket by descending literal-bit count, and
// verifies the non-overlap invariant the decoder depends on.
func (c *Catalog) buildIndex() error {
	for _, t := range c.templates {
		if t.Compressed() {
			key := t.Test & opcodeMask16
			c.index16[key] = append(c.index16[key], t)
		} else {
			key := t.Test & opcodeMask32
			c.index32[key] = append(c.index32[key], t)
		}
	}

	for _, index := range []map[uint32][]*InstructionTemplate{c.index32, c.index16} {
		for _, bucket := range index {
			// Most specific wildcard count first; mnemonic breaks ties so
			// iteration order never depends on registration order.
			sort.Slice(bucket, func(i, j int) bool {
				ci, cj := bits.OnesCount32(bucket[i].Mask), bits.OnesCount32(bucket[j].Mask)
				if ci != cj {
					return ci > cj
				}
				return bucket[i].Mnemonic < bucket[j].Mnemonic
			})
			if err := c.checkBucket(bucket); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkBucket enforces the decode invariant within one opcode bucket. Two
// templates visible in the same width scope that can both match a word are
// tolerated only when one carries strictly more literal bits: the sorted
// bucket order then resolves every such word deterministically. Equal
// specificity means genuine ambiguity and aborts construction.
func (c *Catalog) checkBucket(bucket []*InstructionTemplate) error {
	for i, a := range bucket {
		for _, b := range bucket[i+1:] {
			if !sameScope(a, b) {
				continue
			}
			common := a.Mask & b.Mask
			if a.Test&common != b.Test&common {
				continue
			}
			if bits.OnesCount32(a.Mask) == bits.OnesCount32(b.Mask) {
				return newError(ErrCatalogIntegrity,
					"%s and %s have overlapping literal patterns", a.Mnemonic, b.Mnemonic)
			}
			// Bucket order puts the more specific template first.
			c.overlaps = append(c.overlaps, Overlap{
				Specific: a.Mnemonic,
				General:  b.Mnemonic,
			})
		}
	}
	return nil
}

func sameScope(a, b *InstructionTemplate) bool {
	for _, xlen := range []int{32, 64} {
		if a.VisibleAt(xlen) && b.VisibleAt(xlen) {
			return true
		}
	}
	return false
}

// knownSlots is the closed vocabulary of operand slot names.
var knownSlots = map[string]bool{
	"rd": true, "rs1": true, "rs2": true, "rs3": true,
	"frd": true, "frs1": true, "frs2": true, "frs3": true,
	"vd": true, "vs1": true, "vs2": true,
	"imm": true, "offset": true, "uimm": true, "shamt": true,
	"csr": true, "rm": true, "mem": true, "addr": true, "offsp": true,
	"pred": true, "succ": true, "vmask": true,
}

func buildTemplate(rec Record) (*InstructionTemplate, error) {
	if rec.Mnemonic == "" {
		return nil, newError(ErrBadRecord, "missing mnemonic")
	}
	fspec, ok := formats[rec.Format]
	if !ok {
		return nil, newError(ErrBadRecord, "unrecognized format %q", rec.Format)
	}
	if len(rec.Encoding) != fspec.width {
		return nil, newError(ErrBadRecord,
			"encoding is %d symbols, format %s requires %d",
			len(rec.Encoding), rec.Format, fspec.width)
	}
	for _, r := range rec.Encoding {
		if r != '0' && r != '1' && r != 'x' {
			return nil, newError(ErrBadRecord, "encoding symbol %q", r)
		}
	}
	if len(rec.Extensions) == 0 {
		return nil, newError(ErrBadRecord, "no extensions listed")
	}
	for _, ext := range rec.Extensions {
		if !strings.HasPrefix(ext, "RV32") && !strings.HasPrefix(ext, "RV64") {
			return nil, newError(ErrBadRecord, "extension %q lacks a width prefix", ext)
		}
	}
	for _, slot := range rec.Operands {
		if !knownSlots[slot] {
			return nil, newError(ErrBadRecord, "unknown operand slot %q", slot)
		}
	}

	t := &InstructionTemplate{
		Mnemonic:     strings.ToUpper(rec.Mnemonic),
		Format:       rec.Format,
		Extensions:   rec.Extensions,
		Category:     rec.Category,
		Encoding:     rec.Encoding,
		OperandSlots: rec.Operands,
	}

	for i, r := range rec.Encoding {
		bit := uint(len(rec.Encoding) - 1 - i)
		switch r {
		case '0':
			t.Mask |= 1 << bit
		case '1':
			t.Mask |= 1 << bit
			t.Test |= 1 << bit
		}
	}

	if err := deriveFields(t, fspec, rec); err != nil {
		return nil, err
	}
	t.binder = chooseBinder(t)
	return t, nil
}

// deriveFields builds the field list from the format layout, replacing the
// format's immediate placement with the record's override when present.
func deriveFields(t *InstructionTemplate, fspec formatSpec, rec Record) error {
	immCat := FieldCategory(0)
	haveImmCat := false
	if rec.ImmCat != "" {
		cat, err := ParseFieldCategory(rec.ImmCat)
		if err != nil {
			return err
		}
		switch cat {
		case CatImm, CatUImm, CatShamt:
		default:
			return newError(ErrBadRecord, "immCat %q is not an immediate category", rec.ImmCat)
		}
		immCat = cat
		haveImmCat = true
	}

	override := rec.ImmBits != ""
	for _, fs := range fspec.fields {
		immediate := fs.cat == CatImm || fs.cat == CatUImm || fs.cat == CatShamt
		if immediate {
			if !haveImmCat {
				// Without an explicit override the format's category stands.
				immCat = fs.cat
				haveImmCat = true
			}
			if override {
				continue // replaced below
			}
		}
		cat := fs.cat
		if immediate {
			cat = immCat
		}
		t.Fields = append(t.Fields, EncodingField{
			Name:     fs.name,
			Hi:       fs.hi,
			Lo:       fs.lo,
			Category: cat,
			Sub:      subPattern(t.Encoding, fs.hi, fs.lo),
			LogHi:    fs.logHi,
			LogLo:    fs.logLo,
		})
	}

	if override {
		if !haveImmCat {
			immCat = CatImm
		}
		slices, err := parseImmBits(rec.ImmBits)
		if err != nil {
			return err
		}
		for _, s := range slices {
			if int(s.physHi) >= len(t.Encoding) {
				return newError(ErrBadRecord,
					"immediate bit %d outside a %d-bit encoding", s.physHi, len(t.Encoding))
			}
			t.Fields = append(t.Fields, EncodingField{
				Name:     immFieldName(s),
				Hi:       s.physHi,
				Lo:       s.physLo,
				Category: immCat,
				Sub:      subPattern(t.Encoding, s.physHi, s.physLo),
				LogHi:    s.logHi,
				LogLo:    s.logLo,
			})
		}
	}
	return nil
}

func immFieldName(s immSlice) string {
	if s.logHi == s.logLo {
		return fmt.Sprintf("imm[%d]", s.logHi)
	}
	return fmt.Sprintf("imm[%d:%d]", s.logHi, s.logLo)
}

// subPattern extracts the template symbols a field occupies; the encoding
// string is MSB first, so bit positions index from the right.
func subPattern(encoding string, hi, lo uint8) string {
	n := len(encoding)
	return encoding[n-1-int(hi) : n-int(lo)]
}
