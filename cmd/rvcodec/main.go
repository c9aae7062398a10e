// Package main provides the rvcodec CLI: a bidirectional translator between
// RISC-V assembly text and machine words.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/tebeka/atexit"

	"github.com/mewais/archtools.io-sub000/asm"
	"github.com/mewais/archtools.io-sub000/disasm"
	"github.com/mewais/archtools.io-sub000/isa"
	"github.com/mewais/archtools.io-sub000/loader"
)

var (
	xlen     = flag.Int("xlen", 64, "Base integer width (32 or 64)")
	encode   = flag.String("encode", "", "Assemble one instruction, e.g. 'add x1, x2, x3'")
	decode   = flag.String("decode", "", "Disassemble one hex word, e.g. 0x003100B3")
	asmPath  = flag.String("asm", "", "Assemble a file of instructions, one per line")
	elfPath  = flag.String("elf", "", "Disassemble the executable segments of a RISC-V ELF binary")
	binPath  = flag.String("bin", "", "Disassemble a raw little-endian instruction stream")
	dataPath = flag.String("data", "", "Load instruction templates from a JSON file instead of the embedded set")
	strict   = flag.Bool("strict", false, "Reject out-of-range or misaligned immediates instead of truncating")
	workers  = flag.Int("workers", 4, "Goroutines for batch disassembly")
	dump     = flag.Bool("dump", false, "Dump decoded structures")
	verbose  = flag.Bool("v", false, "Verbose output")
)

var stats struct {
	encoded int
	decoded int
	failed  int
}

func main() {
	flag.Parse()

	if *xlen != 32 && *xlen != 64 {
		fatalf("xlen must be 32 or 64, got %d", *xlen)
	}

	catalog, err := buildCatalog()
	if err != nil {
		fatalf("loading catalog: %v", err)
	}
	if *verbose {
		fmt.Printf("catalog: %d templates\n", catalog.Len())
		for _, o := range catalog.Overlaps() {
			fmt.Printf("note: %s decodes before %s on shared patterns\n",
				o.Specific, o.General)
		}
	}

	atexit.Register(printSummary)

	switch {
	case *encode != "":
		runEncodeLine(catalog, *encode)
	case *decode != "":
		runDecodeWord(catalog, *decode)
	case *asmPath != "":
		runEncodeFile(catalog, *asmPath)
	case *elfPath != "":
		runELF(catalog, *elfPath)
	case *binPath != "":
		runBin(catalog, *binPath)
	default:
		fmt.Fprintf(os.Stderr, "Usage: rvcodec [options]\n\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	code := 0
	if stats.failed > 0 {
		code = 1
	}
	atexit.Exit(code)
}

func buildCatalog() (*isa.Catalog, error) {
	if *dataPath != "" {
		return isa.LoadFile(*dataPath)
	}
	return isa.LoadDefault()
}

func runEncodeLine(catalog *isa.Catalog, line string) {
	assembler := asm.NewAssembler(catalog, *xlen)
	assembler.SetStrict(*strict)

	enc, err := assembler.Assemble(line)
	if err != nil {
		stats.failed++
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	stats.encoded++
	printEncoded(enc)
}

func runEncodeFile(catalog *isa.Catalog, path string) {
	f, err := os.Open(path)
	if err != nil {
		fatalf("opening %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	assembler := asm.NewAssembler(catalog, *xlen)
	assembler.SetStrict(*strict)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		enc, err := assembler.Assemble(line)
		if err != nil {
			stats.failed++
			fmt.Fprintf(os.Stderr, "%s:%d: %v\n", path, lineNo, err)
			continue
		}
		stats.encoded++
		printEncoded(enc)
	}
	if err := scanner.Err(); err != nil {
		fatalf("reading %s: %v", path, err)
	}
}

func printEncoded(enc asm.Encoded) {
	if enc.Template.Compressed() {
		fmt.Printf("0x%04X\n", enc.Word)
	} else {
		fmt.Printf("0x%08X\n", enc.Word)
	}
	if *dump {
		spew.Dump(enc)
	}
}

func runDecodeWord(catalog *isa.Catalog, text string) {
	word, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(text), "0x"), 16, 32)
	if err != nil {
		fatalf("bad hex word %q: %v", text, err)
	}

	decoder := disasm.NewDecoder(catalog, *xlen)
	dec, err := decoder.DecodeWord(uint32(word))
	if err != nil {
		stats.failed++
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	stats.decoded++
	fmt.Println(dec.Assembly)
	if *dump {
		spew.Dump(dec)
	}
}

func runELF(catalog *isa.Catalog, path string) {
	prog, err := loader.Load(path)
	if err != nil {
		fatalf("loading %s: %v", path, err)
	}
	if *verbose {
		fmt.Printf("entry point: 0x%X, xlen: %d\n", prog.EntryPoint, prog.XLEN)
	}

	decoder := disasm.NewDecoder(catalog, prog.XLEN)
	for _, seg := range prog.CodeSegments() {
		printListing(decoder.Listing(seg.Data, seg.VirtAddr))
	}
}

func runBin(catalog *isa.Catalog, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("reading %s: %v", path, err)
	}
	decoder := disasm.NewDecoder(catalog, *xlen)
	printListing(decoder.Listing(data, 0))
}

func printListing(lines []disasm.Line) {
	for _, line := range lines {
		if line.Err != nil {
			stats.failed++
		} else {
			stats.decoded++
		}
		if line.Size <= 2 {
			fmt.Printf("%8x:\t%04x     \t%s\n", line.Addr, line.Raw, line.Text)
		} else {
			fmt.Printf("%8x:\t%08x \t%s\n", line.Addr, line.Raw, line.Text)
		}
	}
}

func printSummary() {
	if !*verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "encoded: %d, decoded: %d, failed: %d\n",
		stats.encoded, stats.decoded, stats.failed)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "rvcodec: "+format+"\n", args...)
	atexit.Exit(1)
}
