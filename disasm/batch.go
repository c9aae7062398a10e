package disasm

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// Result pairs one word of a batch with its decode outcome.
type Result struct {
	Index   int
	Decoded Decoded
	Err     error
}

// DecodeAll decodes a batch of words across a pool of goroutines. Results
// come back indexed in input order. A workers value below 1 decodes
// sequentially.
func (d *Decoder) DecodeAll(words []uint32, workers int) []Result {
	results := make([]Result, len(words))
	if workers < 1 {
		workers = 1
	}
	if workers > len(words) {
		workers = len(words)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				dec, err := d.DecodeWord(words[i])
				results[i] = Result{Index: i, Decoded: dec, Err: err}
			}
		}()
	}
	for i := range words {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return results
}

// Line is one instruction slot of a disassembly listing.
type Line struct {
	Addr uint64
	Raw  uint32
	Size int // bytes consumed: 2 or 4
	Text string
	Err  error
}

// Listing walks a little-endian instruction stream, consuming two or four
// bytes per slot according to the length bits of each parcel, and renders
// every slot. Undecodable parcels become data directives so the walk can
// keep its alignment.
func (d *Decoder) Listing(data []byte, base uint64) []Line {
	var lines []Line
	off := 0
	for off < len(data) {
		if off+2 > len(data) {
			lines = append(lines, Line{
				Addr: base + uint64(off),
				Raw:  uint32(data[off]),
				Size: 1,
				Text: fmt.Sprintf(".byte 0x%02x", data[off]),
			})
			break
		}

		parcel := binary.LittleEndian.Uint16(data[off:])
		size := 2
		word := uint32(parcel)
		if parcel&0x3 == 0x3 {
			if off+4 > len(data) {
				lines = append(lines, Line{
					Addr: base + uint64(off),
					Raw:  word,
					Size: 2,
					Text: fmt.Sprintf(".short 0x%04x", parcel),
				})
				break
			}
			size = 4
			word = binary.LittleEndian.Uint32(data[off:])
		}

		line := Line{Addr: base + uint64(off), Raw: word, Size: size}
		dec, err := d.DecodeWord(word)
		switch {
		case err == nil:
			line.Text = dec.Assembly
		case size == 2:
			line.Text = fmt.Sprintf(".short 0x%04x", word)
			line.Err = err
		default:
			line.Text = fmt.Sprintf(".word 0x%08x", word)
			line.Err = err
		}
		lines = append(lines, line)
		off += size
	}
	return lines
}
