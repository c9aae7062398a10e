// Package main provides the entry point for the RISC-V codec toolkit, a
// bidirectional translator between assembly text and machine words.
//
// For the full CLI, use: go run ./cmd/rvcodec
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rvcodec - RISC-V instruction codec")
	fmt.Println("")
	fmt.Println("Usage: rvcodec [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -encode    Assemble one instruction, e.g. 'add x1, x2, x3'")
	fmt.Println("  -decode    Disassemble one hex word, e.g. 0x003100B3")
	fmt.Println("  -elf       Disassemble a RISC-V ELF binary")
	fmt.Println("  -xlen      Base integer width, 32 or 64")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rvcodec' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rvcodec' instead.")
	}
}
