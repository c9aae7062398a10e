// Package main provides a CLI tool to check an instruction dataset.
//
// It loads the embedded dataset (or an external one via -data), reports
// per-extension and per-format record counts, and lists every overlapping
// encoding pair the catalog resolved by specificity. A dataset that fails
// to build prints the offending record and exits nonzero, which makes the
// tool usable as a pre-commit gate when editing instruction tables.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/mewais/archtools.io-sub000/isa"
)

func main() {
	dataPath := flag.String("data", "", "external instruction dataset (JSON), default embedded")
	verbose := flag.Bool("v", false, "list every record grouped by extension")
	flag.Parse()

	var (
		catalog *isa.Catalog
		err     error
	)
	if *dataPath != "" {
		catalog, err = isa.LoadFile(*dataPath)
	} else {
		catalog, err = isa.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Dataset rejected: %v\n", err)
		os.Exit(1)
	}

	byExt := map[string]int{}
	byFormat := map[string]int{}
	compressed := 0
	for _, tmpl := range catalog.Templates() {
		byFormat[tmpl.Format]++
		for _, ext := range tmpl.Extensions {
			byExt[ext]++
		}
		if tmpl.Compressed() {
			compressed++
		}
	}

	fmt.Printf("%d templates (%d compressed)\n", catalog.Len(), compressed)

	fmt.Fprintf(os.Stderr, "\nBy extension:\n")
	for _, ext := range sortedKeys(byExt) {
		fmt.Fprintf(os.Stderr, "  %-8s %d\n", ext, byExt[ext])
	}

	fmt.Fprintf(os.Stderr, "\nBy format:\n")
	for _, format := range sortedKeys(byFormat) {
		fmt.Fprintf(os.Stderr, "  %-12s %d\n", format, byFormat[format])
	}

	overlaps := catalog.Overlaps()
	if len(overlaps) > 0 {
		fmt.Fprintf(os.Stderr, "\nOverlapping encodings (specific before general):\n")
		sort.Slice(overlaps, func(i, j int) bool {
			return overlaps[i].Specific < overlaps[j].Specific
		})
		for _, o := range overlaps {
			fmt.Fprintf(os.Stderr, "  %s covers a subset of %s\n", o.Specific, o.General)
		}
	}

	if *verbose {
		printRecords(catalog)
	}
}

func printRecords(catalog *isa.Catalog) {
	byExt := map[string][]string{}
	for _, tmpl := range catalog.Templates() {
		for _, ext := range tmpl.Extensions {
			byExt[ext] = append(byExt[ext], tmpl.Mnemonic)
		}
	}
	for _, ext := range sortedKeys(byExt) {
		fmt.Fprintf(os.Stderr, "\n%s:\n", ext)
		mnemonics := byExt[ext]
		sort.Strings(mnemonics)
		for _, m := range mnemonics {
			fmt.Fprintf(os.Stderr, "  %s\n", m)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
