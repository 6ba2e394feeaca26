// audit_catalog validates a strategy catalog file offline: every
// predicate's construction rules and leg references are checked without
// ever running the matcher against real holdings.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/eddiefleurent/stratmatch/internal/catalog"
)

func main() {
	var (
		catalogPath = flag.String("catalog", "catalog.yaml", "path to catalog file")
		verbose     = flag.Bool("v", false, "verbose output")
	)
	flag.Parse()

	if *verbose {
		fmt.Printf("Auditing catalog: %s\n", *catalogPath)
	}

	definitions, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatalf("catalog validation failed: %v", err)
	}

	fmt.Printf("%d strategy definition(s) valid:\n", len(definitions))
	issues := 0
	for _, def := range definitions {
		fmt.Printf("  - %s (%d legs, %d underlying lots)\n", def.Name, len(def.Legs), def.UnderlyingLots)
		if len(def.Legs) == 0 {
			fmt.Printf("    WARNING: no legs — this definition can never match anything\n")
			issues++
		}
	}

	fmt.Println()
	if issues == 0 {
		fmt.Println("No obvious issues detected.")
	} else {
		fmt.Printf("%d potential issue(s) found.\n", issues)
		os.Exit(1)
	}
}
