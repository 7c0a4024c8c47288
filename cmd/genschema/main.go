// Command genschema writes the JSON Schema for the doclint config file.
// Run from the repository root:
//
//	go run ./cmd/genschema
//
// Output:
//
//	docs/schema/config-schema.json
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/raphi011/doclint/internal/config"
	"github.com/raphi011/doclint/internal/storage"
)

const schemaPath = "docs/schema/config-schema.json"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "genschema: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Validate we're at repo root.
	if _, err := os.Stat("go.mod"); err != nil {
		return fmt.Errorf("must run from repository root (go.mod not found)")
	}

	data, err := json.MarshalIndent(config.Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling schema: %w", err)
	}
	data = append(data, '\n')

	if err := storage.WriteAtomic(schemaPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", schemaPath, err)
	}
	fmt.Println("wrote", schemaPath)
	return nil
}
