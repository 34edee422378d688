// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lineage-engine/internal/extractors"
	"github.com/pdiddy/lineage-engine/internal/manifest"
	"github.com/pdiddy/lineage-engine/internal/registry"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest>",
	Short: "Check extractor coverage for a pipeline manifest",
	Long: `Validate loads a manifest and reports, for each task, whether an
extractor is registered for its type and whether the extractor accepts
the binding. Nothing is extracted or emitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	reg := registry.New()
	for _, f := range extractors.Builtin(log, types.ExtractionConfig{}) {
		if err := reg.Register(f); err != nil {
			return err
		}
	}

	mismatched := 0
	for _, t := range m.Tasks {
		e, err := reg.ExtractorFor(t)
		if err != nil {
			fmt.Fprintf(os.Stdout, "error    %-24s %s: %v\n", t.ID(), t.TypeName(), err)
			mismatched++
			continue
		}
		if e == nil {
			fmt.Fprintf(os.Stdout, "missing  %-24s %s\n", t.ID(), t.TypeName())
			continue
		}
		if err := e.Validate(); err != nil {
			fmt.Fprintf(os.Stdout, "mismatch %-24s %s: %v\n", t.ID(), t.TypeName(), err)
			mismatched++
			continue
		}
		fmt.Fprintf(os.Stdout, "ok       %-24s %s\n", t.ID(), t.TypeName())
	}

	if mismatched > 0 {
		return fmt.Errorf("%d task(s) failed validation", mismatched)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
