package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lineage-engine/internal/extractors"
	"github.com/pdiddy/lineage-engine/internal/registry"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

var extractorsCmd = &cobra.Command{
	Use:   "extractors",
	Short: "List registered task types and their extractors",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		for _, entry := range reg.Entries() {
			fmt.Fprintf(os.Stdout, "%-32s %s\n", entry.TaskType, entry.Extractor)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractorsCmd)
}
