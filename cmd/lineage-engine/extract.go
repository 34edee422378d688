// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lineage-engine/internal/emit"
	"github.com/pdiddy/lineage-engine/internal/extractors"
	"github.com/pdiddy/lineage-engine/internal/journal"
	"github.com/pdiddy/lineage-engine/internal/manifest"
	"github.com/pdiddy/lineage-engine/internal/registry"
	"github.com/pdiddy/lineage-engine/internal/secrets"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <manifest>",
	Short: "Extract lineage records from a pipeline manifest",
	Long: `Extract loads task definitions from a YAML manifest, dispatches each
task to its registered extractor, and emits the resulting metadata
records to stdout.

With --on-complete, tasks carrying a result block additionally produce a
post-completion record enriched with execution statistics. Records can
also be appended to a local SQLite journal (--journal) or posted to a
lineage backend (--backend).`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	extractionCfg, emitCfg := pipelineConfig(cmd)

	reg := registry.New()
	for _, f := range extractors.Builtin(log, extractionCfg) {
		if err := reg.Register(f); err != nil {
			return err
		}
	}

	sink, closeSink, err := buildEmitter(emitCfg)
	if err != nil {
		return err
	}
	defer closeSink()

	onComplete, _ := cmd.Flags().GetBool("on-complete")
	execs := make([]registry.Execution, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		ex := registry.Execution{ID: t.ID(), Task: t}
		if onComplete && t.Result() != nil {
			ex.Completed = t
		}
		execs = append(execs, ex)
	}

	d := registry.NewDispatcher(reg, sink, log, extractionCfg)
	summary := d.Run(context.Background(), execs)

	fmt.Fprintf(os.Stderr, "extracted %d, skipped %d, failed %d\n",
		summary.Extracted, summary.Skipped, summary.Failed)
	if summary.HasFailures() {
		return fmt.Errorf("%d task(s) failed extraction", summary.Failed)
	}
	return nil
}

// pipelineConfig merges flags over config-file values.
func pipelineConfig(cmd *cobra.Command) (types.ExtractionConfig, types.EmitConfig) {
	extraction := types.ExtractionConfig{
		DefaultNamespace: viper.GetString("extraction.default_namespace"),
		Strict:           viper.GetBool("extraction.strict"),
	}
	if cmd.Flags().Changed("strict") {
		extraction.Strict, _ = cmd.Flags().GetBool("strict")
	}

	emitCfg := types.EmitConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    viper.GetDuration("emit.timeout"),
			UserAgent:  "lineage-engine/" + version,
			MaxRetries: viper.GetInt("emit.max_retries"),
		},
		Format:      types.EmitFormat(viper.GetString("emit.format")),
		JournalPath: viper.GetString("emit.journal_path"),
		BackendURL:  viper.GetString("emit.backend_url"),
	}
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		emitCfg.Format = types.EmitFormat(f)
	}
	if p, _ := cmd.Flags().GetString("journal"); p != "" {
		emitCfg.JournalPath = p
	}
	if u, _ := cmd.Flags().GetString("backend"); u != "" {
		emitCfg.BackendURL = u
	}
	emitCfg.BackendAPIKey = secrets.Get(loadedSecrets, "lineage-api-key", viper.GetString("emit.backend_api_key"))

	return extraction, emitCfg
}

// buildEmitter assembles the emitter chain: stdout always, journal and
// backend when configured. The returned func closes whatever needs closing.
func buildEmitter(cfg types.EmitConfig) (emit.Emitter, func(), error) {
	writer, err := emit.NewWriter(os.Stdout, cfg.Format)
	if err != nil {
		return nil, nil, err
	}

	chain := emit.Multi{writer}
	closeSink := func() {}

	if cfg.JournalPath != "" {
		store, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, store)
		closeSink = func() { store.Close() }
	}

	if cfg.BackendURL != "" {
		backend, err := emit.NewHTTP(cfg)
		if err != nil {
			closeSink()
			return nil, nil, err
		}
		chain = append(chain, backend)
	}

	return chain, closeSink, nil
}

func init() {
	extractCmd.Flags().String("format", "", "record output format: json or yaml (default json)")
	extractCmd.Flags().String("journal", "", "append records to a SQLite journal at this path")
	extractCmd.Flags().String("backend", "", "post records to this lineage backend URL")
	extractCmd.Flags().Bool("on-complete", false, "run the post-completion pass for tasks with a result block")
	extractCmd.Flags().Bool("strict", false, "fail on task types with no registered extractor")

	rootCmd.AddCommand(extractCmd)
}
