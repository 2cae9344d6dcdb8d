package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finadvisor/internal/activity"
	"github.com/cleared-dev/finadvisor/internal/categorizer"
	"github.com/cleared-dev/finadvisor/internal/id"
	"github.com/cleared-dev/finadvisor/internal/importer"
	"github.com/cleared-dev/finadvisor/internal/logger"
	"github.com/cleared-dev/finadvisor/internal/normalizer"
	"github.com/cleared-dev/finadvisor/internal/store"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var noCategorize bool

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bank exports (default: every file in the import directory)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts.dir)
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), ws, args, noCategorize)
		},
	}

	cmd.Flags().BoolVar(&noCategorize, "no-categorize", false, "store transactions without categories")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, ws *workspace, paths []string, noCategorize bool) error {
	reg := importer.DefaultRegistry()
	importDir := ws.path(ws.cfg.Import.Dir)

	if len(paths) == 0 {
		files, err := reg.Scan(importDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}
	if len(paths) == 0 {
		fmt.Fprintf(out, "No files to import in %s\n", importDir)
		return nil
	}

	st, err := ws.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var cat *categorizer.Categorizer
	if !noCategorize {
		if cat, err = ws.newCategorizer(ctx); err != nil {
			return err
		}
	}

	rec := activity.NewRecorder("import")
	defer ws.flushActivity(ctx, rec)

	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
		if err := importFile(ctx, out, st, reg, cat, rec, absPath); err != nil {
			return fmt.Errorf("importing %s: %w", filepath.Base(absPath), err)
		}

		// Only files picked up from the drop folder are moved.
		if filepath.Dir(absPath) == importDir {
			if err := importer.MarkProcessed(importDir, ws.path(ws.cfg.Import.ProcessedDir), filepath.Base(absPath)); err != nil {
				return err
			}
		}
	}
	return nil
}

func importFile(ctx context.Context, out io.Writer, st *store.Store, reg *importer.Registry, cat *categorizer.Categorizer, rec *activity.Recorder, path string) error {
	log := logger.FromContext(ctx)
	name := filepath.Base(path)

	tbl, err := reg.ReadFile(path)
	if err != nil {
		return err
	}
	res, err := normalizer.Normalize(tbl)
	if err != nil {
		return err
	}
	log.Debug().Str("file", name).Str("mapping", res.Plan.String()).Msg("column mapping")
	if res.SkippedRows > 0 {
		log.Warn().Str("file", name).Int("skipped", res.SkippedRows).Msg("rows with unparseable dates dropped")
	}

	txns := id.Assign(res.Transactions, name)
	if cat != nil {
		if txns, err = cat.CategorizeBatch(ctx, txns); err != nil {
			return err
		}
	}

	inserted, err := st.Save(ctx, txns)
	if err != nil {
		return err
	}

	rec.Record("import_file", name,
		fmt.Sprintf("%d rows read, %d skipped, %d already stored, mapping: %s",
			res.InputRows, res.SkippedRows, len(txns)-inserted, res.Plan), inserted)
	fmt.Fprintf(out, "%s: %d transactions, %d new, %d skipped rows\n", name, len(txns), inserted, res.SkippedRows)
	return nil
}
