package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/clients/roster"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/orchestrators/npcimport"
)

var importFlags struct {
	updateExisting bool
	scaling        string
	roster         string
	search         string
	activeOnly     bool
}

var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Import NPC records into the actor store",
	Long: `Import Comp/Con NPC exports. Each file holds one record or an array of
records; file imports always create new actors unless --update-existing is given.
With --roster the records come from a roster directory instead and existing
actors are updated by default.`,
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.BoolVar(&importFlags.updateExisting, "update-existing", false, "update actors previously imported from the same record")
	f.StringVar(&importFlags.scaling, "scaling", "", "custom tier scaling: scaled or flat (overrides import.scaling)")
	f.StringVar(&importFlags.roster, "roster", "", "roster directory to import from (overrides roster.dir)")
	f.StringVar(&importFlags.search, "search", "", "only import roster records whose name, class, tier or tag matches")
	f.BoolVar(&importFlags.activeOnly, "active-only", true, "only import roster keys ending with --active")
}

func runImport(cmd *cobra.Command, args []string) error {
	fromRoster := cmd.Flags().Changed("roster")
	if !fromRoster && len(args) == 0 {
		return fmt.Errorf("no files given; pass record files or --roster")
	}

	flags := cmd.Flags()
	if flags.Changed("scaling") {
		cfg.Import.Scaling = importFlags.scaling
	}
	if flags.Changed("roster") {
		cfg.Roster.Dir = importFlags.roster
	}
	if flags.Changed("active-only") {
		cfg.Roster.ActiveOnly = importFlags.activeOnly
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// file imports create unless asked otherwise
	update := importFlags.updateExisting
	if fromRoster && !flags.Changed("update-existing") {
		update = cfg.Import.UpdateExisting
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var records []json.RawMessage
	var err error
	if fromRoster {
		records, err = rosterRecords(ctx, cfg.Roster.Dir, cfg.Roster.ActiveOnly, importFlags.search)
	} else {
		records, err = fileRecords(args)
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		slog.Warn("No NPC records to import")
		return nil
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	out, err := a.importer.ImportMany(ctx, &npcimport.ImportManyInput{
		Records:        records,
		UpdateExisting: update,
		Scaling:        cfg.ScalingPolicy(),
	})
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), out)
	if out.ErrorCount > 0 {
		return fmt.Errorf("%d record(s) failed to import", out.ErrorCount)
	}
	return nil
}

func fileRecords(paths []string) ([]json.RawMessage, error) {
	var records []json.RawMessage
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		split, err := lancer.SplitRecords(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		records = append(records, split...)
	}
	return records, nil
}

func rosterRecords(ctx context.Context, dir string, activeOnly bool, search string) ([]json.RawMessage, error) {
	client, err := roster.NewDirectory(&roster.DirectoryConfig{Dir: dir})
	if err != nil {
		return nil, err
	}

	fetched, err := roster.Fetch(ctx, client, activeOnly)
	if err != nil {
		return nil, err
	}

	selected := roster.Filter(fetched.Summaries, search)
	records := make([]json.RawMessage, len(selected))
	for i, s := range selected {
		records[i] = s.Record
	}
	return records, nil
}

func printSummary(w io.Writer, out *npcimport.ImportManyOutput) {
	for _, r := range out.Results {
		switch r.Outcome {
		case npcimport.OutcomeFailed:
			fmt.Fprintf(w, "  [%d] %s: failed: %s\n", r.Index, r.Name, r.Error)
		default:
			fmt.Fprintf(w, "  [%d] %s: %s %s\n", r.Index, r.Name, r.Outcome, r.ActorID)
			if r.Report == nil {
				continue
			}
			for _, missing := range r.Report.MissingItems {
				fmt.Fprintf(w, "      missing %s\n", missing)
			}
			for _, missing := range r.Report.MissingFeatures {
				fmt.Fprintf(w, "      missing feature %s\n", missing)
			}
			for _, d := range r.Report.TierDiscrepancies {
				fmt.Fprintf(w, "      %s declares tier %s\n", d.Name, d.Tier)
			}
		}
	}

	fmt.Fprintf(w, "Imported %d NPC(s) (%d updated, %d created)", out.SuccessCount, out.UpdateCount, out.CreatedCount())
	if out.ErrorCount > 0 {
		fmt.Fprintf(w, ", %d failed", out.ErrorCount)
	}
	if out.Canceled {
		fmt.Fprintf(w, ", canceled with %d left", out.Skipped)
	}
	fmt.Fprintln(w)
}
