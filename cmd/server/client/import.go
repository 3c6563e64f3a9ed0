package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/handlers/npcimport/v1alpha1"
)

var (
	updateExisting bool
	scaling        string
)

var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Send NPC record files to the server",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&updateExisting, "update-existing", false, "update actors previously imported from the same record")
	importCmd.Flags().StringVar(&scaling, "scaling", "", "custom tier scaling: scaled or flat")
}

func runImport(cmd *cobra.Command, args []string) error {
	var records []json.RawMessage
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		split, err := lancer.SplitRecords(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		records = append(records, split...)
	}

	req, err := v1alpha1.EncodeStruct(&v1alpha1.ImportManyRequest{
		Records:        records,
		UpdateExisting: updateExisting,
		Scaling:        scaling,
	})
	if err != nil {
		return err
	}

	client, cleanup, err := createImportClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.ImportMany(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to import: %s", describeRPCError(err))
	}

	var body v1alpha1.ImportManyResponse
	if err := v1alpha1.DecodeStruct(resp, &body); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range body.Results {
		if r.Error != "" {
			fmt.Fprintf(out, "  [%d] %s: failed: %s\n", r.Index, r.Name, r.Error)
			continue
		}
		fmt.Fprintf(out, "  [%d] %s: %s %s\n", r.Index, r.Name, r.Outcome, r.ActorID)
	}
	fmt.Fprintf(out, "Imported %d NPC(s) (%d updated, %d created), %d failed\n",
		body.SuccessCount, body.UpdateCount, body.CreatedCount, body.ErrorCount)
	return nil
}

// describeRPCError renders a failed call as its code and message, followed by
// the rejected fields of a validation failure
func describeRPCError(err error) string {
	converted := errors.FromGRPCError(err)
	msg := fmt.Sprintf("%s: %s", errors.GetCode(converted), errors.GetMessage(converted))

	fields, ok := errors.GetMeta(converted)["validation_errors"].(map[string]any)
	if !ok || len(fields) == 0 {
		return msg
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %v", name, fields[name])
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}
