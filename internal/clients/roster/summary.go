package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
)

// Summary is the selection view of a roster record
type Summary struct {
	Key      string
	Name     string
	Class    string
	Tier     string
	Tag      string
	ID       string
	Portrait string
	Record   json.RawMessage
}

type summaryFields struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Class         string `json:"class"`
	Tier          any    `json:"tier"`
	Tag           string `json:"tag"`
	CloudPortrait string `json:"cloud_portrait"`
	LocalImage    string `json:"localImage"`
}

// Summarize builds the summary of a raw record, filling Unnamed, Unknown and
// ? for a missing name, class and tier
func Summarize(key string, record json.RawMessage) (*Summary, error) {
	var fields summaryFields
	if err := json.Unmarshal(record, &fields); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, fmt.Sprintf("failed to decode roster record %s", key))
	}

	s := &Summary{
		Key:      key,
		Name:     fields.Name,
		Class:    fields.Class,
		Tier:     tierLabel(fields.Tier),
		Tag:      fields.Tag,
		ID:       fields.ID,
		Portrait: fields.CloudPortrait,
		Record:   record,
	}
	if s.Name == "" {
		s.Name = "Unnamed"
	}
	if s.Class == "" {
		s.Class = "Unknown"
	}
	if s.Portrait == "" {
		s.Portrait = fields.LocalImage
	}
	return s, nil
}

func tierLabel(tier any) string {
	switch v := tier.(type) {
	case nil:
		return "?"
	case string:
		if v == "" {
			return "?"
		}
		return v
	case float64:
		if v == 0 {
			return "?"
		}
		return fmt.Sprintf("%g", v)
	case bool:
		if !v {
			return "?"
		}
		return "true"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Filter keeps the summaries whose name, class, tier or tag contains the
// term, ignoring case. A blank term keeps everything.
func Filter(summaries []*Summary, term string) []*Summary {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return summaries
	}

	var out []*Summary
	for _, s := range summaries {
		if strings.Contains(strings.ToLower(s.Name), term) ||
			strings.Contains(strings.ToLower(s.Class), term) ||
			strings.Contains(strings.ToLower(s.Tier), term) ||
			strings.Contains(strings.ToLower(s.Tag), term) {
			out = append(out, s)
		}
	}
	return out
}

// FetchOutput contains the readable records and the keys that failed
type FetchOutput struct {
	Summaries []*Summary
	Failed    []string
}

// Fetch lists the roster and summarizes every record. Unreadable records are
// logged and skipped.
func Fetch(ctx context.Context, client Client, activeOnly bool) (*FetchOutput, error) {
	listed, err := client.List(ctx, &ListInput{ActiveOnly: activeOnly})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list roster")
	}

	out := &FetchOutput{}
	for _, key := range listed.Keys {
		got, err := client.Get(ctx, &GetInput{Key: key})
		if err != nil {
			slog.WarnContext(ctx, "Failed to load roster record", "key", key, "error", err)
			out.Failed = append(out.Failed, key)
			continue
		}
		summary, err := Summarize(key, got.Record)
		if err != nil {
			slog.WarnContext(ctx, "Failed to decode roster record", "key", key, "error", err)
			out.Failed = append(out.Failed, key)
			continue
		}
		out.Summaries = append(out.Summaries, summary)
	}

	slog.InfoContext(ctx, "Fetched roster",
		"records", len(out.Summaries),
		"failed", len(out.Failed))

	return out, nil
}
