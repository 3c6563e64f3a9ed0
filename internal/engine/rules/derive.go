package rules

import (
	"math"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
)

// DeriveStats reads the class row for the tier. Without a class, or with a
// class that has no row for the tier, every known stat is zero.
func DeriveStats(class *lancer.Item, tier int) *engine.DeriveStatsOutput {
	out := &engine.DeriveStatsOutput{Stats: zeroStats()}
	if class == nil || class.BaseStats == nil {
		return out
	}

	row := class.BaseStats.Row(tier)
	if row == nil {
		return out
	}

	out.Stats = row.Clone()
	out.HPMax = roundStat(row["hp"])
	out.HeatCap = roundStat(row["heatcap"])
	out.StructureMax = roundStat(row["structure"])
	out.StressMax = roundStat(row["stress"])
	return out
}

func roundStat(v float64) int {
	return int(math.Round(v))
}

func zeroStats() lancer.StatRow {
	row := make(lancer.StatRow, len(statKeys))
	for _, key := range statKeys {
		row[key.Internal] = 0
	}
	return row
}
