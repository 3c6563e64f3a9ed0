package rules

import (
	"strings"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
)

// StatKey pairs an internal stat name with its Comp/Con name
type StatKey struct {
	Internal string
	External string
}

// statKeys is the fixed stat vocabulary, in class sheet order
var statKeys = []StatKey{
	{Internal: "activations", External: "activations"},
	{Internal: "armor", External: "armor"},
	{Internal: "hp", External: "hp"},
	{Internal: "evasion", External: "evade"},
	{Internal: "edef", External: "edef"},
	{Internal: "heatcap", External: "heatcap"},
	{Internal: "speed", External: "speed"},
	{Internal: "sensor", External: "sensor"},
	{Internal: "save", External: "save"},
	{Internal: "hull", External: "hull"},
	{Internal: "agi", External: "agility"},
	{Internal: "sys", External: "systems"},
	{Internal: "eng", External: "engineering"},
	{Internal: "size", External: "size"},
	{Internal: "structure", External: "structure"},
	{Internal: "stress", External: "stress"},
}

var (
	internalByExternal = make(map[string]string, len(statKeys))
	externalByInternal = make(map[string]string, len(statKeys))
)

func init() {
	for _, k := range statKeys {
		internalByExternal[k.External] = k.Internal
		externalByInternal[k.Internal] = k.External
	}
}

// StatKeyMapping returns a copy of the stat vocabulary
func StatKeyMapping() []StatKey {
	return append([]StatKey(nil), statKeys...)
}

// InternalStatKey maps a Comp/Con stat name to the class sheet name
func InternalStatKey(external string) (string, bool) {
	k, ok := internalByExternal[external]
	return k, ok
}

// ExternalStatKey maps a class sheet stat name to the Comp/Con name
func ExternalStatKey(internal string) (string, bool) {
	k, ok := externalByInternal[internal]
	return k, ok
}

// ParseScalingPolicy reads a policy name; empty means scaled
func ParseScalingPolicy(s string) (lancer.ScalingPolicy, error) {
	switch lancer.ScalingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", lancer.ScalingScaled:
		return lancer.ScalingScaled, nil
	case lancer.ScalingFlat:
		return lancer.ScalingFlat, nil
	default:
		return "", errors.InvalidArgumentf("unknown scaling policy %q", s).
			WithMeta("allowed", []string{lancer.ScalingScaled.String(), lancer.ScalingFlat.String()})
	}
}

// ScaleStats rebuilds every tier row of base from the custom overrides.
//
// A stat without an override keeps its original value. Under ScalingFlat an
// overridden stat takes the override on every tier. Under ScalingScaled tier N
// becomes override + (base[N] - base[1]), so tier 1 is the override and the
// original spread between tiers is kept. Rows keep exactly their original keys.
// The returned names are the internal stats that received an override.
func ScaleStats(base lancer.StatTable, overrides map[string]float64, policy lancer.ScalingPolicy) (lancer.StatTable, []string) {
	var out lancer.StatTable
	touched := make(map[string]bool)

	for tier, row := range base {
		if row == nil {
			continue
		}
		scaled := row.Clone()
		for _, key := range statKeys {
			original, ok := row[key.Internal]
			if !ok {
				continue
			}
			custom, ok := overrides[key.External]
			if !ok {
				continue
			}
			touched[key.Internal] = true

			if policy == lancer.ScalingFlat {
				scaled[key.Internal] = custom
				continue
			}
			increment := 0.0
			if tierOne, ok := base[0][key.Internal]; ok {
				increment = original - tierOne
			}
			scaled[key.Internal] = custom + increment
		}
		out[tier] = scaled
	}

	var overridden []string
	for _, key := range statKeys {
		if touched[key.Internal] {
			overridden = append(overridden, key.Internal)
		}
	}
	return out, overridden
}
