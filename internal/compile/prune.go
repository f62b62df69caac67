package compile

import "github.com/dshills/esmapper/pkg/mapping"

// pruneMap removes empty values from a settings tree, recursively: nil,
// empty strings, and maps or slices that end up empty after their own
// pruning. Explicit false and zero values survive, they are meaningful in
// index settings.
func pruneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		if pruned, keep := pruneValue(value); keep {
			out[key] = pruned
		}
	}
	return out
}

func pruneValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case string:
		return v, v != ""
	case map[string]any:
		pruned := pruneMap(v)
		return pruned, len(pruned) > 0
	case mapping.Fragment:
		pruned := pruneMap(v)
		return pruned, len(pruned) > 0
	case mapping.AnalysisConfig:
		out := make(map[string]any, len(v))
		for kind, section := range v {
			if len(section) > 0 {
				out[kind] = pruneMap(section)
			}
		}
		return out, len(out) > 0
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			if pruned, keep := pruneValue(item); keep {
				out = append(out, pruned)
			}
		}
		return out, len(out) > 0
	default:
		return v, true
	}
}
