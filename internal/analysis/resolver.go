// Package analysis projects a global analysis configuration down to the
// components an index actually references.
package analysis

import (
	"context"
	"reflect"

	"github.com/dshills/esmapper/internal/extract"
	"github.com/dshills/esmapper/pkg/mapping"
)

// analyzerKeys are the mapping keys whose values name analyzers.
var analyzerKeys = []string{"analyzer", "search_analyzer", "search_quote_analyzer"}

// auxiliaryKinds are resolved against the copied analyzer definitions, in
// this order.
var auxiliaryKinds = []string{"tokenizer", "filter", "normalizer", "char_filter"}

// Resolver computes the minimal analysis configuration for a document type.
type Resolver struct {
	extractor *extract.Extractor
}

// New creates a resolver over the given extractor.
func New(e *extract.Extractor) *Resolver {
	return &Resolver{extractor: e}
}

// Resolve extracts the type's mapping fragment and returns the subset of
// the global analysis configuration it references. Analyzer names are
// collected from the fragment; tokenizer, filter, normalizer and
// char_filter names are then collected from the copied analyzer
// definitions only. This is deliberately a single-level closure, not a
// reachability fixed point: a filter referenced only by another filter is
// not picked up, matching what deployed indexes were built with.
//
// The extraction here is a full second pass over the type; its cache side
// effects are identical to the pass the schema compiler runs.
func (r *Resolver) Resolve(ctx context.Context, t reflect.Type, global mapping.AnalysisConfig) (mapping.AnalysisConfig, error) {
	fragment, err := r.extractor.Extract(ctx, t)
	if err != nil {
		return nil, err
	}

	result := mapping.AnalysisConfig{}

	referenced := collectNames(fragment, analyzerKeys...)
	copySection(result, global, "analyzer", referenced)

	for _, kind := range auxiliaryKinds {
		referenced := collectNames(result, kind)
		copySection(result, global, kind, referenced)
	}

	return result, nil
}

// copySection copies every referenced component present in the global
// section into the result. Absent sections are never created.
func copySection(result, global mapping.AnalysisConfig, kind string, referenced map[string]bool) {
	section := global[kind]
	for name := range referenced {
		settings, ok := section[name]
		if !ok {
			continue
		}
		if result[kind] == nil {
			result[kind] = map[string]any{}
		}
		result[kind][name] = settings
	}
}

// collectNames deep-walks a tree of maps and slices, gathering every value
// found under one of the given keys. Scalar values count as one name;
// slice values are flattened.
func collectNames(node any, keys ...string) map[string]bool {
	names := map[string]bool{}
	walk(node, func(key string, value any) {
		for _, want := range keys {
			if key == want {
				addNames(names, value)
			}
		}
	})
	return names
}

func addNames(names map[string]bool, value any) {
	switch v := value.(type) {
	case string:
		names[v] = true
	case []string:
		for _, s := range v {
			names[s] = true
		}
	case []any:
		for _, item := range v {
			addNames(names, item)
		}
	}
}

// walk visits every key/value pair in a nested structure of maps and
// slices, depth first.
func walk(node any, visit func(key string, value any)) {
	switch n := node.(type) {
	case mapping.Fragment:
		walkMap(map[string]any(n), visit)
	case map[string]any:
		walkMap(n, visit)
	case mapping.AnalysisConfig:
		for _, section := range n {
			walkMap(section, visit)
		}
	case map[string]map[string]any:
		for _, section := range n {
			walkMap(section, visit)
		}
	case []any:
		for _, item := range n {
			walk(item, visit)
		}
	}
}

func walkMap(m map[string]any, visit func(key string, value any)) {
	for key, value := range m {
		visit(key, value)
		walk(value, visit)
	}
}
