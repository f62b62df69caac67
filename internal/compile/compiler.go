package compile

import (
	"context"
	"fmt"
	"reflect"

	"github.com/dshills/esmapper/internal/analysis"
	"github.com/dshills/esmapper/internal/annotation"
	"github.com/dshills/esmapper/internal/cache"
	"github.com/dshills/esmapper/internal/catalog"
	"github.com/dshills/esmapper/internal/extract"
	"github.com/dshills/esmapper/pkg/mapping"
)

// UnknownType is the result of an alias lookup when the alias registry has
// no entry for the alias.
const UnknownType = "unknown"

// Compiler is the top-level entry point: it assembles the full index
// definition for a document type from its declarations.
type Compiler struct {
	source    annotation.Source
	catalog   *catalog.Catalog
	extractor *extract.Extractor
	analysis  *analysis.Resolver
	store     cache.Store
	global    mapping.AnalysisConfig
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithAnalysisConfig sets the global analysis configuration that Compile
// projects down to the components each index references.
func WithAnalysisConfig(cfg mapping.AnalysisConfig) Option {
	return func(c *Compiler) { c.global = cfg }
}

// WithSource replaces the annotation source. Tests use instrumented
// sources to observe read counts.
func WithSource(src annotation.Source) Option {
	return func(c *Compiler) { c.source = src }
}

// New creates a compiler writing metadata to the given store.
func New(store cache.Store, opts ...Option) *Compiler {
	c := &Compiler{
		source: annotation.TagSource{},
		store:  store,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.catalog = catalog.New(c.source)
	c.extractor = extract.New(c.catalog, store)
	c.analysis = analysis.New(c.extractor)
	return c
}

// Catalog exposes the memoization table owner so callers can reset it
// between test cases.
func (c *Compiler) Catalog() *catalog.Catalog {
	return c.catalog
}

// Compile builds the index definition for a document type. Types without
// an index declaration, and non-struct types, compile to an empty
// definition. Empty values are pruned recursively from both the settings
// and mappings sections.
func (c *Compiler) Compile(ctx context.Context, t reflect.Type) (mapping.IndexDefinition, error) {
	t = indirect(t)
	if t.Kind() != reflect.Struct {
		return mapping.IndexDefinition{}, nil
	}
	decl, ok := c.source.Index(t)
	if !ok {
		return mapping.IndexDefinition{}, nil
	}

	settings := make(map[string]any, len(decl.Settings)+1)
	for k, v := range decl.Settings {
		settings[k] = v
	}

	analysisCfg, err := c.analysis.Resolve(ctx, t, c.global)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", mapping.TypeName(t), err)
	}
	if len(analysisCfg) > 0 {
		settings["analysis"] = analysisCfg
	}

	properties, err := c.extractor.Extract(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", mapping.TypeName(t), err)
	}

	def := mapping.IndexDefinition{}
	if pruned := pruneMap(settings); len(pruned) > 0 {
		def["settings"] = pruned
	}
	mappings := map[string]any{
		decl.TypeName: map[string]any{
			"properties": properties,
		},
	}
	if pruned := pruneMap(mappings); len(pruned) > 0 {
		def["mappings"] = pruned
	}
	return def, nil
}

// CompileValue is Compile for a document value or pointer.
func (c *Compiler) CompileValue(ctx context.Context, doc any) (mapping.IndexDefinition, error) {
	return c.Compile(ctx, reflect.TypeOf(doc))
}

// Alias returns the index alias for a type: the declaration override, or
// the snake-cased type name when the declaration carries none or the type
// has no declaration at all.
func (c *Compiler) Alias(t reflect.Type) string {
	t = indirect(t)
	if decl, ok := c.source.Index(t); ok {
		return decl.Alias
	}
	return mapping.SnakeCase(t.Name())
}

// IsDefault reports whether the type's index is declared the application
// default.
func (c *Compiler) IsDefault(t reflect.Type) bool {
	decl, ok := c.source.Index(indirect(t))
	return ok && decl.Default
}

// Declaration returns the raw index declaration, or nil when absent.
func (c *Compiler) Declaration(t reflect.Type) *mapping.Index {
	decl, ok := c.source.Index(indirect(t))
	if !ok {
		return nil
	}
	return &decl
}

// TypeForAlias resolves an index alias back to the fully qualified name of
// the document type it was compiled from, using the alias registry in the
// metadata cache. The registry is populated by an external indexing pass;
// an absent entry resolves to UnknownType.
func (c *Compiler) TypeForAlias(ctx context.Context, alias string) (string, error) {
	aliases, err := cache.FetchAliases(ctx, c.store)
	if err != nil {
		return "", err
	}
	if name, ok := aliases[alias]; ok {
		return name, nil
	}
	return UnknownType, nil
}

// SyncAliases writes the alias registry for every registered document type
// that carries an index declaration. This is the "indexing pass" that
// TypeForAlias reads from; applications run it after registration.
func (c *Compiler) SyncAliases(ctx context.Context, reg *mapping.Registry) error {
	aliases, err := cache.FetchAliases(ctx, c.store)
	if err != nil {
		return err
	}
	for _, t := range reg.Types() {
		if _, ok := c.source.Index(t); !ok {
			continue
		}
		aliases[c.Alias(t)] = mapping.TypeName(t)
	}
	return cache.SaveAliases(ctx, c.store, aliases)
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
