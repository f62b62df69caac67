package extract

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/esmapper/internal/annotation"
	"github.com/dshills/esmapper/internal/cache"
	"github.com/dshills/esmapper/internal/catalog"
	"github.com/dshills/esmapper/pkg/mapping"
)

type author struct {
	Name string `es:",type=text"`
	Bio  string `es:"bio,type=text,analyzer=english"`
}

func (author) ElasticsearchObject() {}

type comment struct {
	Author author `es:"author"`
	Body   string `es:",type=text"`
}

func (comment) ElasticsearchNested() {}

type post struct {
	Title    string    `es:",type=text,analyzer=english"`
	Views    int       `es:"view_count,type=integer"`
	Author   author    `es:"author"`
	Comments []comment `es:"comments"`
	Draft    string    `es:"-"`
	Internal string
}

type unmarked struct {
	Name string `es:",type=text"`
}

type withUnmarked struct {
	Child unmarked `es:"child"`
}

type doubleMarked struct {
	Name string `es:",type=text"`
}

func (doubleMarked) ElasticsearchObject() {}
func (doubleMarked) ElasticsearchNested() {}

type withDouble struct {
	Child doubleMarked `es:"child"`
}

type loopA struct {
	B *loopB `es:"b"`
}

func (loopA) ElasticsearchObject() {}

type loopB struct {
	A *loopA `es:"a"`
}

func (loopB) ElasticsearchObject() {}

func newExtractor() (*Extractor, cache.Store) {
	store := cache.NewMemory()
	return New(catalog.New(annotation.TagSource{}), store), store
}

func TestExtractFragment(t *testing.T) {
	e, _ := newExtractor()

	fragment, err := e.Extract(context.Background(), reflect.TypeOf(post{}))
	require.NoError(t, err)

	assert.Equal(t, mapping.Fragment{
		"title": mapping.Fragment{
			"type":     "text",
			"analyzer": "english",
		},
		"view_count": mapping.Fragment{
			"type": "integer",
		},
		"author": mapping.Fragment{
			"type": "object",
			"properties": mapping.Fragment{
				"name": mapping.Fragment{"type": "text"},
				"bio":  mapping.Fragment{"type": "text", "analyzer": "english"},
			},
		},
		"comments": mapping.Fragment{
			"type": "nested",
			"properties": mapping.Fragment{
				"author": mapping.Fragment{
					"type": "object",
					"properties": mapping.Fragment{
						"name": mapping.Fragment{"type": "text"},
						"bio":  mapping.Fragment{"type": "text", "analyzer": "english"},
					},
				},
				"body": mapping.Fragment{"type": "text"},
			},
		},
	}, fragment)
}

func TestExtractWritesTables(t *testing.T) {
	e, store := newExtractor()
	ctx := context.Background()

	_, err := e.Extract(ctx, reflect.TypeOf(post{}))
	require.NoError(t, err)

	className := mapping.TypeName(reflect.TypeOf(post{}))

	objTables, err := cache.FetchTables(ctx, store, cache.KeyObjectFields)
	require.NoError(t, err)
	assert.Equal(t, mapping.FieldTable{
		"Title":    "title",
		"Views":    "view_count",
		"Author":   "author",
		"Comments": "comments",
	}, objTables[className])

	arrTables, err := cache.FetchTables(ctx, store, cache.KeyArrayFields)
	require.NoError(t, err)
	assert.Equal(t, mapping.FieldTable{
		"title":      "Title",
		"view_count": "Views",
		"author":     "Author",
		"comments":   "Comments",
	}, arrTables[className])

	embTables, err := cache.FetchTables(ctx, store, cache.KeyEmbeddedFields)
	require.NoError(t, err)
	assert.Equal(t, mapping.FieldTable{
		"Author":   mapping.TypeName(reflect.TypeOf(author{})),
		"Comments": mapping.TypeName(reflect.TypeOf(comment{})),
	}, embTables[className])

	// Embedded types got their own table entries on the way through.
	assert.Contains(t, objTables, mapping.TypeName(reflect.TypeOf(author{})))
	assert.Contains(t, objTables, mapping.TypeName(reflect.TypeOf(comment{})))
}

func TestTablesAreInverses(t *testing.T) {
	e, store := newExtractor()
	ctx := context.Background()

	_, err := e.Extract(ctx, reflect.TypeOf(post{}))
	require.NoError(t, err)

	objTables, err := cache.FetchTables(ctx, store, cache.KeyObjectFields)
	require.NoError(t, err)
	arrTables, err := cache.FetchTables(ctx, store, cache.KeyArrayFields)
	require.NoError(t, err)

	for class, obj := range objTables {
		arr := arrTables[class]
		require.Len(t, arr, len(obj), "class %s", class)
		for goField, schemaName := range obj {
			assert.Equal(t, goField, arr[schemaName], "class %s", class)
		}
	}
}

func TestExtractEmptyTablesStillWritten(t *testing.T) {
	e, store := newExtractor()
	ctx := context.Background()

	type nothingMapped struct {
		Plain string
	}
	_, err := e.Extract(ctx, reflect.TypeOf(nothingMapped{}))
	require.NoError(t, err)

	className := mapping.TypeName(reflect.TypeOf(nothingMapped{}))

	objTables, err := cache.FetchTables(ctx, store, cache.KeyObjectFields)
	require.NoError(t, err)
	table, ok := objTables[className]
	require.True(t, ok, "object table written even when empty")
	assert.Empty(t, table)

	// No embedded fields, so no embedded-fields entry at all.
	ok, err = store.Contains(ctx, cache.KeyEmbeddedFields)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExtractRebuildOverwrites(t *testing.T) {
	e, store := newExtractor()
	ctx := context.Background()

	className := mapping.TypeName(reflect.TypeOf(post{}))

	// Seed a stale entry for this class; extraction must replace, not merge.
	require.NoError(t, cache.MergeTable(ctx, store, cache.KeyObjectFields, className,
		mapping.FieldTable{"Stale": "stale"}))

	_, err := e.Extract(ctx, reflect.TypeOf(post{}))
	require.NoError(t, err)

	objTables, err := cache.FetchTables(ctx, store, cache.KeyObjectFields)
	require.NoError(t, err)
	assert.NotContains(t, objTables[className], "Stale")
}

func TestExtractUnmarkedEmbedded(t *testing.T) {
	e, _ := newExtractor()

	_, err := e.Extract(context.Background(), reflect.TypeOf(withUnmarked{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownObjectKind)
	assert.Contains(t, err.Error(), "unmarked", "error names the offending type")
}

func TestExtractDoubleMarkedEmbedded(t *testing.T) {
	e, _ := newExtractor()

	_, err := e.Extract(context.Background(), reflect.TypeOf(withDouble{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousObjectKind)
	assert.Contains(t, err.Error(), "doubleMarked")
}

func TestExtractCircularEmbedding(t *testing.T) {
	e, _ := newExtractor()

	_, err := e.Extract(context.Background(), reflect.TypeOf(loopA{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircularEmbedding)
}

func TestExtractSiblingReuseIsNotACycle(t *testing.T) {
	e, _ := newExtractor()

	type twice struct {
		First  author `es:"first"`
		Second author `es:"second"`
	}
	fragment, err := e.Extract(context.Background(), reflect.TypeOf(twice{}))
	require.NoError(t, err)
	assert.Len(t, fragment, 2)
}

func TestExtractDeterministic(t *testing.T) {
	e, _ := newExtractor()
	ctx := context.Background()

	first, err := e.Extract(ctx, reflect.TypeOf(post{}))
	require.NoError(t, err)
	second, err := e.Extract(ctx, reflect.TypeOf(post{}))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
