package catalog

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/esmapper/internal/annotation"
	"github.com/dshills/esmapper/pkg/mapping"
)

// countingSource wraps TagSource and counts declaration reads so tests can
// verify memoization.
type countingSource struct {
	annotation.TagSource
	reads atomic.Int64
}

func (s *countingSource) Declarations(f reflect.StructField) ([]mapping.Declaration, error) {
	s.reads.Add(1)
	return s.TagSource.Declarations(f)
}

type baseDoc struct {
	ID      string `es:"id,type=keyword"`
	Created string `es:"created,type=date"`
}

type childDoc struct {
	baseDoc
	ID    string `es:"child_id,type=keyword"` // shadows baseDoc.ID
	Title string `es:",type=text"`
}

func propNames(props []Property) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return names
}

func TestResolveOrderAndShadowing(t *testing.T) {
	c := New(annotation.TagSource{})

	props, err := c.Resolve(reflect.TypeOf(childDoc{}))
	require.NoError(t, err)

	// Own fields first in declaration order, then promoted fields for
	// names not already taken.
	assert.Equal(t, []string{"ID", "Title", "Created"}, propNames(props))

	// The child's declaration wins for the shadowed name.
	var id Property
	for _, p := range props {
		if p.Name == "ID" {
			id = p
		}
	}
	require.Len(t, id.Declarations, 1)
	assert.Equal(t, "child_id", id.Declarations[0].SchemaName("ID"))
}

func TestResolvePointerChain(t *testing.T) {
	c := New(annotation.TagSource{})

	props, err := c.Resolve(reflect.TypeOf(&childDoc{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Title", "Created"}, propNames(props))
}

func TestResolveNonStruct(t *testing.T) {
	c := New(annotation.TagSource{})

	_, err := c.Resolve(reflect.TypeOf(42))
	assert.Error(t, err)
}

func TestResolveMemoized(t *testing.T) {
	src := &countingSource{}
	c := New(src)

	first, err := c.Resolve(reflect.TypeOf(childDoc{}))
	require.NoError(t, err)
	reads := src.reads.Load()
	require.Greater(t, reads, int64(0))

	second, err := c.Resolve(reflect.TypeOf(childDoc{}))
	require.NoError(t, err)

	assert.Equal(t, reads, src.reads.Load(), "second resolve must not re-read the annotation source")
	assert.Equal(t, first, second)

	// The embedded type was memoized on the way through.
	c2 := src.reads.Load()
	_, err = c.Resolve(reflect.TypeOf(baseDoc{}))
	require.NoError(t, err)
	assert.Equal(t, c2, src.reads.Load())
}

func TestResolveConcurrent(t *testing.T) {
	src := &countingSource{}
	c := New(src)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Resolve(reflect.TypeOf(childDoc{}))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// childDoc has 2 own declared fields plus 2 on baseDoc.
	assert.Equal(t, int64(4), src.reads.Load())
}

func TestReset(t *testing.T) {
	src := &countingSource{}
	c := New(src)

	_, err := c.Resolve(reflect.TypeOf(baseDoc{}))
	require.NoError(t, err)
	reads := src.reads.Load()

	c.Reset()

	_, err = c.Resolve(reflect.TypeOf(baseDoc{}))
	require.NoError(t, err)
	assert.Equal(t, reads*2, src.reads.Load())
}

type selfEmbed struct {
	*selfEmbed
	Name string `es:",type=keyword"`
}

func TestResolveSelfEmbedding(t *testing.T) {
	c := New(annotation.TagSource{})

	props, err := c.Resolve(reflect.TypeOf(selfEmbed{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, propNames(props))
}
