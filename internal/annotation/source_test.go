package annotation

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/esmapper/pkg/mapping"
)

type supplier struct {
	Name string `es:",type=text"`
}

func (supplier) ElasticsearchObject() {}

type product struct {
	Title     string     `es:",type=text,analyzer=english,search_analyzer=standard"`
	SKU       string     `es:"sku,type=keyword,ignore_above=64"`
	Price     float64    `es:"price,type=scaled_float,scaling_factor=100"`
	Active    bool       `es:"active,type=boolean,doc_values=true"`
	Released  time.Time  `es:"released,type=date"`
	Supplier  supplier   `es:"supplier"`
	Suppliers []supplier `es:"suppliers"`
	Hidden    string     `es:"-"`
	Untagged  string
}

func (product) ElasticsearchIndex() mapping.Index {
	return mapping.Index{Alias: "products", Default: true}
}

type bareDoc struct {
	Name string `es:",type=keyword"`
}

func (*bareDoc) ElasticsearchIndex() mapping.Index {
	return mapping.Index{}
}

func field(t *testing.T, typ any, name string) reflect.StructField {
	t.Helper()
	f, ok := reflect.TypeOf(typ).FieldByName(name)
	require.True(t, ok, "field %s", name)
	return f
}

func TestIndexDeclaration(t *testing.T) {
	src := TagSource{}

	decl, ok := src.Index(reflect.TypeOf(product{}))
	require.True(t, ok)
	assert.Equal(t, "products", decl.Alias)
	assert.True(t, decl.Default)
	assert.Equal(t, mapping.DefaultTypeName, decl.TypeName)
}

func TestIndexDeclarationDefaults(t *testing.T) {
	src := TagSource{}

	// Pointer-receiver document, zero-value declaration
	decl, ok := src.Index(reflect.TypeOf(bareDoc{}))
	require.True(t, ok)
	assert.Equal(t, "bare_doc", decl.Alias)
	assert.Equal(t, "_doc", decl.TypeName)
	assert.False(t, decl.Default)
}

func TestIndexDeclarationAbsent(t *testing.T) {
	src := TagSource{}

	_, ok := src.Index(reflect.TypeOf(supplier{}))
	assert.False(t, ok, "marker-only types carry no index declaration")

	_, ok = src.Index(reflect.TypeOf(42))
	assert.False(t, ok)
}

func TestScalarDeclaration(t *testing.T) {
	src := TagSource{}

	decls, err := src.Declarations(field(t, product{}, "Title"))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	d, ok := decls[0].(mapping.ScalarField)
	require.True(t, ok)
	assert.Equal(t, "", d.Name)
	assert.Equal(t, "text", d.Type)
	assert.Equal(t, "english", d.Analyzer)
	assert.Equal(t, "standard", d.SearchAnalyzer)
	assert.Equal(t, "title", d.SchemaName("Title"))
}

func TestScalarDeclarationExtrasAreCoerced(t *testing.T) {
	src := TagSource{}

	decls, err := src.Declarations(field(t, product{}, "SKU"))
	require.NoError(t, err)
	d := decls[0].(mapping.ScalarField)
	assert.Equal(t, "sku", d.Name)
	assert.Equal(t, 64, d.Extra["ignore_above"])

	decls, err = src.Declarations(field(t, product{}, "Price"))
	require.NoError(t, err)
	d = decls[0].(mapping.ScalarField)
	assert.Equal(t, 100, d.Extra["scaling_factor"])

	decls, err = src.Declarations(field(t, product{}, "Active"))
	require.NoError(t, err)
	d = decls[0].(mapping.ScalarField)
	assert.Equal(t, true, d.Extra["doc_values"])
}

func TestTimeIsScalar(t *testing.T) {
	src := TagSource{}

	decls, err := src.Declarations(field(t, product{}, "Released"))
	require.NoError(t, err)
	require.Len(t, decls, 1)
	_, ok := decls[0].(mapping.ScalarField)
	assert.True(t, ok, "time.Time maps as a scalar date, not an embedded object")
}

func TestEmbeddedDeclaration(t *testing.T) {
	src := TagSource{}

	decls, err := src.Declarations(field(t, product{}, "Supplier"))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	d, ok := decls[0].(mapping.EmbeddedField)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(supplier{}), d.Target)
	assert.False(t, d.Repeated)
}

func TestEmbeddedDeclarationRepeated(t *testing.T) {
	src := TagSource{}

	decls, err := src.Declarations(field(t, product{}, "Suppliers"))
	require.NoError(t, err)
	d := decls[0].(mapping.EmbeddedField)
	assert.Equal(t, reflect.TypeOf(supplier{}), d.Target)
	assert.True(t, d.Repeated)
}

func TestSkippedFields(t *testing.T) {
	src := TagSource{}

	decls, err := src.Declarations(field(t, product{}, "Hidden"))
	require.NoError(t, err)
	assert.Empty(t, decls)

	decls, err = src.Declarations(field(t, product{}, "Untagged"))
	require.NoError(t, err)
	assert.Empty(t, decls)
}

func TestMalformedTag(t *testing.T) {
	src := TagSource{}

	type bad struct {
		Name string `es:"name,keyword"`
	}
	_, err := src.Declarations(field(t, bad{}, "Name"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestEmbeddedRejectsOptions(t *testing.T) {
	src := TagSource{}

	type bad struct {
		Supplier supplier `es:"supplier,type=object"`
	}
	_, err := src.Declarations(field(t, bad{}, "Supplier"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedded fields take no settings")
}
