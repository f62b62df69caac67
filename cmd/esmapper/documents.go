package main

import (
	"time"

	"github.com/dshills/esmapper/pkg/mapping"
)

// Sample document set served by the standalone binary. Real deployments
// build their own cmd wiring their application's document types into a
// registry; this set exists so the CLI and MCP surface work out of the box
// for evaluation.

// Product is the default demo document.
type Product struct {
	Title       string    `es:",type=text,analyzer=english,search_analyzer=standard"`
	Description string    `es:"description,type=text,analyzer=english"`
	SKU         string    `es:"sku,type=keyword"`
	Price       float64   `es:"price,type=scaled_float,scaling_factor=100"`
	Released    time.Time `es:"released,type=date,format=epoch_millis"`
	Supplier    Supplier  `es:"supplier"`
	Variants    []Variant `es:"variants"`
}

// ElasticsearchIndex declares the products index.
func (Product) ElasticsearchIndex() mapping.Index {
	return mapping.Index{
		Alias:   "products",
		Default: true,
		Settings: map[string]any{
			"number_of_shards":   1,
			"number_of_replicas": 1,
		},
	}
}

// Supplier is embedded in Product as a single-valued object.
type Supplier struct {
	Name    string `es:",type=text"`
	Country string `es:"country,type=keyword"`
}

// ElasticsearchObject marks Supplier as an object mapping.
func (Supplier) ElasticsearchObject() {}

// Variant is embedded in Product as a multi-valued nested document.
type Variant struct {
	Color string `es:"color,type=keyword"`
	Size  string `es:"size,type=keyword"`
	Stock int    `es:"stock,type=integer"`
}

// ElasticsearchNested marks Variant as a nested mapping.
func (Variant) ElasticsearchNested() {}

func newRegistry() *mapping.Registry {
	reg := mapping.NewRegistry()
	reg.MustRegister(Product{})
	reg.MustRegister(Supplier{})
	reg.MustRegister(Variant{})
	return reg
}
