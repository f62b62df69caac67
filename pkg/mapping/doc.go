// Package mapping defines the declaration model for esmapper: the types an
// application uses to describe how its Go document structs map onto an
// Elasticsearch index.
//
// A document type declares its index by implementing Document and tags its
// fields with the "es" struct tag:
//
//	type Product struct {
//	    Title    string    `es:",type=text,analyzer=english"`
//	    SKU      string    `es:"sku,type=keyword"`
//	    Released time.Time `es:"released,type=date,format=epoch_millis"`
//	    Supplier Supplier  `es:"supplier"`
//	}
//
//	func (Product) ElasticsearchIndex() mapping.Index {
//	    return mapping.Index{
//	        Alias:   "products",
//	        Default: true,
//	        Settings: map[string]any{"number_of_replicas": 1},
//	    }
//	}
//
// Embedded types select their mapping kind with a marker method:
//
//	func (Supplier) ElasticsearchObject() {}
//
// The compiler in internal/compile consumes these declarations; this
// package carries no compilation logic of its own.
package mapping
