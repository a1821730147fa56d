// Package manifest loads binding declarations from YAML or HCL files,
// validates them and attaches them to a model and a set of named targets.
//
// A YAML manifest:
//
//	version: "1"
//	bindings:
//	  - target: street
//	    property: text
//	    path: addresses[1].street
//	  - target: age
//	    path: age
//	    kind: int
//	    computed_by: year_of_birth
//
// The same declarations in HCL:
//
//	binding "street" {
//	  property = "text"
//	  path     = "addresses[1].street"
//	}
package manifest
