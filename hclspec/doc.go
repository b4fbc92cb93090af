// Package hclspec loads blueprint trees from human-authored HCL files.
//
// A blueprint file declares one root component block. Attributes become
// plain fields; nested blocks become nested configs:
//
//	component "layer" {
//	    width = 10
//
//	    component "activation" "relu" {}
//
//	    list "stack" {
//	        component "relu" {}
//	        component "tanh" {}
//	    }
//
//	    map "heads" {
//	        component "policy" "linear" {}
//	    }
//	}
//
// Nested component blocks carry the field name first and the target second.
// Parsed trees come back frozen, matching the shape of a template produced
// by a factory's DefaultConfig.
//
// Field sets are free-form (each target defines its own parameters), so the
// loader walks the hclsyntax body directly instead of decoding against a
// fixed gohcl schema.
package hclspec
