// Package hclgraph loads dependency items from HCL grid files.
//
// A grid declares one block per item. Dependencies are listed in the
// optional depends_on attribute, either as plain names or as references to
// other item blocks:
//
//	item "fetch" {}
//
//	item "compile" {
//	  depends_on = ["fetch"]
//	}
//
//	item "package" {
//	  depends_on = [item.compile, "fetch"]
//	}
//
// Items with the same name may be declared in several files; the resolver
// merges their dependencies. References to names that are never declared are
// kept as they are and surface as resolution errors later on.
package hclgraph
