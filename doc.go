package hed

// Package hed provides:
//
// - The shared HED (Hierarchical Event Descriptor) data model: Tag and Group
//   nodes, ParsedString trees with source spans
// - A string tree parser (ParseString) for comma/paren delimited annotations
// - A stable issue model via Issues (code, severity, span, message)
// - Identity-based tree mutation (Replace/Remove) with fail-closed semantics
//   for frozen trees
//
// Design policy:
// - Keep only the shared data model and public entry points in the root
//   package; put schema handling under schema/, canonicalization under
//   convert/, rule checking under validate/, definitions under defs/ and
//   onset/offset pairing under temporal/.
// - The core never logs; every failure surfaces as Issues or an explicit
//   error value.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	ps, err := hed.ParseString("Event, (Duration/3 ms, Red)")
//	sc, err := schema.LoadXML(data)
//	iss := validate.New(sc, validate.Options{}).CheckTree(ps)
