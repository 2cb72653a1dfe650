// Package urf implements the URF resource-description notation: a
// textual, graph-capable sibling of JSON and Turtle, together with the
// tag/handle identifier scheme that lets compact names stand in for
// absolute resource identifiers.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Author: Stephane Fellah (stephanef@geoknoesis.com)
// Geosemantic-AI expert with 30 years of experience
//
// The package splits into four layers:
//   - Identifiers: Tag is an absolute URI; handles shorten tags to
//     human-friendly names via TagFromHandle and HandleFromTag, with an
//     alias table (Namespaces) for non-ad-hoc namespaces.
//   - Values: a closed union over literals (boolean, integer, real,
//     decimal, string, character, binary, IRI, email, telephone,
//     regular expression, UUID, temporal), collections (list, map,
//     set), and resources.
//   - Parsing: Parser reads one document and drives a Processor with
//     declaration and statement calls; GraphProcessor builds the
//     resource graph, resolving forward references by tag.
//   - Serialization: Serializer performs the mirror traversal, with
//     formatting controlled by SerializeOptions.
//
// Example (parsing a document):
//
//	roots, resources, err := urf.ParseString(`*Person:name="Ada",age=36;`)
//	if err != nil {
//	    // handle error
//	}
//	_ = roots
//	_ = resources
//
// Example (serializing a graph):
//
//	text, err := urf.SerializeString(roots, urf.SerializeOptions{Formatted: true})
//	if err != nil {
//	    // handle error
//	}
//
// Parser, Serializer, and Importer instances are single-use: each
// document requires a fresh instance, and reuse returns a state error
// (ErrParserReused, ErrSerializerReused, ErrImporterReused). The
// literal read/write routines and the tag/handle codec are pure and
// safe for concurrent use.
//
// Beyond the document syntax, the package ships two adapters over the
// same graph model: Importer synthesizes resources from tabular (CSV)
// input, and ExportJSONLD renders a graph as JSON-LD.
package urf
