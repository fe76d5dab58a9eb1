// Package jsonschema implements a multi-dialect JSON Schema validator
// (drafts 04, 07, 2019-09 and 2020-12) built on a content-addressable
// source store and a schema graph. The public entry point is Interrogator
// (see interrogator.go); the compiler, dialect registry, schema graph and
// evaluation engine it wires together live under internal/.
package jsonschema
