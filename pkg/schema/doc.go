// Package schema describes the declarative settings schema consumed by the
// settings panels: one Descriptor per named setting, a Store that resolves ids
// to descriptors, and loaders for YAML/JSON schema documents.
//
// Stores are total-or-error: asking for an id the schema does not declare
// returns a *LookupError instead of a zero Descriptor. Callers treat that as a
// configuration bug and surface it rather than degrading.
package schema
