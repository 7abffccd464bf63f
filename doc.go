// Package mondoc compiles declarative, JSON-shaped interface-definition
// documents into document-database schema definitions.
//
// A document carries named definitions with typed properties, references to
// other definitions, and optional allOf composition. Compile walks that
// graph, resolves references (including self-references), flattens
// compositions, maps abstract property types onto storage types, applies
// extension metadata (storage-type overrides, validators, indexes,
// exclusions, synthetic fields), and hands each definition's flattened
// property map to a storage.Builder, which returns the schema and model
// handles collected in the Result.
//
// Compilation is deterministic, synchronous, and single-pass per definition.
// Each Compile call builds its session state from scratch, so independent
// compilations can run concurrently on separate goroutines.
package mondoc
