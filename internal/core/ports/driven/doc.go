// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - Embedder: converts text to a fixed-length vector (external provider)
//   - VectorIndex: owns fragment vectors and answers top-k similarity queries
//   - DocumentStore: document and fragment persistence
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
