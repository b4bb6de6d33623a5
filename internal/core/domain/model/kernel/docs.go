// Package kernel provides the value objects shared by every aggregate of the
// orders domain.
//
// The package includes:
//   - UUID: an opaque identifier for payment references and outbox events
//   - Cents: a non-negative money amount in minor units with overflow-checked arithmetic
//
// Both are immutable and safe for concurrent use.
package kernel
