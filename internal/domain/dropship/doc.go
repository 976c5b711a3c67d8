// Package dropship contains the Dropshipping bounded context.
// This context integrates the platform with third-party order-fulfillment
// providers behind one uniform contract.
//
// Key concepts:
//   - ProviderAdapter: Port interface every fulfillment provider implements (Printful, Spocket)
//   - Product / OrderRequest / OrderStatus: Canonical, provider-agnostic value types
//   - ProviderError: Typed failure taxonomy (rate limit, not found, transient, ...)
//   - Registry: Lookup table of configured adapters and the current default
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package dropship
