// Package dataset defines the core data model (Identifier/Item/Collection)
// and the adapter contract every dataset implements, plus the global adapter
// registry. Adapter authors need to:
//  1. implement the Adapter interface under internal/dataset/<key>/;
//  2. register a Registration (metadata + factory) from init();
//  3. keep DerivePath a pure, injective function of the Identifier so the
//     on-disk cache layout stays deterministic.
//
// The engine package consumes adapters exclusively through this package; no
// dataset-specific tables leak into the orchestration core.
package dataset
