// Package writers turns evaluation records into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV blocks, JSON/JSONL).
//   - The pipeline stays orchestration-only; auroc stays numeric-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
