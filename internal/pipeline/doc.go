// Package pipeline loads samples and runs them through an Evaluator on a
// pool of workers, handing each finished Evaluation to a visit callback.
//
// The only contract to implement is Evaluator (Evaluate). Samples are
// independent, so they are scored concurrently; each evaluation itself is a
// pure single-pass computation.
package pipeline
