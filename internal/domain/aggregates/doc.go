// Package aggregates defines write boundaries where invariants must hold atomically,
// and the error codes every layer uses to classify failures.
package aggregates
