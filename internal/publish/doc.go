// Package publish uploads the below workspace crates to crates.io.
//
// Crates are published in a fixed dependency order with a settle delay
// between uploads so registry-side propagation completes before the
// next crate's dependency resolution runs. The loop is linear and
// fail-fast; there is no retry and no rollback of crates already
// uploaded.
package publish
