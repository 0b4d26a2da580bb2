// Package aggregates implements the domain aggregate contracts on top of gorm.
//
// Aggregates compose the table-level repos from internal/data/repos and own the
// transaction boundary of every invariant-critical write.
package aggregates
