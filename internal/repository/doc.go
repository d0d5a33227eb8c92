// Package repository defines the data-access contract consumed by the
// aggregation layer and the presentation layer above it. The single
// production implementation lives in the sqlite subpackage.
package repository
