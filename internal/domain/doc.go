// Package domain defines the entity model of the campusmart store.
//
// Entities map one-to-one onto persisted tables. Catalog items (books,
// audiobooks, courses, gear) have no shared supertype in storage; the
// unified CatalogItem shape exists only as a read-time projection.
package domain
