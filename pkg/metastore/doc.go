// Package metastore provides platform.MetaStore implementations: an in-memory
// map for tests and single-process tools, and a Redis backend storing one hash
// per menu item.
package metastore
