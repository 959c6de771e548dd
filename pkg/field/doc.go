// Package field holds the per-item field contract: descriptors contributed by
// third parties through the FilterFields hook, the Value that reads, formats
// and persists one field for one menu item, the ValueFactory handed to
// contributors, and the Collector that gathers descriptors for an item.
//
// Values are request scoped. They are built fresh per field per render or
// save and never cached or shared across items. A Value bound to an id that
// is not a positive menu item id is invalid: its accessors still work but
// Save refuses to touch the store.
package field
