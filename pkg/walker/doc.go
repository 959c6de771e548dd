// Package walker splices contributed field markup into the host's menu item
// edit row.
//
// The host renders each row as an open <li> fragment. Inject parses that
// fragment as an HTML tree, locates the item's settings container
// (id="menu-item-settings-<ID>") and its first <fieldset>, inserts the field
// markup right before that fieldset and serialises the tree back to an open
// fragment. When the row does not have the expected shape the baseline is
// returned untouched, so a change in the host markup hides the extra fields
// instead of corrupting the page. Malformed field markup is the one hard
// failure: it is a contract violation by the contributor.
package walker
