// Package platform declares the host collaborators the menu field pipeline
// consumes: menu item lookups, the per-item metadata store, submitted request
// parameters and the baseline edit-row renderer. The rest of the module only
// talks to the host through these interfaces, so any CMS (or a test fake) can
// back them.
package platform
