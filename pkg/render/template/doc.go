// Package template defines the template renderer seam the built-in fields
// render through. Engines live in subpackages; pongo provides the default.
package template
