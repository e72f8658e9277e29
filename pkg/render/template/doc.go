// Package template defines the template rendering seam used by the HTML
// renderer. Engines live in sub-packages.
package template
