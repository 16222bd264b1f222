// Package template defines the template seam HTML renderers rely on so the
// engine can be swapped without touching renderer code.
package template
