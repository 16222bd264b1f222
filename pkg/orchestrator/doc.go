// Package orchestrator wires schema documents, the reactive panel, theming and
// the renderer registry behind a single Generate call.
package orchestrator
