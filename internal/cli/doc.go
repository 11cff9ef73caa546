// Package cli turns command-line arguments and GRIDLEVELS_* environment
// variables into a validated app.Config.
package cli
