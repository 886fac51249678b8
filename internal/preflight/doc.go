// Package preflight provides readiness checks for the external engines and
// filesystem paths the media tools depend on.
//
// These checks run in two contexts:
//   - frame-extractor logs missing decoder binaries before sampling, so a
//     later "Could not open video file" has an obvious cause.
//   - The "snippetctl status" command runs every check to display tool health.
package preflight
