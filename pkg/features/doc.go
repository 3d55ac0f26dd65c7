// Package features groups the widgets built on top of the vango, vdom and
// server packages.
//
// # Subsystems
//
//   - breadcrumb: trails derived from the current path, with per-page
//     label overrides
//
// Each subsystem is in its own sub-package:
//
//	import "github.com/vango-dev/crumbtrail/pkg/features/breadcrumb"
package features
