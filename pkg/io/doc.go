// Package io reads and writes staggered-grid layout requests.
//
// # Overview
//
// A request names the row count, the container constraints and the measured
// children. It can be written as JSON or TOML:
//
//	rows = 3
//
//	[constraints]
//	max_width = 800
//	max_height = 600
//
//	[[children]]
//	label = "Arts & Crafts"
//	width = 136
//	height = 48
//
// The equivalent JSON:
//
//	{
//	  "rows": 3,
//	  "constraints": {"max_width": 800, "max_height": 600},
//	  "children": [{"label": "Arts & Crafts", "width": 136, "height": 48}]
//	}
//
// # Defaults
//
// rows and constraints may be omitted. [Request.WithDefaults] fills them in
// from configuration; an axis counts as omitted when both its min and max are
// zero. A lone min keeps the configured max.
//
// # Files
//
// [ImportFile] and [ExportFile] pick the format from the file extension
// (.json or .toml). Other extensions fail with INVALID_FORMAT.
package io
