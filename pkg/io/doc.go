// Package io reads and writes hextile patterns.
//
// # JSON Format
//
// A pattern document carries the pattern id, the parameters that produced
// it and the generated pattern:
//
//	{
//	  "id": "pattern_42_0",
//	  "params": {"total_tiles": 60, "aspect_w": 4, "aspect_h": 3, ...},
//	  "pattern": {
//	    "seed": 42,
//	    "radius": 1,
//	    "hexes": [{"q": 0, "r": 0}, {"q": 1, "r": 0}, ...],
//	    "colors": ["#2E86AB", "#F6C85F", ...],
//	    "width_inches": 61.5,
//	    ...
//	  }
//	}
//
// Because generation is deterministic, the params alone are enough to
// rebuild the pattern; the stored pattern lets renderers skip generation
// and lets other tools consume the layout without this module.
//
// Use [WriteJSON] and [ReadJSON] with any stream, or [ExportJSON] and
// [ImportJSON] for files. Decoding verifies that hexes and colors are
// parallel, unique and well formed.
//
// # CSV
//
// [WriteCSV] emits one row per hex with columns q, r, x, y, color, where x
// and y are pixel centers with four decimals. Spreadsheet users cut tiles
// from this list.
package io
