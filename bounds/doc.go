// Package bounds tracks the axis ranges of overlaid trace curves.
//
// When several scans are drawn on one set of axes, the axis limits must cover
// every curve seen so far. Range values are widened with Update, which never
// narrows and never mutates its inputs:
//
//	xr, _ := bounds.Of(x1)
//	xr = bounds.Update(xr, candidate)
//
// Tracker carries the X and Y ranges of an overlay as a value:
//
//	var overlay bounds.Tracker
//	for _, table := range tables {
//	    overlay, err = overlay.AddTable(table, 0, 1)
//	}
//	fmt.Println(overlay.X, overlay.Y)
package bounds
