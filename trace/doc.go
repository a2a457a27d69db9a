// Package trace provides the table model and loader for OBR trace files.
//
// An OBR trace file is tab-separated text with a fixed metadata header. Line
// 11 of the header announces whether the instrument wrote per-point gage
// length annotations; if it contains "Gage length:" the header is two lines
// longer. The line after the header is the column header row and every later
// line is a data row.
//
// # Loading a Trace
//
// Load a file, sniffing the header length from line 11:
//
//	table, err := trace.Load("data/10me_Upper.txt", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(table.Names()) // [Length (m) Spectral Shift (GHz) Unnamed: 2]
//
// Load a plain tab-separated table with a fixed header length:
//
//	opts := trace.DefaultLoadOptions()
//	opts.SkipRows = 11
//	table, err := trace.Load("data/distributed.txt", opts)
//
// Only sniff the header:
//
//	skip, err := trace.SniffSkip("data/10me_Upper.txt") // 11 or 13
//
// # Missing Values
//
// Cells that are empty, "NA", "NaN" or not numeric are kept as missing cells
// instead of rejecting the row:
//
//	col, _ := table.Column(1)
//	col.Present()  // number of cells holding a value
//	col.Values()   // present values only
//
//	// (x, y) pairs of the rows where both cells are present
//	x, y, err := table.Pairs(0, 1)
//
// # Errors
//
// Failures wrap ErrFileAccess (the file cannot be opened or read) or ErrParse
// (malformed header or table); ErrShortHeader is an ErrParse for files that
// end before line 11.
package trace
