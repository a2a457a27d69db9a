// Package dataset assembles the trace tables of one measurement prefix.
//
// A measurement is stored as one file per suffix, {prefix}_{suffix}.txt, for
// example 10me_Upper.txt and 10me_Lower.txt, or as a single {prefix}.txt.
//
//	asm := dataset.NewAssembler(dataset.WithLogger(logger))
//	ds := asm.Assemble(dataset.Group{
//	    Dir:      "data/smf/strain",
//	    Prefix:   "10me",
//	    Suffixes: []string{"Upper", "Lower"},
//	})
//	if ds.Empty() {
//	    // every file failed to load
//	}
//
// Files that fail to load are logged and left out of the dataset, and
// columns whose name starts with "Unnamed" are stripped. Because failures
// leave no gap, positional access counts loaded tables only:
//
//	table, err := ds.At(1)          // second loaded table
//	table, ok := ds.Table("Lower")  // by suffix; ok is false if Lower failed
//	missing := ds.Missing()         // suffixes that failed
package dataset
