// Package discovery finds measurement directories and file prefixes.
//
// A sweep root holds trace files directly or one level of subdirectories,
// each with a complete set of {prefix}_{suffix}.txt files:
//
//	dirs, err := discovery.Subdirectories("data/smf/strain")
//	for _, dir := range dirs {
//	    prefixes, err := discovery.FilePrefixes(dir, nil)
//	    // [0me 10me 5me] sorted lexicographically
//	}
//
// An explicit order both sorts and filters:
//
//	opts := discovery.DefaultPrefixOptions()
//	opts.Order = []string{"5me", "10me", "20me", "99me"}
//	prefixes, _ := discovery.FilePrefixes(dir, opts) // [5me 10me 20me]
//
// Levels are encoded in the prefix:
//
//	strain, _ := discovery.ParseLevel("10me", "me") // 10
package discovery
