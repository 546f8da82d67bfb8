// Package collate builds locale-aware comparators on top of
// golang.org/x/text/collate.
//
//	byTitle := collate.New(language.German, func(b Book) string { return b.Title },
//		collate.IgnoreCase())
//	slices.SortFunc(books, byTitle)
//
// Comparators compose with Reversed and Then.
package collate
