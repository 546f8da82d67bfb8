package collate

import (
	"cmp"
	"errors"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders two values. It returns a negative number when a sorts
// before b, zero when they are equal and a positive number otherwise, so it
// can be passed to slices.SortFunc directly.
type Comparator[T any] func(a, b T) int

// Reversed returns a comparator with the opposite order.
func (c Comparator[T]) Reversed() Comparator[T] {
	return func(a, b T) int { return c(b, a) }
}

// Then breaks ties of c with next.
func (c Comparator[T]) Then(next Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		if r := c(a, b); r != 0 {
			return r
		}
		return next(a, b)
	}
}

type options struct {
	collate []collate.Option
	reverse bool
}

// Option configures a collating comparator.
type Option func(*options)

// IgnoreCase treats upper and lower case letters as equal.
func IgnoreCase() Option {
	return func(o *options) { o.collate = append(o.collate, collate.IgnoreCase) }
}

// IgnoreDiacritics compares base letters only, so "côte" equals "cote".
// Accents are encoded below the case and width level, so case and width
// differences are ignored as well.
func IgnoreDiacritics() Option {
	return func(o *options) { o.collate = append(o.collate, collate.Loose) }
}

// Numeric orders digit runs by value, so "item2" sorts before "item10".
func Numeric() Option {
	return func(o *options) { o.collate = append(o.collate, collate.Numeric) }
}

// Reverse sorts in descending order.
func Reverse() Option {
	return func(o *options) { o.reverse = true }
}

// New returns a comparator that orders values by the string key extracts,
// using the collation rules of tag.
//
// A collator keeps internal buffers, so the returned comparator serialises
// calls. Build one comparator per goroutine for heavy parallel sorting.
func New[T any](tag language.Tag, key func(T) string, opts ...Option) Comparator[T] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var mu sync.Mutex
	col := collate.New(tag, o.collate...)

	c := Comparator[T](func(a, b T) int {
		ka, kb := key(a), key(b)
		mu.Lock()
		defer mu.Unlock()
		return col.CompareString(ka, kb)
	})
	if o.reverse {
		return c.Reversed()
	}
	return c
}

// Strings returns a collating comparator for plain strings.
func Strings(tag language.Tag, opts ...Option) Comparator[string] {
	return New(tag, func(s string) string { return s }, opts...)
}

// Named is anything with a display name.
type Named interface {
	Name() string
}

// ByName orders values by their Name.
func ByName[T Named](tag language.Tag, opts ...Option) Comparator[T] {
	return New(tag, func(v T) string { return v.Name() }, opts...)
}

// ErrInvalidLocale is returned by ParseLocale for malformed tags.
var ErrInvalidLocale = errors.New("invalid locale")

// ParseLocale parses a BCP 47 tag such as "de-CH". An empty string yields
// language.Und, which collates by the root order.
func ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, errors.Join(ErrInvalidLocale, err)
	}
	return tag, nil
}

// QName is an XML qualified name.
type QName struct {
	Namespace string
	Local     string
}

func (q QName) String() string {
	if q.Namespace == "" {
		return q.Local
	}
	return "{" + q.Namespace + "}" + q.Local
}

// CompareQName orders by namespace and then by local part, byte-wise.
func CompareQName(a, b QName) int {
	if r := cmp.Compare(a.Namespace, b.Namespace); r != 0 {
		return r
	}
	return cmp.Compare(a.Local, b.Local)
}
