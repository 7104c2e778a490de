package survey

import (
	"fmt"
	"sort"
	"strings"

	"gopnad/domain/core"
)

// Open marks an unbounded side of a Range.
const Open = 0

// Range is an inclusive interval of survey years. A bound equal to Open
// leaves that side unbounded.
type Range struct {
	From int
	To   int
}

// Year is the single-year range [y, y].
func Year(y int) Range { return Range{From: y, To: y} }

// Since is the range [y, ...].
func Since(y int) Range { return Range{From: y, To: Open} }

// Until is the range [..., y].
func Until(y int) Range { return Range{From: Open, To: y} }

// Between is the range [a, b].
func Between(a, b int) Range { return Range{From: a, To: b} }

// All is the fully open range.
var All = Range{}

func (r Range) Contains(year int) bool {
	if r.From != Open && year < r.From {
		return false
	}
	if r.To != Open && year > r.To {
		return false
	}
	return true
}

func (r Range) String() string {
	bound := func(v int) string {
		if v == Open {
			return "..."
		}
		return fmt.Sprint(v)
	}
	if r.From == r.To && r.From != Open {
		return fmt.Sprint(r.From)
	}
	return fmt.Sprintf("(%s, %s)", bound(r.From), bound(r.To))
}

// ParseRange reads "1992", "1992-", "-1990", "1981-1990" or "" (all years).
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "..." {
		return All, nil
	}
	parse := func(p string) (int, error) {
		p = strings.TrimSpace(p)
		if p == "" || p == "..." {
			return Open, nil
		}
		var v int
		if _, err := fmt.Sscanf(p, "%d", &v); err != nil || v <= 0 {
			return 0, fmt.Errorf("%w: bad year %q", core.ErrInvalidRange, p)
		}
		return v, nil
	}
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		y, err := parse(s)
		if err != nil {
			return Range{}, err
		}
		return Year(y), nil
	}
	from, err := parse(lo)
	if err != nil {
		return Range{}, err
	}
	to, err := parse(hi)
	if err != nil {
		return Range{}, err
	}
	if from != Open && to != Open && from > to {
		return Range{}, fmt.Errorf("%w: %q starts after it ends", core.ErrInvalidRange, s)
	}
	return Range{From: from, To: to}, nil
}

// lowerKey and upperKey order open bounds before and after every real year.
func (r Range) lowerKey() int {
	if r.From == Open {
		return -1 << 31
	}
	return r.From
}

func (r Range) upperKey() int {
	if r.To == Open {
		return 1<<31 - 1
	}
	return r.To
}

// Entry binds a value to the years of a Range.
type Entry[T any] struct {
	Range Range
	Value T
}

// Spec maps year ranges to values, e.g. which raw variable holds a
// harmonised field in each survey edition.
type Spec[T any] []Entry[T]

// Select returns the value of the first range, in ascending order, that
// contains year.
func (s Spec[T]) Select(year int) (T, error) {
	sorted := make([]Entry[T], len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Range, sorted[j].Range
		if a.lowerKey() != b.lowerKey() {
			return a.lowerKey() < b.lowerKey()
		}
		return a.upperKey() < b.upperKey()
	})
	for _, e := range sorted {
		if e.Range.Contains(year) {
			return e.Value, nil
		}
	}
	var zero T
	return zero, core.NewNoYearRangeError(year, s.describe())
}

func (s Spec[T]) describe() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = fmt.Sprintf("%s: %v", e.Range, e.Value)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// InRange returns the years inside r, preserving order.
func InRange(years []int, r Range) []int {
	var out []int
	for _, y := range years {
		if r.Contains(y) {
			out = append(out, y)
		}
	}
	return out
}

// Filter keeps the years that also appear in valid. A nil valid list keeps
// everything.
func Filter(years, valid []int) []int {
	if valid == nil {
		return append([]int(nil), years...)
	}
	ok := make(map[int]bool, len(valid))
	for _, y := range valid {
		ok[y] = true
	}
	var out []int
	for _, y := range years {
		if ok[y] {
			out = append(out, y)
		}
	}
	return out
}

// FullRaceInfoYears returns the available editions that asked every
// respondent about race: 1982 and every year from 1987 on.
func FullRaceInfoYears(available []int) []int {
	var out []int
	for _, y := range available {
		if y == 1982 || y >= 1987 {
			out = append(out, y)
		}
	}
	return out
}

// Contains reports whether year is in the sorted or unsorted list.
func Contains(years []int, year int) bool {
	for _, y := range years {
		if y == year {
			return true
		}
	}
	return false
}
