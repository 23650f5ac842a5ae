package reconstruct

import (
	"math"
	"sort"

	"github.com/bindery/bindery/internal/bookdoc"
)

// Profile maps a page's observed font sizes onto three semantic tiers:
// footnote, body, and header/title. The reduction is deliberately coarse —
// it trades ligature and emphasis distinctions for robustness against font
// substitution noise in scanned PDFs.
type Profile struct {
	FootnoteSize float64
	BodySize     float64
	HeaderSize   float64

	buckets []sizeBucket
	empty   bool
}

type sizeBucket struct {
	mean  float64
	count int
}

// ProfilePage clusters the sized tokens on one page into tiers. Tokens
// without font metadata are ignored; a page with none yields an empty
// profile and classification falls back to position-only rules.
func ProfilePage(tokens []bookdoc.Token, sizeTolerance float64) Profile {
	var sizes []float64
	for _, t := range tokens {
		if t.FontSize > 0 {
			sizes = append(sizes, t.FontSize)
		}
	}
	if len(sizes) == 0 {
		return Profile{empty: true}
	}
	sort.Float64s(sizes)

	// Greedy clustering: consecutive sizes within the tolerance share a bucket.
	var buckets []sizeBucket
	start := 0
	for i := 1; i <= len(sizes); i++ {
		if i == len(sizes) || sizes[i]-sizes[i-1] > sizeTolerance {
			members := sizes[start:i]
			var sum float64
			for _, s := range members {
				sum += s
			}
			buckets = append(buckets, sizeBucket{
				mean:  sum / float64(len(members)),
				count: len(members),
			})
			start = i
		}
	}

	p := Profile{buckets: buckets}
	switch {
	case len(buckets) >= 3:
		p.FootnoteSize = buckets[0].mean
		p.BodySize = buckets[len(buckets)/2].mean
		p.HeaderSize = buckets[len(buckets)-1].mean
	case len(buckets) == 2:
		p.FootnoteSize = buckets[0].mean
		p.BodySize = buckets[1].mean
		p.HeaderSize = buckets[1].mean
	default:
		p.FootnoteSize = buckets[0].mean
		p.BodySize = buckets[0].mean
		p.HeaderSize = buckets[0].mean
	}
	return p
}

// Empty reports whether the page carried no usable font-size data.
func (p Profile) Empty() bool {
	return p.empty
}

// IsHeaderSize reports whether size is at least as close to the
// header/title tier as to the other tiers. Tiers may coincide on pages
// with few distinct sizes, so the predicates are not mutually exclusive.
func (p Profile) IsHeaderSize(size float64) bool {
	if p.empty {
		return false
	}
	d := math.Abs(size - p.HeaderSize)
	return d <= math.Abs(size-p.BodySize) && d <= math.Abs(size-p.FootnoteSize)
}

// IsBodySize reports whether size is at least as close to the body tier
// as to the other tiers.
func (p Profile) IsBodySize(size float64) bool {
	if p.empty {
		return false
	}
	d := math.Abs(size - p.BodySize)
	return d <= math.Abs(size-p.HeaderSize) && d <= math.Abs(size-p.FootnoteSize)
}

// IsFootnoteSize reports whether size is at least as close to the
// footnote tier as to the other tiers.
func (p Profile) IsFootnoteSize(size float64) bool {
	if p.empty {
		return false
	}
	d := math.Abs(size - p.FootnoteSize)
	return d <= math.Abs(size-p.BodySize) && d <= math.Abs(size-p.HeaderSize)
}

// Buckets returns the number of distinct size clusters found.
func (p Profile) Buckets() int {
	return len(p.buckets)
}
