package scheme

import "sort"

const (
	// SampleTarget is the approximate number of stems inspected per directory
	SampleTarget = 30

	// MinConfidence is the share of the sample the winning scheme must reach
	MinConfidence = 0.75
)

// Detection is the outcome of classifying a set of filename stems
type Detection struct {
	// Scheme is the winning convention, or Unknown
	Scheme Scheme

	// Confidence is the winning share of the sample in [0,1].
	// Empty input reports 1: nothing was left to classify.
	Confidence float64

	// Files is the number of stems offered for detection
	Files int

	// Sampled is the number of stems actually classified
	Sampled int

	// Counts holds the per-scheme match count over the sample
	Counts map[Scheme]int
}

// Stride returns the sampling step for a population of n stems
func Stride(n int) int {
	k := n / SampleTarget
	if k < 1 {
		k = 1
	}
	return k
}

// Sample takes every Stride(len(stems))-th stem, starting with the first
func Sample(stems []string) []string {
	k := Stride(len(stems))
	sample := make([]string, 0, len(stems)/k+1)
	for i := 0; i < len(stems); i += k {
		sample = append(sample, stems[i])
	}
	return sample
}

// Detect decides which scheme the stems predominantly follow.
//
// Every predicate is counted independently over the sample. The top count
// wins when it is strictly greater than the runner-up and reaches
// MinConfidence of the sample; otherwise the result is Unknown carrying the
// top rate as its confidence.
func Detect(stems []string) Detection {
	d := Detection{
		Scheme:     Unknown,
		Confidence: 1,
		Files:      len(stems),
		Counts:     make(map[Scheme]int, len(Known())),
	}
	if len(stems) == 0 {
		return d
	}

	sample := Sample(stems)
	d.Sampled = len(sample)

	for _, stem := range sample {
		tokens := Split(stem)
		for _, s := range Known() {
			if s.Match(tokens) {
				d.Counts[s]++
			}
		}
	}

	counts := make([]int, 0, len(Known()))
	for _, s := range Known() {
		counts = append(counts, d.Counts[s])
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))
	top, second := counts[0], counts[1]

	d.Confidence = float64(top) / float64(d.Sampled)
	if top == second || d.Confidence < MinConfidence {
		return d
	}

	for _, s := range Known() {
		if d.Counts[s] == top {
			d.Scheme = s
			break
		}
	}
	return d
}
