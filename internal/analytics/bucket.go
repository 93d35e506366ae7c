// Package analytics turns timestamped event streams into fixed-width
// time buckets for the dashboard charts.
package analytics

import "time"

// Event is a single timestamped observation
type Event struct {
	Time  time.Time
	Value float64
}

// Mode selects what accumulates into a bucket
type Mode int

const (
	Count Mode = iota // Number of events per bucket (activity charts)
	Sum               // Sum of event values per bucket (spending charts)
)

// Order controls whether bucket 0 comes first or last in the output
type Order int

const (
	Ascending Order = iota
	Descending
)

// Options parameterizes Bucketize
type Options struct {
	Mode   Mode
	Layout string // time format layout for bucket labels
	Order  Order
}

// Bucketize divides the span between the earliest and latest event into
// `buckets` equal-width windows and accumulates each event into its window.
// Input order does not matter. When all events share one timestamp the span
// is zero and everything lands in bucket 0. Empty input yields zeroed values
// and no labels.
func Bucketize(events []Event, buckets int, opts Options) (labels []string, values []float64) {
	if buckets <= 0 {
		buckets = 1
	}
	values = make([]float64, buckets)
	if len(events) == 0 {
		return nil, values
	}

	first, last := events[0].Time, events[0].Time
	for _, ev := range events[1:] {
		if ev.Time.Before(first) {
			first = ev.Time
		}
		if ev.Time.After(last) {
			last = ev.Time
		}
	}
	width := last.Sub(first).Seconds() / float64(buckets)

	for _, ev := range events {
		idx := 0
		if width > 0 {
			idx = int(ev.Time.Sub(first).Seconds() / width)
		}
		// The latest event computes to index == buckets; clamp it in
		if idx >= buckets {
			idx = buckets - 1
		}
		switch opts.Mode {
		case Sum:
			values[idx] += ev.Value
		default:
			values[idx]++
		}
	}

	layout := opts.Layout
	if layout == "" {
		layout = "15:04"
	}
	labels = make([]string, buckets)
	for i := range labels {
		offset := time.Duration(float64(i) * width * float64(time.Second))
		labels[i] = first.Add(offset).Format(layout)
	}

	if opts.Order == Descending {
		for i, j := 0, buckets-1; i < j; i, j = i+1, j-1 {
			labels[i], labels[j] = labels[j], labels[i]
			values[i], values[j] = values[j], values[i]
		}
	}
	return labels, values
}
