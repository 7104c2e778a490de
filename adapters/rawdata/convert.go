package rawdata

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kshedden/datareader"
)

// seriesFloats converts a datareader Series to float64 with NaN for missing
// values. Strings are parsed; values that do not parse become NaN.
func seriesFloats(s *datareader.Series) []float64 {
	n := s.Length()
	out := make([]float64, n)
	switch data := s.Data().(type) {
	case []float64:
		copy(out, data)
	case []float32:
		for i, v := range data {
			out[i] = float64(v)
		}
	case []int64:
		for i, v := range data {
			out[i] = float64(v)
		}
	case []int32:
		for i, v := range data {
			out[i] = float64(v)
		}
	case []int16:
		for i, v := range data {
			out[i] = float64(v)
		}
	case []int8:
		for i, v := range data {
			out[i] = float64(v)
		}
	case []uint64:
		for i, v := range data {
			out[i] = float64(v)
		}
	case []string:
		for i, v := range data {
			out[i] = parseCell(v)
		}
	case []time.Time:
		for i := range out {
			out[i] = math.NaN()
		}
	default:
		for i := range out {
			out[i] = math.NaN()
		}
	}
	if miss := s.Missing(); miss != nil {
		for i, m := range miss {
			if m && i < n {
				out[i] = math.NaN()
			}
		}
	}
	return out
}

// parseCell reads a text cell, accepting a decimal comma.
func parseCell(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" || v == "." {
		return math.NaN()
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if f, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64); err == nil {
		return f
	}
	return math.NaN()
}
