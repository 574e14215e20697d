package analytics

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
)

// Stat is a score statistic that may be unavailable for lack of data.
// It marshals to "N/A" when not Valid.
type Stat struct {
	Value float64
	Valid bool
}

const notAvailable = "N/A"

func NA() Stat { return Stat{} }

func Of(v float64) Stat { return Stat{Value: v, Valid: true} }

// Rounded is Value to two decimals.
func (s Stat) Rounded() float64 { return math.Round(s.Value*100) / 100 }

func (s Stat) String() string {
	if !s.Valid {
		return notAvailable
	}
	return strconv.FormatFloat(s.Rounded(), 'f', 2, 64)
}

func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return json.Marshal(notAvailable)
	}
	return []byte(strconv.FormatFloat(s.Rounded(), 'f', -1, 64)), nil
}

func (s *Stat) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = NA()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Of(v)
	return nil
}

// Percent is round-half-up(n/d*100), or 0 when d is 0.
func Percent(n, d int) int {
	if d <= 0 {
		return 0
	}
	return (200*n + d) / (2 * d)
}

func Mean(xs []int) Stat {
	if len(xs) == 0 {
		return NA()
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return Of(float64(sum) / float64(len(xs)))
}

// Median needs at least two values.
func Median(xs []int) Stat {
	if len(xs) < 2 {
		return NA()
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return Of(float64(s[mid]))
	}
	return Of(float64(s[mid-1]+s[mid]) / 2)
}

// StdDev is the population standard deviation; it needs at least two values.
func StdDev(xs []int) Stat {
	if len(xs) < 2 {
		return NA()
	}
	m := Mean(xs).Value
	var ss float64
	for _, x := range xs {
		d := float64(x) - m
		ss += d * d
	}
	return Of(math.Sqrt(ss / float64(len(xs))))
}

func Min(xs []int) Stat {
	if len(xs) == 0 {
		return NA()
	}
	return Of(float64(slices.Min(xs)))
}

func Max(xs []int) Stat {
	if len(xs) == 0 {
		return NA()
	}
	return Of(float64(slices.Max(xs)))
}
