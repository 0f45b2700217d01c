package grading

import (
	"errors"
	"fmt"
)

// BandStep maps every percentage >= Threshold to Band.
type BandStep struct {
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Band      float64 `yaml:"band" json:"band"`
}

// BandTable is ordered by descending threshold. The last step is the floor
// and applies to every percentage below the previous threshold.
type BandTable []BandStep

// DefaultBandTable returns a fresh copy of the standard reading/listening table.
func DefaultBandTable() BandTable {
	return BandTable{
		{90, 9}, {82, 8.5}, {75, 8}, {67, 7.5}, {60, 7}, {52, 6.5}, {45, 6},
		{37, 5.5}, {30, 5}, {22, 4.5}, {15, 4}, {10, 3.5}, {5, 3}, {0, 2.5},
	}
}

// ToBand converts a correct/total count with the default table.
func ToBand(correct, total int) float64 {
	return DefaultBandTable().Band(correct, total)
}

// Percentage returns correct/total*100, or 0 when total is 0.
func Percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) * 100 / float64(total)
}

// Band returns 0 when total is 0, otherwise the band of the percentage.
func (t BandTable) Band(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return t.ForPercentage(Percentage(correct, total))
}

// ForPercentage maps p through the table; values under every threshold get
// the floor band.
func (t BandTable) ForPercentage(p float64) float64 {
	if len(t) == 0 {
		return 0
	}
	for _, s := range t {
		if p >= s.Threshold {
			return s.Band
		}
	}
	return t[len(t)-1].Band
}

// Validate checks ordering: thresholds strictly descending, bands non-increasing.
func (t BandTable) Validate() error {
	if len(t) == 0 {
		return errors.New("band table is empty")
	}
	for i := 1; i < len(t); i++ {
		if t[i].Threshold >= t[i-1].Threshold {
			return fmt.Errorf("band table: threshold %v at %d not below %v", t[i].Threshold, i, t[i-1].Threshold)
		}
		if t[i].Band > t[i-1].Band {
			return fmt.Errorf("band table: band %v at %d above %v", t[i].Band, i, t[i-1].Band)
		}
	}
	return nil
}

func (t BandTable) clone() BandTable {
	return append(BandTable(nil), t...)
}
