package depth

import (
	"fmt"
	"math"
	"sort"

	"paleocore/domain/core"
	"paleocore/domain/dataset"

	"github.com/montanaflynn/stats"
)

// RateGroup summarises the samples deposited at one sedimentation rate
type RateGroup struct {
	Rate   float64 `json:"rate"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // sample standard deviation, NaN for a single sample
	Count  int     `json:"count"`
}

// GroupByRate groups the rows with a known valueCol by their exact sedimentation
// rate and summarises valueCol per group. Groups are ordered by rate; rows without
// a rate are ignored.
func GroupByRate(t *dataset.Table, valueCol string) ([]RateGroup, error) {
	dropped, err := t.DropMissing(valueCol)
	if err != nil {
		return nil, err
	}
	rates, err := dropped.Numeric(core.SedRateColumn)
	if err != nil {
		return nil, err
	}
	values, _ := dropped.Numeric(valueCol)

	buckets := make(map[float64][]float64)
	for i, rate := range rates {
		if math.IsNaN(rate) {
			continue
		}
		buckets[rate] = append(buckets[rate], values[i])
	}

	keys := make([]float64, 0, len(buckets))
	for rate := range buckets {
		keys = append(keys, rate)
	}
	sort.Float64s(keys)

	groups := make([]RateGroup, 0, len(keys))
	for _, rate := range keys {
		bucket := buckets[rate]
		mean, err := stats.Mean(bucket)
		if err != nil {
			return nil, fmt.Errorf("mean at rate %g: %w", rate, err)
		}
		stdDev := math.NaN()
		if len(bucket) > 1 {
			stdDev, err = stats.StandardDeviationSample(bucket)
			if err != nil {
				return nil, fmt.Errorf("std dev at rate %g: %w", rate, err)
			}
		}
		groups = append(groups, RateGroup{
			Rate:   rate,
			Mean:   mean,
			StdDev: stdDev,
			Count:  len(bucket),
		})
	}
	return groups, nil
}

// GroupsTable lays rate groups out as a table for the workbook writer
func GroupsTable(groups []RateGroup, valueCol string) (*dataset.Table, error) {
	rates := make([]float64, len(groups))
	means := make([]float64, len(groups))
	stds := make([]float64, len(groups))
	counts := make([]float64, len(groups))
	for i, g := range groups {
		rates[i], means[i], stds[i], counts[i] = g.Rate, g.Mean, g.StdDev, float64(g.Count)
	}

	t := dataset.NewTable()
	columns := []struct {
		name   string
		values []float64
	}{
		{core.SedRateColumn, rates},
		{valueCol + " mean", means},
		{valueCol + " std", stds},
		{valueCol + " count", counts},
	}
	for _, c := range columns {
		if err := t.AddNumeric(c.name, c.values); err != nil {
			return nil, fmt.Errorf("group column %q: %w", c.name, err)
		}
	}
	return t, nil
}
