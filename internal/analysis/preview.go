package analysis

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gota/gota/dataframe"

	"ratingdrift/internal/dataset"
)

// Head returns the first n rows of df, or all of them when n covers the table.
func Head(df dataframe.DataFrame, n int) (dataframe.DataFrame, error) {
	if n < 0 {
		return dataframe.DataFrame{}, fmt.Errorf("head: negative size %d", n)
	}
	rows := df.Nrow()
	if n >= rows {
		return df.Copy(), nil
	}
	if n == 0 {
		return dataset.EmptyLike(df), nil
	}
	indexes := make([]int, n)
	for i := range indexes {
		indexes[i] = i
	}
	out := df.Subset(indexes)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("head: %w", out.Err)
	}
	return out, nil
}

// SamplePreview returns n rows of df chosen at random with a seeded PCG
// source, so the same seed always yields the same preview. When n covers
// every row the table is returned whole in its original order.
func SamplePreview(df dataframe.DataFrame, n int, seed uint64) (dataframe.DataFrame, error) {
	if n < 0 {
		return dataframe.DataFrame{}, fmt.Errorf("sample preview: negative size %d", n)
	}
	rows := df.Nrow()
	if n >= rows {
		return df.Copy(), nil
	}
	if n == 0 {
		return dataset.EmptyLike(df), nil
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	picked := rng.Perm(rows)[:n]
	out := df.Subset(picked)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("sample preview: %w", out.Err)
	}
	return out, nil
}
