package classifier

import (
	"math"
	"math/rand"
	"sort"
)

// Split holds the train/test partition of a dataset. Intent and item
// labels ride on the same indices; only intents drive stratification.
type Split struct {
	TrainTexts, TestTexts     []string
	TrainIntents, TestIntents []string
	TrainItems, TestItems     []string
}

// StratifiedSplit partitions the dataset with the given test fraction,
// stratified by intent so rare intents stay represented on both sides.
// The seed fixes the shuffle, making splits reproducible across runs.
// Any intent with at least two examples contributes at least one test
// row.
func StratifiedSplit(ds *Dataset, testFraction float64, seed int64) *Split {
	byIntent := make(map[string][]int)
	for i, intent := range ds.Intents {
		byIntent[intent] = append(byIntent[intent], i)
	}

	intents := make([]string, 0, len(byIntent))
	for intent := range byIntent {
		intents = append(intents, intent)
	}
	sort.Strings(intents)

	rng := rand.New(rand.NewSource(seed))
	split := &Split{}

	for _, intent := range intents {
		indices := byIntent[intent]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		testN := int(math.Round(float64(len(indices)) * testFraction))
		if testN == 0 && len(indices) > 1 {
			testN = 1
		}

		for pos, idx := range indices {
			if pos < testN {
				split.TestTexts = append(split.TestTexts, ds.Texts[idx])
				split.TestIntents = append(split.TestIntents, ds.Intents[idx])
				split.TestItems = append(split.TestItems, ds.Items[idx])
			} else {
				split.TrainTexts = append(split.TrainTexts, ds.Texts[idx])
				split.TrainIntents = append(split.TrainIntents, ds.Intents[idx])
				split.TrainItems = append(split.TrainItems, ds.Items[idx])
			}
		}
	}

	return split
}
