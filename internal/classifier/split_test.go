package classifier

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// skewedDataset builds 100 rows with intents split 80/20.
func skewedDataset() *Dataset {
	ds := &Dataset{}
	for i := 0; i < 80; i++ {
		ds.Texts = append(ds.Texts, fmt.Sprintf("book me slot %d", i))
		ds.Intents = append(ds.Intents, "booking")
		ds.Items = append(ds.Items, "svc_haircut")
	}
	for i := 0; i < 20; i++ {
		ds.Texts = append(ds.Texts, fmt.Sprintf("cancel slot %d", i))
		ds.Intents = append(ds.Intents, "cancellation")
		ds.Items = append(ds.Items, "svc_perm")
	}
	return ds
}

func TestStratifiedSplit_PreservesClassProportions(t *testing.T) {
	split := StratifiedSplit(skewedDataset(), 0.2, 42)

	assert.Len(t, split.TestTexts, 20)
	assert.Len(t, split.TrainTexts, 80)

	testCounts := map[string]int{}
	for _, intent := range split.TestIntents {
		testCounts[intent]++
	}
	assert.Equal(t, 16, testCounts["booking"], "80%% class keeps its share of the test split")
	assert.Equal(t, 4, testCounts["cancellation"], "rare class stays represented")
}

func TestStratifiedSplit_Deterministic(t *testing.T) {
	a := StratifiedSplit(skewedDataset(), 0.2, 42)
	b := StratifiedSplit(skewedDataset(), 0.2, 42)
	assert.Equal(t, a.TestTexts, b.TestTexts)
	assert.Equal(t, a.TrainTexts, b.TrainTexts)
}

func TestStratifiedSplit_LabelsRideSameIndices(t *testing.T) {
	split := StratifiedSplit(skewedDataset(), 0.2, 42)

	for i, text := range split.TestTexts {
		if split.TestIntents[i] == "booking" {
			assert.Equal(t, "svc_haircut", split.TestItems[i], "item must follow the row it came with (%s)", text)
		} else {
			assert.Equal(t, "svc_perm", split.TestItems[i])
		}
	}
}

func TestStratifiedSplit_TinyClassGetsATestRow(t *testing.T) {
	ds := &Dataset{
		Texts:   []string{"a", "b", "c", "d", "e", "f"},
		Intents: []string{"booking", "booking", "booking", "booking", "cancellation", "cancellation"},
		Items:   []string{"x", "x", "x", "x", "y", "y"},
	}
	split := StratifiedSplit(ds, 0.2, 42)

	assert.Contains(t, split.TestIntents, "cancellation")
	assert.Contains(t, split.TrainIntents, "cancellation")
}
