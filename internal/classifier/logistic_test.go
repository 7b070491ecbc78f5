package classifier

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separableClusters generates points around per-class centers far
// enough apart that a linear model separates them cleanly.
func separableClusters(perClass int, seed int64) ([][]float64, []string) {
	rng := rand.New(rand.NewSource(seed))
	centers := map[string][]float64{
		"booking":      {3, 0, 0},
		"cancellation": {0, 3, 0},
		"query_price":  {0, 0, 3},
	}

	var features [][]float64
	var labels []string
	for _, class := range []string{"booking", "cancellation", "query_price"} {
		center := centers[class]
		for i := 0; i < perClass; i++ {
			point := make([]float64, len(center))
			for j, c := range center {
				point[j] = c + rng.NormFloat64()*0.3
			}
			features = append(features, point)
			labels = append(labels, class)
		}
	}
	return features, labels
}

func TestTrain_SeparableData(t *testing.T) {
	features, labels := separableClusters(30, 1)

	model, err := Train(features, labels, DefaultTrainConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"booking", "cancellation", "query_price"}, model.Classes)

	preds := model.PredictBatch(features)
	correct := 0
	for i, p := range preds {
		if p == labels[i] {
			correct++
		}
	}
	assert.Equal(t, len(labels), correct, "separable clusters must be fit exactly")
}

func TestTrain_BalancedWeightsHandleSkew(t *testing.T) {
	// 90 vs 6 examples; balanced weighting keeps the rare class from
	// being swamped.
	rng := rand.New(rand.NewSource(2))
	var features [][]float64
	var labels []string
	for i := 0; i < 90; i++ {
		features = append(features, []float64{2 + rng.NormFloat64()*0.2, 0})
		labels = append(labels, "booking")
	}
	for i := 0; i < 6; i++ {
		features = append(features, []float64{-2 + rng.NormFloat64()*0.2, 0})
		labels = append(labels, "cancellation")
	}

	model, err := Train(features, labels, DefaultTrainConfig())
	require.NoError(t, err)

	assert.Equal(t, "cancellation", model.Predict([]float64{-2, 0}))
	assert.Equal(t, "booking", model.Predict([]float64{2, 0}))
}

func TestTrain_SingleClassFails(t *testing.T) {
	_, err := Train([][]float64{{1}, {2}}, []string{"booking", "booking"}, DefaultTrainConfig())
	assert.Error(t, err)
}

func TestTrain_MisalignedInputFails(t *testing.T) {
	_, err := Train([][]float64{{1}}, []string{"a", "b"}, DefaultTrainConfig())
	assert.Error(t, err)
}

func TestPredict_Deterministic(t *testing.T) {
	features, labels := separableClusters(10, 3)
	model, err := Train(features, labels, DefaultTrainConfig())
	require.NoError(t, err)

	p1 := model.Predict(features[0])
	p2 := model.Predict(features[0])
	assert.Equal(t, p1, p2)
}
