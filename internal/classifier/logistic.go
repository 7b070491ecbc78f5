package classifier

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// TrainConfig controls the logistic regression fit.
type TrainConfig struct {
	MaxIter      int     // iteration cap; generous so separable embedding features converge
	LearningRate float64 // gradient step size
	Tolerance    float64 // stop when the max absolute gradient entry falls below this
	L2           float64 // ridge penalty on non-bias weights
}

// DefaultTrainConfig mirrors the generous-iteration, balanced-weight
// setup the classifiers were tuned with.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		MaxIter:      2000,
		LearningRate: 0.5,
		Tolerance:    1e-6,
		L2:           1e-4,
	}
}

// LogisticRegression is a multinomial (softmax) classifier. Weights is
// classes x (features+1); the last column is the bias term. The struct
// is JSON-serializable for artifact persistence.
type LogisticRegression struct {
	Classes []string    `json:"classes"`
	Weights [][]float64 `json:"weights"`
}

// Train fits a softmax regression with class-balanced sample weights
// (n / (classes * classCount)) by full-batch gradient descent.
func Train(features [][]float64, labels []string, cfg TrainConfig) (*LogisticRegression, error) {
	n := len(features)
	if n == 0 || n != len(labels) {
		return nil, fmt.Errorf("features (%d) and labels (%d) must be non-empty and aligned", n, len(labels))
	}
	d := len(features[0])

	classes, classIndex := indexClasses(labels)
	k := len(classes)
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", k)
	}

	// Design matrix with a trailing bias column.
	x := mat.NewDense(n, d+1, nil)
	for i, row := range features {
		if len(row) != d {
			return nil, fmt.Errorf("feature row %d has %d values, expected %d", i, len(row), d)
		}
		for j, v := range row {
			x.Set(i, j, v)
		}
		x.Set(i, d, 1)
	}

	y := make([]int, n)
	counts := make([]float64, k)
	for i, label := range labels {
		y[i] = classIndex[label]
		counts[y[i]]++
	}

	// Balanced weighting counters label skew: each class contributes
	// equally to the loss regardless of its frequency.
	sampleWeight := make([]float64, n)
	for i := range sampleWeight {
		sampleWeight[i] = float64(n) / (float64(k) * counts[y[i]])
	}

	w := mat.NewDense(k, d+1, nil)
	z := mat.NewDense(n, k, nil)
	grad := mat.NewDense(k, d+1, nil)

	for iter := 0; iter < cfg.MaxIter; iter++ {
		z.Mul(x, w.T())
		softmaxRows(z)

		// z now holds probabilities; turn it into the weighted
		// residual (p - onehot(y)) scaled per sample.
		for i := 0; i < n; i++ {
			for c := 0; c < k; c++ {
				r := z.At(i, c)
				if c == y[i] {
					r -= 1
				}
				z.Set(i, c, r*sampleWeight[i]/float64(n))
			}
		}

		grad.Mul(z.T(), x)
		if cfg.L2 > 0 {
			for c := 0; c < k; c++ {
				for j := 0; j < d; j++ { // bias column excluded from the penalty
					grad.Set(c, j, grad.At(c, j)+cfg.L2*w.At(c, j)/float64(n))
				}
			}
		}

		if maxAbs(grad) < cfg.Tolerance {
			break
		}

		grad.Scale(cfg.LearningRate, grad)
		w.Sub(w, grad)
	}

	weights := make([][]float64, k)
	for c := 0; c < k; c++ {
		weights[c] = mat.Row(nil, c, w)
	}
	return &LogisticRegression{Classes: classes, Weights: weights}, nil
}

// Predict returns the most probable class for one feature vector.
func (m *LogisticRegression) Predict(features []float64) string {
	best, bestScore := 0, math.Inf(-1)
	for c, row := range m.Weights {
		score := row[len(row)-1] // bias
		for j, v := range features {
			score += row[j] * v
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return m.Classes[best]
}

// PredictBatch predicts a class per feature row, order-aligned.
func (m *LogisticRegression) PredictBatch(features [][]float64) []string {
	out := make([]string, len(features))
	for i, row := range features {
		out[i] = m.Predict(row)
	}
	return out
}

func indexClasses(labels []string) ([]string, map[string]int) {
	set := make(map[string]struct{})
	for _, l := range labels {
		set[l] = struct{}{}
	}
	classes := make([]string, 0, len(set))
	for l := range set {
		classes = append(classes, l)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return classes, index
}

// softmaxRows replaces each row of z with its softmax, shifted by the
// row max for numerical stability.
func softmaxRows(z *mat.Dense) {
	rows, cols := z.Dims()
	for i := 0; i < rows; i++ {
		rowMax := math.Inf(-1)
		for c := 0; c < cols; c++ {
			rowMax = math.Max(rowMax, z.At(i, c))
		}
		sum := 0.0
		for c := 0; c < cols; c++ {
			e := math.Exp(z.At(i, c) - rowMax)
			z.Set(i, c, e)
			sum += e
		}
		for c := 0; c < cols; c++ {
			z.Set(i, c, z.At(i, c)/sum)
		}
	}
}

func maxAbs(m *mat.Dense) float64 {
	rows, cols := m.Dims()
	largest := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			largest = math.Max(largest, math.Abs(m.At(i, j)))
		}
	}
	return largest
}
