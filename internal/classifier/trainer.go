package classifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/velvetcrest/salon-rag/internal/embedding"
)

// Embedder batch-encodes texts into the feature space the classifiers
// are fit over.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// TrainResult summarizes one training run.
type TrainResult struct {
	TrainSize       int
	TestSize        int
	DroppedMissing  int
	DroppedUnmapped int
	Intents         []string
	IntentReport    *Report
	ServiceReport   *Report
}

// Trainer runs the offline dual-classifier training job.
type Trainer struct {
	embedder Embedder
	logger   *slog.Logger
}

// NewTrainer creates a trainer over the given embedder.
func NewTrainer(embedder Embedder, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{
		embedder: embedder,
		logger:   logger,
	}
}

// Run loads the labeled dataset, splits it 80/20 stratified by intent
// with a fixed seed, encodes both splits, fits the intent and item
// classifiers, logs held-out reports and persists the artifacts to
// modelDir.
func (t *Trainer) Run(ctx context.Context, datasetPath, modelDir string) (*TrainResult, error) {
	ds, err := LoadDataset(datasetPath)
	if err != nil {
		return nil, err
	}
	t.logger.Info("Loaded dataset",
		"rows", len(ds.Texts),
		"dropped_missing", ds.DroppedMissing,
		"dropped_unmapped", ds.DroppedUnmapped,
	)

	intents := ds.DistinctIntents()
	if len(intents) < 2 {
		return nil, fmt.Errorf("%w: found %v", ErrTooFewIntents, intents)
	}

	split := StratifiedSplit(ds, 0.2, 42)
	t.logger.Info("Split dataset", "train", len(split.TrainTexts), "test", len(split.TestTexts))

	t.logger.Info("Encoding train texts", "count", len(split.TrainTexts))
	trainFeatures, err := t.encode(ctx, split.TrainTexts)
	if err != nil {
		return nil, fmt.Errorf("encode train texts: %w", err)
	}
	t.logger.Info("Encoding test texts", "count", len(split.TestTexts))
	testFeatures, err := t.encode(ctx, split.TestTexts)
	if err != nil {
		return nil, fmt.Errorf("encode test texts: %w", err)
	}

	cfg := DefaultTrainConfig()

	t.logger.Info("Training intent classifier", "classes", len(intents))
	intentModel, err := Train(trainFeatures, split.TrainIntents, cfg)
	if err != nil {
		return nil, fmt.Errorf("train intent classifier: %w", err)
	}
	intentReport := Evaluate(split.TestIntents, intentModel.PredictBatch(testFeatures))
	t.logger.Info("Intent classifier evaluated", "macro_f1", intentReport.MacroF1, "accuracy", intentReport.Accuracy)
	fmt.Println("=== Intent classification report ===")
	fmt.Println(intentReport)

	t.logger.Info("Training service classifier")
	serviceModel, err := Train(trainFeatures, split.TrainItems, cfg)
	if err != nil {
		return nil, fmt.Errorf("train service classifier: %w", err)
	}
	serviceReport := Evaluate(split.TestItems, serviceModel.PredictBatch(testFeatures))
	t.logger.Info("Service classifier evaluated", "macro_f1", serviceReport.MacroF1, "accuracy", serviceReport.Accuracy)
	fmt.Println("=== Service ID classification report ===")
	fmt.Println(serviceReport)

	ref := EmbedderRef{Model: embedding.Model, Dimension: embedding.Dimension}
	if err := SaveArtifacts(modelDir, intentModel, serviceModel, ref); err != nil {
		return nil, err
	}
	t.logger.Info("Saved model artifacts", "dir", modelDir)

	return &TrainResult{
		TrainSize:       len(split.TrainTexts),
		TestSize:        len(split.TestTexts),
		DroppedMissing:  ds.DroppedMissing,
		DroppedUnmapped: ds.DroppedUnmapped,
		Intents:         intents,
		IntentReport:    intentReport,
		ServiceReport:   serviceReport,
	}, nil
}

func (t *Trainer) encode(ctx context.Context, texts []string) ([][]float64, error) {
	vectors, err := t.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		row := make([]float64, len(v))
		for j, f := range v {
			row[j] = float64(f)
		}
		out[i] = row
	}
	return out, nil
}
