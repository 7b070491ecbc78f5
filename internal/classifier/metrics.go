package classifier

import (
	"fmt"
	"sort"
	"strings"
)

// ClassMetrics holds per-class evaluation numbers on a held-out split.
type ClassMetrics struct {
	Class     string  `json:"class"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report is a classification report: per-class precision/recall/F1
// plus macro averages and overall accuracy. Diagnostic only; it never
// gates model saving.
type Report struct {
	PerClass       []ClassMetrics `json:"per_class"`
	MacroPrecision float64        `json:"macro_precision"`
	MacroRecall    float64        `json:"macro_recall"`
	MacroF1        float64        `json:"macro_f1"`
	Accuracy       float64        `json:"accuracy"`
}

// Evaluate computes a classification report from aligned true and
// predicted labels.
func Evaluate(yTrue, yPred []string) *Report {
	classes := make(map[string]struct{})
	tp := make(map[string]int)
	fp := make(map[string]int)
	fn := make(map[string]int)
	support := make(map[string]int)
	correct := 0

	for i, truth := range yTrue {
		pred := yPred[i]
		classes[truth] = struct{}{}
		classes[pred] = struct{}{}
		support[truth]++
		if pred == truth {
			tp[truth]++
			correct++
		} else {
			fp[pred]++
			fn[truth]++
		}
	}

	names := make([]string, 0, len(classes))
	for c := range classes {
		names = append(names, c)
	}
	sort.Strings(names)

	report := &Report{}
	for _, c := range names {
		precision := safeDiv(float64(tp[c]), float64(tp[c]+fp[c]))
		recall := safeDiv(float64(tp[c]), float64(tp[c]+fn[c]))
		f1 := safeDiv(2*precision*recall, precision+recall)

		report.PerClass = append(report.PerClass, ClassMetrics{
			Class:     c,
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support[c],
		})
		report.MacroPrecision += precision
		report.MacroRecall += recall
		report.MacroF1 += f1
	}

	n := float64(len(names))
	report.MacroPrecision /= n
	report.MacroRecall /= n
	report.MacroF1 /= n
	if len(yTrue) > 0 {
		report.Accuracy = float64(correct) / float64(len(yTrue))
	}
	return report
}

// String renders the report as a fixed-width table.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-28s %9s %9s %9s %9s\n", "", "precision", "recall", "f1", "support")
	for _, m := range r.PerClass {
		fmt.Fprintf(&b, "%-28s %9.2f %9.2f %9.2f %9d\n", m.Class, m.Precision, m.Recall, m.F1, m.Support)
	}
	fmt.Fprintf(&b, "%-28s %9.2f %9.2f %9.2f\n", "macro avg", r.MacroPrecision, r.MacroRecall, r.MacroF1)
	fmt.Fprintf(&b, "%-28s %9.2f\n", "accuracy", r.Accuracy)
	return b.String()
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
