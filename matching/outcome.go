package matching

// Pair is one prediction/ground-truth assignment.
type Pair struct {
	Prediction  int
	GroundTruth int
	IoU         float64
}

// Outcome holds assignment pairs as parallel slices of equal length.
type Outcome struct {
	PredictionIndex  []int
	GroundTruthIndex []int
	IoU              []float64
}

// Len returns the number of pairs.
func (o Outcome) Len() int { return len(o.PredictionIndex) }

// Pair returns the k-th pair.
func (o Outcome) Pair(k int) Pair {
	return Pair{Prediction: o.PredictionIndex[k], GroundTruth: o.GroundTruthIndex[k], IoU: o.IoU[k]}
}

// Filter keeps the pairs whose IoU is at least threshold. The bound is inclusive
// and the input pair order is preserved.
func (o Outcome) Filter(threshold float64) Outcome {
	out := Outcome{
		PredictionIndex:  make([]int, 0, o.Len()),
		GroundTruthIndex: make([]int, 0, o.Len()),
		IoU:              make([]float64, 0, o.Len()),
	}
	for k, iou := range o.IoU {
		if iou >= threshold {
			out.PredictionIndex = append(out.PredictionIndex, o.PredictionIndex[k])
			out.GroundTruthIndex = append(out.GroundTruthIndex, o.GroundTruthIndex[k])
			out.IoU = append(out.IoU, iou)
		}
	}
	return out
}

func emptyOutcome() Outcome {
	return Outcome{PredictionIndex: []int{}, GroundTruthIndex: []int{}, IoU: []float64{}}
}
