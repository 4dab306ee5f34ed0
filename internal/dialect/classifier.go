package dialect

// Classification is the result of scoring evidence for a file.
type Classification struct {
	Kind            Kind
	Score           int
	TotalScore      int
	Confidence      float64
	RunnerUp        Kind
	RunnerUpScore   int
	ObservedSignals int
}

// Classifier scores evidence and chooses the dominant language. Ties go to
// C++, whose rules accept most C declarations.
type Classifier struct{}

func (Classifier) Classify(e *Evidence) Classification {
	if e == nil || len(e.hints) == 0 {
		return Classification{Kind: Unknown}
	}

	var scores [kindCount]int
	total := 0
	observed := 0
	for _, h := range e.hints {
		observed++
		if h.Score <= 0 {
			continue
		}
		if h.Kind <= Unknown || h.Kind >= kindCount {
			continue
		}
		scores[h.Kind] += h.Score
		total += h.Score
	}

	best, runner := CXX, C
	if scores[C] > scores[CXX] {
		best, runner = C, CXX
	}
	if scores[best] == 0 {
		best = Unknown
	}

	conf := 0.0
	if total > 0 {
		conf = float64(scores[best]) / float64(total)
	}

	return Classification{
		Kind:            best,
		Score:           scores[best],
		TotalScore:      total,
		Confidence:      conf,
		RunnerUp:        runner,
		RunnerUpScore:   scores[runner],
		ObservedSignals: observed,
	}
}
