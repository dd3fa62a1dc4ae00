package analyzer

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// maxParallel bounds AnalyzeAll fan-out.
const maxParallel = 8

// Result is the outcome of analyzing one text.
type Result struct {
	TextLength  int       `json:"text_length"`
	Modality    string    `json:"modality"`
	Scores      Scores    `json:"scores"`
	Diagnostics *Features `json:"diagnostics,omitempty"`
}

// Brief returns r without diagnostics.
func (r Result) Brief() Result {
	r.Diagnostics = nil
	return r
}

// Analyze extracts features from text and scores every dimension.
// Diagnostics report the average sentence length rounded to one decimal,
// half to even; scoring uses the unrounded value.
func Analyze(text, modality string) Result {
	f := Extract(text)
	scores := Score(f)

	diag := f
	diag.AvgSentenceLength = math.RoundToEven(f.AvgSentenceLength*10) / 10

	return Result{
		TextLength:  f.WordCount,
		Modality:    modality,
		Scores:      scores,
		Diagnostics: &diag,
	}
}

// AnalyzeAll scores independent texts concurrently. Results keep the order
// of texts. It returns early with ctx's error if ctx is cancelled.
func AnalyzeAll(ctx context.Context, texts []string, modality string) ([]Result, error) {
	results := make([]Result, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Analyze(text, modality)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
