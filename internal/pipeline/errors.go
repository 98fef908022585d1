package pipeline

import (
	"errors"
	"fmt"
)

// Stage names the step of a generation request that failed
type Stage string

const (
	StageInput       Stage = "input"
	StageTrends      Stage = "trends"
	StageScrape      Stage = "scrape"
	StageSynthesize  Stage = "synthesize"
	StageMerge       Stage = "merge"
	StageAnalyze     Stage = "analyze"
	StageInstantiate Stage = "instantiate"
	StageFeatures    Stage = "features"
)

var (
	ErrEmptyPrompt         = errors.New("prompt is empty")
	ErrNoReferenceURLs     = errors.New("no reference URLs configured")
	ErrMissingFeatureFiles = errors.New("feature has no template files")
)

// GenerationError wraps the failure of one stage of a request
type GenerationError struct {
	Stage     Stage
	RequestID string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s failed at %s: %v", e.RequestID, e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// StageOf returns the failed stage when err is a GenerationError
func StageOf(err error) (Stage, bool) {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Stage, true
	}
	return "", false
}
