package pipeline

import "fmt"

// Stage is a state of one pipeline run.
type Stage int

const (
	StageIdle Stage = iota
	StageFetching
	StageAnalyzing
	StagePromptBuilding
	StageGenerating
	StageParsing
	StageWriting
	StageDone
	StageFailed
)

var stageNames = [...]string{
	StageIdle:           "idle",
	StageFetching:       "fetching",
	StageAnalyzing:      "analyzing",
	StagePromptBuilding: "prompt building",
	StageGenerating:     "generating",
	StageParsing:        "parsing",
	StageWriting:        "writing",
	StageDone:           "done",
	StageFailed:         "failed",
}

var stageLabels = [...]string{
	StageFetching:       "Fetching page",
	StageAnalyzing:      "Analyzing structure",
	StagePromptBuilding: "Building prompt",
	StageGenerating:     "Generating layout",
	StageParsing:        "Parsing response",
	StageWriting:        "Writing files",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Label is the progress text shown while s runs.
func (s Stage) Label() string {
	if s < 0 || int(s) >= len(stageLabels) || stageLabels[s] == "" {
		return s.String()
	}
	return stageLabels[s]
}

// Terminal reports whether no transition leaves s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// StageError wraps the failure of one stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
