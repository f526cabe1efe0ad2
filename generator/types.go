package generator

import "time"

// Draft is the final tutorial produced by a run.
type Draft struct {
	Title    string
	Digest   string
	Markdown string
}

// Observation is the output of one tool call made on behalf of a task.
type Observation struct {
	Tool   string
	Input  string
	Output string
}

// TaskOutput records what one agent produced for one task.
type TaskOutput struct {
	Agent        string
	Description  string
	Raw          string
	Observations []Observation
	Duration     time.Duration
}

// CrewOutput is the result of a sequential kickoff. Raw is the output of
// the last task.
type CrewOutput struct {
	Raw   string
	Tasks []TaskOutput
}
