// Package metrics measures sampled responses: step characteristics of a
// finished trajectory, and running [dynamo.Metric] values observed while a
// simulation runs.
package metrics
