package site

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mAKEkr/blog-advance/internal/logfields"
	"github.com/mAKEkr/blog-advance/internal/metrics"
)

// StageName identifies a build stage.
type StageName string

// Build stages, in execution order.
const (
	StageLoad       StageName = "load"
	StageClassify   StageName = "classify"
	StagePermalinks StageName = "permalinks"
	StageReady      StageName = "ready"
	StageModules    StageName = "modules"
	StageManifest   StageName = "manifest"
	StageGenerated  StageName = "generated"
)

// StageErrorKind classifies the outcome of a failed stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"
	StageErrorCanceled StageErrorKind = "canceled"
)

// StageError is a stage failure carrying its kind and cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Stage is one unit of work in a build.
type Stage func(ctx context.Context, bs *buildState) error

// StageDef pairs a stage name with its function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{defs: make([]StageDef, 0, 8)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.defs = append(p.defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddIf appends a stage only if cond is true.
func (p *Pipeline) AddIf(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		p.Add(name, fn)
	}
	return p
}

// Build returns a copy of the stage definitions.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.defs))
	copy(out, p.defs)
	return out
}

// runStages executes stages in order, recording timing and stopping at the
// first error.
func runStages(ctx context.Context, bs *buildState, stages []StageDef) error {
	rec := bs.recorder
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := &StageError{Kind: StageErrorCanceled, Stage: st.Name, Err: err}
			rec.IncStageResult(string(st.Name), metrics.ResultCanceled)
			bs.report.recordStage(st.Name, 0, metrics.ResultCanceled)
			return se
		}

		log := bs.logger.With(logfields.Stage(string(st.Name)))
		log.Debug("Stage started")

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		rec.ObserveStageDuration(string(st.Name), dur)

		if err != nil {
			kind, result := StageErrorFatal, metrics.ResultFatal
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				kind, result = StageErrorCanceled, metrics.ResultCanceled
			}
			rec.IncStageResult(string(st.Name), result)
			bs.report.recordStage(st.Name, dur, result)
			log.Error("Stage failed", logfields.DurationMS(msec(dur)), logfields.Error(err))
			return &StageError{Kind: kind, Stage: st.Name, Err: err}
		}

		rec.IncStageResult(string(st.Name), metrics.ResultSuccess)
		bs.report.recordStage(st.Name, dur, metrics.ResultSuccess)
		log.Debug("Stage completed", logfields.DurationMS(msec(dur)))
	}
	return nil
}

func msec(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
