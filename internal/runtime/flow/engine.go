/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package flow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tma-comms/metl/internal/runtime/component"
	"github.com/tma-comms/metl/internal/runtime/message"
	"github.com/tma-comms/metl/internal/runtime/resource"
	"github.com/tma-comms/metl/internal/runtime/resource/factory"
	"github.com/tma-comms/metl/internal/system/log"
	"github.com/tma-comms/metl/internal/system/utils"
)

const (
	tracerName = "github.com/tma-comms/metl/internal/runtime/flow"
	// startupProducerID is the producing step id of startup control messages.
	startupProducerID = "startup"
	inboxSize         = 64
)

// Status is the outcome of a flow run.
type Status string

// Run outcomes.
const (
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// StepResult is the outcome of one step of a run.
type StepResult struct {
	StepID     string
	Name       string
	State      component.State
	Statistics component.Statistics
	Err        error
}

// Result is the outcome of a flow run.
type Result struct {
	FlowID string
	RunID  string
	Status Status
	// Err is the first failure of the run.
	Err error
	// Order lists the step ids in dependency order.
	Order []string
	Steps map[string]*StepResult
}

// Options configures an engine.
type Options struct {
	// WorkDirectory is where steps create files during a run.
	WorkDirectory string
	// RowsPerMessage is the default batch size handed to steps.
	RowsPerMessage int
	// StartupTimeout bounds the start of all steps of a run. Zero means no bound.
	StartupTimeout time.Duration
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// EngineInterface runs flows.
type EngineInterface interface {
	// Run executes the flow once. The returned error is the first failure of the run, which is
	// also recorded in the result.
	Run(ctx context.Context, def *Definition, parameters map[string]string) (*Result, error)
}

// Engine runs every step of a flow on its own goroutine and routes messages along the links.
type Engine struct {
	registry  *component.Registry
	resources factory.ResourceFactoryInterface
	options   Options
	tracer    trace.Tracer
	logger    *log.Logger
}

// NewEngine creates an engine creating components from the registry and resources from the factory.
func NewEngine(registry *component.Registry, resources factory.ResourceFactoryInterface,
	options Options) EngineInterface {
	tp := options.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Engine{
		registry:  registry,
		resources: resources,
		options:   options,
		tracer:    tp.Tracer(tracerName),
		logger:    log.GetLogger().With(log.String(log.LoggerKeyComponentName, "FlowEngine")),
	}
}

// stepRun is the per run state of a step. Everything except inbox is owned by the step goroutine
// while the steps execute.
type stepRun struct {
	step      Step
	runtime   *component.Runtime
	inbox     chan delivery
	targets   []*stepRun
	upstreams int
	sequence  int64
	err       error
}

// delivery is an inbox entry: a message, or the notice that an upstream step finished.
type delivery struct {
	from string
	msg  *message.Message
	done bool
}

// Run executes the flow once.
func (e *Engine) Run(ctx context.Context, def *Definition, parameters map[string]string) (*Result, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	g := newGraph(def)
	order, err := g.order()
	if err != nil {
		return nil, err
	}

	runID := utils.GenerateUUID()
	logger := e.logger.With(log.String(log.LoggerKeyFlowID, def.ID), log.String(log.LoggerKeyRunID, runID))
	ctx, span := e.tracer.Start(ctx, "flow.run", trace.WithAttributes(
		attribute.String("flow.id", def.ID),
		attribute.String("flow.name", def.Name),
		attribute.String("run.id", runID),
	))
	defer span.End()

	result := &Result{
		FlowID: def.ID,
		RunID:  runID,
		Status: StatusCompleted,
		Order:  order,
		Steps:  map[string]*StepResult{},
	}
	params := component.NewParameters(
		utils.MergeStringMaps(utils.DeepCopyMapOfStrings(def.Parameters), parameters))
	logger.Info("Starting flow run", log.String("flow", def.Name), log.Int("steps", len(order)))
	started := time.Now()

	runs, err := e.prepare(def, g, order, runID, params)
	if err == nil {
		err = e.execute(ctx, runs, params, logger)
	}
	if err == nil {
		err = e.complete(ctx, runs)
	}
	e.stopAll(context.WithoutCancel(ctx), runs, logger)

	for _, sr := range runs {
		result.Steps[sr.step.ID] = &StepResult{
			StepID:     sr.step.ID,
			Name:       sr.step.Name,
			State:      sr.runtime.State(),
			Statistics: *sr.runtime.Statistics(),
			Err:        sr.err,
		}
	}
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("Flow run failed", log.Error(err), log.Duration("duration", time.Since(started)))
		return result, err
	}
	span.SetStatus(codes.Ok, "")
	logger.Info("Flow run completed", log.Duration("duration", time.Since(started)))
	return result, nil
}

// prepare creates a fresh component and resource runtime for every step.
func (e *Engine) prepare(def *Definition, g *graph, order []string, runID string,
	params *component.Parameters) ([]*stepRun, error) {
	steps := make(map[string]Step, len(def.Steps))
	for _, s := range def.Steps {
		steps[s.ID] = s
	}

	runs := make([]*stepRun, 0, len(order))
	byID := make(map[string]*stepRun, len(order))
	for _, id := range order {
		step := steps[id]
		comp, err := e.registry.Create(step.Type)
		if err != nil {
			return runs, err
		}
		var res resource.RuntimeInterface
		if step.Resource != "" {
			resDef, _ := def.Resource(step.Resource)
			if res, err = e.resources.Create(resDef); err != nil {
				return runs, err
			}
		}
		outputModel := def.Model(step.OutputModel)
		if outputModel == nil {
			outputModel = def.Model(step.InputModel)
		}
		compCtx := &component.Context{
			FlowID:         def.ID,
			RunID:          runID,
			StepID:         step.ID,
			StepName:       step.Name,
			Definition:     step.ComponentDefinition(),
			InputModel:     def.Model(step.InputModel),
			OutputModel:    outputModel,
			Resource:       res,
			FlowParameters: params,
			WorkDirectory:  e.options.WorkDirectory,
			RowsPerMessage: e.options.RowsPerMessage,
			Statistics:     &component.Statistics{},
		}
		sr := &stepRun{
			step:      step,
			runtime:   component.NewRuntime(comp, compCtx),
			inbox:     make(chan delivery, inboxSize),
			upstreams: len(g.upstreams[id]),
		}
		runs = append(runs, sr)
		byID[id] = sr
	}
	for _, sr := range runs {
		for _, target := range g.edges[sr.step.ID] {
			sr.targets = append(sr.targets, byID[target])
		}
	}
	return runs, nil
}

// execute starts the steps in dependency order and runs them until every step finished or one
// of them failed.
func (e *Engine) execute(ctx context.Context, runs []*stepRun, params *component.Parameters,
	logger *log.Logger) error {
	startCtx := ctx
	if e.options.StartupTimeout > 0 {
		var cancelStart context.CancelFunc
		startCtx, cancelStart = context.WithTimeout(ctx, e.options.StartupTimeout)
		defer cancelStart()
	}
	for _, sr := range runs {
		if err := e.startStep(startCtx, sr); err != nil {
			sr.err = err
			logger.Error("Failed to start step", log.String(log.LoggerKeyStepID, sr.step.ID), log.Error(err))
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once        sync.Once
		firstErr    error
		interrupted atomic.Bool
		wg          sync.WaitGroup
	)
	for _, sr := range runs {
		wg.Add(1)
		go func(sr *stepRun) {
			defer wg.Done()
			err := e.runStep(runCtx, sr, params)
			if err == nil {
				return
			}
			if runCtx.Err() != nil && errors.Is(err, context.Canceled) {
				interrupted.Store(true)
				return
			}
			sr.err = err
			logger.Error("Step failed", log.String(log.LoggerKeyStepID, sr.step.ID), log.Error(err))
			once.Do(func() {
				firstErr = err
				cancel()
			})
		}(sr)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	// A cancellation only fails the run when it cut a step short.
	if interrupted.Load() {
		return ctx.Err()
	}
	return nil
}

func (e *Engine) startStep(ctx context.Context, sr *stepRun) error {
	ctx, span := e.tracer.Start(ctx, "component.start", trace.WithAttributes(
		attribute.String("step.id", sr.step.ID),
		attribute.String("component.type", sr.step.Type),
	))
	defer span.End()
	if err := sr.runtime.Start(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// runStep delivers the inbox to the component. A step without upstreams gets a startup message
// when it supports one. A step whose upstreams all finished without a boundary gets a trailing
// empty boundary message from the last step that sent data.
func (e *Engine) runStep(ctx context.Context, sr *stepRun, params *component.Parameters) error {
	router := &stepRouter{from: sr}

	if sr.upstreams == 0 {
		if sr.runtime.SupportsStartupMessages() {
			msg := message.NewControlMessage(startupProducerID, params.Snapshot())
			if err := sr.runtime.Handle(ctx, msg, router, true); err != nil {
				return err
			}
		}
		return router.finish(ctx)
	}

	remaining := sr.upstreams
	lastBoundary := false
	lastProducer, lastFinished := "", ""
	for remaining > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d := <-sr.inbox:
			if d.done {
				lastFinished = d.from
				remaining--
				continue
			}
			lastProducer = d.from
			boundary := d.msg.Header.UnitOfWorkBoundary && remaining == 1
			if err := sr.runtime.Handle(ctx, d.msg, router, boundary); err != nil {
				return err
			}
			lastBoundary = boundary
		}
	}
	if !lastBoundary {
		if lastProducer == "" {
			lastProducer = lastFinished
		}
		msg := message.NewControlMessage(lastProducer, params.Snapshot())
		if err := sr.runtime.Handle(ctx, msg, router, true); err != nil {
			return err
		}
	}
	return router.finish(ctx)
}

// complete calls FlowCompleted on every step in dependency order, stopping at the first failure.
func (e *Engine) complete(ctx context.Context, runs []*stepRun) error {
	for _, sr := range runs {
		spanCtx, span := e.tracer.Start(ctx, "component.flowCompleted",
			trace.WithAttributes(attribute.String("step.id", sr.step.ID)))
		err := sr.runtime.FlowCompleted(spanCtx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			sr.err = err
		}
		span.End()
		if err != nil {
			return err
		}
	}
	return nil
}

// stopAll stops every step. Stop failures are logged only.
func (e *Engine) stopAll(ctx context.Context, runs []*stepRun, logger *log.Logger) {
	for _, sr := range runs {
		if err := sr.runtime.Stop(ctx); err != nil {
			logger.Warn("Failed to stop step", log.String(log.LoggerKeyStepID, sr.step.ID), log.Error(err))
		}
		stats := sr.runtime.Statistics()
		logger.Info("Step finished", log.String(log.LoggerKeyStepID, sr.step.ID),
			log.String("state", string(sr.runtime.State())),
			log.Int64("inbound", stats.InboundMessages),
			log.Int64("outbound", stats.OutboundMessages),
			log.Int64("entities", stats.EntitiesProcessed))
	}
}

// stepRouter sends the messages of one step to all of its targets. It is used from the step
// goroutine only.
type stepRouter struct {
	from *stepRun
}

// Send numbers the message and delivers it to every target.
func (r *stepRouter) Send(ctx context.Context, msg *message.Message) error {
	r.from.sequence++
	msg.Header.SequenceNumber = r.from.sequence
	for _, target := range r.from.targets {
		if err := deliver(ctx, target, delivery{from: r.from.step.ID, msg: msg}); err != nil {
			return err
		}
	}
	return nil
}

// finish tells every target that this step will send nothing more.
func (r *stepRouter) finish(ctx context.Context) error {
	for _, target := range r.from.targets {
		if err := deliver(ctx, target, delivery{from: r.from.step.ID, done: true}); err != nil {
			return err
		}
	}
	return nil
}

func deliver(ctx context.Context, target *stepRun, d delivery) error {
	select {
	case target.inbox <- d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
