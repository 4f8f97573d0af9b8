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

	"github.com/tma-comms/metl/internal/runtime/component"
	"github.com/tma-comms/metl/internal/runtime/message"
	"github.com/tma-comms/metl/internal/runtime/model"
)

// sourceComponent emits rows of the first output entity when it receives a startup message.
// With wait.start set, Start blocks until its context ends. afterHandle runs once the rows are sent.
type sourceComponent struct {
	compCtx     *component.Context
	rows        int
	batch       int
	flag        bool
	afterHandle func()
}

func (s *sourceComponent) Start(ctx context.Context, compCtx *component.Context) error {
	s.compCtx = compCtx
	var err error
	if s.rows, err = compCtx.Definition.Settings.GetInt("rows", 0); err != nil {
		return err
	}
	if s.batch, err = compCtx.Definition.Settings.GetInt("batch", 100); err != nil {
		return err
	}
	if s.flag, err = compCtx.Definition.Settings.GetBool("boundary", true); err != nil {
		return err
	}
	if compCtx.Definition.Settings.GetString("fail.start", "") != "" {
		return errors.New("source failed to start")
	}
	if compCtx.Definition.Settings.GetString("wait.start", "") != "" {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (s *sourceComponent) Handle(ctx context.Context, msg *message.Message, router component.RouterInterface,
	unitOfWorkBoundary bool) error {
	entity := s.compCtx.OutputModel.Entities[0]
	batcher := component.NewBatcher(s.compCtx.StepID, s.batch, s.compCtx.FlowParameters, router)
	for i := 1; i <= s.rows; i++ {
		data := model.EntityData{}
		for _, a := range entity.Attributes {
			if a.PK {
				data[a.ID] = i
			} else {
				data[a.ID] = i * 10
			}
		}
		if err := batcher.Add(ctx, data); err != nil {
			return err
		}
	}
	if err := batcher.Flush(ctx, s.flag); err != nil {
		return err
	}
	if s.afterHandle != nil {
		s.afterHandle()
	}
	return nil
}

func (s *sourceComponent) FlowCompleted(ctx context.Context) error { return nil }
func (s *sourceComponent) Stop(ctx context.Context) error          { return nil }
func (s *sourceComponent) SupportsStartupMessages() bool           { return true }

// handled is one Handle call seen by a probe.
type handled struct {
	step     string
	msg      *message.Message
	boundary bool
}

// probe collects what the probe components of a run observe.
type probe struct {
	mu        sync.Mutex
	handled   []handled
	completed []string
	stopped   []string
}

func (p *probe) calls(step string) []handled {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []handled
	for _, h := range p.handled {
		if h.step == step {
			out = append(out, h)
		}
	}
	return out
}

func (p *probe) completedSteps() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.completed...)
}

func (p *probe) stoppedSteps() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.stopped...)
}

// probeComponent records its calls and forwards every message. Settings can make it fail.
type probeComponent struct {
	probe   *probe
	compCtx *component.Context
}

func (c *probeComponent) Start(ctx context.Context, compCtx *component.Context) error {
	c.compCtx = compCtx
	if compCtx.Definition.Settings.GetString("fail.start", "") != "" {
		return errors.New("probe failed to start")
	}
	return nil
}

func (c *probeComponent) Handle(ctx context.Context, msg *message.Message, router component.RouterInterface,
	unitOfWorkBoundary bool) error {
	c.probe.mu.Lock()
	c.probe.handled = append(c.probe.handled, handled{c.compCtx.StepID, msg, unitOfWorkBoundary})
	c.probe.mu.Unlock()

	if c.compCtx.Definition.Settings.GetString("fail.handle", "") != "" {
		return errors.New("probe failed to handle")
	}
	c.compCtx.Statistics.IncrementEntitiesProcessed(int64(len(msg.Payload)))
	out := msg.Copy(c.compCtx.StepID)
	out.Header.UnitOfWorkBoundary = unitOfWorkBoundary
	return router.Send(ctx, out)
}

func (c *probeComponent) FlowCompleted(ctx context.Context) error {
	c.probe.mu.Lock()
	c.probe.completed = append(c.probe.completed, c.compCtx.StepID)
	c.probe.mu.Unlock()
	if c.compCtx.Definition.Settings.GetString("fail.complete", "") != "" {
		return errors.New("probe failed to complete")
	}
	return nil
}

func (c *probeComponent) Stop(ctx context.Context) error {
	if c.compCtx == nil {
		return nil
	}
	c.probe.mu.Lock()
	defer c.probe.mu.Unlock()
	c.probe.stopped = append(c.probe.stopped, c.compCtx.StepID)
	return nil
}

func (c *probeComponent) SupportsStartupMessages() bool {
	return false
}

func registerTestComponents(registry *component.Registry, p *probe) {
	registry.Register("Source", func() component.ComponentInterface { return &sourceComponent{} })
	registry.Register("Probe", func() component.ComponentInterface { return &probeComponent{probe: p} })
}
