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

package component

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/message"
	"github.com/tma-comms/metl/internal/runtime/model"
)

type fakeComponent struct {
	startErr    error
	handleErr   error
	completeErr error
	stopCalls   int
	handled     []bool
	emit        int
}

func (f *fakeComponent) Start(ctx context.Context, compCtx *Context) error {
	return f.startErr
}

func (f *fakeComponent) Handle(ctx context.Context, msg *message.Message, router RouterInterface,
	unitOfWorkBoundary bool) error {
	f.handled = append(f.handled, unitOfWorkBoundary)
	for i := 0; i < f.emit; i++ {
		if err := router.Send(ctx, msg.Copy("fake")); err != nil {
			return err
		}
	}
	return f.handleErr
}

func (f *fakeComponent) FlowCompleted(ctx context.Context) error {
	return f.completeErr
}

func (f *fakeComponent) Stop(ctx context.Context) error {
	f.stopCalls++
	return nil
}

func (f *fakeComponent) SupportsStartupMessages() bool {
	return true
}

type recordingRouter struct {
	messages []*message.Message
}

func (r *recordingRouter) Send(ctx context.Context, msg *message.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

type closingResource struct {
	closed int
}

func (c *closingResource) GetID() string   { return "res" }
func (c *closingResource) GetType() string { return "Datasource" }
func (c *closingResource) Close() error {
	c.closed++
	return nil
}

type RuntimeTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestRuntimeTestSuite(t *testing.T) {
	suite.Run(t, new(RuntimeTestSuite))
}

func (suite *RuntimeTestSuite) SetupTest() {
	suite.ctx = context.Background()
}

func (suite *RuntimeTestSuite) newRuntime(comp ComponentInterface) *Runtime {
	return NewRuntime(comp, &Context{StepID: "step-1", FlowParameters: NewParameters(nil)})
}

func (suite *RuntimeTestSuite) TestFullLifecycle() {
	comp := &fakeComponent{emit: 2}
	rt := suite.newRuntime(comp)
	router := &recordingRouter{}
	suite.Equal(StateCreated, rt.State())

	suite.NoError(rt.Start(suite.ctx))
	suite.Equal(StateStarted, rt.State())

	suite.NoError(rt.Handle(suite.ctx, message.NewMessage("up", nil), router, false))
	suite.NoError(rt.Handle(suite.ctx, message.NewMessage("up", nil), router, true))
	suite.Equal(StateHandling, rt.State())
	suite.Equal([]bool{false, true}, comp.handled)

	suite.NoError(rt.FlowCompleted(suite.ctx))
	suite.Equal(StateCompleted, rt.State())

	suite.NoError(rt.Stop(suite.ctx))
	suite.Equal(StateStopped, rt.State())

	suite.Equal(int64(2), rt.Statistics().InboundMessages)
	suite.Equal(int64(4), rt.Statistics().OutboundMessages)
	suite.Len(router.messages, 4)
}

func (suite *RuntimeTestSuite) TestStartResetsStatistics() {
	rt := suite.newRuntime(&fakeComponent{})
	rt.Statistics().InboundMessages = 7
	suite.NoError(rt.Start(suite.ctx))
	suite.Equal(int64(0), rt.Statistics().InboundMessages)
}

func (suite *RuntimeTestSuite) TestHandleBeforeStartIsIllegal() {
	rt := suite.newRuntime(&fakeComponent{})
	err := rt.Handle(suite.ctx, message.NewMessage("up", nil), &recordingRouter{}, true)
	suite.ErrorIs(err, &constants.ErrorIllegalTransition)
	suite.Equal(StateCreated, rt.State())
}

func (suite *RuntimeTestSuite) TestStartTwiceIsIllegal() {
	rt := suite.newRuntime(&fakeComponent{})
	suite.NoError(rt.Start(suite.ctx))
	suite.ErrorIs(rt.Start(suite.ctx), &constants.ErrorIllegalTransition)
}

func (suite *RuntimeTestSuite) TestHandleAfterCompletedIsIllegal() {
	rt := suite.newRuntime(&fakeComponent{})
	suite.NoError(rt.Start(suite.ctx))
	suite.NoError(rt.FlowCompleted(suite.ctx))
	err := rt.Handle(suite.ctx, message.NewMessage("up", nil), &recordingRouter{}, true)
	suite.ErrorIs(err, &constants.ErrorIllegalTransition)
}

func (suite *RuntimeTestSuite) TestFailedStartCanStillStop() {
	comp := &fakeComponent{startErr: errors.New("boom")}
	rt := suite.newRuntime(comp)
	suite.Error(rt.Start(suite.ctx))
	suite.Equal(StateFailed, rt.State())
	suite.NoError(rt.Stop(suite.ctx))
	suite.Equal(1, comp.stopCalls)
}

func (suite *RuntimeTestSuite) TestHandleFailureMovesToFailed() {
	rt := suite.newRuntime(&fakeComponent{handleErr: errors.New("bad row")})
	suite.NoError(rt.Start(suite.ctx))
	suite.Error(rt.Handle(suite.ctx, message.NewMessage("up", nil), &recordingRouter{}, true))
	suite.Equal(StateFailed, rt.State())
	suite.ErrorIs(rt.FlowCompleted(suite.ctx), &constants.ErrorIllegalTransition)
}

func (suite *RuntimeTestSuite) TestStopIsIdempotentAndClosesResource() {
	comp := &fakeComponent{}
	res := &closingResource{}
	rt := NewRuntime(comp, &Context{StepID: "s", Resource: res})
	suite.NoError(rt.Start(suite.ctx))
	suite.NoError(rt.Stop(suite.ctx))
	suite.NoError(rt.Stop(suite.ctx))
	suite.Equal(1, comp.stopCalls)
	suite.Equal(1, res.closed)
}

func (suite *RuntimeTestSuite) TestBatcherFlagsLastBatch() {
	router := &recordingRouter{}
	b := NewBatcher("src", 2, NewParameters(map[string]string{"a": "1"}), router)
	for i := 0; i < 4; i++ {
		suite.NoError(b.Add(suite.ctx, model.EntityData{"id": i}))
	}
	suite.NoError(b.Flush(suite.ctx, true))

	suite.Len(router.messages, 2)
	suite.False(router.messages[0].Header.UnitOfWorkBoundary)
	suite.True(router.messages[1].Header.UnitOfWorkBoundary)
	suite.Len(router.messages[1].Payload, 2)
	suite.Equal("1", router.messages[1].Header.FlowParameters["a"])
	suite.Equal(2, b.Sent())
}

func (suite *RuntimeTestSuite) TestBatcherSendsEmptyBoundary() {
	router := &recordingRouter{}
	b := NewBatcher("src", 10, nil, router)
	suite.NoError(b.Flush(suite.ctx, false))
	suite.Empty(router.messages)
	suite.NoError(b.Flush(suite.ctx, true))
	suite.Len(router.messages, 1)
	suite.True(router.messages[0].IsControl())
	suite.True(router.messages[0].Header.UnitOfWorkBoundary)
}

func (suite *RuntimeTestSuite) TestRegistry() {
	r := NewRegistry()
	r.Register("Fake", func() ComponentInterface { return &fakeComponent{} })
	comp, err := r.Create("Fake")
	suite.NoError(err)
	suite.NotNil(comp)
	suite.Equal([]string{"Fake"}, r.Types())

	_, err = r.Create("Missing")
	suite.ErrorIs(err, &constants.ErrorUnknownComponentType)
}

func (suite *RuntimeTestSuite) TestParameters() {
	src := map[string]string{"k": "v"}
	p := NewParameters(src)
	src["k"] = "changed"
	v, ok := p.Get("k")
	suite.True(ok)
	suite.Equal("v", v)

	snap := p.Snapshot()
	p.Set("k", "new")
	suite.Equal("v", snap["k"])
	v, _ = p.Get("k")
	suite.Equal("new", v)
}
