package router_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	llmmock "github.com/KirkDiggler/rpg-dialogue/internal/llm/mock"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm/router"
)

type RouterTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	ctx  context.Context
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
}

func (s *RouterTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RouterTestSuite) provider(name string, priority int, interval time.Duration) *llmmock.MockProvider {
	p := llmmock.NewMockProvider(s.ctrl)
	p.EXPECT().Name().Return(name).AnyTimes()
	p.EXPECT().Priority().Return(priority).AnyTimes()
	p.EXPECT().Model().Return(name + "-model").AnyTimes()
	p.EXPECT().ProbeInterval().Return(interval).AnyTimes()
	return p
}

func (s *RouterTestSuite) newRouter(providers ...llm.Provider) router.Service {
	r, err := router.New(&router.Config{
		Providers:    providers,
		RetryDelay:   time.Millisecond,
		ProbeTimeout: time.Second,
	})
	s.Require().NoError(err)
	return r
}

func (s *RouterTestSuite) request() *llm.Request {
	req := llm.NewRequest("You are a lord.", llm.Message{Role: llm.RoleUser, Content: "Follow me"})
	req.Timeout = 2 * time.Second
	return req
}

func ok(content string) *llm.Result {
	return &llm.Result{Success: true, Content: content}
}

func (s *RouterTestSuite) TestOnlyThirdAvailable() {
	first := s.provider("LMStudio", 0, time.Minute)
	second := s.provider("Ollama", 1, time.Minute)
	third := s.provider("API", 2, time.Minute)

	first.EXPECT().Probe(gomock.Any()).Return(errors.Unavailable("connection refused")).Times(1)
	second.EXPECT().Probe(gomock.Any()).Return(errors.Unavailable("connection refused")).Times(1)
	third.EXPECT().Probe(gomock.Any()).Return(nil).Times(1)
	third.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(ok("Lead the way."), nil).Times(2)

	r := s.newRouter(first, second, third)

	for i := 0; i < 2; i++ {
		res, err := r.Generate(s.ctx, s.request())
		s.Require().NoError(err)
		s.True(res.Success)
		s.False(res.IsFallback)
		s.Equal("API", res.Provider)
		s.Equal("API-model", res.Model)
		s.Equal("Lead the way.", res.Content)
	}
}

func (s *RouterTestSuite) TestNoneAvailableFallsBack() {
	first := s.provider("LMStudio", 0, time.Minute)
	second := s.provider("Ollama", 1, time.Minute)
	first.EXPECT().Probe(gomock.Any()).Return(errors.Unavailable("down"))
	second.EXPECT().Probe(gomock.Any()).Return(errors.Unavailable("down"))

	r := s.newRouter(first, second)

	res, err := r.Generate(s.ctx, s.request())
	s.Require().NoError(err)
	s.True(res.IsFallback)
	s.True(res.Success)
	s.NotEmpty(res.Content)
	s.Equal(llm.FallbackProvider, res.Provider)
	s.Contains(router.FallbackTexts(router.CategoryError), res.Content)
}

func (s *RouterTestSuite) TestNoProvidersConfigured() {
	r := s.newRouter()

	res, err := r.Generate(s.ctx, s.request())
	s.Require().NoError(err)
	s.True(res.IsFallback)
	s.Contains(router.FallbackTexts(router.CategoryNoProvider), res.Content)
}

func (s *RouterTestSuite) TestPreferredTriedFirst() {
	first := s.provider("LMStudio", 0, time.Minute)
	second := s.provider("Ollama", 1, time.Minute)
	second.EXPECT().Probe(gomock.Any()).Return(nil)
	second.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(ok("Aye."), nil)

	r := s.newRouter(first, second)
	s.Require().NoError(r.SetPreferred("ollama"))
	s.Equal("Ollama", r.Preferred())

	res, err := r.Generate(s.ctx, s.request())
	s.Require().NoError(err)
	s.Equal("Ollama", res.Provider)
}

func (s *RouterTestSuite) TestSetPreferred() {
	r := s.newRouter(s.provider("LMStudio", 0, time.Minute))

	err := r.SetPreferred("nope")
	s.True(errors.IsNotFound(err))

	s.Require().NoError(r.SetPreferred("LMSTUDIO"))
	s.Equal("LMStudio", r.Preferred())

	s.Require().NoError(r.SetPreferred(""))
	s.Empty(r.Preferred())
}

func (s *RouterTestSuite) TestGenerationFailureTriesNext() {
	first := s.provider("LMStudio", 0, time.Minute)
	second := s.provider("Ollama", 1, time.Minute)
	first.EXPECT().Probe(gomock.Any()).Return(nil)
	first.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, errors.Internal("bad gateway"))
	second.EXPECT().Probe(gomock.Any()).Return(nil)
	second.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(ok("Very well."), nil)

	r := s.newRouter(first, second)

	res, err := r.Generate(s.ctx, s.request())
	s.Require().NoError(err)
	s.Equal("Ollama", res.Provider)
}

func (s *RouterTestSuite) TestBackendPanicTriesNext() {
	first := s.provider("LMStudio", 0, time.Minute)
	second := s.provider("Ollama", 1, time.Minute)
	first.EXPECT().Probe(gomock.Any()).Return(nil)
	first.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *llm.Request) (*llm.Result, error) {
			panic("slice bounds out of range")
		})
	second.EXPECT().Probe(gomock.Any()).Return(nil)
	second.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(ok("As you wish."), nil)

	res, err := s.newRouter(first, second).Generate(s.ctx, s.request())
	s.Require().NoError(err)
	s.Equal("Ollama", res.Provider)
}

func (s *RouterTestSuite) TestUnsuccessfulResultTriesNext() {
	first := s.provider("LMStudio", 0, time.Minute)
	second := s.provider("Ollama", 1, time.Minute)
	first.EXPECT().Probe(gomock.Any()).Return(nil)
	first.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(&llm.Result{Error: "empty"}, nil)
	second.EXPECT().Probe(gomock.Any()).Return(nil)
	second.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(ok("Hm."), nil)

	res, err := s.newRouter(first, second).Generate(s.ctx, s.request())
	s.Require().NoError(err)
	s.Equal("Ollama", res.Provider)
}

func (s *RouterTestSuite) TestTimeoutUsesTimeoutPool() {
	slow := s.provider("Ollama", 0, time.Minute)
	slow.EXPECT().Probe(gomock.Any()).Return(nil)
	slow.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ *llm.Request) (*llm.Result, error) {
			<-ctx.Done()
			return nil, errors.FromContext(ctx.Err(), "request timed out")
		})

	req := s.request()
	req.Timeout = 50 * time.Millisecond

	start := time.Now()
	res, err := s.newRouter(slow).Generate(s.ctx, req)
	s.Require().NoError(err)
	s.Less(time.Since(start), 2*time.Second)
	s.True(res.IsFallback)
	s.Contains(router.FallbackTexts(router.CategoryTimeout), res.Content)
}

func (s *RouterTestSuite) TestBackendIgnoringDeadlineDoesNotBlock() {
	release := make(chan struct{})
	defer close(release)

	stuck := s.provider("Ollama", 0, time.Minute)
	stuck.EXPECT().Probe(gomock.Any()).Return(nil)
	stuck.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *llm.Request) (*llm.Result, error) {
			<-release
			return ok("too late"), nil
		})

	req := s.request()
	req.Timeout = 50 * time.Millisecond

	start := time.Now()
	res, err := s.newRouter(stuck).Generate(s.ctx, req)
	s.Require().NoError(err)
	s.Less(time.Since(start), 2*time.Second)
	s.True(res.IsFallback)
}

func (s *RouterTestSuite) TestSlowProbesStayWithinRequestTimeout() {
	waitForCtx := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	first := s.provider("LMStudio", 0, time.Minute)
	second := s.provider("Ollama", 1, time.Minute)
	third := s.provider("API", 2, time.Minute)
	first.EXPECT().Probe(gomock.Any()).DoAndReturn(waitForCtx)
	second.EXPECT().Probe(gomock.Any()).DoAndReturn(waitForCtx).AnyTimes()
	third.EXPECT().Probe(gomock.Any()).DoAndReturn(waitForCtx).AnyTimes()

	req := s.request()
	req.Timeout = 200 * time.Millisecond

	start := time.Now()
	res, err := s.newRouter(first, second, third).Generate(s.ctx, req)
	s.Require().NoError(err)
	s.Less(time.Since(start), 900*time.Millisecond)
	s.True(res.IsFallback)
	s.Contains(router.FallbackTexts(router.CategoryTimeout), res.Content)
}

func (s *RouterTestSuite) TestProbeIgnoringDeadlineDoesNotBlock() {
	release := make(chan struct{})
	defer close(release)

	stuck := s.provider("LMStudio", 0, time.Minute)
	stuck.EXPECT().Probe(gomock.Any()).DoAndReturn(func(context.Context) error {
		<-release
		return nil
	})

	req := s.request()
	req.Timeout = 100 * time.Millisecond

	start := time.Now()
	res, err := s.newRouter(stuck).Generate(s.ctx, req)
	s.Require().NoError(err)
	s.Less(time.Since(start), 900*time.Millisecond)
	s.True(res.IsFallback)
}

func (s *RouterTestSuite) TestCanceledBeforeStart() {
	p := s.provider("Ollama", 0, time.Minute)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	res, err := s.newRouter(p).Generate(ctx, s.request())
	s.Nil(res)
	s.True(errors.IsCanceled(err))
}

func (s *RouterTestSuite) TestCanceledMidFlight() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	p := s.provider("Ollama", 0, time.Minute)
	p.EXPECT().Probe(gomock.Any()).Return(nil)
	p.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(actx context.Context, _ *llm.Request) (*llm.Result, error) {
			cancel()
			<-actx.Done()
			return nil, errors.FromContext(actx.Err(), "canceled")
		})

	res, err := s.newRouter(p).Generate(ctx, s.request())
	s.Nil(res)
	s.True(errors.IsCanceled(err))
}

func (s *RouterTestSuite) TestRetryRecoversFromOutage() {
	p := s.provider("Ollama", 0, 0)
	gomock.InOrder(
		p.EXPECT().Probe(gomock.Any()).Return(errors.Unavailable("starting")),
		p.EXPECT().Probe(gomock.Any()).Return(nil),
	)
	p.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(ok("I'm back."), nil)

	res, err := s.newRouter(p).GenerateWithRetry(s.ctx, s.request(), 2)
	s.Require().NoError(err)
	s.False(res.IsFallback)
	s.Equal("I'm back.", res.Content)
}

func (s *RouterTestSuite) TestRetryExhaustedReturnsFallback() {
	p := s.provider("Ollama", 0, 0)
	p.EXPECT().Probe(gomock.Any()).Return(errors.Unavailable("down")).Times(3)

	res, err := s.newRouter(p).GenerateWithRetry(s.ctx, s.request(), 2)
	s.Require().NoError(err)
	s.True(res.IsFallback)
}

func (s *RouterTestSuite) TestRetryCanceledDuringBackoff() {
	p := s.provider("Ollama", 0, 0)
	p.EXPECT().Probe(gomock.Any()).Return(errors.Unavailable("down"))

	r, err := router.New(&router.Config{Providers: []llm.Provider{p}, RetryDelay: time.Hour})
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(s.ctx, 50*time.Millisecond)
	defer cancel()

	_, err = r.GenerateWithRetry(ctx, s.request(), 3)
	s.True(errors.IsDeadlineExceeded(err))
}

func (s *RouterTestSuite) TestUnavailableErrorMarksBackendDown() {
	p := s.provider("Ollama", 0, time.Minute)
	p.EXPECT().Probe(gomock.Any()).Return(nil)
	p.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailable("connection reset"))

	r := s.newRouter(p)
	_, err := r.Generate(s.ctx, s.request())
	s.Require().NoError(err)

	status := r.Status(s.ctx)
	s.Require().Len(status, 1)
	s.Equal(llm.StateUnavailable, status[0].State)
	s.Contains(status[0].LastError, "connection reset")
}

func (s *RouterTestSuite) TestStatusAndRefresh() {
	first := s.provider("Ollama", 1, time.Minute)
	second := s.provider("LMStudio", 0, time.Minute)
	first.EXPECT().Probe(gomock.Any()).Return(nil)
	second.EXPECT().Probe(gomock.Any()).Return(errors.Unavailable("down"))

	r := s.newRouter(first, second)

	before := r.Status(s.ctx)
	s.Require().Len(before, 2)
	s.Equal("LMStudio", before[0].Name)
	s.Equal(llm.StateUnknown, before[0].State)

	r.RefreshAvailability(s.ctx)
	s.Require().NoError(r.SetPreferred("ollama"))

	after := r.Status(s.ctx)
	s.Equal(llm.StateUnavailable, after[0].State)
	s.Equal(llm.StateAvailable, after[1].State)
	s.True(after[1].Preferred)
	s.False(after[0].Preferred)
}

func (s *RouterTestSuite) TestValidateRejectsDuplicates() {
	a := s.provider("Ollama", 0, time.Minute)
	b := s.provider("ollama", 1, time.Minute)

	_, err := router.New(&router.Config{Providers: []llm.Provider{a, b}})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RouterTestSuite) TestNilRequest() {
	_, err := s.newRouter().Generate(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}
