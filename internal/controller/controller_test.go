package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"adcraft/internal/domain/adcopy"
	"adcraft/internal/providers/copywriter"
)

func TestMain(m *testing.M) {
	// genai pulls in opencensus, whose stats worker lives for the whole process.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type fakeGenerator struct {
	mu    sync.Mutex
	calls []copywriter.Request
	fn    func(ctx context.Context, req copywriter.Request) (*adcopy.AdResponse, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, req copywriter.Request) (*adcopy.AdResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	fn := f.fn
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("generate not implemented")
	}
	return fn(ctx, req)
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func sampleResponse(headline string) *adcopy.AdResponse {
	return &adcopy.AdResponse{
		Headline:     headline,
		Body:         "Radiance without compromise.",
		CallToAction: "Shop Now",
		Hashtags:     []string{"skincare", "vegan"},
		Explanation:  "Luxury cues fit Instagram.",
	}
}

func fillEcoGlow(t *testing.T, c *Controller) {
	t.Helper()
	fields := map[adcopy.Field]string{
		adcopy.FieldProductName: "EcoGlow Serum",
		adcopy.FieldDescription: "Vegan, cruelty-free facial serum",
		adcopy.FieldPlatform:    "Instagram",
		adcopy.FieldTone:        "Luxury",
		adcopy.FieldLength:      "Short",
	}
	for field, value := range fields {
		if err := c.UpdateField(field, value); err != nil {
			t.Fatalf("UpdateField(%s) returned error: %v", field, err)
		}
	}
}

func waitState(t *testing.T, sub *Submission) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := sub.Wait(ctx)
	if err != nil {
		t.Fatalf("submission %d did not finish: %v", sub.Seq, err)
	}
	return st
}

func TestSubmitValidationSkipsGenerator(t *testing.T) {
	tests := []struct {
		name        string
		product     string
		description string
	}{
		{name: "empty form"},
		{name: "blank product", product: "   ", description: "Serum"},
		{name: "blank description", product: "EcoGlow", description: "\t"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			c := New(gen)
			defer c.Close()
			_ = c.UpdateField(adcopy.FieldProductName, tc.product)
			_ = c.UpdateField(adcopy.FieldDescription, tc.description)

			sub := c.Submit(context.Background())
			st := waitState(t, sub)
			if st.Phase != PhaseError || st.Message != adcopy.MissingFieldsMessage {
				t.Fatalf("state = %+v, want validation error", st)
			}
			if !sub.Applied() {
				t.Fatal("validation failure should be applied")
			}
			if got := c.State(); got.Phase != PhaseError || got.Message != adcopy.MissingFieldsMessage {
				t.Fatalf("controller state = %+v", got)
			}
			if gen.callCount() != 0 {
				t.Fatalf("generator called %d times, want 0", gen.callCount())
			}
		})
	}
}

func TestSubmitSuccessTransitions(t *testing.T) {
	release := make(chan struct{})
	gen := &fakeGenerator{fn: func(ctx context.Context, req copywriter.Request) (*adcopy.AdResponse, error) {
		<-release
		return sampleResponse("Glow Naturally"), nil
	}}
	c := New(gen, WithLocale("en"))
	defer c.Close()
	fillEcoGlow(t, c)

	events, unsubscribe := c.Subscribe()
	defer unsubscribe()

	sub := c.Submit(context.Background())
	if st := c.State(); st.Phase != PhaseLoading || st.Seq != sub.Seq {
		t.Fatalf("state after submit = %+v, want loading", st)
	}
	close(release)
	st := waitState(t, sub)
	if st.Phase != PhaseSuccess || st.Result.Headline != "Glow Naturally" {
		t.Fatalf("terminal state = %+v", st)
	}
	if st.Result.DisplayHashtags() != "#skincare #vegan" {
		t.Fatalf("DisplayHashtags() = %q", st.Result.DisplayHashtags())
	}

	var phases []Phase
	for len(phases) < 3 {
		select {
		case ev := <-events:
			phases = append(phases, ev.Phase)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for events, got %v", phases)
		}
	}
	want := []Phase{PhaseIdle, PhaseLoading, PhaseSuccess}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("phases = %v, want %v", phases, want)
		}
	}

	if gen.callCount() != 1 {
		t.Fatalf("generator called %d times, want 1", gen.callCount())
	}
	req := gen.calls[0]
	if req.Locale != "en" || req.Ad.Platform != adcopy.PlatformInstagram || req.Ad.Tone != adcopy.ToneLuxury {
		t.Fatalf("generator request = %+v", req)
	}
}

func TestSubmitFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		res  *adcopy.AdResponse
		want string
	}{
		{
			name: "generation error",
			err:  &copywriter.GenerationError{Kind: copywriter.KindTransport, Err: errors.New("dial tcp")},
			want: copywriter.FailureMessage,
		},
		{name: "blank error", err: errors.New(""), want: FallbackMessage},
		{name: "nil response", want: FallbackMessage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{fn: func(ctx context.Context, req copywriter.Request) (*adcopy.AdResponse, error) {
				return tc.res, tc.err
			}}
			c := New(gen)
			defer c.Close()
			fillEcoGlow(t, c)

			st := waitState(t, c.Submit(context.Background()))
			if st.Phase != PhaseError || st.Message != tc.want {
				t.Fatalf("state = %+v, want error %q", st, tc.want)
			}
			if st.Result != nil {
				t.Fatalf("error state carries a result: %+v", st.Result)
			}
		})
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	releaseFirst := make(chan struct{})
	gen := &fakeGenerator{fn: func(ctx context.Context, req copywriter.Request) (*adcopy.AdResponse, error) {
		if req.Ad.ProductName == "First" {
			<-releaseFirst
			return sampleResponse("first"), nil
		}
		return sampleResponse("second"), nil
	}}
	c := New(gen)
	defer c.Close()
	fillEcoGlow(t, c)

	_ = c.UpdateField(adcopy.FieldProductName, "First")
	first := c.Submit(context.Background())
	_ = c.UpdateField(adcopy.FieldProductName, "Second")
	second := c.Submit(context.Background())

	if st := waitState(t, second); st.Result.Headline != "second" {
		t.Fatalf("second state = %+v", st)
	}
	close(releaseFirst)
	if st := waitState(t, first); st.Result.Headline != "first" {
		t.Fatalf("first submission state = %+v", st)
	}
	if first.Applied() {
		t.Fatal("stale submission should not be applied")
	}
	if !second.Applied() {
		t.Fatal("latest submission should be applied")
	}
	if st := c.State(); st.Phase != PhaseSuccess || st.Result.Headline != "second" || st.Seq != second.Seq {
		t.Fatalf("controller state = %+v, want second result", st)
	}
}

func TestResetDiscardsInFlightResult(t *testing.T) {
	release := make(chan struct{})
	gen := &fakeGenerator{fn: func(ctx context.Context, req copywriter.Request) (*adcopy.AdResponse, error) {
		<-release
		return sampleResponse("late"), nil
	}}
	c := New(gen)
	defer c.Close()
	fillEcoGlow(t, c)

	sub := c.Submit(context.Background())
	c.Reset()
	close(release)
	waitState(t, sub)

	if sub.Applied() {
		t.Fatal("result after reset should be discarded")
	}
	if st := c.State(); st.Phase != PhaseIdle {
		t.Fatalf("state = %+v, want idle", st)
	}
	if req := c.Request(); req != adcopy.DefaultAdRequest() {
		t.Fatalf("form = %+v, want defaults", req)
	}
}

func TestResetRestoresDefaultsFromAnyState(t *testing.T) {
	gen := &fakeGenerator{fn: func(ctx context.Context, req copywriter.Request) (*adcopy.AdResponse, error) {
		return nil, &copywriter.GenerationError{Kind: copywriter.KindSchema}
	}}
	c := New(gen)
	defer c.Close()
	fillEcoGlow(t, c)
	_ = c.UpdateField(adcopy.FieldTargetAudience, "Women 25-40")
	waitState(t, c.Submit(context.Background()))
	if c.State().Phase != PhaseError {
		t.Fatalf("expected error before reset, got %+v", c.State())
	}

	c.Reset()
	if st := c.State(); st.Phase != PhaseIdle || st.Result != nil || st.Message != "" {
		t.Fatalf("state = %+v, want idle", st)
	}
	if req := c.Request(); req != adcopy.DefaultAdRequest() {
		t.Fatalf("form = %+v, want defaults", req)
	}
}

func TestSubmitIgnoresCallerCancellation(t *testing.T) {
	type ctxKey struct{}
	release := make(chan struct{})
	var sawErr error
	var sawValue any
	gen := &fakeGenerator{fn: func(ctx context.Context, req copywriter.Request) (*adcopy.AdResponse, error) {
		<-release
		sawErr = ctx.Err()
		sawValue = ctx.Value(ctxKey{})
		return sampleResponse("done"), nil
	}}
	c := New(gen)
	defer c.Close()
	fillEcoGlow(t, c)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "req-1"))
	sub := c.Submit(ctx)
	cancel()
	close(release)

	if st := waitState(t, sub); st.Phase != PhaseSuccess {
		t.Fatalf("state = %+v, want success", st)
	}
	if sawErr != nil {
		t.Fatalf("generator saw cancelled context: %v", sawErr)
	}
	if sawValue != "req-1" {
		t.Fatalf("context value = %v, want req-1", sawValue)
	}
}

func TestUpdateFieldRejectsUnknownOption(t *testing.T) {
	c := New(&fakeGenerator{})
	defer c.Close()
	if err := c.UpdateField(adcopy.FieldPlatform, "MySpace"); !errors.Is(err, adcopy.ErrUnknownOption) {
		t.Fatalf("error = %v, want ErrUnknownOption", err)
	}
	if c.Request().Platform != adcopy.DefaultPlatform {
		t.Fatalf("platform changed to %v", c.Request().Platform)
	}
	if c.State().Phase != PhaseIdle {
		t.Fatalf("UpdateField changed state to %v", c.State().Phase)
	}
}

func TestUpdateFieldsIsAllOrNothingUnderConcurrency(t *testing.T) {
	c := New(&fakeGenerator{})
	defer c.Close()

	valid := []FieldUpdate{
		{Field: adcopy.FieldProductName, Value: "EcoGlow Serum"},
		{Field: adcopy.FieldPlatform, Value: "Instagram"},
	}
	invalid := []FieldUpdate{
		{Field: adcopy.FieldProductName, Value: "Half Applied"},
		{Field: adcopy.FieldPlatform, Value: "MySpace"},
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			if err := c.UpdateFields(valid); err != nil {
				t.Errorf("valid batch returned error: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := c.UpdateFields(invalid); !errors.Is(err, adcopy.ErrUnknownOption) {
				t.Errorf("invalid batch error = %v, want ErrUnknownOption", err)
			}
		}()
		go func() {
			defer wg.Done()
			form := c.Request()
			if form.ProductName == "Half Applied" {
				t.Errorf("rejected batch leaked into the form: %+v", form)
			}
			if form.ProductName == "EcoGlow Serum" && form.Platform != adcopy.PlatformInstagram {
				t.Errorf("batch applied partially: %+v", form)
			}
		}()
	}
	wg.Wait()

	form := c.Request()
	if form.ProductName != "EcoGlow Serum" || form.Platform != adcopy.PlatformInstagram {
		t.Fatalf("form = %+v", form)
	}
}

func TestCloseWaitsAndEndsSubscriptions(t *testing.T) {
	release := make(chan struct{})
	gen := &fakeGenerator{fn: func(ctx context.Context, req copywriter.Request) (*adcopy.AdResponse, error) {
		<-release
		return sampleResponse("x"), nil
	}}
	c := New(gen)
	fillEcoGlow(t, c)
	events, _ := c.Subscribe()
	sub := c.Submit(context.Background())

	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()
	select {
	case <-closed:
		t.Fatal("Close returned while a generation was in flight")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	<-closed
	waitState(t, sub)

	for range events {
	}
	if after := c.Submit(context.Background()); after.Applied() {
		t.Fatal("submission after Close should not be applied")
	}
	if gen.callCount() != 1 {
		t.Fatalf("generator called %d times, want 1", gen.callCount())
	}
}

func TestPhaseMarshalText(t *testing.T) {
	for phase, want := range map[Phase]string{PhaseIdle: "idle", PhaseLoading: "loading", PhaseSuccess: "success", PhaseError: "error"} {
		got, err := phase.MarshalText()
		if err != nil || string(got) != want {
			t.Fatalf("MarshalText(%d) = %q, %v; want %q", phase, got, err, want)
		}
	}
	if _, err := Phase(9).MarshalText(); err == nil {
		t.Fatal("expected error for unknown phase")
	}
}
