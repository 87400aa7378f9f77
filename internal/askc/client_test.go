package askc

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeAnswers struct {
	mu        sync.Mutex
	questions []string
	answers   map[string]string
	gates     map[string]chan struct{}
	err       error
}

func (f *fakeAnswers) Ask(ctx context.Context, question string) (string, error) {
	f.mu.Lock()
	f.questions = append(f.questions, question)
	gate := f.gates[question]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	if answer, ok := f.answers[question]; ok {
		return answer, nil
	}
	return "answer to " + question, nil
}

func (f *fakeAnswers) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.questions...)
}

type recordingView struct {
	mu     sync.Mutex
	msgs   []Message
	clears int
}

func (v *recordingView) Append(msg Message) {
	v.mu.Lock()
	v.msgs = append(v.msgs, msg)
	v.mu.Unlock()
}

func (v *recordingView) ClearInput() {
	v.mu.Lock()
	v.clears++
	v.mu.Unlock()
}

func (v *recordingView) messages() []Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Message(nil), v.msgs...)
}

type fakeSynth struct {
	mu     sync.Mutex
	spoken []string
}

func (s *fakeSynth) Speak(text string) {
	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	s.mu.Unlock()
}

func (s *fakeSynth) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

type fakeRecognizer struct {
	result Recognition
	err    error
}

func (r *fakeRecognizer) Recognize(context.Context) (Recognition, error) {
	return r.result, r.err
}

func heard(text string) Recognition {
	return Recognition{Segments: []Segment{{Alternatives: []Alternative{
		{Transcript: text, Confidence: 0.9},
		{Transcript: "not this one", Confidence: 0.1},
	}}}}
}

func texts(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

func TestSubmitQuestionAppendsUserThenBot(t *testing.T) {
	questions := []string{"hello", "What is naloxone?", "  padded question  ", "ünïcödé ?"}

	for _, q := range questions {
		t.Run(q, func(t *testing.T) {
			answers := &fakeAnswers{}
			view := &recordingView{}
			client := New(answers, view)

			client.SubmitQuestion(context.Background(), q, false)
			client.Wait()

			msgs := client.Messages()
			require.Len(t, msgs, 2)
			assert.Equal(t, User, msgs[0].Origin)
			assert.Equal(t, Bot, msgs[1].Origin)
			assert.Equal(t, strings.TrimSpace(q), msgs[0].Text)
			assert.Equal(t, "answer to "+strings.TrimSpace(q), msgs[1].Text)
			assert.Equal(t, []string{strings.TrimSpace(q)}, answers.calls())
			assert.Equal(t, 1, view.clears)
		})
	}
}

func TestSubmitQuestionBlankIsNoop(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		answers := &fakeAnswers{}
		view := &recordingView{}
		client := New(answers, view)

		client.SubmitQuestion(context.Background(), q, false)
		client.Wait()

		assert.Equal(t, 0, client.Transcript().Len(), "question %q", q)
		assert.Empty(t, answers.calls())
		assert.Equal(t, 0, view.clears)
	}
}

func TestSubmitQuestionRendersAnswer(t *testing.T) {
	answers := &fakeAnswers{answers: map[string]string{
		"What is the capital of France?": "Paris is the capital",
	}}
	client := New(answers, &recordingView{})

	client.SubmitQuestion(context.Background(), "What is the capital of France?", false)
	client.Wait()

	last, ok := client.Transcript().Last()
	require.True(t, ok)
	assert.Equal(t, Bot, last.Origin)
	assert.Equal(t, "Paris is the capital", last.Text)
}

func TestSubmitQuestionFailureRendersConnectError(t *testing.T) {
	synth := &fakeSynth{}
	client := New(&fakeAnswers{err: errors.New("connection refused")}, &recordingView{}, WithSynthesizer(synth))

	client.SubmitQuestion(context.Background(), "anyone there?", true)
	client.Wait()

	last, ok := client.Transcript().Last()
	require.True(t, ok)
	assert.Equal(t, Bot, last.Origin)
	assert.Equal(t, "Error: Unable to connect to the server.", last.Text)
	assert.Empty(t, synth.calls())
}

func TestSubmitQuestionSpeaksOnlyWhenSpoken(t *testing.T) {
	tests := []struct {
		name   string
		spoken bool
		want   []string
	}{
		{name: "spoken", spoken: true, want: []string{"answer to hi"}},
		{name: "typed", spoken: false, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := &fakeSynth{}
			client := New(&fakeAnswers{}, &recordingView{}, WithSynthesizer(synth))

			client.SubmitQuestion(context.Background(), "hi", tt.spoken)
			client.Wait()

			assert.Equal(t, tt.want, synth.calls())
		})
	}
}

func TestSpeakWithoutSynthesizer(t *testing.T) {
	client := New(&fakeAnswers{}, &recordingView{})
	client.SubmitQuestion(context.Background(), "hi", true)
	client.Wait()
	assert.Equal(t, 2, client.Transcript().Len())
}

func TestViewOrderMatchesTranscript(t *testing.T) {
	view := &recordingView{}
	client := New(&fakeAnswers{}, view)

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		client.SubmitQuestion(ctx, "q", false)
	}
	client.Wait()

	assert.Equal(t, client.Messages(), view.messages())
}

func TestOverlappingSubmissions(t *testing.T) {
	gate := make(chan struct{})
	answers := &fakeAnswers{gates: map[string]chan struct{}{"slow": gate}}
	client := New(answers, &recordingView{})

	ctx := context.Background()
	client.SubmitQuestion(ctx, "slow", false)
	client.SubmitQuestion(ctx, "fast", false)
	require.Eventually(t, func() bool { return len(answers.calls()) == 2 }, time.Second, 5*time.Millisecond)
	close(gate)
	client.Wait()

	msgs := client.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, []string{"slow", "fast"}, texts(msgs[:2]))
	assert.ElementsMatch(t, []string{"answer to slow", "answer to fast"}, texts(msgs[2:]))
	for _, m := range msgs[2:] {
		assert.Equal(t, Bot, m.Origin)
	}
}

func TestSingleFlightKeepsRequestOrder(t *testing.T) {
	gate := make(chan struct{})
	answers := &fakeAnswers{gates: map[string]chan struct{}{"first": gate}}
	client := New(answers, &recordingView{}, WithSingleFlight(true))

	ctx := context.Background()
	client.SubmitQuestion(ctx, "first", false)
	client.SubmitQuestion(ctx, "second", false)

	require.Eventually(t, func() bool { return len(answers.calls()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return len(answers.calls()) > 1 }, 50*time.Millisecond, 5*time.Millisecond)
	close(gate)
	client.Wait()

	assert.Equal(t, []string{"first", "second", "answer to first", "answer to second"}, texts(client.Messages()))
}

func TestStartListeningSubmitsFirstAlternative(t *testing.T) {
	answers := &fakeAnswers{}
	synth := &fakeSynth{}
	view := &recordingView{}
	client := New(answers, view, WithRecognizer(&fakeRecognizer{result: heard("what is fentanyl")}), WithSynthesizer(synth))

	require.True(t, client.CanListen())
	require.NoError(t, client.StartListening(context.Background()))
	client.Wait()

	assert.Equal(t, []string{"Listening...", "what is fentanyl", "answer to what is fentanyl"}, texts(client.Messages()))
	assert.Equal(t, []string{"what is fentanyl"}, answers.calls())
	assert.Equal(t, []string{"answer to what is fentanyl"}, synth.calls())
	assert.False(t, client.Listening())
	assert.Equal(t, 1, view.clears)
}

func TestStartListeningRecognitionError(t *testing.T) {
	answers := &fakeAnswers{}
	client := New(answers, &recordingView{}, WithRecognizer(&fakeRecognizer{err: errors.New("no-speech")}))

	require.NoError(t, client.StartListening(context.Background()))
	client.Wait()

	msgs := client.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Listening...", msgs[0].Text)
	assert.Equal(t, "Sorry, I couldn't hear you. Please try again.", msgs[1].Text)
	assert.Equal(t, Bot, msgs[1].Origin)
	assert.Empty(t, answers.calls())
}

func TestStartListeningEmptyResult(t *testing.T) {
	answers := &fakeAnswers{}
	client := New(answers, &recordingView{}, WithRecognizer(&fakeRecognizer{}))

	require.NoError(t, client.StartListening(context.Background()))
	client.Wait()

	assert.Equal(t, []string{ListeningText, HearErrorText}, texts(client.Messages()))
	assert.Empty(t, answers.calls())
}

func TestStartListeningBlankTranscript(t *testing.T) {
	answers := &fakeAnswers{}
	view := &recordingView{}
	client := New(answers, view, WithRecognizer(&fakeRecognizer{result: heard(" \t ")}))

	require.NoError(t, client.StartListening(context.Background()))
	client.Wait()

	assert.Equal(t, []string{ListeningText, HearErrorText}, texts(client.Messages()))
	assert.Empty(t, answers.calls())
	assert.Equal(t, 0, view.clears)
}

func TestBusyTracksPendingWork(t *testing.T) {
	gate := make(chan struct{})
	answers := &fakeAnswers{gates: map[string]chan struct{}{"slow": gate}}
	client := New(answers, &recordingView{})

	assert.False(t, client.Busy())
	client.SubmitQuestion(context.Background(), "slow", false)
	assert.True(t, client.Busy())

	close(gate)
	client.Wait()
	assert.False(t, client.Busy())
}

func TestStartListeningUnavailable(t *testing.T) {
	client := New(&fakeAnswers{}, &recordingView{})

	assert.False(t, client.CanListen())
	assert.ErrorIs(t, client.StartListening(context.Background()), ErrRecognitionUnavailable)
	assert.Equal(t, 0, client.Transcript().Len())
}

func TestRecognitionFirst(t *testing.T) {
	tests := []struct {
		name   string
		input  Recognition
		want   string
		wantOK bool
	}{
		{name: "no segments", input: Recognition{}, want: "", wantOK: false},
		{name: "no alternatives", input: Recognition{Segments: []Segment{{}}}, want: "", wantOK: false},
		{name: "first of first", input: heard("hello"), want: "hello", wantOK: true},
		{
			name: "ignores later segments",
			input: Recognition{Segments: []Segment{
				{Alternatives: []Alternative{{Transcript: "one"}}},
				{Alternatives: []Alternative{{Transcript: "two"}}},
			}},
			want:   "one",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.input.First()
			if ok != tt.wantOK {
				t.Errorf("First() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("First() = %q, want %q", got, tt.want)
			}
		})
	}
}
