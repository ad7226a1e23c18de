package pickup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagalog-rizz-api/internal/domain/entity"
	"tagalog-rizz-api/internal/infrastructure/llm"
	apperrors "tagalog-rizz-api/pkg/errors"
)

type fakeCompleter struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (*llm.Completion, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Text: f.text, Model: "test-model", PromptTokens: 10, CompletionTokens: 20}, nil
}

type fakeRecorder struct {
	records []UsageRecord
}

func (f *fakeRecorder) Record(_ context.Context, rec UsageRecord) {
	f.records = append(f.records, rec)
}

func newTestService(c Completer) (*Service, *fakeRecorder) {
	rec := &fakeRecorder{}
	return NewService(NewRequester(c, MustNewComposer()), rec), rec
}

func TestService_Generate_Live(t *testing.T) {
	c := &fakeCompleter{text: `[{"tagalog":"Uno","translation":"One"},{"tagalog":"Dos","translation":"Two"}]`}
	svc, rec := newTestService(c)

	res, err := svc.Generate(context.Background(), NewGenerationRequest("", 2, CategoryFunny, true), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []Item{{Text: "Uno", Translation: "One"}, {Text: "Dos", Translation: "Two"}}, res.Items)
	assert.Empty(t, res.Note)
	assert.Equal(t, entity.GenerationOutcomeLive, res.Outcome)
	assert.Equal(t, StrategyStructured, res.Strategy)

	require.Len(t, c.prompts, 1)
	assert.Contains(t, c.prompts[0], "Generate 2 creative Tagalog pick-up lines.")
	assert.Contains(t, c.prompts[0], "humorous and witty")

	require.Len(t, rec.records, 1)
	assert.Equal(t, "user-1", rec.records[0].UserID)
	assert.Equal(t, EndpointGenerate, rec.records[0].Endpoint)
	assert.Equal(t, entity.GenerationOutcomeLive, rec.records[0].Outcome)
	assert.Equal(t, 2, rec.records[0].ItemCount)
	assert.NotNil(t, rec.records[0].Completion)
}

func TestService_Generate_RecoverableErrorsServeFallback(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind llm.ErrorKind
	}{
		{"timeout", &llm.Error{Kind: llm.KindTransportTimeout, Message: "deadline"}, llm.KindTransportTimeout},
		{"rate limited", &llm.Error{Kind: llm.KindUpstream, StatusCode: 429, RawBody: `{"error":"rate"}`}, llm.KindUpstream},
		{"server error", &llm.Error{Kind: llm.KindUpstream, StatusCode: 500}, llm.KindUpstream},
		{"unreachable", &llm.Error{Kind: llm.KindUpstream, Message: "connection refused"}, llm.KindUpstream},
		{"malformed", &llm.Error{Kind: llm.KindMalformedResponse, StatusCode: 200}, llm.KindMalformedResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, count := range []int{1, 5, 20} {
				svc, rec := newTestService(&fakeCompleter{err: tc.err})

				res, err := svc.Generate(context.Background(), NewGenerationRequest("", count, CategoryNone, true), "")
				require.NoError(t, err)
				assert.Equal(t, Fallback(count), res.Items)
				assert.Equal(t, FallbackNote, res.Note)
				assert.Equal(t, entity.GenerationOutcomeFallback, res.Outcome)

				require.Len(t, rec.records, 1)
				assert.Equal(t, string(tc.kind), rec.records[0].ErrorKind)
				assert.Equal(t, entity.GenerationOutcomeFallback, rec.records[0].Outcome)
				assert.Nil(t, rec.records[0].Completion)
			}
		})
	}
}

func TestService_Generate_ConfigurationErrorIsReturned(t *testing.T) {
	c := &fakeCompleter{err: &llm.Error{Kind: llm.KindConfiguration, Message: "missing api key"}}
	svc, rec := newTestService(c)

	res, err := svc.Generate(context.Background(), NewGenerationRequest("", 3, CategoryNone, false), "")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, apperrors.ErrLLMConfig))
	assert.True(t, llm.IsConfiguration(err))

	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 500, appErr.HTTPStatus)

	require.Len(t, rec.records, 1)
	assert.Equal(t, entity.GenerationOutcomeError, rec.records[0].Outcome)
}

func TestService_Generate_UnclassifiedErrorIsReturned(t *testing.T) {
	svc, _ := newTestService(&fakeCompleter{err: errors.New("boom")})

	_, err := svc.Generate(context.Background(), NewGenerationRequest("", 3, CategoryNone, false), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrGenerationFailed))
}

func TestService_Generate_UnreadableCompletion(t *testing.T) {
	svc, rec := newTestService(&fakeCompleter{text: "```\n```"})

	res, err := svc.Generate(context.Background(), NewGenerationRequest("", 4, CategoryNone, true), "")
	require.NoError(t, err)
	assert.Equal(t, Fallback(4), res.Items)
	assert.Equal(t, UnreadableNote, res.Note)
	assert.Equal(t, entity.GenerationOutcomeFallback, res.Outcome)
	assert.Equal(t, StrategyNone, res.Strategy)

	require.Len(t, rec.records, 1)
	assert.NotNil(t, rec.records[0].Completion)
}

func TestService_Generate_ShortLiveResultIsNotPadded(t *testing.T) {
	svc, _ := newTestService(&fakeCompleter{text: "1. Uno\n2. Dos"})

	res, err := svc.Generate(context.Background(), NewGenerationRequest("", 5, CategoryNone, false), "")
	require.NoError(t, err)
	assert.Equal(t, []Item{{Text: "Uno"}, {Text: "Dos"}}, res.Items)
	assert.Empty(t, res.Note)
}

func TestService_Chat(t *testing.T) {
	c := &fakeCompleter{text: "\"Kape ka ba? Kasi hindi ako makatulog.\""}
	svc, rec := newTestService(c)

	res, err := svc.Chat(context.Background(), "coffee", "user-2")
	require.NoError(t, err)
	assert.Equal(t, "Kape ka ba? Kasi hindi ako makatulog.", res.Text)
	assert.Empty(t, res.Note)
	assert.Contains(t, c.prompts[0], "about: coffee.")

	require.Len(t, rec.records, 1)
	assert.Equal(t, EndpointChat, rec.records[0].Endpoint)
}

func TestService_Chat_Fallback(t *testing.T) {
	svc, _ := newTestService(&fakeCompleter{err: &llm.Error{Kind: llm.KindUpstream, StatusCode: 503}})

	res, err := svc.Chat(context.Background(), "coffee", "")
	require.NoError(t, err)
	assert.Equal(t, Fallback(1)[0].Text, res.Text)
	assert.Equal(t, FallbackNote, res.Note)
	assert.Equal(t, entity.GenerationOutcomeFallback, res.Outcome)
}

func TestService_NilRecorder(t *testing.T) {
	svc := NewService(NewRequester(&fakeCompleter{text: "Uno"}, MustNewComposer()), nil)

	res, err := svc.Generate(context.Background(), NewGenerationRequest("", 1, CategoryNone, false), "")
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}
