package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/sedalabs/sedabot/internal/audio"
	"github.com/sedalabs/sedabot/internal/bot/keyboard"
	"github.com/sedalabs/sedabot/internal/domain"
	apperrors "github.com/sedalabs/sedabot/internal/errors"
	"github.com/sedalabs/sedabot/internal/effects"
	"github.com/sedalabs/sedabot/internal/ledger"
	"github.com/sedalabs/sedabot/internal/session"
	"github.com/sedalabs/sedabot/pkg/config"
)

// fakeContext implements only the telebot.Context methods the handlers
// touch; everything else panics via the embedded nil interface.
type fakeContext struct {
	telebot.Context
	sender  *telebot.User
	message *telebot.Message
	sendErr error
	sent    []interface{}
}

func (f *fakeContext) Sender() *telebot.User      { return f.sender }
func (f *fakeContext) Message() *telebot.Message  { return f.message }
func (f *fakeContext) Callback() *telebot.Callback { return nil }

func (f *fakeContext) Text() string {
	if f.message == nil {
		return ""
	}
	return f.message.Text
}

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, what)
	return nil
}

func textContext(userID int64, text string) *fakeContext {
	return &fakeContext{
		sender:  &telebot.User{ID: userID},
		message: &telebot.Message{Text: text},
	}
}

func voiceContext(userID int64) *fakeContext {
	return &fakeContext{
		sender:  &telebot.User{ID: userID},
		message: &telebot.Message{Voice: &telebot.Voice{File: telebot.File{FileID: "voice-file"}}},
	}
}

type fakeTranslator struct {
	result string
	err    error
	calls  int
}

func (f *fakeTranslator) Translate(_ context.Context, _ string, _ string) (string, error) {
	f.calls++
	return f.result, f.err
}

type fakeFetcher struct {
	fetchErr    error
	fetchCalled bool
}

func (f *fakeFetcher) Fetch(_ context.Context, _ *telebot.File) (string, func(), error) {
	f.fetchCalled = true
	if f.fetchErr != nil {
		return "", func() {}, f.fetchErr
	}
	return "in.ogg", func() {}, nil
}

func (f *fakeFetcher) TempPath(ext string) (string, func()) {
	return "out" + ext, func() {}
}

type fakeTranscoder struct {
	decodeErr error
	encodeErr error
}

func (f *fakeTranscoder) Decode(_ context.Context, _ string) (*audio.Buffer, error) {
	if f.decodeErr != nil {
		return nil, f.decodeErr
	}
	return &audio.Buffer{SampleRate: 48000, Samples: make([]float64, 4800)}, nil
}

func (f *fakeTranscoder) Encode(_ context.Context, _ *audio.Buffer, _ string) error {
	return f.encodeErr
}

type mockLedgerRepo struct {
	mock.Mock
}

func (m *mockLedgerRepo) Ensure(ctx context.Context, id int64, displayName string) (*domain.User, error) {
	args := m.Called(ctx, id, displayName)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockLedgerRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockLedgerRepo) Credit(ctx context.Context, id int64, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *mockLedgerRepo) Debit(ctx context.Context, id int64, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *mockLedgerRepo) SetEffect(ctx context.Context, id int64, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

func (m *mockLedgerRepo) Stats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*domain.Stats)
	return stats, args.Error(1)
}

func (m *mockLedgerRepo) RecordPayment(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBilling() config.BillingConfig {
	return config.BillingConfig{
		CardNumber:    "0000",
		PointsPerUnit: 200,
		UnitAmount:    10000,
		VoiceCost:     1,
	}
}

func testKeyboard() *keyboard.Builder {
	return keyboard.NewBuilder(effects.NewRegistry(testLogger()), testLogger())
}

func openSession(t *testing.T, sessions session.Store, userID int64, target string) {
	t.Helper()
	require.NoError(t, sessions.Set(context.Background(), userID, session.Session{
		AwaitingTranslation: true,
		TargetLanguage:      target,
	}))
}

func TestTranslationInterceptor_CommandsBypass(t *testing.T) {
	sessions := session.NewMemoryStore()
	openSession(t, sessions, 42, "en")
	translator := &fakeTranslator{result: "hello"}
	intercept := NewTranslationInterceptor(sessions, translator, testKeyboard(), testLogger())

	consumed, err := intercept(textContext(42, "/ping"))

	require.NoError(t, err)
	assert.False(t, consumed, "commands must reach the primary group even mid-session")
	assert.Zero(t, translator.calls)
}

func TestTranslationInterceptor_NotAwaitingPassesThrough(t *testing.T) {
	sessions := session.NewMemoryStore()
	translator := &fakeTranslator{result: "hello"}
	intercept := NewTranslationInterceptor(sessions, translator, testKeyboard(), testLogger())

	consumed, err := intercept(textContext(42, "just some text"))

	require.NoError(t, err)
	assert.False(t, consumed)
	assert.Zero(t, translator.calls)
}

func TestTranslationInterceptor_ConsumesAndReplies(t *testing.T) {
	sessions := session.NewMemoryStore()
	openSession(t, sessions, 42, "en")
	translator := &fakeTranslator{result: "hello"}
	intercept := NewTranslationInterceptor(sessions, translator, testKeyboard(), testLogger())

	c := textContext(42, "سلام")
	consumed, err := intercept(c)

	require.NoError(t, err)
	assert.True(t, consumed)
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0].(string), "hello")

	sess, err := sessions.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, sess.AwaitingTranslation, "the session stays open after a translation")
}

func TestTranslationInterceptor_FailureLeavesSessionUnchanged(t *testing.T) {
	sessions := session.NewMemoryStore()
	openSession(t, sessions, 42, "en")
	translator := &fakeTranslator{err: errors.New("upstream down")}
	intercept := NewTranslationInterceptor(sessions, translator, testKeyboard(), testLogger())

	c := textContext(42, "سلام")
	consumed, err := intercept(c)

	assert.True(t, consumed)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "E302", appErr.Code)
	assert.True(t, appErr.Retryable)
	assert.Empty(t, c.sent)

	sess, err := sessions.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, sess.AwaitingTranslation)
	assert.Equal(t, "en", sess.TargetLanguage)
}

func newVoiceHandlerEnv(repo *mockLedgerRepo, fetcher *fakeFetcher, transcoder *fakeTranscoder) Handler {
	log := testLogger()
	svc := ledger.NewService(repo, testBilling(), log)
	return NewVoiceHandler(svc, effects.NewRegistry(log), fetcher, transcoder, testBilling(), log)
}

func TestVoiceHandler_InsufficientCreditBlocksBeforeFetch(t *testing.T) {
	repo := new(mockLedgerRepo)
	repo.On("FindByID", mock.Anything, int64(42)).
		Return(&domain.User{ID: 42, Balance: 0, Effect: "none"}, nil).Once()
	fetcher := &fakeFetcher{}

	handler := newVoiceHandlerEnv(repo, fetcher, &fakeTranscoder{})
	err := handler(voiceContext(42))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "E101", appErr.Code)
	assert.False(t, fetcher.fetchCalled, "gating happens before any media transfer")
	repo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
}

func TestVoiceHandler_DebitsOnlyAfterDelivery(t *testing.T) {
	repo := new(mockLedgerRepo)
	repo.On("FindByID", mock.Anything, int64(42)).
		Return(&domain.User{ID: 42, Balance: 3, Effect: "none"}, nil).Once()
	repo.On("Debit", mock.Anything, int64(42), int64(1)).Return(nil).Once()

	handler := newVoiceHandlerEnv(repo, &fakeFetcher{}, &fakeTranscoder{})
	c := voiceContext(42)
	err := handler(c)

	require.NoError(t, err)
	require.Len(t, c.sent, 1)
	_, ok := c.sent[0].(*telebot.Voice)
	assert.True(t, ok, "the reply is a voice message")
	repo.AssertExpectations(t)
}

func TestVoiceHandler_SendFailureCostsNothing(t *testing.T) {
	repo := new(mockLedgerRepo)
	repo.On("FindByID", mock.Anything, int64(42)).
		Return(&domain.User{ID: 42, Balance: 3, Effect: "none"}, nil).Once()

	handler := newVoiceHandlerEnv(repo, &fakeFetcher{}, &fakeTranscoder{})
	c := voiceContext(42)
	c.sendErr = errors.New("telegram unavailable")
	err := handler(c)

	require.Error(t, err)
	repo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
}

func TestVoiceHandler_PipelineFailureCostsNothing(t *testing.T) {
	testCases := []struct {
		name       string
		fetcher    *fakeFetcher
		transcoder *fakeTranscoder
	}{
		{name: "fetch fails", fetcher: &fakeFetcher{fetchErr: errors.New("download failed")}, transcoder: &fakeTranscoder{}},
		{name: "decode fails", fetcher: &fakeFetcher{}, transcoder: &fakeTranscoder{decodeErr: errors.New("bad payload")}},
		{name: "encode fails", fetcher: &fakeFetcher{}, transcoder: &fakeTranscoder{encodeErr: errors.New("ffmpeg exit 1")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockLedgerRepo)
			repo.On("FindByID", mock.Anything, int64(42)).
				Return(&domain.User{ID: 42, Balance: 3, Effect: "none"}, nil).Once()

			handler := newVoiceHandlerEnv(repo, tc.fetcher, tc.transcoder)
			c := voiceContext(42)
			err := handler(c)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "E301", appErr.Code)
			assert.Empty(t, c.sent)
			repo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
