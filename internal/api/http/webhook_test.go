package http

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/nlp"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/testutil"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) GetByWhatsAppNumber(ctx context.Context, number string) (model.User, error) {
	args := m.Called(ctx, number)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) GetByCardID(ctx context.Context, cardID string) (model.User, error) {
	args := m.Called(ctx, cardID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) GetWorkerByCardID(ctx context.Context, cardID string) (model.User, error) {
	args := m.Called(ctx, cardID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) LinkCard(ctx context.Context, id uuid.UUID, cardID string, role model.Role) error {
	args := m.Called(ctx, id, cardID, role)
	return args.Error(0)
}

func (m *mockUserStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type fakeResolver struct {
	textResult  nlp.Result
	audioResult nlp.Result

	textCalls  int
	audioCalls int
	lastText   string
	lastURL    string
	lastLang   string
}

func (f *fakeResolver) DetectText(_ context.Context, _, text, languageCode string) nlp.Result {
	f.textCalls++
	f.lastText = text
	f.lastLang = languageCode
	return f.textResult
}

func (f *fakeResolver) DetectAudio(_ context.Context, _, audioURL, languageCode string) nlp.Result {
	f.audioCalls++
	f.lastURL = audioURL
	f.lastLang = languageCode
	return f.audioResult
}

type mockCommands struct {
	mock.Mock
}

func (m *mockCommands) Register(ctx context.Context, senderNumber string, cardParam, roleParam any) string {
	args := m.Called(ctx, senderNumber, cardParam, roleParam)
	return args.String(0)
}

func (m *mockCommands) Attendance(ctx context.Context, user *model.User, logType model.LogType) string {
	args := m.Called(ctx, user, logType)
	return args.String(0)
}

func (m *mockCommands) SalaryInquiry(ctx context.Context, user *model.User) string {
	args := m.Called(ctx, user)
	return args.String(0)
}

func (m *mockCommands) LogSalary(ctx context.Context, employer *model.User, cardParam, amountParam, dateParam, notesParam any) string {
	args := m.Called(ctx, employer, cardParam, amountParam, dateParam, notesParam)
	return args.String(0)
}

func (m *mockCommands) MediaUpload(ctx context.Context, user *model.User, mediaURL, mediaType string) string {
	args := m.Called(ctx, user, mediaURL, mediaType)
	return args.String(0)
}

func (m *mockCommands) Fallback(user *model.User, messageBody string) string {
	args := m.Called(user, messageBody)
	return args.String(0)
}

func postWebhook(t *testing.T, h *WebhookHandler, form url.Values) (*httptest.ResponseRecorder, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.HandleWhatsApp(rec, req)

	var envelope twiml
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &envelope))

	return rec, envelope.Message
}

func unknownSender(number string) *mockUserStore {
	users := &mockUserStore{}
	users.On("GetByWhatsAppNumber", mock.Anything, number).Return(model.User{}, model.ErrNotFound)
	return users
}

func TestWebhook_TextRegisterIntent(t *testing.T) {
	users := unknownSender("whatsapp:+1555")

	resolver := &fakeResolver{textResult: nlp.Result{
		Intent: "RegisterUser",
		Params: map[string]any{"sampatti_id": "AAA11111", "role": "worker"},
	}}

	commands := &mockCommands{}
	commands.On("Register", mock.Anything, "whatsapp:+1555", "AAA11111", "worker").
		Return("Welcome! Registered with Sampatti Card ID: AAA11111 as a worker.")

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	rec, message := postWebhook(t, h, url.Values{
		"From": {"whatsapp:+1555"},
		"Body": {"register AAA11111 worker"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Welcome! Registered with Sampatti Card ID: AAA11111 as a worker.", message)
	assert.Equal(t, 1, resolver.textCalls)
	assert.Equal(t, "en", resolver.lastLang)
	commands.AssertExpectations(t)
}

func TestWebhook_TextUsesStoredLanguage(t *testing.T) {
	worker := model.User{ID: uuid.New(), Role: model.RoleWorker, Language: "hi"}
	users := &mockUserStore{}
	users.On("GetByWhatsAppNumber", mock.Anything, "whatsapp:+1555").Return(worker, nil)

	resolver := &fakeResolver{textResult: nlp.Result{Intent: "CheckIn"}}
	commands := &mockCommands{}
	commands.On("Attendance", mock.Anything, mock.Anything, model.LogTypeCheckIn).Return("ok")

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From": {"whatsapp:+1555"},
		"Body": {"checkin"},
	})

	assert.Equal(t, "ok", message)
	assert.Equal(t, "hi", resolver.lastLang)
}

func TestWebhook_TextDetectionError(t *testing.T) {
	users := unknownSender("whatsapp:+1555")
	resolver := &fakeResolver{}
	commands := &mockCommands{}

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From": {"whatsapp:+1555"},
		"Body": {"hello"},
	})

	assert.Equal(t, "Sorry, I'm having trouble understanding that command (text error).", message)
	commands.AssertNotCalled(t, "Fallback", mock.Anything, mock.Anything)
}

func TestWebhook_EmptyMessageFallsBack(t *testing.T) {
	users := unknownSender("whatsapp:+1555")
	resolver := &fakeResolver{}
	commands := &mockCommands{}
	commands.On("Fallback", (*model.User)(nil), "").
		Return("Welcome! Please register using: register <YourSampattiID> <worker|employer>")

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{"From": {"whatsapp:+1555"}})

	assert.Equal(t, "Welcome! Please register using: register <YourSampattiID> <worker|employer>", message)
	assert.Equal(t, 0, resolver.textCalls)
}

func TestWebhook_AudioMessage(t *testing.T) {
	worker := model.User{ID: uuid.New(), Role: model.RoleWorker}
	users := &mockUserStore{}
	users.On("GetByWhatsAppNumber", mock.Anything, "whatsapp:+1555").Return(worker, nil)

	resolver := &fakeResolver{audioResult: nlp.Result{Intent: "SalaryInquiry"}}
	commands := &mockCommands{}
	commands.On("SalaryInquiry", mock.Anything, mock.Anything).Return("No salary records found for you.")

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From":              {"whatsapp:+1555"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/abc"},
		"MediaContentType0": {"audio/ogg"},
	})

	assert.Equal(t, "No salary records found for you.", message)
	assert.Equal(t, 1, resolver.audioCalls)
	assert.Equal(t, "https://api.twilio.com/media/abc", resolver.lastURL)
}

func TestWebhook_AudioFallbackTextIsVerbatim(t *testing.T) {
	users := unknownSender("whatsapp:+1555")
	resolver := &fakeResolver{audioResult: nlp.Result{
		Fallback: "Error: Could not authenticate to download voice message. Please check credentials.",
	}}
	commands := &mockCommands{}

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From":              {"whatsapp:+1555"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/abc"},
		"MediaContentType0": {"audio/ogg"},
	})

	assert.Equal(t, "Error: Could not authenticate to download voice message. Please check credentials.", message)
}

func TestWebhook_AudioDetectionError(t *testing.T) {
	users := unknownSender("whatsapp:+1555")
	resolver := &fakeResolver{}
	commands := &mockCommands{}

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From":              {"whatsapp:+1555"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/abc"},
		"MediaContentType0": {"audio/ogg"},
	})

	assert.Equal(t, "Sorry, I encountered an error processing your voice message.", message)
}

func TestWebhook_DocumentUpload(t *testing.T) {
	worker := model.User{ID: uuid.New(), Role: model.RoleWorker}
	users := &mockUserStore{}
	users.On("GetByWhatsAppNumber", mock.Anything, "whatsapp:+1555").Return(worker, nil)

	resolver := &fakeResolver{}
	commands := &mockCommands{}
	commands.On("MediaUpload", mock.Anything, mock.Anything, "https://api.twilio.com/media/doc", "image/png").
		Return("Received your file (user_x_kyc_y.png). It is pending review.")

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From":              {"whatsapp:+1555"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/doc"},
		"MediaContentType0": {"image/png"},
	})

	assert.Equal(t, "Received your file (user_x_kyc_y.png). It is pending review.", message)
	assert.Equal(t, 0, resolver.textCalls)
	assert.Equal(t, 0, resolver.audioCalls)
}

func TestWebhook_DocumentUploadRequiresRegistration(t *testing.T) {
	users := unknownSender("whatsapp:+1555")
	resolver := &fakeResolver{}
	commands := &mockCommands{}

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From":              {"whatsapp:+1555"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/doc"},
		"MediaContentType0": {"application/pdf"},
	})

	assert.Equal(t, "Please register before uploading files. Send: register <ID> <role>", message)
	commands.AssertNotCalled(t, "MediaUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhook_UnsupportedMediaType(t *testing.T) {
	users := unknownSender("whatsapp:+1555")
	resolver := &fakeResolver{}
	commands := &mockCommands{}

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From":              {"whatsapp:+1555"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/vid"},
		"MediaContentType0": {"video/mp4"},
	})

	assert.Equal(t, "Sorry, I can only process voice messages, images, and PDF files right now.", message)
}

func TestWebhook_MediaTakesPriorityOverText(t *testing.T) {
	users := unknownSender("whatsapp:+1555")
	resolver := &fakeResolver{audioResult: nlp.Result{Fallback: "voice fallback"}}
	commands := &mockCommands{}

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From":              {"whatsapp:+1555"},
		"Body":              {"also some text"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/abc"},
		"MediaContentType0": {"audio/ogg"},
	})

	assert.Equal(t, "voice fallback", message)
	assert.Equal(t, 0, resolver.textCalls)
	assert.Equal(t, 1, resolver.audioCalls)
}

func TestWebhook_RouteIntent_LogSalaryMissingParams(t *testing.T) {
	employer := model.User{ID: uuid.New(), Role: model.RoleEmployer}
	users := &mockUserStore{}
	users.On("GetByWhatsAppNumber", mock.Anything, "whatsapp:+1555").Return(employer, nil)

	resolver := &fakeResolver{textResult: nlp.Result{
		Intent: "LogSalary",
		Params: map[string]any{"sampatti_id": "AAA11111"},
	}}
	commands := &mockCommands{}

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From": {"whatsapp:+1555"},
		"Body": {"log salary AAA11111"},
	})

	assert.Equal(t, "Please provide the missing salary details (Worker ID, Amount).", message)
	commands.AssertNotCalled(t, "LogSalary", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhook_RouteIntent_RegisterPromptFromResolver(t *testing.T) {
	users := unknownSender("whatsapp:+1555")
	resolver := &fakeResolver{textResult: nlp.Result{
		Intent:   "RegisterUser",
		Fallback: "What is your Sampatti Card ID?",
	}}
	commands := &mockCommands{}

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From": {"whatsapp:+1555"},
		"Body": {"register"},
	})

	assert.Equal(t, "What is your Sampatti Card ID?", message)
}

func TestWebhook_RouteIntent_DefaultFallbackIntent(t *testing.T) {
	users := unknownSender("whatsapp:+1555")
	resolver := &fakeResolver{textResult: nlp.Result{Intent: "Default Fallback Intent"}}
	commands := &mockCommands{}
	commands.On("Fallback", (*model.User)(nil), "gibberish").
		Return("Sorry, I didn't understand 'gibberish'. Please register first using: register <YourSampattiID> <worker|employer>")

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From": {"whatsapp:+1555"},
		"Body": {"gibberish"},
	})

	assert.Equal(t, "Sorry, I didn't understand 'gibberish'. Please register first using: register <YourSampattiID> <worker|employer>", message)
	commands.AssertExpectations(t)
}

func TestWebhook_RouteIntent_UnmappedIntent(t *testing.T) {
	users := unknownSender("whatsapp:+1555")
	resolver := &fakeResolver{textResult: nlp.Result{Intent: "BookFlight"}}
	commands := &mockCommands{}

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From": {"whatsapp:+1555"},
		"Body": {"book me a flight"},
	})

	assert.Equal(t, "I understood you want to 'BookFlight', but I don't have a specific action for that yet.", message)
}

func TestWebhook_SenderLookupFailureStillReplies(t *testing.T) {
	users := &mockUserStore{}
	users.On("GetByWhatsAppNumber", mock.Anything, "whatsapp:+1555").
		Return(model.User{}, assert.AnError)

	resolver := &fakeResolver{textResult: nlp.Result{Intent: "CheckIn"}}
	commands := &mockCommands{}
	commands.On("Attendance", mock.Anything, (*model.User)(nil), model.LogTypeCheckIn).
		Return("You need to register first before logging attendance.")

	h := NewWebhookHandler(users, resolver, commands, testutil.MakeNoopLogger())

	_, message := postWebhook(t, h, url.Values{
		"From": {"whatsapp:+1555"},
		"Body": {"checkin"},
	})

	assert.Equal(t, "You need to register first before logging attendance.", message)
}
