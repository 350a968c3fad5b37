package nlp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	dialogflow "cloud.google.com/go/dialogflow/apiv2"
	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/logger"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/twilio"
)

// Voice messages arrive from WhatsApp as OGG/Opus at 16kHz.
const (
	audioEncoding   = dialogflowpb.AudioEncoding_AUDIO_ENCODING_OGG_OPUS
	audioSampleRate = 16000
)

const detectTimeout = 15 * time.Second

// Result is the uniform outcome of intent detection. A zero Result means
// detection failed or was not possible; Fallback without Intent carries a
// user-facing message that should be sent verbatim.
type Result struct {
	Intent   string
	Params   map[string]any
	Fallback string
}

// sessionsAPI is the subset of *dialogflow.SessionsClient the resolver uses,
// extracted so tests can inject a fake without Google credentials.
type sessionsAPI interface {
	DetectIntent(ctx context.Context, req *dialogflowpb.DetectIntentRequest, opts ...gax.CallOption) (*dialogflowpb.DetectIntentResponse, error)
	Close() error
}

// MediaFetcher downloads a voice attachment for audio intent detection.
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// Resolver wraps the Dialogflow sessions API for text and audio input.
// All collaborator failures are classified and swallowed; no error escapes.
type Resolver struct {
	projectID   string
	newSessions func(ctx context.Context) (sessionsAPI, error)
	fetcher     MediaFetcher
	logger      *logger.Logger
}

// NewResolver creates a resolver for the given agent project. When
// credentialsFile is empty the client falls back to application default
// credentials.
func NewResolver(projectID, credentialsFile string, fetcher MediaFetcher, logger *logger.Logger) *Resolver {
	return &Resolver{
		projectID: projectID,
		newSessions: func(ctx context.Context) (sessionsAPI, error) {
			var opts []option.ClientOption
			if credentialsFile != "" {
				opts = append(opts, option.WithCredentialsFile(credentialsFile))
			}
			return dialogflow.NewSessionsClient(ctx, opts...)
		},
		fetcher: fetcher,
		logger:  logger,
	}
}

// DetectText resolves an intent from message text. Empty text or a missing
// project ID short-circuits to a zero Result without calling the collaborator.
func (r *Resolver) DetectText(ctx context.Context, sessionID, text, languageCode string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{}
	}
	if r.projectID == "" {
		r.logger.Error("Intent resolver: project ID not configured, skipping text detection")
		return Result{}
	}

	client, err := r.newSessions(ctx)
	if err != nil {
		r.logger.Error("Intent resolver: failed to create sessions client", "error", err.Error())
		return Result{}
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	resp, err := client.DetectIntent(ctx, &dialogflowpb.DetectIntentRequest{
		Session: r.sessionPath(sessionID),
		QueryInput: &dialogflowpb.QueryInput{
			Input: &dialogflowpb.QueryInput_Text{
				Text: &dialogflowpb.TextInput{
					Text:         text,
					LanguageCode: languageCode,
				},
			},
		},
	})
	if err != nil {
		r.logger.Error("Intent resolver: text detection failed",
			"session_id", sessionID,
			"error", err.Error())
		return Result{}
	}

	return resultFromQuery(resp.GetQueryResult())
}

// DetectAudio downloads the voice attachment and resolves an intent from its
// content. Download and recognition failures come back as user-facing
// fallback text per failure class.
func (r *Resolver) DetectAudio(ctx context.Context, sessionID, audioURL, languageCode string) Result {
	if audioURL == "" {
		return Result{}
	}
	if r.projectID == "" {
		r.logger.Error("Intent resolver: project ID not configured, skipping audio detection")
		return Result{}
	}

	audio, res := r.fetchAudio(ctx, sessionID, audioURL)
	if res != nil {
		return *res
	}

	client, err := r.newSessions(ctx)
	if err != nil {
		r.logger.Error("Intent resolver: failed to create sessions client", "error", err.Error())
		return Result{}
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	resp, err := client.DetectIntent(ctx, &dialogflowpb.DetectIntentRequest{
		Session: r.sessionPath(sessionID),
		QueryInput: &dialogflowpb.QueryInput{
			Input: &dialogflowpb.QueryInput_AudioConfig{
				AudioConfig: &dialogflowpb.InputAudioConfig{
					AudioEncoding:   audioEncoding,
					SampleRateHertz: audioSampleRate,
					LanguageCode:    languageCode,
				},
			},
		},
		InputAudio: audio,
	})
	if err != nil {
		r.logger.Error("Intent resolver: audio detection failed",
			"session_id", sessionID,
			"error", err.Error())
		return Result{Fallback: classifyDetectError(err)}
	}

	qr := resp.GetQueryResult()
	if qr.GetQueryText() == "" {
		r.logger.Info("Intent resolver: no speech detected in audio", "session_id", sessionID)
	}

	return resultFromQuery(qr)
}

func (r *Resolver) fetchAudio(ctx context.Context, sessionID, audioURL string) ([]byte, *Result) {
	body, err := r.fetcher.Fetch(ctx, audioURL)
	if err != nil {
		if errors.Is(err, twilio.ErrNoCredentials) {
			r.logger.Error("Intent resolver: twilio credentials not configured, skipping audio detection")
			return nil, &Result{}
		}
		r.logger.Error("Intent resolver: failed to download audio",
			"session_id", sessionID,
			"error", err.Error())
		var httpErr *twilio.HTTPError
		if errors.As(err, &httpErr) && httpErr.Unauthorized() {
			return nil, &Result{Fallback: "Error: Could not authenticate to download voice message. Please check credentials."}
		}
		return nil, &Result{Fallback: "Error: Could not download voice message from URL."}
	}
	defer body.Close()

	audio, err := io.ReadAll(body)
	if err != nil {
		r.logger.Error("Intent resolver: failed to read audio body",
			"session_id", sessionID,
			"error", err.Error())
		return nil, &Result{Fallback: "Error: Could not download voice message from URL."}
	}

	return audio, nil
}

func (r *Resolver) sessionPath(sessionID string) string {
	return fmt.Sprintf("projects/%s/agent/sessions/%s", r.projectID, sessionID)
}

func resultFromQuery(qr *dialogflowpb.QueryResult) Result {
	res := Result{
		Intent:   qr.GetIntent().GetDisplayName(),
		Fallback: qr.GetFulfillmentText(),
	}
	if params := qr.GetParameters(); params != nil {
		res.Params = params.AsMap()
	}

	return res
}

// classifyDetectError maps a recognition failure to the user-facing reply.
func classifyDetectError(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return "Sorry, there was an API error processing your voice message."
	}

	switch st.Code() {
	case codes.InvalidArgument:
		if strings.Contains(strings.ToLower(st.Message()), "encoding") {
			return "Sorry, the audio format of your voice message is not supported."
		}
	case codes.PermissionDenied:
		return "Error: Permission issue accessing Dialogflow API."
	case codes.DeadlineExceeded, codes.ResourceExhausted, codes.Unavailable:
		return "Sorry, the voice recognition service is busy or timed out. Please try again."
	}

	return "Sorry, there was an API error processing your voice message."
}
