package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/caresync/clinic-scheduler/internal/appointments"
	"github.com/caresync/clinic-scheduler/pkg/logging"
)

// Fallback replaces the generated summary whenever the model call fails.
// Summarization is best-effort and never blocks a booking.
const Fallback = "Could not generate summary. Please review patient information manually."

// GeminiSummarizer produces clinical intake summaries with Google's Gemini API.
type GeminiSummarizer struct {
	client  *genai.Client
	modelID string
	logger  *logging.Logger
}

// NewGeminiSummarizer creates a Gemini-backed summarizer.
func NewGeminiSummarizer(ctx context.Context, apiKey, modelID string, logger *logging.Logger) (*GeminiSummarizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("summarize: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}
	if logger == nil {
		logger = logging.Default()
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("summarize: failed to create gemini client: %w", err)
	}
	return &GeminiSummarizer{client: client, modelID: modelID, logger: logger}, nil
}

// Summarize returns a one-to-two sentence clinical note for the doctor. Any
// model failure is logged and replaced with the fixed fallback text.
func (g *GeminiSummarizer) Summarize(ctx context.Context, intake appointments.Intake) string {
	model := g.client.GenerativeModel(g.modelID)
	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(intake)))
	if err != nil {
		g.logger.Error("gemini summarization failed", "error", err)
		return Fallback
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		g.logger.Warn("gemini returned no candidates")
		return Fallback
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	summary := strings.TrimSpace(text.String())
	if summary == "" {
		g.logger.Warn("gemini returned empty summary")
		return Fallback
	}
	return summary
}

// Close releases resources held by the Gemini client.
func (g *GeminiSummarizer) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func buildPrompt(intake appointments.Intake) string {
	return fmt.Sprintf(
		"You are a helpful medical assistant. Summarize the following patient information "+
			"into a concise, one or two-sentence note for a doctor. Focus on the key complaints, "+
			"duration, severity, and relevant medical details such as allergies, medications, "+
			"medical history, and any additional notes provided.\n\n"+
			"Patient Symptoms: %q\n"+
			"Known Allergies: %q\n"+
			"Current Medication: %q\n"+
			"Medical History: %q\n"+
			"Additional Notes: %q\n\n"+
			"Summary:",
		intake.Symptoms,
		orNone(intake.KnownAllergies),
		orNone(intake.CurrentMedication),
		orNone(intake.MedicalHistory),
		orNone(intake.AdditionalNote),
	)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None provided"
	}
	return s
}

// StubSummarizer returns a deterministic note without calling any model, for
// local runs and tests.
type StubSummarizer struct{}

// Summarize echoes the reported symptoms as the clinical note.
func (StubSummarizer) Summarize(_ context.Context, intake appointments.Intake) string {
	symptoms := strings.TrimSpace(intake.Symptoms)
	if symptoms == "" {
		return Fallback
	}
	return "Patient reports: " + symptoms
}

// Ensure interface compliance
var _ appointments.Summarizer = (*GeminiSummarizer)(nil)
var _ appointments.Summarizer = StubSummarizer{}
