package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// Verdict is a classifier's answer about one candidate preview
type Verdict int

const (
	VerdictYes Verdict = iota
	VerdictNo
	VerdictInconclusive
)

// Classifier decides whether a preview image satisfies both the subject and
// the action implied by a query
type Classifier interface {
	Classify(ctx context.Context, previewURL, query string) (Verdict, error)
}

// VisionClassifier asks a vision chat model for a YES/NO answer
type VisionClassifier struct {
	client *openai.Client
	model  string
}

// NewVisionClassifier creates a classifier backed by a vision model
func NewVisionClassifier(apiKey, model string) *VisionClassifier {
	return &VisionClassifier{client: openai.NewClient(apiKey), model: model}
}

func (v *VisionClassifier) Classify(ctx context.Context, previewURL, query string) (Verdict, error) {
	prompt := fmt.Sprintf(`Look at this image.
Does it accurately depict: %q?
The query may name both a subject and an action; the image must satisfy both.
Strict Rules: Answer ONLY 'YES' or 'NO'.`, query)

	resp, err := v.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: v.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: previewURL},
					},
				},
			},
		},
	})
	if err != nil {
		// rate limits and transport errors are inconclusive, not rejections
		return VerdictInconclusive, err
	}
	if len(resp.Choices) == 0 {
		return VerdictInconclusive, nil
	}

	answer := strings.ToUpper(strings.TrimSpace(resp.Choices[0].Message.Content))
	switch {
	case answer == "":
		return VerdictInconclusive, nil
	case strings.Contains(answer, "YES"):
		return VerdictYes, nil
	case strings.Contains(answer, "NO"):
		return VerdictNo, nil
	}
	return VerdictInconclusive, nil
}

// Verifier applies the fail-open policy on top of a classifier in one place:
// an inconclusive or erroring classification counts as acceptance so that
// verification trouble never stalls a run.
type Verifier struct {
	classifier Classifier
	failOpen   bool
	log        zerolog.Logger
}

// NewVerifier creates a Verifier. A nil classifier disables verification
// entirely (every candidate is accepted).
func NewVerifier(classifier Classifier, failOpen bool, log zerolog.Logger) *Verifier {
	return &Verifier{
		classifier: classifier,
		failOpen:   failOpen,
		log:        log.With().Str("component", "verify").Logger(),
	}
}

// Accept reports whether the candidate preview should be used for the query
func (v *Verifier) Accept(ctx context.Context, previewURL, query string) bool {
	if v.classifier == nil {
		return true
	}

	verdict, err := v.classifier.Classify(ctx, previewURL, query)
	if err != nil {
		v.log.Warn().Err(err).Str("query", query).Bool("fail_open", v.failOpen).
			Msg("classification errored")
		return v.failOpen
	}

	switch verdict {
	case VerdictYes:
		return true
	case VerdictNo:
		return false
	default:
		v.log.Debug().Str("query", query).Msg("classification inconclusive")
		return v.failOpen
	}
}
