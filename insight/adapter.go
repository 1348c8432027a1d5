package insight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/insight-snapshot/insight/provider"
)

const DefaultModel = "gpt-5-mini"

// CredentialSource yields the API key. It is consulted once per request.
type CredentialSource func() string

// EnvCredential reads the first non-blank variable among names.
func EnvCredential(names ...string) CredentialSource {
	return func() string {
		for _, name := range names {
			if v := strings.TrimSpace(os.Getenv(name)); v != "" {
				return v
			}
		}
		return ""
	}
}

// StaticCredential always yields key.
func StaticCredential(key string) CredentialSource {
	return func() string { return key }
}

// DefaultCredential reads API_KEY, then OPENAI_API_KEY.
var DefaultCredential = EnvCredential("API_KEY", "OPENAI_API_KEY")

// AdapterConfig configures an Adapter.
type AdapterConfig struct {
	// Model is the model identifier sent with each request (defaults to DefaultModel).
	Model string

	// BaseURL overrides the API endpoint; empty uses the client default.
	BaseURL string

	// MaxOutputTokens caps the response size; 0 leaves it to the provider.
	MaxOutputTokens int64

	// Credential resolves the API key (defaults to DefaultCredential).
	Credential CredentialSource

	Logger *zap.Logger
}

// Adapter turns a reflection into a Result with a single structured-output request.
type Adapter struct {
	model           string
	baseURL         string
	maxOutputTokens int64
	credential      CredentialSource
	logger          *zap.Logger
}

var resultSchema = provider.GenerateSchema[Result]()

// NewAdapter builds an Adapter from cfg, filling defaults.
func NewAdapter(cfg AdapterConfig) *Adapter {
	a := &Adapter{
		model:           strings.TrimSpace(cfg.Model),
		baseURL:         strings.TrimSpace(cfg.BaseURL),
		maxOutputTokens: cfg.MaxOutputTokens,
		credential:      cfg.Credential,
		logger:          cfg.Logger,
	}
	if a.model == "" {
		a.model = DefaultModel
	}
	if a.credential == nil {
		a.credential = DefaultCredential
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	return a
}

// Model returns the model identifier used for requests.
func (a *Adapter) Model() string {
	return a.model
}

// GenerateInsight sends reflection to the model once and returns the validated Result.
func (a *Adapter) GenerateInsight(ctx context.Context, reflection string) (Result, error) {
	if a == nil {
		return Result{}, errors.New("Adapter: adapter is nil")
	}
	if ctx == nil {
		return Result{}, errors.New("Adapter: ctx is nil")
	}

	apiKey := strings.TrimSpace(a.credential())
	if apiKey == "" {
		return Result{}, ErrMissingCredential
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if a.baseURL != "" {
		opts = append(opts, option.WithBaseURL(a.baseURL))
	}
	client := openai.NewClient(opts...)

	start := time.Now()
	resp, err := client.Responses.New(ctx, a.buildParams(reflection))
	if err != nil {
		a.logger.Debug("insight request failed",
			zap.String("model", a.model),
			zap.Int("status", provider.StatusCode(err)),
			zap.Bool("rate_limited", provider.IsRateLimitError(err)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return Result{}, classifyProviderError(err)
	}

	text := resp.OutputText()
	a.logger.Debug("insight response received",
		zap.String("model", a.model),
		zap.String("response_id", resp.ID),
		zap.Int("output_len", len(text)),
		zap.Duration("elapsed", time.Since(start)))

	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyResponse
	}
	return ParseResult(text)
}

func (a *Adapter) buildParams(reflection string) responses.ResponseNewParams {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "InsightSnapshot",
			Schema:      resultSchema,
			Strict:      openai.Bool(false),
			Description: openai.String("Structured insight snapshot JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:        a.model,
		Instructions: openai.String(coachInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(buildTaskPrompt(reflection), responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}
	if a.maxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(a.maxOutputTokens)
	}
	return params
}

func buildTaskPrompt(reflection string) string {
	return fmt.Sprintf("Analyze this work reflection and provide a structured insight snapshot: \"%s\"", reflection)
}

func classifyProviderError(err error) error {
	if provider.IsAuthError(err) {
		return &InvalidCredentialError{StatusCode: provider.StatusCode(err), Err: err}
	}
	return &UpstreamError{Err: err}
}
