package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"shortsfactory/internal/provider"
	"shortsfactory/internal/script"
	"shortsfactory/internal/settings"
	"shortsfactory/pkg/prompts"
	"shortsfactory/pkg/retry"
)

const (
	scriptModel   = openai.ChatModelGPT4o
	imageModel    = openai.ImageModelDallE3
	speechModel   = openai.SpeechModelTTS1
	narratorVoice = openai.AudioSpeechNewParamsVoice("onyx")
)

// Wire shape for structured script output. Asset URLs are attached later by
// the orchestrator, so they stay out of the schema.
type scenePayload struct {
	Text              string  `json:"text" jsonschema_description:"Scene narration, first person"`
	DurationInSeconds float64 `json:"durationInSeconds" jsonschema_description:"Estimated narration length in seconds"`
	ImagePrompt       string  `json:"imagePrompt" jsonschema_description:"English visual prompt for this scene"`
}

type scriptPayload struct {
	CharacterDescription string         `json:"characterDescription" jsonschema_description:"Recurring main character, described in English"`
	Scenes               []scenePayload `json:"scenes"`
	BackgroundMusicMood  string         `json:"backgroundMusicMood" jsonschema_description:"One mood label, e.g. Happy or Epic"`
}

var videoScriptSchema = func() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v scriptPayload
	return r.Reflect(v)
}()

func responseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "video_script",
		Description: openai.String("Short-form vertical video script with scenes"),
		Schema:      videoScriptSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}

type Config struct {
	APIKey  string
	BaseURL string // override for tests
}

type Client struct {
	client openai.Client
}

func NewClient(cfg Config) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{client: openai.NewClient(opts...)}
}

func (c *Client) ID() settings.Provider     { return settings.ProviderOpenAI }
func (c *Client) SceneDelay() time.Duration { return 0 }

func (c *Client) GenerateScript(ctx context.Context, topic string, lang script.Language) (*script.VideoScript, error) {
	prompt, err := prompts.Active().RenderScript(prompts.ScriptParams{
		Topic:    topic,
		Language: lang.PromptName(),
	})
	if err != nil {
		return nil, fmt.Errorf("render script prompt: %w", err)
	}
	params := openai.ChatCompletionNewParams{
		Model: scriptModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You write viral short-form video scripts. Respond with JSON only."),
			openai.UserMessage(prompt),
		},
		ResponseFormat: responseFormat(),
	}

	resp, err := retry.Do(ctx, retry.Config{}, func() (*openai.ChatCompletion, error) {
		resp, err := c.client.Chat.Completions.New(ctx, params)
		return resp, classify(err)
	})
	if err != nil {
		return nil, fmt.Errorf("openai script generation: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("openai script generation: empty completion")
	}

	var payload scriptPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("parse openai script response: %w", err)
	}

	result := &script.VideoScript{
		CharacterDescription: payload.CharacterDescription,
		BackgroundMusicMood:  payload.BackgroundMusicMood,
		Scenes:               make([]script.Scene, len(payload.Scenes)),
	}
	for i, s := range payload.Scenes {
		result.Scenes[i] = script.Scene{
			Text:              s.Text,
			DurationInSeconds: s.DurationInSeconds,
			ImagePrompt:       s.ImagePrompt,
		}
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid openai script: %w", err)
	}
	return result, nil
}

func (c *Client) GenerateImage(ctx context.Context, characterDesc, imagePrompt string) ([]byte, error) {
	prompt, err := prompts.Active().RenderOpenAIImage(prompts.ImageParams{
		Character: characterDesc,
		Action:    imagePrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("render image prompt: %w", err)
	}
	params := openai.ImageGenerateParams{
		Model:          imageModel,
		Prompt:         prompt,
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1024x1792,
		Quality:        openai.ImageGenerateParamsQualityStandard,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	}

	resp, err := retry.Do(ctx, retry.Config{}, func() (*openai.ImagesResponse, error) {
		resp, err := c.client.Images.Generate(ctx, params)
		return resp, classify(err)
	})
	if err != nil {
		return nil, fmt.Errorf("openai image generation: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("openai image generation: no image in response")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode openai image payload: %w", err)
	}
	return data, nil
}

func (c *Client) GenerateSpeech(ctx context.Context, text string) (*provider.Speech, error) {
	params := openai.AudioSpeechNewParams{
		Model:          speechModel,
		Voice:          narratorVoice,
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	}

	audio, err := retry.Do(ctx, retry.Config{}, func() ([]byte, error) {
		resp, err := c.client.Audio.Speech.New(ctx, params)
		if err != nil {
			return nil, classify(err)
		}
		defer func() { _ = resp.Body.Close() }()
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech synthesis: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("openai speech synthesis: empty audio stream")
	}

	return &provider.Speech{Audio: audio, Format: provider.FormatMP3}, nil
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	_, err := retry.Do(ctx, retry.Config{MaxAttempts: 2, InitialDelay: time.Second},
		func() (struct{}, error) {
			_, err := c.client.Models.List(ctx)
			return struct{}{}, classify(err)
		})
	if err != nil {
		return "", err
	}
	return "Connected to OpenAI (GPT-4o)", nil
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return retry.RateLimit(err)
	}
	return err
}
