package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"

	"shortsfactory/internal/audio"
	"shortsfactory/internal/provider"
	"shortsfactory/internal/script"
	"shortsfactory/internal/settings"
	"shortsfactory/pkg/prompts"
	"shortsfactory/pkg/retry"
)

const (
	scriptModel    = "gemini-3-flash-preview"
	imageModel     = "gemini-2.5-flash-image"
	imageModelPro  = "gemini-3-pro-image-preview"
	ttsModel       = "gemini-2.5-flash-preview-tts"
	narratorVoice  = "Kore"
	sceneDelay     = 1500 * time.Millisecond
	proTierDelay   = 3 * time.Second
	pingDelay      = 1 * time.Second
	ttsSampleRate  = audio.DefaultSampleRate
	imageAspect    = "9:16"
	proTierSize    = "1K"
	pingAttempts   = 2
	proTierRetries = 2
)

var sceneSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"text":              {Type: genai.TypeString},
		"durationInSeconds": {Type: genai.TypeNumber},
		"imagePrompt":       {Type: genai.TypeString},
	},
	Required: []string{"text", "durationInSeconds", "imagePrompt"},
}

var videoScriptSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"characterDescription": {Type: genai.TypeString},
		"scenes":               {Type: genai.TypeArray, Items: sceneSchema},
		"backgroundMusicMood":  {Type: genai.TypeString},
	},
	Required: []string{"characterDescription", "scenes", "backgroundMusicMood"},
}

type Config struct {
	APIKey  string
	BaseURL string // override for tests
}

type Client struct {
	client *genai.Client
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) ID() settings.Provider     { return settings.ProviderGemini }
func (c *Client) SceneDelay() time.Duration { return sceneDelay }

func (c *Client) GenerateScript(ctx context.Context, topic string, lang script.Language) (*script.VideoScript, error) {
	prompt, err := prompts.Active().RenderScript(prompts.ScriptParams{
		Topic:    topic,
		Language: lang.PromptName(),
	})
	if err != nil {
		return nil, fmt.Errorf("render script prompt: %w", err)
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   videoScriptSchema,
	}

	resp, err := retry.Do(ctx, retry.Config{}, func() (*genai.GenerateContentResponse, error) {
		resp, err := c.client.Models.GenerateContent(ctx, scriptModel, genai.Text(prompt), config)
		return resp, classify(err)
	})
	if err != nil {
		return nil, fmt.Errorf("gemini script generation: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini script generation: empty response")
	}

	var result script.VideoScript
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("parse gemini script response: %w", err)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gemini script: %w", err)
	}
	return &result, nil
}

func (c *Client) GenerateImage(ctx context.Context, characterDesc, imagePrompt string) ([]byte, error) {
	prompt, err := prompts.Active().RenderGeminiImage(prompts.ImageParams{
		Character: characterDesc,
		Action:    imagePrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("render image prompt: %w", err)
	}

	data, err := c.generateImageWithModel(ctx, imageModel, prompt, &genai.ImageConfig{AspectRatio: imageAspect}, retry.Config{})
	if err == nil {
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	slog.Warn("Gemini flash image tier failed, trying pro", "error", err)

	return c.generateImageWithModel(ctx, imageModelPro, prompt,
		&genai.ImageConfig{AspectRatio: imageAspect, ImageSize: proTierSize},
		retry.Config{MaxAttempts: proTierRetries, InitialDelay: proTierDelay},
	)
}

func (c *Client) generateImageWithModel(ctx context.Context, model, prompt string, imgCfg *genai.ImageConfig, retryCfg retry.Config) ([]byte, error) {
	config := &genai.GenerateContentConfig{ImageConfig: imgCfg}

	resp, err := retry.Do(ctx, retryCfg, func() (*genai.GenerateContentResponse, error) {
		resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
		return resp, classify(err)
	})
	if err != nil {
		return nil, fmt.Errorf("gemini image generation (%s): %w", model, err)
	}

	for _, part := range contentParts(resp) {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, fmt.Errorf("gemini image generation (%s): no image in response", model)
}

func (c *Client) GenerateSpeech(ctx context.Context, text string) (*provider.Speech, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: narratorVoice},
			},
		},
	}

	resp, err := retry.Do(ctx, retry.Config{}, func() (*genai.GenerateContentResponse, error) {
		resp, err := c.client.Models.GenerateContent(ctx, ttsModel, genai.Text(text), config)
		return resp, classify(err)
	})
	if err != nil {
		return nil, fmt.Errorf("gemini speech synthesis: %w", err)
	}

	for _, part := range contentParts(resp) {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &provider.Speech{
				Audio:      part.InlineData.Data,
				Format:     provider.FormatPCM,
				SampleRate: ttsSampleRate,
			}, nil
		}
	}
	return nil, fmt.Errorf("gemini speech synthesis: no audio in response")
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	_, err := retry.Do(ctx, retry.Config{MaxAttempts: pingAttempts, InitialDelay: pingDelay},
		func() (*genai.GenerateContentResponse, error) {
			resp, err := c.client.Models.GenerateContent(ctx, scriptModel, genai.Text("Ping"), nil)
			return resp, classify(err)
		})
	if err != nil {
		return "", err
	}
	return "Connected to Gemini 3 Flash", nil
}

func contentParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return retry.RateLimit(err)
	}
	return err
}
