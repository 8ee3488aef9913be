// Package prompts holds the model-facing prompt templates. Defaults are
// compiled in; a prompts.yaml next to the binary overrides any of them.
package prompts

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

const defaultScript = `Create a viral short-form video script (TikTok/Reels) about: "{{.Topic}}". 15-30 seconds of content total.

CRITICAL:
1. Define one generic recurring main character, described in English.
2. Narration text ("text") MUST be in {{.Language}}, first person, at most 15 words per scene.
3. Image prompts ("imagePrompt") and the character description MUST be in English.
4. Pick one background music mood, ideally one of: Happy, Inspirational, Sad, Epic, Chill, Dark.`

const defaultGeminiImage = `Vertical photo, 9:16, 4k, high detail, no text overlays. Character: {{.Character}}. Action: {{.Action}}`

const defaultOpenAIImage = `Vertical aspect ratio 9:16. Photorealistic, cinematic 4k lighting. Main Character: {{.Character}}. Action: {{.Action}}. High detail, no text overlays.`

type Prompts struct {
	Script ScriptPrompts `yaml:"script"`
	Image  ImagePrompts  `yaml:"image"`
}

type ScriptPrompts struct {
	Instruction string `yaml:"instruction"`
}

type ImagePrompts struct {
	Gemini string `yaml:"gemini"`
	OpenAI string `yaml:"openai"`
}

type ScriptParams struct {
	Topic    string
	Language string
}

type ImageParams struct {
	Character string
	Action    string
}

func Default() *Prompts {
	return &Prompts{
		Script: ScriptPrompts{Instruction: defaultScript},
		Image:  ImagePrompts{Gemini: defaultGeminiImage, OpenAI: defaultOpenAIImage},
	}
}

// LoadFrom reads overrides from path; fields left empty keep their defaults.
func LoadFrom(path string) (*Prompts, error) {
	p := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	var override Prompts
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse prompts file: %w", err)
	}

	if override.Script.Instruction != "" {
		p.Script.Instruction = override.Script.Instruction
	}
	if override.Image.Gemini != "" {
		p.Image.Gemini = override.Image.Gemini
	}
	if override.Image.OpenAI != "" {
		p.Image.OpenAI = override.Image.OpenAI
	}
	return p, nil
}

var (
	activeOnce sync.Once
	active     *Prompts
)

// Active is the process-wide prompt set: prompts.yaml when present,
// otherwise the defaults.
func Active() *Prompts {
	activeOnce.Do(func() {
		if p, err := LoadFrom(defaultPromptsPath); err == nil {
			active = p
		} else {
			active = Default()
		}
	})
	return active
}

func (p *Prompts) RenderScript(params ScriptParams) (string, error) {
	return render(p.Script.Instruction, params)
}

func (p *Prompts) RenderGeminiImage(params ImageParams) (string, error) {
	return render(p.Image.Gemini, params)
}

func (p *Prompts) RenderOpenAIImage(params ImageParams) (string, error) {
	return render(p.Image.OpenAI, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
