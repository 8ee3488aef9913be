package script

import (
	"fmt"
	"math"
)

// Language selects the narration language of a generated script. Image
// prompts and the character description stay in English regardless.
type Language string

const (
	LanguagePortuguese Language = "pt-BR"
	LanguageEnglish    Language = "en-US"
	LanguageSpanish    Language = "es-ES"
)

func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LanguagePortuguese, LanguageEnglish, LanguageSpanish:
		return Language(s), nil
	case "":
		return LanguageEnglish, nil
	}
	return "", fmt.Errorf("unknown language: %q", s)
}

// PromptName is the spelled-out language name used inside model prompts.
func (l Language) PromptName() string {
	switch l {
	case LanguagePortuguese:
		return "Portuguese (Brazil)"
	case LanguageSpanish:
		return "Spanish"
	default:
		return "English (USA)"
	}
}

// Scene is one narrated, timed segment of the output video.
type Scene struct {
	Text              string  `json:"text"`
	DurationInSeconds float64 `json:"durationInSeconds"`
	ImagePrompt       string  `json:"imagePrompt"`
	ImageURL          string  `json:"imageUrl,omitempty"`
	AudioURL          string  `json:"audioUrl,omitempty"`
}

// VideoScript is the root document handed to the renderer. Scene order is
// playback order.
type VideoScript struct {
	CharacterDescription string  `json:"characterDescription"`
	Scenes               []Scene `json:"scenes"`
	BackgroundMusicMood  string  `json:"backgroundMusicMood"`
}

// MusicMoods are the track-library labels the renderer can resolve. The
// script prompt steers the model toward them; the renderer fuzzy-matches
// whatever comes back.
var MusicMoods = []string{"Happy", "Inspirational", "Sad", "Epic", "Chill", "Dark"}

// Validate checks the structural invariants of a freshly generated script,
// before assets are attached. A script that fails here is discarded whole.
func (s *VideoScript) Validate() error {
	if s.CharacterDescription == "" {
		return fmt.Errorf("script missing character description")
	}
	if s.BackgroundMusicMood == "" {
		return fmt.Errorf("script missing background music mood")
	}
	if len(s.Scenes) == 0 {
		return fmt.Errorf("script has no scenes")
	}
	for i, scene := range s.Scenes {
		if scene.Text == "" {
			return fmt.Errorf("scene %d missing narration text", i)
		}
		if scene.ImagePrompt == "" {
			return fmt.Errorf("scene %d missing image prompt", i)
		}
		if scene.DurationInSeconds <= 0 || math.IsNaN(scene.DurationInSeconds) {
			return fmt.Errorf("scene %d has invalid duration %v", i, scene.DurationInSeconds)
		}
	}
	return nil
}

// TotalDuration is the playback length in seconds.
func (s *VideoScript) TotalDuration() float64 {
	var total float64
	for _, scene := range s.Scenes {
		total += scene.DurationInSeconds
	}
	return total
}
