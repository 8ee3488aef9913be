// Package render turns a finished script into the inputs the Remotion
// rendering side consumes: composition math, the CLI render command, and a
// client for the render server.
package render

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"shortsfactory/internal/script"
)

// Composition geometry shared with the Remotion project.
const (
	FPS    = 30
	Width  = 1080
	Height = 1920

	// DefaultDurationFrames backs an empty composition (5 seconds).
	DefaultDurationFrames = 150
)

// TotalFrames is the composition length for s at FPS.
func TotalFrames(s *script.VideoScript) int {
	if s == nil || len(s.Scenes) == 0 {
		return DefaultDurationFrames
	}
	return int(math.Ceil(s.TotalDuration() * FPS))
}

// SceneFrames is one scene's length in frames.
func SceneFrames(sc script.Scene) int {
	return int(math.Ceil(sc.DurationInSeconds * FPS))
}

var unsafeTitleChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SafeTitle reduces a topic to a filename-safe slug.
func SafeTitle(title string) string {
	s := strings.ToLower(unsafeTitleChars.ReplaceAllString(title, "_"))
	s = strings.Trim(s, "_")
	if s == "" {
		return "video"
	}
	return s
}

// Command builds the copy-pasteable CLI render invocation for s. The props
// JSON rides inside single quotes, so embedded single quotes are closed,
// escaped and reopened the shell way.
func Command(s *script.VideoScript, title string) (string, error) {
	props, err := json.Marshal(map[string]*script.VideoScript{"script": s})
	if err != nil {
		return "", fmt.Errorf("marshal render props: %w", err)
	}
	safeProps := strings.ReplaceAll(string(props), `'`, `'\''`)

	return fmt.Sprintf(
		"npx remotion render src/index.tsx VideoComposition out/%s.mp4 --props='%s'",
		SafeTitle(title), safeProps,
	), nil
}
