package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shortsfactory/internal/provider"
	"shortsfactory/internal/script"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
}

func chatResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(body)
}

func TestGenerateScriptRoundTrip(t *testing.T) {
	payload, _ := json.Marshal(scriptPayload{
		CharacterDescription: "a weathered sailor",
		BackgroundMusicMood:  "Epic",
		Scenes: []scenePayload{
			{Text: "The storm came without warning", DurationInSeconds: 4, ImagePrompt: "towering waves at night"},
		},
	})

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatResponse(string(payload)))
	})

	s, err := c.GenerateScript(context.Background(), "storms at sea", script.LanguageEnglish)
	if err != nil {
		t.Fatalf("GenerateScript() error = %v", err)
	}
	if s.CharacterDescription != "a weathered sailor" || len(s.Scenes) != 1 {
		t.Errorf("GenerateScript() = %+v", s)
	}
	if s.Scenes[0].DurationInSeconds != 4 {
		t.Errorf("scene duration = %v", s.Scenes[0].DurationInSeconds)
	}
}

func TestGenerateScriptRejectsInvalidPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatResponse(`{"scenes": []}`))
	})

	if _, err := c.GenerateScript(context.Background(), "storms", script.LanguageEnglish); err == nil {
		t.Error("GenerateScript() accepted a script with no content")
	}
}

func TestGenerateImageDecodesBase64(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/images/generations") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		body, _ := json.Marshal(map[string]any{
			"created": 0,
			"data":    []map[string]any{{"b64_json": base64.StdEncoding.EncodeToString(png)}},
		})
		_, _ = w.Write(body)
	})

	data, err := c.GenerateImage(context.Background(), "a weathered sailor", "towering waves")
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if string(data) != string(png) {
		t.Errorf("GenerateImage() = %v", data)
	}
}

func TestGenerateSpeechStreamsMP3(t *testing.T) {
	mp3 := []byte{0xFF, 0xFB, 0x90, 0x00}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/speech") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(mp3)
	})

	sp, err := c.GenerateSpeech(context.Background(), "the storm came")
	if err != nil {
		t.Fatalf("GenerateSpeech() error = %v", err)
	}
	if sp.Format != provider.FormatMP3 {
		t.Errorf("format = %s, want mp3", sp.Format)
	}
	if string(sp.Audio) != string(mp3) {
		t.Errorf("audio = %v", sp.Audio)
	}
}

func TestPingListsModels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"object": "list", "data": []}`)
	})

	msg, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if !strings.Contains(msg, "OpenAI") {
		t.Errorf("Ping() = %q", msg)
	}
}
