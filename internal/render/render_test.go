package render

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shortsfactory/internal/script"
)

func testScript() *script.VideoScript {
	return &script.VideoScript{
		CharacterDescription: "a curious fox",
		BackgroundMusicMood:  "Happy",
		Scenes: []script.Scene{
			{Text: "Hello", DurationInSeconds: 2.5, ImagePrompt: "fox waving"},
			{Text: "Bye", DurationInSeconds: 3, ImagePrompt: "fox leaving"},
		},
	}
}

func TestTotalFrames(t *testing.T) {
	tests := []struct {
		name   string
		script *script.VideoScript
		want   int
	}{
		{name: "nilScript", script: nil, want: DefaultDurationFrames},
		{name: "noScenes", script: &script.VideoScript{}, want: DefaultDurationFrames},
		{name: "twoScenes", script: testScript(), want: 165}, // ceil(5.5 * 30)
		{
			name: "fractionRoundsUp",
			script: &script.VideoScript{Scenes: []script.Scene{
				{DurationInSeconds: 2.01},
			}},
			want: 61,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalFrames(tt.script); got != tt.want {
				t.Errorf("TotalFrames() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSafeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Deep Sea Creatures", "deep_sea_creatures"},
		{"  what?!  ", "what"},
		{"", "video"},
		{"???", "video"},
	}

	for _, tt := range tests {
		if got := SafeTitle(tt.in); got != tt.want {
			t.Errorf("SafeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCommandEscapesSingleQuotes(t *testing.T) {
	s := testScript()
	s.Scenes[0].Text = "It's here"

	cmd, err := Command(s, "fox facts")
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}

	if !strings.HasPrefix(cmd, "npx remotion render src/index.tsx VideoComposition out/fox_facts.mp4 --props='") {
		t.Errorf("Command() prefix wrong: %s", cmd)
	}
	if !strings.Contains(cmd, `It'\''s here`) {
		t.Errorf("Command() did not escape single quote: %s", cmd)
	}
}

func TestClientRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/render-video" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		_, _ = w.Write([]byte("mp4-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	var buf bytes.Buffer
	if err := c.Render(context.Background(), testScript(), "fox facts", &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if buf.String() != "mp4-bytes" {
		t.Errorf("Render() body = %q", buf.String())
	}
}

func TestClientRenderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Invalid script provided"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	err := c.Render(context.Background(), &script.VideoScript{}, "x", &bytes.Buffer{})
	if err == nil {
		t.Fatal("Render() expected error")
	}
	if !strings.Contains(err.Error(), "Invalid script provided") {
		t.Errorf("Render() error = %v", err)
	}
}

func TestClientHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}
