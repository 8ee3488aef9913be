// Package storage persists generated scene assets (images, narration audio)
// and hands back URLs the rendering side can fetch.
package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"
)

// Object describes one stored asset.
type Object struct {
	Name    string    `json:"name"`
	URL     string    `json:"url"`
	Size    int64     `json:"size"`
	Updated time.Time `json:"updated"`
}

// Store is the asset persistence surface. Upload returns a URL that outlives
// the process; List and Delete operate within an owner's namespace.
type Store interface {
	Upload(ctx context.Context, data []byte, name, contentType string) (string, error)
	List(ctx context.Context, owner string) ([]Object, error)
	Delete(ctx context.Context, name string) error
}

// ObjectName builds the canonical scene-asset path. Assets are namespaced by
// owner and stamped so re-generations never overwrite each other.
func ObjectName(owner, kind string, scene int, ext string) string {
	return fmt.Sprintf("%s/%s_scene%d_%d.%s", owner, kind, scene, time.Now().UnixMilli(), ext)
}

// DataURL inlines data as a base64 data URL, the fallback when the store is
// unreachable so a generation can still finish with usable assets.
func DataURL(data []byte, contentType string) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
