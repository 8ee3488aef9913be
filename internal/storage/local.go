package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps assets on disk under a single root directory. URLs are
// built from baseURL, which the API server maps onto the same directory.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Upload(_ context.Context, data []byte, name, _ string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write asset %s: %w", name, err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *LocalStore) List(_ context.Context, owner string) ([]Object, error) {
	dir := filepath.Join(s.root, owner)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read asset dir %s: %w", dir, err)
	}

	var objects []Object
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		name := owner + "/" + entry.Name()
		objects = append(objects, Object{
			Name:    name,
			URL:     s.baseURL + "/" + name,
			Size:    info.Size(),
			Updated: info.ModTime().UTC().Truncate(time.Second),
		})
	}

	return objects, nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(name))); err != nil {
		return fmt.Errorf("delete asset %s: %w", name, err)
	}
	return nil
}
