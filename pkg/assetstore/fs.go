package assetstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FSStore writes assets under a root directory. A <file>.meta sidecar holds
// the content type. URLs are BaseURL + key; vmconsoled serves the root at
// /assets so BaseURL normally ends in "/assets/".
type FSStore struct {
	root    string
	baseURL string
}

type fsMeta struct {
	ContentType string            `json:"content_type"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func NewFSStore(root, baseURL string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create asset root: %w", err)
	}

	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &FSStore{root: root, baseURL: baseURL}, nil
}

func (s *FSStore) Driver() Driver { return DriverFilesystem }

func (s *FSStore) Root() string { return s.root }

func (s *FSStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid asset key %q", key)
	}

	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func (s *FSStore) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Ref, error) {
	if err := ctx.Err(); err != nil {
		return Ref{}, err
	}

	p, err := s.path(key)
	if err != nil {
		return Ref{}, err
	}

	if _, err := os.Stat(p); err == nil {
		return Ref{}, ErrExists
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return Ref{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return Ref{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	size, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return Ref{}, err
	}

	if err := os.Rename(tmp.Name(), p); err != nil {
		return Ref{}, err
	}

	meta, _ := json.Marshal(fsMeta{ContentType: opts.ContentType, Metadata: opts.Metadata})
	if err := os.WriteFile(p+".meta", meta, 0o644); err != nil {
		return Ref{}, err
	}

	return Ref{Key: key, URL: s.baseURL + key, ContentType: opts.ContentType, Size: size}, nil
}

func (s *FSStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.path(key)
	if err != nil {
		return ErrNotFound
	}

	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}

	_ = os.Remove(p + ".meta")
	return nil
}

func (s *FSStore) KeyForURL(assetURL string) string {
	return keyFromBase(s.baseURL, assetURL)
}
