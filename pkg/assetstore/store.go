// Package assetstore holds the binary files (brand logos, flavor images, ad
// media, profile pictures) that documents point at by URL.
package assetstore

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
)

type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

var (
	ErrNotFound = errors.New("asset not found")
	ErrExists   = errors.New("asset already exists")
)

type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Ref is what a successful Put hands back. URL is what gets stored in the
// owning document.
type Ref struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
}

// Store puts and deletes assets by key. KeyForURL maps a stored URL back to
// its key; URLs the store does not recognise come back unchanged so that
// Delete can report ErrNotFound for them.
type Store interface {
	Driver() Driver
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Ref, error)
	Delete(ctx context.Context, key string) error
	KeyForURL(assetURL string) string
}

// DeleteURL deletes the asset a document refers to.
func DeleteURL(ctx context.Context, s Store, assetURL string) error {
	return s.Delete(ctx, s.KeyForURL(assetURL))
}

// keyFromBase strips base from assetURL. It also understands the download
// URLs written by the hosted storage the console's data was first kept in
// (".../o/<escaped key>?alt=media"), so documents carried over from it can
// still have their assets cleaned up.
func keyFromBase(base, assetURL string) string {
	if base != "" && strings.HasPrefix(assetURL, base) {
		key, err := url.PathUnescape(strings.TrimPrefix(assetURL, base))
		if err == nil {
			return key
		}
	}

	u, err := url.Parse(assetURL)
	if err != nil {
		return assetURL
	}

	if i := strings.Index(u.EscapedPath(), "/o/"); i >= 0 {
		if key, err := url.PathUnescape(u.EscapedPath()[i+3:]); err == nil {
			return key
		}
	}

	return assetURL
}
