package assetstore

import (
	"path"
	"strings"

	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
)

// NewKey builds a key under prefix for an uploaded file. The random part
// keeps two uploads of "logo.png" from colliding; the slug keeps the key
// readable.
func NewKey(prefix, filename string) (string, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", err
	}

	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	name := slug.Make(strings.TrimSuffix(base, path.Ext(base)))
	if name == "" {
		name = "file"
	}

	prefix = strings.TrimSuffix(prefix, "/")
	return prefix + "/" + id[:8] + "-" + name + ext, nil
}
