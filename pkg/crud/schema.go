package crud

import (
	"fmt"
	"strings"

	"github.com/vendingops/vmconsole/pkg/docstore"
)

// Entity is a persisted document as the console sees it.
type Entity = docstore.Document

// Schema describes one editable collection.
type Schema struct {
	Collection string
	Required   []string

	// NameField defaults to "name" and is the secondary sort key.
	NameField string
	// CategoryField, when set, is the primary sort key.
	CategoryField string

	// AssetField names the field holding the entity's asset URL.
	AssetField  string
	AssetPrefix string

	// Validate returns field -> problem for values that are present but wrong.
	Validate func(fields map[string]any) map[string]string
	// Prepare derives fields just before a write, after validation.
	Prepare func(fields map[string]any) error
}

func (s Schema) nameField() string {
	if s.NameField == "" {
		return "name"
	}

	return s.NameField
}

func (s Schema) validate(fields map[string]any) error {
	verr := &ValidationError{}
	for _, name := range s.Required {
		if isBlank(fields[name]) {
			verr.Missing = append(verr.Missing, name)
		}
	}

	if s.Validate != nil {
		verr.Invalid = s.Validate(fields)
	}

	if verr.empty() {
		return nil
	}

	return verr
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return false
	}
}

// StringField reads a string field, formatting numbers and the like.
func StringField(fields map[string]any, name string) string {
	switch v := fields[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
