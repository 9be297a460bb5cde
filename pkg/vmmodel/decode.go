package vmmodel

import (
	"fmt"

	"github.com/vendingops/vmconsole/pkg/clog"
	"github.com/vendingops/vmconsole/pkg/decoder"
	"github.com/vendingops/vmconsole/pkg/docstore"
)

// record is implemented by pointers to every model type.
type record[T any] interface {
	*T
	setID(id string)
}

// Decode strictly converts one document into T.
func Decode[T any, P record[T]](doc docstore.Document) (T, error) {
	out, err := decoder.DecodeMapStrict[T](doc.Fields)
	if err != nil {
		return out, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	P(&out).setID(doc.ID)
	return out, nil
}

// DecodeAll decodes every document, logging and skipping the malformed ones.
func DecodeAll[T any, P record[T]](collection string, docs []docstore.Document) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := Decode[T, P](doc)
		if err != nil {
			clog.UsingCtx(collection).Warnf("Skipping malformed document: %s", err)
			continue
		}
		out = append(out, v)
	}

	return out
}

// Fields converts a record back into document fields, without its id.
func Fields(v any) (map[string]any, error) {
	m, err := decoder.EncodeMap(v)
	if err != nil {
		return nil, err
	}

	delete(m, "id")
	return m, nil
}
