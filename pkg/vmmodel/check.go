package vmmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/vendingops/vmconsole/pkg/decoder"
)

// Check reports the fields a write would store that T could not read back:
// fields T does not declare and values of the wrong type. It returns nil
// when fields decode cleanly into T.
func Check[T any](fields map[string]any) map[string]string {
	known := jsonNames(reflect.TypeFor[T]())

	invalid := map[string]string{}
	for name := range fields {
		if !known[name] {
			invalid[name] = "unknown field"
		}
	}
	if len(invalid) > 0 {
		return invalid
	}

	_, err := decoder.DecodeMapStrict[T](fields)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		invalid[typeErr.Field] = fmt.Sprintf("must be a %s, not a %s", typeErr.Type, typeErr.Value)
	} else {
		invalid["fields"] = err.Error()
	}

	return invalid
}

func jsonNames(t reflect.Type) map[string]bool {
	names := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		names[name] = true
	}

	return names
}
