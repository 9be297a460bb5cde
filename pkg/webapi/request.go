package webapi

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vendingops/vmconsole/pkg/console"
	"github.com/vendingops/vmconsole/pkg/crud"
)

// MaxUploadBytes bounds a single uploaded file.
const MaxUploadBytes = 32 << 20

func isMultipart(ctx echo.Context) bool {
	return strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

func readUpload(fh *multipart.FileHeader) (crud.Upload, error) {
	if fh.Size > MaxUploadBytes {
		return crud.Upload{}, echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("%s is larger than %d bytes", fh.Filename, MaxUploadBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return crud.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return crud.Upload{}, err
	}

	contentType := fh.Header.Get(echo.HeaderContentType)
	if contentType == "" || contentType == echo.MIMEOctetStream {
		contentType = http.DetectContentType(data)
	}

	return crud.Upload{Filename: fh.Filename, ContentType: contentType, Data: data}, nil
}

// changeFromRequest reads an entity change from a JSON body or a multipart
// form. The asset file is the form file named after the schema's asset
// field; "remove_<asset field>" requests deletion of the current asset.
func changeFromRequest(ctx echo.Context, schema crud.Schema) (console.Change, error) {
	ch := console.Change{Fields: map[string]any{}}
	removeKey := "remove_" + schema.AssetField

	if !isMultipart(ctx) {
		if err := ctx.Bind(&ch.Fields); err != nil {
			return ch, err
		}
		delete(ch.Fields, "id")
		if v, ok := ch.Fields[removeKey]; ok {
			delete(ch.Fields, removeKey)
			b, _ := v.(bool)
			ch.RemoveAsset = b
		}
		return ch, nil
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return ch, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	for name, values := range form.Value {
		if len(values) == 0 || name == "id" {
			continue
		}
		if name == removeKey {
			ch.RemoveAsset, _ = strconv.ParseBool(values[0])
			continue
		}
		ch.Fields[name] = values[0]
	}

	if schema.AssetField != "" {
		if files := form.File[schema.AssetField]; len(files) > 0 {
			u, err := readUpload(files[0])
			if err != nil {
				return ch, err
			}
			ch.Upload = &u
		}
	}

	return ch, nil
}

// entityJSON flattens an entity into its fields plus "id".
func entityJSON(e crud.Entity) map[string]any {
	out := make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		out[k] = v
	}
	out["id"] = e.ID
	return out
}

func entitiesJSON(entities []crud.Entity) []map[string]any {
	out := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		out = append(out, entityJSON(e))
	}
	return out
}
