package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vendingops/vmconsole/pkg/console"
	"github.com/vendingops/vmconsole/pkg/crud"
)

type AdsController struct {
	ads *console.Ads
}

func NewAdsController(ads *console.Ads) *AdsController {
	return &AdsController{ads: ads}
}

func (c *AdsController) Index(ctx echo.Context) error {
	ads, err := c.ads.List(ctx.Request().Context())
	if err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ads)
}

// Create takes a multipart form with a name and one or more "media" files.
func (c *AdsController) Create(ctx echo.Context) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	var media []crud.Upload
	for _, fh := range append(form.File["media"], form.File["media[]"]...) {
		u, err := readUpload(fh)
		if err != nil {
			return respondWithError(ctx, err)
		}
		media = append(media, u)
	}

	ad, err := c.ads.Create(ctx.Request().Context(), ctx.FormValue("name"), media)
	if err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, ad)
}

func (c *AdsController) Delete(ctx echo.Context) error {
	if err := c.ads.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
