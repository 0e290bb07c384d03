package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/creativehub/services-hub/internal/i18n"
)

// I18nHandler serves the UI string catalogs used by the language switcher.
type I18nHandler struct {
	bundle *i18n.Bundle
}

func NewI18nHandler(bundle *i18n.Bundle) *I18nHandler {
	return &I18nHandler{bundle: bundle}
}

// Negotiate returns the catalog chosen from the lang query parameter, the
// lang cookie or Accept-Language.
//
// @Summary      Negotiated UI strings
// @Tags         i18n
// @Produce      json
// @Param        lang  query     string  false  "Preferred language"
// @Success      200   {object}  Envelope{data=i18n.Catalog}
// @Router       /api/i18n [get]
func (h *I18nHandler) Negotiate(c echo.Context) error {
	return respondData(c, http.StatusOK, h.bundle.Resolve(c.Request()))
}

// Get returns the catalog for :lang, falling back to English.
//
// @Summary      UI strings for a language
// @Tags         i18n
// @Produce      json
// @Param        lang  path      string  true  "Language code"
// @Success      200   {object}  Envelope{data=i18n.Catalog}
// @Router       /api/i18n/{lang} [get]
func (h *I18nHandler) Get(c echo.Context) error {
	cat := h.bundle.Lookup(c.Param("lang"))
	c.SetCookie(&http.Cookie{
		Name:     i18n.CookieName,
		Value:    cat.Lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
	return respondData(c, http.StatusOK, cat)
}
