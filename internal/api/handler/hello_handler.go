package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const welcomeMessage = "Welcome to Creative Services Hub API!"

// Hello is a static greeting used by the front end to check the API is up.
//
// @Summary      Greeting
// @Tags         misc
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /api/hello [get]
func Hello(c echo.Context) error {
	return respondMessage(c, http.StatusOK, welcomeMessage)
}
