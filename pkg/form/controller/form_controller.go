package controller

import "github.com/labstack/echo/v4"

type FormController interface {
	Index(c echo.Context) error
	Submit(c echo.Context) error
	State(c echo.Context) error
}
