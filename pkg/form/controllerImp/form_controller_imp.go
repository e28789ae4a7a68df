package controllerImp

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agentrix/entities"
	"agentrix/pkg/form"
	"agentrix/pkg/form/controller"
)

type FormCtrl struct {
	sessions      *form.Sessions
	maxPhotoBytes int64
	log           *zap.Logger
}

func New(sessions *form.Sessions, maxPhotoBytes int64, log *zap.Logger) controller.FormController {
	return &FormCtrl{sessions: sessions, maxPhotoBytes: maxPhotoBytes, log: log}
}

func (h *FormCtrl) form(c echo.Context) *form.Form {
	sid, _ := c.Get("sid").(string)
	return h.sessions.Get(sid)
}

func (h *FormCtrl) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", form.NewPage(h.form(c)))
}

// Submit updates the fields present in the posted form and starts a request.
// With ?wait=1 it blocks until the request settles and answers the view as JSON.
func (h *FormCtrl) Submit(c echo.Context) error {
	f := h.form(c)

	params, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "bad form"})
	}

	photo, err := h.readPhoto(c)
	if err != nil {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"detail": err.Error()})
	}

	// nothing is applied until the whole submission is accepted
	if _, ok := params["gps"]; ok {
		f.SetGPS(params.Get("gps"))
	}
	if _, ok := params["soil_type"]; ok {
		f.SetSoilType(params.Get("soil_type"))
	}
	f.SetLeafPhoto(photo)

	// the request outlives this handler
	task := f.Submit(context.WithoutCancel(c.Request().Context()))
	h.log.Debug("advice submit started", zap.Uint64("seq", task.Seq))

	if c.QueryParam("wait") == "1" {
		if _, _, err := task.Wait(c.Request().Context()); err != nil {
			return c.JSON(http.StatusGatewayTimeout, echo.Map{"detail": err.Error()})
		}
		return c.JSON(http.StatusOK, form.Render(f.State()))
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *FormCtrl) State(c echo.Context) error {
	return c.JSON(http.StatusOK, form.Render(h.form(c).State()))
}

var errPhotoTooLarge = errors.New("leaf photo too large")

func (h *FormCtrl) readPhoto(c echo.Context) (*entities.LeafPhoto, error) {
	fh, err := c.FormFile("leaf_photo")
	if err != nil || fh.Size == 0 {
		return nil, nil
	}
	if h.maxPhotoBytes > 0 && fh.Size > h.maxPhotoBytes {
		return nil, errPhotoTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		h.log.Warn("open leaf photo", zap.Error(err))
		return nil, nil
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		h.log.Warn("read leaf photo", zap.Error(err))
		return nil, nil
	}
	return &entities.LeafPhoto{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
