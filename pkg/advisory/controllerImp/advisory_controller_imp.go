package controllerImp

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agentrix/entities"
	"agentrix/pkg/advisory/controller"
	"agentrix/pkg/advisory/repository"
	"agentrix/pkg/advisory/service"
)

const (
	defaultLimit = 20
	maxLimit     = 200
	xlsxMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type AdvisoryCtrl struct {
	s             service.AdvisoryService
	maxPhotoBytes int64
	log           *zap.Logger
}

func New(s service.AdvisoryService, maxPhotoBytes int64, log *zap.Logger) controller.AdvisoryController {
	return &AdvisoryCtrl{s: s, maxPhotoBytes: maxPhotoBytes, log: log}
}

// fieldError mirrors a FastAPI validation entry so existing clients can read it.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// bindError reports a body that could not be bound in the same shape as a missing field.
func bindError(err error) fieldError {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		kind := ute.Type.Kind().String()
		return fieldError{Loc: []string{"body", ute.Field}, Msg: "Input should be a valid " + kind, Type: kind + "_type"}
	}
	return fieldError{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}
}

func (h *AdvisoryCtrl) GetAdvice(c echo.Context) error {
	var req entities.AdviceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"detail": []fieldError{bindError(err)}})
	}
	req.GPS = strings.TrimSpace(req.GPS)
	req.SoilType = strings.TrimSpace(req.SoilType)

	var missing []fieldError
	if req.GPS == "" {
		missing = append(missing, fieldError{Loc: []string{"body", "gps"}, Msg: "Field required", Type: "missing"})
	}
	if req.SoilType == "" {
		missing = append(missing, fieldError{Loc: []string{"body", "soil_type"}, Msg: "Field required", Type: "missing"})
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"detail": missing})
	}
	if req.Lang == "" {
		req.Lang = "en"
	}

	photo, err := h.leafPhoto(c)
	if err != nil {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"detail": err.Error()})
	}

	res, err := h.s.GetAdvice(c.Request().Context(), service.Input{
		GPS: req.GPS, SoilType: req.SoilType, Lang: req.Lang, Photo: photo,
	})
	if err != nil {
		h.log.Error("advice pipeline", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, res)
}

var errPhotoTooLarge = errors.New("leaf photo too large")

// leafPhoto reads the optional multipart leaf_photo; other content types carry none.
func (h *AdvisoryCtrl) leafPhoto(c echo.Context) (*entities.LeafPhoto, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := c.FormFile("leaf_photo")
	if err != nil || fh.Size == 0 {
		return nil, nil
	}
	if h.maxPhotoBytes > 0 && fh.Size > h.maxPhotoBytes {
		return nil, errPhotoTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		h.log.Warn("open leaf photo", zap.Error(err))
		return nil, nil
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		h.log.Warn("read leaf photo", zap.Error(err))
		return nil, nil
	}
	return &entities.LeafPhoto{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

func (h *AdvisoryCtrl) List(c echo.Context) error {
	limit := defaultLimit
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = min(v, maxLimit)
	}
	list, err := h.s.Recent(limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}
	if list == nil {
		list = []entities.Advisory{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AdvisoryCtrl) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}
	a, err := h.s.Get(uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Advisory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AdvisoryCtrl) Stats(c echo.Context) error {
	st, err := h.s.Stats()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, st)
}

func (h *AdvisoryCtrl) Export(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.s.ExportXLSX(&buf); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="advisories.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
