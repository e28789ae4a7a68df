package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(req *http.Request) (*httptest.ResponseRecorder, string) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var sid string
	_ = Session()(func(c echo.Context) error {
		sid, _ = c.Get("sid").(string)
		return nil
	})(c)
	return rec, sid
}

func TestSession_IssuesCookie(t *testing.T) {
	rec, sid := run(httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(sid)
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, sid, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSession_ReusesValidCookie(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})

	rec, sid := run(req)
	assert.Equal(t, id, sid)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSession_ReplacesForgedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-uuid"})

	_, sid := run(req)
	assert.NotEqual(t, "not-a-uuid", sid)
}
