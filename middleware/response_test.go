package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devdesk/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newEngine(log *zap.Logger, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestInit(), AccessLog(log), ResponseInit(log))
	r.Any("/test", handler)
	r.NoRoute(APINotFound(log))
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func chunks(parts ...interface{}) <-chan StreamChunk {
	ch := make(chan StreamChunk, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			buf := []byte(v)
			ch <- StreamChunk{Buf: &buf}
		case error:
			ch <- StreamChunk{Error: v}
		}
	}
	close(ch)
	return ch
}

func TestSend(t *testing.T) {
	tests := []struct {
		name     string
		resp     Response
		wantCode int
		wantBody string
	}{
		{"data defaults to 200", Response{Data: common.Ack{OK: true}}, http.StatusOK, `{"ok":true}`},
		{"explicit code", Response{Code: http.StatusCreated, Data: common.CreateResult{ID: 7, Changes: 1}}, http.StatusCreated, `{"id":7,"changes":1}`},
		{"validation", Response{Error: common.Validation("name is required")}, http.StatusBadRequest, `{"error":"name is required"}`},
		{"not found", Response{Error: common.NotFound("Ticket not found")}, http.StatusNotFound, `{"error":"Ticket not found"}`},
		{"storage", Response{Error: common.StorageFault(errors.New("disk full"))}, http.StatusInternalServerError, `{"error":"disk full"}`},
		{"explicit error code", Response{Code: http.StatusServiceUnavailable, Error: errors.New("down")}, http.StatusServiceUnavailable, `{"error":"down"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(zap.NewNop(), func(c *gin.Context) {
				c.MustGet("send").(func(Response))(tt.resp)
			})
			w := serve(r, http.MethodGet, "/test", "")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestSendStream(t *testing.T) {
	t.Run("writes chunks with headers", func(t *testing.T) {
		var recycled int
		r := newEngine(zap.NewNop(), func(c *gin.Context) {
			c.MustGet("sendStream").(func(StreamResponse))(StreamResponse{
				TotalCount:  -1,
				ChunkChan:   chunks("a,b\n", "1,2"),
				ContentType: "text/csv; charset=utf-8",
				Filename:    "assets.csv",
				Recycle:     func(*[]byte) { recycled++ },
			})
		})

		w := serve(r, http.MethodGet, "/test", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "a,b\n1,2", w.Body.String())
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="assets.csv"`, w.Header().Get("Content-Disposition"))
		assert.Empty(t, w.Header().Get("X-Total-Count"))
		assert.Equal(t, 2, recycled)
	})

	t.Run("error before first chunk is JSON", func(t *testing.T) {
		r := newEngine(zap.NewNop(), func(c *gin.Context) {
			c.MustGet("sendStream").(func(StreamResponse))(StreamResponse{
				ChunkChan: chunks(common.ExportFault(errors.New("no such table: assets"))),
			})
		})

		w := serve(r, http.MethodGet, "/test", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"CSV export failed: no such table: assets"}`, w.Body.String())
	})

	t.Run("error after first chunk truncates", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		r := newEngine(zap.New(core), func(c *gin.Context) {
			c.MustGet("sendStream").(func(StreamResponse))(StreamResponse{
				TotalCount: 2,
				ChunkChan:  chunks("[1", errors.New("connection reset"), ",2]"),
			})
		})

		w := serve(r, http.MethodGet, "/test", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[1", w.Body.String())
		assert.Equal(t, "2", w.Header().Get("X-Total-Count"))
		require.Equal(t, 1, logs.FilterMessage("stream aborted").Len())
	})

	t.Run("error response", func(t *testing.T) {
		r := newEngine(zap.NewNop(), func(c *gin.Context) {
			c.MustGet("sendStream").(func(StreamResponse))(StreamResponse{Error: common.StorageFault(errors.New("locked"))})
		})

		w := serve(r, http.MethodGet, "/test", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"locked"}`, w.Body.String())
	})
}

func TestAPINotFound(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newEngine(zap.New(core), func(c *gin.Context) {})

	w := serve(r, http.MethodGet, "/api/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"API route not found","path":"/api/missing"}`, w.Body.String())

	access := logs.FilterMessage("request").All()
	require.Len(t, access, 1)
	assert.Equal(t, int64(http.StatusNotFound), access[0].ContextMap()["status"])
}

func TestRequestInit(t *testing.T) {
	var seen string
	r := newEngine(zap.NewNop(), func(c *gin.Context) {
		seen = c.GetString("requestId")
		c.Status(http.StatusNoContent)
	})

	w := serve(r, http.MethodGet, "/test", "")
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))
}

func TestBindJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", `{"name":"x"}`, "x", false},
		{"empty", "", "", false},
		{"extra fields", `{"name":"y","other":1}`, "y", false},
		{"malformed", `{"name":`, "", true},
		{"wrong type", `{"name":5}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got body
			var bindErr error
			r := newEngine(zap.NewNop(), func(c *gin.Context) {
				bindErr = BindJSON(c, &got)
				c.Status(http.StatusNoContent)
			})
			serve(r, http.MethodPost, "/test", tt.input)

			if tt.wantErr {
				require.Error(t, bindErr)
				assert.True(t, common.IsKind(bindErr, common.KindValidation))
				assert.Equal(t, "invalid JSON body", common.PublicMessage(bindErr))
				return
			}
			require.NoError(t, bindErr)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}
