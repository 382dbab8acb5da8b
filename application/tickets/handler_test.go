package tickets

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"devdesk/common"
	"devdesk/internal/storage"
	"devdesk/internal/storage/storagetest"
	"devdesk/internal/stream"
	"devdesk/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, store *storage.Store) *gin.Engine {
	t.Helper()
	return newRouterWithChunks(t, store, stream.DefaultChunkConfig())
}

func newRouterWithChunks(t *testing.T, store *storage.Store, chunks stream.ChunkConfig) *gin.Engine {
	t.Helper()

	log := zap.NewNop()
	svc := NewService(NewRepository(store), log, chunks)

	r := gin.New()
	r.Use(middleware.RequestInit(), middleware.ResponseInit(log))
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTickets(t *testing.T, w *httptest.ResponseRecorder) []common.Ticket {
	t.Helper()
	var out []common.Ticket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createTicket(t *testing.T, r http.Handler, title, description, category string) int64 {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"title": title, "description": description, "category": category})
	w := do(r, http.MethodPost, "/api/tickets", string(body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res common.CreateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.ID
}

func TestCreateAndUpdateFlow(t *testing.T) {
	r := newRouter(t, storagetest.NewSQLite(t))

	w := do(r, http.MethodPost, "/api/tickets", `{"title":"Printer jam","description":"Tray 2","category":"Hardware"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"changes":1}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/tickets?q=printer", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeTickets(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Printer jam", list[0].Title)
	assert.Equal(t, common.StatusOpen, list[0].Status)
	assert.False(t, list[0].CreatedAt.IsZero())

	w = do(r, http.MethodPatch, "/api/tickets/1", `{"status":"Closed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/tickets?status=Closed", "")
	list = decodeTickets(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, common.StatusClosed, list[0].Status)

	w = do(r, http.MethodGet, "/api/tickets?status=Open", "")
	assert.Equal(t, "[]", w.Body.String())
}

func TestCreate_TrimsAndIgnoresClientStatus(t *testing.T) {
	r := newRouter(t, storagetest.NewSQLite(t))

	w := do(r, http.MethodPost, "/api/tickets", `{"title":"  VPN  ","description":" 809 ","category":"Network","status":"Closed","id":99}`)
	require.Equal(t, http.StatusCreated, w.Code)

	list := decodeTickets(t, do(r, http.MethodGet, "/api/tickets", ""))
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, "VPN", list[0].Title)
	assert.Equal(t, "809", list[0].Description)
	assert.Equal(t, common.StatusOpen, list[0].Status)
}

func TestCreate_ValidationLeavesNoRow(t *testing.T) {
	store := storagetest.NewSQLite(t)
	r := newRouter(t, store)

	tests := []struct {
		name    string
		body    string
		code    int
		message string
	}{
		{"missing fields", `{"title":"x"}`, http.StatusBadRequest, "description, category are required"},
		{"whitespace only", `{"title":" ","description":" ","category":" "}`, http.StatusBadRequest, "title, description, category are required"},
		{"empty body", "", http.StatusBadRequest, "title, description, category are required"},
		{"malformed body", `{"title":`, http.StatusBadRequest, "invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/tickets", tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, `{"error":"`+tt.message+`"}`, w.Body.String())
		})
	}

	count, err := store.Count(context.Background(), "tickets")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestList_FiltersAndOrder(t *testing.T) {
	r := newRouter(t, storagetest.NewSQLite(t))

	createTicket(t, r, "Wi-Fi drops", "Meeting room 3", "Network")
	createTicket(t, r, "Laptop overheating", "Fan noise", "Hardware")
	createTicket(t, r, "VPN error 809", "Cannot connect to wifi at home", "Network")
	createTicket(t, r, "100% disk", "C: drive full", "Hardware")

	list := decodeTickets(t, do(r, http.MethodGet, "/api/tickets", ""))
	require.Len(t, list, 4)
	for i := 1; i < len(list); i++ {
		assert.Greater(t, list[i-1].ID, list[i].ID)
	}

	list = decodeTickets(t, do(r, http.MethodGet, "/api/tickets?q=WIFI", ""))
	require.Len(t, list, 1)
	assert.Equal(t, "VPN error 809", list[0].Title)

	list = decodeTickets(t, do(r, http.MethodGet, "/api/tickets?q=wi&category=Network", ""))
	require.Len(t, list, 2)

	list = decodeTickets(t, do(r, http.MethodGet, "/api/tickets?q=wi&category=Hardware", ""))
	assert.Empty(t, list)

	list = decodeTickets(t, do(r, http.MethodGet, "/api/tickets?q=%25", ""))
	require.Len(t, list, 1)
	assert.Equal(t, "100% disk", list[0].Title)

	list = decodeTickets(t, do(r, http.MethodGet, "/api/tickets?q=&status=&category=", ""))
	assert.Len(t, list, 4)
}

func TestUpdateStatus(t *testing.T) {
	r := newRouter(t, storagetest.NewSQLite(t))
	id := createTicket(t, r, "Outlook login loop", "Keeps prompting", "Software")
	path := "/api/tickets/" + jsonID(id)

	t.Run("idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			w := do(r, http.MethodPatch, path, `{"status":"In Progress"}`)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		w := do(r, http.MethodPatch, path, `{"status":"Pending"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"status must be Open, In Progress, or Closed"}`, w.Body.String())
	})

	t.Run("invalid status checked before id", func(t *testing.T) {
		w := do(r, http.MethodPatch, "/api/tickets/9999", `{"status":"open"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := do(r, http.MethodPatch, "/api/tickets/9999", `{"status":"Closed"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Ticket not found"}`, w.Body.String())
	})

	t.Run("non-numeric id", func(t *testing.T) {
		w := do(r, http.MethodPatch, "/api/tickets/abc", `{"status":"Closed"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	list := decodeTickets(t, do(r, http.MethodGet, "/api/tickets", ""))
	require.Len(t, list, 1)
	assert.Equal(t, common.StatusInProgress, list[0].Status)
	assert.Equal(t, "Outlook login loop", list[0].Title)
}

func TestExport(t *testing.T) {
	r := newRouter(t, storagetest.NewSQLite(t))

	t.Run("empty", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/tickets.csv", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Ticket ID,Title,Description,Category,Status,Created At", w.Body.String())
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="tickets.csv"`, w.Header().Get("Content-Disposition"))
	})

	createTicket(t, r, "Monitor flicker", "Says \"no signal\", then recovers", "Hardware")
	createTicket(t, r, "New starter", "Line one\nline two", "Access")

	t.Run("matches list", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/tickets.csv?status=Closed", "")
		require.Equal(t, http.StatusOK, w.Code)

		records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)

		list := decodeTickets(t, do(r, http.MethodGet, "/api/tickets", ""))
		require.Len(t, list, 2)
		for i, ticket := range list {
			row := records[i+1]
			assert.Equal(t, jsonID(ticket.ID), row[0])
			assert.Equal(t, ticket.Title, row[1])
			assert.Equal(t, ticket.Description, row[2])
			assert.Equal(t, ticket.Category, row[3])
			assert.Equal(t, ticket.Status, row[4])
			assert.Equal(t, ticket.CreatedAt.Format(time.RFC3339Nano), row[5])
		}
	})
}

func TestStorageFaults(t *testing.T) {
	store, mock := storagetest.NewMock(t)
	r := newRouter(t, store)

	mock.ExpectQuery("SELECT (.+) FROM tickets").WillReturnError(assertErr("no such table: tickets"))
	w := do(r, http.MethodGet, "/api/tickets", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"failed to execute query: no such table: tickets"}`, w.Body.String())

	mock.ExpectQuery("SELECT (.+) FROM tickets").WillReturnError(assertErr("database is locked"))
	w = do(r, http.MethodGet, "/api/tickets.csv", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"CSV export failed: failed to execute query: database is locked"}`, w.Body.String())

	mock.ExpectQuery("SELECT (.+) FROM tickets").
		WillReturnRows(sqlmock.NewRows(Columns).RowError(0, assertErr("disk I/O error")).
			AddRow(1, "a", "b", "Network", "Open", nil))
	w = do(r, http.MethodGet, "/api/tickets", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "disk I/O error")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// stalledWriter blocks its first Write until release is closed.
type stalledWriter struct {
	*httptest.ResponseRecorder
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (w *stalledWriter) Write(p []byte) (int, error) {
	w.once.Do(func() { close(w.started) })
	<-w.release
	return w.ResponseRecorder.Write(p)
}

func TestList_SlowClientDoesNotBlockWrites(t *testing.T) {
	store := storagetest.NewSQLite(t)
	r := newRouterWithChunks(t, store, stream.ChunkConfig{ChunkThreshold: 256})

	ctx := context.Background()
	for i := 0; i < 200; i++ {
		ticket := common.Ticket{Title: "Ticket " + jsonID(int64(i)), Description: "Queued", Category: "Network", Status: common.StatusOpen}
		_, err := store.Insert(ctx, &ticket)
		require.NoError(t, err)
	}

	slow := &stalledWriter{
		ResponseRecorder: httptest.NewRecorder(),
		started:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	listed := make(chan struct{})
	go func() {
		defer close(listed)
		r.ServeHTTP(slow, httptest.NewRequest(http.MethodGet, "/api/tickets", nil))
	}()

	select {
	case <-slow.started:
	case <-time.After(5 * time.Second):
		close(slow.release)
		t.Fatal("list response never started")
	}

	created := make(chan int, 1)
	go func() {
		created <- do(r, http.MethodPost, "/api/tickets", `{"title":"Printer jam","description":"Tray 2","category":"Hardware"}`).Code
	}()

	select {
	case code := <-created:
		assert.Equal(t, http.StatusCreated, code)
	case <-time.After(3 * time.Second):
		t.Error("create waited on a stalled list response")
	}

	close(slow.release)
	<-listed

	var list []common.Ticket
	require.NoError(t, json.Unmarshal(slow.Body.Bytes(), &list))
	assert.Len(t, list, 200)
}

func TestList_QueryKeys(t *testing.T) {
	r := newRouter(t, storagetest.NewSQLite(t))
	createTicket(t, r, "VPN error 809", "Home router", "Network")
	createTicket(t, r, "Outlook login loop", "Password prompt", "Software")

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"repeated key uses first value", "?category=Network&category=Software", 1},
		{"unknown keys ignored", "?sort=asc&page=2", 2},
		{"url encoded status", "?status=In%20Progress", 0},
		{"plus as space", "?status=Open&q=outlook+login", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/api/tickets"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decodeTickets(t, w), tt.want)
		})
	}
}
