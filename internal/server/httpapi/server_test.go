package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/common"
	"github.com/osamanazar47/alx-files-manager/internal/logging"
	"github.com/osamanazar47/alx-files-manager/internal/metrics"
	"github.com/osamanazar47/alx-files-manager/internal/server/content"
	"github.com/osamanazar47/alx-files-manager/internal/server/queue"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/repomanager"
	"github.com/osamanazar47/alx-files-manager/internal/server/services"
	"github.com/osamanazar47/alx-files-manager/internal/server/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	srv      *Server
	ts       *httptest.Server
	store    *content.MemoryStore
	queue    *queue.MemoryQueue
	sessions *sessions.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	sess, err := sessions.Open("", time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	rm := repomanager.NewMemoryRepositoryManager()
	store := content.NewMemoryStore()
	q := queue.NewMemoryQueue()
	mtr := metrics.New()
	log := logging.NewNop()

	us := services.NewUserService(nil, rm, sess, log, services.WithBcryptCost(bcrypt.MinCost))
	fs := services.NewFileService(nil, rm, store, q, log, mtr)
	ss := services.NewStatsService(nil, rm, rm, sess)

	srv := New("127.0.0.1:0", log, us, fs, ss, mtr)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return &testEnv{srv: srv, ts: ts, store: store, queue: q, sessions: sess}
}

type response struct {
	code   int
	header http.Header
	body   []byte
}

func (r response) json(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func (r response) errorMessage(t *testing.T) string {
	t.Helper()
	var e errorResponse
	r.json(t, &e)
	return e.Error
}

func (e *testEnv) do(t *testing.T, method, path string, body any, hdr map[string]string) response {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, rd)
	require.NoError(t, err)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := e.ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{code: resp.StatusCode, header: resp.Header, body: raw}
}

func tokenHeader(token string) map[string]string {
	return map[string]string{common.TokenHeaderName: token}
}

func basicHeader(email, password string) map[string]string {
	creds := base64.StdEncoding.EncodeToString([]byte(email + ":" + password))
	return map[string]string{"Authorization": "Basic " + creds}
}

// signup registers and connects a user, returning its id and token.
func (e *testEnv) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	r := e.do(t, http.MethodPost, "/users", map[string]string{"email": email, "password": "toto1234!"}, nil)
	require.Equal(t, http.StatusCreated, r.code, string(r.body))
	var u userResponse
	r.json(t, &u)

	r = e.do(t, http.MethodGet, "/connect", nil, basicHeader(email, "toto1234!"))
	require.Equal(t, http.StatusOK, r.code, string(r.body))
	var tok tokenResponse
	r.json(t, &tok)
	require.NotEmpty(t, tok.Token)
	return u.ID, tok.Token
}

func (e *testEnv) upload(t *testing.T, token string, body map[string]any) nodeResponse {
	t.Helper()
	r := e.do(t, http.MethodPost, "/files", body, tokenHeader(token))
	require.Equal(t, http.StatusCreated, r.code, string(r.body))
	var n nodeResponse
	r.json(t, &n)
	return n
}

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func TestStatusAndStats(t *testing.T) {
	e := newTestEnv(t)

	r := e.do(t, http.MethodGet, "/status", nil, nil)
	assert.Equal(t, http.StatusOK, r.code)
	assert.JSONEq(t, `{"redis":true,"db":true}`, string(r.body))

	r = e.do(t, http.MethodGet, "/stats", nil, nil)
	assert.Equal(t, http.StatusOK, r.code)
	assert.JSONEq(t, `{"users":0,"files":0}`, string(r.body))

	_, token := e.signup(t, "bob@dylan.com")
	e.upload(t, token, map[string]any{"name": "dir", "type": "folder"})

	r = e.do(t, http.MethodGet, "/stats", nil, nil)
	assert.JSONEq(t, `{"users":1,"files":1}`, string(r.body))
}

func TestStatus_SessionStoreDown(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.sessions.Close())

	r := e.do(t, http.MethodGet, "/status", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, r.code)
	assert.JSONEq(t, `{"redis":false,"db":true}`, string(r.body))
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t)

	r := e.do(t, http.MethodPost, "/users", map[string]string{"email": "bob@dylan.com", "password": "toto1234!"}, nil)
	require.Equal(t, http.StatusCreated, r.code)
	var u userResponse
	r.json(t, &u)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "bob@dylan.com", u.Email)
	assert.NotContains(t, string(r.body), "password")

	tests := []struct {
		name string
		body any
		want string
	}{
		{"duplicate", map[string]string{"email": "bob@dylan.com", "password": "x"}, "Already exist"},
		{"missing email", map[string]string{"password": "x"}, "Missing email"},
		{"missing password", map[string]string{"email": "a@b.c"}, "Missing password"},
		{"malformed body", "{not json", msgInvalidBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.do(t, http.MethodPost, "/users", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, r.code)
			assert.Equal(t, tt.want, r.errorMessage(t))
		})
	}
}

func TestConnectMeDisconnect(t *testing.T) {
	e := newTestEnv(t)
	id, token := e.signup(t, "bob@dylan.com")

	r := e.do(t, http.MethodGet, "/users/me", nil, tokenHeader(token))
	require.Equal(t, http.StatusOK, r.code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"email":"bob@dylan.com"}`, id), string(r.body))

	r = e.do(t, http.MethodGet, "/connect", nil, basicHeader("bob@dylan.com", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, r.code)
	assert.Equal(t, msgUnauthorized, r.errorMessage(t))

	r = e.do(t, http.MethodGet, "/connect", nil, basicHeader("nobody@dylan.com", "toto1234!"))
	assert.Equal(t, http.StatusUnauthorized, r.code)

	r = e.do(t, http.MethodGet, "/connect", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, r.code)

	r = e.do(t, http.MethodGet, "/disconnect", nil, tokenHeader(token))
	assert.Equal(t, http.StatusNoContent, r.code)
	assert.Empty(t, r.body)

	r = e.do(t, http.MethodGet, "/users/me", nil, tokenHeader(token))
	assert.Equal(t, http.StatusUnauthorized, r.code)

	r = e.do(t, http.MethodGet, "/disconnect", nil, tokenHeader(token))
	assert.Equal(t, http.StatusUnauthorized, r.code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newTestEnv(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/disconnect"},
		{http.MethodPost, "/files"},
		{http.MethodGet, "/files"},
		{http.MethodGet, "/files/abc"},
		{http.MethodPut, "/files/abc/publish"},
		{http.MethodPut, "/files/abc/unpublish"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			r := e.do(t, rt.method, rt.path, nil, nil)
			assert.Equal(t, http.StatusUnauthorized, r.code)
			assert.Equal(t, msgUnauthorized, r.errorMessage(t))

			r = e.do(t, rt.method, rt.path, nil, tokenHeader("not-a-session"))
			assert.Equal(t, http.StatusUnauthorized, r.code)
		})
	}
}

func TestCreateFile(t *testing.T) {
	e := newTestEnv(t)
	userID, token := e.signup(t, "bob@dylan.com")

	folder := e.upload(t, token, map[string]any{"name": "images", "type": "folder", "parentId": 0})
	assert.Equal(t, userID, folder.UserID)
	assert.Equal(t, ParentRef("0"), folder.ParentID)
	assert.False(t, folder.IsPublic)

	file := e.upload(t, token, map[string]any{
		"name": "myText.txt", "type": "file", "parentId": folder.ID, "data": b64("Hello Webstack!\n"),
	})
	assert.Equal(t, ParentRef(folder.ID), file.ParentID)
	assert.Equal(t, 0, e.queue.Len())

	e.upload(t, token, map[string]any{"name": "image.png", "type": "image", "isPublic": true, "data": b64("png")})
	assert.Equal(t, 1, e.queue.Len())

	r := e.do(t, http.MethodGet, "/files/"+folder.ID, nil, tokenHeader(token))
	require.Equal(t, http.StatusOK, r.code)
	assert.Contains(t, string(r.body), `"parentId":0`)

	tests := []struct {
		name string
		body any
		want string
	}{
		{"missing name", map[string]any{"type": "file", "data": b64("x")}, "Missing name"},
		{"missing type", map[string]any{"name": "a"}, "Missing type"},
		{"unknown type", map[string]any{"name": "a", "type": "video", "data": b64("x")}, "Missing type"},
		{"missing data", map[string]any{"name": "a", "type": "file"}, "Missing data"},
		{"invalid data", map[string]any{"name": "a", "type": "file", "data": "%%%"}, msgInvalidData},
		{"unknown parent", map[string]any{"name": "a", "type": "folder", "parentId": "nope"}, "Parent not found"},
		{"file parent", map[string]any{"name": "a", "type": "folder", "parentId": file.ID}, "Parent is not a folder"},
		{"malformed body", "[", msgInvalidBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.do(t, http.MethodPost, "/files", tt.body, tokenHeader(token))
			assert.Equal(t, http.StatusBadRequest, r.code)
			assert.Equal(t, tt.want, r.errorMessage(t))
		})
	}

	r = e.do(t, http.MethodGet, "/stats", nil, nil)
	assert.JSONEq(t, `{"users":1,"files":3}`, string(r.body))
}

func TestCreateFile_StorageFailure(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.signup(t, "bob@dylan.com")

	broken := New("", logging.NewNop(), e.srv.users,
		services.NewFileService(nil, repomanager.NewMemoryRepositoryManager(), brokenStore{}, nil, logging.NewNop(), nil),
		e.srv.stats, nil)

	req := httptest.NewRequest(http.MethodPost, "/files",
		strings.NewReader(`{"name":"a.txt","type":"file","data":"`+b64("x")+`"}`))
	req.Header.Set(common.TokenHeaderName, token)
	rec := httptest.NewRecorder()
	broken.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestGetFile_OwnershipIsHidden(t *testing.T) {
	e := newTestEnv(t)
	_, bob := e.signup(t, "bob@dylan.com")
	_, alice := e.signup(t, "alice@example.com")

	n := e.upload(t, bob, map[string]any{"name": "dir", "type": "folder"})

	r := e.do(t, http.MethodGet, "/files/"+n.ID, nil, tokenHeader(alice))
	assert.Equal(t, http.StatusNotFound, r.code)
	assert.Equal(t, msgNotFound, r.errorMessage(t))

	r = e.do(t, http.MethodGet, "/files/does-not-exist", nil, tokenHeader(bob))
	assert.Equal(t, http.StatusNotFound, r.code)

	r = e.do(t, http.MethodPut, "/files/"+n.ID+"/publish", nil, tokenHeader(alice))
	assert.Equal(t, http.StatusNotFound, r.code)
}

func TestListFiles_Pagination(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.signup(t, "bob@dylan.com")

	dir := e.upload(t, token, map[string]any{"name": "dir", "type": "folder"})
	for i := range 25 {
		e.upload(t, token, map[string]any{"name": fmt.Sprintf("f%02d", i), "type": "file", "parentId": dir.ID, "data": b64("x")})
	}

	list := func(query string) []nodeResponse {
		r := e.do(t, http.MethodGet, "/files"+query, nil, tokenHeader(token))
		require.Equal(t, http.StatusOK, r.code, string(r.body))
		var out []nodeResponse
		r.json(t, &out)
		return out
	}

	page0 := list("?parentId=" + dir.ID)
	require.Len(t, page0, common.PageSize)
	assert.Equal(t, "f24", page0[0].Name, "newest first")

	page1 := list("?parentId=" + dir.ID + "&page=1")
	require.Len(t, page1, 5)
	assert.Equal(t, "f00", page1[4].Name)

	assert.Empty(t, list("?parentId="+dir.ID+"&page=2"))
	assert.Len(t, list("?parentId="+dir.ID+"&page=oops"), common.PageSize)

	root := list("")
	require.Len(t, root, 1)
	assert.Equal(t, dir.ID, root[0].ID)
	assert.Len(t, list("?parentId=0"), 1)

	r := e.do(t, http.MethodGet, "/files?parentId=unknown", nil, tokenHeader(token))
	assert.Equal(t, http.StatusOK, r.code)
	assert.Equal(t, "[]\n", string(r.body))

	r = e.do(t, http.MethodGet, "/files?page=461168601842738800", nil, tokenHeader(token))
	assert.Equal(t, http.StatusOK, r.code, "huge pages are empty, not an error")
	assert.Equal(t, "[]\n", string(r.body))

	r = e.do(t, http.MethodGet, fmt.Sprintf("/files?parentId=%s&page=%d", dir.ID, math.MaxInt), nil, tokenHeader(token))
	assert.Equal(t, http.StatusOK, r.code)
	assert.Equal(t, "[]\n", string(r.body))
}

func TestPublishUnpublish(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.signup(t, "bob@dylan.com")
	n := e.upload(t, token, map[string]any{"name": "a.txt", "type": "file", "data": b64("x")})

	var got nodeResponse
	r := e.do(t, http.MethodPut, "/files/"+n.ID+"/publish", nil, tokenHeader(token))
	require.Equal(t, http.StatusOK, r.code)
	r.json(t, &got)
	assert.True(t, got.IsPublic)

	r = e.do(t, http.MethodPut, "/files/"+n.ID+"/publish", nil, tokenHeader(token))
	require.Equal(t, http.StatusOK, r.code)
	r.json(t, &got)
	assert.True(t, got.IsPublic, "publishing twice keeps the node public")

	r = e.do(t, http.MethodPut, "/files/"+n.ID+"/unpublish", nil, tokenHeader(token))
	require.Equal(t, http.StatusOK, r.code)
	r.json(t, &got)
	assert.False(t, got.IsPublic)
}

func TestFileData(t *testing.T) {
	e := newTestEnv(t)
	_, bob := e.signup(t, "bob@dylan.com")
	_, alice := e.signup(t, "alice@example.com")

	dir := e.upload(t, bob, map[string]any{"name": "dir", "type": "folder", "isPublic": true})
	txt := e.upload(t, bob, map[string]any{"name": "myText.txt", "type": "file", "data": b64("Hello Webstack!\n")})

	r := e.do(t, http.MethodGet, "/files/"+txt.ID+"/data", nil, nil)
	assert.Equal(t, http.StatusNotFound, r.code, "private content is hidden from anonymous callers")

	r = e.do(t, http.MethodGet, "/files/"+txt.ID+"/data", nil, tokenHeader(alice))
	assert.Equal(t, http.StatusNotFound, r.code, "private content is hidden from other users")

	r = e.do(t, http.MethodGet, "/files/"+txt.ID+"/data", nil, tokenHeader(bob))
	require.Equal(t, http.StatusOK, r.code)
	assert.Equal(t, "Hello Webstack!\n", string(r.body))
	assert.True(t, strings.HasPrefix(r.header.Get("Content-Type"), "text/plain"))

	e.do(t, http.MethodPut, "/files/"+txt.ID+"/publish", nil, tokenHeader(bob))
	r = e.do(t, http.MethodGet, "/files/"+txt.ID+"/data", nil, nil)
	assert.Equal(t, http.StatusOK, r.code)

	r = e.do(t, http.MethodGet, "/files/"+txt.ID+"/data", nil, tokenHeader("stale-token"))
	assert.Equal(t, http.StatusOK, r.code, "an unknown token falls back to anonymous access")

	r = e.do(t, http.MethodGet, "/files/"+dir.ID+"/data", nil, nil)
	assert.Equal(t, http.StatusBadRequest, r.code)
	assert.Equal(t, "A folder doesn't have content", r.errorMessage(t))

	r = e.do(t, http.MethodGet, "/files/missing/data", nil, nil)
	assert.Equal(t, http.StatusNotFound, r.code)
}

func TestFileData_ThumbnailSize(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.signup(t, "bob@dylan.com")

	img := e.upload(t, token, map[string]any{"name": "image.png", "type": "image", "isPublic": true, "data": b64("original")})

	r := e.do(t, http.MethodGet, "/files/"+img.ID+"/data?size=250", nil, nil)
	require.Equal(t, http.StatusOK, r.code)
	assert.Equal(t, "original", string(r.body), "falls back to the original until the variant exists")
	assert.Equal(t, "image/png", r.header.Get("Content-Type"))

	var ref string
	ctx := context.Background()
	for n, err := range e.srv.files.List(ctx, img.UserID, "0", 0) {
		require.NoError(t, err)
		if n.ID == img.ID {
			ref = n.ContentRef
		}
	}
	require.NotEmpty(t, ref)
	require.NoError(t, e.store.WriteAt(ctx, content.DerivedRef(ref, 250), []byte("small")))

	r = e.do(t, http.MethodGet, "/files/"+img.ID+"/data?size=250", nil, nil)
	assert.Equal(t, "small", string(r.body))

	r = e.do(t, http.MethodGet, "/files/"+img.ID+"/data?size=big", nil, nil)
	assert.Equal(t, "original", string(r.body))
}

func TestMetricsRoute(t *testing.T) {
	e := newTestEnv(t)
	e.do(t, http.MethodGet, "/status", nil, nil)

	// The observation is recorded after the response is flushed.
	want := `files_manager_http_requests_total{code="200",method="GET",route="GET /status"} 1`
	require.Eventually(t, func() bool {
		r := e.do(t, http.MethodGet, "/metrics", nil, nil)
		return r.code == http.StatusOK && strings.Contains(string(r.body), want)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, e.srv.Routes(), RouteMetrics)
}

func TestMetricsRoute_DisabledWithoutMetrics(t *testing.T) {
	srv := New("", logging.NewNop(), nil, nil, nil, nil)
	assert.NotContains(t, srv.Routes(), RouteMetrics)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	e := newTestEnv(t)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.srv.Serve(ctx, l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/status")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

type brokenStore struct{ content.Store }

func (brokenStore) Write(context.Context, []byte) (string, error) {
	return "", fmt.Errorf("%w: disk full", content.ErrStorage)
}
