package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rakibhasan/elegant-server/internal/domain"
	http "github.com/rakibhasan/elegant-server/internal/http"
	"github.com/rakibhasan/elegant-server/internal/log"
	"github.com/rakibhasan/elegant-server/internal/repo"
	"github.com/rakibhasan/elegant-server/internal/security"
)

const testSecret = "test-secret"

type testEnv struct {
	T      *testing.T
	Ctx    context.Context
	Mongo  *mongodb.MongoDBContainer
	Store  *repo.Store
	Router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	mc, err := mongodb.RunContainer(ctx,
		testcontainers.WithImage("mongo:6"),
	)
	if err != nil {
		t.Fatalf("mongo container: %v", err)
	}

	uri, err := mc.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("mongo uri: %v", err)
	}

	if _, err := log.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}

	store, err := repo.NewStore(ctx, uri, "elegant_test")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}

	h := http.NewHandler(store, testSecret, 1, nil)

	gin.SetMode(gin.TestMode)
	r := http.NewRouter(h)

	return &testEnv{T: t, Ctx: ctx, Mongo: mc, Store: store, Router: r}
}

func (e *testEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close(e.Ctx)
	}
	if e.Mongo != nil {
		_ = e.Mongo.Terminate(e.Ctx)
	}
}

func (e *testEnv) do(method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) token(email string, ttl time.Duration) string {
	e.T.Helper()
	tok, err := security.MakeAccess(testSecret, email, ttl)
	if err != nil {
		e.T.Fatalf("make token: %v", err)
	}
	return tok
}

func (e *testEnv) bearer(email string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + e.token(email, time.Minute)}
}

func (e *testEnv) seedAdmin(email string) {
	e.T.Helper()
	_, err := e.Store.InsertUser(e.Ctx, bson.M{"email": email, "role": domain.RoleAdmin})
	if err != nil {
		e.T.Fatalf("seed admin: %v", err)
	}
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return m
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var l []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &l); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return l
}
