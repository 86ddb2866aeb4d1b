package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bobmcallan/finlens/internal/app"
	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/models"
	"github.com/bobmcallan/finlens/internal/server"
	tcommon "github.com/bobmcallan/finlens/tests/common"
)

// Env is an in-process finlens server backed by a SurrealDB container and a
// fake disclosure API.
type Env struct {
	t          *testing.T
	App        *app.App
	Server     *httptest.Server
	DART       *FakeDART
	ResultsDir string
}

// newEnv starts a test environment. Integration tests need Docker and are
// skipped unless FINLENS_TEST_DOCKER=true.
func newEnv(t *testing.T) *Env {
	t.Helper()

	sc := tcommon.StartSurrealDB(t)
	dart := NewFakeDART()

	cfg := common.NewDefaultConfig()
	cfg.Environment = "test"
	cfg.Server.RateLimit = 0
	cfg.Storage = sc.StorageConfig(t, "env")
	cfg.Clients.DART.BaseURL = dart.URL()
	cfg.Clients.DART.APIKey = FakeDARTKey
	cfg.Clients.DART.RateLimit = 0
	cfg.Clients.Gemini.APIKey = ""

	logger := common.NewLoggerFromConfig(common.LoggingConfig{Level: "disabled"})
	a := app.NewWithConfig(cfg, logger)
	if a.Storage == nil {
		dart.Close()
		t.Fatalf("storage did not initialize against %s", sc.Address())
	}

	srv := httptest.NewServer(server.NewServer(a).Handler())

	datetime := time.Now().Format("20060102-150405")
	resultsDir := filepath.Join(findProjectRoot(), "tests", "results", datetime+"-"+strings.ReplaceAll(t.Name(), "/", "_"))

	return &Env{
		t:          t,
		App:        a,
		Server:     srv,
		DART:       dart,
		ResultsDir: resultsDir,
	}
}

// Cleanup stops the server, the fake API and closes storage
func (e *Env) Cleanup() {
	if e == nil {
		return
	}
	e.Server.Close()
	e.DART.Close()
	e.App.Close()
}

// HTTPGet issues a GET against the test server
func (e *Env) HTTPGet(path string) (*http.Response, error) {
	return http.Get(e.Server.URL + path)
}

// HTTPPost issues a JSON POST against the test server
func (e *Env) HTTPPost(path string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	return http.Post(e.Server.URL+path, "application/json", bytes.NewReader(data))
}

// SeedCompanies writes companies into the directory
func (e *Env) SeedCompanies(companies ...*models.Company) {
	e.t.Helper()
	if err := e.App.Storage.CompanyStore().UpsertBatch(context.Background(), companies); err != nil {
		e.t.Fatalf("seed companies: %v", err)
	}
}

// SaveResult saves test output to the results directory
func (e *Env) SaveResult(name string, data []byte) error {
	if err := os.MkdirAll(e.ResultsDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(e.ResultsDir, name), data, 0644)
}

// FakeDARTKey is the only key the fake disclosure API accepts
const FakeDARTKey = "test-dart-key"

// FakeDART serves canned statement responses per year. Years without a
// response answer with status 013.
type FakeDART struct {
	server *httptest.Server

	mu        sync.Mutex
	responses map[int]models.DisclosureResponse
	requests  []int
}

// NewFakeDART starts the fake disclosure API
func NewFakeDART() *FakeDART {
	f := &FakeDART{responses: make(map[int]models.DisclosureResponse)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	return f
}

// URL returns the base URL of the fake API
func (f *FakeDART) URL() string {
	return f.server.URL
}

// Close stops the fake API
func (f *FakeDART) Close() {
	f.server.Close()
}

// SetResponse sets the response for a business year
func (f *FakeDART) SetResponse(year int, resp models.DisclosureResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[year] = resp
}

// RequestedYears returns the business years requested so far, in order
func (f *FakeDART) RequestedYears() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.requests...)
}

func (f *FakeDART) serve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "application/json")

	if q.Get("crtfc_key") != FakeDARTKey {
		json.NewEncoder(w).Encode(models.DisclosureResponse{Status: "010", Message: "등록되지 않은 키입니다."})
		return
	}

	year, err := strconv.Atoi(q.Get("bsns_year"))
	if err != nil {
		json.NewEncoder(w).Encode(models.DisclosureResponse{Status: "100", Message: "필드의 부적절한 값입니다."})
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, year)
	resp, ok := f.responses[year]
	f.mu.Unlock()

	if !ok {
		resp = models.DisclosureResponse{Status: models.DARTStatusNoData, Message: "조회된 데이타가 없습니다."}
	}
	json.NewEncoder(w).Encode(resp)
}

// findProjectRoot walks up directories to find go.mod
func findProjectRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}
