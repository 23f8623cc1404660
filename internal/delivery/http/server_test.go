package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/config"
	httpDelivery "github.com/burn-ops-service/internal/delivery/http"
	"github.com/burn-ops-service/internal/delivery/http/handler"
	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/infrastructure/auth"
	"github.com/burn-ops-service/internal/infrastructure/connectivity"
	"github.com/burn-ops-service/internal/infrastructure/groq"
	"github.com/burn-ops-service/internal/pkg/metrics"
	"github.com/burn-ops-service/internal/repository/sqlite"
	"github.com/burn-ops-service/internal/usecase"
)

const testSecret = "test-secret"

// memRemote - удалённое хранилище в памяти с переключаемым отказом
type memRemote struct {
	mu      sync.Mutex
	records map[string]map[uuid.UUID]*domain.OperationRecord
	fail    bool
}

func newMemRemote() *memRemote {
	return &memRemote{records: make(map[string]map[uuid.UUID]*domain.OperationRecord)}
}

func (r *memRemote) setFail(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = v
}

func (r *memRemote) count(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records[owner])
}

func (r *memRemote) Insert(_ context.Context, ownerID string, rec *domain.OperationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return stderrors.New("connection refused")
	}
	if r.records[ownerID] == nil {
		r.records[ownerID] = make(map[uuid.UUID]*domain.OperationRecord)
	}
	cp := *rec
	cp.Synced = true
	cp.OwnerID = &ownerID
	r.records[ownerID][rec.ID] = &cp
	return nil
}

func (r *memRemote) ListByOwner(_ context.Context, ownerID string) ([]*domain.OperationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, stderrors.New("connection refused")
	}
	out := make([]*domain.OperationRecord, 0, len(r.records[ownerID]))
	for _, rec := range r.records[ownerID] {
		out = append(out, rec)
	}
	return out, nil
}

func (r *memRemote) GetByID(_ context.Context, ownerID string, id uuid.UUID) (*domain.OperationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, stderrors.New("connection refused")
	}
	rec, ok := r.records[ownerID][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (r *memRemote) Delete(_ context.Context, ownerID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return stderrors.New("connection refused")
	}
	if _, ok := r.records[ownerID][id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.records[ownerID], id)
	return nil
}

type stubWeather struct{}

func (stubWeather) Current(_ context.Context, lat, lon float64) (*domain.WeatherConditions, error) {
	return &domain.WeatherConditions{Temperature: 21.5, Humidity: 40, WindSpeed: 8}, nil
}

type stubGeocoder struct{}

func (stubGeocoder) Search(_ context.Context, query string) (*domain.Place, error) {
	if query == "nowhere" {
		return nil, domain.ErrNotFound
	}
	return &domain.Place{Lat: 40.12, Lon: 9.01, DisplayName: query}, nil
}

type ServerSuite struct {
	suite.Suite

	db       *sqlite.DB
	remote   *memRemote
	monitor  *connectivity.Monitor
	verifier *auth.JWTVerifier
	server   *httpDelivery.Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	logger := zap.NewNop()

	db, err := sqlite.Open(":memory:", logger)
	s.Require().NoError(err)
	s.db = db
	s.remote = newMemRemote()

	registry := prometheus.NewRegistry()
	m := metrics.New("test", registry)

	s.monitor = connectivity.NewMonitor(nil, time.Minute, time.Second, m, logger)
	s.verifier = auth.NewJWTVerifier(testSecret)

	localOps := sqlite.NewOperationRepository(db, logger)
	gate := auth.NewGate(sqlite.NewSessionRepository(db, logger), s.verifier, logger)

	coordinator := usecase.NewSyncCoordinator(localOps, s.remote, gate, s.monitor, nil, m, logger)
	personnelUC := usecase.NewPersonnelUseCase(sqlite.NewPersonnelRepository(db, logger), logger)
	operationUC := usecase.NewOperationUseCase(coordinator, localOps, s.remote, gate, s.monitor, personnelUC, logger)
	analysisUC := usecase.NewAnalysisUseCase(groq.NewClient(&config.GroqConfig{}, logger), logger)
	lookupUC := usecase.NewLookupUseCase(stubWeather{}, stubGeocoder{}, nil, time.Minute, time.Minute, logger)

	cfg := &config.Config{Server: config.ServerConfig{AllowOrigins: "http://localhost:5173"}}
	s.server = httpDelivery.NewServer(cfg, logger, m, registry, db, nil, httpDelivery.Handlers{
		Geometry:  handler.NewGeometryHandler(),
		Draft:     handler.NewDraftHandler(usecase.NewDraftUseCase(coordinator, personnelUC, analysisUC, logger), logger),
		Operation: handler.NewOperationHandler(operationUC, usecase.NewReportUseCase(operationUC, gate, logger), logger),
		Personnel: handler.NewPersonnelHandler(personnelUC, logger),
		Sync:      handler.NewSyncHandler(coordinator, s.monitor, nil, logger),
		Session:   handler.NewSessionHandler(gate, logger),
		Lookup:    handler.NewLookupHandler(lookupUC, logger),
		Analysis:  handler.NewAnalysisHandler(analysisUC, logger),
	})
}

func (s *ServerSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (s *ServerSuite) do(method, path string, body any) (*http.Response, envelope) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.server.App().Test(req, -1)
	s.Require().NoError(err)

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	resp.Body.Close()

	var env envelope
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (s *ServerSuite) signIn(userID string) {
	token, err := s.verifier.IssueToken(&domain.Identity{UserID: userID, FirstName: "Anna", LastName: "Sanna"}, time.Hour)
	s.Require().NoError(err)
	resp, _ := s.do(http.MethodPost, "/api/v1/session", map[string]string{"token": token})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
}

func operationBody(name string) map[string]any {
	return map[string]any{
		"name":       name,
		"location":   "Monte Arci",
		"fuel_model": "Pascolo",
		"weather":    map[string]any{"temp": 18, "humidity": 55, "wind": 6, "slope": 12},
	}
}

func (s *ServerSuite) TestHealth() {
	resp, _ := s.do(http.MethodGet, "/api/v1/health", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *ServerSuite) TestUnknownRouteUsesErrorEnvelope() {
	resp, env := s.do(http.MethodGet, "/api/v1/nope", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Require().NotNil(env.Error)
	s.Equal("NOT_FOUND", env.Error.Code)
}

func (s *ServerSuite) TestGeometryStats() {
	resp, env := s.do(http.MethodPost, "/api/v1/geometry/stats", map[string]any{
		"vertices": []map[string]float64{
			{"lat": 0, "lon": 0}, {"lat": 0, "lon": 0.001}, {"lat": 0.001, "lon": 0.001}, {"lat": 0.001, "lon": 0},
		},
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var data struct {
		Stats struct {
			AreaHectares float64 `json:"area_hectares"`
			VertexCount  int     `json:"vertex_count"`
		} `json:"stats"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	s.InDelta(1.24, data.Stats.AreaHectares, 0.02)
	s.Equal(4, data.Stats.VertexCount)
}

func (s *ServerSuite) TestCreateOperation_OfflineSavesLocally() {
	s.monitor.Report(false, "test")
	s.signIn("user-1")

	resp, env := s.do(http.MethodPost, "/api/v1/operations", operationBody("Offline burn"))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var saved struct {
		Path   string `json:"path"`
		Reason string `json:"reason"`
		Record struct {
			Synced bool `json:"synced"`
		} `json:"record"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &saved))
	s.Equal("local", saved.Path)
	s.Equal("offline", saved.Reason)
	s.False(saved.Record.Synced)
	s.Equal(0, s.remote.count("user-1"))

	resp, env = s.do(http.MethodGet, "/api/v1/sync/pending", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.EqualValues(1, env.Meta["pending"])
}

func (s *ServerSuite) TestCreateOperation_OnlineGoesRemote() {
	s.monitor.Report(true, "test")
	s.signIn("user-1")

	resp, env := s.do(http.MethodPost, "/api/v1/operations", operationBody("Online burn"))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var saved struct {
		Path string `json:"path"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &saved))
	s.Equal("remote", saved.Path)
	s.Equal(1, s.remote.count("user-1"))
}

func (s *ServerSuite) TestCreateOperation_InvalidFuelModel() {
	body := operationBody("Bad")
	body["fuel_model"] = "Jungle"

	resp, env := s.do(http.MethodPost, "/api/v1/operations", body)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Require().NotNil(env.Error)
	s.Equal("INVALID_REQUEST", env.Error.Code)
}

func (s *ServerSuite) TestSyncAfterReconnect() {
	s.monitor.Report(false, "test")
	s.signIn("user-1")
	for _, name := range []string{"A", "B"} {
		resp, _ := s.do(http.MethodPost, "/api/v1/operations", operationBody(name))
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
	}

	resp, env := s.do(http.MethodPost, "/api/v1/connectivity", map[string]string{"state": "online", "device_id": "tab-1"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var conn struct {
		Online  bool `json:"online"`
		Pending int  `json:"pending"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &conn))
	s.True(conn.Online)
	s.Equal(2, conn.Pending)

	resp, env = s.do(http.MethodPost, "/api/v1/sync", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var result struct {
		Synced []uuid.UUID `json:"synced"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	s.Len(result.Synced, 2)
	s.Equal(2, s.remote.count("user-1"))

	resp, env = s.do(http.MethodGet, "/api/v1/sync/pending", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.JSONEq(`[]`, string(env.Data))
}

func (s *ServerSuite) TestSyncWithoutSessionIsAborted() {
	s.monitor.Report(true, "test")

	resp, env := s.do(http.MethodPost, "/api/v1/sync", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var result struct {
		Aborted     bool   `json:"aborted"`
		AbortReason string `json:"abort_reason"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	s.True(result.Aborted)
	s.Equal("no_identity", result.AbortReason)
}

func (s *ServerSuite) TestOperationLifecycle() {
	// онлайн, но без сессии: запись остаётся на устройстве
	s.monitor.Report(true, "test")

	resp, env := s.do(http.MethodPost, "/api/v1/operations", operationBody("Lifecycle"))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var saved struct {
		Reason string `json:"reason"`
		Record struct {
			ID uuid.UUID `json:"id"`
		} `json:"record"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &saved))
	s.Equal("anonymous", saved.Reason)
	id := saved.Record.ID.String()

	resp, _ = s.do(http.MethodGet, "/api/v1/operations/"+id, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, env = s.do(http.MethodGet, "/api/v1/operations", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.EqualValues(1, env.Meta["total"])

	req := httptest.NewRequest(http.MethodGet, "/api/v1/operations/"+id+"/report", nil)
	reportResp, err := s.server.App().Test(req, -1)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, reportResp.StatusCode)
	s.Contains(reportResp.Header.Get("Content-Type"), "text/markdown")
	md, err := io.ReadAll(reportResp.Body)
	s.Require().NoError(err)
	s.Contains(string(md), "Lifecycle")

	resp, _ = s.do(http.MethodDelete, "/api/v1/operations/"+id, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp, env = s.do(http.MethodGet, "/api/v1/operations/"+id, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Require().NotNil(env.Error)
	s.Equal("OPERATION_NOT_FOUND", env.Error.Code)
}

func (s *ServerSuite) TestGetOperation_InvalidID() {
	resp, env := s.do(http.MethodGet, "/api/v1/operations/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Require().NotNil(env.Error)
}

func (s *ServerSuite) TestPersonnel() {
	resp, env := s.do(http.MethodPost, "/api/v1/personnel", map[string]string{"name": " Luca ", "role": "Torcista"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var person struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &person))
	s.Equal("Luca", person.Name)

	resp, _ = s.do(http.MethodPost, "/api/v1/personnel", map[string]string{"name": "Mario", "role": "Astronauta"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, env = s.do(http.MethodGet, "/api/v1/personnel", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.EqualValues(1, env.Meta["total"])

	resp, _ = s.do(http.MethodDelete, "/api/v1/personnel/"+person.ID.String(), nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp, _ = s.do(http.MethodDelete, "/api/v1/personnel/"+person.ID.String(), nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *ServerSuite) TestDraftFlow() {
	s.monitor.Report(false, "test")

	resp, _ := s.do(http.MethodPut, "/api/v1/draft/form", map[string]any{
		"name": "Draft burn", "location": "Gennargentu", "fuel_model": "Bosco",
		"weather": map[string]any{"temp": 32, "wind": 5},
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodPut, "/api/v1/draft/area", map[string]any{
		"vertices": []map[string]float64{{"lat": 40, "lon": 9}, {"lat": 40, "lon": 9.01}},
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, env := s.do(http.MethodPut, "/api/v1/draft/area", map[string]any{
		"vertices": []map[string]float64{{"lat": 40, "lon": 9}, {"lat": 40, "lon": 9.01}, {"lat": 40.01, "lon": 9.01}},
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var draft struct {
		Area *struct {
			Stats struct {
				VertexCount int `json:"vertex_count"`
			} `json:"stats"`
		} `json:"area"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &draft))
	s.Require().NotNil(draft.Area)
	s.Equal(3, draft.Area.Stats.VertexCount)

	resp, env = s.do(http.MethodPost, "/api/v1/draft/analyze", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var analysis struct {
		Simulated bool   `json:"simulated"`
		Risk      string `json:"risk"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &analysis))
	s.True(analysis.Simulated)
	s.Equal("Alto", analysis.Risk)

	resp, env = s.do(http.MethodPost, "/api/v1/draft/commit", nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var saved struct {
		Path   string `json:"path"`
		Record struct {
			Name        string          `json:"name"`
			AreaGeoJSON json.RawMessage `json:"area_geojson"`
			AIReport    *string         `json:"ai_report"`
		} `json:"record"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &saved))
	s.Equal("local", saved.Path)
	s.Equal("Draft burn", saved.Record.Name)
	s.NotEmpty(saved.Record.AreaGeoJSON)
	s.NotNil(saved.Record.AIReport)

	resp, env = s.do(http.MethodGet, "/api/v1/draft", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var after struct {
		Form struct {
			Name string `json:"name"`
		} `json:"form"`
		Area *json.RawMessage `json:"area"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &after))
	s.Empty(after.Form.Name)
	s.Nil(after.Area)
}

func (s *ServerSuite) TestSession() {
	resp, env := s.do(http.MethodGet, "/api/v1/session", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Require().NotNil(env.Error)

	resp, env = s.do(http.MethodPost, "/api/v1/session", map[string]string{"token": "garbage"})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Require().NotNil(env.Error)
	s.Equal("INVALID_SESSION", env.Error.Code)

	s.signIn("user-9")
	resp, env = s.do(http.MethodGet, "/api/v1/session", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var identity domain.Identity
	s.Require().NoError(json.Unmarshal(env.Data, &identity))
	s.Equal("user-9", identity.UserID)

	resp, _ = s.do(http.MethodDelete, "/api/v1/session", nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/api/v1/session", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *ServerSuite) TestLookups() {
	resp, _ := s.do(http.MethodGet, "/api/v1/lookup/weather?lat=40.1&lon=9.2", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, env := s.do(http.MethodGet, "/api/v1/lookup/weather?lat=140&lon=9.2", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Require().NotNil(env.Error)
	s.Equal("INVALID_COORDINATES", env.Error.Code)

	resp, _ = s.do(http.MethodGet, "/api/v1/lookup/weather", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/api/v1/lookup/geocode?q=Nuoro", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/api/v1/lookup/geocode?q=nowhere", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/api/v1/lookup/geocode?q=a", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerSuite) TestAnalysisAndChat() {
	resp, env := s.do(http.MethodPost, "/api/v1/analysis", map[string]any{
		"location": "Orgosolo", "temp": 20, "wind": 5, "slope": 5, "fuel_model": "Pascolo",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var analysis struct {
		Risk string `json:"risk"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &analysis))
	s.Equal("Basso", analysis.Risk)

	// без ключа тренажёр недоступен
	resp, env = s.do(http.MethodPost, "/api/v1/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "Ciao"}},
	})
	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)
	s.Require().NotNil(env.Error)
}

func (s *ServerSuite) TestChecklist() {
	resp, env := s.do(http.MethodGet, "/api/v1/checklist", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(env.Data)
}

func (s *ServerSuite) TestMetricsEndpoint() {
	s.do(http.MethodGet, "/api/v1/checklist", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := s.server.App().Test(req, -1)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(body), `test_http_requests_total{method="GET",route="/api/v1/checklist",status="200"}`)
}

func TestServer_HealthReportsLocalStoreFailure(t *testing.T) {
	logger := zap.NewNop()
	db, err := sqlite.Open(":memory:", logger)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cfg := &config.Config{Server: config.ServerConfig{AllowOrigins: "*"}}
	server := httpDelivery.NewServer(cfg, logger, nil, nil, db, nil, httpDelivery.Handlers{
		Geometry:  handler.NewGeometryHandler(),
		Draft:     &handler.DraftHandler{},
		Operation: &handler.OperationHandler{},
		Personnel: &handler.PersonnelHandler{},
		Sync:      &handler.SyncHandler{},
		Session:   &handler.SessionHandler{},
		Lookup:    &handler.LookupHandler{},
		Analysis:  &handler.AnalysisHandler{},
	})

	resp, err := server.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
