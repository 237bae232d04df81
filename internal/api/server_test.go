package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lorawan-server/chirpstack-rest-gateway/internal/chirpstack"
	"github.com/lorawan-server/chirpstack-rest-gateway/internal/config"
	"github.com/lorawan-server/chirpstack-rest-gateway/internal/models"
)

// stubClient implements chirpstack.Client for handler tests. It records
// the arguments of the last call and returns canned values, or err when
// set.
type stubClient struct {
	err error

	apps     []*models.Application
	devices  []*models.Device
	gateways []*models.Gateway
	profiles []*models.DeviceProfile
	queue    []*models.DownlinkQueueItem
	total    int64

	app     *models.Application
	device  *models.Device
	gateway *models.Gateway
	profile *models.DeviceProfile

	enqueueID string

	gotLimit         int
	gotOffset        int
	gotApplicationID string
	gotID            string
	gotDevEUI        models.EUI64
	gotItem          *models.DownlinkQueueItem

	listCalls    int
	enqueueCalls int
	flushCalls   int
}

func (c *stubClient) ListApplications(ctx context.Context, limit, offset int) ([]*models.Application, int64, error) {
	c.listCalls++
	c.gotLimit, c.gotOffset = limit, offset
	return c.apps, c.total, c.err
}

func (c *stubClient) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	c.gotID = id
	return c.app, c.err
}

func (c *stubClient) ListDevices(ctx context.Context, applicationID string, limit, offset int) ([]*models.Device, int64, error) {
	c.listCalls++
	c.gotApplicationID = applicationID
	c.gotLimit, c.gotOffset = limit, offset
	return c.devices, c.total, c.err
}

func (c *stubClient) GetDevice(ctx context.Context, devEUI models.EUI64) (*models.Device, error) {
	c.gotDevEUI = devEUI
	return c.device, c.err
}

func (c *stubClient) ListGateways(ctx context.Context, limit, offset int) ([]*models.Gateway, int64, error) {
	c.listCalls++
	c.gotLimit, c.gotOffset = limit, offset
	return c.gateways, c.total, c.err
}

func (c *stubClient) GetGateway(ctx context.Context, gatewayID models.EUI64) (*models.Gateway, error) {
	c.gotDevEUI = gatewayID
	return c.gateway, c.err
}

func (c *stubClient) ListDeviceProfiles(ctx context.Context, limit, offset int) ([]*models.DeviceProfile, int64, error) {
	c.listCalls++
	c.gotLimit, c.gotOffset = limit, offset
	return c.profiles, c.total, c.err
}

func (c *stubClient) GetDeviceProfile(ctx context.Context, id string) (*models.DeviceProfile, error) {
	c.gotID = id
	return c.profile, c.err
}

func (c *stubClient) EnqueueDownlink(ctx context.Context, devEUI models.EUI64, item *models.DownlinkQueueItem) (string, error) {
	c.enqueueCalls++
	c.gotDevEUI = devEUI
	c.gotItem = item
	return c.enqueueID, c.err
}

func (c *stubClient) ListDownlinkQueue(ctx context.Context, devEUI models.EUI64) ([]*models.DownlinkQueueItem, error) {
	c.gotDevEUI = devEUI
	return c.queue, c.err
}

func (c *stubClient) FlushDownlinkQueue(ctx context.Context, devEUI models.EUI64) error {
	c.flushCalls++
	c.gotDevEUI = devEUI
	return c.err
}

func (c *stubClient) Close() error {
	return nil
}

func newTestServer(client chirpstack.Client, jwtSecret string) *RESTServer {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Name:    "chirpstack-rest-gateway",
			Version: "test",
		},
		Auth: config.AuthConfig{
			JWTSecret: jwtSecret,
		},
	}
	return NewRESTServer(cfg, client)
}

func doRequest(s *RESTServer, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(&stubClient{}, "")

	rec := doRequest(s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", body["status"])
	}
}

func TestRoot(t *testing.T) {
	s := newTestServer(&stubClient{}, "")

	rec := doRequest(s, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["service"] != "chirpstack-rest-gateway" {
		t.Errorf("unexpected service name: %v", body["service"])
	}
}

func TestListApplicationsForwardsPagination(t *testing.T) {
	client := &stubClient{
		apps:  []*models.Application{{ID: "a1", Name: "app-1"}},
		total: 42,
	}
	s := newTestServer(client, "")

	rec := doRequest(s, http.MethodGet, "/applications?limit=25&offset=50")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if client.gotLimit != 25 || client.gotOffset != 50 {
		t.Errorf("pagination not forwarded: limit=%d offset=%d", client.gotLimit, client.gotOffset)
	}

	var body struct {
		Result     []models.Application `json:"result"`
		TotalCount int64                `json:"totalCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.TotalCount != 42 {
		t.Errorf("expected totalCount 42, got %d", body.TotalCount)
	}
	if len(body.Result) != 1 || body.Result[0].Name != "app-1" {
		t.Errorf("unexpected result: %+v", body.Result)
	}
}

func TestListApplicationsDefaultLimit(t *testing.T) {
	client := &stubClient{}
	s := newTestServer(client, "")

	rec := doRequest(s, http.MethodGet, "/applications")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if client.gotLimit != 10 {
		t.Errorf("expected default limit 10, got %d", client.gotLimit)
	}
	if client.gotOffset != 0 {
		t.Errorf("expected default offset 0, got %d", client.gotOffset)
	}
}

func TestListPaginationRejected(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"zero limit", "limit=0"},
		{"negative limit", "limit=-1"},
		{"limit too large", "limit=101"},
		{"limit not a number", "limit=ten"},
		{"negative offset", "offset=-1"},
		{"offset not a number", "offset=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{}
			s := newTestServer(client, "")

			rec := doRequest(s, http.MethodGet, "/applications?"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if client.listCalls != 0 {
				t.Errorf("backend called %d times for invalid pagination", client.listCalls)
			}
		})
	}
}

func TestGetApplicationNotFound(t *testing.T) {
	client := &stubClient{
		err: fmt.Errorf("%w: object does not exist", chirpstack.ErrNotFound),
	}
	s := newTestServer(client, "")

	rec := doRequest(s, http.MethodGet, "/applications/3b2c1f1e-88a4-4b2c-9e1a-123456789abc")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetApplicationInvalidID(t *testing.T) {
	s := newTestServer(&stubClient{}, "")

	rec := doRequest(s, http.MethodGet, "/applications/not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBackendErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("%w: no such gateway", chirpstack.ErrNotFound), http.StatusNotFound},
		{"unauthenticated", fmt.Errorf("%w: bad api key", chirpstack.ErrUnauthenticated), http.StatusUnauthorized},
		{"permission denied", fmt.Errorf("%w: wrong tenant", chirpstack.ErrPermissionDenied), http.StatusForbidden},
		{"invalid argument", fmt.Errorf("%w: bad field", chirpstack.ErrInvalidArgument), http.StatusBadRequest},
		{"unavailable", fmt.Errorf("%w: connection refused", chirpstack.ErrUnavailable), http.StatusBadGateway},
		{"uncategorized", fmt.Errorf("something broke"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&stubClient{err: tt.err}, "")

			rec := doRequest(s, http.MethodGet, "/gateways/0102030405060708")
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body["error"] == "" {
				t.Error("expected error message in body")
			}
		})
	}
}

func TestListDevicesRequiresApplicationID(t *testing.T) {
	client := &stubClient{}
	s := newTestServer(client, "")

	rec := doRequest(s, http.MethodGet, "/devices")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if client.listCalls != 0 {
		t.Error("backend called without application_id")
	}

	rec = doRequest(s, http.MethodGet, "/devices?application_id=not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid application_id, got %d", rec.Code)
	}
}

func TestListDevicesForwardsApplicationID(t *testing.T) {
	client := &stubClient{total: 3}
	s := newTestServer(client, "")

	appID := "3b2c1f1e-88a4-4b2c-9e1a-123456789abc"
	rec := doRequest(s, http.MethodGet, "/devices?application_id="+appID+"&limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if client.gotApplicationID != appID {
		t.Errorf("expected application_id %s, got %s", appID, client.gotApplicationID)
	}
	if client.gotLimit != 5 {
		t.Errorf("expected limit 5, got %d", client.gotLimit)
	}
}

func TestGetDeviceInvalidEUI(t *testing.T) {
	s := newTestServer(&stubClient{}, "")

	for _, path := range []string{"/devices/zz", "/devices/01020304050607"} {
		rec := doRequest(s, http.MethodGet, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestGetDeviceNotFound(t *testing.T) {
	client := &stubClient{
		err: fmt.Errorf("%w: object does not exist", chirpstack.ErrNotFound),
	}
	s := newTestServer(client, "")

	rec := doRequest(s, http.MethodGet, "/devices/0102030405060708")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAuthDisabledByDefault(t *testing.T) {
	s := newTestServer(&stubClient{}, "")

	rec := doRequest(s, http.MethodGet, "/applications")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without auth, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	s := newTestServer(&stubClient{}, secret)

	// Missing token
	rec := doRequest(s, http.MethodGet, "/applications")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// Health stays public
	rec = doRequest(s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for health, got %d", rec.Code)
	}

	// Valid token
	claims := jwt.RegisteredClaims{
		Subject:   "tester",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", rec.Code, rec.Body.String())
	}

	// Wrong secret
	bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/applications", nil)
	req.Header.Set("Authorization", "Bearer "+bad)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}
}
