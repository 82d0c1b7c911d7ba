package router

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	config "github.com/tbeaudouin05/efi-proxy/api/config"
	efiapp "github.com/tbeaudouin05/efi-proxy/api/services/efi/app"
	efigw "github.com/tbeaudouin05/efi-proxy/api/services/efi/gateway/efi"
)

const testAPIKey = "test-proxy-key"

type efiRoute struct {
	status int
	body   string
}

// fakeEfiRoutes maps "METHOD /path" to a canned gateway reply.
type fakeEfiRoutes map[string]efiRoute

func defaultEfiRoutes() fakeEfiRoutes {
	return fakeEfiRoutes{
		"POST /v1/authorize":              {http.StatusOK, `{"access_token":"sub-token"}`},
		"POST /oauth/token":               {http.StatusOK, `{"access_token":"pix-token"}`},
		"POST /v1/plan":                   {http.StatusOK, `{"code":200,"data":{"plan_id":1234,"name":"Gold","interval":1}}`},
		"GET /v1/plans":                   {http.StatusOK, `{"code":200,"data":[{"plan_id":1234}]}`},
		"GET /v1/plan/1234":               {http.StatusOK, `{"code":200,"data":{"plan_id":1234,"name":"Gold"}}`},
		"POST /v1/plan/1234/subscription": {http.StatusOK, `{"code":200,"data":{"subscription_id":99,"status":"new"}}`},
		"POST /v2/cob":                    {http.StatusCreated, `{"txid":"tx99","loc":{"id":55},"pixCopiaECola":"00020126..."}`},
		"GET /v2/loc/55/qrcode":           {http.StatusOK, `{"qrcode":"00020126...","imagemQrcode":"data:image/png;base64,iVBOR"}`},
	}
}

func clientCertificate(t *testing.T) tls.Certificate {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "router-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}

// newTestServer serves the real router, app and gateway client against a fake Efí API.
func newTestServer(t *testing.T, routes fakeEfiRoutes) *httpexpect.Expect {
	t.Helper()
	efi := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rt, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			rt.status, rt.body = http.StatusNotFound, `{"error":"not_found"}`
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rt.status)
		_, _ = w.Write([]byte(rt.body))
	}))
	t.Cleanup(efi.Close)

	cfg := &config.Config{
		ProxyAPIKey:          testAPIKey,
		EfiClientID:          "id",
		EfiClientSecret:      "secret",
		EfiCertificateBase64: "present",
		EfiAmbiente:          "sandbox",
		EfiChavePix:          "pix@example.com",
	}
	cert := clientCertificate(t)
	gateway := efigw.New(efigw.Options{
		SubscriptionsBaseURL: efi.URL,
		PixBaseURL:           efi.URL,
		ClientID:             cfg.EfiClientID,
		ClientSecret:         cfg.EfiClientSecret,
		Certificate:          &cert,
	})
	svc := efiapp.NewService(gateway, efiapp.Options{Environment: cfg.Environment(), PixKey: cfg.EfiChavePix})

	return newExpect(t, NewRouter(cfg, svc, zap.NewNop()))
}

func newExpect(t *testing.T, h http.Handler) *httpexpect.Expect {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  ts.URL,
		Reporter: httpexpect.NewAssertReporter(t),
	})
}

func decodeBody(t *testing.T, raw string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestOptionsPreflight(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())

	for _, path := range []string{ProxyPath, HealthPath, "/api/unknown"} {
		resp := e.OPTIONS(path).Expect().Status(http.StatusOK)
		assert.Empty(t, resp.Body().Raw())
		h := resp.Raw().Header
		assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, OPTIONS", h.Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", h.Get("Access-Control-Allow-Headers"))
	}
}

func TestProxy_UnauthorizedRegardlessOfBody(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())
	bodies := []string{`{"action":"list_plans","data":{}}`, `not json`, ``}
	headers := []string{"", "Bearer wrong", testAPIKey, "Bearer " + testAPIKey + "x", "Basic " + testAPIKey}

	for _, body := range bodies {
		for _, h := range headers {
			req := e.POST(ProxyPath).WithBytes([]byte(body)).WithHeader("Content-Type", "application/json")
			if h != "" {
				req = req.WithHeader("Authorization", h)
			}
			raw := req.Expect().Status(http.StatusUnauthorized).Body().Raw()
			assert.Equal(t, "unauthorized", decodeBody(t, raw)["error"])
		}
	}
}

func authed(e *httpexpect.Expect, body string) *httpexpect.Request {
	return e.POST(ProxyPath).
		WithHeader("Authorization", "Bearer "+testAPIKey).
		WithHeader("Content-Type", "application/json").
		WithBytes([]byte(body))
}

func TestProxy_InvalidBody(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())

	for _, body := range []string{`{"action":`, `[1,2]`, ``, `"{broken"`} {
		raw := authed(e, body).Expect().Status(http.StatusBadRequest).Body().Raw()
		out := decodeBody(t, raw)
		assert.Equal(t, "invalid body", out["error"])
		assert.NotEmpty(t, out["details"])
	}
}

func TestProxy_ActionAndDataRequired(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())

	for _, body := range []string{`{}`, `{"action":"list_plans"}`, `{"data":{}}`, `{"action":"list_plans","data":null}`} {
		raw := authed(e, body).Expect().Status(http.StatusBadRequest).Body().Raw()
		assert.Equal(t, "action and data are required", decodeBody(t, raw)["error"])
	}
}

func TestProxy_InvalidAction(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())

	raw := authed(e, `{"action":"refund","data":{}}`).Expect().Status(http.StatusBadRequest).Body().Raw()
	out := decodeBody(t, raw)
	assert.Equal(t, "invalid action", out["error"])
	assert.Equal(t, "refund", out["action"])
}

func TestProxy_InvalidData(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())

	raw := authed(e, `{"action":"get_plan","data":{"plan":1}}`).Expect().Status(http.StatusBadRequest).Body().Raw()
	out := decodeBody(t, raw)
	assert.Equal(t, "invalid data", out["error"])
	assert.Contains(t, out["details"], "plan_id")
}

func TestProxy_CreatePlan(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())

	raw := authed(e, `{"action":"create_plan","data":{"name":"Gold","interval":1}}`).Expect().Status(http.StatusOK).Body().Raw()
	out := decodeBody(t, raw)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, float64(1234), out["plan_id"])
}

func TestProxy_StringEncodedBody(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())

	inner, _ := json.Marshal(`{"action":"list_plans","data":{}}`)
	raw := authed(e, string(inner)).Expect().Status(http.StatusOK).Body().Raw()
	out := decodeBody(t, raw)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "sandbox", out["environment"])
	assert.Len(t, out["plans"], 1)
}

func TestProxy_LegacyPath(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())

	e.POST(LegacyProxyPath).
		WithHeader("Authorization", "Bearer "+testAPIKey).
		WithBytes([]byte(`{"action":"list_plans","data":{}}`)).
		Expect().
		Status(http.StatusOK)
}

func TestProxy_GetPlanNotFound(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())

	tests := []struct {
		name   string
		planID string
		want   any
	}{
		{name: "number", planID: `4242`, want: float64(4242)},
		{name: "numeric string", planID: `"12"`, want: "12"},
		{name: "leading zeros", planID: `"007"`, want: "007"},
		{name: "sign", planID: `"+5"`, want: "+5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := authed(e, `{"action":"get_plan","data":{"plan_id":`+tt.planID+`}}`).
				Expect().Status(http.StatusOK).Body().Raw()
			out := decodeBody(t, raw)
			assert.Equal(t, false, out["success"])
			assert.Equal(t, tt.want, out["plan_id"])
			assert.Equal(t, "plan not found", out["error"])
			assert.Equal(t, "sandbox", out["environment"])
		})
	}
}

func TestProxy_GetPlanFound(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())

	raw := authed(e, `{"action":"get_plan","data":{"plan_id":"1234"}}`).Expect().Status(http.StatusOK).Body().Raw()
	out := decodeBody(t, raw)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Gold", out["plan"].(map[string]any)["name"])
}

func TestProxy_GatewayErrorEnvelope(t *testing.T) {
	routes := defaultEfiRoutes()
	routes["POST /v1/plan"] = efiRoute{http.StatusBadRequest, `{"code":3500034,"error":"validation_error"}`}
	e := newTestServer(t, routes)

	raw := authed(e, `{"action":"create_plan","data":{"name":"Gold","interval":1}}`).Expect().Status(http.StatusInternalServerError).Body().Raw()
	out := decodeBody(t, raw)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "failed to create plan", out["error"])
	assert.Equal(t, "validation_error", out["details"].(map[string]any)["error"])
}

func TestProxy_TokenFailureIsInternalError(t *testing.T) {
	routes := defaultEfiRoutes()
	routes["POST /v1/authorize"] = efiRoute{http.StatusUnauthorized, `{"error":"invalid_client"}`}
	e := newTestServer(t, routes)

	raw := authed(e, `{"action":"list_plans","data":{}}`).Expect().Status(http.StatusInternalServerError).Body().Raw()
	out := decodeBody(t, raw)
	assert.Equal(t, "internal error", out["error"])
	assert.Contains(t, out["details"], "invalid_client")
}

const pixSubscription = `{"action":"create_subscription","data":{"plan_id":1234,"value":4990,"payment_method":"pix","customer":{"cpf":"12345678909","name":"Maria"}}}`

func TestProxy_CreateSubscriptionWithPix(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())

	raw := authed(e, pixSubscription).Expect().Status(http.StatusOK).Body().Raw()
	out := decodeBody(t, raw)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, float64(99), out["subscription_id"])

	pix := out["payment_data"].(map[string]any)["pix"].(map[string]any)
	assert.NotEmpty(t, pix["qrcode"])
	assert.NotEmpty(t, pix["qrcode_image"])
	assert.Equal(t, "tx99", pix["txid"])
}

func TestProxy_CreateSubscriptionPixFailureIsSwallowed(t *testing.T) {
	routes := defaultEfiRoutes()
	routes["POST /v2/cob"] = efiRoute{http.StatusBadRequest, `{"nome":"ChaveNaoPertenceAoRecebedor"}`}
	e := newTestServer(t, routes)

	raw := authed(e, pixSubscription).Expect().Status(http.StatusOK).Body().Raw()
	out := decodeBody(t, raw)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, float64(99), out["subscription_id"])
	v, present := out["payment_data"]
	assert.True(t, present)
	assert.Nil(t, v)
	assert.NotEmpty(t, out["payment_error"])
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, defaultEfiRoutes())

	resp := e.GET(HealthPath).Expect().Status(http.StatusOK)
	assert.Equal(t, "*", resp.Raw().Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Raw().Header.Get(requestIDHeader))

	out := decodeBody(t, resp.Body().Raw())
	assert.Equal(t, "ok", out["status"])
	env := out["environment"].(map[string]any)
	assert.Equal(t, true, env["hasClientId"])
	assert.Equal(t, true, env["hasProxyKey"])
	assert.Equal(t, true, env["hasEfiChavePix"])
	assert.Equal(t, "sandbox", env["ambiente"])
	assert.NotContains(t, resp.Body().Raw(), testAPIKey)
}

type panickingService struct{ efiapp.Service }

func (panickingService) Dispatch(context.Context, string, json.RawMessage) (any, error) {
	panic("boom")
}

func TestProxy_PanicIsRecovered(t *testing.T) {
	cfg := &config.Config{ProxyAPIKey: testAPIKey}
	e := newExpect(t, NewRouter(cfg, panickingService{}, zap.NewNop()))

	raw := authed(e, `{"action":"list_plans","data":{}}`).Expect().Status(http.StatusInternalServerError).Body().Raw()
	assert.Equal(t, "internal error", decodeBody(t, raw)["error"])
}

func TestWriteJSON_EncodingFailureIsInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "internal error", decodeBody(t, rec.Body.String())["error"])
}

func TestRequestLog_PanicAfterWriteKeepsResponse(t *testing.T) {
	h := withRequestLog(zap.NewNop(), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, HealthPath, nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}
