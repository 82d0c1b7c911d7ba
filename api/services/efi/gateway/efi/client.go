package efigw

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/tbeaudouin05/efi-proxy/api/httpclient"
	gw "github.com/tbeaudouin05/efi-proxy/api/services/efi/gateway"
)

// ErrMissingCredentials indicates EFI_CLIENT_ID or EFI_CLIENT_SECRET is unset.
var ErrMissingCredentials = errors.New("EFI_CLIENT_ID and EFI_CLIENT_SECRET are required")

// Options configures the Efí gateway client.
type Options struct {
	SubscriptionsBaseURL string
	PixBaseURL           string
	ClientID             string
	ClientSecret         string
	// Certificate authenticates PIX calls. Without it every PIX call fails
	// with gw.ErrCertificateRequired.
	Certificate *tls.Certificate
	Logger      *zap.Logger
	// Transport overrides both underlying transports (tests).
	Transport http.RoundTripper
}

// client is the REST implementation of the gateway.
type client struct {
	subsURL string
	pixURL  string
	basic   string
	subs    *httpclient.Client
	pix     *httpclient.Client
	logger  *zap.Logger
}

// New returns an EfiGateway backed by the Efí REST APIs.
func New(o Options) gw.EfiGateway {
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	common := []httpclient.Option{httpclient.WithLogger(logger)}
	if o.Transport != nil {
		common = append(common, httpclient.WithTransport(o.Transport))
	}

	c := &client{
		subsURL: o.SubscriptionsBaseURL,
		pixURL:  o.PixBaseURL,
		subs:    httpclient.New(common...),
		logger:  logger,
	}
	if o.ClientID != "" && o.ClientSecret != "" {
		c.basic = "Basic " + base64.StdEncoding.EncodeToString([]byte(o.ClientID+":"+o.ClientSecret))
	}
	if o.Certificate != nil {
		c.pix = httpclient.New(append(common, httpclient.WithCertificate(*o.Certificate))...)
	}
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

var grantBody = []byte(`{"grant_type":"client_credentials"}`)

func (c *client) SubscriptionsToken(ctx context.Context) (string, error) {
	return c.token(ctx, c.subs, c.subsURL+"/v1/authorize", "subscriptions oauth")
}

func (c *client) PixToken(ctx context.Context) (string, error) {
	if c.pix == nil {
		return "", gw.ErrCertificateRequired
	}
	return c.token(ctx, c.pix, c.pixURL+"/oauth/token", "pix oauth")
}

func (c *client) token(ctx context.Context, hc *httpclient.Client, endpoint, op string) (string, error) {
	if c.basic == "" {
		return "", ErrMissingCredentials
	}
	resp, err := hc.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    endpoint,
		Header: http.Header{
			"Authorization": []string{c.basic},
			"Content-Type":  []string{"application/json"},
		},
		Body: grantBody,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if resp.Status != http.StatusOK {
		return "", &gw.APIError{Operation: op, Status: resp.Status, Body: resp.Body}
	}
	var tok tokenResponse
	if err := json.Unmarshal(resp.Body, &tok); err != nil {
		return "", fmt.Errorf("%s: invalid token response: %w", op, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%s: token response has no access_token", op)
	}
	return tok.AccessToken, nil
}

// envelope is the {"code":..., "data":...} wrapper of the subscriptions API.
type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

func (c *client) CreatePlan(ctx context.Context, token string, plan gw.PlanInput) (gw.Plan, error) {
	var env envelope
	if err := c.call(ctx, c.subs, "create plan", http.MethodPost, c.subsURL+"/v1/plan", token, plan, &env, http.StatusOK); err != nil {
		return gw.Plan{}, err
	}
	var out gw.Plan
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return gw.Plan{}, fmt.Errorf("create plan: invalid response: %w", err)
	}
	return out, nil
}

func (c *client) ListPlans(ctx context.Context, token string) (json.RawMessage, error) {
	var env envelope
	if err := c.call(ctx, c.subs, "list plans", http.MethodGet, c.subsURL+"/v1/plans", token, nil, &env, http.StatusOK); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *client) GetPlan(ctx context.Context, token, planID string) (json.RawMessage, error) {
	var env envelope
	if err := c.call(ctx, c.subs, "get plan", http.MethodGet, c.subsURL+"/v1/plan/"+url.PathEscape(planID), token, nil, &env, http.StatusOK); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *client) CreateSubscription(ctx context.Context, token, planID string, sub gw.SubscriptionInput) (gw.Subscription, error) {
	var env envelope
	endpoint := c.subsURL + "/v1/plan/" + url.PathEscape(planID) + "/subscription"
	if err := c.call(ctx, c.subs, "create subscription", http.MethodPost, endpoint, token, sub, &env, http.StatusOK); err != nil {
		return gw.Subscription{}, err
	}
	var out gw.Subscription
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return gw.Subscription{}, fmt.Errorf("create subscription: invalid response: %w", err)
	}
	return out, nil
}

func (c *client) CreatePixCharge(ctx context.Context, token string, charge gw.PixChargeInput) (gw.PixCharge, error) {
	if c.pix == nil {
		return gw.PixCharge{}, gw.ErrCertificateRequired
	}
	var out gw.PixCharge
	if err := c.call(ctx, c.pix, "create pix charge", http.MethodPost, c.pixURL+"/v2/cob", token, charge, &out, http.StatusOK, http.StatusCreated); err != nil {
		return gw.PixCharge{}, err
	}
	return out, nil
}

func (c *client) GetQRCode(ctx context.Context, token string, locationID int64) (gw.QRCode, error) {
	if c.pix == nil {
		return gw.QRCode{}, gw.ErrCertificateRequired
	}
	var out gw.QRCode
	endpoint := c.pixURL + "/v2/loc/" + strconv.FormatInt(locationID, 10) + "/qrcode"
	if err := c.call(ctx, c.pix, "get qrcode", http.MethodGet, endpoint, token, nil, &out, http.StatusOK); err != nil {
		return gw.QRCode{}, err
	}
	return out, nil
}

// call sends an authenticated JSON request and decodes the body into out
// when the status is one of ok.
func (c *client) call(ctx context.Context, hc *httpclient.Client, op, method, endpoint, token string, body, out any, ok ...int) error {
	req := httpclient.Request{
		Method: method,
		URL:    endpoint,
		Header: http.Header{
			"Authorization": []string{"Bearer " + token},
			"Content-Type":  []string{"application/json"},
		},
	}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		req.Body = b
	}

	resp, err := hc.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.logger.Debug("gateway call", zap.String("op", op), zap.Int("status", resp.Status))

	if !accepted(resp.Status, ok) {
		return &gw.APIError{Operation: op, Status: resp.Status, Body: resp.Body}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%s: invalid response: %w", op, err)
	}
	return nil
}

func accepted(status int, ok []int) bool {
	for _, s := range ok {
		if s == status {
			return true
		}
	}
	return false
}
