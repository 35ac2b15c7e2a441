package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/ports/adapter"
	"template-checkout/internal/infra/metrics"
)

// MonnifyGateway implements adapter.PaymentGateway against the Monnify HTTP
// API. Authentication is a short-lived bearer token from auth/login, cached
// and refreshed under a mutex; client-supplied credentials are never used.
type MonnifyGateway struct {
	baseURL      string
	apiKey       string
	secretKey    string
	contractCode string
	currency     string
	redirectURL  string
	client       *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewMonnifyGateway(baseURL, apiKey, secretKey, contractCode, currency, redirectURL string) (*MonnifyGateway, error) {
	if apiKey == "" || secretKey == "" || contractCode == "" {
		return nil, fmt.Errorf("monnify credentials missing: %w", domain.ErrConfiguration)
	}
	if baseURL == "" {
		baseURL = "https://sandbox.monnify.com"
	}
	if currency == "" {
		currency = "NGN"
	}
	return &MonnifyGateway{
		baseURL:      baseURL,
		apiKey:       apiKey,
		secretKey:    secretKey,
		contractCode: contractCode,
		currency:     currency,
		redirectURL:  redirectURL,
		client:       &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *MonnifyGateway) Name() string { return "monnify" }

type monnifyEnvelope struct {
	RequestSuccessful bool            `json:"requestSuccessful"`
	ResponseMessage   string          `json:"responseMessage"`
	ResponseCode      string          `json:"responseCode"`
	ResponseBody      json.RawMessage `json:"responseBody"`
}

type monnifyLoginBody struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type monnifyInitBody struct {
	CheckoutURL          string `json:"checkoutUrl"`
	TransactionReference string `json:"transactionReference"`
	PaymentReference     string `json:"paymentReference"`
}

type monnifyQueryBody struct {
	PaymentStatus        string  `json:"paymentStatus"`
	AmountPaid           float64 `json:"amountPaid"`
	PaymentReference     string  `json:"paymentReference"`
	TransactionReference string  `json:"transactionReference"`
}

// accessToken returns a cached token, logging in again shortly before expiry.
// A failed exchange fails closed: callers never proceed unauthenticated.
func (g *MonnifyGateway) accessToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token != "" && time.Until(g.tokenExp) > 30*time.Second {
		return g.token, nil
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/v1/auth/login", nil)
	if err != nil {
		return "", err
	}
	creds := base64.StdEncoding.EncodeToString([]byte(g.apiKey + ":" + g.secretKey))
	req.Header.Set("Authorization", "Basic "+creds)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		metrics.IncGatewayCall("login", "transport_error")
		return "", fmt.Errorf("monnify login: %v: %w", err, domain.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()
	metrics.ObserveGatewayCall("login", time.Since(start).Seconds())

	var env monnifyEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || resp.StatusCode != http.StatusOK || !env.RequestSuccessful {
		metrics.IncGatewayCall("login", "auth_error")
		return "", fmt.Errorf("monnify login status=%d: %w", resp.StatusCode, domain.ErrGatewayAuth)
	}
	var body monnifyLoginBody
	if err := json.Unmarshal(env.ResponseBody, &body); err != nil || body.AccessToken == "" {
		metrics.IncGatewayCall("login", "auth_error")
		return "", fmt.Errorf("monnify login: empty token: %w", domain.ErrGatewayAuth)
	}

	g.token = body.AccessToken
	if body.ExpiresIn > 0 {
		g.tokenExp = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	} else {
		g.tokenExp = time.Now().Add(30 * time.Minute)
	}
	metrics.IncGatewayCall("login", "ok")
	return g.token, nil
}

// invalidateToken drops the cached token after a 401/403 so the next call
// performs a fresh exchange.
func (g *MonnifyGateway) invalidateToken() {
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()
}

// Initialize starts a hosted checkout for the exact persisted order amount
// and reference.
func (g *MonnifyGateway) Initialize(ctx context.Context, in adapter.InitRequest) (adapter.InitResult, error) {
	if in.AmountNGN <= 0 || in.Reference == "" {
		return adapter.InitResult{}, domain.ErrInvalidArgument
	}
	token, err := g.accessToken(ctx)
	if err != nil {
		return adapter.InitResult{}, err
	}

	payload := map[string]interface{}{
		"amount":           in.AmountNGN,
		"customerName":     in.CustomerName,
		"customerEmail":    in.CustomerEmail,
		"paymentReference": in.Reference,
		"contractCode":     g.contractCode,
		"currencyCode":     g.currency,
	}
	if g.redirectURL != "" {
		payload["redirectUrl"] = g.redirectURL
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return adapter.InitResult{}, err
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/v1/merchant/transactions/init-transaction", bytes.NewReader(data))
	if err != nil {
		return adapter.InitResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		metrics.IncGatewayCall("initialize", "transport_error")
		return adapter.InitResult{}, fmt.Errorf("monnify init: %v: %w", err, domain.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()
	metrics.ObserveGatewayCall("initialize", time.Since(start).Seconds())

	raw, _ := io.ReadAll(resp.Body)
	var env monnifyEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		metrics.IncGatewayCall("initialize", "vendor_error")
		return adapter.InitResult{}, fmt.Errorf("monnify init: bad response body: %w", domain.ErrGatewayUnavailable)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		g.invalidateToken()
		metrics.IncGatewayCall("initialize", "auth_error")
		return adapter.InitResult{}, fmt.Errorf("monnify init status=%d: %w", resp.StatusCode, domain.ErrGatewayAuth)
	}
	if resp.StatusCode != http.StatusOK || !env.RequestSuccessful {
		metrics.IncGatewayCall("initialize", "vendor_error")
		return adapter.InitResult{}, fmt.Errorf("monnify init status=%d code=%s msg=%s: %w",
			resp.StatusCode, env.ResponseCode, env.ResponseMessage, domain.ErrGatewayUnavailable)
	}

	var body monnifyInitBody
	if err := json.Unmarshal(env.ResponseBody, &body); err != nil || body.CheckoutURL == "" {
		metrics.IncGatewayCall("initialize", "vendor_error")
		return adapter.InitResult{}, fmt.Errorf("monnify init: no checkout url: %w", domain.ErrGatewayUnavailable)
	}

	metrics.IncGatewayCall("initialize", "ok")
	return adapter.InitResult{CheckoutURL: body.CheckoutURL, Reference: in.Reference}, nil
}

// Verify queries the gateway's authoritative record for a reference and
// normalizes the vendor response to the four statuses. Transport failures
// are errors ("unknown"), never a FAILED status.
func (g *MonnifyGateway) Verify(ctx context.Context, reference string) (adapter.VerifyResult, error) {
	if reference == "" {
		return adapter.VerifyResult{}, domain.ErrInvalidArgument
	}
	token, err := g.accessToken(ctx)
	if err != nil {
		return adapter.VerifyResult{}, err
	}

	start := time.Now()
	u := g.baseURL + "/api/v1/merchant/transactions/query?paymentReference=" + url.QueryEscape(reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return adapter.VerifyResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		metrics.IncGatewayCall("query", "transport_error")
		return adapter.VerifyResult{}, fmt.Errorf("monnify query: %v: %w", err, domain.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()
	metrics.ObserveGatewayCall("query", time.Since(start).Seconds())

	rawBytes, _ := io.ReadAll(resp.Body)
	var rawMap map[string]interface{}
	_ = json.Unmarshal(rawBytes, &rawMap)

	var env monnifyEnvelope
	if err := json.Unmarshal(rawBytes, &env); err != nil {
		metrics.IncGatewayCall("query", "vendor_error")
		return adapter.VerifyResult{}, fmt.Errorf("monnify query: bad response body: %w", domain.ErrGatewayUnavailable)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		g.invalidateToken()
		metrics.IncGatewayCall("query", "auth_error")
		return adapter.VerifyResult{}, fmt.Errorf("monnify query status=%d: %w", resp.StatusCode, domain.ErrGatewayAuth)
	case resp.StatusCode == http.StatusNotFound || env.ResponseCode == "99":
		metrics.IncGatewayCall("query", "ok")
		return adapter.VerifyResult{Status: adapter.VerifyNotFound, Reference: reference, Raw: rawMap}, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		// A vendor-side outage is an unknown outcome. It must never settle
		// an order as failed; the reference may still verify paid later.
		metrics.IncGatewayCall("query", "vendor_error")
		return adapter.VerifyResult{}, fmt.Errorf("monnify query status=%d: %w", resp.StatusCode, domain.ErrGatewayUnavailable)
	case resp.StatusCode != http.StatusOK || !env.RequestSuccessful:
		// Monnify answered and rejected the query; surface as FAILED with
		// the vendor payload preserved, not as a transport error.
		metrics.IncGatewayCall("query", "vendor_error")
		return adapter.VerifyResult{Status: adapter.VerifyFailed, Reference: reference, Raw: rawMap}, nil
	}

	var body monnifyQueryBody
	if err := json.Unmarshal(env.ResponseBody, &body); err != nil {
		metrics.IncGatewayCall("query", "vendor_error")
		return adapter.VerifyResult{}, fmt.Errorf("monnify query: bad response body: %w", domain.ErrGatewayUnavailable)
	}

	metrics.IncGatewayCall("query", "ok")
	res := adapter.VerifyResult{
		Reference: reference,
		AmountNGN: int64(body.AmountPaid),
		Raw:       rawMap,
	}
	switch body.PaymentStatus {
	case "PAID", "OVERPAID":
		res.Status = adapter.VerifyPaid
	case "PENDING", "PARTIALLY_PAID":
		res.Status = adapter.VerifyPending
	default:
		// EXPIRED, CANCELLED, FAILED and anything unrecognized.
		res.Status = adapter.VerifyFailed
	}
	return res, nil
}
