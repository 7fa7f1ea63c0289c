package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/hospital-booking-client/internal/observability/metrics"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

const (
	defaultBaseURL     = "http://localhost:4000"
	defaultAuthBaseURL = "http://127.0.0.1:8000"
	defaultTimeout     = 10 * time.Second
	maxLoggedBody      = 300
)

var gatewayTracer = otel.Tracer("hms.internal.gateway")

// Config configures a Client. Zero values fall back to local development defaults.
type Config struct {
	BaseURL     string
	AuthBaseURL string
	// Timeout bounds every outgoing call on top of the caller's context.
	Timeout    time.Duration
	Tokens     TokenSource
	Metrics    *metrics.GatewayMetrics
	Logger     *logging.Logger
	HTTPClient *http.Client
}

// Client talks to the booking REST API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	authBaseURL string
	timeout     time.Duration
	tokens      TokenSource
	metrics     *metrics.GatewayMetrics
	logger      *logging.Logger
}

// NewClient constructs a booking API client.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	authBaseURL := strings.TrimSpace(cfg.AuthBaseURL)
	if authBaseURL == "" {
		authBaseURL = defaultAuthBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		authBaseURL: strings.TrimRight(authBaseURL, "/"),
		timeout:     timeout,
		tokens:      cfg.Tokens,
		metrics:     cfg.Metrics,
		logger:      logger,
	}
}

// ListDoctors returns the full doctor roster in server order.
func (c *Client) ListDoctors(ctx context.Context) ([]Doctor, error) {
	var doctors []Doctor
	if err := c.doJSON(ctx, "list_doctors", http.MethodGet, c.baseURL+"/doctors", nil, listOf(&doctors)); err != nil {
		return nil, err
	}
	if doctors == nil {
		doctors = []Doctor{}
	}
	return doctors, nil
}

// ListAppointments returns all booked appointments in server order.
func (c *Client) ListAppointments(ctx context.Context) ([]Appointment, error) {
	var appts []Appointment
	if err := c.doJSON(ctx, "list_appointments", http.MethodGet, c.baseURL+"/appointments", nil, listOf(&appts)); err != nil {
		return nil, err
	}
	if appts == nil {
		appts = []Appointment{}
	}
	return appts, nil
}

// CreateAppointment books a new appointment. The returned appointment carries
// the server-assigned id; it is nil when the server answers with an empty body.
func (c *Client) CreateAppointment(ctx context.Context, req NewAppointment) (*Appointment, error) {
	var created *Appointment
	if err := c.doJSON(ctx, "create_appointment", http.MethodPost, c.baseURL+"/appointments", req, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateAppointment replaces the mutable fields of an appointment.
func (c *Client) UpdateAppointment(ctx context.Context, id ID, req AppointmentUpdate) (*Appointment, error) {
	var updated *Appointment
	if err := c.doJSON(ctx, "update_appointment", http.MethodPut, c.appointmentURL(id), req, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteAppointment removes an appointment.
func (c *Client) DeleteAppointment(ctx context.Context, id ID) error {
	return c.doJSON(ctx, "delete_appointment", http.MethodDelete, c.appointmentURL(id), nil, nil)
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var wrapped struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	}
	if err := c.doJSON(ctx, "login", http.MethodPost, c.authBaseURL+"/user/", creds, &wrapped); err != nil {
		return nil, err
	}
	token := wrapped.Token
	if token == "" {
		token = wrapped.AccessToken
	}
	return &LoginResult{Token: token}, nil
}

func (c *Client) appointmentURL(id ID) string {
	return c.baseURL + "/appointments/" + url.PathEscape(id.String())
}

func (c *Client) doJSON(ctx context.Context, op, method, endpoint string, body interface{}, out interface{}) (err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestID := uuid.NewString()
	ctx, span := gatewayTracer.Start(ctx, "gateway."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("hms.request_id", requestID),
	)

	started := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = KindOf(err).String()
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		c.metrics.ObserveCall(op, outcome, time.Since(started))
	}()

	var bodyReader io.Reader
	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return &Error{Op: op, Kind: KindNetwork, Err: fmt.Errorf("marshal request: %w", mErr)}
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return &Error{Op: op, Kind: KindNetwork, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, tErr := c.tokens.Token(ctx)
		if tErr != nil {
			c.logger.Warn("gateway: token lookup failed, sending unauthenticated", "op", op, "error", tErr)
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		return &Error{Op: op, Kind: KindNetwork, Err: fmt.Errorf("http request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Kind: KindNetwork, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := truncateBody(respBody)
		c.logger.Warn("booking API non-2xx response", "op", op, "status", resp.StatusCode, "request_id", requestID, "body", msg)
		kind := KindNetwork
		if resp.StatusCode == http.StatusNotFound {
			kind = KindNotFound
		}
		return &Error{Op: op, Kind: kind, StatusCode: resp.StatusCode, Err: fmt.Errorf("booking API returned %d: %s", resp.StatusCode, msg)}
	}

	if len(bytes.TrimSpace(respBody)) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Op: op, Kind: KindNetwork, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// listDecoder accepts either a bare JSON array or an object wrapping the
// array in "data". Any other object is an error so a stray 200 never empties
// local state.
type listDecoder[T any] struct {
	dst *[]T
}

func listOf[T any](dst *[]T) *listDecoder[T] {
	return &listDecoder[T]{dst: dst}
}

func (l *listDecoder[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, l.dst)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		*l.dst = nil
		return nil
	}
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	if len(wrapped.Data) == 0 {
		return errors.New("list payload is neither an array nor an object with \"data\"")
	}
	var items []T
	if err := json.Unmarshal(wrapped.Data, &items); err != nil {
		return err
	}
	*l.dst = items
	return nil
}

// truncateBody cuts body to maxLoggedBody bytes without splitting a rune.
func truncateBody(body []byte) string {
	if len(body) <= maxLoggedBody {
		return string(body)
	}
	cut := maxLoggedBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut])
}
