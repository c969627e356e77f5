// Package tdbridge implements remote.Session over an MTProto sidecar bridge
// that exposes the messaging protocol as a local HTTP API. The bridge holds
// the wire protocol; this client holds the session string and translates
// bridge failures into the gateway error taxonomy.
package tdbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/tgshelf/tgshelf/internal/model"
	"github.com/tgshelf/tgshelf/internal/remote"
)

// Config carries the bridge endpoint and provider API credentials.
type Config struct {
	BaseURL string
	APIID   int
	APIHash string
	Timeout time.Duration
}

// Factory builds bridge-backed sessions.
type Factory struct {
	cfg Config
	log zerolog.Logger
}

func NewFactory(cfg Config, log zerolog.Logger) *Factory {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &Factory{cfg: cfg, log: log}
}

func (f *Factory) New(cred model.Credential) (remote.Session, error) {
	if f.cfg.APIID == 0 || f.cfg.APIHash == "" {
		return nil, model.NewConfigurationError("provider API credentials not configured")
	}
	c := resty.New().
		SetBaseURL(f.cfg.BaseURL).
		SetTimeout(f.cfg.Timeout).
		SetHeader("X-Session", string(cred))
	return &Session{http: c, cfg: f.cfg, log: f.log}, nil
}

// Session is one bridge conversation. Not safe for concurrent use; the
// session manager hands each operation its own instance.
type Session struct {
	http      *resty.Client
	cfg       Config
	log       zerolog.Logger
	connected bool
}

func (s *Session) Connect(ctx context.Context) error {
	if s.connected {
		return nil
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"api_id": s.cfg.APIID, "api_hash": s.cfg.APIHash}).
		Post("/v1/connect")
	if err := s.check(resp, err); err != nil {
		return err
	}
	s.connected = true
	return nil
}

func (s *Session) Disconnect() {
	if !s.connected {
		return
	}
	s.connected = false
	if _, err := s.http.R().Post("/v1/disconnect"); err != nil {
		s.log.Debug().Err(err).Msg("bridge disconnect failed")
	}
}

func (s *Session) SendCodeRequest(ctx context.Context, phone string) (string, error) {
	var out struct {
		PhoneCodeHash string `json:"phone_code_hash"`
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"phone": phone}).
		SetResult(&out).
		Post("/v1/auth/send_code")
	if err := s.check(resp, err); err != nil {
		return "", err
	}
	return out.PhoneCodeHash, nil
}

func (s *Session) VerifyCode(ctx context.Context, phone, codeHash, code string) (model.Credential, error) {
	var out struct {
		Session string `json:"session"`
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"phone": phone, "phone_code_hash": codeHash, "code": code}).
		SetResult(&out).
		Post("/v1/auth/sign_in")
	if err := s.check(resp, err); err != nil {
		return "", err
	}
	if out.Session == "" {
		return "", fmt.Errorf("bridge returned no session string")
	}
	return model.Credential(out.Session), nil
}

func (s *Session) IsAuthorized(ctx context.Context) (bool, error) {
	var out struct {
		Authorized bool `json:"authorized"`
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/auth/status")
	if err := s.check(resp, err); err != nil {
		return false, err
	}
	return out.Authorized, nil
}

func (s *Session) LogOut(ctx context.Context) error {
	resp, err := s.http.R().SetContext(ctx).Post("/v1/auth/log_out")
	return s.check(resp, err)
}

func (s *Session) RecentMessages(ctx context.Context, limit int) ([]model.RawMessage, error) {
	var out struct {
		Messages []wireMessage `json:"messages"`
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&out).
		Get("/v1/messages/self")
	if err := s.check(resp, err); err != nil {
		return nil, err
	}
	msgs := make([]model.RawMessage, 0, len(out.Messages))
	for _, wm := range out.Messages {
		msgs = append(msgs, wm.toModel())
	}
	return msgs, nil
}

func (s *Session) MessageByID(ctx context.Context, id string) (*model.RawMessage, error) {
	var out wireMessage
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/messages/self/" + id)
	if err := s.check(resp, err); err != nil {
		return nil, err
	}
	m := out.toModel()
	return &m, nil
}

func (s *Session) Download(ctx context.Context, ref model.MediaRef, progress remote.ProgressFunc) ([]byte, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"message_id": ref.MessageID, "thumb": ref.Thumb}).
		SetDoNotParseResponse(true).
		Post("/v1/media/download")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConnectionFailed, err)
	}
	body := resp.RawBody()
	defer func() { _ = body.Close() }()

	if resp.StatusCode() >= 400 {
		data, _ := io.ReadAll(io.LimitReader(body, 4096))
		return nil, s.errorFromBody(resp.StatusCode(), data, resp.Header())
	}

	total := int64(-1)
	if cl := resp.Header().Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			total = n
		}
	}

	var buf bytes.Buffer
	r := io.Reader(body)
	if progress != nil {
		r = &progressReader{r: body, total: total, progress: progress}
	}
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConnectionFailed, err)
	}
	if progress != nil {
		progress(int64(buf.Len()), int64(buf.Len()))
	}
	return buf.Bytes(), nil
}

func (s *Session) SendDocument(ctx context.Context, r io.Reader, size int64, filename, caption string, progress remote.ProgressFunc) (*model.RawMessage, error) {
	if progress != nil {
		r = &progressReader{r: r, total: size, progress: progress}
	}
	var out wireMessage
	resp, err := s.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, r).
		SetFormData(map[string]string{
			"caption":        caption,
			"force_document": "false",
		}).
		SetResult(&out).
		Post("/v1/messages/self/files")
	if err := s.check(resp, err); err != nil {
		return nil, err
	}
	m := out.toModel()
	if m.Media == nil {
		return nil, model.ErrUploadFailed
	}
	return &m, nil
}

// check folds transport faults and bridge error payloads into the taxonomy.
func (s *Session) check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrConnectionFailed, err)
	}
	if resp.StatusCode() < 400 {
		return nil
	}
	return s.errorFromBody(resp.StatusCode(), resp.Body(), resp.Header())
}

func (s *Session) errorFromBody(status int, body []byte, header http.Header) error {
	var payload struct {
		Error      string `json:"error"`
		Message    string `json:"message"`
		RetryAfter int    `json:"retry_after"`
	}
	_ = json.Unmarshal(body, &payload)

	if status == http.StatusTooManyRequests {
		seconds := payload.RetryAfter
		if seconds == 0 {
			if n, err := strconv.Atoi(header.Get("Retry-After")); err == nil {
				seconds = n
			}
		}
		return model.NewRateLimitError(seconds)
	}

	switch payload.Error {
	case "SESSION_PASSWORD_NEEDED":
		return model.ErrTwoFactorRequired
	case "PHONE_CODE_INVALID", "PHONE_CODE_EXPIRED":
		return model.ErrCodeInvalid
	case "SESSION_REVOKED", "AUTH_KEY_UNREGISTERED":
		return model.ErrSessionRevoked
	case "API_ID_INVALID":
		return model.NewConfigurationError("provider rejected API credentials")
	}

	switch status {
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusUnauthorized:
		return model.ErrSessionRevoked
	default:
		return fmt.Errorf("bridge error %d: %s", status, firstNonEmpty(payload.Message, payload.Error, "unknown"))
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

type progressReader struct {
	r           io.Reader
	total       int64
	transferred int64
	progress    remote.ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.transferred += int64(n)
		p.progress(p.transferred, p.total)
	}
	return n, err
}
