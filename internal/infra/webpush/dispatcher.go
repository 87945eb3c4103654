package webpush

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"alerts/config"
	"alerts/internal/domain/constants"
	"alerts/internal/domain/entity"
	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/service"
	"alerts/internal/errors"

	"go.uber.org/fx"
)

const maxErrorBody = 1024

// Dispatcher posts signed, optionally encrypted messages to push service endpoints.
type Dispatcher struct {
	client     *http.Client
	signer     *Signer
	encryptor  *Encryptor
	publicKey  string
	privateKey string
	ttl        int
	logger     *slog.Logger
}

// DispatcherOptions configures NewDispatcher.
type DispatcherOptions struct {
	Client     *http.Client
	Crypto     service.Crypto
	PublicKey  string
	PrivateKey string
	Subject    string
	Encoding   string
	TTL        int
	Logger     *slog.Logger
}

// NewDispatcher wires a signer and encryptor around one HTTP client.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 60
	}

	return &Dispatcher{
		client:     client,
		signer:     NewSigner(opts.Crypto, opts.Subject),
		encryptor:  NewEncryptor(opts.Crypto, opts.Encoding),
		publicKey:  opts.PublicKey,
		privateKey: opts.PrivateKey,
		ttl:        ttl,
		logger:     opts.Logger,
	}
}

// Params holds dependencies for the push sender, injected by Fx.
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Crypto service.Crypto
}

// New builds the configured PushSender.
func New(params Params) (service.PushSender, error) {
	cfg := params.Config

	if cfg.VAPID.PublicKey == "" || cfg.VAPID.PrivateKey == "" {
		params.Logger.Warn("VAPID keys are not configured, every push attempt will fail")
	} else if _, err := ParseVAPIDKeys(cfg.VAPID.PublicKey, cfg.VAPID.PrivateKey); err != nil {
		return nil, errors.Wrap(err, "invalid VAPID configuration")
	}

	return NewDispatcher(DispatcherOptions{
		Client:     &http.Client{Timeout: cfg.Push.Timeout},
		Crypto:     params.Crypto,
		PublicKey:  cfg.VAPID.PublicKey,
		PrivateKey: cfg.VAPID.PrivateKey,
		Subject:    cfg.VAPID.Subject,
		Encoding:   cfg.Push.ContentEncoding,
		TTL:        cfg.Push.TTL,
		Logger:     params.Logger,
	}), nil
}

// Send delivers payload to the subscription. A nil payload sends an empty
// wake-up message that makes the service worker poll its mailbox.
func (d *Dispatcher) Send(ctx context.Context, subscription entity.PushSubscription, payload []byte) (*service.DeliveryResult, error) {
	endpoint := subscription.Endpoint
	if endpoint == "" {
		return nil, &domainerrors.DeliveryError{Err: errors.New("missing subscription endpoint")}
	}

	audience, err := AudienceFor(endpoint)
	if err != nil {
		return nil, &domainerrors.DeliveryError{Endpoint: endpoint, Err: err}
	}

	assertion, err := d.signer.SignAssertion(audience, d.publicKey, d.privateKey)
	if err != nil {
		return nil, err
	}

	var body []byte
	header := http.Header{}
	header.Set("TTL", strconv.Itoa(d.ttl))
	header.Set("Authorization", fmt.Sprintf("vapid t=%s, k=%s", assertion, d.publicKey))

	if payload != nil {
		encrypted, err := d.encryptor.Encrypt(subscription.Keys, payload)
		if err != nil {
			return nil, err
		}
		body = encrypted.Body
		setEncryptionHeaders(header, encrypted, d.publicKey)
	} else {
		header.Set("Crypto-Key", "p256ecdsa="+d.publicKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &domainerrors.DeliveryError{Endpoint: endpoint, Err: errors.WithStack(err)}
	}
	req.Header = header

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &domainerrors.DeliveryError{Endpoint: endpoint, Err: errors.WithStack(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return nil, &domainerrors.DeliveryError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(text),
		}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	if d.logger != nil {
		d.logger.Debug("Push accepted",
			slog.Int("status", resp.StatusCode),
			slog.Bool("encrypted", payload != nil),
		)
	}

	return &service.DeliveryResult{StatusCode: resp.StatusCode, Encrypted: payload != nil}, nil
}

func setEncryptionHeaders(header http.Header, encrypted *Encrypted, vapidPublicKey string) {
	header.Set("Content-Type", "application/octet-stream")
	header.Set("Content-Encoding", encrypted.Encoding)

	if encrypted.Encoding == constants.ContentEncodingAESGCM {
		header.Set("Encryption", fmt.Sprintf("salt=%s; rs=%d", encodeBase64URL(encrypted.Salt), recordSize))
		header.Set("Crypto-Key", fmt.Sprintf("dh=%s; p256ecdsa=%s", encodeBase64URL(encrypted.PublicKey), vapidPublicKey))
	}
}
