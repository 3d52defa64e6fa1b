package acl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jsamuelsen/quote-service/internal/adapters/clients"
	"github.com/jsamuelsen/quote-service/internal/domain"
	"github.com/jsamuelsen/quote-service/internal/platform/config"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

// avatarResource names the remote resource in errors, spans and metrics.
const avatarResource = "avatar"

// AvatarClientConfig contains configuration for the avatar client.
type AvatarClientConfig struct {
	// Client is the instrumented HTTP client used for downloads.
	Client *clients.Client

	// MaxBytes caps the size of a downloaded image.
	MaxBytes int64

	// Logger is the structured logger.
	Logger *slog.Logger
}

// AvatarClient downloads author avatar images. Implements ports.AvatarFetcher.
type AvatarClient struct {
	client   *clients.Client
	maxBytes int64
	logger   *slog.Logger
}

// NewAvatarClient creates a new avatar client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewAvatarClient(cfg AvatarClientConfig) *AvatarClient {
	if cfg.Client == nil {
		panic("AvatarClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultAvatarMaxBytes
	}

	return &AvatarClient{
		client:   cfg.Client,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// NewAvatarClientFromConfig wires an AvatarClient and its instrumented HTTP
// client from the avatar configuration section.
func NewAvatarClientFromConfig(cfg *config.AvatarConfig, userAgent string, logger *slog.Logger) (*AvatarClient, error) {
	client, err := clients.New(&clients.Config{
		ServiceName: avatarResource,
		Timeout:     cfg.Timeout,
		Retry:       cfg.Retry,
		Circuit:     cfg.CircuitBreaker,
		Transport:   cfg.Transport,
		UserAgent:   userAgent,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating avatar http client: %w", err)
	}

	return NewAvatarClient(AvatarClientConfig{
		Client:   client,
		MaxBytes: cfg.MaxBytes,
		Logger:   logger,
	}), nil
}

// FetchAvatar downloads the image at rawURL.
// Implements ports.AvatarFetcher.
func (c *AvatarClient) FetchAvatar(ctx context.Context, rawURL string) (*domain.Avatar, error) {
	if err := validateAvatarURL(rawURL); err != nil {
		return nil, err
	}

	c.logger.Log(ctx, logging.LevelTrace, "starting avatar download", slog.String("url", rawURL))

	resp, err := c.client.Get(ctx, rawURL)
	if err != nil {
		return nil, MapHTTPError(nil, err, avatarResource, "fetch avatar", rawURL)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Log(ctx, logging.LevelTrace, "avatar download complete",
		slog.String("url", rawURL),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		if mapped := MapHTTPError(resp, nil, avatarResource, "fetch avatar", rawURL); mapped != nil {
			return nil, mapped
		}

		return nil, domain.NewUnavailableError(avatarResource,
			fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	data, err := ReadLimited(resp.Body, c.maxBytes)
	if err != nil {
		return nil, domain.NewUnavailableError(avatarResource, err.Error())
	}

	avatar, err := translateAvatar(resp.Header.Get("Content-Type"), data)
	if err != nil {
		return nil, domain.NewUnavailableError(avatarResource, err.Error())
	}

	c.logger.Log(ctx, logging.LevelTrace, "translated avatar",
		slog.String("content_type", avatar.ContentType),
		slog.Int("bytes", len(avatar.Data)))

	return avatar, nil
}

// CircuitState reports the avatar breakers' state. With per-host breakers it
// is open only once every host seen so far is open.
func (c *AvatarClient) CircuitState() clients.State {
	return c.client.CircuitState()
}

// Name implements ports.HealthChecker.
func (c *AvatarClient) Name() string { return avatarResource }

// Optional implements ports.OptionalChecker. Quotes render without avatars.
func (c *AvatarClient) Optional() bool { return true }

// Check implements ports.HealthChecker. It fails while every known avatar
// host's circuit is open and never contacts an avatar host.
func (c *AvatarClient) Check(context.Context) error {
	if state := c.CircuitState(); state == clients.StateOpen {
		return fmt.Errorf("%w: downloads suspended", clients.ErrCircuitOpen)
	}

	return nil
}

func validateAvatarURL(rawURL string) error {
	if rawURL == "" {
		return domain.NewValidationError("author_avatar_url", "is required")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return domain.NewValidationErrorWithValue("author_avatar_url", "must be a valid URL", rawURL)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.NewValidationErrorWithValue("author_avatar_url", "must be an absolute http(s) URL", rawURL)
	}

	return nil
}
