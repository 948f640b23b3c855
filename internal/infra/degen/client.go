package degen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tlskins/nft-tracker-app/internal/domain"
)

// Client talks to the Degen Bible backend API. The connected wallet's
// public key rides along as the bearer session header on every request.
type Client struct {
	baseURL         string
	session         string
	client          *http.Client
	syncSoftTimeout time.Duration
	logger          *zap.Logger
}

func NewClient(baseURL, sessionWallet string, timeout, syncSoftTimeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		session:         sessionWallet,
		client:          &http.Client{Timeout: timeout},
		syncSoftTimeout: syncSoftTimeout,
		logger:          logger,
	}
}

func (c *Client) GetWallet(ctx context.Context) (*domain.WalletData, error) {
	var payload walletResponse
	if err := c.do(ctx, http.MethodGet, "wallet", nil, &payload); err != nil {
		return nil, err
	}
	return &domain.WalletData{
		Tracked:       mapTrackers(payload.Tracked),
		Untracked:     mapNfts(payload.Untracked),
		TrackingTypes: mapTrackingTypes(payload.TokenTrackingTypes),
	}, nil
}

// SyncWallet triggers a backend re-scan of the user's wallets. A failure
// after the soft timeout has elapsed is classified as a sync timeout; the
// underlying request is not aborted by that classification.
func (c *Client) SyncWallet(ctx context.Context) (*domain.SyncData, error) {
	start := time.Now()
	var payload walletResponse
	if err := c.do(ctx, http.MethodPost, "wallet/sync", nil, &payload); err != nil {
		if elapsed := time.Since(start); elapsed > c.syncSoftTimeout {
			return nil, fmt.Errorf("%w after %s: %v", domain.ErrSyncTimeout, elapsed.Round(time.Second), err)
		}
		return nil, err
	}
	return &domain.SyncData{
		Tracked:   mapTrackers(payload.Tracked),
		Untracked: mapNfts(payload.Untracked),
	}, nil
}

func (c *Client) PredictTrackers(ctx context.Context, req domain.PredictRequest) ([]domain.TokenTracker, error) {
	body := predictRequest{Collection: req.Collection, IDs: req.IDs}
	var payload trackersResponse
	if err := c.do(ctx, http.MethodPost, "alert-token-trackers/predict", body, &payload); err != nil {
		return nil, err
	}
	return mapTrackers(payload.Trackers), nil
}

func (c *Client) SaveTracker(ctx context.Context, update domain.TrackerUpdate) (*domain.TokenTracker, error) {
	body := updateTrackerRequest{
		ID:     update.ID,
		Active: update.Active,
		Above:  nullable(update.Above),
		Below:  nullable(update.Below),
	}
	if update.TrackerType != nil {
		trackerType := update.TrackerType.String()
		body.TokenTrackerType = &trackerType
	}

	var payload trackerResponse
	if err := c.do(ctx, http.MethodPut, "wallet/token-tracker", body, &payload); err != nil {
		return nil, err
	}
	tracker := mapTracker(payload.Tracker)
	return &tracker, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	body := profileRequest{TrackedWallets: update.TrackedWallets}
	var payload userResponse
	if err := c.do(ctx, http.MethodPut, "users/profile", body, &payload); err != nil {
		return nil, err
	}
	return mapUser(payload.User), nil
}

func (c *Client) DeleteWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	var payload userResponse
	path := fmt.Sprintf("wallet/%s", url.PathEscape(walletAddress))
	if err := c.do(ctx, http.MethodDelete, path, nil, &payload); err != nil {
		return nil, err
	}
	return mapUser(payload.User), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, path)

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	if c.session != "" {
		request.Header.Set("Authorization", "Bearer "+c.session)
	}

	start := time.Now()
	c.logger.Debug("degen request start", zap.String("method", method), zap.String("url", endpoint))
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("degen request failed", zap.String("method", method), zap.String("url", endpoint), zap.Error(err))
		return err
	}
	defer response.Body.Close()

	c.logger.Debug(
		"degen request complete",
		zap.String("method", method),
		zap.String("url", endpoint),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("degen api error: status %d", response.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(out)
}
