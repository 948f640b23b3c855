package degen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tlskins/nft-tracker-app/internal/domain"
)

type WSFactory struct {
	url         string
	dialer      *websocket.Dialer
	readTimeout time.Duration
	logger      *zap.Logger
}

func NewWSFactory(url string, readTimeout time.Duration, logger *zap.Logger) *WSFactory {
	return &WSFactory{
		url: url,
		dialer: &websocket.Dialer{
			Proxy: http.ProxyFromEnvironment,
		},
		readTimeout: readTimeout,
		logger:      logger,
	}
}

func (f *WSFactory) Connect(ctx context.Context) (domain.PriceWSClient, error) {
	f.logger.Info("ws connect start", zap.String("url", f.url))
	conn, _, err := f.dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		f.logger.Error("ws connect failed", zap.String("url", f.url), zap.Error(err))
		return nil, err
	}
	f.logger.Info("ws connect success", zap.String("url", f.url))
	return &WSClient{conn: conn, readTimeout: f.readTimeout, logger: f.logger}, nil
}

type WSClient struct {
	conn        *websocket.Conn
	readTimeout time.Duration
	logger      *zap.Logger
}

func (c *WSClient) Subscribe(ctx context.Context, collections []string) error {
	payload := map[string]any{
		"type":        "floor-prices",
		"collections": collections,
	}
	c.logger.Info("ws subscribe", zap.Int("collection_count", len(collections)), zap.Strings("collections", collections))
	if err := c.conn.WriteJSON(payload); err != nil {
		c.logger.Error("ws subscribe failed", zap.Error(err))
		return err
	}
	return nil
}

func (c *WSClient) Receive(ctx context.Context) (*domain.PriceChangeMessage, error) {
	if c.readTimeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	message, err := c.decodeMessage(data)
	if err != nil {
		c.logger.Debug("ws message ignored", zap.Error(err))
		return nil, nil
	}

	return message, nil
}

func (c *WSClient) Close() error {
	c.logger.Info("ws close")
	return c.conn.Close()
}

func (c *WSClient) decodeMessage(data []byte) (*domain.PriceChangeMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty message")
	}

	var payload wsMessage
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("decode ws message: %w", err)
	}
	if payload.EventType != "price_change" {
		return nil, nil
	}
	return mapPriceChangeMessage(payload), nil
}

func mapPriceChangeMessage(payload wsMessage) *domain.PriceChangeMessage {
	message := &domain.PriceChangeMessage{
		EventType: payload.EventType,
		Changes:   make([]domain.PriceChange, 0, len(payload.Changes)),
	}
	for _, change := range payload.Changes {
		message.Changes = append(message.Changes, domain.PriceChange{
			Collection:     change.Collection,
			FloorPrice:     change.FloorPrice.ptr(),
			SuggestedPrice: change.SuggestedPrice.ptr(),
		})
	}
	return message
}
