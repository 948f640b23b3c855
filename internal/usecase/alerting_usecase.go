package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tlskins/nft-tracker-app/internal/domain"
)

type Notifier interface {
	Notify(text string) error
}

// AlertWatcher consumes the live collection price stream and fires
// notifications for active trackers whose above/below bounds are crossed.
type AlertWatcher struct {
	portfolio *PortfolioUsecase
	wsFactory domain.PriceWSFactory
	notifier  Notifier
	logger    *zap.Logger
	retryWait time.Duration
}

func NewAlertWatcher(portfolio *PortfolioUsecase, wsFactory domain.PriceWSFactory, notifier Notifier, logger *zap.Logger) *AlertWatcher {
	return &AlertWatcher{
		portfolio: portfolio,
		wsFactory: wsFactory,
		notifier:  notifier,
		logger:    logger,
		retryWait: 5 * time.Second,
	}
}

// Run watches the price stream until the context is done, reconnecting
// after stream errors.
func (w *AlertWatcher) Run(ctx context.Context) {
	for {
		if err := w.watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("price stream error", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryWait):
		}
	}
}

func (w *AlertWatcher) watch(ctx context.Context) error {
	collections := w.portfolio.Collections()
	if len(collections) == 0 {
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	client, err := w.wsFactory.Connect(watchCtx)
	if err != nil {
		return err
	}
	defer client.Close()

	// Unblocks Receive on shutdown. Scoped to this connection so the
	// goroutine exits when watch returns, not at process shutdown.
	go func() {
		<-watchCtx.Done()
		_ = client.Close()
	}()

	if err := client.Subscribe(watchCtx, collections); err != nil {
		return err
	}

	for {
		select {
		case <-watchCtx.Done():
			return watchCtx.Err()
		default:
		}

		msg, err := client.Receive(watchCtx)
		if err != nil {
			return err
		}
		if msg == nil || msg.EventType != "price_change" {
			continue
		}

		for _, change := range msg.Changes {
			w.portfolio.ApplyPriceChange(change)
			for _, tracker := range w.portfolio.Grouped().Trackers(change.Collection) {
				w.evaluate(tracker, change)
			}
		}
	}
}

func (w *AlertWatcher) evaluate(tracker domain.TokenTracker, change domain.PriceChange) {
	if !tracker.Active || tracker.TrackerType == nil {
		return
	}

	var value *decimal.Decimal
	switch *tracker.TrackerType {
	case domain.TrackerTypeSuggestedPrice:
		value = change.SuggestedPrice
	case domain.TrackerTypeFloorPrice:
		value = change.FloorPrice
	}
	if value == nil {
		return
	}

	title := tracker.TokenAddress
	if tracker.Token != nil && tracker.Token.Title != "" {
		title = tracker.Token.Title
	}

	if tracker.Above != nil && value.GreaterThanOrEqual(*tracker.Above) {
		w.notify(fmt.Sprintf(
			"%s: %s %s rose above %s (now %s)",
			title, change.Collection, tracker.TrackerType.String(), tracker.Above.String(), value.String(),
		))
	}
	if tracker.Below != nil && value.LessThanOrEqual(*tracker.Below) {
		w.notify(fmt.Sprintf(
			"%s: %s %s fell below %s (now %s)",
			title, change.Collection, tracker.TrackerType.String(), tracker.Below.String(), value.String(),
		))
	}
}

func (w *AlertWatcher) notify(text string) {
	if err := w.notifier.Notify(text); err != nil {
		w.logger.Warn("failed to send alert", zap.Error(err))
	}
}
