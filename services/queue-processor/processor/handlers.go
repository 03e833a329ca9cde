package processor

import (
	"context"

	"go.uber.org/zap"
)

// Handlers process one message of each payload shape. A returned error marks
// the message as failed.
type Handlers interface {
	Order(ctx context.Context, msg map[string]interface{}) error
	Customer(ctx context.Context, msg map[string]interface{}) error
	Generic(ctx context.Context, msg map[string]interface{}) error
	Text(ctx context.Context, body string) error
}

// LoggingHandlers is the default Handlers implementation; it only logs.
type LoggingHandlers struct {
	Logger *zap.Logger
}

func (h LoggingHandlers) Order(_ context.Context, msg map[string]interface{}) error {
	orderID := valueOr(msg, "orderId", "unknown")
	h.Logger.Info("Processing order",
		zap.Any("order_id", orderID),
		zap.Any("customer_id", valueOr(msg, "customerId", "unknown")),
		zap.Any("total", valueOr(msg, "total", 0)),
	)
	h.Logger.Info("Order processed successfully", zap.Any("order_id", orderID))
	return nil
}

func (h LoggingHandlers) Customer(_ context.Context, msg map[string]interface{}) error {
	customerID := valueOr(msg, "customerId", "unknown")
	h.Logger.Info("Processing customer message", zap.Any("customer_id", customerID))
	h.Logger.Info("Customer message processed successfully", zap.Any("customer_id", customerID))
	return nil
}

func (h LoggingHandlers) Generic(_ context.Context, msg map[string]interface{}) error {
	keys := make([]string, 0, len(msg))
	for k := range msg {
		keys = append(keys, k)
	}
	h.Logger.Info("Processing generic JSON message", zap.Strings("keys", keys))
	h.Logger.Info("Generic message processed successfully")
	return nil
}

func (h LoggingHandlers) Text(_ context.Context, body string) error {
	preview := body
	if r := []rune(body); len(r) > 100 {
		preview = string(r[:100]) + "..."
	}
	h.Logger.Info("Processing text message", zap.String("preview", preview))
	h.Logger.Info("Text message processed successfully")
	return nil
}

func valueOr(msg map[string]interface{}, key string, fallback interface{}) interface{} {
	if v, ok := msg[key]; ok {
		return v
	}
	return fallback
}
