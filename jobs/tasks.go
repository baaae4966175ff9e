// Package jobs contains the background task types and the asynq worker that
// processes them.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeOrderReceipt renders a receipt for a completed order.
	TaskTypeOrderReceipt = "order:receipt"
)

// OrderReceiptPayload identifies the order to render a receipt for.
type OrderReceiptPayload struct {
	OrderID int64 `json:"order_id"`
}

// NewOrderReceiptTask constructs an Asynq task.
func NewOrderReceiptTask(payload OrderReceiptPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeOrderReceipt, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueReceipt enqueues receipt rendering for the given order.
func (c *Client) EnqueueReceipt(ctx context.Context, orderID int64) error {
	task, err := NewOrderReceiptTask(OrderReceiptPayload{OrderID: orderID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
