package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// EmailJob is one message queued for delivery.
type EmailJob struct {
	To      string
	Subject string
	Body    string
}

type Worker struct {
	ID         int
	WorkerPool chan chan EmailJob
	JobChannel chan EmailJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan EmailJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan EmailJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(EmailJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {

			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing email", "worker_id", w.ID, "to", job.To)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Client delivers emails through an HTTP mail API. Sends are queued and
// drained by a worker pool so callers never block on the provider.
type Client struct {
	apiURL      string
	apiKey      string
	fromAddress string
	sendTimeout time.Duration
	logger      *slog.Logger

	jobQueue   chan EmailJob
	workerPool chan chan EmailJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type Config struct {
	APIURL         string
	APIKey         string
	FromAddress    string
	SendTimeout    time.Duration
	MaxWorkers     int
	JobQueueSize   int
	WorkerPoolSize int
}

func NewClient(config Config, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	workerPoolSize := config.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = maxWorkers
	}

	sendTimeout := config.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}

	client := &Client{
		apiURL:      config.APIURL,
		apiKey:      config.APIKey,
		fromAddress: config.FromAddress,
		sendTimeout: sendTimeout,
		logger:      logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan EmailJob, jobQueueSize),
		workerPool: make(chan chan EmailJob, workerPoolSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	client.startWorkerPool()

	return client
}

func (c *Client) startWorkerPool() {
	c.once.Do(func() {

		for i := 0; i < c.maxWorkers; i++ {
			worker := NewWorker(i, c.workerPool, c.logger)
			worker.Start(c.ctx, &c.wg, c.processEmailJob)
		}

		go c.dispatch()

		c.logger.Info("mailer worker pool started",
			"max_workers", c.maxWorkers,
			"queue_size", cap(c.jobQueue))
	})
}

func (c *Client) dispatch() {
	defer c.wg.Done()
	c.wg.Add(1)

	for {
		select {
		case job := <-c.jobQueue:

			select {
			case jobChannel := <-c.workerPool:

				select {
				case jobChannel <- job:

				case <-c.ctx.Done():
					c.logger.Info("dispatcher shutting down")
					return
				}
			case <-c.ctx.Done():
				c.logger.Info("dispatcher shutting down")
				return
			}
		case <-c.ctx.Done():
			c.logger.Info("dispatcher shutting down")
			return
		}
	}
}

func (c *Client) Shutdown() {
	c.logger.Info("shutting down mailer client")
	c.cancel()
	c.wg.Wait()
	c.logger.Info("mailer client shutdown complete")
}

// Enqueue queues an email for background delivery. A full queue rejects the
// send rather than blocking the caller.
func (c *Client) Enqueue(job EmailJob) error {
	if job.To == "" {
		return fmt.Errorf("email recipient is required")
	}

	select {
	case c.jobQueue <- job:
		c.logger.Info("email queued for delivery",
			"to", job.To,
			"subject", job.Subject,
			"queue_length", len(c.jobQueue))
		return nil
	default:
		c.logger.Warn("email queue full, dropping message",
			"to", job.To,
			"queue_capacity", cap(c.jobQueue))
		return fmt.Errorf("email queue full, please try again later")
	}
}

func (c *Client) processEmailJob(job EmailJob) {
	if err := c.deliver(job); err != nil {
		c.logger.Error("email delivery failed", "to", job.To, "error", err)
		return
	}
	c.logger.Info("email delivered", "to", job.To, "subject", job.Subject)
}

func (c *Client) deliver(job EmailJob) error {
	payload := map[string]interface{}{
		"from":    c.fromAddress,
		"to":      job.To,
		"subject": job.Subject,
		"body":    job.Body,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.sendTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.apiURL+"/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	client := &http.Client{Timeout: c.sendTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}

	return nil
}
