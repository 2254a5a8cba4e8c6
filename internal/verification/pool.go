// Package verification проверяет изображения-доказательства в фоне и записывает вердикт в инцидент.
package verification

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_broadcasting_system/internal/broadcast"
	"github.com/shenikar/crisis_broadcasting_system/internal/config"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Store - часть хранилища инцидентов, нужная пулу
type Store interface {
	GetVerificationContext(ctx context.Context, id uuid.UUID) (*models.VerificationContext, error)
	SaveVerification(ctx context.Context, rec *models.VerificationRecord) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// Analyzer - внешний сервис анализа изображений
type Analyzer interface {
	Analyze(ctx context.Context, image models.Image, incidentType, description string) (*models.Verdict, error)
}

type Publisher interface {
	Publish(event string, payload any, rooms ...string)
}

// Result - полезная нагрузка события incident_verified
type Result struct {
	IncidentID           uuid.UUID `json:"incident_id"`
	Verification         int       `json:"verification"`
	VerificationScore    int       `json:"verification_score"`
	VerificationAnalysis string    `json:"verification_analysis"`
	SeverityEstimate     string    `json:"severity_estimate,omitempty"`
}

// Pool - ограниченная очередь задач и фиксированное число воркеров
type Pool struct {
	store    Store
	analyzer Analyzer
	hub      Publisher
	logger   *logrus.Logger
	metrics  *Metrics

	workers     int
	maxAttempts int
	baseDelay   time.Duration
	timeout     time.Duration

	jobs   chan models.VerificationJob
	wg     sync.WaitGroup
	mu     sync.Mutex
	cancel context.CancelFunc

	readFile func(name string) ([]byte, error)
	sleep    func(ctx context.Context, d time.Duration) error
	jitter   func(n int64) int64
}

func NewPool(store Store, analyzer Analyzer, hub Publisher, logger *logrus.Logger, cfg *config.Config, metrics *Metrics) *Pool {
	return &Pool{
		store:       store,
		analyzer:    analyzer,
		hub:         hub,
		logger:      logger,
		metrics:     metrics,
		workers:     cfg.VerifyWorkers,
		maxAttempts: cfg.VerifyMaxAttempts,
		baseDelay:   cfg.VerifyBaseDelay,
		timeout:     cfg.VerifyTimeout,
		jobs:        make(chan models.VerificationJob, cfg.VerifyQueueSize),
		readFile:    os.ReadFile,
		sleep:       sleepCtx,
		jitter:      rand.Int64N,
	}
}

// Enqueue ставит задачу в очередь без ожидания. Полная очередь дает models.ErrQueueFull.
func (p *Pool) Enqueue(job models.VerificationJob) error {
	select {
	case p.jobs <- job:
		p.metrics.setQueueDepth(len(p.jobs))
		return nil
	default:
		p.metrics.observeOutcome(outcomeDropped)
		return fmt.Errorf("verification: %w", models.ErrQueueFull)
	}
}

// Start запускает воркеры. Повторный вызов ничего не делает.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	p.logger.WithField("workers", p.workers).Info("Verification pool started")
}

// Stop останавливает воркеры и ждет завершения текущих задач.
// Задачи, оставшиеся в очереди, отбрасываются.
func (p *Pool) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	p.wg.Wait()
	p.logger.WithField("pending", len(p.jobs)).Info("Verification pool stopped")
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			p.metrics.setQueueDepth(len(p.jobs))
			p.process(ctx, job)
		}
	}
}

// process выполняет одну задачу. Сбой анализа не меняет инцидент.
func (p *Pool) process(ctx context.Context, job models.VerificationJob) {
	log := p.logger.WithFields(logrus.Fields{
		"component":   "verification",
		"incident_id": job.IncidentID,
		"path":        job.Path,
	})

	vctx, err := p.store.GetVerificationContext(ctx, job.IncidentID)
	if err != nil {
		log.WithError(err).Error("Failed to load incident for verification")
		p.metrics.observeOutcome(outcomeFailed)
		return
	}

	data, err := p.readFile(job.Path)
	if err != nil {
		log.WithError(err).Error("Failed to read image")
		p.metrics.observeOutcome(outcomeFailed)
		return
	}

	actx, cancel := context.WithTimeout(ctx, p.timeout)
	verdict, err := p.analyzer.Analyze(actx, models.Image{Data: data, MediaType: job.MediaType}, vctx.Type, vctx.Description)
	cancel()
	if err != nil {
		log.WithError(err).Warn("Image analysis failed, incident left unverified")
		p.metrics.observeOutcome(outcomeAnalyzerFailed)
		return
	}

	rec := &models.VerificationRecord{
		IncidentID: job.IncidentID,
		Status:     verdict.TriState(),
		Score:      verdict.Score(),
		Analysis:   verdict.Analysis,
	}
	if err := p.save(ctx, log, rec); err != nil {
		log.WithError(err).Error("Failed to save verification verdict")
		p.metrics.observeOutcome(outcomeFailed)
		return
	}

	if err := p.store.InvalidateIncidentCache(ctx, job.IncidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	p.hub.Publish(broadcast.EventIncidentVerified, &Result{
		IncidentID:           rec.IncidentID,
		Verification:         rec.Status,
		VerificationScore:    rec.Score,
		VerificationAnalysis: rec.Analysis,
		SeverityEstimate:     verdict.SeverityEstimate,
	}, broadcast.GlobalRoom, broadcast.IncidentRoom(rec.IncidentID))
	p.metrics.observeOutcome(models.VerificationLabel(rec.Status))

	log.WithFields(logrus.Fields{
		"verification": models.VerificationLabel(rec.Status),
		"score":        rec.Score,
	}).Info("Verification saved")
}

// save повторяет запись только при конфликте блокировок: задержка base*2^attempt плюс jitter до base/2
func (p *Pool) save(ctx context.Context, log *logrus.Entry, rec *models.VerificationRecord) error {
	var err error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		err = p.store.SaveVerification(ctx, rec)
		if err == nil {
			return nil
		}
		if !errors.Is(err, models.ErrContention) {
			return err
		}
		p.metrics.observeContention()
		if attempt == p.maxAttempts-1 {
			break
		}

		delay := p.backoff(attempt)
		log.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"delay":   delay,
		}).Warn("Incident row is locked, retrying verification write")
		if err := p.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return fmt.Errorf("verification: gave up after %d attempts: %w", p.maxAttempts, err)
}

func (p *Pool) backoff(attempt int) time.Duration {
	delay := p.baseDelay << attempt
	if half := int64(p.baseDelay / 2); half > 0 {
		delay += time.Duration(p.jitter(half + 1))
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
