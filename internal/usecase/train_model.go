package usecase

import (
	"context"
	"fmt"
	"time"

	"RiskPulse/internal/domain/models"
	domrepo "RiskPulse/internal/domain/repository"
	"RiskPulse/internal/services/trainer"
	"RiskPulse/pkg/logger"
	"RiskPulse/pkg/queue"
)

// TrainModelUseCase retrains the volatility artifact and hot-swaps it
// into the serving store. Training never clobbers a good artifact: the
// new file is written aside and renamed in only after a successful fit.
type TrainModelUseCase struct {
	source  domrepo.MarketDataSource
	archive domrepo.BarArchive // optional, may be nil
	trainer *trainer.Trainer
	store   domrepo.ModelStore
	metrics domrepo.Metrics
	logger  *logger.Logger
	path    string
	timeout time.Duration
}

func NewTrainModelUseCase(
	source domrepo.MarketDataSource,
	archive domrepo.BarArchive,
	tr *trainer.Trainer,
	store domrepo.ModelStore,
	m domrepo.Metrics,
	l *logger.Logger,
	path string,
	timeout time.Duration,
) *TrainModelUseCase {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &TrainModelUseCase{
		source:  source,
		archive: archive,
		trainer: tr,
		store:   store,
		metrics: m,
		logger:  l,
		path:    path,
		timeout: timeout,
	}
}

// Run executes one training cycle for the given ticker and lookback.
func (uc *TrainModelUseCase) Run(ctx context.Context, ticker string, period models.Period) (*trainer.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	series, err := uc.source.Fetch(ctx, ticker, period)
	if err != nil {
		uc.metrics.RecordFetchError("yahoo")
		uc.metrics.RecordTrainingRun("fetch_error")
		return nil, err
	}
	series = uc.withArchive(ctx, series)

	res, err := uc.trainer.Train(ctx, series, uc.path)
	if err != nil {
		if models.KindOf(err) == models.KindTrainingAborted {
			uc.metrics.RecordTrainingRun("aborted")
		} else {
			uc.metrics.RecordTrainingRun("error")
		}
		return nil, err
	}

	if err := uc.store.Reload(); err != nil {
		uc.metrics.RecordTrainingRun("reload_error")
		return nil, fmt.Errorf("reload after training: %w", err)
	}
	uc.metrics.RecordTrainingRun("ok")
	return res, nil
}

// withArchive persists the fetched window and swaps in the archived
// history when it is longer than what the provider returned.
func (uc *TrainModelUseCase) withArchive(ctx context.Context, series models.PriceSeries) models.PriceSeries {
	if uc.archive == nil {
		return series
	}
	if err := uc.archive.StoreBars(ctx, series); err != nil {
		uc.logger.Warn("bar archive write failed",
			logger.String("ticker", series.Ticker),
			logger.Error(err))
	}
	archived, err := uc.archive.LoadBars(ctx, series.Ticker, 10000)
	if err != nil {
		uc.logger.Warn("bar archive read failed",
			logger.String("ticker", series.Ticker),
			logger.Error(err))
		return series
	}
	if archived.Len() > series.Len() {
		uc.logger.Info("training on archived history",
			logger.String("ticker", series.Ticker),
			logger.Int("archived_bars", archived.Len()),
			logger.Int("fetched_bars", series.Len()))
		return archived
	}
	return series
}

// TrainJobType is the queue message type for asynchronous retraining.
const TrainJobType = "train_model"

// TrainJob runs queued training requests from the Redis queue.
type TrainJob struct {
	uc     *TrainModelUseCase
	logger *logger.Logger
}

func NewTrainJob(uc *TrainModelUseCase, l *logger.Logger) *TrainJob {
	return &TrainJob{uc: uc, logger: l}
}

func (j *TrainJob) Name() string { return "train_model_job" }
func (j *TrainJob) Type() string { return TrainJobType }

func (j *TrainJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := queue.ParsePayload[models.TrainRequest](payload)
	if err != nil {
		return fmt.Errorf("parse train payload: %w", err)
	}
	res, err := j.uc.Run(ctx, req.Ticker, models.Period(req.Period))
	if err != nil {
		j.logger.Error("queued training failed",
			logger.String("ticker", req.Ticker),
			logger.Error(err))
		return err
	}
	j.logger.Info("queued training finished",
		logger.String("ticker", res.Ticker),
		logger.Int("samples", res.Samples),
		logger.Duration("took", res.Duration))
	return nil
}
