package di

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"RiskPulse/internal/domain/models"
	domrepo "RiskPulse/internal/domain/repository"
	domservice "RiskPulse/internal/domain/service"
	"RiskPulse/internal/handler/api"
	internalrepo "RiskPulse/internal/repository"
	"RiskPulse/internal/scheduler"
	icache "RiskPulse/internal/service/cache"
	"RiskPulse/internal/service/marketdata"
	"RiskPulse/internal/services/textgen"
	"RiskPulse/internal/services/trainer"
	"RiskPulse/internal/usecase"
	pkgch "RiskPulse/pkg/clickhouse"
	"RiskPulse/pkg/config"
	xhttp "RiskPulse/pkg/http"
	pkgkafka "RiskPulse/pkg/kafka"
	applogger "RiskPulse/pkg/logger"
	"RiskPulse/pkg/metrics"
	"RiskPulse/pkg/queue"
	"RiskPulse/pkg/server"
)

const artifactFileName = "volatility_forest.json"

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideMarketDataSource creates the Yahoo Finance client.
func ProvideMarketDataSource(cfg *config.Config, l *applogger.Logger) *marketdata.YahooSource {
	timeout := cfg.MarketData.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	opts := []marketdata.Option{
		marketdata.WithMaxConcurrency(cfg.MarketData.MaxConcurrency),
	}
	if cfg.MarketData.BaseURL != "" {
		opts = append(opts, marketdata.WithBaseURL(cfg.MarketData.BaseURL))
	}
	return marketdata.NewYahooSource(xhttp.NewClient(xhttp.WithTimeout(timeout)), l, opts...)
}

// ProvideModelStore creates the file-backed model store.
func ProvideModelStore(cfg *config.Config, l *applogger.Logger) domrepo.ModelStore {
	return internalrepo.NewFileModelStore(filepath.Join(cfg.Model.Dir, artifactFileName), l)
}

// ProvideTextGenerator creates the commentary client, or nil when no key
// is configured. Callers degrade to a placeholder summary.
func ProvideTextGenerator(cfg *config.Config, l *applogger.Logger) domservice.TextGenerator {
	if cfg.TextGen.APIKey == "" {
		return nil
	}
	opts := []textgen.Option{}
	if cfg.TextGen.BaseURL != "" {
		opts = append(opts, textgen.WithBaseURL(cfg.TextGen.BaseURL))
	}
	if cfg.TextGen.Model != "" {
		opts = append(opts, textgen.WithModel(cfg.TextGen.Model))
	}
	if cfg.TextGen.Timeout > 0 {
		opts = append(opts, textgen.WithTimeout(cfg.TextGen.Timeout))
	}
	return textgen.NewGeminiClient(cfg.TextGen.APIKey, l, opts...)
}

// ProvideRedisClient creates the shared Redis connection, or nil when
// Redis is disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideCache picks Redis when available, in-process TTL cache otherwise.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideBarArchive creates the ClickHouse archive, or nil when disabled.
func ProvideBarArchive(cfg *config.Config, l *applogger.Logger) (domrepo.BarArchive, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	store := internalrepo.NewCHBarStore(client, l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, []string{"CREATE DATABASE IF NOT EXISTS riskpulse"}); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse database: %w", err)
	}
	if err := store.Init(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, func() { _ = store.Close() }, nil
}

// logPublisher adapts the Kafka producer to the log collector.
type logPublisher struct {
	p *pkgkafka.Producer
}

func (lp logPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return lp.p.Publish(ctx, topic, nil, payload)
}

// ProvideSignalPublisher creates the Kafka publisher, or a no-op one
// when the bus is disabled. With the bus up, aggregated error logs also
// ship to <topic>.logs through the same producer.
func ProvideSignalPublisher(cfg *config.Config, l *applogger.Logger) (domrepo.SignalPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopSignalPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          cfg.Kafka.Topic + ".logs",
		Publisher:      logPublisher{p: producer},
	})
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideKafkaConsumer creates the signal-archiving consumer, or nil when
// the bus or the archive is unavailable.
func ProvideKafkaConsumer(cfg *config.Config, archive domrepo.BarArchive, m domrepo.Metrics) (*pkgkafka.Consumer, pkgkafka.MessageHandler, error) {
	signalArchive, ok := archive.(domrepo.SignalArchive)
	if !cfg.Kafka.Enabled || !ok {
		return nil, nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, usecase.NewKafkaSignalsHandler(cfg.Kafka.Topic, signalArchive, m), nil
}

// ProvideAccountDB opens the relational store and migrates its schema.
func ProvideAccountDB(cfg *config.Config) (*internalrepo.AccountDB, func(), error) {
	db, err := internalrepo.NewAccountDB(cfg.PostgresDSN())
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return db, func() { _ = db.Close() }, nil
}

// ProvideAnalysisUseCase wires the analysis pipeline.
func ProvideAnalysisUseCase(
	cfg *config.Config,
	source *marketdata.YahooSource,
	store domrepo.ModelStore,
	tg domservice.TextGenerator,
	c icache.BytesCache,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.AnalysisUseCase {
	ttl := cfg.Cache.AnalysisTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return usecase.NewAnalysisUseCase(source, store, tg, c, ttl, m, l)
}

// ProvideTrainUseCase wires training against the model directory.
func ProvideTrainUseCase(
	cfg *config.Config,
	source *marketdata.YahooSource,
	archive domrepo.BarArchive,
	store domrepo.ModelStore,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.TrainModelUseCase {
	return usecase.NewTrainModelUseCase(
		source,
		archive,
		trainer.NewTrainer(l),
		store,
		m,
		l,
		filepath.Join(cfg.Model.Dir, artifactFileName),
		cfg.Model.TrainingTimeout,
	)
}

// ProvideQueue builds the Redis training queue, or nil without Redis.
func ProvideQueue(cfg *config.Config, client *redis.Client, train *usecase.TrainModelUseCase, l *applogger.Logger) *queue.RedisQueue {
	if client == nil {
		return nil
	}
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    1,
		RetryLimit: 1,
		RetryDelay: time.Minute,
	}, client, queue.ModeProducerConsumer, queue.WithKeyPrefix("riskpulse"))
	q.RegisterJob(usecase.NewTrainJob(train, l))
	return q
}

// ProvideScheduler registers the bot cycle and nightly retraining.
func ProvideScheduler(
	cfg *config.Config,
	bot *usecase.BotUseCase,
	train *usecase.TrainModelUseCase,
	l *applogger.Logger,
) (*scheduler.Scheduler, error) {
	s := scheduler.New(l)
	if cfg.Bot.Enabled {
		if err := s.Add(cfg.Bot.Schedule, "trading_bot", bot.RunCycle); err != nil {
			return nil, fmt.Errorf("schedule bot: %w", err)
		}
	}
	// retrain the default model every weekday after the US close
	if err := s.Add("0 30 22 * * MON-FRI", "nightly_retrain", func(ctx context.Context) error {
		_, err := train.Run(ctx, cfg.Model.DefaultTicker, models.Period(cfg.Model.TrainingPeriod))
		return err
	}); err != nil {
		return nil, fmt.Errorf("schedule retrain: %w", err)
	}
	return s, nil
}

// ProvideApp assembles the running application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	source *marketdata.YahooSource,
	store domrepo.ModelStore,
	tg domservice.TextGenerator,
	c icache.BytesCache,
	m domrepo.Metrics,
	publisher domrepo.SignalPublisher,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	accountDB *internalrepo.AccountDB,
	analysis *usecase.AnalysisUseCase,
	train *usecase.TrainModelUseCase,
	q *queue.RedisQueue,
) (*server.App, error) {
	quotesTTL := cfg.Cache.QuoteTTL
	quotes := usecase.NewQuotesUseCase(source, cfg.MarketData.Tickers, c, quotesTTL, l)
	advisor := usecase.NewAdvisorUseCase(analysis, tg, cfg.MarketData.Tickers, l)
	accounts := usecase.NewAccountUseCase(accountDB.Users(), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	watchlist := usecase.NewWatchlistUseCase(accountDB.Watchlists())
	portfolio := usecase.NewPortfolioUseCase(accountDB.Portfolios(), source, l)
	bot := usecase.NewBotUseCase(analysis, accountDB.Users(), accountDB.Watchlists(), accountDB.Portfolios(), accountDB.TradeLogs(), publisher, usecase.BotConfig{
		BuyThreshold:  cfg.Bot.BuyThreshold,
		SellThreshold: cfg.Bot.SellThreshold,
		OrderSize:     cfg.Bot.OrderSize,
	}, l)

	sched, err := ProvideScheduler(cfg, bot, train, l)
	if err != nil {
		return nil, err
	}

	app := server.New(cfg, l)
	app.AddHandler(api.NewAnalysisHandler(l, analysis, quotes, store))
	app.AddHandler(api.NewAdvisorHandler(l, advisor))
	app.AddHandler(api.NewAccountHandler(l, accounts, watchlist, portfolio, accountDB.TradeLogs()))
	app.AddHandler(api.NewTrainHandler(l, train, queueOrNil(q)))
	app.AddHandler(api.NewTickerWSHandler(l, quotes, cfg.Cache.QuoteTTL))
	app.SetScheduler(sched)
	app.SetConsumer(consumer, kh)
	if q != nil {
		app.SetQueue(q)
	}
	// archive and account DB are closed by the injector cleanup
	app.AddCloser("signal_publisher", publisher.Close)
	app.AddCloser("log_collector", func() error {
		l.RemoveCollector()
		return nil
	})
	return app, nil
}

// queueOrNil keeps a typed-nil *RedisQueue from leaking into the
// QueueService interface value.
func queueOrNil(q *queue.RedisQueue) queue.QueueService {
	if q == nil {
		return nil
	}
	return q
}
