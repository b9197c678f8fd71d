package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	domrepo "DivScope/internal/domain/repository"
	domsvc "DivScope/internal/domain/service"
	"DivScope/internal/handler/api"
	mid "DivScope/internal/middleware"
	internalrepo "DivScope/internal/repository"
	icache "DivScope/internal/service/cache"
	"DivScope/internal/service/fmp"
	"DivScope/internal/service/source"
	"DivScope/internal/service/tiingo"
	"DivScope/internal/services/analytics"
	"DivScope/internal/services/divclass"
	"DivScope/internal/usecase"
	pkgcache "DivScope/pkg/cache"
	pkgch "DivScope/pkg/clickhouse"
	"DivScope/pkg/config"
	pkgkafka "DivScope/pkg/kafka"
	applogger "DivScope/pkg/logger"
	"DivScope/pkg/metrics"
	"DivScope/pkg/queue"
	"DivScope/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger. Development gets the console
// writer, everything else logs JSON.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and applies the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer for the classified topic.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
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

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
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
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideRedisClient creates the shared Redis connection used by the queue
// and the response cache.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideStorage creates the ClickHouse storage repository.
func ProvideStorage(chClient *pkgch.Client, cfg *config.Config) domrepo.Storage {
	return internalrepo.NewClickHouseStorage(chClient.DB(), cfg.ClickHouse.Database)
}

// ProvidePublisher creates the Kafka publisher for classified dividends.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.ClassifiedTopic)
}

// ProvideStatsStore creates the per-ticker analytics snapshot store.
func ProvideStatsStore(chClient *pkgch.Client, cfg *config.Config) domrepo.StatsStore {
	return internalrepo.NewCHStatsStore(chClient.DB(), cfg.ClickHouse.Database)
}

// ProvideDividendReader creates the read-side repository over ClickHouse.
func ProvideDividendReader(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) domrepo.DividendReader {
	reader := internalrepo.NewCHDividendReader(chClient, cfg.ClickHouse.Database)
	reader.SetLogger(l)
	return reader
}

// ProvideDividendSource creates the dividend history chain: FMP first,
// Tiingo when FMP errors or returns nothing for a ticker.
func ProvideDividendSource(cfg *config.Config, l *applogger.Logger) domrepo.DividendSource {
	return source.NewFallbackDividendSource(l,
		fmp.New(cfg.FMP.APIKey, cfg.FMP.BaseURL, cfg.FMP.Timeout, cfg.FMP.RequestsPerMinute),
		tiingo.NewDividendSource(cfg.Tiingo.APIKey, cfg.Tiingo.BaseURL, cfg.Tiingo.Timeout, cfg.Tiingo.RequestsPerMinute),
	)
}

// ProvidePriceSource creates the Tiingo EOD price client.
func ProvidePriceSource(cfg *config.Config) domrepo.PriceSource {
	return tiingo.New(cfg.Tiingo.APIKey, cfg.Tiingo.BaseURL, cfg.Tiingo.Timeout, cfg.Tiingo.RequestsPerMinute)
}

// ProvideEngine creates the classification engine. Zero-valued tunables keep
// their defaults so a sparse config section stays valid.
func ProvideEngine(cfg *config.Config) domsvc.Classifier {
	opts := divclass.DefaultOptions()
	if cfg.Engine.TinyStubRatio > 0 {
		opts.TinyStubRatio = cfg.Engine.TinyStubRatio
	}
	if cfg.Engine.RepeatTolerance > 0 {
		opts.RepeatTolerance = cfg.Engine.RepeatTolerance
	}
	if cfg.Engine.MedianDeviation > 0 {
		opts.MedianDeviation = cfg.Engine.MedianDeviation
	}
	opts.AutoDecemberSpecial = cfg.Engine.AutoDecemberSpecial

	return divclass.NewEngine(opts, divclass.DefaultCEFOptions(), cfg.Funds.CEFTickers)
}

// ProvideVolatilityEstimator creates the payment-variability estimator.
func ProvideVolatilityEstimator(cfg *config.Config) domsvc.VolatilityEstimator {
	return analytics.NewVolatilityEstimator(cfg.Funds.WeeklyTickers)
}

// ProvideZScoreCalculator creates the premium/discount z-score calculator.
func ProvideZScoreCalculator() domsvc.ZScoreCalculator {
	return analytics.NewZScoreCalculator()
}

// ProvideBytesCache picks the response cache backend. Redis gets a memory
// layer in front so hot tickers skip the round trip; the TTL cache keeps
// everything in process.
func ProvideBytesCache(cfg *config.Config) (icache.BytesCache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Cache.Redis {
		host, port, err := splitRedisAddr(cfg.Redis.Addr)
		if err != nil {
			return nil, err
		}
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(host),
			pkgcache.WithRedisPort(port),
			pkgcache.WithRedisPassword(cfg.Redis.Password),
			pkgcache.WithRedisDB(cfg.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return icache.NewServiceCache(pkgcache.NewLayeredCache(rc)), nil
	}
	return icache.NewTTLCache(), nil
}

func splitRedisAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("redis addr %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("redis addr %q: %w", addr, err)
	}
	return host, port, nil
}

// ProvideWSHub creates the websocket broadcast hub.
func ProvideWSHub(l *applogger.Logger) *api.WSHub {
	return api.NewWSHub(l)
}

// ProvideDividendProcessor creates the fetch-classify-store pipeline core.
func ProvideDividendProcessor(
	source domrepo.DividendSource,
	engine domsvc.Classifier,
	store domrepo.Storage,
	pub domrepo.Publisher,
	c icache.BytesCache,
	hub *api.WSHub,
	m domrepo.Metrics,
) *usecase.DividendProcessor {
	return usecase.NewDividendProcessor(source, engine, store, pub, c, hub, m)
}

// ProvideReclassifyPipeline creates the debounced reclassification pipeline
// fed by the raw Kafka topic.
func ProvideReclassifyPipeline(proc *usecase.DividendProcessor, m domrepo.Metrics, cfg *config.Config) *mid.ReclassifyPipeline {
	opts := []mid.PipelineOption{}
	if cfg.Refresh.Debounce > 0 {
		opts = append(opts, mid.WithDebounce(cfg.Refresh.Debounce))
	}
	return mid.NewReclassifyPipeline(proc, m, opts...)
}

// ProvideKafkaDividendsHandler registers the handler for the raw dividends topic.
func ProvideKafkaDividendsHandler(pipe *mid.ReclassifyPipeline, m domrepo.Metrics, cfg *config.Config) *usecase.KafkaDividendsHandler {
	return usecase.NewKafkaDividendsHandler(cfg.Kafka.RawTopic, pipe, m)
}

// ProvideRefreshQueue creates the Redis-backed job queue with the refresh
// job registered.
func ProvideRefreshQueue(l *applogger.Logger, cfg *config.Config, rdb *redis.Client, proc *usecase.DividendProcessor) *queue.RedisQueue {
	rq := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, rdb, queue.ModeProducerConsumer)
	rq.RegisterJob(usecase.NewRefreshJob(proc, l))
	return rq
}

// ProvideRefreshScheduler creates the cron-driven daily refresh.
func ProvideRefreshScheduler(rq *queue.RedisQueue, cfg *config.Config, l *applogger.Logger) *usecase.RefreshScheduler {
	return usecase.NewRefreshScheduler(rq, cfg.Funds.Tickers, cfg.Refresh.Cron, l)
}

// ProvideRouter assembles the HTTP surface: dividend endpoints, analytics
// endpoints, and the websocket hub.
func ProvideRouter(
	l *applogger.Logger,
	reader domrepo.DividendReader,
	prices domrepo.PriceSource,
	engine domsvc.Classifier,
	vol domsvc.VolatilityEstimator,
	zscore domsvc.ZScoreCalculator,
	c icache.BytesCache,
	statsStore domrepo.StatsStore,
	rq *queue.RedisQueue,
	hub *api.WSHub,
	cfg *config.Config,
) *api.Router {
	divs := usecase.NewDividendsUseCase(reader)
	agg := usecase.NewStatsAggregator(reader, prices, engine, vol, zscore, cfg.Funds.NavSymbols)
	stats := usecase.NewStatsAggregateUseCase(agg, engine, statsStore, l)

	dh := api.NewDividendsEchoHandler(l, divs, rq)
	sh := api.NewStatsEchoHandler(l, stats, agg)
	if c != nil {
		sh.SetCache(c)
	}

	return api.NewRouter(dh, sh, hub)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	router *api.Router,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaDividendsHandler,
	pipe *mid.ReclassifyPipeline,
	rq *queue.RedisQueue,
	sched *usecase.RefreshScheduler,
	proc *usecase.DividendProcessor,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, l, router, consumer, kh, pipe, rq, sched, proc, chClient)
}
