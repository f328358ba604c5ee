package setup

import (
	"context"
	"testing"

	deliveryhttp "github.com/rtcchoir/choirdesk/internal/delivery/http"
	"github.com/rtcchoir/choirdesk/internal/delivery/http/route"
	"github.com/rtcchoir/choirdesk/internal/report"
	"github.com/rtcchoir/choirdesk/internal/repository"
	"github.com/rtcchoir/choirdesk/internal/usecase"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const TestBucket = "choirdesk-test"

func SetupTestApp(t *testing.T, pgURL, redisURL, minioURL string) (*fiber.App, *pgxpool.Pool, *redis.Client, *minio.Client) {
	t.Log("Setting up test application...")

	ctx := context.Background()

	testConfig := koanf.New(".")
	_ = testConfig.Set("POSTGRES_URL", pgURL)
	_ = testConfig.Set("REDIS_URL", redisURL)
	_ = testConfig.Set("MINIO_URL", minioURL)
	_ = testConfig.Set("MINIO_BUCKET_NAME", TestBucket)

	t.Log("Connecting to test PostgreSQL...")
	dbPool, err := pgxpool.New(ctx, pgURL)
	if err != nil {
		t.Fatalf("failed to connect to test db: %v", err)
	}

	t.Log("Connecting to test Redis...")
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisURL,
		DB:   0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("failed to connect to test redis: %v", err)
	}

	t.Log("Connecting to test MinIO...")
	minioClient, err := minio.New(minioURL, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Fatalf("failed to connect to minio: %v", err)
	}

	exists, err := minioClient.BucketExists(ctx, TestBucket)
	if err != nil {
		t.Fatalf("failed to check minio bucket: %v", err)
	}

	if !exists {
		t.Logf("Creating MinIO bucket: %s", TestBucket)
		err = minioClient.MakeBucket(ctx, TestBucket, minio.MakeBucketOptions{})
		if err != nil {
			t.Fatalf("failed to create minio bucket: %v", err)
		}
	} else {
		t.Logf("MinIO bucket already exists: %s", TestBucket)
	}

	zapLogger := zap.NewExample()
	defer func() {
		_ = zapLogger.Sync()
	}()

	memberRepository := repository.NewMemberRepository(zapLogger, dbPool, redisClient)
	assetRepository := repository.NewAssetRepository(zapLogger, minioClient, TestBucket)

	memberUsecase := usecase.NewMemberUsecase(memberRepository, assetRepository, zapLogger, testConfig)
	memberController := deliveryhttp.NewMemberController(memberUsecase, zapLogger, testConfig)

	renderer := report.NewRenderer(zapLogger)
	reportController := deliveryhttp.NewReportController(memberUsecase, renderer, zapLogger)

	fiberApp := fiber.New(fiber.Config{
		AppName:               "choirdesk test",
		DisableStartupMessage: true,
		DisableKeepalive:      true, // Important for tests
	})

	routeConfig := route.RouteConfig{
		App:              fiberApp,
		MemberController: memberController,
		ReportController: reportController,
	}

	routeConfig.SetupRoute()

	t.Log("Test application setup completed successfully")

	return fiberApp, dbPool, redisClient, minioClient
}
