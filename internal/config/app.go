package config

import (
	http "github.com/rtcchoir/choirdesk/internal/delivery/http"
	"github.com/rtcchoir/choirdesk/internal/delivery/http/route"
	"github.com/rtcchoir/choirdesk/internal/report"
	"github.com/rtcchoir/choirdesk/internal/repository"
	"github.com/rtcchoir/choirdesk/internal/usecase"
	"github.com/minio/minio-go/v7"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Router  *fiber.App
	DB      *pgxpool.Pool
	DBCache *redis.Client
	Log     *zap.Logger
	Config  *koanf.Koanf
	MinIO   *minio.Client
}

// Server wires the repositories, usecases and controllers and registers
// the route table. It returns the reconciler so main can run the sweep
// loop on its own goroutine.
func Server(config *ServerConfig) *usecase.Reconciler {
	memberRepository := repository.NewMemberRepository(config.Log, config.DB, config.DBCache)
	assetRepository := repository.NewAssetRepository(config.Log, config.MinIO, config.Config.String("MINIO_BUCKET_NAME"))

	memberUsecase := usecase.NewMemberUsecase(memberRepository, assetRepository, config.Log, config.Config)
	memberController := http.NewMemberController(memberUsecase, config.Log, config.Config)

	renderer := report.NewRenderer(config.Log)
	reportController := http.NewReportController(memberUsecase, renderer, config.Log)

	grace := config.Config.Duration("RECONCILER_GRACE")
	if grace <= 0 {
		grace = usecase.DefaultReconcilerGrace
	}
	reconciler := usecase.NewReconciler(memberRepository, assetRepository, config.Log, grace)

	routeConfig := route.RouteConfig{
		App:              config.Router,
		MemberController: memberController,
		ReportController: reportController,
	}

	routeConfig.SetupRoute()

	return reconciler
}
