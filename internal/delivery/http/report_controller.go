package http

import (
	"github.com/rtcchoir/choirdesk/internal/middleware"
	"github.com/rtcchoir/choirdesk/internal/report"
	"github.com/rtcchoir/choirdesk/internal/usecase"
	"github.com/rtcchoir/choirdesk/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReportController serves the member roster exports. The renderer is a pure
// collaborator: it only ever sees records this controller loaded.
type ReportController struct {
	MemberUsecase *usecase.MemberUsecase
	Renderer      *report.Renderer
	Log           *zap.Logger
}

func NewReportController(memberUsecase *usecase.MemberUsecase, renderer *report.Renderer, zap *zap.Logger) *ReportController {
	return &ReportController{
		MemberUsecase: memberUsecase,
		Renderer:      renderer,
		Log:           zap,
	}
}

func (controller *ReportController) ExportPDF(ctx *fiber.Ctx) error {
	members, err := controller.MemberUsecase.ListAll(ctx.Context())
	if err != nil {
		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	data, err := controller.Renderer.RenderPDF(members)
	if err != nil {
		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="members.pdf"`)
	return ctx.Send(data)
}

func (controller *ReportController) ExportCSV(ctx *fiber.Ctx) error {
	members, err := controller.MemberUsecase.ListAll(ctx.Context())
	if err != nil {
		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	data, err := controller.Renderer.RenderCSV(members)
	if err != nil {
		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	ctx.Set(fiber.HeaderContentType, "text/csv")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="members.csv"`)
	return ctx.Send(data)
}
