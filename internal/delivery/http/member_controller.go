package http

import (
	"errors"
	"mime/multipart"

	"github.com/rtcchoir/choirdesk/internal/constant"
	"github.com/rtcchoir/choirdesk/internal/middleware"
	"github.com/rtcchoir/choirdesk/internal/model"
	"github.com/rtcchoir/choirdesk/internal/usecase"
	"github.com/rtcchoir/choirdesk/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type MemberController struct {
	MemberUsecase *usecase.MemberUsecase
	Log           *zap.Logger
	Config        *koanf.Koanf
}

func NewMemberController(memberUsecase *usecase.MemberUsecase, zap *zap.Logger, koanf *koanf.Koanf) *MemberController {
	return &MemberController{
		MemberUsecase: memberUsecase,
		Log:           zap,
		Config:        koanf,
	}
}

// parseSubmission pulls the form values and the optional photo out of a
// registration or update request.
func parseSubmission(ctx *fiber.Ctx) (map[string][]string, *multipart.FileHeader, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, nil, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
			Param:   "body",
		}
	}

	var photo *multipart.FileHeader
	if files := form.File["photo"]; len(files) > 0 {
		photo = files[0]
	}

	return form.Value, photo, nil
}

func (controller *MemberController) Register(ctx *fiber.Ctx) error {
	values, photo, err := parseSubmission(ctx)
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	var validationErr *model.ValidationError

	member, err := controller.MemberUsecase.Register(ctx.Context(), values, photo)
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendErrorResponse(ctx, err)
		}

		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Member registered successfully!",
		"member":  member,
	})
}

func (controller *MemberController) List(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", constant.DEFAULT_PAGE)
	limit := ctx.QueryInt("limit", constant.DEFAULT_LIMIT)

	var validationErr *model.ValidationError

	response, err := controller.MemberUsecase.List(ctx.Context(), page, limit)
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendErrorResponse(ctx, err)
		}

		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller *MemberController) ListAll(ctx *fiber.Ctx) error {
	members, err := controller.MemberUsecase.ListAll(ctx.Context())
	if err != nil {
		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"members": members,
		"total":   len(members),
	})
}

func (controller *MemberController) GetById(ctx *fiber.Ctx) error {
	var validationErr *model.ValidationError

	member, err := controller.MemberUsecase.GetById(ctx.Context(), ctx.Params("id"))
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendErrorResponse(ctx, err)
		}

		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"member":  member,
	})
}

func (controller *MemberController) Update(ctx *fiber.Ctx) error {
	values, photo, err := parseSubmission(ctx)
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	var validationErr *model.ValidationError

	member, err := controller.MemberUsecase.Update(ctx.Context(), ctx.Params("id"), values, photo)
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendErrorResponse(ctx, err)
		}

		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Member updated successfully!",
		"member":  member,
	})
}

func (controller *MemberController) Delete(ctx *fiber.Ctx) error {
	var validationErr *model.ValidationError

	err := controller.MemberUsecase.Delete(ctx.Context(), ctx.Params("id"))
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendErrorResponse(ctx, err)
		}

		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	return util.SendSuccessMessage(ctx, "Member deleted successfully!")
}

// Search answers the ?term= variant with a flat array, capped at 50 results.
func (controller *MemberController) Search(ctx *fiber.Ctx) error {
	members, err := controller.MemberUsecase.Search(ctx.Context(), ctx.Query("term"))
	if err != nil {
		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	return util.SendSuccessResponseWithData(ctx, members)
}

// SearchAll answers the /search/:query variant, uncapped and wrapped.
func (controller *MemberController) SearchAll(ctx *fiber.Ctx) error {
	response, err := controller.MemberUsecase.SearchAll(ctx.Context(), ctx.Params("query"))
	if err != nil {
		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller *MemberController) Zones(ctx *fiber.Ctx) error {
	zones, err := controller.MemberUsecase.Zones(ctx.Context())
	if err != nil {
		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"zones":   zones,
	})
}

// GetUpload streams raw photo bytes out of the asset store.
func (controller *MemberController) GetUpload(ctx *fiber.Ctx) error {
	var validationErr *model.ValidationError

	content, err := controller.MemberUsecase.GetUpload(ctx.Context(), ctx.Params("filename"))
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendErrorResponse(ctx, err)
		}

		return util.SendErrorResponseInternalServer(ctx, middleware.GetLoggerFromContext(ctx), err)
	}

	if content.ContentType != "" {
		ctx.Set(fiber.HeaderContentType, content.ContentType)
	}

	return ctx.SendStream(content.Body, int(content.Size))
}
