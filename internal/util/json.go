package util

import (
	"errors"

	"github.com/rtcchoir/choirdesk/internal/constant"
	"github.com/rtcchoir/choirdesk/internal/model"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func SendSuccessMessage(ctx *fiber.Ctx, message string) error {
	err := ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
	if err != nil {
		return err
	}
	return nil
}

func SendSuccessResponseWithData(ctx *fiber.Ctx, data interface{}) error {
	err := ctx.Status(fiber.StatusOK).JSON(data)
	if err != nil {
		return err
	}

	return nil
}

func statusForCode(code string) int {
	switch code {
	case constant.ERR_NOT_FOUND_ERROR:
		return fiber.StatusNotFound
	case constant.ERR_UNSUPPORTED_MEDIA_TYPE_CODE:
		return fiber.StatusUnsupportedMediaType
	case constant.ERR_PAYLOAD_TOO_LARGE_CODE:
		return fiber.StatusRequestEntityTooLarge
	case constant.ERR_STORAGE_ERROR_CODE:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// SendErrorResponse maps a domain error onto its HTTP status and the standard
// failure envelope.
func SendErrorResponse(ctx *fiber.Ctx, err error) error {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return ctx.Status(statusForCode(validationErr.Code)).JSON(fiber.Map{
			"success": false,
			"code":    validationErr.Code,
			"message": validationErr.Message,
		})
	}

	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"code":    constant.ERR_VALIDATION_CODE,
		"message": err.Error(),
	})
}

func SendErrorResponseInternalServer(ctx *fiber.Ctx, log *zap.Logger, err error) error {
	log.Error("internal server error occured", zap.Error(err))
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"code":    constant.ERR_INTERNAL_SERVER_ERROR_CODE,
		"message": constant.ERR_INTENRAL_SERVER_ERROR_MESSAGE,
	})
}
