package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/appfolio/showcase-api/internal/pkg/showcase"
)

type UploadController struct {
	svc *showcase.Service
}

func NewUploadController(svc *showcase.Service) *UploadController {
	return &UploadController{svc: svc}
}

// HandleSignUpload issues a presigned PUT the browser uses to upload a
// screenshot directly to object storage. The body is optional.
func (uc *UploadController) HandleSignUpload(c *fiber.Ctx) error {
	var in showcase.SignUploadInput
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	ticket, err := uc.svc.SignUpload(c.UserContext(), subject(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ticket)
}
