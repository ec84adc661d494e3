package controller

import (
	"secaware_backend/internal/service"
	"secaware_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	ContactService *service.ContactService
}

func NewContactController(contactService *service.ContactService) *ContactController {
	return &ContactController{ContactService: contactService}
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// Submit godoc
// @Summary 提交联系表单
// @Tags 联系我们
// @Accept json
// @Produce json
// @Param body body ContactRequest true "表单内容"
// @Success 201 {object} util.Response{data=model.ContactSubmission}
// @Failure 400 {object} util.Response
// @Router /api/contact [post]
func (c *ContactController) Submit(ctx *gin.Context) {
	var req ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.ContactService.Submit(req.Name, req.Email, req.Message)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, submission)
}

// List godoc
// @Summary 联系表单列表（管理端）
// @Tags 联系我们
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/contact-submissions [get]
func (c *ContactController) List(ctx *gin.Context) {
	submissions, err := c.ContactService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}
