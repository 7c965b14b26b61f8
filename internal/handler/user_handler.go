package handler

import (
	"bsu_chat_server/internal/dto/request"
	"bsu_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves student registration and login.
type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// VerificationQuestions returns a random set of registration questions.
// GET /api/verification-questions
func (h *UserHandler) VerificationQuestions(c *gin.Context) {
	HandleSuccess(c, h.userSvc.VerificationQuestions())
}

// Register creates a student account.
// POST /api/register
func (h *UserHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Register(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Login checks the password and issues an access token.
// POST /api/login
func (h *UserHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Login(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
