package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/utils"
)

// UserFinder 按用户名查找账号
type UserFinder interface {
	FindUser(username string) (models.User, bool)
}

// AuthController 登录与令牌校验
type AuthController struct {
	users UserFinder
}

// NewAuthController 创建认证控制器
func NewAuthController(users UserFinder) *AuthController {
	return &AuthController{users: users}
}

// Login 用户登录
func (ctl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	utils.Logger.Info().Str("username", req.Username).Msg("登录尝试")

	user, ok := ctl.users.FindUser(req.Username)
	if !ok || !utils.VerifyPassword(req.Password, user.Password) {
		utils.Logger.Info().Str("username", req.Username).Msg("登录失败: 用户名或密码错误")
		utils.ErrorResponse(c, "用户名或密码错误", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.ErrorResponse(c, "生成登录令牌失败，请重试", http.StatusInternalServerError)
		return
	}

	utils.Logger.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("登录成功")
	utils.SuccessResponse(c, models.LoginResponse{Token: token, User: user}, "")
}

// ValidateToken 校验令牌并返回当前访问者
func (ctl *AuthController) ValidateToken(c *gin.Context) {
	viewer, err := utils.GetViewer(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"user": viewer}, "")
}
