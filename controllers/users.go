package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/utils"
)

// UserController 账号列表，供经理设置目标时选择销售
type UserController struct {
	users []models.User
}

// NewUserController 创建账号控制器
func NewUserController(users []models.User) *UserController {
	return &UserController{users: users}
}

// GetUsers 获取账号列表，可按 role 过滤。密码字段不会序列化
func (ctl *UserController) GetUsers(c *gin.Context) {
	role := models.UserRole(c.Query("role"))
	result := make([]models.User, 0, len(ctl.users))
	for _, u := range ctl.users {
		if role == "" || u.Role == role {
			result = append(result, u)
		}
	}
	utils.SuccessResponse(c, result, "")
}
