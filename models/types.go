package models

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleMANAGER          UserRole = "manager"          // 销售经理
	UserRoleSALESMAN         UserRole = "salesman"         // 销售
	UserRoleCUSTOMER_SERVICE UserRole = "customer-service" // 客服
)

// IsValid 角色是否合法
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleMANAGER, UserRoleSALESMAN, UserRoleCUSTOMER_SERVICE:
		return true
	}
	return false
}

// Viewer 当前访问者，决定可见的成交范围
type Viewer struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
}

// User 种子文件中的账号
type User struct {
	ID       string   `yaml:"id" json:"id"`
	Username string   `yaml:"username" json:"username"`
	Name     string   `yaml:"name" json:"name"`
	Password string   `yaml:"password" json:"-"` // sha256 哈希或 sha256$salt$hash
	Role     UserRole `yaml:"role" json:"role"`
	Team     string   `yaml:"team" json:"team,omitempty"`
}

// Viewer 转换为访问者
func (u User) Viewer() Viewer {
	return Viewer{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role}
}

// 各种请求和响应结构
type (
	// LoginRequest 登录请求
	LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	// LoginResponse 登录响应
	LoginResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
)
