package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/models"
)

// TokenTTL 令牌有效期
const TokenTTL = 30 * 24 * time.Hour

var jwtSecret []byte

// InitJWT 设置签名密钥，启动时由配置调用
func InitJWT(secret string) {
	jwtSecret = []byte(secret)
}

// HashPassword 哈希密码
func HashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return hex.EncodeToString(hash[:])
}

// SimpleHash 简单哈希 (sha256 + 盐值)
func SimpleHash(password string, salt string) string {
	if salt == "" {
		salt = "69dc6ee0"
	}
	hash := sha256.Sum256([]byte(password + salt))
	return fmt.Sprintf("sha256$%s$%s", salt, hex.EncodeToString(hash[:]))
}

// VerifyPassword 验证密码，支持纯 sha256 和 sha256$salt$hash 两种格式
func VerifyPassword(password string, hashedPassword string) bool {
	if hashedPassword == "" {
		return false
	}

	if HashPassword(password) == hashedPassword {
		return true
	}

	parts := strings.Split(hashedPassword, "$")
	if len(parts) == 3 && parts[0] == "sha256" {
		return SimpleHash(password, parts[1]) == hashedPassword
	}

	Logger.Debug().Msg("密码验证失败")
	return false
}

// GenerateToken 生成JWT令牌
func GenerateToken(user models.User) (string, error) {
	if len(jwtSecret) == 0 {
		return "", fmt.Errorf("JWT密钥未配置")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"name":     user.Name,
		"role":     string(user.Role),
		"exp":      now.Add(TokenTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		Logger.Error().Err(err).Msg("生成token失败")
		return "", err
	}

	Logger.Debug().
		Str("id", user.ID).
		Str("role", string(user.Role)).
		Msg("Token生成成功")
	return tokenString, nil
}

// ParseToken 解析和验证JWT令牌
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("无效的token")
}

// ViewerFromClaims 从 claims 构建访问者
func ViewerFromClaims(claims jwt.MapClaims) (models.Viewer, error) {
	id, _ := claims["id"].(string)
	role, ok := claims["role"].(string)
	if !ok || !models.UserRole(role).IsValid() {
		return models.Viewer{}, fmt.Errorf("无效的用户角色")
	}
	username, _ := claims["username"].(string)
	name, _ := claims["name"].(string)
	return models.Viewer{
		ID:       id,
		Username: username,
		Name:     name,
		Role:     models.UserRole(role),
	}, nil
}

// GetViewer 获取当前请求的访问者，由 AuthMiddleware 写入
func GetViewer(c *gin.Context) (models.Viewer, error) {
	v, exists := c.Get("viewer")
	if !exists {
		return models.Viewer{}, CreateUnauthorizedError()
	}
	viewer, ok := v.(models.Viewer)
	if !ok {
		return models.Viewer{}, CreateUnauthorizedError()
	}
	return viewer, nil
}
