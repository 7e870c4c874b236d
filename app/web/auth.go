package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWT声明结构
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// 面板管理员凭据来自配置文件，用户账户由外部计费系统管理，不在这里登录
func login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, errorR(400, "Invalid request data"))
		return
	}

	if adminUser == "" || req.Username != adminUser || req.Password != adminPassword {
		c.JSON(401, errorR(401, "Invalid username or password"))
		return
	}
	token, err := generateToken(req.Username)
	if err != nil {
		c.JSON(500, errorR(500, "Failed to generate token"))
		return
	}

	c.JSON(200, successR(gin.H{
		"username": req.Username,
		"token":    token,
	}))
}

func logout(c *gin.Context) {
	// JWT无需服务端注销，客户端丢弃令牌即可
	c.JSON(200, successR(gin.H{
		"message": "Logged out successfully",
	}))
}

// 生成JWT令牌
func generateToken(username string) (string, error) {
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// 解析JWT令牌
func parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

func getClaims(c *gin.Context) (*Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, errorR(http.StatusUnauthorized, "未提供授权令牌"))
		c.Abort()
		return nil, fmt.Errorf("未提供授权令牌")
	}

	// 检查Bearer前缀
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		c.JSON(http.StatusUnauthorized, errorR(http.StatusUnauthorized, "授权格式无效"))
		c.Abort()
		return nil, fmt.Errorf("授权格式无效")
	}

	claims, err := parseToken(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, errorR(http.StatusUnauthorized, "无效的令牌"))
		c.Abort()
		return nil, fmt.Errorf("无效的令牌")
	}
	return claims, nil
}

// 管理端验证中间件
func adminCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := getClaims(c)
		if err != nil {
			return
		}
		c.Set("username", claims.Username)
		c.Next()
	}
}

// 节点代理静态 token 验证，token 无效属于边界鉴权问题，核心不感知
func tokenCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("token") != apiToken {
			c.JSON(http.StatusUnauthorized, errorR(http.StatusUnauthorized, "无效的节点token"))
			c.Abort()
			return
		}
		c.Next()
	}
}
