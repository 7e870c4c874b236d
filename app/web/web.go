package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/xmrio/django-sspanel/utils"
)

// JWT密钥和过期时间
var (
	jwtSecret     []byte
	jwtExpiration = 24 * time.Hour // 令牌有效期为24小时
	adminUser     string
	adminPassword string
	apiToken      string
)

func StartWeb(config *utils.RootConfig, openBrowser bool) {
	address := config.WebAddress
	staticPath := config.StaticPath

	if staticPath == "" {
		staticPath = "./static"
	}
	if address == "" {
		address = ":8079"
	}
	if config.WebSecret == "" {
		log.Fatal().Msg("请在config.json中设置web_secret密钥用于签发会话令牌")
		return
	}
	jwtSecret = []byte(config.WebSecret)
	adminUser = config.AdminUser
	adminPassword = config.AdminPassword
	apiToken = config.APIToken
	if apiToken == "" {
		log.Fatal().Msg("请在config.json中设置api_token供节点代理拉取配置")
		return
	}

	go func() {
		gin.SetMode(gin.ReleaseMode)
		r := gin.Default()
		r.Static("/assets", staticPath+"/dist/assets")
		r.StaticFile("/favicon.ico", staticPath+"/dist/favicon.ico")
		r.NoRoute(func(c *gin.Context) {
			// 如果没有匹配到其他路由，则返回前端的 index.html
			c.File(staticPath + "/dist/index.html")
		})

		// 节点代理接口，静态 token 鉴权，路径与 django-sspanel 保持一致
		node := r.Group("/api")
		node.Use(tokenCheck())
		{
			node.GET("/proxy_configs/:id", getProxyConfigs)
			node.POST("/proxy_configs/:id", postNodeReport)
			node.GET("/ehco_server_config/:id", getEhcoServerConfig)
			node.GET("/ehco_relay_config/:id", getEhcoRelayConfig)
		}

		toAuth := r.Group("/api/auth")
		{
			toAuth.POST("/login", login)
			toAuth.POST("/logout", logout) // 客户端丢弃令牌即可，服务端无需处理
		}

		admin := r.Group("/api")
		admin.Use(adminCheck())
		{
			proxyNodes := admin.Group("/proxy-nodes")
			{
				proxyNodes.GET("", getAllProxyNode)
				proxyNodes.GET("/:id", getProxyNode)
				proxyNodes.POST("", createProxyNode)
				proxyNodes.PUT("/:id", updateProxyNode)
				proxyNodes.DELETE("/:id", deleteProxyNode)
				proxyNodes.POST("/:id/toggle-status", toggleProxyNodeStatus)
				proxyNodes.POST("/reorder", updateProxyNodeOrder)
			}
			relayNodes := admin.Group("/relay-nodes")
			{
				relayNodes.GET("", getAllRelayNode)
				relayNodes.GET("/:id", getRelayNode)
				relayNodes.POST("", createRelayNode)
				relayNodes.PUT("/:id", updateRelayNode)
				relayNodes.DELETE("/:id", deleteRelayNode)
				relayNodes.POST("/:id/toggle-status", toggleRelayNodeStatus)
			}
			relayRules := admin.Group("/relay-rules")
			{
				relayRules.GET("", getAllRelayRule)
				relayRules.GET("/active", getActiveRelayRules)
				relayRules.POST("", createRelayRule)
				relayRules.PUT("/:id", updateRelayRule)
				relayRules.DELETE("/:id", deleteRelayRule)
			}

			admin.GET("/users", getAllUser)
			admin.GET("/users/:id/traffic-logs", getUserTrafficLogs)
			admin.GET("/users/:id/ip-logs", getUserIPLogs)

			dashboard := admin.Group("/dashboard")
			{
				dashboard.GET("/traffic-history/:timeRange", getTrafficHistory)
				dashboard.GET("/traffic-status", getTrafficStatus)
				dashboard.GET("/node-traffic-rank", getNodeTrafficRank)
				dashboard.GET("/user-traffic-rank", getUserTrafficRank)
				dashboard.GET("/node-status", getNodeStatus)
				dashboard.GET("/online-user-count", getFleetOnlineUserCount)
			}

			admin.POST("/system/clear-config-cache", clearConfigCache)
		}

		log.Info().Str("address", address).Str("static", staticPath).Msg("Web面板启动")
		if openBrowser {
			browser.OpenURL("http://" + address)
		}
		r.Run(address)
	}()
}

// ApiResponse 定义API响应结构
type ApiResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"` // 使用omitempty选项，当Data为空时不序列化该字段
}

func successR(data interface{}) ApiResponse {
	return ApiResponse{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	}
}

func errorR(code int, message string) ApiResponse {
	return ApiResponse{
		Code:    code,
		Message: message,
	}
}
