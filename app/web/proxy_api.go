package web

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"

	"github.com/xmrio/django-sspanel/db"
	"github.com/xmrio/django-sspanel/manager"
	"github.com/xmrio/django-sspanel/utils"
)

func proxyNodeView(node *db.ProxyNode, now time.Time) gin.H {
	// 在线信息每次请求重新推导，不跨请求缓存
	onlineInfo, err := manager.NodeOnlineInfo(node.ID, now)
	hasSamples := !errors.Is(err, manager.ErrNoSamples)
	view := gin.H{
		"id":                node.ID,
		"name":              node.Name,
		"server":            node.Server,
		"servers":           utils.SplitServers(node.Server),
		"enable":            node.Enable,
		"nodeType":          node.NodeType,
		"info":              node.Info,
		"level":             node.Level,
		"country":           node.Country,
		"usedTraffic":       node.UsedTraffic,
		"totalTraffic":      node.TotalTraffic,
		"humanUsedTraffic":  utils.TrafficFormat(node.UsedTraffic),
		"humanTotalTraffic": utils.TrafficFormat(node.TotalTraffic),
		"enlargeScale":      node.EnlargeScale,
		"sequence":          node.Sequence,
		"online":            onlineInfo.Online,
		"hasSamples":        hasSamples,
		"onlineUserCount":   onlineInfo.OnlineUserCount,
		"tcpConnections":    onlineInfo.TCPConnectionsCount,
		"enableRelay":       len(node.RelayRules) > 0,
		"enableEhcoTunnel":  manager.EnableEhcoTunnel(node),
		"apiEndpoint":       manager.ApiEndpoint(node),
		"ehcoApiEndpoint":   manager.EhcoServerEndpoint(node),
	}
	if node.SSConfig != nil {
		view["ssConfig"] = gin.H{
			"method":        node.SSConfig.Method,
			"multiUserPort": node.SSConfig.MultiUserPort,
		}
	}
	return view
}

func getAllProxyNode(c *gin.Context) {
	nodes, _, err := manager.DBM.ProxyNode.List(0, db.MAX)
	if err != nil {
		c.JSON(500, errorR(500, "获取代理节点失败"))
		return
	}
	now := time.Now()
	views := make([]gin.H, 0, len(nodes))
	for i := range nodes {
		views = append(views, proxyNodeView(&nodes[i], now))
	}
	c.JSON(200, successR(views))
}

func getProxyNode(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	node, err := manager.DBM.ProxyNode.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(404, errorR(404, "代理节点不存在"))
			return
		}
		c.JSON(500, errorR(500, "获取代理节点失败"))
		return
	}
	c.JSON(200, successR(proxyNodeView(node, time.Now())))
}

func createProxyNode(c *gin.Context) {
	var node db.ProxyNode
	if err := c.ShouldBindJSON(&node); err != nil {
		c.JSON(400, errorR(400, "Invalid request data"))
		return
	}
	if node.NodeType == "" {
		node.NodeType = db.NodeTypeSS
	}
	if node.NodeType == db.NodeTypeSS && node.SSConfig == nil {
		node.SSConfig = &db.SSConfig{Method: db.DefaultSSMethod}
	}
	if node.EnlargeScale == 0 {
		node.EnlargeScale = 1.0
	}
	if node.EnlargeScale < 0 {
		c.JSON(400, errorR(400, "倍率必须大于0"))
		return
	}
	if err := manager.DBM.ProxyNode.Create(&node); err != nil {
		c.JSON(500, errorR(500, "创建代理节点失败"))
		return
	}
	manager.BumpConfigVersion()
	c.JSON(200, successR(gin.H{
		"id": node.ID,
	}))
}

func updateProxyNode(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var node db.ProxyNode
	if err := c.ShouldBindBodyWith(&node, binding.JSON); err != nil {
		c.JSON(400, errorR(400, "Invalid request data"))
		return
	}
	// Enable 和 EnlargeScale 的零值是有效值，MergeStruct 区分不了
	// "未传"与"传零"，用指针字段单独判断请求是否携带
	var explicit struct {
		Enable       *bool
		EnlargeScale *float64
	}
	_ = c.ShouldBindBodyWith(&explicit, binding.JSON)
	dbData, err := manager.DBM.ProxyNode.GetByID(id)
	if err != nil {
		c.JSON(500, errorR(500, "获取代理节点失败"))
		return
	}
	enable, scale := dbData.Enable, dbData.EnlargeScale
	utils.MergeStruct(dbData, &node)
	dbData.Enable, dbData.EnlargeScale = enable, scale
	if explicit.Enable != nil {
		dbData.Enable = *explicit.Enable
	}
	if explicit.EnlargeScale != nil {
		dbData.EnlargeScale = *explicit.EnlargeScale
	}
	if dbData.EnlargeScale <= 0 {
		c.JSON(400, errorR(400, "倍率必须大于0"))
		return
	}
	if err := manager.DBM.ProxyNode.Update(dbData); err != nil {
		c.JSON(500, errorR(500, "更新代理节点失败"))
		return
	}
	manager.BumpConfigVersion()
	c.JSON(200, successR(gin.H{
		"id": dbData.ID,
	}))
}

func deleteProxyNode(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := manager.DBM.ProxyNode.Delete(id); err != nil {
		c.JSON(500, errorR(500, "删除代理节点失败"))
		return
	}
	manager.BumpConfigVersion()
	c.JSON(200, successR(gin.H{
		"message": "代理节点已删除",
	}))
}

func toggleProxyNodeStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	node, err := manager.DBM.ProxyNode.GetByID(id)
	if err != nil {
		c.JSON(500, errorR(500, "获取代理节点失败"))
		return
	}
	if err := manager.DBM.ProxyNode.Enable(id, !node.Enable); err != nil {
		c.JSON(500, errorR(500, "更新代理节点失败"))
		return
	}
	manager.BumpConfigVersion()
	c.JSON(200, successR(gin.H{
		"id":     id,
		"enable": !node.Enable,
	}))
}

func updateProxyNodeOrder(c *gin.Context) {
	var req []struct {
		ID       uint `json:"id"`
		Sequence uint `json:"sequence"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, errorR(400, "Invalid request data"))
		return
	}
	for _, item := range req {
		if err := manager.DBM.ProxyNode.UpdateSequence(item.ID, item.Sequence); err != nil {
			c.JSON(500, errorR(500, "更新节点排序失败"))
			return
		}
	}
	c.JSON(200, successR(gin.H{
		"message": "节点排序已更新",
	}))
}

func relayNodeView(node *db.RelayNode) gin.H {
	return gin.H{
		"id":          node.ID,
		"name":        node.Name,
		"server":      node.Server,
		"enable":      node.Enable,
		"isp":         node.ISP,
		"ruleCount":   len(node.RelayRules),
		"apiEndpoint": manager.EhcoRelayEndpoint(node),
	}
}

func getAllRelayNode(c *gin.Context) {
	nodes, _, err := manager.DBM.RelayNode.List(0, db.MAX)
	if err != nil {
		c.JSON(500, errorR(500, "获取中转节点失败"))
		return
	}
	views := make([]gin.H, 0, len(nodes))
	for i := range nodes {
		views = append(views, relayNodeView(&nodes[i]))
	}
	c.JSON(200, successR(views))
}

func getRelayNode(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	node, err := manager.DBM.RelayNode.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(404, errorR(404, "中转节点不存在"))
			return
		}
		c.JSON(500, errorR(500, "获取中转节点失败"))
		return
	}
	c.JSON(200, successR(relayNodeView(node)))
}

func createRelayNode(c *gin.Context) {
	var node db.RelayNode
	if err := c.ShouldBindJSON(&node); err != nil {
		c.JSON(400, errorR(400, "Invalid request data"))
		return
	}
	if node.ISP == "" {
		node.ISP = db.ISPBGP
	}
	if err := manager.DBM.RelayNode.Create(&node); err != nil {
		c.JSON(500, errorR(500, "创建中转节点失败"))
		return
	}
	c.JSON(200, successR(gin.H{
		"id": node.ID,
	}))
}

func updateRelayNode(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var node db.RelayNode
	if err := c.ShouldBindBodyWith(&node, binding.JSON); err != nil {
		c.JSON(400, errorR(400, "Invalid request data"))
		return
	}
	var explicit struct {
		Enable *bool
	}
	_ = c.ShouldBindBodyWith(&explicit, binding.JSON)
	dbData, err := manager.DBM.RelayNode.GetByID(id)
	if err != nil {
		c.JSON(500, errorR(500, "获取中转节点失败"))
		return
	}
	enable := dbData.Enable
	utils.MergeStruct(dbData, &node)
	dbData.Enable = enable
	if explicit.Enable != nil {
		dbData.Enable = *explicit.Enable
	}
	if err := manager.DBM.RelayNode.Update(dbData); err != nil {
		c.JSON(500, errorR(500, "更新中转节点失败"))
		return
	}
	c.JSON(200, successR(gin.H{
		"id": dbData.ID,
	}))
}

func deleteRelayNode(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := manager.DBM.RelayNode.Delete(id); err != nil {
		c.JSON(500, errorR(500, "删除中转节点失败"))
		return
	}
	c.JSON(200, successR(gin.H{
		"message": "中转节点已删除",
	}))
}

func toggleRelayNodeStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	node, err := manager.DBM.RelayNode.GetByID(id)
	if err != nil {
		c.JSON(500, errorR(500, "获取中转节点失败"))
		return
	}
	if err := manager.DBM.RelayNode.Enable(id, !node.Enable); err != nil {
		c.JSON(500, errorR(500, "更新中转节点失败"))
		return
	}
	c.JSON(200, successR(gin.H{
		"id":     id,
		"enable": !node.Enable,
	}))
}

func getAllRelayRule(c *gin.Context) {
	rules, err := manager.DBM.RelayRule.ListAll()
	if err != nil {
		c.JSON(500, errorR(500, "获取中转规则失败"))
		return
	}
	views := make([]manager.RelayRuleView, 0, len(rules))
	for i := range rules {
		views = append(views, manager.ToRelayRuleView(&rules[i], nil))
	}
	c.JSON(200, successR(views))
}

// 可用路由列表，任一端停用的规则整条不出现
func getActiveRelayRules(c *gin.Context) {
	rules, err := manager.ActiveRelayRules()
	if err != nil {
		c.JSON(500, errorR(500, "获取中转规则失败"))
		return
	}
	views := make([]manager.RelayRuleView, 0, len(rules))
	for i := range rules {
		views = append(views, manager.ToRelayRuleView(&rules[i], nil))
	}
	c.JSON(200, successR(views))
}

func createRelayRule(c *gin.Context) {
	var rule db.RelayRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(400, errorR(400, "Invalid request data"))
		return
	}
	if _, err := manager.DBM.ProxyNode.GetByID(rule.ProxyNodeID); err != nil {
		c.JSON(404, errorR(404, "代理节点不存在"))
		return
	}
	if _, err := manager.DBM.RelayNode.GetByID(rule.RelayNodeID); err != nil {
		c.JSON(404, errorR(404, "中转节点不存在"))
		return
	}
	if err := manager.DBM.RelayRule.Create(&rule); err != nil {
		c.JSON(500, errorR(500, "创建中转规则失败"))
		return
	}
	c.JSON(200, successR(gin.H{
		"id": rule.ID,
	}))
}

func updateRelayRule(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var rule db.RelayRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(400, errorR(400, "Invalid request data"))
		return
	}
	dbData, err := manager.DBM.RelayRule.GetByID(id)
	if err != nil {
		c.JSON(500, errorR(500, "获取中转规则失败"))
		return
	}
	dbData.RelayPort = rule.RelayPort
	if rule.ListenType != "" {
		dbData.ListenType = rule.ListenType
	}
	if rule.TransportType != "" {
		dbData.TransportType = rule.TransportType
	}
	if err := manager.DBM.RelayRule.Update(dbData); err != nil {
		c.JSON(500, errorR(500, "更新中转规则失败"))
		return
	}
	c.JSON(200, successR(gin.H{
		"id": dbData.ID,
	}))
}

func deleteRelayRule(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := manager.DBM.RelayRule.Delete(id); err != nil {
		c.JSON(500, errorR(500, "删除中转规则失败"))
		return
	}
	c.JSON(200, successR(gin.H{
		"message": "中转规则已删除",
	}))
}
