package manager

import (
	"fmt"
	"net/url"

	"github.com/xmrio/django-sspanel/db"
)

// 节点代理拉取自身配置的地址，token 由配置显式传入而非进程环境
func ApiEndpoint(node *db.ProxyNode) string {
	if node.NodeType != db.NodeTypeSS {
		// TODO vless/trojan
		return ""
	}
	params := url.Values{"token": {APIToken}}
	return fmt.Sprintf("%s/api/proxy_configs/%d/?%s", Host, node.ID, params.Encode())
}

func EhcoServerEndpoint(node *db.ProxyNode) string {
	params := url.Values{"token": {APIToken}}
	return fmt.Sprintf("%s/api/ehco_server_config/%d/?%s", Host, node.ID, params.Encode())
}

func EhcoRelayEndpoint(node *db.RelayNode) string {
	params := url.Values{"token": {APIToken}}
	return fmt.Sprintf("%s/api/ehco_relay_config/%d/?%s", Host, node.ID, params.Encode())
}
