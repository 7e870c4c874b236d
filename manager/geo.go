package manager

import (
	"net"
	"strings"

	"github.com/metacubex/geo/geoip"
	"github.com/rs/zerolog/log"
)

var ipDb *geoip.Database

func initGeoIP(path string) error {
	var err error
	ipDb, err = geoip.FromFile(path)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("geoip 数据库已加载")
	return nil
}

// CountryOfIP 给上报的用户IP打国家标记，库未加载或查不到返回空
func CountryOfIP(ip string) string {
	if ipDb == nil {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	codes := ipDb.LookupCode(parsed)
	if len(codes) == 0 {
		return ""
	}
	return strings.ToUpper(codes[0])
}
