package utils

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	KB = int64(1024)
	MB = KB * 1024
	GB = MB * 1024
)

// TrafficFormat 流量人类可读格式化
func TrafficFormat(traffic int64) string {
	switch {
	case traffic < KB:
		return fmt.Sprintf("%dB", traffic)
	case traffic < MB:
		return fmt.Sprintf("%.1fKB", float64(traffic)/float64(KB))
	case traffic < GB:
		return fmt.Sprintf("%.1fMB", float64(traffic)/float64(MB))
	default:
		return fmt.Sprintf("%.1fGB", float64(traffic)/float64(GB))
	}
}

// SplitServers server 字段支持逗号分隔传多个地址
func SplitServers(server string) []string {
	parts := strings.Split(server, ",")
	servers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			servers = append(servers, p)
		}
	}
	return servers
}

func MergeStruct(dst, src interface{}) {
	dstValue := reflect.ValueOf(dst).Elem() // 获取 dst 的可修改值
	srcValue := reflect.ValueOf(src).Elem() // 获取 src 的值

	// 遍历 src 的所有字段
	for i := 0; i < srcValue.NumField(); i++ {
		srcField := srcValue.Field(i) // src 的字段值
		dstField := dstValue.Field(i) // dst 的对应字段值

		if srcField.Kind() == reflect.Ptr && !srcField.IsNil() {
			dstField.Set(srcField)
		} else if srcField.Kind() != reflect.Ptr && srcField.IsValid() && !isEmptyValue(srcField) {
			dstField.Set(srcField)
		}
	}
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	default:
		return false
	}
}
