package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSON 从模型输出中提取最外层的JSON对象。
// 模型偶尔会包裹markdown围栏或附带说明文字，取首个{到末个}之间的内容。
func extractJSON(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &data); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return data, nil
}

// getString 取字符串字段，缺失或类型不符时返回默认值
func getString(data map[string]any, key, def string) string {
	if v, ok := data[key].(string); ok && v != "" {
		return v
	}
	return def
}

// getStringList 取字符串数组字段，逐项过滤非字符串元素
func getStringList(data map[string]any, key string) []string {
	raw, ok := data[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// getInt 取整数字段。JSON数字解码为float64，截断取整
func getInt(data map[string]any, key string) (int, bool) {
	switch v := data[key].(type) {
	case float64:
		return int(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	}
	return 0, false
}

// getMap 取嵌套对象字段
func getMap(data map[string]any, key string) map[string]any {
	if m, ok := data[key].(map[string]any); ok {
		return m
	}
	return nil
}

// clampInt 将v限制在[min, max]区间
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
