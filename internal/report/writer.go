package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Marshal 输出带缩进的 JSON，不转义 HTML 字符
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFile 将报告或摘要写入 dir/filename，目录不存在时创建，返回完整路径
func SaveFile(v any, dir, filename string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("序列化报告失败: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("写入报告失败: %w", err)
	}
	return path, nil
}
