package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fachebot/bioai-trend-bot/internal/logger"
	"github.com/fachebot/bioai-trend-bot/internal/model"
)

// LoadFile 读取采集器输出的 JSON 记录数组
func LoadFile(path string) ([]model.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	records, err := model.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// LoadFiles 依次读取多个文件，文件不存在时跳过
func LoadFiles(paths []string) ([]model.RawRecord, error) {
	var all []model.RawRecord
	for _, path := range paths {
		records, err := LoadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warnf("[Ingest] 输入文件不存在，跳过: %s", path)
				continue
			}
			return nil, err
		}
		logger.Infof("[Ingest] 读取 %s: %d 条记录", path, len(records))
		all = append(all, records...)
	}
	return all, nil
}
