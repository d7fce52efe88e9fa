package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"scenario-sim-api/pkg/models"
)

// PresetFile はプリセット定義YAMLの構造です
type PresetFile struct {
	Presets []models.PresetScenario `yaml:"presets"`
}

// LoadPresets はYAMLファイルから追加プリセットを読み込みます。
// パスが空の場合は何も読み込みません。
func LoadPresets(path string) ([]models.PresetScenario, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("プリセット定義ファイルの読み込みに失敗: %w", err)
	}
	return ParsePresets(data)
}

// ParsePresets はYAMLをパースし、IDの欠落と重複を検証します。
func ParsePresets(data []byte) ([]models.PresetScenario, error) {
	var file PresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("YAMLのパースに失敗: %w", err)
	}

	seen := make(map[string]bool, len(file.Presets))
	for i, p := range file.Presets {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("presets[%d]: id is required", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("presets[%d]: duplicate id %q", i, id)
		}
		seen[id] = true
		file.Presets[i].ID = id
		if file.Presets[i].Name == "" {
			file.Presets[i].Name = id
		}
	}
	return file.Presets, nil
}
