package openapi

import (
	"encoding/json"
	"fmt"
)

const (
	settingExtensionKey = "x-setting"
	groupsExtensionKey  = "x-settings-groups"
)

// settingExtension is the payload of the x-setting extension.
type settingExtension struct {
	ID                    string            `json:"id"`
	Parent                string            `json:"parent"`
	ParentStatusCondition []string          `json:"parentStatusCondition"`
	Status                bool              `json:"status"`
	SelectRange           bool              `json:"selectRange"`
	Widget                string            `json:"widget"`
	Icon                  string            `json:"icon"`
	Unit                  string            `json:"unit"`
	OptionLabels          map[string]string `json:"optionLabels"`
}

// decodeExtension re-encodes a decoded extension value into target. Extension
// values arrive either as json.RawMessage or as generic maps and slices.
func decodeExtension(raw any, target any) error {
	var data []byte
	switch v := raw.(type) {
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode extension: %w", err)
		}
		data = encoded
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode extension: %w", err)
	}
	return nil
}
