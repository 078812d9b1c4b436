package render

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/issuegate/internal/label"
	"github.com/dshills/issuegate/internal/summary"
)

// JSON renders the summary record plus resolved tool labels.
type JSON struct {
	Labels label.Provider
}

type jsonTool struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Size int    `json:"size"`
}

type jsonView struct {
	*summary.Summary
	Tools        []jsonTool `json:"tools"`
	CleanBuilds  int        `json:"clean_builds,omitempty"`
	VerdictLabel string     `json:"verdict_label,omitempty"`
}

// Render implements Renderer. Maps are encoded with sorted keys, so the
// output is stable.
func (j *JSON) Render(s *summary.Summary) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	v := jsonView{Summary: s, Tools: []jsonTool{}, CleanBuilds: s.CleanBuilds()}
	for _, id := range s.Origins() {
		name, icon := j.Labels.Resolve(id)
		v.Tools = append(v.Tools, jsonTool{ID: id, Name: name, Icon: icon, Size: s.SizePerOrigin[id]})
	}
	if s.QualityGate.Enabled {
		v.VerdictLabel = s.QualityGate.Verdict.Label()
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render.JSON: %w", err)
	}
	return string(data) + "\n", nil
}
