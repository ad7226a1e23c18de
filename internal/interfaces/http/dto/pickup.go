package dto

import "tagalog-rizz-api/internal/application/pickup"

// GenerateRequest 生成请求，所有字段可缺省
type GenerateRequest struct {
	Scenario            *string `json:"scenario"`
	Count               *int    `json:"count"`
	Category            *string `json:"category"`
	IncludeTranslations *bool   `json:"includeTranslations"`
}

// LineDTO 单条撩妹语
type LineDTO struct {
	Tagalog     string `json:"tagalog"`
	Translation string `json:"translation"`
}

// GenerateResponse 生成响应
type GenerateResponse struct {
	Lines []LineDTO `json:"lines"`
	Note  string    `json:"note,omitempty"`
}

// ChatRequest 单句生成请求
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatResponse 单句生成响应
type ChatResponse struct {
	Text string `json:"text"`
	Note string `json:"note,omitempty"`
}

// ToGenerationRequest 应用缺省值：count=1，includeTranslations=true
func (r *GenerateRequest) ToGenerationRequest() (pickup.GenerationRequest, error) {
	var scenario, category string
	if r.Scenario != nil {
		scenario = *r.Scenario
	}
	if r.Category != nil {
		category = *r.Category
	}
	count := 1
	if r.Count != nil {
		count = *r.Count
	}
	include := true
	if r.IncludeTranslations != nil {
		include = *r.IncludeTranslations
	}

	cat, err := pickup.ParseCategory(category)
	if err != nil {
		return pickup.GenerationRequest{}, err
	}
	return pickup.NewGenerationRequest(scenario, count, cat, include), nil
}

// ToGenerateResponse 转换生成结果
func ToGenerateResponse(res *pickup.Result) *GenerateResponse {
	lines := make([]LineDTO, 0, len(res.Items))
	for _, it := range res.Items {
		lines = append(lines, LineDTO{Tagalog: it.Text, Translation: it.Translation})
	}
	return &GenerateResponse{Lines: lines, Note: res.Note}
}
