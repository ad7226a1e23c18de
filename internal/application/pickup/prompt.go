package pickup

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptsFS embed.FS

// PromptID 指令模板标识
type PromptID string

const (
	PromptGenerate PromptID = "generate"
	PromptChat     PromptID = "chat"
)

// Composer 负责把请求渲染成发给补全服务的单条指令
// 模板在启动时解析一次，之后只读
type Composer struct {
	templates map[PromptID]*template.Template
}

// NewComposer 解析内置模板
func NewComposer() (*Composer, error) {
	c := &Composer{templates: make(map[PromptID]*template.Template)}
	for _, id := range []PromptID{PromptGenerate, PromptChat} {
		path := fmt.Sprintf("prompts/%s.tmpl", id)
		raw, err := promptsFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read prompt %s: %w", id, err)
		}
		tpl, err := template.New(string(id)).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parse prompt %s: %w", id, err)
		}
		c.templates[id] = tpl
	}
	return c, nil
}

// MustNewComposer 解析失败时 panic（模板为内置资源）
func MustNewComposer() *Composer {
	c, err := NewComposer()
	if err != nil {
		panic(err)
	}
	return c
}

type generateVars struct {
	Scenario            string
	Count               int
	Tone                string
	IncludeTranslations bool
}

// Generate 渲染批量生成指令
func (c *Composer) Generate(req GenerationRequest) (string, error) {
	return c.render(PromptGenerate, generateVars{
		Scenario:            req.Scenario(),
		Count:               req.Count(),
		Tone:                req.Category().Tone(),
		IncludeTranslations: req.IncludeTranslations(),
	})
}

// Chat 渲染单句指令
func (c *Composer) Chat(topic string) (string, error) {
	return c.render(PromptChat, struct{ Topic string }{Topic: strings.TrimSpace(topic)})
}

func (c *Composer) render(id PromptID, data any) (string, error) {
	tpl, ok := c.templates[id]
	if !ok {
		return "", fmt.Errorf("prompt %s not found", id)
	}
	var sb strings.Builder
	if err := tpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", id, err)
	}
	return strings.TrimSpace(sb.String()), nil
}
