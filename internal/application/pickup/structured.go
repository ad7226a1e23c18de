package pickup

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// extractStructured 从补全文本中解析 JSON 数组/对象形式的条目
// 依次尝试：整段文本、第一个配平的 [...]、第一个配平的 {...}；
// 每个候选解析失败时做一次引号修复再试；全部失败后按 "键": "值" 扫描（应对被截断的 JSON）
func extractStructured(text string, count int) []Item {
	for _, candidate := range jsonCandidates(text) {
		if items := parseItems(candidate, count); len(items) > 0 {
			return items
		}
		if repaired := repairJSON(candidate); repaired != candidate {
			if items := parseItems(repaired, count); len(items) > 0 {
				return items
			}
		}
	}
	return scanFields(text, count)
}

func jsonCandidates(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	out := []string{trimmed}
	arr := strings.IndexByte(trimmed, '[')
	obj := strings.IndexByte(trimmed, '{')
	if arr >= 0 {
		if c := balancedSlice(trimmed, '['); c != "" && c != trimmed {
			out = append(out, c)
		}
	}
	// 数组先出现时，其中的对象只是元素，不单独作为候选
	if obj >= 0 && (arr < 0 || obj < arr) {
		if c := balancedSlice(trimmed, '{'); c != "" && c != trimmed {
			out = append(out, c)
		}
	}
	return out
}

// balancedSlice 返回从第一个 open 开始、括号配平的子串；字符串内的括号不计
func balancedSlice(s string, open byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return ""
	}

	var quote byte
	escaped := false
	depth := 0
	for i := start; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"':
			quote = ch
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// parseItems 解析单个候选；非数组/对象或无可用条目时返回 nil
func parseItems(candidate string, count int) []Item {
	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil
	}

	var items []Item
	collectItems(raw, &items, count, 0)
	return items
}

// collectItems 深度限制为 1：顶层对象的成员可以是数组，但不再继续向下
func collectItems(raw json.RawMessage, items *[]Item, count, depth int) {
	switch firstByte(raw) {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return
		}
		for _, elem := range elems {
			if len(*items) >= count {
				return
			}
			if item, ok := itemFromElement(elem); ok {
				*items = append(*items, item)
			}
		}

	case '{':
		members, err := orderedMembers(raw)
		if err != nil {
			return
		}
		keys := make([]string, len(members))
		for i, m := range members {
			keys[i] = m.key
		}
		// 单个条目对象
		if hasAnyAlias(keys, TextAliases) {
			if item, ok := itemFromElement(raw); ok {
				*items = append(*items, item)
			}
			return
		}
		// 条目的容器：{"1": {...}, "2": {...}} 或 {"lines": [...]}
		for _, m := range members {
			if len(*items) >= count {
				return
			}
			if firstByte(m.value) == '[' && depth == 0 {
				collectItems(m.value, items, count, depth+1)
				continue
			}
			if item, ok := itemFromElement(m.value); ok {
				*items = append(*items, item)
			}
		}
	}
}

func itemFromElement(elem json.RawMessage) (Item, bool) {
	var item Item
	switch firstByte(elem) {
	case '"':
		var s string
		if err := json.Unmarshal(elem, &s); err != nil {
			return Item{}, false
		}
		item.Text = s
	case '{':
		var obj map[string]any
		if err := json.Unmarshal(elem, &obj); err != nil {
			return Item{}, false
		}
		item.Text = lookupAlias(obj, TextAliases)
		item.Translation = lookupAlias(obj, TranslationAliases)
	default:
		return Item{}, false
	}

	item.Text = cleanText(item.Text)
	item.Translation = cleanTranslation(item.Translation)
	return item, item.Text != ""
}

type member struct {
	key   string
	value json.RawMessage
}

// orderedMembers 按文档顺序读取对象成员
func orderedMembers(raw json.RawMessage) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var out []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		out = append(out, member{key: key, value: val})
	}
	return out, nil
}

func firstByte(raw []byte) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

// repairJSON 修复常见的模型 JSON 瑕疵：单引号字符串、未加引号的键、尾随逗号
// 逐字符扫描，双引号字符串原样保留
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	// prev 为上一个非空白的结构字符，用于判断裸标识符是否处在键的位置
	var prev byte
	for i := 0; i < len(s); {
		ch := s[i]
		switch {
		case ch == '"':
			end, _ := skipDoubleQuoted(s, i+1)
			b.WriteString(s[i:end])
			i, prev = end, '"'
		case ch == '\'':
			body, end, _ := readSingleQuoted(s, i+1)
			b.WriteByte('"')
			b.WriteString(body)
			b.WriteByte('"')
			i, prev = end, '"'
		case ch == ',' && isClosingBracket(nextNonSpace(s, i+1)):
			i++
		case isIdentStart(ch) && (prev == '{' || prev == ','):
			j := i
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			if nextNonSpace(s, j) == ':' {
				b.WriteByte('"')
				b.WriteString(s[i:j])
				b.WriteByte('"')
			} else {
				b.WriteString(s[i:j])
			}
			i, prev = j, 'a'
		default:
			b.WriteByte(ch)
			if !isSpace(ch) {
				prev = ch
			}
			i++
		}
	}
	return b.String()
}

// skipDoubleQuoted 从开引号之后的位置 i 扫到闭引号之后；未闭合时返回 len(s)
func skipDoubleQuoted(s string, i int) (int, bool) {
	for ; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1, true
		}
	}
	return len(s), false
}

// readSingleQuoted 读取单引号字符串，返回可放进双引号 JSON 字符串的内容
// 只有后面紧跟 , : } ] 或文本结尾的 ' 才算闭合，sa'yo、'di 中的撇号保留为字面量
func readSingleQuoted(s string, i int) (string, int, bool) {
	var b strings.Builder
	for ; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '\\':
			if i+1 >= len(s) {
				b.WriteString(`\\`)
				continue
			}
			i++
			if s[i] != '\'' {
				b.WriteByte('\\')
			}
			b.WriteByte(s[i])
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\'':
			if next := nextNonSpace(s, i+1); next == 0 || next == ':' || next == ',' || isClosingBracket(next) {
				return b.String(), i + 1, true
			}
			b.WriteByte(ch)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String(), len(s), false
}

// nextNonSpace 返回 i 之后第一个非空白字符；到结尾返回 0
func nextNonSpace(s string, i int) byte {
	for ; i < len(s); i++ {
		if !isSpace(s[i]) {
			return s[i]
		}
	}
	return 0
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isClosingBracket(ch byte) bool {
	return ch == '}' || ch == ']'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || ('0' <= ch && ch <= '9')
}

var fieldKeyRe = regexp.MustCompile(`(?i)["']?\b(tagalog|text|content|line|translation|english|meaning)\b["']?\s*:\s*(["'])`)

// scanFields 按出现顺序扫描 "键": "值" 对（值可为单引号）；文本键开启新条目，翻译键补充当前条目
// 未闭合的值视为被截断，扫描到此为止
func scanFields(text string, count int) []Item {
	var items []Item
	var cur *Item

	flush := func() {
		if cur != nil {
			cur.Text = cleanText(cur.Text)
			cur.Translation = cleanTranslation(cur.Translation)
			if cur.Text != "" {
				items = append(items, *cur)
			}
			cur = nil
		}
	}

	for pos := 0; pos < len(text); {
		loc := fieldKeyRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		key := strings.ToLower(text[pos+loc[2] : pos+loc[3]])
		start := pos + loc[1]

		var val string
		var end int
		var closed bool
		if text[pos+loc[4]] == '"' {
			end, closed = skipDoubleQuoted(text, start)
			if closed {
				val = unescapeJSONString(text[start : end-1])
			}
		} else {
			var body string
			body, end, closed = readSingleQuoted(text, start)
			val = unescapeJSONString(body)
		}
		if !closed {
			break
		}
		pos = end

		switch {
		case isAlias(key, TextAliases):
			flush()
			if len(items) >= count {
				return items
			}
			cur = &Item{Text: val}
		case cur != nil && cur.Translation == "":
			cur.Translation = val
		}
	}
	flush()

	if len(items) > count {
		items = items[:count]
	}
	return items
}

func unescapeJSONString(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}
