package pickup

import (
	"regexp"
	"strings"
	"unicode"
)

// Strategy 产出最终条目的抽取策略
type Strategy string

const (
	StrategyStructured Strategy = "structured"
	StrategyPairedList Strategy = "paired_list"
	StrategyNumbered   Strategy = "numbered_list"
	StrategyLines      Strategy = "lines"
	StrategyParagraphs Strategy = "paragraphs"
	StrategyPartition  Strategy = "partition"
	StrategyWholeText  Strategy = "whole_text"
	StrategyNone       Strategy = "none"
)

// partitionMinCharsPerItem 平均每条至少这么多字符时才做等分切割
const partitionMinCharsPerItem = 20

// Normalized 归一化结果
type Normalized struct {
	Items    []Item
	Strategy Strategy
}

// Normalize 把一段补全文本转成至多 count 条结构化条目
// 纯函数：不报错、无随机性；只要输入非空白，至少返回一条
func Normalize(raw string, count int, includeTranslations bool) Normalized {
	count = ClampCount(count)
	text := stripFences(raw)

	if includeTranslations {
		if items := extractStructured(text, count); len(items) > 0 {
			return Normalized{Items: items, Strategy: StrategyStructured}
		}
		if items := extractPairedList(text, count); len(items) > 0 {
			return Normalized{Items: items, Strategy: StrategyPairedList}
		}
	}

	if items := extractNumbered(text, count); len(items) > 0 {
		return Normalized{Items: items, Strategy: StrategyNumbered}
	}

	best, strategy := extractLines(text, count), StrategyLines
	if len(best) < count {
		if items := extractParagraphs(text, count); len(items) > len(best) {
			best, strategy = items, StrategyParagraphs
		}
	}
	if len(best) < count {
		if items := extractPartition(text, count); len(items) > len(best) {
			best, strategy = items, StrategyPartition
		}
	}
	if len(best) > 0 {
		return Normalized{Items: best, Strategy: strategy}
	}

	// 只剩围栏标记时退回原文
	whole := text
	if whole == "" {
		whole = strings.TrimSpace(raw)
	}
	if whole == "" {
		return Normalized{Strategy: StrategyNone}
	}
	if cleaned := cleanText(whole); cleaned != "" {
		whole = cleaned
	}
	return Normalized{Items: []Item{{Text: whole}}, Strategy: StrategyWholeText}
}

var fenceRe = regexp.MustCompile("```[A-Za-z0-9_+-]*")

// stripFences 去掉代码块围栏标记，保留其中内容
func stripFences(s string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(s, ""))
}

var (
	numberedLineRe = regexp.MustCompile(`^\s*[*_]*\d{1,3}\s*[.)]`)
	markerRe       = regexp.MustCompile(`^(?:[*_]*\d{1,3}\s*[.)][*_]*|[-*•]\s)\s*`)
	textLabelRe    = regexp.MustCompile(`(?i)^[*_]*\s*(?:tagalog|text|content|line|pick-?up\s*line)\s*[*_]*\s*:\s*[*_]*\s*`)
	transLabelRe   = regexp.MustCompile(`(?i)^[(*_]*\s*(?:translation|english|meaning)\s*[*_]*\s*:\s*[*_]*\s*`)
	bareLabelRe    = regexp.MustCompile(`(?i)^[*_#\s]*(?:tagalog|translation|english|meaning|pick-?up\s*lines?)\s*[*_]*\s*:?\s*[*_]*$`)
	separatorRe    = regexp.MustCompile(`^[-*=_~#─—–\s]{3,}$`)
	inlineTransRe  = regexp.MustCompile(`^(.*\S)\s*\(([^()]+)\)\s*$`)
	numberedHeadRe = regexp.MustCompile(`(?m)^[ \t]*\d{1,2}[.)]\s+`)
	numberedSegRe  = regexp.MustCompile(`(?:^|\s)\d{1,2}[.)]\s+`)
	blankLineRe    = regexp.MustCompile(`\n\s*\n`)
)

// cleanText 去掉编号、项目符号、字段名回显与包裹的引号/强调
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	for {
		prev := s
		s = strings.TrimSpace(markerRe.ReplaceAllString(s, ""))
		s = strings.TrimSpace(textLabelRe.ReplaceAllString(s, ""))
		s = unwrap(s)
		if s == prev {
			return s
		}
	}
}

// cleanTranslation 去掉翻译标签、括号与强调
func cleanTranslation(s string) string {
	s = strings.TrimSpace(s)
	for {
		prev := s
		s = strings.TrimSpace(markerRe.ReplaceAllString(s, ""))
		if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
		s = strings.TrimSpace(transLabelRe.ReplaceAllString(s, ""))
		s = unwrap(s)
		if s == prev {
			return s
		}
	}
}

var wrappers = [][2]string{{"**", "**"}, {"*", "*"}, {"_", "_"}, {`"`, `"`}, {"“", "”"}, {"'", "'"}}

func unwrap(s string) string {
	for _, w := range wrappers {
		if len(s) > len(w[0])+len(w[1]) && strings.HasPrefix(s, w[0]) && strings.HasSuffix(s, w[1]) {
			inner := s[len(w[0]) : len(s)-len(w[1])]
			// 内部还有同样的包裹符号时不拆，避免 "a" and "b" 被改坏
			if strings.Contains(inner, w[0]) || strings.Contains(inner, w[1]) {
				continue
			}
			return strings.TrimSpace(inner)
		}
	}
	return s
}

func isSeparator(line string) bool {
	return separatorRe.MatchString(line)
}

func isBareLabel(line string) bool {
	return bareLabelRe.MatchString(line)
}

func isNumbered(line string) bool {
	return numberedLineRe.MatchString(line)
}

func hasTextLabel(line string) bool {
	return textLabelRe.MatchString(strings.TrimSpace(markerRe.ReplaceAllString(line, "")))
}

func hasTranslationLabel(line string) bool {
	return transLabelRe.MatchString(line)
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// extractPairedList 编号行（或 "Tagalog:" 行）作为正文，紧随其后的一行作为翻译
func extractPairedList(text string, count int) []Item {
	lines := nonEmptyLines(text)
	var items []Item

	// 第一个编号行之前的无编号行是开场白，如 "Here are 2 lines:"
	firstNumbered := -1
	for i, line := range lines {
		if isNumbered(line) {
			firstNumbered = i
			break
		}
	}

	for i := 0; i < len(lines) && len(items) < count; i++ {
		line := lines[i]
		if isSeparator(line) || isBareLabel(line) || hasTranslationLabel(line) {
			continue
		}

		numbered := isNumbered(line)
		head := numbered || hasTextLabel(line)
		body := cleanText(line)
		if body == "" {
			continue
		}
		if !head {
			if i < firstNumbered {
				continue
			}
			items = append(items, Item{Text: body})
			continue
		}

		item := Item{Text: body}
		if i+1 < len(lines) && isTranslationLine(lines[i+1], numbered) {
			item.Translation = cleanTranslation(lines[i+1])
			i++
		} else if m := inlineTransRe.FindStringSubmatch(body); m != nil {
			item.Text, item.Translation = cleanText(m[1]), cleanTranslation(m[2])
		}
		if item.Text != "" {
			items = append(items, item)
		}
	}
	return items
}

// isTranslationLine 判断 next 能否作为上一条的翻译
// 带翻译标签的行总是可以；无标签的普通行只跟在编号行后面时才算
func isTranslationLine(next string, afterNumbered bool) bool {
	switch {
	case isSeparator(next), isBareLabel(next), isNumbered(next), hasTextLabel(next):
		return false
	case hasTranslationLabel(next):
		return true
	default:
		return afterNumbered
	}
}

// extractNumbered 取每个编号标记到下一个编号标记（或文本末尾）之间的内容
// 行首编号优先；整段没有行首编号时才按行内编号切分，避免 "perfect 10. Sobra" 被拆开
func extractNumbered(text string, count int) []Item {
	locs := numberedHeadRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		locs = numberedSegRe.FindAllStringIndex(text, -1)
	}
	var items []Item
	for i, loc := range locs {
		if len(items) >= count {
			break
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if seg := cleanText(collapseSpaces(text[loc[1]:end])); seg != "" {
			items = append(items, Item{Text: seg})
		}
	}
	return items
}

// extractLines 按单个换行切分
func extractLines(text string, count int) []Item {
	return textItems(strings.Split(text, "\n"), count)
}

// extractParagraphs 按空行切分
// 每段至少含一个非空行，只有逐行清洗后全被丢弃、合并后却非空的段落才会让它多于 extractLines
func extractParagraphs(text string, count int) []Item {
	return textItems(blankLineRe.Split(text, -1), count)
}

func textItems(parts []string, count int) []Item {
	var items []Item
	for _, part := range parts {
		if len(items) >= count {
			break
		}
		part = collapseSpaces(part)
		if part == "" || isSeparator(part) || isBareLabel(part) {
			continue
		}
		if t := cleanText(part); t != "" {
			items = append(items, Item{Text: t})
		}
	}
	return items
}

// extractPartition 把长文本等分成 count 段，每段在第一个句末标点处截断
func extractPartition(text string, count int) []Item {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= count*partitionMinCharsPerItem {
		return nil
	}

	size := len(runes) / count
	var items []Item
	for i := 0; i < count; i++ {
		start, end := i*size, (i+1)*size
		if i == count-1 {
			end = len(runes)
		}
		slice := runes[start:end]
		if idx := sentenceEnd(slice); idx >= 0 && idx < len(slice)-1 {
			slice = slice[:idx+1]
		}
		if t := cleanText(collapseSpaces(string(slice))); t != "" {
			items = append(items, Item{Text: t})
		}
	}
	return items
}

func sentenceEnd(rs []rune) int {
	for i, r := range rs {
		switch r {
		case '.', '!', '?':
			return i
		}
	}
	return -1
}

func collapseSpaces(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
