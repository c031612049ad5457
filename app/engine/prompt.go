package engine

import (
	"fmt"
	"strings"

	"GoPolicyRAG/app/retrieval"
	"GoPolicyRAG/app/utils"
)

const (
	promptHeader = "你是一个专业的政府采购和PPP项目顾问，请基于以下提供的参考文档，回答用户的问题。\n\n"
	promptFooter = "请基于提供的参考文档内容回答用户问题。如果参考文档中没有足够信息回答问题，请明确说明。" +
		"回答应当专业、准确、简洁，并尽可能引用政策法规依据。"

	unknownTitle  = "未知文档"
	unknownSource = "未知来源"
)

// BuildPrompt renders the generation request: role instruction, one numbered
// section per passage, the question, and the grounding instruction. Pure
// function of its inputs; passages are emitted verbatim in retrieval order,
// never reordered, deduplicated or summarized.
func BuildPrompt(query string, passages []retrieval.Passage) string {
	var b strings.Builder
	b.WriteString(promptHeader)

	for i, p := range passages {
		title := p.Title
		if title == "" {
			title = unknownTitle
		}
		source := utils.SourceBasename(p.SourcePath)
		if source == "" {
			source = unknownSource
		}

		fmt.Fprintf(&b, "参考文档[%d]: %s\n", i+1, title)
		fmt.Fprintf(&b, "来源: %s\n", source)
		fmt.Fprintf(&b, "内容:\n%s\n\n", p.Content)
	}

	fmt.Fprintf(&b, "用户问题: %s\n\n", query)
	b.WriteString(promptFooter)
	return b.String()
}
