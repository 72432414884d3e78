package rag

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// contextualizePrompt 引导模型将追问改写为独立问题
const contextualizePrompt = `Given a chat history and the latest user question ` +
	`which might reference context in the chat history, formulate a standalone question ` +
	`which can be understood without the chat history. Do NOT answer the question, ` +
	`just reformulate it if needed and otherwise return it as is.`

// answerPromptTemplate 回答生成的系统提示词，%s处填入检索到的上下文
const answerPromptTemplate = `You are a smart assistant designed and trained by Dr. Ghaleb Al-Shammari.
If the user asks about your identity or who you are, respond exactly with: "` + IdentityAnswer + `".

For all other questions, use the following pieces of context to answer the question at the end.
If the answer is not in the context, say that you do not know, do NOT try to make up an answer.

Context:
%s`

// IdentityAnswer 身份问题的固定回答
const IdentityAnswer = "انا مساعدك الذكي تم تصميمي وتدريبي بواسطة د. غالب الشمري"

// identityTriggers 触发身份回答的问题模式
var identityTriggers = []string{
	"who are you",
	"who made you",
	"who created you",
	"who designed you",
	"who trained you",
	"من انت",
	"من أنت",
	"من صممك",
	"من دربك",
	"من صنعك",
}

// isIdentityQuestion 判断问题是否在询问助手身份
func isIdentityQuestion(question string) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, trigger := range identityTriggers {
		if containsPhrase(q, trigger) {
			return true
		}
	}
	return false
}

// containsPhrase 判断文本中是否出现完整短语
// 短语两侧必须是词边界，避免"who made you"匹配到"who made your product"
func containsPhrase(text, phrase string) bool {
	for offset := 0; ; {
		i := strings.Index(text[offset:], phrase)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(phrase)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		offset = start + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
