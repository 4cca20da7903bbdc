package answer

import (
	"fmt"
	"strings"

	"github.com/shoplite/storeassist/internal/domain/language"
	domret "github.com/shoplite/storeassist/internal/domain/retrieval"
)

const (
	systemPromptEN = "You are a helpful retail assistant. Think internally but output only the final answer. " +
		"If context is insufficient, first ask ONE concise clarifying question, then propose up to 3 next actions."
	systemPromptAR = "أنت مساعد متجر ذكي. فكّر داخلياً وقدّم الإجابة النهائية فقط. " +
		"إذا كان السياق غير كافٍ، اطرح سؤالاً توضيحياً واحداً ثم اقترح حتى 3 خطوات عملية."

	insufficientReplyEN = "Insufficient context. Could you specify more precisely?"
	insufficientReplyAR = "المعلومة غير كافية. هل يمكنك التحديد أكثر؟"

	unavailableReply = "Model unavailable."
)

// systemPrompt returns the assistant persona for the detected language.
func systemPrompt(lang language.Tag) string {
	if lang == language.Arabic {
		return systemPromptAR
	}
	return systemPromptEN
}

// insufficientReply returns the canned no-context reply for the language.
func insufficientReply(lang language.Tag) string {
	if lang == language.Arabic {
		return insufficientReplyAR
	}
	return insufficientReplyEN
}

// buildPrompt renders retrieved hits as a context block followed by the
// question. One line per document: "- [id] title: content".
func buildPrompt(hits []domret.Hit, question string, lang language.Tag) string {
	var b strings.Builder
	for _, h := range hits {
		doc := h.Document()
		fmt.Fprintf(&b, "- [%s] %s: %s\n", doc.ID(), doc.Title(), doc.ContentFor(lang))
	}
	fmt.Fprintf(&b, "\nQuestion: %s\nAnswer:", question)
	return b.String()
}
