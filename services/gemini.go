package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Hàm gọn để xử lý prompt và trả kết quả từ Gemini
func GeminiGenerateText(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
	if err != nil {
		return "", fmt.Errorf("không thể tạo Gemini client: %v", err)
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("lỗi Gemini xử lý: %v", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini không trả kết quả hợp lệ")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// parse JSON dạng {"output": "..."} từ Gemini, bỏ ```json fence nếu có
func parseGeminiOutput(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var parsed struct {
		Output string `json:"output"`
	}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return "", fmt.Errorf("không parse được JSON từ Gemini: %v", err)
	}
	if parsed.Output == "" {
		return "", fmt.Errorf("gemini trả output rỗng")
	}
	return parsed.Output, nil
}

// GeminiPronunciationAssist trả bản phiên âm (pinyin / romanized Tamil)
// cho phrase tiếng Trung hoặc Tamil.
func GeminiPronunciationAssist(ctx context.Context, input string) (string, error) {
	prompt := fmt.Sprintf(`
You are a multilingual pronunciation assistant.

Given a sentence or phrase, detect whether the language is Chinese or Tamil.

If it's Chinese, return the Hanyu Pinyin without tone marks.

If it's Tamil, return the Romanized version of the Tamil pronunciation (standard transliteration, not a translation).

Do not translate the phrase. Only convert it to its phonetic pronunciation.

Return the result in this exact JSON format:
{ "output": "<converted pronunciation>" }

Input: "%s"
`, input)

	raw, err := GeminiGenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	return parseGeminiOutput(raw)
}

// GeminiTranslateToEnglish dịch phrase sang tiếng Anh (hiện dưới phần phát lại).
func GeminiTranslateToEnglish(ctx context.Context, input string) (string, error) {
	prompt := fmt.Sprintf(`
You are a translation assistant.

Translate the following sentence to English. Only return the translation, no explanation or formatting.

Return it in this exact JSON format:
{ "output": "<translated English sentence>" }

Input: "%s"
`, input)

	raw, err := GeminiGenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	return parseGeminiOutput(raw)
}
