package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
)

// CallTranscribeAPI gửi audio của người chơi cho dịch vụ transcribe ngoài
// (nhận cặp ngôn ngữ nguồn/đích) và trả về text đã phiên dịch.
func CallTranscribeAPI(ctx context.Context, audioURL, oldLang, newLang string) (string, error) {
	baseURL := os.Getenv("TRANSCRIBE_API_URL")
	if baseURL == "" {
		return "", fmt.Errorf("TRANSCRIBE_API_URL chưa cấu hình")
	}

	// Tải audio từ storage
	dlReq, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return "", err
	}
	dlResp, err := http.DefaultClient.Do(dlReq)
	if err != nil {
		return "", fmt.Errorf("lỗi tải audio: %v", err)
	}
	defer dlResp.Body.Close()
	if dlResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tải audio lỗi %d", dlResp.StatusCode)
	}

	// Đóng gói multipart: file + cặp ngôn ngữ
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, dlResp.Body); err != nil {
		return "", err
	}
	if err := writer.WriteField("old_lang", oldLang); err != nil {
		return "", err
	}
	if err := writer.WriteField("new_lang", newLang); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lỗi gọi transcribe: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcribe lỗi %d: %s", resp.StatusCode, string(body))
	}

	var data struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("lỗi đọc JSON từ transcribe: %v", err)
	}
	if data.Text == "" {
		return "", fmt.Errorf("transcribe không trả về text")
	}

	return data.Text, nil
}
