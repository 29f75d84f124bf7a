package services

import (
	"context"
	"errors"
	"os"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

type ttsVoice struct {
	LanguageCode string
	Name         string
	SpeakingRate float64
}

// Giọng đọc theo ngôn ngữ của round. Tiếng Trung/Tamil đọc chậm lại một chút
// cho người chơi không rành còn bắt chước kịp.
var ttsVoices = map[string]ttsVoice{
	"english": {"en-US", "en-US-Chirp3-HD-Puck", 1.0},
	"chinese": {"cmn-CN", "cmn-CN-Wavenet-A", 0.9},
	"malay":   {"ms-MY", "ms-MY-Wavenet-A", 1.0},
	"tamil":   {"ta-IN", "ta-IN-Wavenet-A", 0.9},
}

// SynthesizeText chuyển text thành audio MP3 []byte theo ngôn ngữ đích.
func SynthesizeText(ctx context.Context, text string, language string) ([]byte, error) {
	if len(text) == 0 {
		return nil, errors.New("text is empty")
	}

	voice, ok := ttsVoices[language]
	if !ok {
		voice = ttsVoices[BaseLanguage]
	}

	credPath := os.Getenv("GOOGLE_CREDENTIALS_JSON")
	if credPath == "" {
		return nil, errors.New("GOOGLE_CREDENTIALS_JSON environment variable is not set")
	}

	client, err := texttospeech.NewClient(ctx, option.WithCredentialsFile(credPath))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{
				Text: text,
			},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: voice.LanguageCode,
			Name:         voice.Name,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  voice.SpeakingRate,
		},
	}

	resp, err := client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, err
	}

	return resp.AudioContent, nil
}
