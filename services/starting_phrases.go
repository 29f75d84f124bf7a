package services

import (
	"fmt"
	"os"
)

// StartingPhrase là 1 câu mở đầu trong ngân hàng seed của round 1,
// kèm audio đã synthesize sẵn trong bucket Supabase.
type StartingPhrase struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

var startingPhraseFiles = []struct {
	text string
	file string
}{
	{"Wah lao eh, today weather hot until can fry egg on pavement sia.", "0482a660-4680-4995-80e6-b0f28d377918.mp3"},
	{"You faster than CNA update — 1 minute the news already spread liao.", "777bc533-6b4b-4120-a1dc-f6cec0e173eb.mp3"},
	{"You not kaypoh la, just very community-focused hor!", "2a30f281-7200-4cd5-babf-08e1b7977377.mp3"},
	{"Walao, this kopi peng got more ice than Marina Bay.", "ecf109d0-4479-4c51-9d46-f6fb624a5a99.mp3"},
	{"Wah lao eh, MRT again spoil ah? I late again confirm kena lecture one.", "mrt.mp3"},
	{"You blur like sotong sia, even Google also cannot help you already.", "google.mp3"},
	{"Aiyo, my exam just now really jialat sia, like write until hallucinate already.", "exam.mp3"},
	{"He walk so fast, I think he training for MRT Olympics.", "olympics.mp3"},
	{"Last time you think I blur blur, now I pong three times straight. Don't play play ah!", "playplay.mp3"},
	{"He spill kopi on boss' laptop, then next week become team lead. Liddat also can ah?", "liddat.mp3"},
	{"Yesterday she say she single, today she post 'date night' on Insta. Wah, her pattern more than badminton sia.", "badminton.mp3"},
	{"I see your Insta got A&W, massage, bak kut teh. Eh hello, bo jio!", "bojio.mp3"},
	{"Wah, you tell me you good at DIY. I thought you more zai than that! Now the shelf fall down liao.", "zai.mp3"},
}

// StartingPhraseBank trả về ngân hàng seed với URL public theo SUPABASE_URL.
func StartingPhraseBank() []StartingPhrase {
	base := os.Getenv("SUPABASE_URL")
	bank := make([]StartingPhrase, 0, len(startingPhraseFiles))
	for _, s := range startingPhraseFiles {
		bank = append(bank, StartingPhrase{
			Text:  s.text,
			Audio: fmt.Sprintf("%s/storage/v1/object/public/syai-mermurs/%s", base, s.file),
		})
	}
	return bank
}
