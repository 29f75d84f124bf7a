package services

import (
	"github.com/google/uuid"

	"github.com/vnkhanh/mermurs-backend/models"
)

// BuildChains dựng lại các chain để phát lại lúc review.
// Mỗi chain bắt đầu từ 1 phrase gốc (original_phrase_id = null) và đi xuôi
// theo phrase con (phrase có original_phrase_id trỏ về nó) đến khi hết.
// Input phải được sắp theo created_at tăng dần: nếu 1 phrase có nhiều con
// (không đúng invariant 1 người nhận / 1 recording) thì lấy con tạo sớm nhất.
func BuildChains(phrases []models.Phrase) [][]models.Phrase {
	childOf := make(map[uuid.UUID]*models.Phrase, len(phrases))
	for i := range phrases {
		p := &phrases[i]
		if p.OriginalPhraseID == nil {
			continue
		}
		if _, exists := childOf[*p.OriginalPhraseID]; !exists {
			childOf[*p.OriginalPhraseID] = p
		}
	}

	chains := make([][]models.Phrase, 0)
	for i := range phrases {
		root := &phrases[i]
		if root.OriginalPhraseID != nil {
			continue
		}

		chain := []models.Phrase{*root}
		current := root
		// Chặn vòng lặp: 1 chain không thể dài hơn tổng số phrase
		for steps := 0; steps < len(phrases); steps++ {
			next, ok := childOf[current.ID]
			if !ok {
				break
			}
			chain = append(chain, *next)
			current = next
		}
		chains = append(chains, chain)
	}

	return chains
}
