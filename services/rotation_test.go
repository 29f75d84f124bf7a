package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/vnkhanh/mermurs-backend/models"
)

func makeRing(n int) []RingMember {
	ring := make([]RingMember, n)
	for i := range ring {
		ring[i] = RingMember{ID: uuid.New(), Name: fmt.Sprintf("player-%d", i)}
	}
	return ring
}

func TestNextRecipient_OneStepForward(t *testing.T) {
	ring := makeRing(4)
	for i, speaker := range ring {
		recipient, ok := NextRecipient(ring, speaker.ID)
		if !ok {
			t.Fatalf("speaker %d should be found in ring", i)
		}
		want := ring[(i+1)%4]
		if recipient.ID != want.ID {
			t.Fatalf("speaker %d: expected recipient %s, got %s", i, want.Name, recipient.Name)
		}
		if recipient.ID == speaker.ID {
			t.Fatalf("speaker %d: recipient must not be the speaker", i)
		}
	}
}

func TestNextRecipient_TwoPlayers(t *testing.T) {
	ring := makeRing(2)
	r0, ok := NextRecipient(ring, ring[0].ID)
	if !ok || r0.ID != ring[1].ID {
		t.Fatal("player 0's phrase should go to player 1")
	}
	r1, ok := NextRecipient(ring, ring[1].ID)
	if !ok || r1.ID != ring[0].ID {
		t.Fatal("player 1's phrase should go to player 0")
	}
}

func TestNextRecipient_SpeakerLeft(t *testing.T) {
	ring := makeRing(3)
	if _, ok := NextRecipient(ring, uuid.New()); ok {
		t.Fatal("unknown speaker should not resolve to a recipient")
	}
}

func TestNextLanguage_FirstRound(t *testing.T) {
	for _, prev := range []string{"", "chinese", "malay", "tamil"} {
		if got := NextLanguage(1, false, prev); got != BaseLanguage {
			t.Fatalf("round 1 with prev=%q: expected %s, got %s", prev, BaseLanguage, got)
		}
	}
}

func TestNextLanguage_FinalRound(t *testing.T) {
	for round := 2; round <= 6; round++ {
		for _, prev := range []string{"chinese", "malay", "tamil"} {
			if got := NextLanguage(round, true, prev); got != BaseLanguage {
				t.Fatalf("final round %d with prev=%q: expected %s, got %s", round, prev, BaseLanguage, got)
			}
		}
	}
}

func TestNextLanguage_NeverRepeatsPrevious(t *testing.T) {
	valid := map[string]bool{}
	for _, lang := range RotationLanguages {
		valid[lang] = true
	}
	for _, prev := range RotationLanguages {
		for i := 0; i < 200; i++ {
			got := NextLanguage(2, false, prev)
			if got == prev {
				t.Fatalf("language %q repeated in consecutive rounds", prev)
			}
			if !valid[got] {
				t.Fatalf("unexpected language %q", got)
			}
		}
	}
}

func makeRecordings(ring []RingMember, roundID uuid.UUID) []models.Recording {
	recs := make([]models.Recording, len(ring))
	for i, m := range ring {
		recs[i] = models.Recording{
			ID:        uuid.New(),
			RoundID:   roundID,
			PlayerID:  m.ID,
			PhraseID:  uuid.New(),
			AudioPath: fmt.Sprintf("https://storage.example/%d.wav", i),
			Status:    "completed",
		}
	}
	return recs
}

func TestBuildNextRoundPhrases_FullRotation(t *testing.T) {
	ring := makeRing(4)
	lobbyID := uuid.New()
	oldRoundID := uuid.New()
	newRoundID := uuid.New()
	recordings := makeRecordings(ring, oldRoundID)

	result := BuildNextRoundPhrases(
		context.Background(), lobbyID, newRoundID, 2, "chinese",
		recordings, ring,
		func(ctx context.Context, rec models.Recording) (ProcessedPhrase, error) {
			return ProcessedPhrase{
				Text:     "text for " + rec.ID.String(),
				AudioURL: "https://storage.example/out.mp3",
			}, nil
		},
	)

	if result.Dropped != 0 {
		t.Fatalf("expected 0 dropped, got %d", result.Dropped)
	}
	if len(result.Phrases) != 4 {
		t.Fatalf("expected 4 phrases, got %d", len(result.Phrases))
	}

	// Mỗi người nhận đúng phrase bắt nguồn từ người ngồi ngay trước trong ring
	byPlayer := map[uuid.UUID]models.Phrase{}
	for _, p := range result.Phrases {
		if _, dup := byPlayer[p.PlayerID]; dup {
			t.Fatalf("player %s received two phrases", p.PlayerID)
		}
		byPlayer[p.PlayerID] = p
	}
	for i, speaker := range ring {
		recipient := ring[(i+1)%len(ring)]
		p, ok := byPlayer[recipient.ID]
		if !ok {
			t.Fatalf("recipient %s got no phrase", recipient.Name)
		}
		if p.OriginalPhraseID == nil || *p.OriginalPhraseID != recordings[i].PhraseID {
			t.Fatalf("phrase of %s should backlink to phrase spoken by %s", recipient.Name, speaker.Name)
		}
		if p.RoundNumber != 2 || p.RoundID != newRoundID || p.Language != "chinese" {
			t.Fatalf("phrase metadata wrong: %+v", p)
		}
	}
}

func TestBuildNextRoundPhrases_PartialFailure(t *testing.T) {
	ring := makeRing(3)
	recordings := makeRecordings(ring, uuid.New())
	failing := recordings[1].ID

	result := BuildNextRoundPhrases(
		context.Background(), uuid.New(), uuid.New(), 3, "malay",
		recordings, ring,
		func(ctx context.Context, rec models.Recording) (ProcessedPhrase, error) {
			if rec.ID == failing {
				return ProcessedPhrase{}, errors.New("transcribe unavailable")
			}
			return ProcessedPhrase{Text: "ok"}, nil
		},
	)

	if result.Dropped != 1 {
		t.Fatalf("expected 1 dropped, got %d", result.Dropped)
	}
	if len(result.Phrases) != 2 {
		t.Fatalf("expected 2 phrases, got %d", len(result.Phrases))
	}

	// Người nhận của recording lỗi (người sau ring[1]) không có phrase
	unlucky := ring[2].ID
	for _, p := range result.Phrases {
		if p.PlayerID == unlucky {
			t.Fatalf("recipient of the failed recording should receive nothing")
		}
	}
}

func TestBuildNextRoundPhrases_SpeakerNoLongerPresent(t *testing.T) {
	ring := makeRing(3)
	recordings := makeRecordings(ring, uuid.New())
	// Người nói của recording 0 rời lobby trước khi advance
	shrunk := ring[1:]

	calls := 0
	result := BuildNextRoundPhrases(
		context.Background(), uuid.New(), uuid.New(), 2, "tamil",
		recordings, shrunk,
		func(ctx context.Context, rec models.Recording) (ProcessedPhrase, error) {
			calls++
			return ProcessedPhrase{Text: "ok"}, nil
		},
	)

	if result.Dropped != 1 {
		t.Fatalf("expected 1 dropped, got %d", result.Dropped)
	}
	if len(result.Phrases) != 2 {
		t.Fatalf("expected 2 phrases, got %d", len(result.Phrases))
	}
}

func TestBuildSeedPhrases(t *testing.T) {
	ring := makeRing(4)
	lobbyID := uuid.New()
	roundID := uuid.New()

	bank := []StartingPhrase{
		{Text: "a", Audio: "a.mp3"},
		{Text: "b", Audio: "b.mp3"},
		{Text: "c", Audio: "c.mp3"},
		{Text: "d", Audio: "d.mp3"},
		{Text: "e", Audio: "e.mp3"},
	}

	phrases := BuildSeedPhrases(lobbyID, roundID, ring, bank)
	if len(phrases) != 4 {
		t.Fatalf("expected 4 seed phrases, got %d", len(phrases))
	}

	seen := map[string]bool{}
	for i, p := range phrases {
		if p.PlayerID != ring[i].ID {
			t.Fatalf("seed phrase %d assigned to wrong player", i)
		}
		if p.OriginalPhraseID != nil {
			t.Fatal("seed phrase must not have a backlink")
		}
		if p.RoundNumber != 1 || p.Language != BaseLanguage {
			t.Fatalf("seed phrase metadata wrong: %+v", p)
		}
		if seen[p.Text] {
			t.Fatalf("seed phrase %q assigned twice with enough bank entries", p.Text)
		}
		seen[p.Text] = true
	}
}

func TestBuildSeedPhrases_BankSmallerThanRing(t *testing.T) {
	ring := makeRing(3)
	bank := []StartingPhrase{{Text: "only", Audio: "only.mp3"}}

	phrases := BuildSeedPhrases(uuid.New(), uuid.New(), ring, bank)
	if len(phrases) != 3 {
		t.Fatalf("every player should still get a phrase, got %d", len(phrases))
	}
}
