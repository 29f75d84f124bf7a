package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vnkhanh/mermurs-backend/models"
)

// makeLineage tạo 1 chain dài n phrase, phần tử đầu là gốc (không backlink).
func makeLineage(n int, start time.Time) []models.Phrase {
	phrases := make([]models.Phrase, n)
	for i := range phrases {
		phrases[i] = models.Phrase{
			ID:          uuid.New(),
			RoundNumber: i + 1,
			PlayerID:    uuid.New(),
			Text:        uuid.NewString(),
			CreatedAt:   start.Add(time.Duration(i) * time.Minute),
		}
		if i > 0 {
			prev := phrases[i-1].ID
			phrases[i].OriginalPhraseID = &prev
		}
	}
	return phrases
}

// interleaveByRound trộn nhiều lineage theo round (thứ tự created_at như DB trả về)
func interleaveByRound(lineages ...[]models.Phrase) []models.Phrase {
	var out []models.Phrase
	for round := 0; ; round++ {
		added := false
		for _, l := range lineages {
			if round < len(l) {
				out = append(out, l[round])
				added = true
			}
		}
		if !added {
			return out
		}
	}
}

func TestBuildChains_TwoLineages(t *testing.T) {
	now := time.Now()
	a := makeLineage(3, now)
	b := makeLineage(2, now.Add(time.Second))
	phrases := interleaveByRound(a, b)

	chains := BuildChains(phrases)
	if len(chains) != 2 {
		t.Fatalf("expected 2 chains, got %d", len(chains))
	}
	if len(chains[0]) != 3 || len(chains[1]) != 2 {
		t.Fatalf("expected chain lengths 3 and 2, got %d and %d", len(chains[0]), len(chains[1]))
	}

	// Mỗi chain phải theo đúng thứ tự round và backlink liền mạch
	for _, chain := range chains {
		if chain[0].OriginalPhraseID != nil {
			t.Fatal("chain must start at a root phrase")
		}
		for i := 1; i < len(chain); i++ {
			if chain[i].RoundNumber != chain[i-1].RoundNumber+1 {
				t.Fatalf("chain out of round order at step %d", i)
			}
			if chain[i].OriginalPhraseID == nil || *chain[i].OriginalPhraseID != chain[i-1].ID {
				t.Fatalf("broken backlink at step %d", i)
			}
		}
	}
}

func TestBuildChains_PartitionProperty(t *testing.T) {
	now := time.Now()
	phrases := interleaveByRound(makeLineage(4, now), makeLineage(4, now), makeLineage(2, now))

	chains := BuildChains(phrases)
	total := 0
	seen := map[uuid.UUID]bool{}
	for _, chain := range chains {
		for _, p := range chain {
			if seen[p.ID] {
				t.Fatalf("phrase %s appears in two chains", p.ID)
			}
			seen[p.ID] = true
			total++
		}
	}
	if total != len(phrases) {
		t.Fatalf("expected every phrase in exactly one chain: %d != %d", total, len(phrases))
	}
}

func TestBuildChains_Idempotent(t *testing.T) {
	phrases := interleaveByRound(makeLineage(3, time.Now()), makeLineage(3, time.Now()))

	first := BuildChains(phrases)
	second := BuildChains(phrases)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("BuildChains should return identical chains for unchanged input")
	}
}

func TestBuildChains_Empty(t *testing.T) {
	chains := BuildChains(nil)
	if len(chains) != 0 {
		t.Fatalf("empty phrase set should give empty chain list, got %d", len(chains))
	}
}

func TestBuildChains_DuplicateSuccessorIsDeterministic(t *testing.T) {
	root := models.Phrase{ID: uuid.New(), RoundNumber: 1, CreatedAt: time.Now()}
	rootID := root.ID
	early := models.Phrase{ID: uuid.New(), RoundNumber: 2, OriginalPhraseID: &rootID, CreatedAt: time.Now().Add(time.Second)}
	late := models.Phrase{ID: uuid.New(), RoundNumber: 2, OriginalPhraseID: &rootID, CreatedAt: time.Now().Add(2 * time.Second)}

	// Input sắp theo created_at: con tạo sớm hơn phải thắng
	chains := BuildChains([]models.Phrase{root, early, late})
	if len(chains) != 1 {
		t.Fatalf("expected 1 chain, got %d", len(chains))
	}
	if len(chains[0]) != 2 {
		t.Fatalf("duplicate successor must not branch, got chain length %d", len(chains[0]))
	}
	if chains[0][1].ID != early.ID {
		t.Fatal("expected the earliest-created successor to be chosen")
	}
}

func TestBuildChains_MalformedCycleTerminates(t *testing.T) {
	// Dữ liệu hỏng: id trùng tạo vòng lặp trong child map, walk vẫn phải dừng
	rootID := uuid.New()
	xID := uuid.New()
	yID := uuid.New()

	root := models.Phrase{ID: rootID, RoundNumber: 1}
	x := models.Phrase{ID: xID, RoundNumber: 2, OriginalPhraseID: &rootID}
	y := models.Phrase{ID: yID, RoundNumber: 3, OriginalPhraseID: &xID}
	loop := models.Phrase{ID: xID, RoundNumber: 4, OriginalPhraseID: &yID}

	phrases := []models.Phrase{root, x, y, loop}
	chains := BuildChains(phrases)
	if len(chains) != 1 {
		t.Fatalf("expected 1 chain, got %d", len(chains))
	}
	if len(chains[0]) > len(phrases)+1 {
		t.Fatalf("cycle guard failed, chain length %d", len(chains[0]))
	}
}
