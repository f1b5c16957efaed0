package trade

import (
	"errors"
	"testing"

	"github.com/talgya/dynasty-gm/internal/league"
)

func balanced() league.Archetype {
	return league.Archetype{
		Name: "Balanced", CapDiscipline: 0.5, WinNowUrgency: 0.5, RiskTolerance: 0.5,
		DraftPickAffinity: 0.5, StarChasing: 0.5, VeteranPreference: 0.5, PremiumPositionFocus: 0.5,
	}
}

// unevenProposal: AUS sends 300, BKN sends 200. AUS perceives 0.667.
func unevenProposal() *Proposal {
	return NewProposal("AUS", "BKN",
		[]Asset{{Kind: KindPlayer, PlayerID: 1, Name: "A", Value: 300, ToTeam: "BKN"}},
		[]Asset{{Kind: KindPlayer, PlayerID: 2, Name: "B", Value: 200, ToTeam: "AUS"}},
	)
}

func TestGenerateCounter_InvalidInput(t *testing.T) {
	empty := NewProposal("AUS", "BKN", nil, nil)
	_, _, err := GenerateCounter(CounterInput{Proposal: empty, ByTeam: "AUS", PerceivedRatio: 0.6})
	if !errors.Is(err, ErrInvalidProposal) {
		t.Fatalf("zero-total proposal: err=%v want ErrInvalidProposal", err)
	}

	_, _, err = GenerateCounter(CounterInput{Proposal: unevenProposal(), ByTeam: "AUS"})
	if !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("missing perceived ratio: err=%v want ErrInvalidDecision", err)
	}

	_, _, err = GenerateCounter(CounterInput{Proposal: unevenProposal(), ByTeam: "CHI", PerceivedRatio: 0.6})
	if !errors.Is(err, ErrNotParty) {
		t.Fatalf("outside evaluator: err=%v want ErrNotParty", err)
	}
}

func TestGenerateCounter_EmptyPoolIsImpasse(t *testing.T) {
	_, imp, err := GenerateCounter(CounterInput{
		Proposal:       unevenProposal(),
		ByTeam:         "AUS",
		PerceivedRatio: 0.667,
		BandMin:        0.9,
		BandMax:        1.1,
		Acquirer:       "AUS",
		Pool:           nil,
		Archetype:      balanced(),
	})
	if err != nil {
		t.Fatalf("empty pool must not error: %v", err)
	}
	if imp == nil || imp.Reason != ImpassePoolTooThin {
		t.Fatalf("imp=%v want pool_too_thin", imp)
	}
}

func TestGenerateCounter_BridgesGap(t *testing.T) {
	pool := []Asset{
		{Kind: KindPlayer, PlayerID: 3, Name: "C", Position: league.WR, Overall: 74, Age: 26, Value: 80},
	}
	counter, imp, err := GenerateCounter(CounterInput{
		Proposal:       unevenProposal(),
		ByTeam:         "AUS",
		PerceivedRatio: 0.667,
		BandMin:        0.9,
		BandMax:        1.1,
		Acquirer:       "AUS",
		Pool:           pool,
		Archetype:      balanced(),
	})
	if err != nil || imp != nil {
		t.Fatalf("err=%v imp=%v want a counter", err, imp)
	}
	if counter.TotalB != 280 {
		t.Fatalf("TotalB=%v want 280", counter.TotalB)
	}
	if counter.Fairness != Fair && counter.Fairness != VeryFair {
		t.Fatalf("counter fairness=%s want acceptable", counter.Fairness)
	}
	// The added asset lands on the acquirer's incoming side.
	if got := counter.Receives("AUS"); len(got) != 2 || got[1].ToTeam != league.TeamID("AUS") {
		t.Fatalf("added asset misrouted: %+v", got)
	}
	// The original proposal is untouched.
	if len(unevenProposal().AssetsFromB) != 1 {
		t.Fatal("prior proposal mutated")
	}
}

func TestGenerateCounter_DuplicateOfferGuard(t *testing.T) {
	pool := []Asset{
		{Kind: KindPlayer, PlayerID: 3, Name: "C", Position: league.WR, Overall: 74, Age: 26, Value: 80},
	}
	in := CounterInput{
		Proposal:       unevenProposal(),
		ByTeam:         "AUS",
		PerceivedRatio: 0.667,
		BandMin:        0.9,
		BandMax:        1.1,
		Acquirer:       "AUS",
		Pool:           pool,
		Archetype:      balanced(),
	}
	first, _, err := GenerateCounter(in)
	if err != nil || first == nil {
		t.Fatalf("first counter failed: %v", err)
	}

	in.History = []*Proposal{first}
	_, imp, err := GenerateCounter(in)
	if err != nil {
		t.Fatalf("duplicate must not error: %v", err)
	}
	if imp == nil || imp.Reason != ImpasseDuplicateOffer {
		t.Fatalf("imp=%v want duplicate_offer", imp)
	}
}

func TestGenerateCounter_GapTooLarge(t *testing.T) {
	// AUS sends 1000 for 100: reaching the band needs ~830, far beyond
	// three times the light side.
	p := NewProposal("AUS", "BKN",
		[]Asset{{Kind: KindPlayer, PlayerID: 1, Name: "A", Value: 1000, ToTeam: "BKN"}},
		[]Asset{{Kind: KindPlayer, PlayerID: 2, Name: "B", Value: 100, ToTeam: "AUS"}},
	)
	_, imp, err := GenerateCounter(CounterInput{
		Proposal:       p,
		ByTeam:         "AUS",
		PerceivedRatio: 0.1,
		BandMin:        0.9,
		BandMax:        1.1,
		Acquirer:       "AUS",
		Pool:           []Asset{{Kind: KindPlayer, PlayerID: 3, Name: "C", Age: 26, Value: 900}},
		Archetype:      balanced(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if imp == nil || imp.Reason != ImpasseGapTooLarge {
		t.Fatalf("imp=%v want gap_too_large", imp)
	}
}

func TestGenerateCounter_CapOverrun(t *testing.T) {
	pool := []Asset{
		{Kind: KindPlayer, PlayerID: 3, Name: "C", Position: league.WR, Overall: 74, Age: 26, CapHit: 14, Value: 80},
	}
	_, imp, err := GenerateCounter(CounterInput{
		Proposal:       unevenProposal(),
		ByTeam:         "AUS",
		PerceivedRatio: 0.667,
		BandMin:        0.9,
		BandMax:        1.1,
		Acquirer:       "AUS",
		Pool:           pool,
		Archetype:      balanced(),
		Context:        &league.TeamContext{Team: "AUS", CapSpace: 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if imp == nil || imp.Reason != ImpasseCapOverrun {
		t.Fatalf("imp=%v want cap_overrun", imp)
	}
}

func TestFilterPool_PersonalityConstraints(t *testing.T) {
	pool := []Asset{
		{Kind: KindPlayer, PlayerID: 1, Name: "Pricey", Age: 27, CapHit: 22, Value: 200},
		{Kind: KindPlayer, PlayerID: 2, Name: "Rookie", Age: 22, CapHit: 2, Value: 90},
		{Kind: KindPlayer, PlayerID: 3, Name: "Prime", Age: 28, CapHit: 8, Value: 150},
		{Kind: KindPick, Pick: &league.DraftPick{Year: 2026, Round: 1, OriginalTeam: "X"}, Value: 120},
	}

	capStrict := balanced()
	capStrict.CapDiscipline = 0.9
	got := filterPool(pool, capStrict)
	if len(got) != 3 || containsPlayer(got, 1) {
		t.Fatalf("cap-disciplined GM kept the pricey contract: %+v", got)
	}

	winNow := balanced()
	winNow.WinNowUrgency = 0.9
	got = filterPool(pool, winNow)
	if containsPlayer(got, 2) {
		t.Fatal("win-now GM should skip the 22-year-old")
	}
	if !containsPick(got) {
		t.Fatal("age filters must not drop picks")
	}

	riskAverse := balanced()
	riskAverse.RiskTolerance = 0.1
	got = filterPool(pool, riskAverse)
	if containsPlayer(got, 2) {
		t.Fatal("risk-averse GM should skip players under 25")
	}
}

func TestPreferenceScore_Biases(t *testing.T) {
	pickAsset := &Asset{Kind: KindPick, Pick: &league.DraftPick{Year: 2026, Round: 1, OriginalTeam: "X"}, Value: 100}
	star := &Asset{Kind: KindPlayer, PlayerID: 1, Overall: 90, Age: 27, Position: league.WR, Value: 100}

	hoarder := balanced()
	hoarder.DraftPickAffinity = 0.9
	if got := preferenceScore(pickAsset, hoarder, nil); got != 200 {
		t.Fatalf("pick hoarder score=%v want 200", got)
	}

	dealer := balanced()
	dealer.DraftPickAffinity = 0.1
	if got := preferenceScore(pickAsset, dealer, nil); got != 50 {
		t.Fatalf("pick dealer score=%v want 50", got)
	}

	chaser := balanced()
	chaser.StarChasing = 0.9
	if got := preferenceScore(star, chaser, nil); got != 150 {
		t.Fatalf("star chaser score=%v want 150", got)
	}

	ctx := &league.TeamContext{Needs: map[league.Position]league.NeedLevel{league.WR: league.NeedCritical}}
	if got := preferenceScore(star, balanced(), ctx); got != 130 {
		t.Fatalf("need boost score=%v want 130", got)
	}
}

func containsPlayer(assets []Asset, id uint64) bool {
	for i := range assets {
		if assets[i].Kind == KindPlayer && assets[i].PlayerID == id {
			return true
		}
	}
	return false
}

func containsPick(assets []Asset) bool {
	for i := range assets {
		if assets[i].Kind == KindPick {
			return true
		}
	}
	return false
}
