package draft

import (
	"errors"
	"math"
	"testing"

	"github.com/talgya/dynasty-gm/internal/league"
	"github.com/talgya/dynasty-gm/internal/trade"
	"github.com/talgya/dynasty-gm/internal/trade/value"
)

type fakePicks struct {
	round  []*league.DraftPick
	byTeam map[league.TeamID][]*league.DraftPick
}

func (f *fakePicks) PicksInRound(year, round int) ([]*league.DraftPick, error) {
	return f.round, nil
}

func (f *fakePicks) TeamPicks(team league.TeamID) ([]*league.DraftPick, error) {
	return f.byTeam[team], nil
}

func pick(team league.TeamID, year, round, overall int) *league.DraftPick {
	return &league.DraftPick{
		Year: year, Round: round,
		OriginalTeam: team, CurrentTeam: team,
		ProjectedOverall: overall,
	}
}

func TestTradeUpOffers_WrongOwner(t *testing.T) {
	a := &Advisor{Calc: value.New(nil), Picks: &fakePicks{}, Season: 2026}
	stolen := pick("BKN", 2026, 1, 15)
	if _, err := a.TradeUpOffers("AUS", stolen, false); !errors.Is(err, trade.ErrInvalidProposal) {
		t.Fatalf("err=%v want ErrInvalidProposal", err)
	}
}

func TestTradeUpOffers_SweetSpotAndCompensation(t *testing.T) {
	humanPick := pick("AUS", 2026, 1, 15)
	completed := pick("TBY", 2026, 1, 25)
	completed.Completed = true

	picks := &fakePicks{
		round: []*league.DraftPick{
			humanPick,                 // the human's own slot
			pick("MEM", 2026, 1, 18),  // 3 behind: too close
			pick("CHI", 2026, 1, 20),  // 5 behind: in the window
			pick("DEN", 2026, 1, 22),  // in the window but no compensation
			completed,                 // already used
			pick("POR", 2026, 1, 30),  // 15 behind: edge of the window
			pick("SAC", 2026, 1, 31),  // 16 behind: too far
		},
		byTeam: map[league.TeamID][]*league.DraftPick{
			"CHI": {pick("CHI", 2026, 2, 40)},
			"DEN": {},
			"POR": {pick("POR", 2026, 2, 33), pick("POR", 2026, 4, 100)},
		},
	}
	a := &Advisor{Calc: value.New(nil), Picks: picks, Season: 2026}

	offers, err := a.TradeUpOffers("AUS", humanPick, false)
	if err != nil {
		t.Fatalf("offers: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("offers=%d want CHI and POR only", len(offers))
	}
	// Best ratio first.
	if offers[0].Partner != league.TeamID("CHI") || offers[1].Partner != league.TeamID("POR") {
		t.Fatalf("order=%s,%s want CHI,POR", offers[0].Partner, offers[1].Partner)
	}

	chi := offers[0]
	if math.Abs(chi.Ratio-1.1865) > 0.001 {
		t.Fatalf("CHI ratio=%.4f want ~1.1865", chi.Ratio)
	}
	if chi.Recommendation.Verdict != VerdictAccept || chi.Recommendation.Confidence != 0.9 {
		t.Fatalf("CHI rec=%+v want a confident accept", chi.Recommendation)
	}
	if len(chi.Proposal.AssetsFromB) != 2 {
		t.Fatalf("CHI package=%d assets want the slot plus one sweetener", len(chi.Proposal.AssetsFromB))
	}

	por := offers[1]
	if math.Abs(por.Ratio-0.9903) > 0.001 {
		t.Fatalf("POR ratio=%.4f want ~0.9903", por.Ratio)
	}
	if por.Recommendation.Verdict != VerdictReject || por.Recommendation.Confidence != 0.7 {
		t.Fatalf("POR rec=%+v want a stand-pat reject", por.Recommendation)
	}
	if len(por.Proposal.AssetsFromB) != 3 {
		t.Fatalf("POR package=%d assets want two sweeteners", len(por.Proposal.AssetsFromB))
	}
}

func TestTradeUpOffers_RebuildingSwingsLeanCalls(t *testing.T) {
	humanPick := pick("AUS", 2026, 1, 15)
	picks := &fakePicks{
		round: []*league.DraftPick{humanPick, pick("CHI", 2026, 1, 20)},
		byTeam: map[league.TeamID][]*league.DraftPick{
			"CHI": {pick("CHI", 2026, 2, 50)},
		},
	}
	a := &Advisor{Calc: value.New(nil), Picks: picks, Season: 2026}

	contender, err := a.TradeUpOffers("AUS", humanPick, false)
	if err != nil || len(contender) != 1 {
		t.Fatalf("contender offers=%d err=%v", len(contender), err)
	}
	if math.Abs(contender[0].Ratio-1.1291) > 0.001 {
		t.Fatalf("ratio=%.4f want ~1.1291", contender[0].Ratio)
	}
	if contender[0].Recommendation.Verdict != VerdictReject {
		t.Fatalf("contender rec=%+v want reject on a modest return", contender[0].Recommendation)
	}

	rebuilder, err := a.TradeUpOffers("AUS", humanPick, true)
	if err != nil || len(rebuilder) != 1 {
		t.Fatalf("rebuilder offers=%d err=%v", len(rebuilder), err)
	}
	if rebuilder[0].Recommendation.Verdict != VerdictAccept || rebuilder[0].Recommendation.Confidence != 0.6 {
		t.Fatalf("rebuilder rec=%+v want a lean accept", rebuilder[0].Recommendation)
	}
}

func TestRecommend_LightPackage(t *testing.T) {
	p := trade.NewProposal("AUS", "CHI",
		[]trade.Asset{{Kind: trade.KindPick, Pick: pick("AUS", 2026, 1, 10), Value: 300, ToTeam: "CHI"}},
		[]trade.Asset{{Kind: trade.KindPick, Pick: pick("CHI", 2026, 1, 20), Value: 255, ToTeam: "AUS"}},
	)
	rec := recommend(0.85, true, p)
	if rec.Verdict != VerdictReject || rec.Confidence != 0.9 {
		t.Fatalf("rec=%+v want a hard pass even while rebuilding", rec)
	}
}
