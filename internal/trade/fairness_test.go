package trade

import "testing"

func TestClassifyRatio_Bands(t *testing.T) {
	cases := []struct {
		ratio float64
		want  Fairness
	}{
		{1.0, VeryFair},
		{0.95, VeryFair},
		{1.05, VeryFair},
		{1.051, Fair},
		{0.949, Fair},
		{0.81, Fair},
		{1.19, Fair},
		{0.80, SlightlyUnfair}, // Fair band is exclusive at 0.80
		{1.20, SlightlyUnfair},
		{1.25, SlightlyUnfair},
		{0.71, SlightlyUnfair},
		{0.70, VeryUnfair}, // Slightly-unfair band is exclusive at 0.70
		{1.30, VeryUnfair},
		{2.0, VeryUnfair},
		{0.0, VeryUnfair},
	}
	for _, c := range cases {
		if got := ClassifyRatio(c.ratio); got != c.want {
			t.Errorf("ClassifyRatio(%v)=%s want=%s", c.ratio, got, c.want)
		}
	}
}

func TestFairness_Acceptable(t *testing.T) {
	if !VeryFair.Acceptable() || !Fair.Acceptable() {
		t.Fatal("very_fair and fair must be acceptable")
	}
	if SlightlyUnfair.Acceptable() || VeryUnfair.Acceptable() {
		t.Fatal("unfair bands must not be acceptable")
	}
}

func TestProposal_EvenScenario(t *testing.T) {
	p := NewProposal("AUS", "BKN",
		[]Asset{{Kind: KindPlayer, PlayerID: 1, Name: "A", Value: 300, ToTeam: "BKN"}},
		[]Asset{{Kind: KindPlayer, PlayerID: 2, Name: "B", Value: 300, ToTeam: "AUS"}},
	)
	if p.Ratio != 1.0 {
		t.Fatalf("ratio=%v want=1.0", p.Ratio)
	}
	if p.Fairness != VeryFair || !p.Fairness.Acceptable() {
		t.Fatalf("fairness=%s want acceptable very_fair", p.Fairness)
	}
}

func TestProposal_LopsidedScenario(t *testing.T) {
	p := NewProposal("AUS", "BKN",
		[]Asset{{Kind: KindPlayer, PlayerID: 1, Name: "A", Value: 200, ToTeam: "BKN"}},
		[]Asset{{Kind: KindPlayer, PlayerID: 2, Name: "B", Value: 250, ToTeam: "AUS"}},
	)
	if p.Ratio != 1.25 {
		t.Fatalf("ratio=%v want=1.25", p.Ratio)
	}
	if p.Fairness != SlightlyUnfair {
		t.Fatalf("fairness=%s want=slightly_unfair", p.Fairness)
	}
	if p.Fairness.Acceptable() {
		t.Fatal("1.25 must not be acceptable")
	}
}
