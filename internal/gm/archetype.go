// Package gm supplies front-office personalities and the evaluation
// strategy that judges trade proposals from one team's chair.
package gm

import (
	"fmt"

	"github.com/talgya/dynasty-gm/internal/league"
)

// Named archetype presets.
const (
	ArchCapSurgeon     = "CapSurgeon"
	ArchAllInContender = "AllInContender"
	ArchPickHoarder    = "PickHoarder"
	ArchStarHunter     = "StarHunter"
	ArchOldSchool      = "OldSchool"
	ArchYouthMovement  = "YouthMovement"
	ArchTrenchBuilder  = "TrenchBuilder"
	ArchBalanced       = "Balanced"
)

// presets maps archetype name to its trait profile.
var presets = map[string]league.Archetype{
	ArchCapSurgeon: {
		Name:                 ArchCapSurgeon,
		CapDiscipline:        0.9, // Never takes on a bad contract
		WinNowUrgency:        0.4,
		RiskTolerance:        0.4,
		DraftPickAffinity:    0.6,
		StarChasing:          0.3,
		VeteranPreference:    0.5,
		PremiumPositionFocus: 0.5,
	},
	ArchAllInContender: {
		Name:                 ArchAllInContender,
		CapDiscipline:        0.3,
		WinNowUrgency:        0.9, // The window is open now
		RiskTolerance:        0.7,
		DraftPickAffinity:    0.2,
		StarChasing:          0.7,
		VeteranPreference:    0.7,
		PremiumPositionFocus: 0.6,
	},
	ArchPickHoarder: {
		Name:                 ArchPickHoarder,
		CapDiscipline:        0.6,
		WinNowUrgency:        0.2,
		RiskTolerance:        0.5,
		DraftPickAffinity:    0.95, // Accumulates draft capital above all
		StarChasing:          0.2,
		VeteranPreference:    0.2,
		PremiumPositionFocus: 0.4,
	},
	ArchStarHunter: {
		Name:                 ArchStarHunter,
		CapDiscipline:        0.3,
		WinNowUrgency:        0.6,
		RiskTolerance:        0.8,
		DraftPickAffinity:    0.3,
		StarChasing:          0.95, // Pays whatever a headliner costs
		VeteranPreference:    0.5,
		PremiumPositionFocus: 0.7,
	},
	ArchOldSchool: {
		Name:                 ArchOldSchool,
		CapDiscipline:        0.5,
		WinNowUrgency:        0.6,
		RiskTolerance:        0.3,
		DraftPickAffinity:    0.4,
		StarChasing:          0.4,
		VeteranPreference:    0.9, // Trusts proven players
		PremiumPositionFocus: 0.5,
	},
	ArchYouthMovement: {
		Name:                 ArchYouthMovement,
		CapDiscipline:        0.7,
		WinNowUrgency:        0.2,
		RiskTolerance:        0.7,
		DraftPickAffinity:    0.7,
		StarChasing:          0.3,
		VeteranPreference:    0.1, // Everything under 25
		PremiumPositionFocus: 0.4,
	},
	ArchTrenchBuilder: {
		Name:                 ArchTrenchBuilder,
		CapDiscipline:        0.6,
		WinNowUrgency:        0.5,
		RiskTolerance:        0.4,
		DraftPickAffinity:    0.5,
		StarChasing:          0.3,
		VeteranPreference:    0.6,
		PremiumPositionFocus: 0.9, // Games are won up front
	},
	ArchBalanced: {
		Name:                 ArchBalanced,
		CapDiscipline:        0.5,
		WinNowUrgency:        0.5,
		RiskTolerance:        0.5,
		DraftPickAffinity:    0.5,
		StarChasing:          0.5,
		VeteranPreference:    0.5,
		PremiumPositionFocus: 0.5,
	},
}

// Preset returns a named archetype profile.
func Preset(name string) (league.Archetype, error) {
	a, ok := presets[name]
	if !ok {
		return league.Archetype{}, fmt.Errorf("gm: unknown archetype %q", name)
	}
	return a, nil
}

// PresetNames lists the available archetype names.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}

// StaticProvider serves archetypes from a fixed assignment, defaulting to
// the balanced profile for unassigned teams.
type StaticProvider struct {
	Assignments map[league.TeamID]string
}

// ArchetypeFor implements league.ArchetypeProvider.
func (p *StaticProvider) ArchetypeFor(team league.TeamID) (league.Archetype, error) {
	if p != nil && p.Assignments != nil {
		if name, ok := p.Assignments[team]; ok {
			return Preset(name)
		}
	}
	return presets[ArchBalanced], nil
}
