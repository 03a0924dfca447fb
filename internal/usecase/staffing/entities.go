package staffing

import (
	domain "sinfopers/internal/domain/staffing"
)

type CreateSlotInput struct {
	Name    string
	UnitID  uint64
	RankIDs []uint64
	Quota   int
}

// QuotaRow is one rank line of a unit's quota sheet.
type QuotaRow struct {
	Rank  string
	Quota int
}

type SlotDTO struct {
	ID        uint64   `json:"id"`
	Name      string   `json:"name"`
	UnitID    uint64   `json:"unit_id"`
	RankIDs   []uint64 `json:"rank_ids"`
	Quota     int      `json:"quota"`
	Occupancy int64    `json:"occupancy"`
}

func toSlotDTO(s *domain.Slot, occupancy int64) SlotDTO {
	return SlotDTO{
		ID:        s.ID,
		Name:      s.Name,
		UnitID:    s.UnitID,
		RankIDs:   s.RankIDs(),
		Quota:     s.Quota,
		Occupancy: occupancy,
	}
}

// Totals pairs an authorized quota (DSP) with the live count (Riil).
type Totals struct {
	Quota     int   `json:"dsp"`
	Occupancy int64 `json:"riil"`
}

func (t *Totals) add(quota int, occupancy int64) {
	t.Quota += quota
	t.Occupancy += occupancy
}

type SlotLine struct {
	Name      string `json:"name"`
	Quota     int    `json:"dsp"`
	Occupancy int64  `json:"riil"`
	Message   string `json:"message,omitempty"`
}

type CategorySummary struct {
	Category domain.RankCategory `json:"category"`
	Slots    []SlotLine          `json:"slots"`
	Total    Totals              `json:"total"`
}

type UnitSummary struct {
	Unit       string            `json:"unit"`
	Categories []CategorySummary `json:"categories"`
	Total      Totals            `json:"total"`
}

// Summary is the staffing report: units in report order, then totals per
// slot name, per category and overall.
type Summary struct {
	Units      []UnitSummary                  `json:"units"`
	BySlot     map[string]Totals              `json:"by_slot"`
	ByCategory map[domain.RankCategory]Totals `json:"by_category"`
	GrandTotal Totals                         `json:"grand_total"`
}

// Category returns the unit's summary for c; a unit always carries both.
func (u *UnitSummary) Category(c domain.RankCategory) *CategorySummary {
	for i := range u.Categories {
		if u.Categories[i].Category == c {
			return &u.Categories[i]
		}
	}
	return nil
}

// Line returns the slot line named name, if present.
func (c *CategorySummary) Line(name string) (SlotLine, bool) {
	for _, l := range c.Slots {
		if l.Name == name {
			return l, true
		}
	}
	return SlotLine{}, false
}

// CapacityDTO answers "is there room in this unit for this rank".
type CapacityDTO struct {
	Slot      SlotDTO `json:"slot"`
	Available int64   `json:"available"`
	Full      bool    `json:"full"`
}
