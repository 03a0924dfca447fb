package leave

import (
	domainLeave "sinfopers/internal/domain/leave"
)

type BalanceDTO struct {
	PersonnelID string `json:"personnel_id"`
	Year        int    `json:"year"`
	Entitlement int    `json:"entitlement"`
	CarriedOver int    `json:"carried_over"`
	Consumed    int    `json:"consumed"`
	Remaining   int    `json:"remaining"`
}

func toDTO(personnelID string, b *domainLeave.Balance) *BalanceDTO {
	return &BalanceDTO{
		PersonnelID: personnelID,
		Year:        b.Year,
		Entitlement: b.Entitlement,
		CarriedOver: b.CarriedOver,
		Consumed:    b.Consumed,
		Remaining:   domainLeave.Remaining(b),
	}
}
