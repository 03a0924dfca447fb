package db

import (
	"context"

	"sinfopers/internal/domain/staffing"

	"gorm.io/gorm"
)

// DefaultUnits are the directorate's units in report order.
var DefaultUnits = []string{
	"PIMPINAN",
	"DIT KAMSEL",
	"DIT GAKKUM",
	"DIT REGIDENT",
	"BAG OPS",
	"BAG RENMIN",
	"BAG TIK",
	"SIKEU",
	"TAUD",
}

// DefaultRanks are the rank labels the staffing report columns are built from.
var DefaultRanks = []staffing.Rank{
	{Name: "IRJEN", Category: staffing.CategoryPolice},
	{Name: "BRIGJEN", Category: staffing.CategoryPolice},
	{Name: "KOMBES", Category: staffing.CategoryPolice},
	{Name: "AKBP", Category: staffing.CategoryPolice},
	{Name: "KOMPOL", Category: staffing.CategoryPolice},
	{Name: "AKP", Category: staffing.CategoryPolice},
	{Name: "IP", Category: staffing.CategoryPolice},
	{Name: "BRIGADIR", Category: staffing.CategoryPolice},
	{Name: "IV", Category: staffing.CategoryCivilian},
	{Name: "III", Category: staffing.CategoryCivilian},
	{Name: "II/I", Category: staffing.CategoryCivilian},
}

// Seed inserts the default units and ranks; existing rows are left alone.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, name := range DefaultUnits {
			u := staffing.Unit{Name: name, SortOrder: i + 1}
			if err := tx.Where(staffing.Unit{Name: name}).FirstOrCreate(&u).Error; err != nil {
				return err
			}
		}
		for _, rk := range DefaultRanks {
			rk := rk
			if err := tx.Where(staffing.Rank{Name: rk.Name}).FirstOrCreate(&rk).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
