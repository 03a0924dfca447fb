package sqlitedb

import (
	"fmt"
	"sync/atomic"
	"testing"

	"sinfopers/internal/domain/identity"
	"sinfopers/internal/domain/personnel"
	"sinfopers/internal/domain/staffing"
	"sinfopers/pkg/id"

	"gorm.io/gorm"
)

var nrpSeq atomic.Int64

// Unit loads a seeded unit by name.
func Unit(t testing.TB, gdb *gorm.DB, name string) staffing.Unit {
	t.Helper()
	var u staffing.Unit
	if err := gdb.Where("name = ?", name).First(&u).Error; err != nil {
		t.Fatalf("unit %s: %v", name, err)
	}
	return u
}

// Rank loads a seeded rank by name.
func Rank(t testing.TB, gdb *gorm.DB, name string) staffing.Rank {
	t.Helper()
	var r staffing.Rank
	if err := gdb.Where("name = ?", name).First(&r).Error; err != nil {
		t.Fatalf("rank %s: %v", name, err)
	}
	return r
}

// Slot creates a slot with its rank links.
func Slot(t testing.TB, gdb *gorm.DB, name string, unitID uint64, quota int, rankIDs ...uint64) staffing.Slot {
	t.Helper()
	s := staffing.Slot{Name: name, UnitID: unitID, Quota: quota}
	if err := gdb.Omit("Ranks").Create(&s).Error; err != nil {
		t.Fatalf("slot %s: %v", name, err)
	}
	for _, rid := range rankIDs {
		link := staffing.SlotRank{SlotID: s.ID, UnitID: unitID, RankID: rid}
		if err := gdb.Create(&link).Error; err != nil {
			t.Fatalf("slot %s rank %d: %v", name, rid, err)
		}
		s.Ranks = append(s.Ranks, link)
	}
	return s
}

// References returns a sub-department and job title, creating them once.
func References(t testing.TB, gdb *gorm.DB) (personnel.SubDepartment, personnel.JobTitle) {
	t.Helper()
	sd := personnel.SubDepartment{Name: "SUBDIT GAKKUM"}
	if err := gdb.Where(personnel.SubDepartment{Name: sd.Name}).FirstOrCreate(&sd).Error; err != nil {
		t.Fatalf("sub-department: %v", err)
	}
	jt := personnel.JobTitle{Name: "BANIT"}
	if err := gdb.Where(personnel.JobTitle{Name: jt.Name}).FirstOrCreate(&jt).Error; err != nil {
		t.Fatalf("job title: %v", err)
	}
	return sd, jt
}

// Personnel inserts a personnel row directly, bypassing admission.
func Personnel(t testing.TB, gdb *gorm.DB, unitID, rankID uint64, status personnel.Status) personnel.Personnel {
	t.Helper()
	sd, jt := References(t, gdb)
	n := nrpSeq.Add(1)
	p := personnel.Personnel{
		PersonnelID:     id.NewID32(),
		Name:            fmt.Sprintf("Personnel %d", n),
		NRP:             80000000 + n,
		RankID:          rankID,
		UnitID:          unitID,
		SubDepartmentID: sd.ID,
		JobTitleID:      jt.ID,
		Gender:          personnel.GenderMale,
		Status:          status,
		Secondment:      personnel.SecondmentNone,
	}
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("personnel: %v", err)
	}
	return p
}

// User inserts an identity with the given role.
func User(t testing.TB, gdb *gorm.DB, username string, role identity.Role) identity.User {
	t.Helper()
	u := identity.User{Username: username, Role: role}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("user %s: %v", username, err)
	}
	return u
}

// Link attaches a user to a personnel row.
func Link(t testing.TB, gdb *gorm.DB, p *personnel.Personnel, userID uint64) {
	t.Helper()
	p.UserID = &userID
	if err := gdb.Model(p).Update("user_id", userID).Error; err != nil {
		t.Fatalf("link: %v", err)
	}
}
