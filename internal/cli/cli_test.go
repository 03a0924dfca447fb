package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sinfopers/internal/adapter/xlsx"
	"sinfopers/internal/config"
	"sinfopers/internal/domain/identity"
	"sinfopers/internal/domain/request"
	"sinfopers/internal/infrastructure/auth"
	"sinfopers/internal/testutil/sqlitedb"
	"sinfopers/pkg/id"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const testSecret = "cli-test-secret"

func run(t *testing.T, gdb *gorm.DB, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SINFOPERS_JWT_SECRET", testSecret)
	var out bytes.Buffer
	rt := &runtime{
		out: &out,
		openDB: func(*config.Config) (*gorm.DB, func(), error) {
			return gdb, func() {}, nil
		},
	}
	cmd := newRootCmd(rt)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrate_Seed(t *testing.T) {
	gdb := sqlitedb.Open(t)
	_, err := run(t, gdb, "migrate", "--seed")
	require.NoError(t, err)
	_, err = run(t, gdb, "migrate", "--seed")
	require.NoError(t, err)
	sqlitedb.Unit(t, gdb, "BAG OPS")
}

func TestSweep_DryRunThenExpire(t *testing.T) {
	gdb := sqlitedb.Open(t)
	unit := sqlitedb.Unit(t, gdb, "BAG OPS")
	rank := sqlitedb.Rank(t, gdb, "AKP")
	p := sqlitedb.Personnel(t, gdb, unit.ID, rank.ID, "active")
	stale := request.Request{
		RequestID:   id.NewID32(),
		PersonnelID: p.ID,
		Kind:        request.KindTransfer,
		Status:      request.StatusPendingHR,
		Reason:      "rotation",
		Destination: "POLDA JATIM",
		CreatedAt:   time.Now().UTC().Add(-8 * 24 * time.Hour),
	}
	require.NoError(t, gdb.Create(&stale).Error)

	out, err := run(t, gdb, "sweep", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "1 request(s) would expire\n", out)

	out, err = run(t, gdb, "sweep")
	require.NoError(t, err)
	assert.Equal(t, "1 request(s) expired\n", out)

	var got request.Request
	require.NoError(t, gdb.First(&got, stale.ID).Error)
	assert.Equal(t, request.StatusInvalid, got.Status)
	assert.Equal(t, request.ExpiryNote, got.HRNote)
}

func TestImport_ReportsRows(t *testing.T) {
	gdb := sqlitedb.Open(t)
	sqlitedb.Slot(t, gdb, "AKP", sqlitedb.Unit(t, gdb, "TAUD").ID, 2, sqlitedb.Rank(t, gdb, "AKP").ID)
	sd, jt := sqlitedb.References(t, gdb)

	f := excelize.NewFile()
	header := make([]any, len(xlsx.PersonnelColumns))
	for i, c := range xlsx.PersonnelColumns {
		header[i] = c
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	ok := []any{"Rina", "90010001", "AKP", jt.Name, "P", "TAUD", sd.Name, "-", "Aktif", ""}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &ok))
	bad := []any{"Budi", "90010002", "AKP", jt.Name, "L", "NOWHERE", sd.Name, "-", "Aktif", ""}
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &bad))
	path := filepath.Join(t.TempDir(), "personnel.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	out, err := run(t, gdb, "import", "personnel", path)
	require.Error(t, err)
	assert.Contains(t, out, "row 3 (NRP 90010002)")
	assert.Contains(t, out, "2 rows: 1 imported, 1 failed")
}

func TestToken_IssuesVerifiableToken(t *testing.T) {
	gdb := sqlitedb.Open(t)

	_, err := run(t, gdb, "token", "kabag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--create")

	_, err = run(t, gdb, "token", "kabag", "--create", "overlord")
	require.Error(t, err)

	out, err := run(t, gdb, "token", "kabag", "--create", string(identity.RoleLeadership))
	require.NoError(t, err)
	claims, err := auth.NewJWTService(testSecret, time.Hour).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, identity.RoleLeadership, claims.Role)

	// existing identity, no --create needed
	_, err = run(t, gdb, "token", "kabag")
	require.NoError(t, err)
}
