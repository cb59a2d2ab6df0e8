package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/mindtrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mindtrack-backend/internal/domain"
	"github.com/yungbote/mindtrack-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, []*types.User{
		{
			Email:     "  UserRepo@Example.com ",
			Password:  "pw",
			FirstName: "A",
			LastName:  "B",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: unexpected result: %+v", created)
	}
	if created[0].Email != "userrepo@example.com" {
		t.Fatalf("Create: email not normalized: %q", created[0].Email)
	}

	gotByIDs, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	gotByEmails, err := repo.GetByEmails(dbc, []string{"USERREPO@example.com"})
	if err != nil || len(gotByEmails) != 1 {
		t.Fatalf("GetByEmails: err=%v len=%d", err, len(gotByEmails))
	}

	exists, err := repo.EmailExists(dbc, "userrepo@example.com")
	if err != nil || !exists {
		t.Fatalf("EmailExists: err=%v exists=%v", err, exists)
	}
	exists, err = repo.EmailExists(dbc, "missing@example.com")
	if err != nil || exists {
		t.Fatalf("EmailExists(missing): err=%v exists=%v", err, exists)
	}

	if err := repo.UpdateName(dbc, created[0].ID, "C", "D"); err != nil {
		t.Fatalf("UpdateName: %v", err)
	}
	if err := repo.UpdateTimezone(dbc, created[0].ID, "Europe/Berlin"); err != nil {
		t.Fatalf("UpdateTimezone: %v", err)
	}
	rows, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs after update: err=%v len=%d", err, len(rows))
	}
	if rows[0].FirstName != "C" || rows[0].LastName != "D" || rows[0].Timezone != "Europe/Berlin" {
		t.Fatalf("updates not applied: %+v", rows[0])
	}

	if rows, err := repo.GetByIDs(dbc, nil); err != nil || len(rows) != 0 {
		t.Fatalf("GetByIDs(nil): err=%v len=%d", err, len(rows))
	}
}
