package tracker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/halstein/pulse/internal/apperr"
	"github.com/halstein/pulse/internal/models"
	"github.com/halstein/pulse/internal/testutil"
)

func testServices(t *testing.T) (*ProjectService, *UpdateService) {
	t.Helper()
	s := testutil.TestStore(t)
	return NewProjectService(s), NewUpdateService(s)
}

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestCreateProject_Defaults(t *testing.T) {
	ps, _ := testServices(t)
	ctx := context.Background()

	created, err := ps.Create(ctx, CreateProjectInput{Name: "Orion"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("id not generated")
	}
	if created.Status != models.StatusActive {
		t.Errorf("status = %q, want active", created.Status)
	}
	if created.Description != "" {
		t.Errorf("description = %q, want empty", created.Description)
	}
	if created.IsPublished {
		t.Error("is_published = true, want false")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("created_at %v != updated_at %v", created.CreatedAt, created.UpdatedAt)
	}
}

func TestCreateProject_RoundTrip(t *testing.T) {
	ps, _ := testServices(t)
	ctx := context.Background()

	in := CreateProjectInput{
		Name:        "Vega",
		Description: strptr("launch prep"),
		Status:      strptr(models.StatusOnHold),
		Color:       strptr("#00FFAA"),
		Icon:        strptr("🚀"),
		IsPublished: boolptr(true),
	}
	created, err := ps.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := ps.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Vega" || got.Description != "launch prep" || got.Status != models.StatusOnHold {
		t.Errorf("fields = %+v", got.Project)
	}
	if got.Color == nil || *got.Color != "#00FFAA" {
		t.Errorf("color = %v", got.Color)
	}
	if got.Icon == nil || *got.Icon != "🚀" {
		t.Errorf("icon = %v", got.Icon)
	}
	if !got.IsPublished {
		t.Error("is_published lost")
	}
	if len(got.Updates) != 0 || got.LastUpdate != nil {
		t.Errorf("fresh project has updates: %+v", got)
	}
}

func TestCreateProject_ValidationNeverReachesStorage(t *testing.T) {
	ps, _ := testServices(t)
	ctx := context.Background()

	cases := []CreateProjectInput{
		{Name: ""},
		{Name: strings.Repeat("x", 101)},
		{Name: "ok", Status: strptr("abandoned")},
		{Name: "ok", Color: strptr("red")},
		{Name: "ok", Color: strptr("#12345")},
		{Name: "ok", Description: strptr(strings.Repeat("d", 501))},
	}
	for i, in := range cases {
		if _, err := ps.Create(ctx, in); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("case %d: err = %v, want ErrValidation", i, err)
		}
	}

	list, err := ps.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("projects written despite validation failure: %d", len(list))
	}
}

func TestUpdateProject_PartialFieldsOnly(t *testing.T) {
	ps, _ := testServices(t)
	ctx := context.Background()

	created, _ := ps.Create(ctx, CreateProjectInput{
		Name:        "Atlas",
		Description: strptr("keep me"),
		Color:       strptr("#112233"),
		Icon:        strptr("A"),
	})

	got, err := ps.Update(ctx, created.ID, UpdateProjectInput{Status: strptr(models.StatusArchived)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != models.StatusArchived {
		t.Errorf("status = %q, want archived", got.Status)
	}
	if got.Name != "Atlas" || got.Description != "keep me" {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if got.Color == nil || *got.Color != "#112233" || got.Icon == nil || *got.Icon != "A" {
		t.Errorf("color/icon changed: %v %v", got.Color, got.Icon)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) && !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Errorf("updated_at went backwards: %v < %v", got.UpdatedAt, created.UpdatedAt)
	}
}

func TestUpdateProject_NotFound(t *testing.T) {
	ps, _ := testServices(t)
	_, err := ps.Update(context.Background(), "ghost", UpdateProjectInput{Name: strptr("x")})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteProject_IdempotentAndCascading(t *testing.T) {
	ps, us := testServices(t)
	ctx := context.Background()

	created, _ := ps.Create(ctx, CreateProjectInput{Name: "Doomed"})
	_, _ = us.Create(ctx, CreateUpdateInput{ProjectID: created.ID, Content: "first"})
	_, _ = us.Create(ctx, CreateUpdateInput{ProjectID: created.ID, Content: "second"})

	removed, err := ps.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !removed {
		t.Error("removed = false")
	}

	if _, err := ps.GetByID(ctx, created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrNotFound", err)
	}
	updates, _ := us.ListByProject(ctx, created.ID)
	if len(updates) != 0 {
		t.Errorf("updates survived cascade: %d", len(updates))
	}

	// Second delete returns false, never errors.
	removed, err = ps.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if removed {
		t.Error("second delete removed = true")
	}
}

func TestListAll_MostRecentlyUpdatedFirst(t *testing.T) {
	ps, _ := testServices(t)
	ctx := context.Background()

	a, _ := ps.Create(ctx, CreateProjectInput{Name: "A"})
	b, _ := ps.Create(ctx, CreateProjectInput{Name: "B"})

	// Touching A makes it the most recently updated.
	if _, err := ps.Update(ctx, a.ID, UpdateProjectInput{Description: strptr("touched")}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	list, err := ps.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("order = [%s %s], want [A B]", list[0].Name, list[1].Name)
	}
}

func TestCreateUpdate_DerivesPlainMirrorAndBumpsParent(t *testing.T) {
	ps, us := testServices(t)
	ctx := context.Background()

	p, _ := ps.Create(ctx, CreateProjectInput{Name: "Mirror"})
	before, _ := ps.GetByID(ctx, p.ID)

	u, err := us.Create(ctx, CreateUpdateInput{
		ProjectID: p.ID,
		Content:   "# Done\n\nshipped the **thing**",
		Category:  strptr(models.CategoryGeneral),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ContentPlain != "Done\n\nshipped the thing" {
		t.Errorf("content_plain = %q", u.ContentPlain)
	}
	if !u.CreatedAt.Equal(u.UpdatedAt) {
		t.Errorf("timestamps differ: %v / %v", u.CreatedAt, u.UpdatedAt)
	}

	after, _ := ps.GetByID(ctx, p.ID)
	if after.UpdatedAt.Before(before.UpdatedAt) {
		t.Errorf("parent updated_at went backwards")
	}
	if !after.UpdatedAt.Equal(u.CreatedAt) {
		t.Errorf("parent updated_at = %v, want %v (the update's created_at)", after.UpdatedAt, u.CreatedAt)
	}
	if after.LastUpdate == nil || after.LastUpdate.ID != u.ID {
		t.Errorf("last_update = %+v, want %s", after.LastUpdate, u.ID)
	}
}

func TestCreateUpdate_MissingProject(t *testing.T) {
	_, us := testServices(t)
	_, err := us.Create(context.Background(), CreateUpdateInput{ProjectID: "ghost", Content: "x"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateUpdate_Validation(t *testing.T) {
	ps, us := testServices(t)
	ctx := context.Background()
	p, _ := ps.Create(ctx, CreateProjectInput{Name: "V"})

	cases := []CreateUpdateInput{
		{ProjectID: p.ID, Content: ""},
		{ProjectID: "", Content: "x"},
		{ProjectID: p.ID, Content: "x", Category: strptr("gossip")},
	}
	for i, in := range cases {
		if _, err := us.Create(ctx, in); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
}

func TestEditUpdate_RecomputesPlainKeepsCategory(t *testing.T) {
	ps, us := testServices(t)
	ctx := context.Background()

	p, _ := ps.Create(ctx, CreateProjectInput{Name: "E"})
	u, _ := us.Create(ctx, CreateUpdateInput{
		ProjectID: p.ID,
		Content:   "old",
		Category:  strptr(models.CategoryEvaluation),
	})

	got, err := us.Update(ctx, u.ID, EditUpdateInput{Content: "now with a [link](http://x)"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ContentPlain != "now with a link" {
		t.Errorf("content_plain = %q", got.ContentPlain)
	}
	if got.Category == nil || *got.Category != models.CategoryEvaluation {
		t.Errorf("category = %v, want evaluation retained", got.Category)
	}
}

func TestEditUpdate_NotFound(t *testing.T) {
	_, us := testServices(t)
	_, err := us.Update(context.Background(), "ghost", EditUpdateInput{Content: "x"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteUpdate_Idempotent(t *testing.T) {
	ps, us := testServices(t)
	ctx := context.Background()

	p, _ := ps.Create(ctx, CreateProjectInput{Name: "D"})
	u, _ := us.Create(ctx, CreateUpdateInput{ProjectID: p.ID, Content: "x"})

	if removed, _ := us.Delete(ctx, u.ID); !removed {
		t.Fatal("first delete removed = false")
	}
	removed, err := us.Delete(ctx, u.ID)
	if err != nil {
		t.Fatalf("second delete errored: %v", err)
	}
	if removed {
		t.Error("second delete removed = true")
	}
}

func TestSearch_FindsStrippedText(t *testing.T) {
	ps, us := testServices(t)
	ctx := context.Background()

	p, _ := ps.Create(ctx, CreateProjectInput{Name: "S"})
	u, _ := us.Create(ctx, CreateUpdateInput{ProjectID: p.ID, Content: "## Retro\n\n**velocity** doubled"})

	hits, err := us.Search(ctx, "velocity", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].UpdateID != u.ID {
		t.Errorf("hits = %+v", hits)
	}
}
