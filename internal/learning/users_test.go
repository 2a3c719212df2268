package learning

import (
	"context"
	"testing"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/auth"
	"github.com/s/onlineLearning/internal/models"
	"github.com/s/onlineLearning/internal/testutil"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, RegisterInput{Name: "Ann", Email: "Ann@Example.com", Password: "secret1", Role: models.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != models.RoleStudent {
		t.Fatalf("self-registered role = %s", u.Role)
	}
	if u.Email != "ann@example.com" {
		t.Fatalf("email = %q", u.Email)
	}

	teacher, err := s.Register(ctx, RegisterInput{Name: "T", Email: "t@example.com", Password: "secret1", Role: models.RoleTeacher})
	if err != nil || teacher.Role != models.RoleTeacher {
		t.Fatalf("teacher = %+v, %v", teacher, err)
	}

	_, err = s.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	wantKind(t, err, apperr.KindConflict)
	_, err = s.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "123"})
	wantKind(t, err, apperr.KindInvalidArgument)

	got, err := s.Authenticate(ctx, "ANN@example.com", "secret1")
	if err != nil || got.ID != u.ID {
		t.Fatalf("Authenticate = %+v, %v", got, err)
	}
	_, err = s.Authenticate(ctx, "ann@example.com", "wrong")
	wantKind(t, err, apperr.KindUnauthenticated)
	_, err = s.Authenticate(ctx, "nobody@example.com", "secret1")
	wantKind(t, err, apperr.KindUnauthenticated)
}

func TestSaveGoogleUserLinksExistingAccount(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	u, err := s.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}

	g, err := s.SaveGoogleUser(ctx, auth.GoogleUserInfo{ID: "g-1", Email: "ann@example.com", Name: "Ann G", Picture: "p.png"})
	if err != nil || g.ID != u.ID {
		t.Fatalf("linked = %+v, %v", g, err)
	}
	again, err := s.SaveGoogleUser(ctx, auth.GoogleUserInfo{ID: "g-1", Email: "ann@example.com", Name: "Ann"})
	if err != nil || again.ID != u.ID {
		t.Fatalf("second login = %+v, %v", again, err)
	}

	fresh, err := s.SaveGoogleUser(ctx, auth.GoogleUserInfo{ID: "g-2", Email: "new@example.com", Name: "New"})
	if err != nil || fresh.ID == u.ID || fresh.Role != models.RoleStudent {
		t.Fatalf("fresh = %+v, %v", fresh, err)
	}

	// профиль без email: новый аккаунт не создаётся, привязанный по Google ID входит как раньше
	for _, id := range []string{"g-3", "g-4"} {
		_, err := s.SaveGoogleUser(ctx, auth.GoogleUserInfo{ID: id, Name: "No Mail"})
		wantKind(t, err, apperr.KindInvalidArgument)
	}
	linked, err := s.SaveGoogleUser(ctx, auth.GoogleUserInfo{ID: "g-2", Name: "New"})
	if err != nil || linked.ID != fresh.ID {
		t.Fatalf("linked without email = %+v, %v", linked, err)
	}
}

func TestInterestsAndRoles(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "u", models.RoleStudent)

	got, err := s.UpdateInterests(ctx, u.ID, []string{"go", " ", "design"})
	if err != nil || !got.HasCompletedTest || len(got.Interests) != 2 {
		t.Fatalf("interests = %+v, %v", got, err)
	}
	reloaded, _ := s.GetUser(ctx, u.ID)
	if len(reloaded.Interests) != 2 || reloaded.Interests[1] != "design" {
		t.Fatalf("stored interests = %v", reloaded.Interests)
	}

	_, err = s.ChangeRole(ctx, u.ID, models.Role("ROOT"))
	wantKind(t, err, apperr.KindInvalidArgument)
	changed, err := s.ChangeRole(ctx, u.ID, models.RoleTeacher)
	if err != nil || changed.Role != models.RoleTeacher {
		t.Fatalf("ChangeRole = %+v, %v", changed, err)
	}
	_, err = s.ChangeRole(ctx, 999, models.RoleTeacher)
	wantKind(t, err, apperr.KindNotFound)

	users, err := s.ListUsers(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("users = %+v, %v", users, err)
	}
}

func TestStudentsResults(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "u", models.RoleStudent)
	c := testutil.SeedCourse(t, db, "Go", 3)
	v := mustEnroll(t, s, u.ID, c.ID)
	if _, err := s.CompleteLesson(ctx, v.ID, c.Lessons[0].ID, u.ID); err != nil {
		t.Fatal(err)
	}

	rows, err := s.StudentsResults(ctx)
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows = %+v, %v", rows, err)
	}
	r := rows[0]
	if r.StudentEmail != u.Email || r.CourseTitle != "Go" || r.Progress != 33 {
		t.Fatalf("row = %+v", r)
	}
}
