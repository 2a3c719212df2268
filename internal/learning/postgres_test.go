//go:build integration

package learning

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/models"
	"github.com/s/onlineLearning/internal/testutil"
	"github.com/s/onlineLearning/internal/testutil/testdb"
)

var pgDrivers = []struct{ name, driver string }{
	{"pgx", ""},
	{"libpq", "postgres"},
}

func TestPostgresConcurrentEnrollAndComplete(t *testing.T) {
	for _, d := range pgDrivers {
		t.Run(d.name, func(t *testing.T) {
			db := testdb.Postgres(t, d.driver)
			s := NewService(db, testutil.Logger(t))
			ctx := context.Background()
			u := testutil.SeedUser(t, db, "u", models.RoleStudent)
			c := testutil.SeedCourse(t, db, "Go", 3)

			const workers = 10
			var wg sync.WaitGroup
			views := make([]*EnrollmentView, workers)
			errs := make([]error, workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					views[i], errs[i] = s.Enroll(ctx, u.ID, c.ID)
				}(i)
			}
			wg.Wait()

			var v *EnrollmentView
			for i, err := range errs {
				switch {
				case err == nil:
					if v != nil {
						t.Fatal("two enrollments created")
					}
					v = views[i]
				case apperr.KindOf(err) != apperr.KindConflict:
					t.Fatalf("worker %d: %v", i, err)
				}
			}
			if v == nil {
				t.Fatal("no enrollment created")
			}
			if n := courseStudents(t, db, c.ID); n != 1 {
				t.Fatalf("students = %d", n)
			}

			// все уроки параллельно, каждый по нескольку раз
			results := make(chan *CompletionResult, workers*len(c.Lessons))
			fails := make(chan error, workers*len(c.Lessons))
			for i := 0; i < workers; i++ {
				for _, l := range c.Lessons {
					wg.Add(1)
					go func(lessonID uint) {
						defer wg.Done()
						res, err := s.CompleteLesson(ctx, v.ID, lessonID, u.ID)
						if err != nil {
							fails <- err
							return
						}
						results <- res
					}(l.ID)
				}
			}
			wg.Wait()
			close(results)
			close(fails)
			for err := range fails {
				t.Fatal(err)
			}

			var certID string
			for res := range results {
				if res.Certificate == nil {
					continue
				}
				if certID == "" {
					certID = res.Certificate.ID
				} else if certID != res.Certificate.ID {
					t.Fatalf("different certificates: %s vs %s", certID, res.Certificate.ID)
				}
			}
			if certID == "" {
				t.Fatal("certificate not issued")
			}
			if n := countRows(t, db, &models.LessonCompletion{}, "enrollment_id = ?", v.ID); n != 3 {
				t.Fatalf("completions = %d", n)
			}
			if n := countRows(t, db, &models.Certificate{}, "enrollment_id = ?", v.ID); n != 1 {
				t.Fatalf("certificates = %d", n)
			}
			var e models.Enrollment
			if err := db.First(&e, v.ID).Error; err != nil {
				t.Fatal(err)
			}
			if e.Progress != 100 {
				t.Fatalf("progress = %v", e.Progress)
			}
		})
	}
}

func TestPostgresConcurrentReviewsKeepMean(t *testing.T) {
	for _, d := range pgDrivers {
		t.Run(d.name, func(t *testing.T) {
			db := testdb.Postgres(t, d.driver)
			s := NewService(db, testutil.Logger(t))
			ctx := context.Background()
			c := testutil.SeedCourse(t, db, "Go", 1)

			const reviewers = 12
			users := make([]*models.User, reviewers)
			for i := range users {
				users[i] = testutil.SeedUser(t, db, fmt.Sprintf("r%d", i), models.RoleStudent)
			}

			var wg sync.WaitGroup
			errs := make([]error, reviewers)
			for i := 0; i < reviewers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, _, errs[i] = s.SubmitReview(ctx, c.ID, users[i].ID, i%MaxRating+1, "ok")
				}(i)
			}
			wg.Wait()
			for i, err := range errs {
				if err != nil {
					t.Fatalf("reviewer %d: %v", i, err)
				}
			}

			var sum int
			for i := 0; i < reviewers; i++ {
				sum += i%MaxRating + 1
			}
			want := float64(sum) / reviewers

			var course models.Course
			if err := db.First(&course, c.ID).Error; err != nil {
				t.Fatal(err)
			}
			if math.Abs(course.Rating-want) > 1e-9 {
				t.Fatalf("rating = %v, want %v", course.Rating, want)
			}
		})
	}
}
