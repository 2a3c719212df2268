package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/auth"
	"github.com/s/onlineLearning/internal/handlers"
	"github.com/s/onlineLearning/internal/learning"
	"github.com/s/onlineLearning/internal/models"
	"github.com/s/onlineLearning/internal/testutil"
)

type testServer struct {
	db     *gorm.DB
	svc    *learning.Service
	tokens *auth.TokenIssuer
	h      http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := learning.NewService(db, log)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	authn := &auth.Authenticator{Store: auth.NewCookieStore("test-session-key", false), Tokens: tokens}
	h := handlers.NewHandler(db, svc, authn, nil, log)
	return &testServer{db: db, svc: svc, tokens: tokens, h: NewRouter(h, []string{"*"})}
}

func (s *testServer) token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, kind apperr.Kind) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, status, rec.Body.String())
	}
	body := decode[handlers.ErrorBody](t, rec)
	if body.Code != kind || body.Error == "" {
		t.Fatalf("error body = %+v, want code %s", body, kind)
	}
}

// userId в теле или query не должен позволять действовать от чужого имени
func TestForgedUserIDCannotTouchForeignEnrollment(t *testing.T) {
	s := newTestServer(t)
	owner := testutil.SeedUser(t, s.db, "owner", models.RoleStudent)
	intruder := testutil.SeedUser(t, s.db, "intruder", models.RoleStudent)
	c := testutil.SeedCourse(t, s.db, "Go", 2)

	v, err := s.svc.Enroll(context.Background(), owner.ID, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	forged := map[string]any{"userId": owner.ID}
	tok := s.token(t, intruder)

	rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/enrollments/%d/lessons/%d/complete", v.ID, c.Lessons[0].ID), tok, forged)
	wantError(t, rec, http.StatusForbidden, apperr.KindForbidden)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/enrollments/%d/lessons/%d/check?userId=%d", v.ID, c.Lessons[0].ID, owner.ID), tok, nil)
	wantError(t, rec, http.StatusForbidden, apperr.KindForbidden)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/enrollments/%d", v.ID), tok, forged)
	wantError(t, rec, http.StatusForbidden, apperr.KindForbidden)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/enrollments?userId=%d", owner.ID), tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if list := decode[[]learning.EnrollmentView](t, rec); len(list) != 0 {
		t.Fatalf("intruder sees foreign enrollments: %+v", list)
	}

	// запись на курс создаётся на пользователя из токена, а не из тела
	rec = s.do(t, http.MethodPost, "/api/enrollments", tok, map[string]any{"userId": owner.ID, "courseId": c.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("enroll status = %d (%s)", rec.Code, rec.Body.String())
	}
	if got := decode[learning.EnrollmentView](t, rec); got.UserID != intruder.ID {
		t.Fatalf("enrollment created for user %d", got.UserID)
	}

	var e models.Enrollment
	s.db.First(&e, v.ID)
	if e.Progress != 0 {
		t.Fatalf("owner progress changed to %v", e.Progress)
	}
}

func TestUnauthenticatedAndRoles(t *testing.T) {
	s := newTestServer(t)
	student := testutil.SeedUser(t, s.db, "student", models.RoleStudent)
	teacher := testutil.SeedUser(t, s.db, "teacher", models.RoleTeacher)

	wantError(t, s.do(t, http.MethodGet, "/api/enrollments", "", nil), http.StatusUnauthorized, apperr.KindUnauthenticated)
	wantError(t, s.do(t, http.MethodGet, "/api/enrollments", "forged.token.value", nil), http.StatusUnauthorized, apperr.KindUnauthenticated)

	// токен пользователя, которого уже нет в БД
	gone := testutil.SeedUser(t, s.db, "gone", models.RoleStudent)
	goneToken := s.token(t, gone)
	if err := s.db.Unscoped().Delete(&models.User{}, gone.ID).Error; err != nil {
		t.Fatal(err)
	}
	wantError(t, s.do(t, http.MethodGet, "/api/me", goneToken, nil), http.StatusUnauthorized, apperr.KindUnauthenticated)

	course := map[string]any{"title": "New", "lessons": []map[string]string{{"title": "L1", "duration": "5m"}}}
	wantError(t, s.do(t, http.MethodPost, "/api/courses", s.token(t, student), course), http.StatusForbidden, apperr.KindForbidden)

	rec := s.do(t, http.MethodPost, "/api/courses", s.token(t, teacher), course)
	if rec.Code != http.StatusCreated {
		t.Fatalf("teacher create = %d (%s)", rec.Code, rec.Body.String())
	}
	wantError(t, s.do(t, http.MethodGet, "/api/admin/users", s.token(t, teacher), nil), http.StatusForbidden, apperr.KindForbidden)

	// роль берётся из БД, а не из токена
	if _, err := s.svc.ChangeRole(context.Background(), student.ID, models.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if rec := s.do(t, http.MethodGet, "/api/admin/users", s.token(t, student), nil); rec.Code != http.StatusOK {
		t.Fatalf("promoted admin = %d", rec.Code)
	}
}

func TestEnrollCompleteCertificateOverHTTP(t *testing.T) {
	s := newTestServer(t)
	u := testutil.SeedUser(t, s.db, "u", models.RoleStudent)
	c := testutil.SeedCourse(t, s.db, "Go", 1)
	tok := s.token(t, u)

	rec := s.do(t, http.MethodPost, "/api/enrollments", tok, map[string]any{"courseId": c.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("enroll = %d", rec.Code)
	}
	v := decode[learning.EnrollmentView](t, rec)

	wantError(t, s.do(t, http.MethodPost, "/api/enrollments", tok, map[string]any{"courseId": c.ID}), http.StatusConflict, apperr.KindConflict)
	wantError(t, s.do(t, http.MethodPost, "/api/enrollments", tok, map[string]any{"courseId": 999}), http.StatusNotFound, apperr.KindNotFound)
	wantError(t, s.do(t, http.MethodPost, "/api/enrollments", tok, map[string]any{}), http.StatusBadRequest, apperr.KindInvalidArgument)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/enrollments/check?courseId=%d", c.ID), tok, nil)
	if check := decode[map[string]any](t, rec); check["enrolled"] != true {
		t.Fatalf("check = %v", check)
	}

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/enrollments/%d/lessons/%d/complete", v.ID, c.Lessons[0].ID), tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete = %d (%s)", rec.Code, rec.Body.String())
	}
	res := decode[learning.CompletionResult](t, rec)
	if res.Progress != 100 || res.Certificate == nil {
		t.Fatalf("result = %+v", res)
	}

	rec = s.do(t, http.MethodGet, "/api/certificates/"+res.Certificate.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("certificate = %d", rec.Code)
	}
	cert := decode[learning.CertificateView](t, rec)
	if cert.CertificateNumber != res.Certificate.CertificateNumber || cert.User.ID != u.ID {
		t.Fatalf("certificate view = %+v", cert)
	}
	wantError(t, s.do(t, http.MethodGet, "/api/certificates/nope", "", nil), http.StatusNotFound, apperr.KindNotFound)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/enrollments/%d", v.ID), tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unenroll = %d", rec.Code)
	}
	wantError(t, s.do(t, http.MethodDelete, fmt.Sprintf("/api/enrollments/%d", v.ID), tok, nil), http.StatusNotFound, apperr.KindNotFound)
}

func TestReviewStatuses(t *testing.T) {
	s := newTestServer(t)
	u := testutil.SeedUser(t, s.db, "u", models.RoleStudent)
	c := testutil.SeedCourse(t, s.db, "Go", 0)
	tok := s.token(t, u)
	path := fmt.Sprintf("/api/courses/%d/reviews", c.ID)

	if rec := s.do(t, http.MethodPost, path, tok, map[string]any{"rating": 5, "text": "great"}); rec.Code != http.StatusCreated {
		t.Fatalf("create = %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, path, tok, map[string]any{"rating": 4, "text": "good"}); rec.Code != http.StatusOK {
		t.Fatalf("update = %d", rec.Code)
	}
	wantError(t, s.do(t, http.MethodPost, path, tok, map[string]any{"rating": 9, "text": "x"}), http.StatusBadRequest, apperr.KindInvalidArgument)

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/courses/%d", c.ID), "", nil)
	detail := decode[learning.CourseDetail](t, rec)
	if detail.Rating != 4 || len(detail.Reviews) != 1 {
		t.Fatalf("detail = %+v", detail)
	}
}

func TestLoginSessionCookie(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Ann", "email": "ann@example.com", "password": "secret1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d (%s)", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ann@example.com", "password": "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	s.h.ServeHTTP(me, req)
	if me.Code != http.StatusOK {
		t.Fatalf("me = %d", me.Code)
	}
	if u := decode[models.User](t, me); u.Email != "ann@example.com" {
		t.Fatalf("me = %+v", u)
	}

	wantError(t, s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ann@example.com", "password": "bad"}), http.StatusUnauthorized, apperr.KindUnauthenticated)
}

func TestStudentsResultsXLSX(t *testing.T) {
	s := newTestServer(t)
	teacher := testutil.SeedUser(t, s.db, "teacher", models.RoleTeacher)
	rec := s.do(t, http.MethodGet, "/api/admin/students-results?format=xlsx", s.token(t, teacher), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("empty workbook")
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(t, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}
	s.do(t, http.MethodGet, "/api/courses", "", nil)
	rec := s.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("learning_http_requests_total")) {
		t.Fatalf("metrics = %d", rec.Code)
	}
}
