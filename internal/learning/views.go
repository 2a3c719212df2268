package learning

import (
	"time"

	"github.com/s/onlineLearning/internal/models"
)

type CertificateRef struct {
	ID                string    `json:"id"`
	CertificateNumber string    `json:"certificate_number"`
	IssuedAt          time.Time `json:"issued_at"`
}

func certificateRef(c *models.Certificate) *CertificateRef {
	if c == nil || c.ID == 0 {
		return nil
	}
	return &CertificateRef{ID: c.PublicID, CertificateNumber: c.CertificateNumber, IssuedAt: c.IssuedAt}
}

type LessonRef struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	Order    int    `json:"order"`
}

type CourseSummary struct {
	ID           uint        `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Instructor   string      `json:"instructor"`
	Duration     string      `json:"duration"`
	Category     string      `json:"category"`
	Rating       float64     `json:"rating"`
	Students     int         `json:"students"`
	Lessons      []LessonRef `json:"lessons"`
	TotalLessons int         `json:"total_lessons"`
	Deleted      bool        `json:"deleted,omitempty"`
}

func courseSummary(c *models.Course) CourseSummary {
	lessons := make([]LessonRef, 0, len(c.Lessons))
	for _, l := range c.Lessons {
		lessons = append(lessons, LessonRef{ID: l.ID, Title: l.Title, Duration: l.Duration, Order: l.Order})
	}
	return CourseSummary{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Instructor:   c.Instructor,
		Duration:     c.Duration,
		Category:     c.Category,
		Rating:       c.Rating,
		Students:     c.Students,
		Lessons:      lessons,
		TotalLessons: len(lessons),
	}
}

// deletedCourse — заглушка для записей, курс которых удалили
func deletedCourse(id uint) CourseSummary {
	return CourseSummary{
		ID:          id,
		Title:       "Курс удален",
		Description: "Этот курс был удален",
		Instructor:  "Неизвестно",
		Duration:    "Неизвестно",
		Category:    "Неизвестно",
		Lessons:     []LessonRef{},
		Deleted:     true,
	}
}

type EnrollmentView struct {
	ID          uint            `json:"id"`
	UserID      uint            `json:"user_id"`
	CourseID    uint            `json:"course_id"`
	Progress    float64         `json:"progress"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Certificate *CertificateRef `json:"certificate"`
	Course      CourseSummary   `json:"course"`
}

type CompletionResult struct {
	Progress         float64         `json:"progress"`
	Certificate      *CertificateRef `json:"certificate"`
	Message          string          `json:"message"`
	AlreadyCompleted bool            `json:"already_completed"`
}

type CertificateView struct {
	ID                string    `json:"id"`
	CertificateNumber string    `json:"certificate_number"`
	IssuedAt          time.Time `json:"issued_at"`
	Course            struct {
		ID          uint   `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Instructor  string `json:"instructor"`
		Category    string `json:"category"`
	} `json:"course"`
	User struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

type ReviewView struct {
	ID           uint      `json:"id"`
	CourseID     uint      `json:"course_id"`
	UserID       uint      `json:"user_id"`
	UserName     string    `json:"user_name"`
	Rating       int       `json:"rating"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CourseRating float64   `json:"course_rating,omitempty"`
}

func reviewView(r *models.CourseReview) ReviewView {
	return ReviewView{
		ID:        r.ID,
		CourseID:  r.CourseID,
		UserID:    r.UserID,
		UserName:  r.User.Name,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// CourseDetail — курс с уроками и отзывами (новые сверху)
type CourseDetail struct {
	models.Course
	Reviews []ReviewView `json:"reviews"`
}

type StudentResult struct {
	StudentID      uint      `json:"student_id"`
	StudentName    string    `json:"student_name"`
	StudentEmail   string    `json:"student_email"`
	CourseID       uint      `json:"course_id"`
	CourseTitle    string    `json:"course_title"`
	CourseCategory string    `json:"course_category"`
	Instructor     string    `json:"instructor"`
	Duration       string    `json:"duration"`
	Progress       int       `json:"progress"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	LastUpdate     time.Time `json:"last_update"`
}
