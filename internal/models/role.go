package models

// Role — роль пользователя. Хранится строкой, чтобы значения в БД читались без справочника.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// Valid сообщает, является ли значение одной из известных ролей.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// CanManageCatalog — создавать и править курсы, уроки и вебинары могут учителя и админы.
func (r Role) CanManageCatalog() bool {
	return r == RoleTeacher || r == RoleAdmin
}
