package domain

// Identity - аутентифицированный пользователь текущей сессии
type Identity struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Rank      string `json:"rank,omitempty"`
}

// DisplayName - "Имя Фамилия" для отчётов
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	switch {
	case i.FirstName != "" && i.LastName != "":
		return i.FirstName + " " + i.LastName
	case i.FirstName != "":
		return i.FirstName
	case i.LastName != "":
		return i.LastName
	default:
		return i.Email
	}
}
