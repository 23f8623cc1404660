package domain

import (
	"time"

	"github.com/google/uuid"
)

// PersonnelRole - роль сотрудника в операции
type PersonnelRole string

const (
	RoleOperatoreGauf       PersonnelRole = "Operatore Gauf"
	RoleTorcista            PersonnelRole = "Torcista"
	RoleAddettoPompe        PersonnelRole = "Addetto Pompe"
	RoleAutista             PersonnelRole = "Autista"
	RoleSupervisore         PersonnelRole = "Supervisore"
	RoleDirettoreOperazioni PersonnelRole = "Direttore Operazioni"
)

var PersonnelRoles = []PersonnelRole{
	RoleOperatoreGauf,
	RoleTorcista,
	RoleAddettoPompe,
	RoleAutista,
	RoleSupervisore,
	RoleDirettoreOperazioni,
}

func (r PersonnelRole) IsValid() bool {
	for _, role := range PersonnelRoles {
		if r == role {
			return true
		}
	}
	return false
}

// PersonnelRecord - сотрудник в локальном реестре устройства
type PersonnelRecord struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Role      PersonnelRole `json:"role" db:"role"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// BuildPersonnelHours собирает агрегат часов для операции.
// Итог считается только по выбранным сотрудникам; участники сохраняются как
// снимки имени и роли, поэтому последующее удаление сотрудника из реестра не
// меняет исторические операции. Выбранные id, которых нет в реестре, входят
// в activeCount, но не в список участников.
func BuildPersonnelHours(people []PersonnelRecord, selected []uuid.UUID, hours map[uuid.UUID]float64) PersonnelHours {
	selectedSet := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		selectedSet[id] = struct{}{}
	}

	result := PersonnelHours{
		PerPersonHours: make(map[string]float64, len(selectedSet)),
		ActiveCount:    len(selectedSet),
		Participants:   make([]Participant, 0, len(selectedSet)),
	}

	for id, h := range hours {
		if _, ok := selectedSet[id]; !ok {
			continue
		}
		result.PerPersonHours[id.String()] = h
		result.TotalHours += h
	}

	for _, p := range people {
		if _, ok := selectedSet[p.ID]; !ok {
			continue
		}
		result.Participants = append(result.Participants, Participant{
			ID:   p.ID,
			Name: p.Name,
			Role: p.Role,
		})
	}

	return result
}
