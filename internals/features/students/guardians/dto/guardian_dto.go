package dto

import (
	"strings"

	"transportku_backend/internals/features/students/guardians/model"
)

type CreateGuardianRequest struct {
	Name    string  `json:"name" validate:"required,max=150"`
	Email   *string `json:"email" validate:"omitempty,email,max=150"`
	Phone   string  `json:"phone" validate:"required,max=20"`
	Address *string `json:"address"`
}

func (r CreateGuardianRequest) ToModel() *model.Guardian {
	return &model.Guardian{
		GuardianName:    strings.TrimSpace(r.Name),
		GuardianEmail:   trimPtr(r.Email),
		GuardianPhone:   strings.TrimSpace(r.Phone),
		GuardianAddress: trimPtr(r.Address),
	}
}

type UpdateGuardianRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=150"`
	Email   *string `json:"email" validate:"omitempty,email,max=150"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Address *string `json:"address"`
}

func (r UpdateGuardianRequest) Apply(g *model.Guardian) {
	if r.Name != nil {
		g.GuardianName = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		g.GuardianEmail = trimPtr(r.Email)
	}
	if r.Phone != nil {
		g.GuardianPhone = strings.TrimSpace(*r.Phone)
	}
	if r.Address != nil {
		g.GuardianAddress = trimPtr(r.Address)
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
