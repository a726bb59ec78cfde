package http

import "github.com/verdara/verdara-backend/internal/designs/domain"

type saveDesignReq struct {
	Design   domain.Design `json:"design"`
	IsPublic *bool         `json:"isPublic"`
}
