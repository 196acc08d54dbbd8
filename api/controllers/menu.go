package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/karimfahmy/sofra-backend/api/responses"
	"github.com/karimfahmy/sofra-backend/pkg/db/models"
	pkgerrors "github.com/karimfahmy/sofra-backend/pkg/errors"
	"github.com/karimfahmy/sofra-backend/pkg/logger"
)

type menuLister interface {
	ListAvailable(ctx context.Context) ([]models.MenuItem, error)
}

type menuItemResponse struct {
	ID            uuid.UUID             `json:"id"`
	NameEn        string                `json:"nameEn"`
	NameAr        string                `json:"nameAr"`
	DescriptionEn *string               `json:"descriptionEn,omitempty"`
	DescriptionAr *string               `json:"descriptionAr,omitempty"`
	BasePrice     string                `json:"basePrice"`
	ImageURL      *string               `json:"imageUrl,omitempty"`
	Tags          []string              `json:"tags,omitempty"`
	ChoiceGroups  []choiceGroupResponse `json:"choiceGroups"`
}

type choiceGroupResponse struct {
	ID        uuid.UUID              `json:"id"`
	NameEn    string                 `json:"nameEn"`
	NameAr    string                 `json:"nameAr"`
	MinSelect int                    `json:"minSelect"`
	MaxSelect int                    `json:"maxSelect"`
	Options   []choiceOptionResponse `json:"options"`
}

type choiceOptionResponse struct {
	ID          uuid.UUID `json:"id"`
	NameEn      string    `json:"nameEn"`
	NameAr      string    `json:"nameAr"`
	ExtraPrice  string    `json:"extraPrice"`
	IsAvailable bool      `json:"isAvailable"`
}

// MenuList returns the available catalog with customization groups.
func MenuList(repo menuLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu repository unavailable"))
			return
		}

		items, err := repo.ListAvailable(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu"))
			return
		}

		out := make([]menuItemResponse, 0, len(items))
		for _, item := range items {
			groups := make([]choiceGroupResponse, 0, len(item.ChoiceGroups))
			for _, group := range item.ChoiceGroups {
				options := make([]choiceOptionResponse, 0, len(group.Options))
				for _, option := range group.Options {
					options = append(options, choiceOptionResponse{
						ID:          option.ID,
						NameEn:      option.NameEn,
						NameAr:      option.NameAr,
						ExtraPrice:  option.ExtraPrice.StringFixed(2),
						IsAvailable: option.IsAvailable,
					})
				}
				groups = append(groups, choiceGroupResponse{
					ID:        group.ID,
					NameEn:    group.NameEn,
					NameAr:    group.NameAr,
					MinSelect: group.MinSelect,
					MaxSelect: group.MaxSelect,
					Options:   options,
				})
			}
			out = append(out, menuItemResponse{
				ID:            item.ID,
				NameEn:        item.NameEn,
				NameAr:        item.NameAr,
				DescriptionEn: item.DescriptionEn,
				DescriptionAr: item.DescriptionAr,
				BasePrice:     item.BasePrice.StringFixed(2),
				ImageURL:      item.ImageURL,
				Tags:          []string(item.Tags),
				ChoiceGroups:  groups,
			})
		}

		responses.WriteSuccess(w, out)
	}
}
