package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/karimfahmy/sofra-backend/internal/cart"
	"github.com/karimfahmy/sofra-backend/pkg/db/models"
)

type addItemRequest struct {
	MenuItemID uuid.UUID          `json:"menuItemId" validate:"required"`
	Quantity   int                `json:"quantity" validate:"required,min=1"`
	Note       *string            `json:"note"`
	Selections []selectionRequest `json:"selections" validate:"dive"`
}

type selectionRequest struct {
	GroupID   uuid.UUID   `json:"groupId" validate:"required"`
	OptionIDs []uuid.UUID `json:"optionIds" validate:"required,min=1"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

func toAddItemInput(payload addItemRequest) cart.AddItemInput {
	selections := make([]cart.SelectionInput, 0, len(payload.Selections))
	for _, sel := range payload.Selections {
		selections = append(selections, cart.SelectionInput{
			GroupID:   sel.GroupID,
			OptionIDs: sel.OptionIDs,
		})
	}
	return cart.AddItemInput{
		MenuItemID: payload.MenuItemID,
		Quantity:   payload.Quantity,
		Note:       payload.Note,
		Selections: selections,
	}
}

type cartResponse struct {
	ID             uuid.UUID          `json:"id"`
	Status         string             `json:"status"`
	Subtotal       string             `json:"subtotal"`
	ItemCount      int                `json:"itemCount"`
	Items          []cartItemResponse `json:"items"`
	LastActivityAt time.Time          `json:"lastActivityAt"`
}

type cartItemResponse struct {
	ID          uuid.UUID            `json:"id"`
	MenuItemID  uuid.UUID            `json:"menuItemId"`
	NameEn      string               `json:"nameEn"`
	NameAr      string               `json:"nameAr"`
	BasePrice   string               `json:"basePrice"`
	AddonsPrice string               `json:"addonsPrice"`
	Quantity    int                  `json:"quantity"`
	Note        *string              `json:"note,omitempty"`
	LineTotal   string               `json:"lineTotal"`
	Choices     []cartChoiceResponse `json:"choices"`
}

type cartChoiceResponse struct {
	GroupNameEn  string `json:"groupNameEn"`
	GroupNameAr  string `json:"groupNameAr"`
	OptionNameEn string `json:"optionNameEn"`
	OptionNameAr string `json:"optionNameAr"`
	ExtraPrice   string `json:"extraPrice"`
}

func newCartResponse(record *models.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(record.Items))
	itemCount := 0
	for _, item := range record.Items {
		choices := make([]cartChoiceResponse, 0, len(item.Choices))
		for _, choice := range item.Choices {
			choices = append(choices, cartChoiceResponse{
				GroupNameEn:  choice.GroupNameEn,
				GroupNameAr:  choice.GroupNameAr,
				OptionNameEn: choice.OptionNameEn,
				OptionNameAr: choice.OptionNameAr,
				ExtraPrice:   choice.ExtraPrice.StringFixed(2),
			})
		}
		items = append(items, cartItemResponse{
			ID:          item.ID,
			MenuItemID:  item.MenuItemID,
			NameEn:      item.NameEn,
			NameAr:      item.NameAr,
			BasePrice:   item.BasePrice.StringFixed(2),
			AddonsPrice: item.AddonsPrice.StringFixed(2),
			Quantity:    item.Quantity,
			Note:        item.Note,
			LineTotal:   item.LineTotal.StringFixed(2),
			Choices:     choices,
		})
		itemCount += item.Quantity
	}

	return cartResponse{
		ID:             record.ID,
		Status:         string(record.Status),
		Subtotal:       record.Subtotal.StringFixed(2),
		ItemCount:      itemCount,
		Items:          items,
		LastActivityAt: record.LastActivityAt,
	}
}
