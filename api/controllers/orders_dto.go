package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/karimfahmy/sofra-backend/pkg/db/models"
)

type orderResponse struct {
	ID            uuid.UUID           `json:"id"`
	DisplayID     string              `json:"displayId"`
	Status        string              `json:"status"`
	ItemCount     int                 `json:"itemCount"`
	Subtotal      string              `json:"subtotal"`
	Discount      string              `json:"discount"`
	Total         string              `json:"total"`
	CustomerName  string              `json:"customerName"`
	CustomerPhone string              `json:"customerPhone"`
	DeliveryLabel string              `json:"deliveryLabel"`
	IsClosed      bool                `json:"isClosed"`
	Items         []orderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
}

type orderItemResponse struct {
	ID          uuid.UUID             `json:"id"`
	NameEn      string                `json:"nameEn"`
	NameAr      string                `json:"nameAr"`
	BasePrice   string                `json:"basePrice"`
	AddonsPrice string                `json:"addonsPrice"`
	Quantity    int                   `json:"quantity"`
	Note        *string               `json:"note,omitempty"`
	LineTotal   string                `json:"lineTotal"`
	Choices     []orderChoiceResponse `json:"choices"`
}

type orderChoiceResponse struct {
	GroupNameEn  string `json:"groupNameEn"`
	GroupNameAr  string `json:"groupNameAr"`
	OptionNameEn string `json:"optionNameEn"`
	OptionNameAr string `json:"optionNameAr"`
	ExtraPrice   string `json:"extraPrice"`
}

func newOrderResponse(record *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(record.Items))
	for _, item := range record.Items {
		choices := make([]orderChoiceResponse, 0, len(item.Choices))
		for _, choice := range item.Choices {
			choices = append(choices, orderChoiceResponse{
				GroupNameEn:  choice.GroupNameEn,
				GroupNameAr:  choice.GroupNameAr,
				OptionNameEn: choice.OptionNameEn,
				OptionNameAr: choice.OptionNameAr,
				ExtraPrice:   choice.ExtraPrice.StringFixed(2),
			})
		}
		items = append(items, orderItemResponse{
			ID:          item.ID,
			NameEn:      item.NameEn,
			NameAr:      item.NameAr,
			BasePrice:   item.BasePrice.StringFixed(2),
			AddonsPrice: item.AddonsPrice.StringFixed(2),
			Quantity:    item.Quantity,
			Note:        item.Note,
			LineTotal:   item.LineTotal.StringFixed(2),
			Choices:     choices,
		})
	}

	return orderResponse{
		ID:            record.ID,
		DisplayID:     record.DisplayID,
		Status:        string(record.Status),
		ItemCount:     record.ItemCount,
		Subtotal:      record.Subtotal.StringFixed(2),
		Discount:      record.Discount.StringFixed(2),
		Total:         record.Total.StringFixed(2),
		CustomerName:  record.CustomerName,
		CustomerPhone: record.CustomerPhone,
		DeliveryLabel: record.DeliveryLabel,
		IsClosed:      record.IsClosed,
		Items:         items,
		CreatedAt:     record.CreatedAt,
	}
}

func newOrderListResponse(records []models.Order) []orderResponse {
	out := make([]orderResponse, 0, len(records))
	for i := range records {
		summary := newOrderResponse(&records[i])
		summary.Items = nil
		out = append(out, summary)
	}
	return out
}
