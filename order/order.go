// Package order defines the order submission payload and the result of the
// create-order collaborator.
package order

import (
	"github.com/wael7705/khawam-pro-sub000/attachment"
	"github.com/wael7705/khawam-pro-sub000/id"
)

// Customer holds customer contact fields.
type Customer struct {
	Name     string `json:"customer_name"`
	Phone    string `json:"customer_phone"`
	WhatsApp string `json:"customer_whatsapp,omitempty"`
	ShopName string `json:"shop_name,omitempty"`
}

// Delivery holds delivery fields.
type Delivery struct {
	Type      string  `json:"delivery_type"`
	Address   string  `json:"delivery_address,omitempty"`
	Latitude  float64 `json:"delivery_latitude,omitempty"`
	Longitude float64 `json:"delivery_longitude,omitempty"`
	Notes     string  `json:"delivery_notes,omitempty"`
}

// Item is one line item of an order.
type Item struct {
	ServiceID      string                  `json:"service_id,omitempty"`
	ServiceName    string                  `json:"service_name"`
	Quantity       int                     `json:"quantity"`
	Specifications map[string]any          `json:"specifications"`
	DesignFiles    []attachment.Attachment `json:"design_files"`
}

// Submission is the assembled create-order payload.
type Submission struct {
	WizardID id.WizardID `json:"-"`
	Customer
	Delivery
	Items []Item `json:"items"`
	Notes string `json:"notes,omitempty"`
}

// Placed identifies a created order.
type Placed struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
}

// Result is the create-order response.
type Result struct {
	Success bool   `json:"success"`
	Order   Placed `json:"order"`
}

// AttachmentCount returns the number of design files across all items.
func (s *Submission) AttachmentCount() int {
	n := 0
	for _, it := range s.Items {
		n += len(it.DesignFiles)
	}
	return n
}
