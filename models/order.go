package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type ServiceOrder struct {
	ID                 uint        `json:"id" gorm:"primaryKey"`
	UserID             uint        `json:"user_id" gorm:"index;not null"`
	ProviderID         uint        `json:"provider_id" gorm:"index;not null"`
	ServiceType        string      `json:"service_type"`
	Date               string      `json:"date"`
	Time               string      `json:"time"`
	Status             OrderStatus `json:"status" gorm:"index;not null;default:pending"`
	Price              float64     `json:"price" gorm:"type:decimal(10,2);default:0"`
	Address            string      `json:"address"`
	Lat                *float64    `json:"lat"`
	Lng                *float64    `json:"lng"`
	DescriptionRequest string      `json:"description_request"`
	PhotosRequest      JSONStrings `json:"photos_request" gorm:"type:text"`
	PhotoBefore        string      `json:"photo_before"`
	PhotoAfter         string      `json:"photo_after"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (o *ServiceOrder) BeforeCreate(tx *gorm.DB) error {
	if o.Status == "" {
		o.Status = StatusPending
	}
	if o.PhotosRequest == nil {
		o.PhotosRequest = JSONStrings{}
	}
	return nil
}

// HasBothPhotos reports whether the before and after photos are attached.
func (o *ServiceOrder) HasBothPhotos() bool {
	return o.PhotoBefore != "" && o.PhotoAfter != ""
}

// OrderPatch carries the fields a PATCH /orders/:id body may set. A nil
// field was absent from the request and is left untouched.
type OrderPatch struct {
	Status        *OrderStatus `json:"status"`
	Price         *FlexFloat   `json:"price"`
	PhotosRequest *JSONStrings `json:"photos_request"`
	PhotoBefore   *string      `json:"photo_before"`
	PhotoAfter    *string      `json:"photo_after"`
}

func (p OrderPatch) Empty() bool {
	return p.Status == nil && p.Price == nil && p.PhotosRequest == nil &&
		p.PhotoBefore == nil && p.PhotoAfter == nil
}

// Apply validates p against the order's lifecycle, mutates o and returns the
// column set to persist.
func (o *ServiceOrder) Apply(p OrderPatch) (map[string]interface{}, error) {
	if p.Empty() {
		return nil, ErrNoFields
	}
	if o.Status == StatusCompleted &&
		(p.Price != nil || p.PhotosRequest != nil || p.PhotoBefore != nil || p.PhotoAfter != nil) {
		return nil, ErrOrderLocked
	}
	if p.Price != nil && *p.Price < 0 {
		return nil, ErrNegativePrice
	}

	before, after := o.PhotoBefore, o.PhotoAfter
	if p.PhotoBefore != nil {
		before = *p.PhotoBefore
	}
	if p.PhotoAfter != nil {
		after = *p.PhotoAfter
	}

	target := o.Status
	if p.Status != nil && *p.Status != o.Status {
		if err := o.Status.CheckTransition(*p.Status); err != nil {
			return nil, err
		}
		target = *p.Status
	}
	// Both photos must stay attached from the finish step onwards.
	if (target == StatusWaitingConfirmation || target == StatusCompleted) && (before == "" || after == "") {
		return nil, ErrPhotosRequired
	}

	updates := make(map[string]interface{})
	if p.Status != nil {
		o.Status = *p.Status
		updates["status"] = o.Status
	}
	if p.Price != nil {
		o.Price = float64(*p.Price)
		updates["price"] = o.Price
	}
	if p.PhotosRequest != nil {
		o.PhotosRequest = *p.PhotosRequest
		updates["photos_request"] = o.PhotosRequest
	}
	if p.PhotoBefore != nil {
		o.PhotoBefore = before
		updates["photo_before"] = before
	}
	if p.PhotoAfter != nil {
		o.PhotoAfter = after
		updates["photo_after"] = after
	}
	return updates, nil
}

// OrderView is an order joined with the counterpart's display fields.
type OrderView struct {
	ServiceOrder
	ProviderName  string `json:"provider_name,omitempty"`
	ProviderPhoto string `json:"provider_photo,omitempty"`
	ClientName    string `json:"client_name,omitempty"`
	ClientPhone   string `json:"client_phone,omitempty"`
	ClientPhoto   string `json:"client_photo,omitempty"`
}
