package models

import "time"

// DeliveryPartner is the rider profile linked 1:1 to a confirmed account.
type DeliveryPartner struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"accountId"`
	Availability  bool      `json:"availability"`
	VehicleType   string    `json:"vehicleType" example:"motorcycle"`
	Color         string    `json:"color" example:"red"`
	Model         string    `json:"model" example:"Honda CB125"`
	ChassisNumber string    `json:"chassisNumber" example:"JH2SC5900FM200123"`
	PlateNumber   string    `json:"plateNumber" example:"LAG-334-XY"`
	OwnedSince    time.Time `json:"ownedSince"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
