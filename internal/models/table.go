package models

import (
	"fmt"
	"strings"
	"time"

	"checky/internal/common"

	"github.com/google/uuid"
)

type TableStatus string

const (
	TableStatusAvailable    TableStatus = "AVAILABLE"
	TableStatusOccupied     TableStatus = "OCCUPIED"
	TableStatusReserved     TableStatus = "RESERVED"
	TableStatusCleaning     TableStatus = "CLEANING"
	TableStatusOutOfService TableStatus = "OUT_OF_SERVICE"
)

func TableStatuses() []TableStatus {
	return []TableStatus{
		TableStatusAvailable,
		TableStatusOccupied,
		TableStatusReserved,
		TableStatusCleaning,
		TableStatusOutOfService,
	}
}

func ParseTableStatus(s string) (TableStatus, error) {
	st := TableStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved, TableStatusCleaning, TableStatusOutOfService:
		return st, nil
	}
	return "", fmt.Errorf("%w: table status %q", common.ErrInvalidEnumValue, s)
}

type TableType string

const (
	TableTypeIndoor      TableType = "INDOOR"
	TableTypeOutdoor     TableType = "OUTDOOR"
	TableTypeBar         TableType = "BAR"
	TableTypeBooth       TableType = "BOOTH"
	TableTypePrivateRoom TableType = "PRIVATE_ROOM"
)

func TableTypes() []TableType {
	return []TableType{TableTypeIndoor, TableTypeOutdoor, TableTypeBar, TableTypeBooth, TableTypePrivateRoom}
}

func ParseTableType(s string) (TableType, error) {
	t := TableType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TableTypeIndoor, TableTypeOutdoor, TableTypeBar, TableTypeBooth, TableTypePrivateRoom:
		return t, nil
	}
	return "", fmt.Errorf("%w: table type %q", common.ErrInvalidEnumValue, s)
}

type RestaurantTable struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	TenantID     uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	TableNumber  string      `json:"table_number" db:"table_number"`
	TableName    *string     `json:"table_name" db:"table_name"`
	Capacity     int         `json:"capacity" db:"capacity"`
	Status       TableStatus `json:"status" db:"status"`
	Type         TableType   `json:"table_type" db:"table_type"`
	Location     *string     `json:"location" db:"location"`
	IsReservable bool        `json:"is_reservable" db:"is_reservable"`
	Notes        *string     `json:"notes" db:"notes"`
	IsActive     bool        `json:"is_active" db:"is_active"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// TableFilter holds list criteria for tables
type TableFilter struct {
	Status         *TableStatus `json:"status,omitempty"`
	Type           *TableType   `json:"table_type,omitempty"`
	ReservableOnly bool         `json:"reservable_only,omitempty"`
	MinCapacity    *int         `json:"min_capacity,omitempty"`
}
