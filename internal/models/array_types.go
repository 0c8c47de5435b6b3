package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONList stores a slice in a JSONB column
type JSONList[T any] []T

// Value implements the driver.Valuer interface
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *JSONList[T]) Scan(src interface{}) error {
	if src == nil {
		*l = JSONList[T]{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONList: %T", src)
	}

	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	if out == nil {
		out = []T{}
	}
	*l = out
	return nil
}

// SpotList is a JSONB list of denormalized spots
type SpotList = JSONList[ParkingSpot]

// ReceiptList is a JSONB list of booking receipts
type ReceiptList = JSONList[BookingReceipt]

// SubmissionList is a JSONB list of spot submissions
type SubmissionList = JSONList[SpotSubmission]
