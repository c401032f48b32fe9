package icao

import (
	"fmt"
	"time"
)

// Date is a CBEFF calendar date: year (2 bytes), month, day.
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}

func decodeDate(v []byte) Date {
	return Date{Year: uint16(v[0])<<8 | uint16(v[1]), Month: v[2], Day: v[3]}
}

// Valid reports whether the fields form a real calendar date.
func (d Date) Valid() bool {
	t := time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
	return d.Month >= 1 && d.Month <= 12 && t.Day() == int(d.Day) && t.Month() == time.Month(d.Month)
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DateTime is the CBEFF creation date (tag '83'): a Date followed by hour, minute, second, in UTC.
type DateTime struct {
	Date
	Hour   uint8
	Minute uint8
	Second uint8
}

// UnmarshalTLV implements tlv.Unmarshaler.
func (d *DateTime) UnmarshalTLV(v []byte) error {
	if len(v) != 7 {
		return fmt.Errorf("creation date needs 7 bytes, got %d", len(v))
	}
	*d = DateTime{Date: decodeDate(v[:4]), Hour: v[4], Minute: v[5], Second: v[6]}
	return nil
}

// Valid reports whether the fields form a real date and time of day.
func (d DateTime) Valid() bool {
	return d.Date.Valid() && d.Hour < 24 && d.Minute < 60 && d.Second < 60
}

// Time returns the creation instant in UTC.
func (d DateTime) Time() time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), int(d.Hour), int(d.Minute), int(d.Second), 0, time.UTC)
}

func (d DateTime) String() string {
	return fmt.Sprintf("%sT%02d:%02d:%02dZ", d.Date, d.Hour, d.Minute, d.Second)
}

// ValidityPeriod is the CBEFF validity range (tag '85'): two Dates.
type ValidityPeriod struct {
	From Date
	To   Date
}

// UnmarshalTLV implements tlv.Unmarshaler.
func (p *ValidityPeriod) UnmarshalTLV(v []byte) error {
	if len(v) != 8 {
		return fmt.Errorf("validity period needs 8 bytes, got %d", len(v))
	}
	*p = ValidityPeriod{From: decodeDate(v[:4]), To: decodeDate(v[4:])}
	return nil
}

// Valid reports whether both dates are real and From is not after To.
func (p ValidityPeriod) Valid() bool {
	return p.From.Valid() && p.To.Valid() && !p.From.Time().After(p.To.Time())
}

// Contains reports whether t falls on or between the From and To dates.
func (p ValidityPeriod) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(p.From.Time()) && !day.After(p.To.Time())
}

func (p ValidityPeriod) String() string {
	return fmt.Sprintf("%s..%s", p.From, p.To)
}
