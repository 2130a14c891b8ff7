// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitKey Идентификатор номера или тарифа
type UnitKey struct {
	ItemID   string `json:"itemId" validate:"required"`
	RateName string `json:"rateName" validate:"required"`
}

// Stay Даты и состав гостей, для которых получена цена
type Stay struct {
	CheckIn  string `json:"checkIn,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CheckOut string `json:"checkOut,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Adults   int    `json:"adults" validate:"gte=0"`
	Children int    `json:"children" validate:"gte=0"`
	Rooms    int    `json:"rooms" validate:"gte=0"`
}

// Extra Обязательная доплата
type Extra struct {
	Name   string          `json:"name" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// OpenNegotiationRequest Открытие торга по номеру
type OpenNegotiationRequest struct {
	Unit           UnitKey         `json:"unit"`
	ReferencePrice decimal.Decimal `json:"referencePrice"`
	QuotedAt       *time.Time      `json:"quotedAt,omitempty"`
	Stay           Stay            `json:"stay"`
	Extras         []Extra         `json:"extras,omitempty" validate:"dive"`
	TaxRate        decimal.Decimal `json:"taxRate"`
}

// SubmitTargetRequest Желаемая цена пользователя
type SubmitTargetRequest struct {
	Unit        UnitKey         `json:"unit"`
	TargetPrice decimal.Decimal `json:"targetPrice"`
	// Currency Валюта цены, по умолчанию каноническая
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
}

// CounterOffer Решение продавца
type CounterOffer struct {
	Outcome        string          `json:"outcome"`
	Band           string          `json:"band"`
	SettledPrice   decimal.Decimal `json:"settledPrice"`
	RequestedPrice decimal.Decimal `json:"requestedPrice"`
	ReferencePrice decimal.Decimal `json:"referencePrice"`
	Discount       decimal.Decimal `json:"discount"`
}

// Negotiation Состояние торга
type Negotiation struct {
	ID             string            `json:"id"`
	Unit           UnitKey           `json:"unit"`
	ReferencePrice decimal.Decimal   `json:"referencePrice"`
	Phase          string            `json:"phase"`
	CounterOffer   *CounterOffer     `json:"counterOffer,omitempty"`
	GrandTotal     *decimal.Decimal  `json:"grandTotal,omitempty"`
	ValidUntil     *time.Time        `json:"validUntil,omitempty"`
	RemainingUnits int               `json:"remainingUnits"`
	TriedPrices    []decimal.Decimal `json:"triedPrices"`
	LastRejection  string            `json:"lastRejection,omitempty"`
	Steps          int               `json:"steps"`
}

// Checkout Зафиксированный контекст для экрана оплаты
type Checkout struct {
	Unit            UnitKey         `json:"unit"`
	Stay            Stay            `json:"stay"`
	SettledPrice    decimal.Decimal `json:"settledPrice"`
	MandatoryExtras []Extra         `json:"mandatoryExtras"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	Currency        string          `json:"currency"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
	ValidUntil      time.Time       `json:"validUntil"`
	RemainingUnits  int             `json:"remainingUnits"`
}

// CommitBookingRequest Итог, посчитанный клиентом на экране оплаты
type CommitBookingRequest struct {
	ComputedTotal decimal.Decimal `json:"computedTotal"`
}

// Booking Подтвержденное бронирование
type Booking struct {
	ID           string          `json:"id"`
	SessionID    string          `json:"sessionId"`
	Unit         UnitKey         `json:"unit"`
	Stay         Stay            `json:"stay"`
	SettledPrice decimal.Decimal `json:"settledPrice"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
	Currency     string          `json:"currency"`
	CommittedAt  time.Time       `json:"committedAt"`
	// Nights Количество ночей, 0 если даты не заданы
	Nights int `json:"nights"`
	// Guests Взрослые и дети вместе
	Guests int `json:"guests"`
}

// BookingList Страница бронирований, новые первыми
type BookingList struct {
	Bookings []Booking `json:"bookings"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// CommitBookingResponse Результат бронирования. При расхождении цены
// Committed=false, а Drift содержит разницу.
type CommitBookingResponse struct {
	Committed bool            `json:"committed"`
	Drift     decimal.Decimal `json:"drift"`
	Booking   *Booking        `json:"booking,omitempty"`
	Code      ErrorCode       `json:"code,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	SupportID string `json:"supportId,omitempty"`
}

// ErrorCode Код ошибки
type ErrorCode string
