package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Period календарный месяц отчёта
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf возвращает месяц, к которому относится дата
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Before упорядочивает периоды по (год, месяц)
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// IsZero возвращает true для незаданного периода
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// String формат "2025-03"
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Pricing тарифы для расчёта стоимости. Задаются конфигурацией, одинаковы для всех компаний
type Pricing struct {
	SlotRate        decimal.Decimal // Стоимость места в день
	GuestPremium    decimal.Decimal // Надбавка за гостевое место
	PeriodDays      int             // Множитель месячной стоимости (фиксированные 30 дней)
	YearDays        int             // Множитель годовой стоимости
	GuestSlotPrefix string          // Префикс номера гостевого места
}

// DefaultPricing тарифы по умолчанию
func DefaultPricing() Pricing {
	return Pricing{
		SlotRate:        decimal.NewFromInt(DefaultSlotRate),
		GuestPremium:    decimal.NewFromInt(DefaultGuestPremium),
		PeriodDays:      DefaultPeriodDays,
		YearDays:        DefaultYearDays,
		GuestSlotPrefix: DefaultGuestSlotPrefix,
	}
}

// GuestSlotCost стоимость одного гостевого бронирования
func (p Pricing) GuestSlotCost() decimal.Decimal {
	return p.SlotRate.Add(p.GuestPremium)
}

// MonthlyUsage метрики использования мест компанией за месяц. Не хранится, вычисляется по запросу
type MonthlyUsage struct {
	CompanyID   int64
	CompanyName string
	Period      Period
	Total       int
	Guest       int
	Cancelled   int
	NoShow      int
	Projected   decimal.Decimal
	Actual      decimal.Decimal
}

// CostSummary плановая стоимость закреплённых мест компании
type CostSummary struct {
	CompanyID      int64
	CompanyName    string
	AllocatedSlots int
	MonthlyCost    decimal.Decimal
	YearlyCost     decimal.Decimal
}
