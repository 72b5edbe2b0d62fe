// Package usage считает помесячное использование мест и стоимость для компаний.
// Все функции чистые: на вход коллекции, на выход новые значения, без обращения к хранилищу
package usage

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Aggregate раскладывает бронирования компании по месяцам даты бронирования.
// Бронирования других компаний пропускаются
func Aggregate(company *domain.Company, bookings []*domain.Booking, now time.Time, pricing domain.Pricing) map[domain.Period]*domain.MonthlyUsage {
	result := make(map[domain.Period]*domain.MonthlyUsage)
	guestCost := pricing.GuestSlotCost()

	for _, b := range bookings {
		if b.CompanyID != company.ID {
			continue
		}

		period := domain.PeriodOf(b.BookingDate)
		row, ok := result[period]
		if !ok {
			row = emptyRow(company, period)
			result[period] = row
		}

		row.Total++
		if b.IsGuest(pricing.GuestSlotPrefix) {
			row.Guest++
			row.Actual = row.Actual.Add(guestCost)
		}
		if b.IsCancelled() {
			row.Cancelled++
		}
		if b.IsNoShow(now) {
			row.NoShow++
		}
	}

	projected := ProjectedCost(company, pricing)
	for _, row := range result {
		row.Projected = projected
		row.Actual = row.Actual.Add(projected)
	}

	return result
}

// Periods возвращает различные месяцы, в которые есть бронирования, по возрастанию
func Periods(bookings []*domain.Booking) []domain.Period {
	seen := make(map[domain.Period]struct{})
	periods := make([]domain.Period, 0)

	for _, b := range bookings {
		p := domain.PeriodOf(b.BookingDate)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		periods = append(periods, p)
	}

	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Before(periods[j])
	})

	return periods
}

// SelectPeriod выбирает месяц отчёта: запрошенный, если по нему есть данные,
// иначе первый доступный. ok == false, если доступных месяцев нет
func SelectPeriod(requested domain.Period, available []domain.Period) (domain.Period, bool) {
	if len(available) == 0 {
		return domain.Period{}, false
	}
	for _, p := range available {
		if p == requested {
			return p, true
		}
	}
	return available[0], true
}

// Report строит строки отчёта за месяц: по одной на каждую компанию, название которой
// содержит search (без учёта регистра). Компания без бронирований в этом месяце
// получает полностью нулевую строку
func Report(
	companies []*domain.Company,
	bookings []*domain.Booking,
	period domain.Period,
	search string,
	now time.Time,
	pricing domain.Pricing,
) []domain.MonthlyUsage {
	needle := strings.ToLower(search)

	byCompany := make(map[int64][]*domain.Booking)
	for _, b := range bookings {
		if domain.PeriodOf(b.BookingDate) == period {
			byCompany[b.CompanyID] = append(byCompany[b.CompanyID], b)
		}
	}

	sorted := make([]*domain.Company, len(companies))
	copy(sorted, companies)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	rows := make([]domain.MonthlyUsage, 0, len(sorted))
	for _, c := range sorted {
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}

		if row, ok := Aggregate(c, byCompany[c.ID], now, pricing)[period]; ok {
			rows = append(rows, *row)
			continue
		}

		rows = append(rows, *emptyRow(c, period))
	}

	return rows
}

// ProjectedCost плановая месячная стоимость закреплённых мест
func ProjectedCost(company *domain.Company, pricing domain.Pricing) decimal.Decimal {
	return slotsCost(company, pricing, pricing.PeriodDays)
}

// CostSummary плановая стоимость закреплённых мест за месяц и за год
func CostSummary(company *domain.Company, pricing domain.Pricing) domain.CostSummary {
	return domain.CostSummary{
		CompanyID:      company.ID,
		CompanyName:    company.Name,
		AllocatedSlots: company.AllocatedParkingSlots,
		MonthlyCost:    slotsCost(company, pricing, pricing.PeriodDays),
		YearlyCost:     slotsCost(company, pricing, pricing.YearDays),
	}
}

func slotsCost(company *domain.Company, pricing domain.Pricing, days int) decimal.Decimal {
	return pricing.SlotRate.
		Mul(decimal.NewFromInt(int64(company.AllocatedParkingSlots))).
		Mul(decimal.NewFromInt(int64(days)))
}

func emptyRow(company *domain.Company, period domain.Period) *domain.MonthlyUsage {
	return &domain.MonthlyUsage{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Period:      period,
		Projected:   decimal.Zero,
		Actual:      decimal.Zero,
	}
}
