package domain

// Значения по умолчанию для политики бронирования и тарифов
const (
	DefaultWindowDays      = 2
	DefaultGuestSlotPrefix = "GUEST"
	DefaultSlotRate        = 50
	DefaultGuestPremium    = 10
	DefaultPeriodDays      = 30
	DefaultYearDays        = 365
)

// Ограничения значений конфигурации
const (
	MinWindowDays = 1
	MaxWindowDays = 30
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
