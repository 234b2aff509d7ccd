package models

import "github.com/senyabanana/mercado-publico-monitor/internal/safe"

type (
	TenderType            string // Тип тендера по сумме в UTM
	Currency              string // Валюта тендера
	EstimationType        int    // Способ оценки суммы
	PaymentModality       int    // Модальность оплаты
	TimeUnit              int    // Единица времени
	AdministrativeActType int    // Тип административного акта
	PaymentType           int    // Тип оплаты
)

const (
	TenderTypeL1 TenderType = "L1"
	TenderTypeLE TenderType = "LE"
	TenderTypeLP TenderType = "LP"
	TenderTypeLQ TenderType = "LQ"
	TenderTypeLR TenderType = "LR"
	TenderTypeE2 TenderType = "E2"
	TenderTypeCO TenderType = "CO"
	TenderTypeB2 TenderType = "B2"
	TenderTypeH2 TenderType = "H2"
	TenderTypeI2 TenderType = "I2"
	TenderTypeLS TenderType = "LS"

	CurrencyCLP Currency = "CLP"
	CurrencyCLF Currency = "CLF"
	CurrencyUSD Currency = "USD"
	CurrencyUTM Currency = "UTM"
	CurrencyEUR Currency = "EUR"
)

const (
	AvailableBudget EstimationType = iota + 1
	ReferencePrice
	CannotEstimate
)

const (
	PaymentDays30 PaymentModality = iota + 1
	PaymentDays30To90
	PaymentSameDay
	PaymentAnnual
	PaymentBimonthly
	PaymentOnDelivery
	PaymentMonthly
	PaymentByProgress
	PaymentQuarterly
	PaymentDays60
)

const (
	Hours TimeUnit = iota + 1
	Days
	Weeks
	Months
	Years
)

const (
	Authorization AdministrativeActType = iota + 1
	Resolution
	Agreement
	Decree
	OtherAct
)

const (
	CashPayment PaymentType = iota + 1
	CreditPayment
	TransferPayment
	CheckPayment
	ElectronicPayment
	OtherPayment
)

var tenderTypes = map[TenderType]string{
	TenderTypeL1: "Licitación Pública Menor a 100 UTM",
	TenderTypeLE: "Licitación Pública igual o superior a 100 UTM e inferior a 1.000 UTM",
	TenderTypeLP: "Licitación Pública igual o superior a 1.000 UTM e inferior a 2.000 UTM",
	TenderTypeLQ: "Licitación Pública igual o superior a 2.000 UTM e inferior a 5.000 UTM",
	TenderTypeLR: "Licitación Pública igual o superior a 5.000 UTM",
	TenderTypeE2: "Licitación Privada Menor a 100 UTM",
	TenderTypeCO: "Licitación Privada igual o superior a 100 UTM e inferior a 1000 UTM",
	TenderTypeB2: "Licitación Privada igual o superior a 1000 UTM e inferior a 2000 UTM",
	TenderTypeH2: "Licitación Privada igual o superior a 2000 UTM e inferior a 5000 UTM",
	TenderTypeI2: "Licitación Privada Mayor a 5000 UTM",
	TenderTypeLS: "Licitación Pública Servicios personales especializados",
}

var currencies = map[Currency]string{
	CurrencyCLP: "Peso Chileno",
	CurrencyCLF: "Unidad de Fomento",
	CurrencyUSD: "Dólar Americano",
	CurrencyUTM: "Unidad Tributaria Mensual",
	CurrencyEUR: "Euro",
}

var estimationTypes = map[EstimationType]string{
	AvailableBudget: "Presupuesto Disponible",
	ReferencePrice:  "Precio Referencial",
	CannotEstimate:  "Monto no es posible de estimar",
}

var paymentModalities = map[PaymentModality]string{
	PaymentDays30:     "Pago a 30 días",
	PaymentDays30To90: "Pago a 30, 60 y 90 días",
	PaymentSameDay:    "Pago al día",
	PaymentAnnual:     "Pago Anual",
	PaymentBimonthly:  "Pago Bimensual",
	PaymentOnDelivery: "Pago Contra Entrega Conforme",
	PaymentMonthly:    "Pagos Mensuales",
	PaymentByProgress: "Pago Por Estado de Avance",
	PaymentQuarterly:  "Pago Trimestral",
	PaymentDays60:     "Pago a 60 días",
}

var timeUnits = map[TimeUnit]string{
	Hours:  "Horas",
	Days:   "Días",
	Weeks:  "Semanas",
	Months: "Meses",
	Years:  "Años",
}

var administrativeActTypes = map[AdministrativeActType]string{
	Authorization: "Autorización",
	Resolution:    "Resolución",
	Agreement:     "Acuerdo",
	Decree:        "Decreto",
	OtherAct:      "Otros",
}

var paymentTypes = map[PaymentType]string{
	CashPayment:       "Pago en efectivo",
	CreditPayment:     "Pago con crédito",
	TransferPayment:   "Transferencia bancaria",
	CheckPayment:      "Cheque",
	ElectronicPayment: "Pago electrónico",
	OtherPayment:      "Otro tipo de pago",
}

func (t TenderType) Description() string { return tenderTypes[t] }
func (c Currency) Description() string { return currencies[c] }
func (e EstimationType) Description() string { return estimationTypes[e] }
func (p PaymentModality) Description() string { return paymentModalities[p] }
func (u TimeUnit) Description() string { return timeUnits[u] }
func (a AdministrativeActType) Description() string { return administrativeActTypes[a] }
func (p PaymentType) Description() string { return paymentTypes[p] }

// TenderTypeFromCode возвращает тип тендера по коду или nil для неизвестного кода.
func TenderTypeFromCode(v any) *TenderType { return textCode(tenderTypes, v) }

// CurrencyFromCode возвращает валюту по коду или nil.
func CurrencyFromCode(v any) *Currency { return textCode(currencies, v) }

func EstimationTypeFromCode(v any) *EstimationType { return intCode(estimationTypes, v) }

func PaymentModalityFromCode(v any) *PaymentModality { return intCode(paymentModalities, v) }

func TimeUnitFromCode(v any) *TimeUnit { return intCode(timeUnits, v) }

func AdministrativeActTypeFromCode(v any) *AdministrativeActType {
	return intCode(administrativeActTypes, v)
}

func PaymentTypeFromCode(v any) *PaymentType { return intCode(paymentTypes, v) }

func textCode[T ~string](table map[T]string, v any) *T {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	code := T(s)
	if _, known := table[code]; !known {
		return nil
	}
	return &code
}

func intCode[T ~int](table map[T]string, v any) *T {
	n := safe.Int(v)
	if n == nil {
		return nil
	}
	code := T(*n)
	if _, known := table[code]; !known {
		return nil
	}
	return &code
}
