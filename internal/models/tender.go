package models

import (
	"fmt"
	"time"
)

// RawTender - нетипизированная запись тендера из ответа API (краткая или детальная).
type RawTender map[string]any

// Tender представляет нормализованную модель тендера.
type Tender struct {
	// Идентификация
	Code        string  `json:"code"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	StatusCode  *int    `json:"status_code"`
	APIVersion  *string `json:"api_version"`

	// Классификация
	TenderType          *TenderType `json:"tender_type"`
	Currency            *Currency   `json:"currency"`
	BiddingStages       *int        `json:"bidding_stages"`
	BiddingStagesStatus *int        `json:"bidding_stages_status"`

	// Финансы
	EstimatedAmount  *float64         `json:"estimated_amount"`
	EstimationType   *EstimationType  `json:"estimation_type"`
	AmountVisibility *bool            `json:"amount_visibility"`
	PaymentModality  *PaymentModality `json:"payment_modality"`
	PaymentType      *PaymentType     `json:"payment_type"`
	FinancingSource  *string          `json:"financing_source"`

	// Заказчик
	Organization      *string `json:"organization"`
	OrganizationCode  *string `json:"organization_code"`
	OrganizationTaxID *string `json:"organization_tax_id"`
	BuyingUnit        *string `json:"buying_unit"`
	BuyingUnitCode    *string `json:"buying_unit_code"`
	BuyingUnitAddress *string `json:"buying_unit_address"`
	BuyingUnitRegion  *string `json:"buying_unit_region"`
	BuyingUnitCommune *string `json:"buying_unit_commune"`
	UserTaxID         *string `json:"user_tax_id"`
	UserCode          *string `json:"user_code"`
	UserName          *string `json:"user_name"`
	UserPosition      *string `json:"user_position"`

	// Даты
	CreationDate           *time.Time `json:"creation_date"`
	PublicationDate        *time.Time `json:"publication_date"`
	ClosingDate            *time.Time `json:"closing_date"`
	QuestionsDeadline      *time.Time `json:"questions_deadline"`
	AnswersPublicationDate *time.Time `json:"answers_publication_date"`
	TechnicalOpeningDate   *time.Time `json:"technical_opening_date"`
	EconomicOpeningDate    *time.Time `json:"economic_opening_date"`
	AwardDate              *time.Time `json:"award_date"`
	EstimatedAwardDate     *time.Time `json:"estimated_award_date"`
	SiteVisitDate          *time.Time `json:"site_visit_date"`
	BackgroundDeliveryDate *time.Time `json:"background_delivery_date"`
	PhysicalSupportDate    *time.Time `json:"physical_support_date"`
	EvaluationDate         *time.Time `json:"evaluation_date"`
	EstimatedSigningDate   *time.Time `json:"estimated_signing_date"`
	UserDefinedDate        *time.Time `json:"user_defined_date"`

	EvaluationTimeUnit *TimeUnit `json:"evaluation_time_unit"`
	ContractTimeUnit   *TimeUnit `json:"contract_time_unit"`

	// Контакты
	PaymentResponsibleName   *string `json:"payment_responsible_name"`
	PaymentResponsibleEmail  *string `json:"payment_responsible_email"`
	ContractResponsibleName  *string `json:"contract_responsible_name"`
	ContractResponsibleEmail *string `json:"contract_responsible_email"`
	ContractResponsiblePhone *string `json:"contract_responsible_phone"`

	// Условия контракта
	AllowsSubcontracting *bool   `json:"allows_subcontracting"`
	ContractDuration     *int    `json:"contract_duration"`
	ContractDurationType *string `json:"contract_duration_type"`
	IsRenewable          *bool   `json:"is_renewable"`
	RenewalTimeValue     *int    `json:"renewal_time_value"`
	RenewalTimePeriod    *string `json:"renewal_time_period"`

	// Регулирование
	RequiresComptroller     *bool   `json:"requires_comptroller"`
	TechnicalOfferPublicity *int    `json:"technical_offer_publicity"`
	PublicityJustification  *string `json:"publicity_justification"`
	HiringProhibition       *string `json:"hiring_prohibition"`
	AmountJustification     *string `json:"amount_justification"`
	DeadlineExtension       *int    `json:"deadline_extension"`

	IsPublicBid *bool `json:"is_public_bid"`
	IsInformed  *bool `json:"is_informed"`
	IsBaseType  *bool `json:"is_base_type"`

	// Присуждение
	AwardType           *AdministrativeActType `json:"award_type"`
	AwardDocumentNumber *string                `json:"award_document_number"`
	AwardDocumentDate   *time.Time             `json:"award_document_date"`
	NumberOfBidders     *int                   `json:"number_of_bidders"`
	AwardActURL         *string                `json:"award_act_url"`
	ComplaintCount      *int                   `json:"complaint_count"`

	Items            []Item            `json:"items"`
	AwardedSuppliers []AwardedSupplier `json:"awarded_suppliers"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item - позиция тендера.
type Item struct {
	Correlative      *int       `json:"correlative"`
	CategoryCode     *string    `json:"category_code"`
	CategoryName     *string    `json:"category_name"`
	ProductCode      *string    `json:"product_code"`
	ProductName      *string    `json:"product_name"`
	Description      *string    `json:"description"`
	Quantity         *float64   `json:"quantity"`
	Unit             *string    `json:"unit"`
	TenderStatusCode *int       `json:"tender_status_code"`
	Award            *ItemAward `json:"award,omitempty"`
}

// ItemAward - присуждение по отдельной позиции.
type ItemAward struct {
	SupplierTaxID   *string  `json:"supplier_tax_id"`
	SupplierName    *string  `json:"supplier_name"`
	AwardedQuantity *float64 `json:"awarded_quantity"`
	UnitPrice       *float64 `json:"unit_price"`
}

// AwardedSupplier - поставщик, которому присуждена позиция.
type AwardedSupplier struct {
	TaxID           *string  `json:"tax_id"`
	Name            *string  `json:"name"`
	ItemCorrelative *int     `json:"item_correlative"`
	AwardedQuantity *float64 `json:"awarded_quantity"`
	UnitPrice       *float64 `json:"unit_price"`
}

// TenderSummary - плоское представление тендера для списков.
type TenderSummary struct {
	Code            string   `json:"code"`
	Name            *string  `json:"name"`
	Status          *string  `json:"status"`
	Organization    *string  `json:"organization"`
	ClosingDate     *string  `json:"closing_date"`
	EstimatedAmount *float64 `json:"estimated_amount"`
	TenderType      *string  `json:"tender_type"`
}

// TenderFilter - параметры выборки тендеров.
type TenderFilter struct {
	Skip      int
	Limit     int
	Search    string
	Statuses  []string
	StartDate *time.Time
	EndDate   *time.Time
}

// Statistics - агрегаты по сохранённым тендерам.
type Statistics struct {
	TotalCount  int64            `json:"total_count"`
	TotalAmount float64          `json:"total_amount"`
	ByType      map[string]int64 `json:"by_type"`
	ByStatus    map[string]int64 `json:"by_status"`
}

const isoLayout = "2006-01-02T15:04:05.999999"

// Summary возвращает плоское представление тендера.
func (t *Tender) Summary() TenderSummary {
	s := TenderSummary{
		Code:            t.Code,
		Name:            t.Name,
		Status:          t.Status,
		Organization:    t.Organization,
		EstimatedAmount: t.EstimatedAmount,
	}
	if t.ClosingDate != nil {
		closing := t.ClosingDate.Format(isoLayout)
		s.ClosingDate = &closing
	}
	if t.TenderType != nil {
		tenderType := string(*t.TenderType)
		s.TenderType = &tenderType
	}
	return s
}

var statusDescriptions = map[int]string{
	1: "Publicada",
	2: "Cerrada",
	3: "Desierta",
	4: "Adjudicada",
	5: "Revocada",
	6: "Suspendida",
	7: "En Evaluación",
}

const notSpecified = "No especificado"

// StatusDescription возвращает читаемое описание кода статуса.
func (t *Tender) StatusDescription() string {
	if t.StatusCode != nil {
		if d, ok := statusDescriptions[*t.StatusCode]; ok {
			return d
		}
	}
	return "Estado desconocido"
}

func (t *Tender) PaymentDescription() string {
	if t.PaymentModality == nil {
		return notSpecified
	}
	return t.PaymentModality.Description()
}

func (t *Tender) PaymentTypeDescription() string {
	if t.PaymentType == nil {
		return notSpecified
	}
	return t.PaymentType.Description()
}

// DurationDescription возвращает длительность контракта вида "12 Meses".
func (t *Tender) DurationDescription() string {
	if t.ContractDuration == nil || *t.ContractDuration == 0 || t.ContractTimeUnit == nil {
		return notSpecified
	}
	return fmt.Sprintf("%d %s", *t.ContractDuration, t.ContractTimeUnit.Description())
}

// IsHighValue - тендеры типов LQ и LR.
func (t *Tender) IsHighValue() bool {
	if t.TenderType == nil {
		return false
	}
	return *t.TenderType == TenderTypeLQ || *t.TenderType == TenderTypeLR
}
