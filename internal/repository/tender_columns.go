package repository

import (
	"strings"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"
)

type column struct {
	name string
	ptr  any
}

// tenderColumns связывает колонки таблицы tenders с полями модели.
// Один и тот же список используется для INSERT, UPDATE и Scan.
func tenderColumns(t *models.Tender) []column {
	return []column{
		{"code", &t.Code},
		{"name", &t.Name},
		{"description", &t.Description},
		{"status", &t.Status},
		{"status_code", &t.StatusCode},
		{"api_version", &t.APIVersion},
		{"tender_type", &t.TenderType},
		{"currency", &t.Currency},
		{"bidding_stages", &t.BiddingStages},
		{"bidding_stages_status", &t.BiddingStagesStatus},
		{"estimated_amount", &t.EstimatedAmount},
		{"estimation_type", &t.EstimationType},
		{"amount_visibility", &t.AmountVisibility},
		{"payment_modality", &t.PaymentModality},
		{"payment_type", &t.PaymentType},
		{"financing_source", &t.FinancingSource},
		{"organization", &t.Organization},
		{"organization_code", &t.OrganizationCode},
		{"organization_tax_id", &t.OrganizationTaxID},
		{"buying_unit", &t.BuyingUnit},
		{"buying_unit_code", &t.BuyingUnitCode},
		{"buying_unit_address", &t.BuyingUnitAddress},
		{"buying_unit_region", &t.BuyingUnitRegion},
		{"buying_unit_commune", &t.BuyingUnitCommune},
		{"user_tax_id", &t.UserTaxID},
		{"user_code", &t.UserCode},
		{"user_name", &t.UserName},
		{"user_position", &t.UserPosition},
		{"creation_date", &t.CreationDate},
		{"publication_date", &t.PublicationDate},
		{"closing_date", &t.ClosingDate},
		{"questions_deadline", &t.QuestionsDeadline},
		{"answers_publication_date", &t.AnswersPublicationDate},
		{"technical_opening_date", &t.TechnicalOpeningDate},
		{"economic_opening_date", &t.EconomicOpeningDate},
		{"award_date", &t.AwardDate},
		{"estimated_award_date", &t.EstimatedAwardDate},
		{"site_visit_date", &t.SiteVisitDate},
		{"background_delivery_date", &t.BackgroundDeliveryDate},
		{"physical_support_date", &t.PhysicalSupportDate},
		{"evaluation_date", &t.EvaluationDate},
		{"estimated_signing_date", &t.EstimatedSigningDate},
		{"user_defined_date", &t.UserDefinedDate},
		{"evaluation_time_unit", &t.EvaluationTimeUnit},
		{"contract_time_unit", &t.ContractTimeUnit},
		{"payment_responsible_name", &t.PaymentResponsibleName},
		{"payment_responsible_email", &t.PaymentResponsibleEmail},
		{"contract_responsible_name", &t.ContractResponsibleName},
		{"contract_responsible_email", &t.ContractResponsibleEmail},
		{"contract_responsible_phone", &t.ContractResponsiblePhone},
		{"allows_subcontracting", &t.AllowsSubcontracting},
		{"contract_duration", &t.ContractDuration},
		{"contract_duration_type", &t.ContractDurationType},
		{"is_renewable", &t.IsRenewable},
		{"renewal_time_value", &t.RenewalTimeValue},
		{"renewal_time_period", &t.RenewalTimePeriod},
		{"requires_comptroller", &t.RequiresComptroller},
		{"technical_offer_publicity", &t.TechnicalOfferPublicity},
		{"publicity_justification", &t.PublicityJustification},
		{"hiring_prohibition", &t.HiringProhibition},
		{"amount_justification", &t.AmountJustification},
		{"deadline_extension", &t.DeadlineExtension},
		{"is_public_bid", &t.IsPublicBid},
		{"is_informed", &t.IsInformed},
		{"is_base_type", &t.IsBaseType},
		{"award_type", &t.AwardType},
		{"award_document_number", &t.AwardDocumentNumber},
		{"award_document_date", &t.AwardDocumentDate},
		{"number_of_bidders", &t.NumberOfBidders},
		{"award_act_url", &t.AwardActURL},
		{"complaint_count", &t.ComplaintCount},
		{"items", &t.Items},
		{"awarded_suppliers", &t.AwardedSuppliers},
		{"created_at", &t.CreatedAt},
		{"updated_at", &t.UpdatedAt},
	}
}

func columnNames(columns []column) string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return strings.Join(names, ", ")
}

func columnPointers(columns []column) []any {
	ptrs := make([]any, len(columns))
	for i, c := range columns {
		ptrs[i] = c.ptr
	}
	return ptrs
}
