package services

import (
	"errors"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"
	"github.com/senyabanana/mercado-publico-monitor/internal/safe"
)

// ErrMissingCode - у записи нет внешнего кода, запись пропускается.
var ErrMissingCode = errors.New("missing required tender code")

// NormalizeTender переводит детальную запись API в модель Tender.
// Каждое поле извлекается независимо: неразбираемое значение даёт nil,
// отсутствующая группа считается пустой. Ошибка возвращается только без кода.
func NormalizeTender(raw models.RawTender) (*models.Tender, error) {
	code := safe.NonEmptyString(raw["CodigoExterno"])
	if code == nil {
		return nil, ErrMissingCode
	}

	buyer := safe.Group(raw, "Comprador")
	dates := safe.Group(raw, "Fechas")
	award := safe.Group(raw, "Adjudicacion")
	items := safe.Objects(safe.Lookup(raw, "Items", "Listado"))

	tender := &models.Tender{
		Code:        *code,
		Name:        safe.String(raw["Nombre"]),
		Description: safe.String(raw["Descripcion"]),
		Status:      safe.String(raw["Estado"]),
		StatusCode:  safe.Int(raw["CodigoEstado"]),
		APIVersion:  safe.String(raw["Version"]),

		TenderType:          models.TenderTypeFromCode(raw["Tipo"]),
		Currency:            models.CurrencyFromCode(raw["Moneda"]),
		BiddingStages:       safe.Int(raw["Etapas"]),
		BiddingStagesStatus: safe.Int(raw["EstadoEtapas"]),

		EstimatedAmount:  safe.Float(raw["MontoEstimado"]),
		EstimationType:   models.EstimationTypeFromCode(raw["Estimacion"]),
		AmountVisibility: safe.Bool(raw["VisibilidadMonto"]),
		PaymentModality:  models.PaymentModalityFromCode(raw["Modalidad"]),
		PaymentType:      models.PaymentTypeFromCode(raw["TipoPago"]),
		FinancingSource:  safe.NonEmptyString(raw["FuenteFinanciamiento"]),

		Organization:      safe.String(buyer["NombreOrganismo"]),
		OrganizationCode:  safe.String(buyer["CodigoOrganismo"]),
		OrganizationTaxID: safe.String(buyer["RutUnidad"]),
		BuyingUnit:        safe.String(buyer["NombreUnidad"]),
		BuyingUnitCode:    safe.String(buyer["CodigoUnidad"]),
		BuyingUnitAddress: safe.String(buyer["DireccionUnidad"]),
		BuyingUnitRegion:  safe.String(buyer["RegionUnidad"]),
		BuyingUnitCommune: safe.String(buyer["ComunaUnidad"]),
		UserTaxID:         safe.String(buyer["RutUsuario"]),
		UserCode:          safe.String(buyer["CodigoUsuario"]),
		UserName:          safe.String(buyer["NombreUsuario"]),
		UserPosition:      safe.String(buyer["CargoUsuario"]),

		CreationDate:           safe.Time(dates["FechaCreacion"]),
		PublicationDate:        safe.Time(dates["FechaPublicacion"]),
		ClosingDate:            safe.Time(dates["FechaCierre"]),
		QuestionsDeadline:      safe.Time(dates["FechaFinal"]),
		AnswersPublicationDate: safe.Time(dates["FechaPubRespuestas"]),
		TechnicalOpeningDate:   safe.Time(dates["FechaActoAperturaTecnica"]),
		EconomicOpeningDate:    safe.Time(dates["FechaActoAperturaEconomica"]),
		AwardDate:              safe.Time(dates["FechaAdjudicacion"]),
		EstimatedAwardDate:     safe.Time(dates["FechaEstimadaAdjudicacion"]),
		SiteVisitDate:          safe.Time(dates["FechaVisitaTerreno"]),
		BackgroundDeliveryDate: safe.Time(dates["FechaEntregaAntecedentes"]),
		PhysicalSupportDate:    safe.Time(dates["FechaSoporteFisico"]),
		EvaluationDate:         safe.Time(dates["FechaTiempoEvaluacion"]),
		EstimatedSigningDate:   safe.Time(dates["FechaEstimadaFirma"]),
		UserDefinedDate:        safe.Time(dates["FechasUsuario"]),

		EvaluationTimeUnit: models.TimeUnitFromCode(raw["UnidadTiempo"]),
		ContractTimeUnit:   models.TimeUnitFromCode(raw["UnidadTiempoContratoLicitacion"]),

		PaymentResponsibleName:   safe.String(raw["NombreResponsablePago"]),
		PaymentResponsibleEmail:  safe.String(raw["EmailResponsablePago"]),
		ContractResponsibleName:  safe.String(raw["NombreResponsableContrato"]),
		ContractResponsibleEmail: safe.String(raw["EmailResponsableContrato"]),
		ContractResponsiblePhone: safe.String(raw["FonoResponsableContrato"]),

		AllowsSubcontracting: safe.Bool(raw["SubContratacion"]),
		ContractDuration:     safe.Int(raw["TiempoDuracionContrato"]),
		ContractDurationType: safe.String(raw["TipoDuracionContrato"]),
		IsRenewable:          safe.Bool(raw["EsRenovable"]),
		RenewalTimeValue:     safe.Int(raw["ValorTiempoRenovacion"]),
		RenewalTimePeriod:    safe.String(raw["PeriodoTiempoRenovacion"]),

		RequiresComptroller:     safe.Bool(raw["TomaRazon"]),
		TechnicalOfferPublicity: safe.Int(raw["EstadoPublicidadOfertas"]),
		PublicityJustification:  safe.String(raw["JustificacionPublicidad"]),
		HiringProhibition:       safe.String(raw["ProhibicionContratacion"]),
		AmountJustification:     safe.String(raw["JustificacionMontoEstimado"]),
		DeadlineExtension:       safe.Int(raw["ExtensionPlazo"]),

		IsPublicBid: safe.Bool(raw["TipoConvocatoria"]),
		IsInformed:  safe.Bool(raw["Informada"]),
		IsBaseType:  safe.Bool(raw["EsBaseTipo"]),

		AwardType:           models.AdministrativeActTypeFromCode(award["Tipo"]),
		AwardDocumentNumber: safe.String(award["Numero"]),
		AwardDocumentDate:   safe.Time(award["Fecha"]),
		NumberOfBidders:     safe.Int(award["NumeroOferentes"]),
		AwardActURL:         safe.String(award["UrlActa"]),
		ComplaintCount:      safe.Int(raw["CantidadReclamos"]),

		Items:            normalizeItems(items),
		AwardedSuppliers: awardedSuppliers(items),
	}
	return tender, nil
}

func normalizeItems(listing []map[string]any) []models.Item {
	items := make([]models.Item, 0, len(listing))
	for _, raw := range listing {
		item := models.Item{
			Correlative:      safe.Int(raw["Correlativo"]),
			CategoryCode:     safe.String(raw["CodigoCategoria"]),
			CategoryName:     safe.String(raw["Categoria"]),
			ProductCode:      safe.String(raw["CodigoProducto"]),
			ProductName:      safe.String(raw["NombreProducto"]),
			Description:      safe.String(raw["Descripcion"]),
			Quantity:         safe.Float(raw["Cantidad"]),
			Unit:             safe.String(raw["UnidadMedida"]),
			TenderStatusCode: safe.Int(raw["CodigoEstadoLicitacion"]),
		}
		if award, ok := raw["Adjudicacion"].(map[string]any); ok && award != nil {
			item.Award = &models.ItemAward{
				SupplierTaxID:   safe.String(award["RutProveedor"]),
				SupplierName:    safe.String(award["NombreProveedor"]),
				AwardedQuantity: safe.Float(award["CantidadAdjudicada"]),
				UnitPrice:       safe.Float(award["MontoUnitario"]),
			}
		}
		items = append(items, item)
	}
	return items
}

// awardedSuppliers собирает поставщиков из присуждений по позициям без повторов.
func awardedSuppliers(listing []map[string]any) []models.AwardedSupplier {
	suppliers := make([]models.AwardedSupplier, 0)
	for _, raw := range listing {
		award, ok := raw["Adjudicacion"].(map[string]any)
		if !ok || award == nil {
			continue
		}

		supplier := models.AwardedSupplier{
			TaxID:           safe.NonEmptyString(award["RutProveedor"]),
			Name:            safe.NonEmptyString(award["NombreProveedor"]),
			ItemCorrelative: safe.Int(raw["Correlativo"]),
			AwardedQuantity: safe.Float(award["CantidadAdjudicada"]),
			UnitPrice:       safe.Float(award["MontoUnitario"]),
		}
		if supplier.TaxID == nil && supplier.Name == nil {
			continue
		}
		if containsSupplier(suppliers, supplier) {
			continue
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers
}

func containsSupplier(suppliers []models.AwardedSupplier, candidate models.AwardedSupplier) bool {
	for _, s := range suppliers {
		if equalPtr(s.TaxID, candidate.TaxID) &&
			equalPtr(s.Name, candidate.Name) &&
			equalPtr(s.ItemCorrelative, candidate.ItemCorrelative) &&
			equalPtr(s.AwardedQuantity, candidate.AwardedQuantity) &&
			equalPtr(s.UnitPrice, candidate.UnitPrice) {
			return true
		}
	}
	return false
}

// equalPtr сравнивает значения по указателям; два nil равны.
func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
